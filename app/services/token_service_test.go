// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		useRSAKeys  bool
		secretKey   string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			useRSAKeys:  false,
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			useRSAKeys:  false,
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "RSA mode without keys",
			useRSAKeys:  true,
			secretKey:   "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				15*time.Minute,
				7*24*time.Hour,
				"test-issuer",
				"test-audience",
				tt.useRSAKeys,
				"",
				"",
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateAdminTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	tests := []struct {
		name    string
		adminID uint
	}{
		{name: "valid admin ID", adminID: 123},
		{name: "zero admin ID", adminID: 0},
		{name: "large admin ID", adminID: 999999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accessToken, refreshToken, err := service.GenerateAdminTokens(tt.adminID)

			assert.NoError(t, err)
			assert.NotEmpty(t, accessToken)
			assert.NotEmpty(t, refreshToken)
			assert.NotEqual(t, accessToken, refreshToken)

			// Valid JWTs share the standard header prefix
			assert.Contains(t, accessToken, "eyJ")
			assert.Contains(t, refreshToken, "eyJ")
		})
	}
}

func TestValidateAdminToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateAdminTokens(123)
	require.NoError(t, err)

	tests := []struct {
		name            string
		token           string
		expectError     bool
		expectTokenType string
	}{
		{
			name:            "valid access token",
			token:           accessToken,
			expectError:     false,
			expectTokenType: "access",
		},
		{
			name:            "valid refresh token",
			token:           refreshToken,
			expectError:     false,
			expectTokenType: "refresh",
		},
		{
			name:        "empty token",
			token:       "",
			expectError: true,
		},
		{
			name:        "invalid token format",
			token:       "invalid.token.format",
			expectError: true,
		},
		{
			name:        "malformed token",
			token:       "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateAdminToken(tt.token)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, uint(123), claims.AdminID)
				assert.Equal(t, tt.expectTokenType, claims.TokenType)
				assert.NotEmpty(t, claims.TokenID)
				assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
			}
		})
	}
}

func TestRefreshAdminToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateAdminTokens(123)
	require.NoError(t, err)

	tests := []struct {
		name         string
		refreshToken string
		expectError  bool
	}{
		{
			name:         "valid refresh token",
			refreshToken: refreshToken,
			expectError:  false,
		},
		{
			name:         "empty refresh token",
			refreshToken: "",
			expectError:  true,
		},
		{
			name:         "invalid refresh token",
			refreshToken: "invalid.token",
			expectError:  true,
		},
		{
			name:         "access token instead of refresh token",
			refreshToken: accessToken,
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newAccessToken, newRefreshToken, err := service.RefreshAdminToken(tt.refreshToken)

			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, newAccessToken)
				assert.Empty(t, newRefreshToken)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, newAccessToken)
				assert.NotEmpty(t, newRefreshToken)
				assert.NotEqual(t, newAccessToken, newRefreshToken)
				assert.NotEqual(t, newRefreshToken, tt.refreshToken)
			}
		})
	}
}

func TestRevokeToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, _, err := service.GenerateAdminTokens(123)
	require.NoError(t, err)

	// Revoking an invalid token fails
	assert.Error(t, service.RevokeToken(""))
	assert.Error(t, service.RevokeToken("invalid.token"))

	// A valid token is usable before revocation and rejected afterwards
	claims, err := service.ValidateAdminToken(accessToken)
	require.NoError(t, err)
	require.NotNil(t, claims)

	require.NoError(t, service.RevokeToken(accessToken))
	assert.True(t, service.IsTokenRevoked(claims.TokenID))

	claims, err = service.ValidateAdminToken(accessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.Nil(t, claims)
}

func TestTokenExpiration(t *testing.T) {
	// Very short TTLs so expiry is observable in the test
	service, err := NewTokenService(1*time.Second, 2*time.Second, "test-issuer", "test-audience", false, "", "", "test-secret-key-for-jwt-signing-32-chars")
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateAdminTokens(123)
	require.NoError(t, err)

	claims, err := service.ValidateAdminToken(accessToken)
	assert.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, uint(123), claims.AdminID)

	time.Sleep(3 * time.Second)

	claims, err = service.ValidateAdminToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	_, _, err = service.RefreshAdminToken(refreshToken)
	assert.Error(t, err)
}

func TestTokenSecurity(t *testing.T) {
	service1, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "issuer1", "audience1", false, "", "", "test-secret-key-1-for-jwt-signing-32-chars")
	require.NoError(t, err)

	service2, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "issuer2", "audience2", false, "", "", "test-secret-key-2-for-jwt-signing-32-chars")
	require.NoError(t, err)

	token1, _, err := service1.GenerateAdminTokens(123)
	require.NoError(t, err)

	token2, _, err := service2.GenerateAdminTokens(123)
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)

	// Tokens signed by one service are rejected by the other
	claims, err := service1.ValidateAdminToken(token2)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = service2.ValidateAdminToken(token1)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	const numGoroutines = 10
	tokens := make(chan string, numGoroutines)
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(adminID uint) {
			accessToken, _, err := service.GenerateAdminTokens(adminID)
			if err != nil {
				errors <- err
				return
			}
			tokens <- accessToken
		}(uint(i + 1))
	}

	generatedTokens := make(map[string]bool)
	for i := 0; i < numGoroutines; i++ {
		select {
		case token := <-tokens:
			assert.NotEmpty(t, token)
			assert.False(t, generatedTokens[token], "Duplicate token generated")
			generatedTokens[token] = true
		case err := <-errors:
			t.Errorf("Error generating token: %v", err)
		}
	}

	assert.Equal(t, numGoroutines, len(generatedTokens))
}

func BenchmarkGenerateAdminTokens(b *testing.B) {
	service, err := createTestTokenService()
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := service.GenerateAdminTokens(uint(i))
		require.NoError(b, err)
	}
}

func BenchmarkValidateAdminToken(b *testing.B) {
	service, err := createTestTokenService()
	require.NoError(b, err)

	token, _, err := service.GenerateAdminTokens(123)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.ValidateAdminToken(token)
		require.NoError(b, err)
	}
}
