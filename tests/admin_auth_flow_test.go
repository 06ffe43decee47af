// Package tests contains test cases for models and repository packages to avoid circular imports
package tests

import (
	"testing"
	"time"

	"github.com/peykmarket/backoffice/app/dto"
	"github.com/peykmarket/backoffice/app/services"
	businessflow "github.com/peykmarket/backoffice/business_flow"
	"github.com/peykmarket/backoffice/repository"
	testingutil "github.com/peykmarket/backoffice/testing"
	"github.com/peykmarket/backoffice/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestServices(t *testing.T, testDB *testingutil.TestDB) (businessflow.AdminAuthFlow, repository.AdminRepository, services.TokenService) {
	t.Helper()

	tokenService, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"peyk-backoffice-test",
		"peyk-backoffice-test-api",
		false,
		"",
		"",
		"test-secret-key-with-enough-length-for-hs256",
	)
	require.NoError(t, err)

	adminRepo := repository.NewAdminRepository(testDB.DB)
	return businessflow.NewAdminAuthFlow(adminRepo, tokenService), adminRepo, tokenService
}

func TestAdminLogin(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow, adminRepo, tokenService := newAuthTestServices(t, testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		t.Run("SuccessfulLogin", func(t *testing.T) {
			admin, err := fixtures.CreateTestAdmin("admin.jafari", "S3curePass!word")
			require.NoError(t, err)

			resp, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "admin.jafari",
				Password: "S3curePass!word",
			})
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)
			assert.NotEmpty(t, resp.RefreshToken)
			assert.Equal(t, admin.Username, resp.Admin.Username)

			claims, err := tokenService.ValidateAdminToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, admin.ID, claims.AdminID)
			assert.Equal(t, "access", claims.TokenType)

			// Login records the timestamp
			reloaded, err := adminRepo.ByID(ctx, admin.ID)
			require.NoError(t, err)
			assert.NotNil(t, reloaded.LastLoginAt)
		})

		t.Run("WrongPassword", func(t *testing.T) {
			_, err := fixtures.CreateTestAdmin("admin.naderi", "S3curePass!word")
			require.NoError(t, err)

			_, err = flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "admin.naderi",
				Password: "wrong-password",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidCredentials(err))
		})

		t.Run("UnknownUsernameLooksTheSame", func(t *testing.T) {
			_, err := flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "ghost",
				Password: "whatever-password",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidCredentials(err))
		})

		t.Run("InactiveAdminRejected", func(t *testing.T) {
			admin, err := fixtures.CreateTestAdmin("admin.disabled", "S3curePass!word")
			require.NoError(t, err)
			admin.IsActive = utils.ToPtr(false)
			require.NoError(t, adminRepo.Save(ctx, admin))

			_, err = flow.Login(ctx, &dto.AdminLoginRequest{
				Username: "admin.disabled",
				Password: "S3curePass!word",
			})
			require.Error(t, err)
			assert.True(t, businessflow.IsAdminInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAdminRefreshToken(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow, _, tokenService := newAuthTestServices(t, testDB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		_, err := fixtures.CreateTestAdmin("admin.jafari", "S3curePass!word")
		require.NoError(t, err)

		loginResp, err := flow.Login(ctx, &dto.AdminLoginRequest{
			Username: "admin.jafari",
			Password: "S3curePass!word",
		})
		require.NoError(t, err)

		t.Run("RefreshIssuesNewAccessToken", func(t *testing.T) {
			resp, err := flow.RefreshToken(ctx, &dto.AdminRefreshTokenRequest{
				RefreshToken: loginResp.RefreshToken,
			})
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)

			claims, err := tokenService.ValidateAdminToken(resp.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, "access", claims.TokenType)
		})

		t.Run("AccessTokenCannotRefresh", func(t *testing.T) {
			_, err := flow.RefreshToken(ctx, &dto.AdminRefreshTokenRequest{
				RefreshToken: loginResp.AccessToken,
			})
			assert.Error(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}
