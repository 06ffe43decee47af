// Package businessflow contains the business logic for account moderation.
package businessflow

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/peykmarket/backoffice/app/dto"
	"github.com/peykmarket/backoffice/app/services"
	"github.com/peykmarket/backoffice/repository"
	"github.com/peykmarket/backoffice/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminInactive      = errors.New("admin account is inactive")
)

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

// AdminAuthFlow handles back-office admin authentication
type AdminAuthFlow interface {
	Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error)
	RefreshToken(ctx context.Context, req *dto.AdminRefreshTokenRequest) (*dto.AdminRefreshTokenResponse, error)
}

// AdminAuthFlowImpl implements the admin authentication flow
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	tokenService services.TokenService
}

// NewAdminAuthFlow creates a new admin auth flow instance
func NewAdminAuthFlow(adminRepo repository.AdminRepository, tokenService services.TokenService) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		tokenService: tokenService,
	}
}

// Login verifies the admin's credentials and issues a token pair. Lookup
// failures and bad passwords return the same error so usernames cannot be
// probed.
func (f *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest) (*dto.AdminLoginResponse, error) {
	admin, err := f.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Login failed", err)
	}
	if admin == nil {
		return nil, NewBusinessError("ADMIN_INVALID_CREDENTIALS", "Invalid username or password", ErrInvalidCredentials)
	}
	if !utils.IsTrue(admin.IsActive) {
		return nil, NewBusinessError("ADMIN_INACTIVE", "Admin account is inactive", ErrAdminInactive)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewBusinessError("ADMIN_INVALID_CREDENTIALS", "Invalid username or password", ErrInvalidCredentials)
	}

	accessToken, refreshToken, err := f.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("ADMIN_TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	admin.LastLoginAt = utils.UTCNowPtr()
	if err := f.adminRepo.Save(ctx, admin); err != nil {
		// Login stands even when the last-login stamp cannot be written
		log.Printf("failed to record last login for admin %d: %v", admin.ID, err)
	}

	return &dto.AdminLoginResponse{
		Message:      "Login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Admin: dto.AdminDTO{
			ID:          admin.ID,
			Username:    admin.Username,
			Email:       admin.Email,
			LastLoginAt: admin.LastLoginAt,
		},
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (f *AdminAuthFlowImpl) RefreshToken(ctx context.Context, req *dto.AdminRefreshTokenRequest) (*dto.AdminRefreshTokenResponse, error) {
	accessToken, refreshToken, err := f.tokenService.RefreshAdminToken(req.RefreshToken)
	if err != nil {
		return nil, NewBusinessError("ADMIN_TOKEN_REFRESH_FAILED", "Failed to refresh tokens", err)
	}
	return &dto.AdminRefreshTokenResponse{
		Message:      "Tokens refreshed successfully",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
