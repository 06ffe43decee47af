// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/peykmarket/backoffice/app/dto"
	"github.com/peykmarket/backoffice/app/services"
	"github.com/peykmarket/backoffice/repository"
	"github.com/peykmarket/backoffice/utils"
)

// AuthMiddleware validates admin JWTs for protected back-office endpoints
type AuthMiddleware struct {
	tokenService services.TokenService
	adminRepo    repository.AdminRepository
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokenService services.TokenService, adminRepo repository.AdminRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		adminRepo:    adminRepo,
	}
}

// AdminAuthenticate validates the admin JWT, confirms the admin still exists
// and is active, and stores the admin identity for downstream handlers.
func (m *AuthMiddleware) AdminAuthenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Authorization header is required",
				Error:   dto.ErrorDetail{Code: "MISSING_AUTHORIZATION_HEADER"},
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Invalid authorization header format. Expected 'Bearer <token>'",
				Error:   dto.ErrorDetail{Code: "INVALID_AUTHORIZATION_FORMAT"},
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Access token is required",
				Error:   dto.ErrorDetail{Code: "MISSING_ACCESS_TOKEN"},
			})
		}

		claims, err := m.tokenService.ValidateAdminToken(token)
		if err != nil {
			var code, msg string
			if errors.Is(err, services.ErrTokenExpired) {
				code = "TOKEN_EXPIRED"
				msg = "Access token has expired"
			} else if errors.Is(err, services.ErrTokenInvalid) {
				code = "TOKEN_INVALID"
				msg = "Invalid access token"
			} else if errors.Is(err, services.ErrTokenRevoked) {
				code = "TOKEN_REVOKED"
				msg = "Access token has been revoked"
			} else {
				code = "TOKEN_VALIDATION_FAILED"
				msg = "Token validation failed"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{Success: false, Message: msg, Error: dto.ErrorDetail{Code: code}})
		}

		if claims.TokenType != "access" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Refresh tokens cannot be used for authentication",
				Error:   dto.ErrorDetail{Code: "WRONG_TOKEN_TYPE"},
			})
		}

		lookupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := m.adminRepo.ByID(lookupCtx, claims.AdminID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
				Success: false,
				Message: "Failed to verify admin account",
				Error:   dto.ErrorDetail{Code: "ADMIN_LOOKUP_FAILED"},
			})
		}
		if admin == nil || !utils.IsTrue(admin.IsActive) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Admin account is not active",
				Error:   dto.ErrorDetail{Code: "ADMIN_INACTIVE"},
			})
		}

		c.Locals("admin_id", admin.ID)
		c.Locals("admin_username", admin.Username)
		c.Locals("token_id", claims.TokenID)
		c.Locals("token_claims", claims)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// GetAdminIDFromContext extracts admin ID from the request context
func GetAdminIDFromContext(c fiber.Ctx) (uint, bool) {
	adminID, ok := c.Locals("admin_id").(uint)
	return adminID, ok
}

// GetAdminUsernameFromContext extracts the admin username from the request context
func GetAdminUsernameFromContext(c fiber.Ctx) (string, bool) {
	username, ok := c.Locals("admin_username").(string)
	return username, ok
}

// GetTokenClaimsFromContext extracts token claims from the request context
func GetTokenClaimsFromContext(c fiber.Ctx) (*services.AdminTokenClaims, bool) {
	claims, ok := c.Locals("token_claims").(*services.AdminTokenClaims)
	return claims, ok
}

// RequireAdminAuth ensures admin authentication is present
func RequireAdminAuth(c fiber.Ctx) error {
	adminID, exists := GetAdminIDFromContext(c)
	if !exists {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Admin authentication required",
			Error:   dto.ErrorDetail{Code: "ADMIN_AUTHENTICATION_REQUIRED"},
		})
	}
	if adminID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid admin ID",
			Error:   dto.ErrorDetail{Code: "INVALID_ADMIN_ID"},
		})
	}
	return nil
}
