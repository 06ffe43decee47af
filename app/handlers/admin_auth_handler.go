package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/peykmarket/backoffice/app/dto"
	businessflow "github.com/peykmarket/backoffice/business_flow"
	"github.com/peykmarket/backoffice/utils"
)

type AdminAuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	RefreshToken(c fiber.Ctx) error
}

type AdminAuthHandler struct {
	flow      businessflow.AdminAuthFlow
	validator *validator.Validate
}

func NewAdminAuthHandler(flow businessflow.AdminAuthFlow) AdminAuthHandlerInterface {
	return &AdminAuthHandler{flow: flow, validator: validator.New()}
}

func (h *AdminAuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: errorCode, Details: details}})
}

func (h *AdminAuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// Login authenticates a back-office admin
// @Summary Admin Login
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param body body dto.AdminLoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminLoginResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/auth/login [post]
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "VALIDATION_ERROR", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation error", "VALIDATION_ERROR", err.Error())
	}

	ctx := h.createRequestContext(c, "/api/v1/admin/auth/login")
	res, err := h.flow.Login(ctx, &req)
	if err != nil {
		if businessflow.IsInvalidCredentials(err) || businessflow.IsAdminInactive(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS", nil)
		}
		log.Println("Admin login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "ADMIN_LOGIN_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary Admin Refresh Tokens
// @Tags Admin Auth
// @Accept json
// @Produce json
// @Param body body dto.AdminRefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.AdminRefreshTokenResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 401 {object} dto.APIResponse
// @Router /api/v1/admin/auth/refresh [post]
func (h *AdminAuthHandler) RefreshToken(c fiber.Ctx) error {
	var req dto.AdminRefreshTokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "VALIDATION_ERROR", nil)
	}
	if err := h.validator.Struct(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation error", "VALIDATION_ERROR", err.Error())
	}

	ctx := h.createRequestContext(c, "/api/v1/admin/auth/refresh")
	res, err := h.flow.RefreshToken(ctx, &req)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", "TOKEN_REFRESH_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

func (h *AdminAuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
