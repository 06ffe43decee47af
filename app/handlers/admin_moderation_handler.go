package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/peykmarket/backoffice/app/dto"
	"github.com/peykmarket/backoffice/app/middleware"
	businessflow "github.com/peykmarket/backoffice/business_flow"
	"github.com/peykmarket/backoffice/utils"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type AdminModerationHandlerInterface interface {
	ApproveCourier(c fiber.Ctx) error
	RejectCourier(c fiber.Ctx) error
	SuspendAccount(c fiber.Ctx) error
	ActivateAccount(c fiber.Ctx) error
	GetAccountDetail(c fiber.Ctx) error
	ListStatusHistory(c fiber.Ctx) error
	ListSuspensions(c fiber.Ctx) error
	ListSuspensionReasons(c fiber.Ctx) error
	ExportStatusHistory(c fiber.Ctx) error
}

type AdminModerationHandler struct {
	flow       businessflow.ModerationFlow
	reportFlow businessflow.ModerationReportFlow
	validator  *validator.Validate
}

func NewAdminModerationHandler(flow businessflow.ModerationFlow, reportFlow businessflow.ModerationReportFlow) AdminModerationHandlerInterface {
	return &AdminModerationHandler{flow: flow, reportFlow: reportFlow, validator: validator.New()}
}

func (h *AdminModerationHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: false, Message: message, Error: dto.ErrorDetail{Code: errorCode, Details: details}})
}

func (h *AdminModerationHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{Success: true, Message: message, Data: data})
}

// ApproveCourier approves a pending courier application
// @Summary Admin Approve Courier Application
// @Tags Admin Moderation
// @Accept json
// @Produce json
// @Param body body dto.ApproveCourierRequest true "Courier to approve"
// @Success 200 {object} dto.APIResponse{data=dto.ModerationResultResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/couriers/approve [post]
func (h *AdminModerationHandler) ApproveCourier(c fiber.Ctx) error {
	var req dto.ApproveCourierRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "VALIDATION_ERROR", nil)
	}
	if err := h.validateRequest(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation error", "VALIDATION_ERROR", err)
	}

	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/couriers/approve")
	res, err := h.flow.ApproveCourier(ctx, &req, h.actorFromContext(c))
	if err != nil {
		middleware.RecordModerationAction("approve_courier", "courier", "error")
		return h.moderationErrorResponse(c, err, "Failed to approve courier", "APPROVE_COURIER_FAILED")
	}
	h.recordOutcome("approve_courier", "courier", res)
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// RejectCourier rejects a pending courier application
// @Summary Admin Reject Courier Application
// @Tags Admin Moderation
// @Accept json
// @Produce json
// @Param body body dto.RejectCourierRequest true "Courier to reject with reason"
// @Success 200 {object} dto.APIResponse{data=dto.ModerationResultResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/couriers/reject [post]
func (h *AdminModerationHandler) RejectCourier(c fiber.Ctx) error {
	var req dto.RejectCourierRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "VALIDATION_ERROR", nil)
	}
	if err := h.validateRequest(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation error", "VALIDATION_ERROR", err)
	}

	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/couriers/reject")
	res, err := h.flow.RejectCourier(ctx, &req, h.actorFromContext(c))
	if err != nil {
		middleware.RecordModerationAction("reject_courier", "courier", "error")
		return h.moderationErrorResponse(c, err, "Failed to reject courier", "REJECT_COURIER_FAILED")
	}
	h.recordOutcome("reject_courier", "courier", res)
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// SuspendAccount suspends a customer or courier and cascades to the linked account
// @Summary Admin Suspend Account
// @Tags Admin Moderation
// @Accept json
// @Produce json
// @Param body body dto.SuspendAccountRequest true "Suspension parameters"
// @Success 200 {object} dto.APIResponse{data=dto.ModerationResultResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/suspend [post]
func (h *AdminModerationHandler) SuspendAccount(c fiber.Ctx) error {
	var req dto.SuspendAccountRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "VALIDATION_ERROR", nil)
	}
	if err := h.validateRequest(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation error", "VALIDATION_ERROR", err)
	}

	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/suspend")
	res, err := h.flow.Suspend(ctx, &req, h.actorFromContext(c))
	if err != nil {
		middleware.RecordModerationAction("suspend", req.Role, "error")
		return h.moderationErrorResponse(c, err, "Failed to suspend account", "SUSPEND_ACCOUNT_FAILED")
	}
	h.recordOutcome("suspend", req.Role, res)
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// ActivateAccount lifts a suspension and returns the account to service
// @Summary Admin Activate Account
// @Tags Admin Moderation
// @Accept json
// @Produce json
// @Param body body dto.ActivateAccountRequest true "Account to activate"
// @Success 200 {object} dto.APIResponse{data=dto.ModerationResultResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/activate [post]
func (h *AdminModerationHandler) ActivateAccount(c fiber.Ctx) error {
	var req dto.ActivateAccountRequest
	if err := c.Bind().Body(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "VALIDATION_ERROR", nil)
	}
	if err := h.validateRequest(req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation error", "VALIDATION_ERROR", err)
	}

	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/activate")
	res, err := h.flow.Activate(ctx, &req, h.actorFromContext(c))
	if err != nil {
		middleware.RecordModerationAction("activate", req.Role, "error")
		return h.moderationErrorResponse(c, err, "Failed to activate account", "ACTIVATE_ACCOUNT_FAILED")
	}
	h.recordOutcome("activate", req.Role, res)
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// GetAccountDetail returns the moderation detail page for one account
// @Summary Admin Get Account Moderation Detail
// @Tags Admin Moderation
// @Produce json
// @Param role path string true "Account role (customer or courier)"
// @Param account_id path int true "Account ID"
// @Success 200 {object} dto.APIResponse{data=dto.AccountModerationDetailResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/accounts/{role}/{account_id} [get]
func (h *AdminModerationHandler) GetAccountDetail(c fiber.Ctx) error {
	role, accountID, err := h.parseAccountParams(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_ERROR", nil)
	}

	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/accounts/"+role+"/"+c.Params("account_id"))
	res, err := h.reportFlow.GetAccountDetail(ctx, role, accountID)
	if err != nil {
		return h.moderationErrorResponse(c, err, "Failed to retrieve account detail", "GET_ACCOUNT_DETAIL_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// ListStatusHistory returns the audit trail for one account
// @Summary Admin List Account Status History
// @Tags Admin Moderation
// @Produce json
// @Param role path string true "Account role (customer or courier)"
// @Param account_id path int true "Account ID"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=dto.ListStatusHistoryResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/accounts/{role}/{account_id}/history [get]
func (h *AdminModerationHandler) ListStatusHistory(c fiber.Ctx) error {
	role, accountID, err := h.parseAccountParams(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_ERROR", nil)
	}
	limit, offset := h.parsePagination(c)

	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/accounts/"+role+"/"+c.Params("account_id")+"/history")
	res, err := h.reportFlow.ListStatusHistory(ctx, role, accountID, limit, offset)
	if err != nil {
		return h.moderationErrorResponse(c, err, "Failed to list status history", "LIST_STATUS_HISTORY_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// ListSuspensions returns the suspension episodes for one account
// @Summary Admin List Account Suspensions
// @Tags Admin Moderation
// @Produce json
// @Param role path string true "Account role (customer or courier)"
// @Param account_id path int true "Account ID"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=dto.ListSuspensionsResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/accounts/{role}/{account_id}/suspensions [get]
func (h *AdminModerationHandler) ListSuspensions(c fiber.Ctx) error {
	role, accountID, err := h.parseAccountParams(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_ERROR", nil)
	}
	limit, offset := h.parsePagination(c)

	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/accounts/"+role+"/"+c.Params("account_id")+"/suspensions")
	res, err := h.reportFlow.ListSuspensions(ctx, role, accountID, limit, offset)
	if err != nil {
		return h.moderationErrorResponse(c, err, "Failed to list suspensions", "LIST_SUSPENSIONS_FAILED")
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// ListSuspensionReasons returns the reason catalog with default durations
// @Summary Admin List Suspension Reasons
// @Tags Admin Moderation
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListSuspensionReasonsResponse}
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/reasons [get]
func (h *AdminModerationHandler) ListSuspensionReasons(c fiber.Ctx) error {
	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/reasons")
	res, err := h.reportFlow.ListSuspensionReasons(ctx)
	if err != nil {
		log.Println("Admin list suspension reasons failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list suspension reasons", "LIST_SUSPENSION_REASONS_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, res.Message, res)
}

// ExportStatusHistory downloads the audit trail as an Excel workbook
// @Summary Admin Export Status History
// @Tags Admin Moderation
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string true "Window start (RFC3339)"
// @Param end_date query string true "Window end (RFC3339)"
// @Success 200 {file} binary
// @Failure 400 {object} dto.APIResponse
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/moderation/history/export [get]
func (h *AdminModerationHandler) ExportStatusHistory(c fiber.Ctx) error {
	startStr := c.Query("start_date")
	endStr := c.Query("end_date")
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid start_date format", "VALIDATION_ERROR", nil)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid end_date format", "VALIDATION_ERROR", nil)
	}

	ctx := h.createRequestContext(c, "/api/v1/admin/moderation/history/export")
	filename, content, err := h.reportFlow.ExportStatusHistoryXLSX(ctx, start, end)
	if err != nil {
		if businessflow.IsValidationError(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_ERROR", nil)
		}
		log.Println("Admin export status history failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export status history", "EXPORT_STATUS_HISTORY_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	return c.Send(content)
}

func (h *AdminModerationHandler) validateRequest(req any) any {
	err := h.validator.Struct(req)
	if err == nil {
		return nil
	}
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		messages := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			messages = append(messages, getValidationErrorMessage(fe))
		}
		return messages
	}
	return err.Error()
}

// moderationErrorResponse maps business errors onto HTTP statuses
func (h *AdminModerationHandler) moderationErrorResponse(c fiber.Ctx, err error, fallbackMsg, fallbackCode string) error {
	switch {
	case businessflow.IsValidationError(err):
		return h.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_ERROR", nil)
	case businessflow.IsAccountNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Account not found", "ACCOUNT_NOT_FOUND", nil)
	case businessflow.IsInvalidTransition(err):
		return h.ErrorResponse(c, fiber.StatusConflict, err.Error(), "INVALID_TRANSITION", nil)
	case businessflow.IsSuspensionAlreadyActive(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Account already has an active suspension", "SUSPENSION_ALREADY_ACTIVE", nil)
	case businessflow.IsAccountBusy(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "Another moderation action is in progress for this account", "ACCOUNT_BUSY", nil)
	default:
		log.Println(fallbackMsg, err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, fallbackMsg, fallbackCode, nil)
	}
}

func (h *AdminModerationHandler) recordOutcome(action, role string, res *dto.ModerationResultResponse) {
	outcome := "applied"
	if !res.PrimaryApplied {
		outcome = "noop"
	}
	middleware.RecordModerationAction(action, role, outcome)
	for _, w := range res.Warnings {
		middleware.RecordModerationWarning(w.Code)
	}
}

func (h *AdminModerationHandler) actorFromContext(c fiber.Ctx) businessflow.Actor {
	var actor businessflow.Actor
	if id, ok := middleware.GetAdminIDFromContext(c); ok {
		actor.ID = id
	}
	if username, ok := middleware.GetAdminUsernameFromContext(c); ok {
		actor.Username = username
	}
	return actor
}

func (h *AdminModerationHandler) parseAccountParams(c fiber.Ctx) (string, uint, error) {
	role := c.Params("role")
	if role != "customer" && role != "courier" {
		return "", 0, fiber.NewError(fiber.StatusBadRequest, "role must be customer or courier")
	}
	idStr := c.Params("account_id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return "", 0, fiber.NewError(fiber.StatusBadRequest, "Invalid account_id")
	}
	return role, uint(id), nil
}

func (h *AdminModerationHandler) parsePagination(c fiber.Ctx) (limit, offset int) {
	limit = defaultPageLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxPageLimit)
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func (h *AdminModerationHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AdminModerationHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
