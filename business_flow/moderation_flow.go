// Package businessflow contains the business logic for account moderation.
package businessflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/peykmarket/backoffice/app/dto"
	"github.com/peykmarket/backoffice/app/services"
	"github.com/peykmarket/backoffice/models"
	"github.com/peykmarket/backoffice/repository"
	"github.com/peykmarket/backoffice/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ModerationFlow handles courier application review, suspensions and
// reinstatements, including the mirror onto a linked account that shares the
// same email under the opposite role.
type ModerationFlow interface {
	ApproveCourier(ctx context.Context, req *dto.ApproveCourierRequest, actor Actor) (*dto.ModerationResultResponse, error)
	RejectCourier(ctx context.Context, req *dto.RejectCourierRequest, actor Actor) (*dto.ModerationResultResponse, error)
	Suspend(ctx context.Context, req *dto.SuspendAccountRequest, actor Actor) (*dto.ModerationResultResponse, error)
	Activate(ctx context.Context, req *dto.ActivateAccountRequest, actor Actor) (*dto.ModerationResultResponse, error)
}

// ModerationFlowImpl implements the moderation business flow
type ModerationFlowImpl struct {
	accounts        repository.AccountStore
	suspensionRepo  repository.SuspensionRepository
	historyRepo     repository.StatusHistoryRepository
	notificationSvc services.NotificationService
	redisClient     *redis.Client
	db              *gorm.DB
}

// NewModerationFlow creates a new moderation flow instance
func NewModerationFlow(
	accounts repository.AccountStore,
	suspensionRepo repository.SuspensionRepository,
	historyRepo repository.StatusHistoryRepository,
	notificationSvc services.NotificationService,
	redisClient *redis.Client,
	db *gorm.DB,
) ModerationFlow {
	return &ModerationFlowImpl{
		accounts:        accounts,
		suspensionRepo:  suspensionRepo,
		historyRepo:     historyRepo,
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		db:              db,
	}
}

// ApproveCourier moves a pending courier application to approved and marks the
// background check approved in the same write.
func (f *ModerationFlowImpl) ApproveCourier(ctx context.Context, req *dto.ApproveCourierRequest, actor Actor) (*dto.ModerationResultResponse, error) {
	result := &ModerationResult{}
	f.checkActor(actor, result)

	unlock := lockAccount(models.RoleCourier, req.CourierID)
	defer unlock()

	courier, err := f.accounts.ByID(ctx, models.RoleCourier, req.CourierID)
	if err != nil {
		return nil, NewBusinessError("COURIER_LOOKUP_FAILED", "Failed to load courier", err)
	}
	if courier == nil {
		return nil, NewBusinessError("COURIER_NOT_FOUND", "Courier not found", ErrCourierNotFound)
	}

	if err := CanTransition(models.RoleCourier, courier.Status, models.AccountStatusApproved); err != nil {
		return nil, NewBusinessError("COURIER_APPROVE_NOT_PERMITTED",
			fmt.Sprintf("Courier cannot be approved from status %q", courier.Status), err)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.accounts.UpdateStatus(txCtx, models.RoleCourier, req.CourierID, repository.StatusChange{
			Status:                 models.AccountStatusApproved,
			ApproveBackgroundCheck: true,
		})
	})
	if err != nil {
		return nil, NewBusinessError("COURIER_APPROVE_FAILED", "Failed to approve courier", fmt.Errorf("%w: %v", ErrPrimaryWriteFailed, err))
	}
	result.PrimaryApplied = true

	f.recordHistory(ctx, result, &models.StatusHistoryEntry{
		AccountID: courier.ID,
		Role:      models.RoleCourier,
		OldStatus: courier.Status,
		NewStatus: models.AccountStatusApproved,
		Reason:    "application approved",
		ActionBy:  actor.Identifier(),
	})

	if err := f.notificationSvc.NotifyApplicationDecision(courier.Email, true, ""); err != nil {
		result.warn(WarnNotificationFailed, fmt.Sprintf("failed to notify courier %d: %v", courier.ID, err))
	}

	return f.buildResult(result, "Courier application approved successfully",
		courier.ID, models.RoleCourier, models.AccountStatusApproved, nil), nil
}

// RejectCourier moves a pending courier application to rejected. A rejection
// reason is mandatory and is persisted on the courier row.
func (f *ModerationFlowImpl) RejectCourier(ctx context.Context, req *dto.RejectCourierRequest, actor Actor) (*dto.ModerationResultResponse, error) {
	if req.Reason == "" {
		return nil, NewBusinessError("COURIER_REJECT_REASON_REQUIRED", "A rejection reason is required", ErrReasonRequired)
	}

	result := &ModerationResult{}
	f.checkActor(actor, result)

	unlock := lockAccount(models.RoleCourier, req.CourierID)
	defer unlock()

	courier, err := f.accounts.ByID(ctx, models.RoleCourier, req.CourierID)
	if err != nil {
		return nil, NewBusinessError("COURIER_LOOKUP_FAILED", "Failed to load courier", err)
	}
	if courier == nil {
		return nil, NewBusinessError("COURIER_NOT_FOUND", "Courier not found", ErrCourierNotFound)
	}

	if err := CanTransition(models.RoleCourier, courier.Status, models.AccountStatusRejected); err != nil {
		return nil, NewBusinessError("COURIER_REJECT_NOT_PERMITTED",
			fmt.Sprintf("Courier cannot be rejected from status %q", courier.Status), err)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		return f.accounts.UpdateStatus(txCtx, models.RoleCourier, req.CourierID, repository.StatusChange{
			Status:          models.AccountStatusRejected,
			RejectionReason: &req.Reason,
		})
	})
	if err != nil {
		return nil, NewBusinessError("COURIER_REJECT_FAILED", "Failed to reject courier", fmt.Errorf("%w: %v", ErrPrimaryWriteFailed, err))
	}
	result.PrimaryApplied = true

	f.recordHistory(ctx, result, &models.StatusHistoryEntry{
		AccountID: courier.ID,
		Role:      models.RoleCourier,
		OldStatus: courier.Status,
		NewStatus: models.AccountStatusRejected,
		Reason:    req.Reason,
		ActionBy:  actor.Identifier(),
	})

	if err := f.notificationSvc.NotifyApplicationDecision(courier.Email, false, req.Reason); err != nil {
		result.warn(WarnNotificationFailed, fmt.Sprintf("failed to notify courier %d: %v", courier.ID, err))
	}

	return f.buildResult(result, "Courier application rejected",
		courier.ID, models.RoleCourier, models.AccountStatusRejected, nil), nil
}

// Suspend takes a customer or courier out of service, opens a suspension
// record, and mirrors the suspension onto a linked account with the same
// email under the opposite role. The primary write is atomic; the mirror and
// the audit append are best effort and surface as warnings.
func (f *ModerationFlowImpl) Suspend(ctx context.Context, req *dto.SuspendAccountRequest, actor Actor) (*dto.ModerationResultResponse, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, NewBusinessError("SUSPEND_INVALID_ROLE", fmt.Sprintf("Unknown role %q", req.Role), ErrInvalidRole)
	}
	if req.Reason == "" {
		return nil, NewBusinessError("SUSPEND_REASON_REQUIRED", "A suspension reason is required", ErrReasonRequired)
	}
	reason, ok := LookupSuspensionReason(req.Reason)
	if !ok {
		return nil, NewBusinessError("SUSPEND_UNKNOWN_REASON", fmt.Sprintf("Suspension reason %q is not recognized", req.Reason), ErrUnknownSuspensionReason)
	}
	if !req.IsPermanent && req.DurationDays != 0 && !ValidDurationDays(req.DurationDays) {
		return nil, NewBusinessError("SUSPEND_INVALID_DURATION",
			fmt.Sprintf("%d days is not an allowed suspension duration", req.DurationDays), ErrInvalidDuration)
	}

	result := &ModerationResult{}
	f.checkActor(actor, result)

	unlock := lockAccount(role, req.AccountID)
	defer unlock()
	releaseLock, err := acquireDistributedLock(ctx, f.redisClient, role, req.AccountID)
	if err != nil {
		if IsAccountBusy(err) {
			return nil, NewBusinessError("SUSPEND_ACCOUNT_BUSY", "Another moderation action is in progress for this account", err)
		}
		result.warn(WarnLockUnavailable, fmt.Sprintf("distributed lock unavailable: %v", err))
		releaseLock = func() {}
	}
	defer releaseLock()

	account, err := f.accounts.ByID(ctx, role, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("SUSPEND_LOOKUP_FAILED", "Failed to load account", err)
	}
	if account == nil {
		return nil, NewBusinessError("SUSPEND_ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}
	if account.Status == models.AccountStatusSuspended {
		return nil, NewBusinessError("SUSPEND_ALREADY_SUSPENDED", "Account is already suspended", ErrSuspensionAlreadyActive)
	}
	if err := CanTransition(role, account.Status, models.AccountStatusSuspended); err != nil {
		return nil, NewBusinessError("SUSPEND_NOT_PERMITTED",
			fmt.Sprintf("Account cannot be suspended from status %q", account.Status), err)
	}

	durationDays := ResolveDurationDays(reason, req.DurationDays, req.IsPermanent)
	liftDate := ComputeLiftDate(utils.UTCNow(), durationDays, req.IsPermanent)

	record := &models.SuspensionRecord{
		AccountID:         account.ID,
		Role:              role,
		Reason:            reason.Reason,
		Notes:             req.Notes,
		EvidenceURLs:      req.EvidenceURLs,
		DurationDays:      durationDays,
		IsPermanent:       req.IsPermanent,
		ScheduledLiftDate: liftDate,
		SuspendedBy:       actor.Identifier(),
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		active, err := f.suspensionRepo.ActiveByAccount(txCtx, role, account.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrSuspensionAlreadyActive
		}
		if err := f.accounts.UpdateStatus(txCtx, role, account.ID, repository.StatusChange{
			Status: models.AccountStatusSuspended,
		}); err != nil {
			return err
		}
		return f.suspensionRepo.Save(txCtx, record)
	})
	if err != nil {
		if IsSuspensionAlreadyActive(err) {
			return nil, NewBusinessError("SUSPEND_ALREADY_SUSPENDED", "Account already has an active suspension", err)
		}
		return nil, NewBusinessError("SUSPEND_FAILED", "Failed to suspend account", fmt.Errorf("%w: %v", ErrPrimaryWriteFailed, err))
	}
	result.PrimaryApplied = true

	f.recordHistory(ctx, result, &models.StatusHistoryEntry{
		AccountID: account.ID,
		Role:      role,
		OldStatus: account.Status,
		NewStatus: models.AccountStatusSuspended,
		Reason:    reason.Reason,
		Notes:     req.Notes,
		ActionBy:  actor.Identifier(),
	})

	if err := f.notificationSvc.NotifyAccountSuspended(account.Email, role.String(), reason.Reason, liftDate); err != nil {
		result.warn(WarnNotificationFailed, fmt.Sprintf("failed to notify account %d: %v", account.ID, err))
	}

	f.mirrorSuspension(ctx, result, account, reason, req, actor, durationDays, liftDate)

	resp := f.buildResult(result, "Account suspended successfully",
		account.ID, role, models.AccountStatusSuspended, liftDate)
	resp.SuspensionID = &record.ID
	return resp, nil
}

// Activate returns a suspended account to its in-service status and closes
// the open suspension record. Activating an account that is already in
// service is a no-op reported through a warning, not an error.
func (f *ModerationFlowImpl) Activate(ctx context.Context, req *dto.ActivateAccountRequest, actor Actor) (*dto.ModerationResultResponse, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, NewBusinessError("ACTIVATE_INVALID_ROLE", fmt.Sprintf("Unknown role %q", req.Role), ErrInvalidRole)
	}

	result := &ModerationResult{}
	f.checkActor(actor, result)

	unlock := lockAccount(role, req.AccountID)
	defer unlock()
	releaseLock, err := acquireDistributedLock(ctx, f.redisClient, role, req.AccountID)
	if err != nil {
		if IsAccountBusy(err) {
			return nil, NewBusinessError("ACTIVATE_ACCOUNT_BUSY", "Another moderation action is in progress for this account", err)
		}
		result.warn(WarnLockUnavailable, fmt.Sprintf("distributed lock unavailable: %v", err))
		releaseLock = func() {}
	}
	defer releaseLock()

	account, err := f.accounts.ByID(ctx, role, req.AccountID)
	if err != nil {
		return nil, NewBusinessError("ACTIVATE_LOOKUP_FAILED", "Failed to load account", err)
	}
	if account == nil {
		return nil, NewBusinessError("ACTIVATE_ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	target := InServiceStatus(role)
	if account.Status.InService() {
		result.warn(WarnAlreadyInService, "account is already in service, no change applied")
		return f.buildResult(result, "No change required", account.ID, role, account.Status, nil), nil
	}
	if err := CanTransition(role, account.Status, target); err != nil {
		return nil, NewBusinessError("ACTIVATE_NOT_PERMITTED",
			fmt.Sprintf("Account cannot be activated from status %q", account.Status), err)
	}

	var hadActiveSuspension bool
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.accounts.UpdateStatus(txCtx, role, account.ID, repository.StatusChange{Status: target}); err != nil {
			return err
		}
		active, err := f.suspensionRepo.ActiveByAccount(txCtx, role, account.ID)
		if err != nil {
			return err
		}
		if active == nil {
			return nil
		}
		hadActiveSuspension = true
		return f.suspensionRepo.Close(txCtx, active.ID, actor.Identifier(), utils.UTCNow())
	})
	if err != nil {
		return nil, NewBusinessError("ACTIVATE_FAILED", "Failed to activate account", fmt.Errorf("%w: %v", ErrPrimaryWriteFailed, err))
	}
	result.PrimaryApplied = true
	if !hadActiveSuspension {
		result.warn(WarnNoActiveSuspension, "account was suspended but no active suspension record was found")
	}

	f.recordHistory(ctx, result, &models.StatusHistoryEntry{
		AccountID: account.ID,
		Role:      role,
		OldStatus: account.Status,
		NewStatus: target,
		Reason:    "suspension lifted",
		ActionBy:  actor.Identifier(),
	})

	if err := f.notificationSvc.NotifyAccountReinstated(account.Email, role.String()); err != nil {
		result.warn(WarnNotificationFailed, fmt.Sprintf("failed to notify account %d: %v", account.ID, err))
	}

	f.mirrorActivation(ctx, result, account, actor)

	return f.buildResult(result, "Account activated successfully", account.ID, role, target, nil), nil
}

// mirrorSuspension suspends the linked opposite-role account sharing the same
// email, in its own transaction. Failures never undo the primary suspension.
func (f *ModerationFlowImpl) mirrorSuspension(
	ctx context.Context,
	result *ModerationResult,
	primary *repository.AccountView,
	reason *SuspensionReason,
	req *dto.SuspendAccountRequest,
	actor Actor,
	durationDays int,
	liftDate *time.Time,
) {
	linked, ok := f.lookupLinked(ctx, result, primary)
	if !ok || linked == nil {
		return
	}

	if linked.Status == models.AccountStatusSuspended {
		result.LinkedApplied = utils.ToPtr(false)
		result.warn(WarnLinkedAlreadySynced, fmt.Sprintf("linked %s account %d is already suspended", linked.Role, linked.ID))
		return
	}
	if err := CanTransition(linked.Role, linked.Status, models.AccountStatusSuspended); err != nil {
		result.LinkedApplied = utils.ToPtr(false)
		result.warn(WarnLinkedMirrorFailed,
			fmt.Sprintf("linked %s account %d cannot be suspended from status %q", linked.Role, linked.ID, linked.Status))
		return
	}

	mirror := &models.SuspensionRecord{
		AccountID:         linked.ID,
		Role:              linked.Role,
		Reason:            reason.Reason,
		Notes:             fmt.Sprintf("Associated %s suspended — %s", primary.Role, req.Notes),
		EvidenceURLs:      req.EvidenceURLs,
		DurationDays:      durationDays,
		IsPermanent:       req.IsPermanent,
		ScheduledLiftDate: liftDate,
		SuspendedBy:       actor.Identifier(),
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		active, err := f.suspensionRepo.ActiveByAccount(txCtx, linked.Role, linked.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrSuspensionAlreadyActive
		}
		if err := f.accounts.UpdateStatus(txCtx, linked.Role, linked.ID, repository.StatusChange{
			Status: models.AccountStatusSuspended,
		}); err != nil {
			return err
		}
		return f.suspensionRepo.Save(txCtx, mirror)
	})
	if err != nil {
		result.LinkedApplied = utils.ToPtr(false)
		result.warn(WarnLinkedMirrorFailed, fmt.Sprintf("failed to suspend linked %s account %d: %v", linked.Role, linked.ID, err))
		return
	}
	result.LinkedApplied = utils.ToPtr(true)

	f.recordHistory(ctx, result, &models.StatusHistoryEntry{
		AccountID: linked.ID,
		Role:      linked.Role,
		OldStatus: linked.Status,
		NewStatus: models.AccountStatusSuspended,
		Reason:    fmt.Sprintf("Associated %s suspended — %s", primary.Role, reason.Reason),
		Notes:     mirror.Notes,
		ActionBy:  actor.Identifier(),
		Cascaded:  true,
	})
}

// mirrorActivation reinstates the linked opposite-role account, but only when
// that account is itself suspended.
func (f *ModerationFlowImpl) mirrorActivation(
	ctx context.Context,
	result *ModerationResult,
	primary *repository.AccountView,
	actor Actor,
) {
	linked, ok := f.lookupLinked(ctx, result, primary)
	if !ok || linked == nil {
		return
	}
	if linked.Status != models.AccountStatusSuspended {
		return
	}

	target := InServiceStatus(linked.Role)
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.accounts.UpdateStatus(txCtx, linked.Role, linked.ID, repository.StatusChange{Status: target}); err != nil {
			return err
		}
		active, err := f.suspensionRepo.ActiveByAccount(txCtx, linked.Role, linked.ID)
		if err != nil {
			return err
		}
		if active == nil {
			return nil
		}
		return f.suspensionRepo.Close(txCtx, active.ID, actor.Identifier(), utils.UTCNow())
	})
	if err != nil {
		result.LinkedApplied = utils.ToPtr(false)
		result.warn(WarnLinkedMirrorFailed, fmt.Sprintf("failed to activate linked %s account %d: %v", linked.Role, linked.ID, err))
		return
	}
	result.LinkedApplied = utils.ToPtr(true)

	f.recordHistory(ctx, result, &models.StatusHistoryEntry{
		AccountID: linked.ID,
		Role:      linked.Role,
		OldStatus: linked.Status,
		NewStatus: target,
		Reason:    fmt.Sprintf("Associated %s reinstated — suspension lifted", primary.Role),
		Notes:     fmt.Sprintf("Associated %s reinstated", primary.Role),
		ActionBy:  actor.Identifier(),
		Cascaded:  true,
	})
}

// lookupLinked finds the opposite-role account sharing the primary's email.
// The second return value is false when the lookup itself failed.
func (f *ModerationFlowImpl) lookupLinked(ctx context.Context, result *ModerationResult, primary *repository.AccountView) (*repository.AccountView, bool) {
	if primary.Email == "" {
		return nil, true
	}
	linked, err := f.accounts.ByEmail(ctx, primary.Role.Opposite(), primary.Email)
	if err != nil {
		result.warn(WarnLinkedLookupFailed, fmt.Sprintf("failed to look up linked account for %s: %v", primary.Email, err))
		return nil, false
	}
	return linked, true
}

func (f *ModerationFlowImpl) checkActor(actor Actor, result *ModerationResult) {
	if actor.IsZero() {
		result.warn(WarnActorMissing, "no acting admin supplied, recording action as unknown")
	}
}

// recordHistory appends an audit trail entry outside the primary transaction.
// A failed append never fails the action; it surfaces as a warning.
func (f *ModerationFlowImpl) recordHistory(ctx context.Context, result *ModerationResult, entry *models.StatusHistoryEntry) {
	if err := f.historyRepo.Save(ctx, entry); err != nil {
		log.Printf("request %q: audit append failed for %s account %d: %v",
			requestIDFromContext(ctx), entry.Role, entry.AccountID, err)
		result.warn(WarnHistoryWriteFailed,
			fmt.Sprintf("failed to record status change for %s account %d: %v", entry.Role, entry.AccountID, err))
	}
}

func (f *ModerationFlowImpl) buildResult(
	result *ModerationResult,
	message string,
	accountID uint,
	role models.Role,
	newStatus models.AccountStatus,
	liftDate *time.Time,
) *dto.ModerationResultResponse {
	return &dto.ModerationResultResponse{
		Message:           message,
		AccountID:         accountID,
		Role:              role.String(),
		NewStatus:         newStatus.String(),
		PrimaryApplied:    result.PrimaryApplied,
		LinkedApplied:     result.LinkedApplied,
		ScheduledLiftDate: liftDate,
		Warnings:          warningsToDTO(result.Warnings),
	}
}

func warningsToDTO(warnings []Warning) []dto.WarningDTO {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]dto.WarningDTO, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, dto.WarningDTO{Code: w.Code, Message: w.Message})
	}
	return out
}
