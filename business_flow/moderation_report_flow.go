// Package businessflow contains the business logic for account moderation.
package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/peykmarket/backoffice/app/dto"
	"github.com/peykmarket/backoffice/models"
	"github.com/peykmarket/backoffice/repository"
	"github.com/xuri/excelize/v2"
)

const recentHistoryLimit = 10

// ModerationReportFlow provides the back-office read side: account detail
// pages, history and suspension listings, the reason catalog, and the audit
// trail export.
type ModerationReportFlow interface {
	GetAccountDetail(ctx context.Context, role string, accountID uint) (*dto.AccountModerationDetailResponse, error)
	ListStatusHistory(ctx context.Context, role string, accountID uint, limit, offset int) (*dto.ListStatusHistoryResponse, error)
	ListSuspensions(ctx context.Context, role string, accountID uint, limit, offset int) (*dto.ListSuspensionsResponse, error)
	ListSuspensionReasons(ctx context.Context) (*dto.ListSuspensionReasonsResponse, error)
	ExportStatusHistoryXLSX(ctx context.Context, start, end time.Time) (string, []byte, error)
}

// ModerationReportFlowImpl implements the moderation report flow
type ModerationReportFlowImpl struct {
	accounts       repository.AccountStore
	suspensionRepo repository.SuspensionRepository
	historyRepo    repository.StatusHistoryRepository
}

// NewModerationReportFlow creates a new moderation report flow instance
func NewModerationReportFlow(
	accounts repository.AccountStore,
	suspensionRepo repository.SuspensionRepository,
	historyRepo repository.StatusHistoryRepository,
) ModerationReportFlow {
	return &ModerationReportFlowImpl{
		accounts:       accounts,
		suspensionRepo: suspensionRepo,
		historyRepo:    historyRepo,
	}
}

// GetAccountDetail assembles the moderation detail page for one account: the
// account itself, its linked opposite-role account, the open suspension if
// any, and the most recent history entries.
func (f *ModerationReportFlowImpl) GetAccountDetail(ctx context.Context, roleStr string, accountID uint) (*dto.AccountModerationDetailResponse, error) {
	role := models.Role(roleStr)
	if !role.Valid() {
		return nil, NewBusinessError("DETAIL_INVALID_ROLE", fmt.Sprintf("Unknown role %q", roleStr), ErrInvalidRole)
	}

	account, err := f.accounts.ByID(ctx, role, accountID)
	if err != nil {
		return nil, NewBusinessError("DETAIL_LOOKUP_FAILED", "Failed to load account", err)
	}
	if account == nil {
		return nil, NewBusinessError("DETAIL_ACCOUNT_NOT_FOUND", "Account not found", ErrAccountNotFound)
	}

	resp := &dto.AccountModerationDetailResponse{
		Message: "Account detail retrieved successfully",
		Account: accountViewToDTO(account),
	}

	if account.Email != "" {
		linked, err := f.accounts.ByEmail(ctx, role.Opposite(), account.Email)
		if err != nil {
			return nil, NewBusinessError("DETAIL_LINKED_LOOKUP_FAILED", "Failed to load linked account", err)
		}
		if linked != nil {
			linkedDTO := accountViewToDTO(linked)
			resp.LinkedAccount = &linkedDTO
		}
	}

	active, err := f.suspensionRepo.ActiveByAccount(ctx, role, accountID)
	if err != nil {
		return nil, NewBusinessError("DETAIL_SUSPENSION_LOOKUP_FAILED", "Failed to load active suspension", err)
	}
	if active != nil {
		activeDTO := suspensionToDTO(active)
		resp.ActiveSuspension = &activeDTO
	}

	history, err := f.historyRepo.ListByAccount(ctx, role, accountID, recentHistoryLimit, 0)
	if err != nil {
		return nil, NewBusinessError("DETAIL_HISTORY_LOOKUP_FAILED", "Failed to load status history", err)
	}
	resp.RecentHistory = historyToDTOs(history)

	return resp, nil
}

// ListStatusHistory returns the audit trail for one account, newest first
func (f *ModerationReportFlowImpl) ListStatusHistory(ctx context.Context, roleStr string, accountID uint, limit, offset int) (*dto.ListStatusHistoryResponse, error) {
	role := models.Role(roleStr)
	if !role.Valid() {
		return nil, NewBusinessError("HISTORY_INVALID_ROLE", fmt.Sprintf("Unknown role %q", roleStr), ErrInvalidRole)
	}

	entries, err := f.historyRepo.ListByAccount(ctx, role, accountID, limit, offset)
	if err != nil {
		return nil, NewBusinessError("HISTORY_LIST_FAILED", "Failed to list status history", err)
	}
	return &dto.ListStatusHistoryResponse{
		Message: "Status history retrieved successfully",
		Items:   historyToDTOs(entries),
	}, nil
}

// ListSuspensions returns the suspension episodes for one account, newest first
func (f *ModerationReportFlowImpl) ListSuspensions(ctx context.Context, roleStr string, accountID uint, limit, offset int) (*dto.ListSuspensionsResponse, error) {
	role := models.Role(roleStr)
	if !role.Valid() {
		return nil, NewBusinessError("SUSPENSIONS_INVALID_ROLE", fmt.Sprintf("Unknown role %q", roleStr), ErrInvalidRole)
	}

	records, err := f.suspensionRepo.ListByAccount(ctx, role, accountID, limit, offset)
	if err != nil {
		return nil, NewBusinessError("SUSPENSIONS_LIST_FAILED", "Failed to list suspensions", err)
	}
	items := make([]dto.SuspensionRecordDTO, 0, len(records))
	for _, r := range records {
		items = append(items, suspensionToDTO(r))
	}
	return &dto.ListSuspensionsResponse{
		Message: "Suspensions retrieved successfully",
		Items:   items,
	}, nil
}

// ListSuspensionReasons exposes the reason catalog and allowed durations
func (f *ModerationReportFlowImpl) ListSuspensionReasons(ctx context.Context) (*dto.ListSuspensionReasonsResponse, error) {
	reasons := make([]dto.SuspensionReasonDTO, 0, len(SuspensionReasonCatalog))
	for _, r := range SuspensionReasonCatalog {
		reasons = append(reasons, dto.SuspensionReasonDTO{
			Reason:              r.Reason,
			Severity:            string(r.Severity),
			DefaultDurationDays: r.DefaultDurationDays,
		})
	}
	return &dto.ListSuspensionReasonsResponse{
		Message:         "Suspension reasons retrieved successfully",
		Reasons:         reasons,
		DurationOptions: SuspensionDurationOptions,
	}, nil
}

// ExportStatusHistoryXLSX builds an Excel workbook of all status changes in
// the given window, one sheet per role.
func (f *ModerationReportFlowImpl) ExportStatusHistoryXLSX(ctx context.Context, start, end time.Time) (string, []byte, error) {
	if !end.After(start) {
		return "", nil, NewBusinessError("EXPORT_INVALID_RANGE", "End of the export window must be after its start", nil)
	}

	entries, err := f.historyRepo.ListBetween(ctx, start, end)
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_FETCH_FAILED", "Failed to fetch status history", err)
	}

	byRole := map[models.Role][]*models.StatusHistoryEntry{}
	for _, e := range entries {
		byRole[e.Role] = append(byRole[e.Role], e)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	header := []string{"id", "account_id", "role", "old_status", "new_status", "reason", "notes", "action_by", "cascaded", "created_at"}
	roleOrder := []models.Role{models.RoleCustomer, models.RoleCourier}
	for i, role := range roleOrder {
		name := sheetNameForRole(role)
		if i == 0 {
			xl.SetSheetName(xl.GetSheetName(0), name)
		} else {
			_, _ = xl.NewSheet(name)
		}
		_ = xl.SetSheetRow(name, "A1", &header)

		for ri, e := range byRole[role] {
			record := []string{
				strconv.FormatUint(uint64(e.ID), 10),
				strconv.FormatUint(uint64(e.AccountID), 10),
				e.Role.String(),
				e.OldStatus.String(),
				e.NewStatus.String(),
				e.Reason,
				e.Notes,
				e.ActionBy,
				strconv.FormatBool(e.Cascaded),
				e.CreatedAt.UTC().Format(time.RFC3339),
			}
			cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
			_ = xl.SetSheetRow(name, cellRef, &record)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_WRITE_FAILED", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("status_history_%s_%s.xlsx", start.UTC().Format("20060102"), end.UTC().Format("20060102"))
	return filename, buf.Bytes(), nil
}

// Excel sheet names are capped at 31 chars, role names are well inside that
func sheetNameForRole(role models.Role) string {
	switch role {
	case models.RoleCustomer:
		return "Customers"
	case models.RoleCourier:
		return "Couriers"
	default:
		return "Other"
	}
}

func accountViewToDTO(v *repository.AccountView) dto.AccountModerationDTO {
	out := dto.AccountModerationDTO{
		ID:       v.ID,
		Role:     v.Role.String(),
		Email:    v.Email,
		FullName: v.FullName,
		Status:   v.Status.String(),
	}
	if v.ApplicationStatus != nil {
		s := v.ApplicationStatus.String()
		out.ApplicationStatus = &s
	}
	if v.BackgroundCheckStatus != nil {
		s := string(*v.BackgroundCheckStatus)
		out.BackgroundCheckStatus = &s
	}
	return out
}

func suspensionToDTO(r *models.SuspensionRecord) dto.SuspensionRecordDTO {
	return dto.SuspensionRecordDTO{
		ID:                r.ID,
		UUID:              r.UUID.String(),
		AccountID:         r.AccountID,
		Role:              r.Role.String(),
		Reason:            r.Reason,
		Notes:             r.Notes,
		EvidenceURLs:      r.EvidenceURLs,
		DurationDays:      r.DurationDays,
		IsPermanent:       r.IsPermanent,
		ScheduledLiftDate: r.ScheduledLiftDate,
		Status:            string(r.Status),
		SuspendedBy:       r.SuspendedBy,
		LiftedBy:          r.LiftedBy,
		CreatedAt:         r.CreatedAt,
		LiftedAt:          r.LiftedAt,
	}
}

func historyToDTOs(entries []*models.StatusHistoryEntry) []dto.StatusHistoryEntryDTO {
	out := make([]dto.StatusHistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.StatusHistoryEntryDTO{
			ID:        e.ID,
			AccountID: e.AccountID,
			Role:      e.Role.String(),
			OldStatus: e.OldStatus.String(),
			NewStatus: e.NewStatus.String(),
			Reason:    e.Reason,
			Notes:     e.Notes,
			ActionBy:  e.ActionBy,
			Cascaded:  e.Cascaded,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
