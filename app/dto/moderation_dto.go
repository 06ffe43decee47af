package dto

import "time"

// ApproveCourierRequest approves a pending courier application
type ApproveCourierRequest struct {
	CourierID uint `json:"courier_id" validate:"required,gt=0"`
}

// RejectCourierRequest rejects a pending courier application. Reason is
// mandatory; an empty reason is a validation error before any write.
type RejectCourierRequest struct {
	CourierID uint   `json:"courier_id" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required,min=1,max=255"`
}

// SuspendAccountRequest suspends a customer or courier account
type SuspendAccountRequest struct {
	AccountID    uint     `json:"account_id" validate:"required,gt=0"`
	Role         string   `json:"role" validate:"required,oneof=customer courier"`
	Reason       string   `json:"reason" validate:"required,min=1,max=100"`
	Notes        string   `json:"notes" validate:"omitempty,max=2000"`
	DurationDays int      `json:"duration_days" validate:"omitempty,gte=0,lte=30"`
	IsPermanent  bool     `json:"is_permanent"`
	EvidenceURLs []string `json:"evidence_urls" validate:"omitempty,dive,url"`
}

// ActivateAccountRequest lifts a suspension and returns the account to its
// in-service status
type ActivateAccountRequest struct {
	AccountID uint   `json:"account_id" validate:"required,gt=0"`
	Role      string `json:"role" validate:"required,oneof=customer courier"`
}

// WarningDTO surfaces a non-fatal cascade problem to the caller
type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ModerationResultResponse reports what a moderation action did. The primary
// outcome is authoritative; linked_applied is null when no linked identity
// exists or no mirror was attempted.
type ModerationResultResponse struct {
	Message           string       `json:"message"`
	AccountID         uint         `json:"account_id"`
	Role              string       `json:"role"`
	NewStatus         string       `json:"new_status"`
	PrimaryApplied    bool         `json:"primary_applied"`
	LinkedApplied     *bool        `json:"linked_applied,omitempty"`
	SuspensionID      *uint        `json:"suspension_id,omitempty"`
	ScheduledLiftDate *time.Time   `json:"scheduled_lift_date,omitempty"`
	Warnings          []WarningDTO `json:"warnings,omitempty"`
}

// SuspensionRecordDTO is the API view of one suspension episode
type SuspensionRecordDTO struct {
	ID                uint       `json:"id"`
	UUID              string     `json:"uuid"`
	AccountID         uint       `json:"account_id"`
	Role              string     `json:"role"`
	Reason            string     `json:"reason"`
	Notes             string     `json:"notes"`
	EvidenceURLs      []string   `json:"evidence_urls"`
	DurationDays      int        `json:"duration_days"`
	IsPermanent       bool       `json:"is_permanent"`
	ScheduledLiftDate *time.Time `json:"scheduled_lift_date,omitempty"`
	Status            string     `json:"status"`
	SuspendedBy       string     `json:"suspended_by"`
	LiftedBy          *string    `json:"lifted_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	LiftedAt          *time.Time `json:"lifted_at,omitempty"`
}

// StatusHistoryEntryDTO is the API view of one audit trail entry
type StatusHistoryEntryDTO struct {
	ID        uint      `json:"id"`
	AccountID uint      `json:"account_id"`
	Role      string    `json:"role"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
	ActionBy  string    `json:"action_by"`
	Cascaded  bool      `json:"cascaded"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountModerationDTO is the role-independent account view for the back office
type AccountModerationDTO struct {
	ID                    uint    `json:"id"`
	Role                  string  `json:"role"`
	Email                 string  `json:"email"`
	FullName              string  `json:"full_name"`
	Status                string  `json:"status"`
	ApplicationStatus     *string `json:"application_status,omitempty"`
	BackgroundCheckStatus *string `json:"background_check_status,omitempty"`
}

// AccountModerationDetailResponse is the back-office detail page payload
type AccountModerationDetailResponse struct {
	Message          string                  `json:"message"`
	Account          AccountModerationDTO    `json:"account"`
	LinkedAccount    *AccountModerationDTO   `json:"linked_account,omitempty"`
	ActiveSuspension *SuspensionRecordDTO    `json:"active_suspension,omitempty"`
	RecentHistory    []StatusHistoryEntryDTO `json:"recent_history"`
}

// ListStatusHistoryResponse is a paginated history listing
type ListStatusHistoryResponse struct {
	Message string                  `json:"message"`
	Items   []StatusHistoryEntryDTO `json:"items"`
}

// ListSuspensionsResponse is a paginated suspension episode listing
type ListSuspensionsResponse struct {
	Message string                `json:"message"`
	Items   []SuspensionRecordDTO `json:"items"`
}

// SuspensionReasonDTO is one catalog entry with its default duration
type SuspensionReasonDTO struct {
	Reason              string `json:"reason"`
	Severity            string `json:"severity"`
	DefaultDurationDays int    `json:"default_duration_days"`
}

// ListSuspensionReasonsResponse exposes the reason catalog and the allowed
// duration options to the admin UI
type ListSuspensionReasonsResponse struct {
	Message         string                `json:"message"`
	Reasons         []SuspensionReasonDTO `json:"reasons"`
	DurationOptions []int                 `json:"duration_options"`
}
