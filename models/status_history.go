package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/peykmarket/backoffice/utils"
)

// StatusHistoryEntry is the immutable audit trail of account transitions.
// Append-only: one entry per transition that actually changed state. A
// cascaded transition produces a second entry for the linked account,
// attributed to the original actor with Cascaded set.
type StatusHistoryEntry struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	AccountID uint `gorm:"not null;index:idx_status_history_account,priority:2" json:"account_id"`
	Role      Role `gorm:"type:account_role_enum;not null;index:idx_status_history_account,priority:1" json:"role"`

	OldStatus AccountStatus `gorm:"type:account_status_enum;not null" json:"old_status"`
	NewStatus AccountStatus `gorm:"type:account_status_enum;not null" json:"new_status"`

	Reason   string `gorm:"size:255" json:"reason"`
	Notes    string `gorm:"type:text" json:"notes"`
	ActionBy string `gorm:"size:255;not null;index:idx_status_history_action_by" json:"action_by"`
	Cascaded bool   `gorm:"not null;default:false" json:"cascaded"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_status_history_created_at" json:"created_at"`
}

func (StatusHistoryEntry) TableName() string {
	return "status_history"
}

// BeforeCreate normalizes the timestamp
func (e *StatusHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = utils.UTCNow()
	}
	return nil
}

// StatusHistoryFilter represents filter criteria for history queries
type StatusHistoryFilter struct {
	ID            *uint
	AccountID     *uint
	Role          *Role
	NewStatus     *AccountStatus
	ActionBy      *string
	Cascaded      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
