package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/peykmarket/backoffice/utils"
)

// SuspensionStatus represents the state of a suspension episode
type SuspensionStatus string

const (
	SuspensionStatusActive SuspensionStatus = "active"
	SuspensionStatusLifted SuspensionStatus = "lifted"
)

// Valid checks if the suspension status is valid
func (s SuspensionStatus) Valid() bool {
	return s == SuspensionStatusActive || s == SuspensionStatusLifted
}

// Scan implements the sql.Scanner interface for SuspensionStatus
func (s *SuspensionStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SuspensionStatus(v)
	case []byte:
		*s = SuspensionStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SuspensionStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SuspensionStatus
func (s SuspensionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SuspensionStatus: %s", s)
	}
	return string(s), nil
}

// SuspensionRecord is one temporal suspension episode for an account.
// Table: suspension_records
// Invariant: per (account_id, role) at most one record has status=active.
// The partial unique index below backs the check-and-set done in the flow.
// EvidenceURLs is a list of links admins attach when suspending, TEXT[].
type SuspensionRecord struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	AccountID uint `gorm:"not null;index:idx_suspension_account,priority:2;uniqueIndex:uk_suspension_active,where:status = 'active',priority:2" json:"account_id"`
	Role      Role `gorm:"type:account_role_enum;not null;index:idx_suspension_account,priority:1;uniqueIndex:uk_suspension_active,where:status = 'active',priority:1" json:"role"`

	Reason       string         `gorm:"size:100;not null" json:"reason"`
	Notes        string         `gorm:"type:text" json:"notes"`
	EvidenceURLs pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"evidence_urls"`

	DurationDays      int        `gorm:"not null;default:0" json:"duration_days"`
	IsPermanent       bool       `gorm:"not null;default:false" json:"is_permanent"`
	ScheduledLiftDate *time.Time `json:"scheduled_lift_date,omitempty"`

	Status SuspensionStatus `gorm:"type:suspension_status_enum;not null;default:'active';index:idx_suspension_status" json:"status"`

	SuspendedBy string     `gorm:"size:255;not null" json:"suspended_by"`
	LiftedBy    *string    `gorm:"size:255" json:"lifted_by,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_suspension_created_at" json:"created_at"`
	LiftedAt    *time.Time `json:"lifted_at,omitempty"`
}

func (SuspensionRecord) TableName() string {
	return "suspension_records"
}

// BeforeCreate ensures UUID and timestamps are set
func (r *SuspensionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.Status == "" {
		r.Status = SuspensionStatusActive
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.EvidenceURLs == nil {
		r.EvidenceURLs = pq.StringArray{}
	}
	return nil
}

// IsOpen reports whether the suspension is still in force
func (r *SuspensionRecord) IsOpen() bool {
	return r.Status == SuspensionStatusActive
}

// SuspensionRecordFilter represents filter criteria for suspension queries
type SuspensionRecordFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	AccountID     *uint
	Role          *Role
	Reason        *string
	Status        *SuspensionStatus
	IsPermanent   *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
