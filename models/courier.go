package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Courier represents a delivery courier account. Couriers go through an
// application phase: pending until an admin approves or rejects them, then
// approved (in service) with excursions to suspended.
//
// ApplicationStatus is historically a separate column mirroring Status; both
// must always be written together. BackgroundCheckStatus is an independent
// sub-workflow that approval closes as a documented coupling.
type Courier struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_couriers_uuid" json:"uuid"`

	FirstName string `gorm:"size:255;not null" json:"first_name"`
	LastName  string `gorm:"size:255;not null" json:"last_name"`
	Mobile    string `gorm:"size:15;not null;uniqueIndex:uk_couriers_mobile" json:"mobile"`

	// Email is the cross-role linking key (see Customer.Email)
	Email string `gorm:"size:255;not null;uniqueIndex:uk_couriers_email" json:"email"`

	Status                AccountStatus         `gorm:"type:account_status_enum;not null;default:'pending';index:idx_couriers_status" json:"status"`
	ApplicationStatus     AccountStatus         `gorm:"type:account_status_enum;not null;default:'pending'" json:"application_status"`
	BackgroundCheckStatus BackgroundCheckStatus `gorm:"type:background_check_enum;not null;default:'pending'" json:"background_check_status"`
	RejectionReason       *string               `gorm:"type:text" json:"rejection_reason,omitempty"`

	VehicleType  *string `gorm:"size:30" json:"vehicle_type,omitempty"`
	VehiclePlate *string `gorm:"size:20" json:"vehicle_plate,omitempty"`
	NationalID   *string `gorm:"size:11" json:"national_id,omitempty"`
	WorkZone     *string `gorm:"size:60" json:"work_zone,omitempty"`

	IsActive *bool `gorm:"default:true;index:idx_couriers_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_couriers_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (Courier) TableName() string {
	return "couriers"
}

// BeforeCreate ensures UUID and default statuses are set
func (c *Courier) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = AccountStatusPending
	}
	if c.ApplicationStatus == "" {
		c.ApplicationStatus = c.Status
	}
	if c.BackgroundCheckStatus == "" {
		c.BackgroundCheckStatus = BackgroundCheckPending
	}
	return nil
}

// CourierFilter represents filter criteria for courier queries
type CourierFilter struct {
	ID                *uint
	UUID              *uuid.UUID
	Email             *string
	Mobile            *string
	Status            *AccountStatus
	ApplicationStatus *AccountStatus
	IsActive          *bool
	CreatedAfter      *time.Time
	CreatedBefore     *time.Time
}

func (c *Courier) IsSuspended() bool {
	return c.Status == AccountStatusSuspended
}

func (c *Courier) IsPendingApplication() bool {
	return c.Status == AccountStatusPending
}
