package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a buyer account on the marketplace. Customers skip the
// application phase entirely: they are created active and move only between
// active and suspended.
type Customer struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_customers_uuid" json:"uuid"`

	FirstName string `gorm:"size:255;not null" json:"first_name"`
	LastName  string `gorm:"size:255;not null" json:"last_name"`
	Mobile    string `gorm:"size:15;not null;uniqueIndex:uk_customers_mobile" json:"mobile"`

	// Email is the cross-role linking key: a courier with the same email is
	// considered the same person for moderation purposes.
	Email string `gorm:"size:255;not null;uniqueIndex:uk_customers_email" json:"email"`

	Status AccountStatus `gorm:"type:account_status_enum;not null;default:'active';index:idx_customers_status" json:"status"`

	IsEmailVerified *bool `gorm:"default:false" json:"is_email_verified"`
	IsActive        *bool `gorm:"default:true;index:idx_customers_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_customers_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relations
	SuspensionRecords []SuspensionRecord `gorm:"-" json:"-"`
}

func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate ensures UUID and timestamps are set
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Status == "" {
		c.Status = AccountStatusActive
	}
	return nil
}

// CustomerFilter represents filter criteria for customer queries
type CustomerFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	Mobile        *string
	Status        *AccountStatus
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (c *Customer) IsSuspended() bool {
	return c.Status == AccountStatusSuspended
}
