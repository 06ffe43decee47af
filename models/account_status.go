package models

import (
	"database/sql/driver"
	"fmt"
)

// AccountStatus represents the moderation/lifecycle state of an account
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "pending"
	AccountStatusApproved  AccountStatus = "approved"
	AccountStatusActive    AccountStatus = "active"
	AccountStatusRejected  AccountStatus = "rejected"
	AccountStatusSuspended AccountStatus = "suspended"
)

// String returns the string representation of the status
func (s AccountStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusPending, AccountStatusApproved, AccountStatusActive,
		AccountStatusRejected, AccountStatusSuspended:
		return true
	default:
		return false
	}
}

// InService reports whether the account is currently serving the platform.
// "approved" and "active" are equivalent in-service states; couriers keep
// "approved" while customers use "active".
func (s AccountStatus) InService() bool {
	return s == AccountStatusApproved || s == AccountStatusActive
}

// Scan implements the sql.Scanner interface for AccountStatus
func (s *AccountStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = AccountStatus(v)
	case []byte:
		*s = AccountStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into AccountStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for AccountStatus
func (s AccountStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid AccountStatus: %s", s)
	}
	return string(s), nil
}

// BackgroundCheckStatus represents the courier background check sub-workflow
type BackgroundCheckStatus string

const (
	BackgroundCheckPending  BackgroundCheckStatus = "pending"
	BackgroundCheckApproved BackgroundCheckStatus = "approved"
)

// Valid checks if the background check status is valid
func (s BackgroundCheckStatus) Valid() bool {
	return s == BackgroundCheckPending || s == BackgroundCheckApproved
}

// Scan implements the sql.Scanner interface for BackgroundCheckStatus
func (s *BackgroundCheckStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = BackgroundCheckStatus(v)
	case []byte:
		*s = BackgroundCheckStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into BackgroundCheckStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for BackgroundCheckStatus
func (s BackgroundCheckStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid BackgroundCheckStatus: %s", s)
	}
	return string(s), nil
}
