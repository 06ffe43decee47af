// Package models contains domain entities and business models for the marketplace back office
package models

import (
	"database/sql/driver"
	"fmt"
)

// Role identifies which account table an id refers to. A customer and a
// courier sharing the same email are treated as one moderated person.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleCourier  Role = "courier"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Valid checks if the role is valid
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleCourier:
		return true
	default:
		return false
	}
}

// Opposite returns the other role of a linked identity
func (r Role) Opposite() Role {
	if r == RoleCustomer {
		return RoleCourier
	}
	return RoleCustomer
}

// Scan implements the sql.Scanner interface for Role
func (r *Role) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Role", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for Role
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid Role: %s", r)
	}
	return string(r), nil
}
