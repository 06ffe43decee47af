// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/peykmarket/backoffice/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// CustomerRepository defines operations for customer accounts
type CustomerRepository interface {
	ByID(ctx context.Context, id uint) (*models.Customer, error)
	ByUUID(ctx context.Context, uuid string) (*models.Customer, error)
	ByEmail(ctx context.Context, email string) (*models.Customer, error)
	Save(ctx context.Context, customer *models.Customer) error
	UpdateStatus(ctx context.Context, customerID uint, status models.AccountStatus) error
	ListByStatus(ctx context.Context, status models.AccountStatus, limit, offset int) ([]*models.Customer, error)
}

// CourierStatusChange carries the status fields a courier transition writes.
// Status and ApplicationStatus are always written together; the optional
// fields are only touched when set.
type CourierStatusChange struct {
	Status                models.AccountStatus
	ApplicationStatus     models.AccountStatus
	BackgroundCheckStatus *models.BackgroundCheckStatus
	RejectionReason       *string
	ReviewedAt            *time.Time
}

// CourierRepository defines operations for courier accounts
type CourierRepository interface {
	ByID(ctx context.Context, id uint) (*models.Courier, error)
	ByUUID(ctx context.Context, uuid string) (*models.Courier, error)
	ByEmail(ctx context.Context, email string) (*models.Courier, error)
	Save(ctx context.Context, courier *models.Courier) error
	UpdateStatus(ctx context.Context, courierID uint, change CourierStatusChange) error
	ListPendingApplications(ctx context.Context, limit, offset int) ([]*models.Courier, error)
}

// AccountView is the role-independent projection of a customer or courier
// used by the moderation flow. Courier-only fields are nil for customers.
type AccountView struct {
	ID                    uint
	Role                  models.Role
	Email                 string
	Status                models.AccountStatus
	ApplicationStatus     *models.AccountStatus
	BackgroundCheckStatus *models.BackgroundCheckStatus
	FullName              string
}

// StatusChange describes a status write against either role. The courier
// implementation mirrors Status into application_status and applies the
// optional background check / rejection fields; the customer implementation
// ignores them.
type StatusChange struct {
	Status                 models.AccountStatus
	ApproveBackgroundCheck bool
	RejectionReason        *string
}

// AccountStore dispatches account reads and status writes on a Role value so
// the business flow never branches on role strings at call sites.
type AccountStore interface {
	ByID(ctx context.Context, role models.Role, id uint) (*AccountView, error)
	ByEmail(ctx context.Context, role models.Role, email string) (*AccountView, error)
	UpdateStatus(ctx context.Context, role models.Role, id uint, change StatusChange) error
}

// SuspensionRepository defines operations for suspension records
type SuspensionRepository interface {
	ByID(ctx context.Context, id uint) (*models.SuspensionRecord, error)
	ActiveByAccount(ctx context.Context, role models.Role, accountID uint) (*models.SuspensionRecord, error)
	Save(ctx context.Context, record *models.SuspensionRecord) error
	Close(ctx context.Context, id uint, liftedBy string, liftedAt time.Time) error
	ListByAccount(ctx context.Context, role models.Role, accountID uint, limit, offset int) ([]*models.SuspensionRecord, error)
}

// StatusHistoryRepository defines operations for the append-only audit trail
type StatusHistoryRepository interface {
	Save(ctx context.Context, entry *models.StatusHistoryEntry) error
	ListByAccount(ctx context.Context, role models.Role, accountID uint, limit, offset int) ([]*models.StatusHistoryEntry, error)
	ListByActor(ctx context.Context, actionBy string, limit, offset int) ([]*models.StatusHistoryEntry, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]*models.StatusHistoryEntry, error)
}

// AdminRepository defines operations for back-office admins
type AdminRepository interface {
	ByID(ctx context.Context, id uint) (*models.Admin, error)
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	Save(ctx context.Context, admin *models.Admin) error
}
