// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/peykmarket/backoffice/models"
	"github.com/peykmarket/backoffice/utils"
)

// CustomerRepositoryImpl implements CustomerRepository interface
type CustomerRepositoryImpl struct {
	*BaseRepository[models.Customer, models.CustomerFilter]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &CustomerRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Customer, models.CustomerFilter](db),
	}
}

// ByUUID retrieves a customer by UUID
func (r *CustomerRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Customer, error) {
	db := r.getDB(ctx)

	var customer models.Customer
	err := db.Where("uuid = ?", uuid).Last(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by UUID: %w", err)
	}

	return &customer, nil
}

// ByEmail retrieves a customer by email address
func (r *CustomerRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Customer, error) {
	db := r.getDB(ctx)

	var customer models.Customer
	err := db.Where("email = ?", email).Last(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find customer by email: %w", err)
	}

	return &customer, nil
}

// UpdateStatus sets the customer's moderation status
func (r *CustomerRepositoryImpl) UpdateStatus(ctx context.Context, customerID uint, status models.AccountStatus) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Model(&models.Customer{}).
		Where("id = ?", customerID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to update customer status: %w", result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("customer %d not found for status update", customerID)
		return err
	}

	return nil
}

// ListByStatus retrieves customers in a given status with pagination
func (r *CustomerRepositoryImpl) ListByStatus(ctx context.Context, status models.AccountStatus, limit, offset int) ([]*models.Customer, error) {
	db := r.getDB(ctx)

	var customers []*models.Customer
	err := db.Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&customers).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list customers by status: %w", err)
	}

	return customers, nil
}
