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

// CourierRepositoryImpl implements CourierRepository interface
type CourierRepositoryImpl struct {
	*BaseRepository[models.Courier, models.CourierFilter]
}

// NewCourierRepository creates a new courier repository
func NewCourierRepository(db *gorm.DB) CourierRepository {
	return &CourierRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Courier, models.CourierFilter](db),
	}
}

// ByUUID retrieves a courier by UUID
func (r *CourierRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Courier, error) {
	db := r.getDB(ctx)

	var courier models.Courier
	err := db.Where("uuid = ?", uuid).Last(&courier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find courier by UUID: %w", err)
	}

	return &courier, nil
}

// ByEmail retrieves a courier by email address
func (r *CourierRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Courier, error) {
	db := r.getDB(ctx)

	var courier models.Courier
	err := db.Where("email = ?", email).Last(&courier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find courier by email: %w", err)
	}

	return &courier, nil
}

// UpdateStatus applies a status change to a courier. Status and
// application_status are written together so the two columns never drift.
func (r *CourierRepositoryImpl) UpdateStatus(ctx context.Context, courierID uint, change CourierStatusChange) error {
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

	fields := map[string]any{
		"status":             change.Status,
		"application_status": change.ApplicationStatus,
		"updated_at":         utils.UTCNow(),
	}
	if change.BackgroundCheckStatus != nil {
		fields["background_check_status"] = *change.BackgroundCheckStatus
	}
	if change.RejectionReason != nil {
		fields["rejection_reason"] = *change.RejectionReason
	}
	if change.ReviewedAt != nil {
		fields["reviewed_at"] = *change.ReviewedAt
	}

	result := db.Model(&models.Courier{}).
		Where("id = ?", courierID).
		Updates(fields)
	if result.Error != nil {
		err = fmt.Errorf("failed to update courier status: %w", result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("courier %d not found for status update", courierID)
		return err
	}

	return nil
}

// ListPendingApplications retrieves couriers awaiting review with pagination
func (r *CourierRepositoryImpl) ListPendingApplications(ctx context.Context, limit, offset int) ([]*models.Courier, error) {
	db := r.getDB(ctx)

	var couriers []*models.Courier
	err := db.Where("status = ?", models.AccountStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&couriers).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list pending courier applications: %w", err)
	}

	return couriers, nil
}
