// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/peykmarket/backoffice/models"
)

// SuspensionRepositoryImpl implements SuspensionRepository interface
type SuspensionRepositoryImpl struct {
	*BaseRepository[models.SuspensionRecord, models.SuspensionRecordFilter]
}

// NewSuspensionRepository creates a new suspension record repository
func NewSuspensionRepository(db *gorm.DB) SuspensionRepository {
	return &SuspensionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.SuspensionRecord, models.SuspensionRecordFilter](db),
	}
}

// ActiveByAccount retrieves the single in-force suspension record for an
// account, or nil when the account has none. Callers run this inside the
// same transaction as the subsequent insert to close the concurrent-suspend
// race; the partial unique index on the table is the backstop.
func (r *SuspensionRepositoryImpl) ActiveByAccount(ctx context.Context, role models.Role, accountID uint) (*models.SuspensionRecord, error) {
	db := r.getDB(ctx)

	var record models.SuspensionRecord
	err := db.Where("role = ? AND account_id = ? AND status = ?", role, accountID, models.SuspensionStatusActive).
		Last(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active suspension for %s %d: %w", role, accountID, err)
	}

	return &record, nil
}

// Close marks a suspension record as lifted. Already-lifted records are left
// untouched; closing one twice is reported as an error so callers notice.
func (r *SuspensionRepositoryImpl) Close(ctx context.Context, id uint, liftedBy string, liftedAt time.Time) error {
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

	result := db.Model(&models.SuspensionRecord{}).
		Where("id = ? AND status = ?", id, models.SuspensionStatusActive).
		Updates(map[string]any{
			"status":    models.SuspensionStatusLifted,
			"lifted_by": liftedBy,
			"lifted_at": liftedAt,
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to close suspension record %d: %w", id, result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("suspension record %d is not active", id)
		return err
	}

	return nil
}

// ListByAccount retrieves suspension episodes for an account, newest first
func (r *SuspensionRepositoryImpl) ListByAccount(ctx context.Context, role models.Role, accountID uint, limit, offset int) ([]*models.SuspensionRecord, error) {
	db := r.getDB(ctx)

	var records []*models.SuspensionRecord
	err := db.Where("role = ? AND account_id = ?", role, accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list suspensions for %s %d: %w", role, accountID, err)
	}

	return records, nil
}
