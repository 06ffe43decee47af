// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/peykmarket/backoffice/models"
)

// StatusHistoryRepositoryImpl implements StatusHistoryRepository interface.
// The table is append-only: there are no update or delete operations.
type StatusHistoryRepositoryImpl struct {
	*BaseRepository[models.StatusHistoryEntry, models.StatusHistoryFilter]
}

// NewStatusHistoryRepository creates a new status history repository
func NewStatusHistoryRepository(db *gorm.DB) StatusHistoryRepository {
	return &StatusHistoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.StatusHistoryEntry, models.StatusHistoryFilter](db),
	}
}

// ListByAccount retrieves history entries for an account, newest first
func (r *StatusHistoryRepositoryImpl) ListByAccount(ctx context.Context, role models.Role, accountID uint, limit, offset int) ([]*models.StatusHistoryEntry, error) {
	db := r.getDB(ctx)

	var entries []*models.StatusHistoryEntry
	err := db.Where("role = ? AND account_id = ?", role, accountID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list status history for %s %d: %w", role, accountID, err)
	}

	return entries, nil
}

// ListByActor retrieves history entries recorded by a given admin, newest first
func (r *StatusHistoryRepositoryImpl) ListByActor(ctx context.Context, actionBy string, limit, offset int) ([]*models.StatusHistoryEntry, error) {
	db := r.getDB(ctx)

	var entries []*models.StatusHistoryEntry
	err := db.Where("action_by = ?", actionBy).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list status history by actor %s: %w", actionBy, err)
	}

	return entries, nil
}

// ListBetween retrieves all history entries in a date range, oldest first.
// Used by the Excel export; no pagination.
func (r *StatusHistoryRepositoryImpl) ListBetween(ctx context.Context, start, end time.Time) ([]*models.StatusHistoryEntry, error) {
	db := r.getDB(ctx)

	var entries []*models.StatusHistoryEntry
	err := db.Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at ASC").
		Find(&entries).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list status history between %s and %s: %w", start, end, err)
	}

	return entries, nil
}
