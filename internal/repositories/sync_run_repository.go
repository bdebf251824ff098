package repositories

import (
	"context"
	"errors"
	"fmt"

	"customer-sync/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSyncRunNotFound = errors.New("sync run not found")
)

const maxSyncRunListLimit = 100

type syncRunRepository struct {
	db *gorm.DB
}

func NewSyncRunRepository(db *gorm.DB) SyncRunRepositoryInterface {
	return &syncRunRepository{
		db: db,
	}
}

func (r *syncRunRepository) Create(ctx context.Context, run *models.SyncRun) error {
	if run == nil {
		return errors.New("sync run cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create sync run: %w", err)
	}

	return nil
}

func (r *syncRunRepository) Update(ctx context.Context, run *models.SyncRun) error {
	if run == nil {
		return errors.New("sync run cannot be nil")
	}

	result := r.db.WithContext(ctx).Model(&models.SyncRun{ID: run.ID}).
		Updates(map[string]interface{}{
			"status":            run.Status,
			"records_processed": run.RecordsProcessed,
			"records_inserted":  run.RecordsInserted,
			"records_updated":   run.RecordsUpdated,
			"error_message":     run.ErrorMessage,
			"finished_at":       run.FinishedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update sync run: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSyncRunNotFound
	}

	return nil
}

func (r *syncRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SyncRun, error) {
	run := &models.SyncRun{ID: id}
	if err := r.db.WithContext(ctx).First(run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyncRunNotFound
		}
		return nil, fmt.Errorf("failed to get sync run: %w", err)
	}

	return run, nil
}

func (r *syncRunRepository) ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 || limit > maxSyncRunListLimit {
		limit = maxSyncRunListLimit
	}

	var runs []models.SyncRun
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}

	return runs, nil
}
