package repositories

import (
	"context"

	"customer-sync/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepositoryInterface defines the contract for customer repository operations
type CustomerRepositoryInterface interface {
	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) CustomerRepositoryInterface
	GetByCustomerID(ctx context.Context, customerID string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	List(ctx context.Context, offset, limit int) ([]models.Customer, int64, error)
	Count(ctx context.Context) (int64, error)
}

// SyncRunRepositoryInterface defines the contract for sync run bookkeeping
type SyncRunRepositoryInterface interface {
	Create(ctx context.Context, run *models.SyncRun) error
	Update(ctx context.Context, run *models.SyncRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SyncRun, error)
	ListRecent(ctx context.Context, limit int) ([]models.SyncRun, error)
}
