package services

import (
	"context"
	"time"

	"customer-sync/internal/dto"
	"customer-sync/internal/models"

	"github.com/google/uuid"
)

// UpstreamClientInterface fetches single pages from the customer provider
type UpstreamClientInterface interface {
	FetchPage(ctx context.Context, page, limit int) (*dto.UpstreamCustomerPage, error)
}

// CustomerFetcherInterface walks every upstream page and returns the full record set
type CustomerFetcherInterface interface {
	FetchAll(ctx context.Context) ([]dto.CustomerRecord, error)
}

// SyncServiceInterface runs a full synchronization into local storage
type SyncServiceInterface interface {
	// Run fetches the whole upstream dataset and upserts it in one transaction.
	// The returned run carries the processed count even when err is nil.
	Run(ctx context.Context) (*models.SyncRun, error)
	ListRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
	GetRun(ctx context.Context, id uuid.UUID) (*models.SyncRun, error)
}

// CustomerServiceInterface exposes read access to the stored customers
type CustomerServiceInterface interface {
	ListCustomers(ctx context.Context, page, limit int) ([]models.Customer, int64, error)
	GetCustomer(ctx context.Context, customerID string) (*models.Customer, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() CircuitBreakerState
	Reset()
	GetFailureCount() int
}

type SyncLoggerInterface interface {
	LogSyncStarted(ctx context.Context, runID string)
	LogPageFetched(ctx context.Context, page, records int)
	LogFetchCompleted(ctx context.Context, pages, records int, durationMs int64)
	LogSyncCompleted(ctx context.Context, run *models.SyncRun, durationMs int64)
	LogSyncFailed(ctx context.Context, runID, stage, errorMsg string, durationMs int64)
}
