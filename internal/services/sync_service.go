package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customer-sync/internal/models"
	"customer-sync/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrFetchFailed     = errors.New("customer fetch failed")
	ErrStorageFailed   = errors.New("customer storage failed")
	ErrSyncRunNotFound = errors.New("sync run not found")
)

type syncOutcome struct {
	inserted int
	updated  int
}

// SyncService copies the upstream customer list into local storage
type SyncService struct {
	db           *gorm.DB
	fetcher      CustomerFetcherInterface
	customerRepo repositories.CustomerRepositoryInterface
	runRepo      repositories.SyncRunRepositoryInterface
	metrics      MetricsRecorderInterface
	logger       SyncLoggerInterface
}

// NewSyncService creates a synchronizer bound to an explicit storage handle
func NewSyncService(
	db *gorm.DB,
	fetcher CustomerFetcherInterface,
	customerRepo repositories.CustomerRepositoryInterface,
	runRepo repositories.SyncRunRepositoryInterface,
	metrics MetricsRecorderInterface,
	logger SyncLoggerInterface,
) SyncServiceInterface {
	return &SyncService{
		db:           db,
		fetcher:      fetcher,
		customerRepo: customerRepo,
		runRepo:      runRepo,
		metrics:      metrics,
		logger:       logger,
	}
}

// Run fetches every upstream record and upserts them inside a single transaction.
// A fetch failure leaves storage untouched; a storage failure rolls back the batch.
// The run is recorded either way and returned alongside any error.
func (s *SyncService) Run(ctx context.Context) (*models.SyncRun, error) {
	start := time.Now()

	run := &models.SyncRun{}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("%w: failed to record sync run: %w", ErrStorageFailed, err)
	}
	s.logger.LogSyncStarted(ctx, run.ID.String())

	customers, err := s.fetch(ctx)
	if err != nil {
		s.fail(ctx, run, "fetch", err, start)
		return run, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	outcome, err := s.store(ctx, customers)
	if err != nil {
		s.fail(ctx, run, "store", err, start)
		return run, fmt.Errorf("%w: %w", ErrStorageFailed, err)
	}

	run.MarkSucceeded(len(customers), outcome.inserted, outcome.updated)
	if err := s.runRepo.Update(context.WithoutCancel(ctx), run); err != nil {
		// customers are already committed; only the bookkeeping row is stale
		s.logger.LogSyncFailed(ctx, run.ID.String(), "record", err.Error(), time.Since(start).Milliseconds())
	}

	duration := run.Duration()
	s.metrics.IncrementCounter("sync_run", map[string]string{"status": models.SyncStatusSucceeded})
	s.metrics.RecordProcessingTime("sync_run", duration)
	s.metrics.RecordGauge("sync_records_processed", float64(run.RecordsProcessed), nil)
	if total, err := s.customerRepo.Count(ctx); err == nil {
		s.metrics.RecordGauge("customers_stored", float64(total), nil)
	}
	s.logger.LogSyncCompleted(ctx, run, duration.Milliseconds())

	return run, nil
}

func (s *SyncService) ListRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	return runs, nil
}

func (s *SyncService) GetRun(ctx context.Context, id uuid.UUID) (*models.SyncRun, error) {
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSyncRunNotFound) {
			return nil, ErrSyncRunNotFound
		}
		return nil, fmt.Errorf("failed to get sync run: %w", err)
	}
	return run, nil
}

// fetch retrieves all records and converts them before any transaction is opened
func (s *SyncService) fetch(ctx context.Context) ([]*models.Customer, error) {
	records, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	customers := make([]*models.Customer, 0, len(records))
	for _, record := range records {
		customer, err := record.ToModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstreamInvalidResponse, err)
		}
		customers = append(customers, customer)
	}

	return customers, nil
}

// store upserts every customer in provider order and commits once
func (s *SyncService) store(ctx context.Context, customers []*models.Customer) (syncOutcome, error) {
	var outcome syncOutcome

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.customerRepo.WithTx(tx)
		outcome = syncOutcome{}

		for _, incoming := range customers {
			existing, err := repo.GetByCustomerID(ctx, incoming.CustomerID)
			switch {
			case errors.Is(err, repositories.ErrCustomerNotFound):
				if err := repo.Create(ctx, incoming); err != nil {
					return fmt.Errorf("insert customer %s: %w", incoming.CustomerID, err)
				}
				outcome.inserted++
			case err != nil:
				return fmt.Errorf("lookup customer %s: %w", incoming.CustomerID, err)
			default:
				existing.ApplyFrom(incoming)
				if err := repo.Update(ctx, existing); err != nil {
					return fmt.Errorf("update customer %s: %w", incoming.CustomerID, err)
				}
				outcome.updated++
			}
		}

		return nil
	})

	return outcome, err
}

func (s *SyncService) fail(ctx context.Context, run *models.SyncRun, stage string, cause error, start time.Time) {
	run.MarkFailed(cause)
	// a cancelled run must still be recorded
	if err := s.runRepo.Update(context.WithoutCancel(ctx), run); err != nil {
		s.logger.LogSyncFailed(ctx, run.ID.String(), "record", err.Error(), time.Since(start).Milliseconds())
	}

	s.metrics.IncrementCounter("sync_run", map[string]string{"status": models.SyncStatusFailed, "stage": stage})
	s.metrics.RecordProcessingTime("sync_run", run.Duration())
	s.logger.LogSyncFailed(ctx, run.ID.String(), stage, cause.Error(), run.Duration().Milliseconds())
}
