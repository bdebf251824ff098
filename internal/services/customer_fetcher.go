package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customer-sync/internal/dto"
)

var (
	ErrPageLimitExceeded = errors.New("upstream page limit exceeded")
	ErrUpstreamOverrun   = errors.New("upstream returned more records than its reported total")
)

const (
	DefaultPageSize = 10
	DefaultMaxPages = 10000
)

// CustomerFetcher pages through the upstream dataset until it sees an empty page
type CustomerFetcher struct {
	client   UpstreamClientInterface
	pageSize int
	maxPages int
	logger   SyncLoggerInterface
}

// NewCustomerFetcher creates a fetcher. Non-positive sizes fall back to the defaults.
func NewCustomerFetcher(client UpstreamClientInterface, pageSize, maxPages int, logger SyncLoggerInterface) CustomerFetcherInterface {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	return &CustomerFetcher{
		client:   client,
		pageSize: pageSize,
		maxPages: maxPages,
		logger:   logger,
	}
}

// FetchAll returns every record in provider order. Nothing is returned on error.
func (f *CustomerFetcher) FetchAll(ctx context.Context) ([]dto.CustomerRecord, error) {
	start := time.Now()
	records := make([]dto.CustomerRecord, 0, f.pageSize)

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch cancelled before page %d: %w", page, err)
		}

		result, err := f.client.FetchPage(ctx, page, f.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", page, err)
		}

		if len(result.Data) == 0 {
			f.logger.LogFetchCompleted(ctx, page-1, len(records), time.Since(start).Milliseconds())
			return records, nil
		}

		// page is now the count of non-empty pages seen
		if page > f.maxPages {
			return nil, fmt.Errorf("%w: more than %d pages", ErrPageLimitExceeded, f.maxPages)
		}

		records = append(records, result.Data...)
		f.logger.LogPageFetched(ctx, page, len(result.Data))

		if result.Total > 0 && len(records) > result.Total {
			return nil, fmt.Errorf("%w: received %d, total %d", ErrUpstreamOverrun, len(records), result.Total)
		}
	}
}
