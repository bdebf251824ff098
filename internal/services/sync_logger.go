package services

import (
	"context"
	"log/slog"
	"time"

	"customer-sync/internal/models"
)

type requestIDKey struct{}

// WithRequestID stores the request identifier used to correlate sync log records
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// SyncLogger provides structured logging for synchronization runs
type SyncLogger struct {
	logger *slog.Logger
}

// NewSyncLogger creates a new sync logger
func NewSyncLogger(logger *slog.Logger) SyncLoggerInterface {
	return &SyncLogger{
		logger: logger,
	}
}

// LogSyncStarted logs the start of a synchronization run
func (sl *SyncLogger) LogSyncStarted(ctx context.Context, runID string) {
	sl.logger.InfoContext(ctx, "customer sync started",
		slog.String("event_type", "sync_started"),
		slog.String("run_id", runID),
		slog.Time("timestamp", time.Now()),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

func (sl *SyncLogger) LogPageFetched(ctx context.Context, page, records int) {
	sl.logger.DebugContext(ctx, "upstream page fetched",
		slog.String("event_type", "page_fetched"),
		slog.Int("page", page),
		slog.Int("records", records),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

// LogFetchCompleted logs the end of pagination, once the empty page was seen
func (sl *SyncLogger) LogFetchCompleted(ctx context.Context, pages, records int, durationMs int64) {
	sl.logger.InfoContext(ctx, "upstream fetch completed",
		slog.String("event_type", "fetch_completed"),
		slog.Int("pages", pages),
		slog.Int("records", records),
		slog.Int64("duration_ms", durationMs),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

// LogSyncCompleted logs a committed synchronization run
func (sl *SyncLogger) LogSyncCompleted(ctx context.Context, run *models.SyncRun, durationMs int64) {
	sl.logger.InfoContext(ctx, "customer sync completed",
		slog.String("event_type", "sync_completed"),
		slog.String("run_id", run.ID.String()),
		slog.Int("records_processed", run.RecordsProcessed),
		slog.Int("records_inserted", run.RecordsInserted),
		slog.Int("records_updated", run.RecordsUpdated),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

// LogSyncFailed logs a failed run. stage is "fetch" or "store".
func (sl *SyncLogger) LogSyncFailed(ctx context.Context, runID, stage, errorMsg string, durationMs int64) {
	sl.logger.ErrorContext(ctx, "customer sync failed",
		slog.String("event_type", "sync_failed"),
		slog.String("run_id", runID),
		slog.String("stage", stage),
		slog.String("error", errorMsg),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)
}

// RequestIDFromContext returns the request ID stored by WithRequestID, or an empty string
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}
