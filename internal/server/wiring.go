package server

import (
	"io"
	"log/slog"

	"customer-sync/internal/config"
	"customer-sync/internal/repositories"
	"customer-sync/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Services are the application services shared by the HTTP server and the sync command
type Services struct {
	Customer services.CustomerServiceInterface
	Sync     services.SyncServiceInterface
}

// NewServices wires repositories, the upstream client and the synchronizer
func NewServices(db *gorm.DB, cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) *Services {
	metrics := services.NewPrometheusMetrics(reg)

	breaker := services.NewCircuitBreaker(services.CircuitBreakerConfig{
		MaxFailures:  cfg.Upstream.CircuitBreakerMaxFailures,
		ResetTimeout: cfg.Upstream.CircuitBreakerResetTimeout,
	})
	client := services.NewUpstreamClient(&cfg.Upstream, breaker, metrics, logger)

	syncLogger := services.NewSyncLogger(logger)
	fetcher := services.NewCustomerFetcher(client, cfg.Upstream.PageSize, cfg.Upstream.MaxPages, syncLogger)

	customerRepo := repositories.NewCustomerRepository(db)
	runRepo := repositories.NewSyncRunRepository(db)

	return &Services{
		Customer: services.NewCustomerService(customerRepo),
		Sync:     services.NewSyncService(db, fetcher, customerRepo, runRepo, metrics, syncLogger),
	}
}

// NewLogger returns a JSON logger in production and a text logger elsewhere
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
