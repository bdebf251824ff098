package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"customer-sync/internal/config"
	"customer-sync/internal/database"
	"customer-sync/internal/middleware"
	"customer-sync/internal/server"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := server.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svcs := server.NewServices(db.DB, cfg, prometheus.DefaultRegisterer, logger)

	syncLimiter := middleware.NewIPRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst)
	go syncLimiter.Cleanup(ctx, 0)

	e := server.NewRouter(server.RouterDeps{
		DB:              db.DB,
		CustomerService: svcs.Customer,
		SyncService:     svcs.Sync,
		SyncLimiter:     syncLimiter,
		Logger:          logger,
		StrictTransport: cfg.IsProduction(),
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		logger.Info("starting server",
			slog.String("address", cfg.Server.Address()),
			slog.String("environment", cfg.Server.Environment),
			slog.String("upstream", cfg.Upstream.BaseURL),
		)
		if err := e.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
