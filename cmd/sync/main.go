// Command sync runs a single customer synchronization and exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"customer-sync/internal/config"
	"customer-sync/internal/database"
	"customer-sync/internal/server"
	"customer-sync/internal/services"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	logger := server.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	os.Exit(run(cfg, logger))
}

func run(cfg *config.Config, logger *slog.Logger) int {
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Printf("Failed to initialize database: %v", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Sync.Timeout)
	defer cancel()

	svcs := server.NewServices(db.DB, cfg, prometheus.NewRegistry(), logger)

	syncRun, err := svcs.Sync.Run(ctx)
	if err != nil {
		stage := "storage"
		if errors.Is(err, services.ErrFetchFailed) {
			stage = "fetch"
		}
		logger.Error("synchronization failed", slog.String("stage", stage), slog.String("error", err.Error()))
		return 1
	}

	fmt.Printf("synchronized %d customers (inserted %d, updated %d) in %s\n",
		syncRun.RecordsProcessed, syncRun.RecordsInserted, syncRun.RecordsUpdated, syncRun.Duration())
	return 0
}
