// Package main is the entry point for the debt matching API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/finance-tracker/debts/config"
	"github.com/finance-tracker/debts/internal/application/adapter"
	"github.com/finance-tracker/debts/internal/infra/db"
	"github.com/finance-tracker/debts/internal/infra/dependency"
	"github.com/finance-tracker/debts/internal/infra/logging"
	"github.com/finance-tracker/debts/internal/integration/cache"
	"github.com/finance-tracker/debts/internal/integration/metrics"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logging.Setup(cfg.Server.Environment, cfg.Log.Level)

	slog.Info("Starting debt matching API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"database_driver", cfg.Database.Driver,
	)

	// Initialize database connection
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database migrations completed successfully")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scan watermarks live in Redis when it is reachable
	var watermarks adapter.ScanWatermarkStore
	var cacheHealth func() bool
	if cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, keeping scan watermarks in memory", "error", err)
		} else {
			defer func() {
				if err := client.Close(); err != nil {
					slog.Error("Failed to close redis client", "error", err)
				}
			}()
			watermarks = cache.NewRedisWatermarkStore(client)
			cacheHealth = func() bool {
				pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				return client.Ping(pingCtx).Err() == nil
			}
		}
	}
	if watermarks == nil {
		watermarks = cache.NewMemoryWatermarkStore()
	}

	injector := dependency.NewInjector(cfg, database.DB(), dependency.Options{
		Watermarks:  watermarks,
		Metrics:     metrics.NewPrometheusMetrics(),
		CacheHealth: cacheHealth,
	})
	go injector.Scheduler.Start(ctx)

	engine := injector.Router.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	injector.Scheduler.Stop()

	slog.Info("Server exited properly")
}
