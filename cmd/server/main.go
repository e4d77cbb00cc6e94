package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/campuskit/academy/migrations"
	"github.com/campuskit/academy/pkg/academy"
	"github.com/campuskit/academy/pkg/academy/api"
	"github.com/campuskit/academy/pkg/academy/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Environment)
	slog.SetDefault(logger)

	if cfg.DatabaseDriver == "postgres" && cfg.MigrateOnStart {
		if err := runMigrations(cfg); err != nil {
			logger.Error("Failed to run migrations", "err", err)
			os.Exit(1)
		}
		logger.Info("Migrations applied")
	}

	ctx := context.Background()

	repo, pool, err := cfg.BuildRepository(ctx)
	if err != nil {
		logger.Error("Failed to build repository", "err", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	blobs, err := cfg.BuildBlobStore()
	if err != nil {
		logger.Error("Failed to build blob store", "err", err)
		os.Exit(1)
	}

	svc, err := academy.New(
		academy.WithRepository(repo),
		academy.WithBlobStore(blobs),
		academy.WithLogger(logger),
	)
	if err != nil {
		logger.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"database", cfg.DatabaseDriver,
			"storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "err", err)
	}
}

func newLogger(environment string) *slog.Logger {
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func runMigrations(cfg *config.Config) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	// golang-migrate selects its driver from the URL scheme
	databaseURL := strings.Replace(cfg.DB.DatabaseURL(), "postgres://", "pgx5://", 1)
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to init migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
