// Package main is the entry point for the API service.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/ibondarenko1/hipaa-saas/pkg/auth"
	"github.com/ibondarenko1/hipaa-saas/pkg/config"
	"github.com/ibondarenko1/hipaa-saas/pkg/database"
	"github.com/ibondarenko1/hipaa-saas/pkg/events"
	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/telemetry"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/repository"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/routes"
)

// Build information (set via ldflags).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log = log.WithService("api")

	log.Info("starting API service",
		"version", version,
		"build_time", buildTime,
		"git_commit", gitCommit,
		"env", cfg.Env,
	)

	// Create context that listens for shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	log.Info("connected to database")

	// Separate database/sql handle for the reporting read path
	reportDB, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open reporting database: %w", err)
	}
	defer reportDB.Close()
	reportDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	reportDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	reportDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Install or refresh the HIPAA catalog
	repo := repository.New(db)
	if err := repo.InstallCatalog(ctx); err != nil {
		return fmt.Errorf("failed to install catalog: %w", err)
	}
	log.Info("catalog installed")

	// Token manager for API authentication
	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}

	// Kafka publisher (nil when disabled)
	publisher, err := events.NewPublisher(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	if publisher != nil {
		defer publisher.Close()
		log.Info("event publisher ready", "brokers", cfg.Kafka.Brokers)
	}

	// Tracing
	tp, err := telemetry.NewProvider(telemetry.FromAppConfig(cfg, "api", version))
	if err != nil {
		return fmt.Errorf("failed to create telemetry provider: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	// Build router
	router := routes.New(routes.Config{
		DB:        db,
		ReportDB:  reportDB,
		Tokens:    tokens,
		Publisher: publisher,
		Config:    cfg,
		Logger:    log,
		BuildInfo: routes.BuildInfo{
			Version:   version,
			BuildTime: buildTime,
			GitCommit: gitCommit,
		},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.API.Address(),
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("shutdown signal received", "signal", sig.String())

		// Create shutdown context with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.API.ShutdownTimeout)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
			if err := server.Close(); err != nil {
				return fmt.Errorf("forced shutdown error: %w", err)
			}
		}

		log.Info("server shutdown complete")
	}

	return nil
}
