/*
Package main is the entry point for the Community Hub server.

It is responsible for loading configuration, initializing the global logging
system, opening the persisted state store and the history database, wiring the
registry, access, assistant and storage services, and gracefully handling
operating system interrupt signals (SIGINT, SIGTERM) to ensure a smooth
server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commhub/internal/app/access"
	"commhub/internal/app/assistant"
	"commhub/internal/app/db"
	"commhub/internal/app/events"
	"commhub/internal/app/registry"
	"commhub/internal/app/storage"
	"commhub/internal/app/store"
	"commhub/internal/configs"
	"commhub/internal/handler"
	"commhub/internal/pkg/logx"
	"commhub/internal/pkg/pow"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("data_dir", cfg.DataDir).
		Str("ai_provider", cfg.AIProvider).
		Bool("storage_enabled", cfg.StorageEnabled()).
		Int("pow_difficulty", cfg.PowDifficulty).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persisted community state and the change-notification bus.
	blobStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		logx.Fatal(err, "Failed to open data directory", "data_dir", cfg.DataDir)
	}

	bus := events.NewBus()
	registrySvc := registry.NewService(blobStore, bus)
	accessSvc := access.NewService(blobStore, bus)

	// Assistant history database and provider.
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	var provider assistant.Provider
	switch cfg.AIProvider {
	case "groq":
		provider = assistant.NewGroqProvider(cfg.GroqAPIKey)
	default:
		provider = assistant.NewPerplexityProvider(cfg.PerplexityAPIKey)
	}
	assistantSvc := assistant.NewService(provider, assistant.NewPostgresHistory(pool))

	// Attachment storage is optional; presign routes report disabled when unset.
	var storageService storage.StorageService
	if cfg.StorageEnabled() {
		storageService, err = storage.NewStorageService(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize attachment storage")
		}
	}

	deps := &handler.AppDeps{
		Config:         cfg,
		Store:          blobStore,
		Bus:            bus,
		Registry:       registrySvc,
		Access:         accessSvc,
		Assistant:      assistantSvc,
		StorageService: storageService,
		Pow:            pow.NewPoWManager(cfg.PowDifficulty),
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Community Hub Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	bus.Close()

	logx.Info("Server gracefully stopped.")
}
