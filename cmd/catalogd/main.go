// Package main is the entry point for the catalogd server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogd/internal/cache"
	"catalogd/internal/config"
	"catalogd/internal/database"
	"catalogd/internal/events"
	"catalogd/internal/graph"
	"catalogd/internal/handlers"
	"catalogd/internal/router"
	"catalogd/internal/service"
	"catalogd/internal/storage"
	"catalogd/internal/store"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (invalidation bus + change event channel). The
	// service runs single-node without it.
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable — running with local-only cache invalidation", "error", err)
		valkeyClient = nil
	}
	if valkeyClient != nil {
		defer valkeyClient.Close()
	}

	// Region cache and its cross-node invalidation bus.
	regionCache := cache.New(cfg.CacheTTL)
	defer regionCache.Stop()
	bus := cache.NewBus(regionCache, valkeyClient)

	busCtx, stopBus := context.WithCancel(context.Background())
	defer stopBus()
	go bus.Listen(busCtx)

	// Connect to S3-compatible object storage (optional — the service works
	// without it, serving persisted image URLs as-is).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var urls graph.URLResolver = storage.PassthroughURLs{}
	if storageClient != nil {
		urls = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — media uploads disabled")
	}

	// Record store, dependency loader, and the service layer on top.
	st := store.New(db)
	loader := graph.NewLoader(st, urls)
	reader := service.NewReader(loader, st, regionCache)

	var publisher events.Publisher
	if valkeyClient != nil {
		publisher = events.NewValkeyPublisher(valkeyClient)
	}
	begin := func(ctx context.Context) (service.UnitOfWork, error) { return st.Begin(ctx) }
	var media service.MediaStore
	if storageClient != nil {
		media = storageClient
	}
	writer := service.NewWriter(st, begin, bus, publisher, media)
	bulk := service.NewBulkUpdater(writer, cfg.BulkChunkSize)

	api := handlers.NewAPI(reader, writer, bulk, bus, storageClient)

	// Set up the Chi router with all middleware and routes.
	r := router.New(api)

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate bulk updates that commit many chunks in one request.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
