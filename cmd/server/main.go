package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"robolog/internal"
	"robolog/internal/handler"
	"robolog/internal/jobs"
	"robolog/internal/metrics"
	"robolog/internal/middleware"
	"robolog/internal/refdata"
	"robolog/internal/repository"
	"robolog/internal/service"
	"robolog/internal/storage"
	"robolog/internal/worker"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("database ready")

	// Initialize repository
	repo := repository.New(db)

	// Initialize object storage
	store, err := newStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}

	// Load reference data (fault catalog, roster, cell layout)
	refdataService, err := service.NewRefdataService(ctx, service.RefdataConfig{
		CatalogPath:    cfg.CatalogPath,
		RosterPath:     cfg.RosterPath,
		CellsPath:      cfg.CellsPath,
		ColumnOverride: columnOverride(cfg),
	}, logger)
	if err != nil {
		return fmt.Errorf("reference data load failed: %w", err)
	}

	// Initialize services
	reportService := service.NewReportService(repo, refdataService, logger)
	statsService := service.NewStatsService(repo, logger)
	attachmentService := service.NewAttachmentService(repo, store, logger)

	// Initialize template renderer
	renderer, err := handler.NewRenderer(logger)
	if err != nil {
		return fmt.Errorf("renderer initialization failed: %w", err)
	}

	// Background worker for ledger export and evidence processing
	workerConfig := worker.DefaultConfig()
	workerConfig.Concurrency = cfg.WorkerConcurrency
	workerConfig.PollInterval = cfg.WorkerPollInterval
	workerConfig.JobTimeout = cfg.WorkerJobTimeout

	jobWorker, err := worker.New(db, repo, workerConfig, logger)
	if err != nil {
		return fmt.Errorf("worker initialization failed: %w", err)
	}
	jobWorker.Register(jobs.NewExportReportHandler(repo, store, logger))
	jobWorker.Register(jobs.NewProcessEvidenceHandler(repo, store, logger))

	if cfg.WorkerEnabled {
		jobWorker.Start(ctx)
		defer jobWorker.Stop()
	} else {
		logger.Warn("background worker disabled, jobs will queue up")
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	handler.RegisterStatic(mux)

	// Local storage serves objects directly; S3 hands out presigned URLs.
	if cfg.StorageProvider == "local" {
		files := http.FileServer(http.Dir(cfg.LocalStoragePath))
		mux.Handle("GET /files/", http.StripPrefix("/files/", files))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint, behind basic auth when configured
	metricsAuth := middleware.MetricsAuth(cfg.MetricsUsername, cfg.MetricsPassword, logger)
	mux.Handle("GET /metrics", metricsAuth(promhttp.Handler()))

	// Rate limit guards the mutating routes
	limiter := middleware.NewRateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	limit := middleware.RateLimit(limiter, logger)

	handler.NewReportHandler(reportService, refdataService, renderer, logger).RegisterRoutes(mux, limit)
	handler.NewCatalogHandler(refdataService, logger).RegisterRoutes(mux)
	handler.NewStatsHandler(statsService, renderer, logger).RegisterRoutes(mux)
	handler.NewAttachmentHandler(attachmentService, logger).RegisterRoutes(mux, limit)

	stack := middleware.Stack(
		middleware.SecurityHeaders,
		middleware.RequestLogging(logger),
		metrics.Middleware,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: stack(mux),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
		}
	}()

	<-sigChan
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("graceful shutdown complete")
	return nil
}

// newStore picks the storage backend from configuration.
func newStore(cfg *internal.Config, logger *slog.Logger) (storage.Store, error) {
	if cfg.StorageProvider == "s3" {
		return storage.NewS3Store(storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3BucketName,
			PublicURL:       cfg.S3PublicURL,
		}, logger)
	}
	return storage.NewLocalStore(storage.LocalConfig{
		BasePath: cfg.LocalStoragePath,
		BaseURL:  cfg.LocalStorageURL,
	}, logger)
}

// columnOverride maps configured header names onto the catalog loader.
func columnOverride(cfg *internal.Config) *refdata.ColumnOverride {
	if cfg.CatalogAreaColumn == "" && cfg.CatalogTypeColumn == "" &&
		cfg.CatalogCodeColumn == "" && cfg.CatalogDescColumn == "" {
		return nil
	}
	return &refdata.ColumnOverride{
		Area:        cfg.CatalogAreaColumn,
		Type:        cfg.CatalogTypeColumn,
		Code:        cfg.CatalogCodeColumn,
		Description: cfg.CatalogDescColumn,
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
