package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/catalog"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/enrichment"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/logger"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/mailer"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/textgen"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/videosearch"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/repositories"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/tasks"
	_ "github.com/go-sql-driver/mysql"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Byte-Wise Nexus Worker")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	// Enrichment runs against the shared catalog only
	var enricher tasks.Enricher
	stores, err := catalog.Open(cfg.StorageDriver, db)
	if err != nil {
		logger.Logger.Fatal("Failed to open catalog stores", zap.Error(err))
	}
	if stores.Memory != nil {
		logger.Logger.Warn("Catalog is held in process, enrichment tasks will be rejected")
	} else {
		generator, err := textgen.New(ctx, cfg.TextGen, logger.Logger)
		if err != nil {
			logger.Logger.Fatal("Failed to create text generator", zap.Error(err))
		}
		defer generator.Close()

		var searcher videosearch.Searcher
		if cfg.VideoSearch.APIKey != "" {
			youtube, err := videosearch.NewYouTubeSearcher(ctx, cfg.VideoSearch, logger.Logger)
			if err != nil {
				logger.Logger.Fatal("Failed to create video searcher", zap.Error(err))
			}
			searcher = youtube
		}

		enricher = enrichment.NewPipeline(
			stores.Courses,
			stores.Videos,
			stores.Quizzes,
			generator,
			searcher,
			enrichment.Options{
				MinTranscriptLength: cfg.Enrichment.MinTranscriptLength,
				Concurrency:         cfg.Enrichment.Concurrency,
			},
			logger.Logger,
		)
	}

	userTokenRepo := repositories.NewUserTokenRepository(db)

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Enrichment.Concurrency,
			Queues:      tasks.Queues(),
		},
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	tasks.NewHandlers(
		enricher,
		mailer.NewSMTPMailer(cfg.SMTP),
		userTokenRepo,
		cfg.Enrichment.SweepBatchSize,
		logger.Logger,
	).Register(mux)

	// Start worker
	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Logger.Fatal("Failed to start worker", zap.Error(err))
		}
	}()

	logger.Logger.Info("Worker started", zap.Int("concurrency", cfg.Enrichment.Concurrency))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down worker...")
	srv.Shutdown()
	logger.Logger.Info("Worker exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
