package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/logger"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/tasks"
	"github.com/go-redis/redis/v8"
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

	logger.Logger.Info("Starting Byte-Wise Nexus Scheduler")

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Test Redis connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Create Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()
	enqueuer := tasks.NewEnqueuer(asynqClient, logger.Logger)

	scheduler, err := NewScheduler(NewRedisRunStore(rdb), jobs(cfg, enqueuer), logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to create scheduler", zap.Error(err))
	}

	// Start scheduler
	scheduler.Start()
	defer func() {
		logger.Logger.Info("Shutting down scheduler...")
		scheduler.Stop()
		logger.Logger.Info("Scheduler exited")
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

// jobEnqueuer is the part of tasks.Enqueuer used by recurring jobs
type jobEnqueuer interface {
	EnqueueSweep(ctx context.Context, limit int) (string, error)
	EnqueueCleanupTokens(ctx context.Context) error
}

// jobs returns the recurring jobs. The enrichment sweep needs the shared catalog, so it is
// left out when the catalog is held in process.
func jobs(cfg *config.Config, enqueuer jobEnqueuer) []Job {
	list := []Job{
		{
			Name: "token-cleanup",
			Cron: cfg.JWT.CleanupCron,
			Run:  enqueuer.EnqueueCleanupTokens,
		},
	}

	if cfg.StorageDriver != config.StorageDriverMemory {
		list = append(list, Job{
			Name: "enrichment-sweep",
			Cron: cfg.Enrichment.SweepCron,
			Run: func(ctx context.Context) error {
				_, err := enqueuer.EnqueueSweep(ctx, cfg.Enrichment.SweepBatchSize)
				return err
			},
		})
	}

	return list
}
