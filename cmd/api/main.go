package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Vivek8951/byte-wise-nexus-sub000/docs"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/auth"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/catalog"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/enrichment"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/handlers"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/logger"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/middleware"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/objectstore"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/textgen"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/platform/videosearch"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/repositories"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/services"
	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/tasks"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hibiken/asynq"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const (
	chatHistoryEntries = 50
	chatHistoryTTL     = 7 * 24 * time.Hour
)

// @title Byte-Wise Nexus API
// @version 1.0
// @description Course catalog, learner progress and content-enrichment functions

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
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

	logger.Logger.Info("Starting Byte-Wise Nexus API", zap.String("storage_driver", cfg.StorageDriver))

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

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

	// External collaborators
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
	} else {
		logger.Logger.Warn("YOUTUBE_API_KEY is not set, video selection uses generated and fallback links only")
	}

	objectStore, err := objectstore.NewS3Store(ctx, cfg.Storage, logger.Logger)
	if err != nil {
		logger.Logger.Fatal("Failed to create object store", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Initialize repositories
	stores, err := catalog.Open(cfg.StorageDriver, db)
	if err != nil {
		logger.Logger.Fatal("Failed to open catalog stores", zap.Error(err))
	}
	profileRepo := repositories.NewProfileRepository(db, logger.Logger)
	userTokenRepo := repositories.NewUserTokenRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	progressRepo := repositories.NewProgressRepository(db)
	certificateRepo := repositories.NewCertificateRepository(db)
	attemptRepo := repositories.NewQuizAttemptRepository(db)
	chatHistoryRepo := repositories.NewChatHistoryRepository(rdb, chatHistoryEntries, chatHistoryTTL)

	// Enrichment pipeline. Queued work runs in the worker, which cannot see an in-process catalog.
	pipeline := enrichment.NewPipeline(
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
	var enrichmentQueue handlers.EnrichmentEnqueuer = enqueuer
	if stores.Memory != nil {
		enrichmentQueue = nil
	}

	// Initialize services
	authService := services.NewAuthService(profileRepo, userTokenRepo, tokenGenerator, enqueuer, cfg.PublicBaseURL, logger.Logger)
	profileService := services.NewProfileService(profileRepo, logger.Logger)
	adminService := services.NewAdminService(profileRepo, logger.Logger)
	courseService := services.NewCourseService(stores.Courses, stores.Videos, stores.Notes, stores.Quizzes, logger.Logger)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, stores.Courses, logger.Logger)
	certificateService := services.NewCertificateService(certificateRepo, profileRepo, stores.Courses, enqueuer, cfg.PublicBaseURL, logger.Logger)
	progressService := services.NewProgressService(
		progressRepo,
		enrollmentRepo,
		services.NewCourseContent(stores.Videos, stores.Quizzes),
		certificateService,
		logger.Logger,
	)
	quizService := services.NewQuizService(stores.Quizzes, attemptRepo, stores.Courses, progressService, logger.Logger)
	chatService := services.NewChatService(chatHistoryRepo, generator, stores.Courses, logger.Logger)
	mediaService := services.NewMediaService(objectStore, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	userHandler := handlers.NewUserHandler(profileService, adminService, logger.Logger)
	courseHandler := handlers.NewCourseHandler(courseService, logger.Logger)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, progressService, logger.Logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger.Logger)
	certificateHandler := handlers.NewCertificateHandler(certificateService, logger.Logger)
	chatHandler := handlers.NewChatHandler(chatService, logger.Logger)
	mediaHandler := handlers.NewMediaHandler(mediaService, logger.Logger)
	functionHandler := handlers.NewFunctionHandler(pipeline, enrichmentQueue, logger.Logger)

	// Initialize auth middleware
	authMiddleware := auth.AuthMiddleware(tokenGenerator)
	adminMiddleware := auth.RoleMiddleware(tokenGenerator, auth.RoleAdmin)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger, "/healthz"))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.BodyLimits{
		Default:  1 << 20,
		ByPrefix: map[string]int64{"/api/v1/media/": 25 << 20},
	}))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authMiddleware)
		userHandler.RegisterRoutes(r, authMiddleware, adminMiddleware)
		courseHandler.RegisterRoutes(r, adminMiddleware)
		enrollmentHandler.RegisterRoutes(r, authMiddleware)
		quizHandler.RegisterRoutes(r, authMiddleware, adminMiddleware)
		certificateHandler.RegisterRoutes(r, authMiddleware)
		chatHandler.RegisterRoutes(r, authMiddleware)
		mediaHandler.RegisterRoutes(r, authMiddleware, adminMiddleware)
	})

	// Enrichment functions
	r.Route("/functions/v1", func(r chi.Router) {
		functionHandler.RegisterRoutes(r, adminMiddleware)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // synchronous populate-courses runs long
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
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

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "nexus_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Try parent directories if running from cmd/api
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		"mysql",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
