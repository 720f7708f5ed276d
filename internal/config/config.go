// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Text generation providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Storage drivers
const (
	StorageDriverMySQL  = "mysql"
	StorageDriverMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Database    DatabaseConfig
	Redis       RedisConfig
	Server      ServerConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	JWT         JWTConfig
	SMTP        SMTPConfig
	Storage     StorageConfig
	TextGen     TextGenConfig
	VideoSearch VideoSearchConfig
	Enrichment  EnrichmentConfig
	// StorageDriver selects the catalog store used by the API and the worker ("mysql" or "memory")
	StorageDriver string
	// PublicBaseURL is the externally visible base URL used in emails
	PublicBaseURL string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	// CleanupCron schedules removal of expired refresh tokens
	CleanupCron string
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
}

// TextGenConfig holds settings of the text-generation collaborator
type TextGenConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	Temperature float64
	MaxTokens   int
}

// VideoSearchConfig holds settings of the video-search collaborator
type VideoSearchConfig struct {
	APIKey     string
	MaxResults int
}

// EnrichmentConfig holds settings of the content-enrichment pipeline
type EnrichmentConfig struct {
	// Concurrency bounds bulk enrichment and population work (1 = strictly sequential)
	Concurrency         int
	SweepCron           string
	SweepBatchSize      int
	MinTranscriptLength int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	godotenv.Load()

	cfg := &Config{}

	// Database configuration
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return nil, fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_DRIVER")))
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = StorageDriverMySQL
	}

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	cfg.JWT.AccessTokenExpiry, err = durationEnv("JWT_ACCESS_TOKEN_EXPIRY", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWT.RefreshTokenExpiry, err = durationEnv("JWT_REFRESH_TOKEN_EXPIRY", 168*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWT.CleanupCron = stringEnv("TOKEN_CLEANUP_CRON", "0 3 * * *")

	// Redis configuration
	cfg.Redis.Host = stringEnv("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = intEnv("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD") // optional
	if cfg.Redis.DB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}

	// SMTP configuration
	cfg.SMTP.Host = stringEnv("SMTP_HOST", "localhost")
	if cfg.SMTP.Port, err = intEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME") // optional
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD") // optional
	cfg.SMTP.From = stringEnv("SMTP_FROM", "noreply@bytewisenexus.dev")

	// Object storage configuration
	cfg.Storage.Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.Storage.Region = stringEnv("S3_REGION", "us-east-1")
	cfg.Storage.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	cfg.Storage.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	cfg.Storage.Bucket = stringEnv("S3_BUCKET", "course-assets")
	cfg.Storage.PublicBaseURL = strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/")

	// Text generation configuration
	cfg.TextGen.Provider = strings.ToLower(stringEnv("TEXTGEN_PROVIDER", ProviderOpenAI))
	cfg.TextGen.APIKey = strings.TrimSpace(os.Getenv("TEXTGEN_API_KEY"))
	cfg.TextGen.Model = os.Getenv("TEXTGEN_MODEL")
	cfg.TextGen.BaseURL = strings.TrimRight(os.Getenv("TEXTGEN_BASE_URL"), "/")
	if cfg.TextGen.Timeout, err = durationEnv("TEXTGEN_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.TextGen.MaxRetries, err = intEnv("TEXTGEN_MAX_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.TextGen.MaxTokens, err = intEnv("TEXTGEN_MAX_TOKENS", 1500); err != nil {
		return nil, err
	}
	cfg.TextGen.Temperature = 0.7
	if v := os.Getenv("TEXTGEN_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TEXTGEN_TEMPERATURE: %w", err)
		}
		cfg.TextGen.Temperature = t
	}

	// Video search configuration (optional, the pipeline falls back to static tables)
	cfg.VideoSearch.APIKey = strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY"))
	if cfg.VideoSearch.MaxResults, err = intEnv("YOUTUBE_MAX_RESULTS", 5); err != nil {
		return nil, err
	}

	// Enrichment configuration
	if cfg.Enrichment.Concurrency, err = intEnv("ENRICHMENT_CONCURRENCY", 1); err != nil {
		return nil, err
	}
	cfg.Enrichment.SweepCron = stringEnv("ENRICHMENT_SWEEP_CRON", "*/30 * * * *")
	if cfg.Enrichment.SweepBatchSize, err = intEnv("ENRICHMENT_SWEEP_BATCH_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.Enrichment.MinTranscriptLength, err = intEnv("ENRICHMENT_MIN_TRANSCRIPT_LENGTH", 200); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
//
// The text-generation key has no compiled-in default: a missing key for the selected
// provider is a startup error.
func (c *Config) Validate() error {
	switch c.TextGen.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("invalid TEXTGEN_PROVIDER: %s, must be '%s' or '%s'", c.TextGen.Provider, ProviderOpenAI, ProviderGemini)
	}
	if c.TextGen.APIKey == "" {
		return fmt.Errorf("TEXTGEN_API_KEY is required")
	}
	if c.TextGen.MaxRetries < 0 {
		return fmt.Errorf("TEXTGEN_MAX_RETRIES must not be negative")
	}
	if c.Enrichment.Concurrency < 1 {
		return fmt.Errorf("ENRICHMENT_CONCURRENCY must be at least 1")
	}
	if c.Enrichment.SweepBatchSize < 1 {
		return fmt.Errorf("ENRICHMENT_SWEEP_BATCH_SIZE must be at least 1")
	}
	switch c.StorageDriver {
	case StorageDriverMySQL, StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: %s", c.StorageDriver)
	}
	return nil
}

// DSN returns the database connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&clientFoundRows=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the host:port address of Redis
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// parseOrigins parses comma-separated origins, defaulting to allow all
func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	origins := strings.Split(raw, ",")
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			result = append(result, origin)
		}
	}
	if len(result) == 0 {
		return []string{"*"}
	}
	return result
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
