package config

import (
	"github.com/joho/godotenv"
)

// LoadTestConfig reads the TEST_DB_* and TEST_REDIS_* variables used by the integration tests.
//
// A missing TEST_DB_HOST yields a config with an empty Database.Host, which the tests treat as
// "skip". The catalog driver is always mysql and enrichment runs sequentially.
func LoadTestConfig() (*Config, error) {
	_ = godotenv.Load("./../../configs/.env")
	_ = godotenv.Load()

	cfg := &Config{
		StorageDriver: StorageDriverMySQL,
		Enrichment: EnrichmentConfig{
			Concurrency:         1,
			SweepBatchSize:      10,
			MinTranscriptLength: 200,
		},
	}

	cfg.Database.Host = stringEnv("TEST_DB_HOST", "")
	if cfg.Database.Host == "" {
		return cfg, nil
	}

	var err error
	if cfg.Database.Port, err = intEnv("TEST_DB_PORT", 3306); err != nil {
		return nil, err
	}
	cfg.Database.User = stringEnv("TEST_DB_USER", "nexus")
	cfg.Database.Password = stringEnv("TEST_DB_PASSWORD", "")
	cfg.Database.DBName = stringEnv("TEST_DB_NAME", "nexus_test")

	cfg.Redis.Host = stringEnv("TEST_REDIS_HOST", "")
	if cfg.Redis.Port, err = intEnv("TEST_REDIS_PORT", 6379); err != nil {
		return nil, err
	}

	return cfg, nil
}
