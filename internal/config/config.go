package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	EloKFactor         int
	PublishWorkerCount int
	PublishQueueSize   int
	JanusURL           string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:chessarena.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		EloKFactor:         envIntOr("ELO_K_FACTOR", 32),
		PublishWorkerCount: envIntOr("PUBLISH_WORKER_COUNT", 2),
		PublishQueueSize:   envIntOr("PUBLISH_QUEUE_SIZE", 128),
		JanusURL:           envOr("JANUS_URL", ""),
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.EloKFactor <= 0 {
		return fmt.Errorf("ELO_K_FACTOR must be positive, got %d", c.EloKFactor)
	}
	if c.PublishWorkerCount <= 0 {
		return fmt.Errorf("PUBLISH_WORKER_COUNT must be positive, got %d", c.PublishWorkerCount)
	}
	if c.PublishQueueSize <= 0 {
		return fmt.Errorf("PUBLISH_QUEUE_SIZE must be positive, got %d", c.PublishQueueSize)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
