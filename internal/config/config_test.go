package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chessarena/server/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:               ":8080",
		DBPath:             "test.db",
		LogLevel:           "INFO",
		EloKFactor:         32,
		PublishWorkerCount: 2,
		PublishQueueSize:   128,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_BadKFactor(t *testing.T) {
	cfg := validConfig()
	cfg.EloKFactor = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ELO_K_FACTOR")
}

func TestValidate_BadWorkerCount(t *testing.T) {
	cfg := validConfig()
	cfg.PublishWorkerCount = -1

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PUBLISH_WORKER_COUNT")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "ELO_K_FACTOR", "PUBLISH_WORKER_COUNT", "PUBLISH_QUEUE_SIZE", "JANUS_URL"} {
		os.Unsetenv(key)
	}

	cfg := config.Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 32, cfg.EloKFactor)
	assert.Equal(t, 2, cfg.PublishWorkerCount)
	assert.Empty(t, cfg.JanusURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("ELO_K_FACTOR", "16")
	t.Setenv("PUBLISH_QUEUE_SIZE", "not-a-number")

	cfg := config.Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 16, cfg.EloKFactor)
	assert.Equal(t, 128, cfg.PublishQueueSize)
}
