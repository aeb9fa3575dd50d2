package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORAGE", "SESSION_TTL", "SWEEP_BATCH_SIZE", "REDIS_HOST"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "mysql", cfg.Storage)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 500, cfg.SweepBatchSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", "memory")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SWEEP_BATCH_SIZE", "50")
	t.Setenv("REDIS_HOST", "cache")

	cfg := Load()

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 50, cfg.SweepBatchSize)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("SESSION_TTL", "-5m")

	cfg := Load()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
}
