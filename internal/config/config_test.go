package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Business.LowStockThreshold)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Empty(t, cfg.Redis.URL)
	assert.Contains(t, cfg.Database.DSN(), "dbname=")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/centro")
	t.Setenv("SUMMARY_CACHE_TTL", "5")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/centro", cfg.Database.DSN())
	assert.Equal(t, 5*time.Second, cfg.Redis.SummaryTTL)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
}
