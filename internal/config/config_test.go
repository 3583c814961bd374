package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "profiler.db", cfg.Store.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://maps.googleapis.com/maps/api", cfg.Places.BaseURL)
	assert.Equal(t, 20, cfg.Discovery.TargetPoolSize)
	assert.Equal(t, 8, cfg.Discovery.TopN)
	assert.Equal(t, 3, cfg.Enrich.BatchSize)
	assert.Equal(t, 3, cfg.Reviews.MaxPages)
	assert.Equal(t, 2000, cfg.Reviews.PageDelayMs)
	assert.Equal(t, 15, cfg.Scrape.TimeoutSecs)
	assert.InDelta(t, 0.032, cfg.Pricing.PlacesTextSearch, 1e-9)
	assert.InDelta(t, 0.017, cfg.Pricing.PlacesDetails, 1e-9)
	assert.Empty(t, cfg.Places.Key)
	assert.Empty(t, cfg.Anthropic.Key)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROFILER_STORE_DRIVER", "postgres")
	t.Setenv("PROFILER_STORE_DATABASE_URL", "postgres://localhost/profiler")
	t.Setenv("PROFILER_PLACES_KEY", "test-key")
	t.Setenv("PROFILER_SERVER_PORT", "9090")
	t.Setenv("PROFILER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/profiler", cfg.Store.DatabaseURL)
	assert.Equal(t, "test-key", cfg.Places.Key)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	assert.Error(t, err)
}
