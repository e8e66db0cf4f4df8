package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "queens_token", cfg.Auth.CookieName)
	assert.Equal(t, 14*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 2*time.Hour, cfg.Sessions.IdleTTL)
	assert.False(t, cfg.Production())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("DAILY_MIN_SIZE", "6")
	t.Setenv("DAILY_MAX_SIZE", "6")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, 6, cfg.Daily.MinSize)
}

func TestLoadRejectsEmptyDailyRange(t *testing.T) {
	t.Setenv("DAILY_MIN_SIZE", "10")
	t.Setenv("DAILY_MAX_SIZE", "8")

	_, err := Load()
	assert.Error(t, err)
}
