package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "LATE_PICKUP_GRACE_MINUTES", "LATE_PICKUP_FEE", "ALLOWED_ORIGINS", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 10*time.Minute, cfg.LatePickupGrace)
	assert.Equal(t, 10.0, cfg.LatePickupFee)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.ScheduleMigrationCheck)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LATE_PICKUP_GRACE_MINUTES", "15")
	t.Setenv("LATE_PICKUP_FEE", "12.5")
	t.Setenv("ALLOWED_ORIGINS", " https://admin.example.com , ,https://app.example.com")
	t.Setenv("TIMEZONE", "UTC")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 15*time.Minute, cfg.LatePickupGrace)
	assert.Equal(t, 12.5, cfg.LatePickupFee)
	assert.Equal(t, []string{"https://admin.example.com", "https://app.example.com"}, cfg.AllowedOrigins)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.Equal(t, time.UTC.String(), cfg.Now().Location().String())
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("LATE_PICKUP_GRACE_MINUTES", "ten")
	t.Setenv("LATE_PICKUP_FEE", "lots")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	cfg := Load()

	assert.Equal(t, 10*time.Minute, cfg.LatePickupGrace)
	assert.Equal(t, 10.0, cfg.LatePickupFee)
	assert.Equal(t, time.Local, cfg.Location)
}

func TestScheduleCatalog(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Schedules {
		assert.False(t, seen[s.ID], "duplicate schedule %s", s.ID)
		seen[s.ID] = true
		assert.Greater(t, s.Price, 0.0)
		_, err := time.Parse("15:04", s.ContractualEnd)
		assert.NoError(t, err, s.ID)
	}
	assert.True(t, seen["full-day"])
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "admin:7:session", CacheKey.AdminSessionKey(7))
	assert.Equal(t, "schedule_migration:2025-03", CacheKey.ScheduleMigrationKey("2025-03"))
	assert.Equal(t, "daycare:changes", CacheKey.ChangesChannel())
}
