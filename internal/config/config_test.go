package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "primary", cfg.CalendarID)
	assert.Equal(t, int64(30), cfg.MaxUpcoming)
	assert.True(t, cfg.MultiStep)
	assert.Contains(t, cfg.DBPath, ".ollender")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OLLENDER_CALENDAR_ID", "work@example.com")
	t.Setenv("OLLENDER_MAX_UPCOMING", "10")
	t.Setenv("OLLENDER_MULTI_STEP", "false")

	cfg := Load()
	assert.Equal(t, "work@example.com", cfg.CalendarID)
	assert.Equal(t, int64(10), cfg.MaxUpcoming)
	assert.False(t, cfg.MultiStep)
}

func TestLoad_IgnoresInvalidValues(t *testing.T) {
	t.Setenv("OLLENDER_MAX_UPCOMING", "-3")
	t.Setenv("OLLENDER_MULTI_STEP", "maybe")

	cfg := Load()
	assert.Equal(t, int64(30), cfg.MaxUpcoming)
	assert.True(t, cfg.MultiStep)
}
