package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/great-transit/pkg/dilation"
	"github.com/jwebster45206/great-transit/pkg/ship"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, ship.DefaultInterval, cfg.TickInterval)
	assert.Equal(t, StoreNone, cfg.Store)
	assert.Equal(t, ship.DefaultRates(), cfg.ShipRates())
	assert.Empty(t, cfg.FavoredSerials)
	assert.Empty(t, cfg.LayoutFile)
	assert.False(t, cfg.IsProduction())

	decay, recharge := cfg.DilationRates()
	assert.Equal(t, dilation.DefaultDecayRate, decay)
	assert.Equal(t, dilation.DefaultRechargeRate, recharge)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"ENVIRONMENT":     "production",
		"LOG_LEVEL":       "WARNING",
		"TICK_INTERVAL":   "250ms",
		"STORE":           " SQLite ",
		"SQLITE_PATH":     "/tmp/gt.db",
		"POWER_DECAY":     "0.5",
		"FAVORED_SERIALS": "3,17,99",
		"PIONEER_SERIAL":  "42",
		"SEED":            "12345",
		"LAYOUT_FILE":     "ships/tug.yaml",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/gt.db", cfg.SQLitePath)
	assert.Equal(t, 0.5, cfg.ShipRates().Power)
	assert.Equal(t, ship.DefaultRates().Oxygen, cfg.ShipRates().Oxygen)
	assert.Equal(t, []int{3, 17, 99}, cfg.FavoredSerials)
	assert.Equal(t, 42, cfg.PioneerSerial)
	assert.Equal(t, uint64(12345), cfg.Seed)
	assert.Equal(t, "ships/tug.yaml", cfg.LayoutFile)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"unknown store", map[string]string{"STORE": "postgres"}},
		{"zero interval", map[string]string{"TICK_INTERVAL": "0s"}},
		{"bad duration", map[string]string{"TICK_INTERVAL": "soon"}},
		{"negative decay", map[string]string{"HULL_DECAY": "-1"}},
		{"negative ttl", map[string]string{"SNAPSHOT_TTL": "-1h"}},
		{"serial too large", map[string]string{"PIONEER_SERIAL": "5000"}},
		{"bad serial list", map[string]string{"FAVORED_SERIALS": "1,x"}},
		{"sqlite without path", map[string]string{"STORE": "sqlite", "SQLITE_PATH": " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.vars)
			assert.Error(t, err)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
