package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/jwebster45206/great-transit/pkg/pioneer"
	"github.com/jwebster45206/great-transit/pkg/ship"
)

// Store backends selectable with STORE.
const (
	StoreNone   = "none"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

type Config struct {
	Environment  string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel     slog.Level `env:"-"`
	LogFile      string     `env:"LOG_FILE" envDefault:"great-transit.log"`

	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"1s"`
	LayoutFile   string        `env:"LAYOUT_FILE"` // empty uses the built-in ship

	Store       string        `env:"STORE" envDefault:"none"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	SQLitePath  string        `env:"SQLITE_PATH" envDefault:"great-transit.db"`
	SnapshotTTL time.Duration `env:"SNAPSHOT_TTL" envDefault:"720h"`
	Broadcast   bool          `env:"BROADCAST_EVENTS" envDefault:"false"`

	PowerDecay  float64 `env:"POWER_DECAY" envDefault:"0.05"`
	OxygenDecay float64 `env:"OXYGEN_DECAY" envDefault:"0.03"`
	HullDecay   float64 `env:"HULL_DECAY" envDefault:"0.02"`
	CryoDecay   float64 `env:"CRYO_DECAY" envDefault:"0.01"`

	TimeDecay    float64 `env:"TIME_DECAY" envDefault:"0.1"`
	TimeRecharge float64 `env:"TIME_RECHARGE" envDefault:"0.05"`

	FavoredSerials []int  `env:"FAVORED_SERIALS" envSeparator:","`
	PioneerSerial  int    `env:"PIONEER_SERIAL" envDefault:"0"`
	Seed           uint64 `env:"SEED" envDefault:"0"`
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return finish(&cfg)
}

// LoadFrom reads the configuration from vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreNone, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("invalid STORE %q: want none, redis or sqlite", c.Store)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.SnapshotTTL < 0 {
		return fmt.Errorf("SNAPSHOT_TTL must not be negative, got %s", c.SnapshotTTL)
	}
	for name, v := range map[string]float64{
		"POWER_DECAY":   c.PowerDecay,
		"OXYGEN_DECAY":  c.OxygenDecay,
		"HULL_DECAY":    c.HullDecay,
		"CRYO_DECAY":    c.CryoDecay,
		"TIME_DECAY":    c.TimeDecay,
		"TIME_RECHARGE": c.TimeRecharge,
	} {
		if !(v >= 0) {
			return fmt.Errorf("%s must not be negative, got %v", name, v)
		}
	}
	if c.PioneerSerial < 0 || c.PioneerSerial > pioneer.MaxSerial {
		return fmt.Errorf("PIONEER_SERIAL must be between 0 (random) and %d, got %d", pioneer.MaxSerial, c.PioneerSerial)
	}
	if c.Store == StoreSQLite && strings.TrimSpace(c.SQLitePath) == "" {
		return fmt.Errorf("SQLITE_PATH is required when STORE=sqlite")
	}
	if (c.Store == StoreRedis || c.Broadcast) && strings.TrimSpace(c.RedisURL) == "" {
		return fmt.Errorf("REDIS_URL is required for redis storage and event broadcast")
	}
	return nil
}

// ShipRates returns the default rates with the configured per-system decay.
func (c *Config) ShipRates() ship.Rates {
	r := ship.DefaultRates()
	r.Power = c.PowerDecay
	r.Oxygen = c.OxygenDecay
	r.Hull = c.HullDecay
	r.Cryo = c.CryoDecay
	return r
}

// DilationRates returns the subjective time decay and recharge per tick.
func (c *Config) DilationRates() (decay, recharge float64) {
	return c.TimeDecay, c.TimeRecharge
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
