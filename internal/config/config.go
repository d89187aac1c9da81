package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "KIDPLAY_"
	envCfgFile = "KIDPLAY_CONFIG"
)

// ErrInvalidConfig is returned when a loaded value fails validation
var ErrInvalidConfig = errors.New("invalid config")

// Config holds application configuration
type Config struct {
	// DatabaseType selects the dialect: sqlite, postgres or mysql
	DatabaseType string `koanf:"database_type"`

	// DatabasePath is the SQLite file path
	DatabasePath string `koanf:"database_path"`

	// DatabaseURL is the connection string for postgres and mysql
	DatabaseURL string `koanf:"database_url"`

	// LogMode is "dev" or "prod"
	LogMode string `koanf:"log_mode"`

	// LogLevel overrides the mode's minimum level when set (debug, info, warn, error)
	LogLevel string `koanf:"log_level"`

	// AnalyticsDays is the default look-back window for analytics summaries
	AnalyticsDays int `koanf:"analytics_days"`

	// EmotionDays is the default look-back window for emotion summaries
	EmotionDays int `koanf:"emotion_days"`

	// HistoryLimit is the default page size for game history
	HistoryLimit int `koanf:"history_limit"`

	// MetricsFile, when set, receives the engine metrics in Prometheus text
	// format after each command
	MetricsFile string `koanf:"metrics_file"`
}

// New returns a Config populated with defaults
func New() *Config {
	return &Config{
		DatabaseType:  "sqlite",
		DatabasePath:  "./kidplay.db",
		LogMode:       "dev",
		AnalyticsDays: 30,
		EmotionDays:   7,
		HistoryLimit:  20,
	}
}

// Load builds a Config by layering defaults, an optional YAML file named by
// KIDPLAY_CONFIG, and KIDPLAY_* environment variables (highest precedence).
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(envCfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// KIDPLAY_DATABASE_TYPE -> database_type
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combination of values
func (c *Config) Validate() error {
	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3", "":
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: database_path is required for sqlite", ErrInvalidConfig)
		}
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for %s", ErrInvalidConfig, c.DatabaseType)
		}
	default:
		return fmt.Errorf("%w: unsupported database_type %q", ErrInvalidConfig, c.DatabaseType)
	}
	if c.AnalyticsDays <= 0 || c.EmotionDays <= 0 || c.HistoryLimit <= 0 {
		return fmt.Errorf("%w: analytics_days, emotion_days and history_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
