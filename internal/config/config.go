// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls where the dataset comes from and how the CLI reports.
type Config struct {
	DataURL         string        `env:"PULSE_DATA_URL"`
	DataFile        string        `env:"PULSE_DATA_FILE"        envDefault:"./data/updates.csv"`
	FetchTimeout    time.Duration `env:"PULSE_FETCH_TIMEOUT"    envDefault:"60s"`
	LogLevel        string        `env:"PULSE_LOG_LEVEL"        envDefault:"info"`
	LogFormat       string        `env:"PULSE_LOG_FORMAT"       envDefault:"console"`
	AliasFile       string        `env:"PULSE_ALIAS_FILE"`
	CacheSize       int           `env:"PULSE_CACHE_SIZE"       envDefault:"16"`
	MetricsTextfile string        `env:"PULSE_METRICS_TEXTFILE"`
}

// Load parses Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CacheSize < 1 {
		return Config{}, fmt.Errorf("PULSE_CACHE_SIZE must be positive, got %d", cfg.CacheSize)
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return Config{}, fmt.Errorf("PULSE_LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}
	return cfg, nil
}
