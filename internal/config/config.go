// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SCOUT_* env vars.
// - Errors returned from Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Coercion policies for malformed raw player fields.
const (
	CoercionSilent = "silent"
	CoercionWarn   = "warn"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SourceBaseURL is the backend serving /players, /scores and /fixtures.
	SourceBaseURL string `koanf:"source_base_url"`
	// SourceTimeoutMS bounds a single upstream request.
	SourceTimeoutMS int `koanf:"source_timeout_ms"`
	// FixtureBatchSize is the number of player ids per fixture request.
	FixtureBatchSize int `koanf:"fixture_batch_size"`
	// FixtureBatchDelayMS is the pause between consecutive fixture batches.
	FixtureBatchDelayMS int `koanf:"fixture_batch_delay_ms"`
	// FixtureHorizon is the number of upcoming gameweeks to look ahead.
	FixtureHorizon int `koanf:"fixture_horizon"`
	// RefreshIntervalS reloads the catalog periodically; 0 disables it.
	RefreshIntervalS int `koanf:"refresh_interval_s"`

	// CoercionPolicy is "silent" or "warn".
	CoercionPolicy string `koanf:"coercion_policy"`
	// TrendThreshold is the net transfer delta separating rising/falling from stable.
	TrendThreshold float64 `koanf:"trend_threshold"`
	// RulesFile optionally replaces the built-in smart tag rules with a YAML file.
	RulesFile string `koanf:"rules_file"`
	// MaxPageSize caps the number of players returned by one view.
	MaxPageSize int `koanf:"max_page_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		SourceBaseURL:       "http://localhost:8000/api",
		SourceTimeoutMS:     10_000,
		FixtureBatchSize:    50,
		FixtureBatchDelayMS: 100,
		FixtureHorizon:      5,
		RefreshIntervalS:    0,
		CoercionPolicy:      CoercionSilent,
		TrendThreshold:      10_000,
		MaxPageSize:         1000,
	}
}

// SourceTimeout returns SourceTimeoutMS as a duration.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutMS) * time.Millisecond
}

// FixtureBatchDelay returns FixtureBatchDelayMS as a duration.
func (c *Config) FixtureBatchDelay() time.Duration {
	return time.Duration(c.FixtureBatchDelayMS) * time.Millisecond
}

// RefreshInterval returns RefreshIntervalS as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalS) * time.Second
}

// Validate checks the fields Load cannot coerce.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.SourceBaseURL) == "":
		return fmt.Errorf("%w: source_base_url must not be empty", ErrInvalidConfig)
	case c.FixtureBatchSize < 1:
		return fmt.Errorf("%w: fixture_batch_size must be positive", ErrInvalidConfig)
	case c.FixtureBatchDelayMS < 0:
		return fmt.Errorf("%w: fixture_batch_delay_ms must not be negative", ErrInvalidConfig)
	case c.FixtureHorizon < 1:
		return fmt.Errorf("%w: fixture_horizon must be positive", ErrInvalidConfig)
	case c.RefreshIntervalS < 0:
		return fmt.Errorf("%w: refresh_interval_s must not be negative", ErrInvalidConfig)
	case c.TrendThreshold < 0:
		return fmt.Errorf("%w: trend_threshold must not be negative", ErrInvalidConfig)
	case c.MaxPageSize < 1:
		return fmt.Errorf("%w: max_page_size must be positive", ErrInvalidConfig)
	}
	switch c.CoercionPolicy {
	case CoercionSilent, CoercionWarn:
	default:
		return fmt.Errorf("%w: coercion_policy must be %q or %q", ErrInvalidConfig, CoercionSilent, CoercionWarn)
	}
	return nil
}
