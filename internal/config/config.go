// Package config provides configuration loading for plantdoc.
//
// Configuration is loaded from an optional YAML file, overridden by
// PLANTDOC_* environment variables, with hardcoded defaults for anything
// left unset.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete plantdoc configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Engine  EngineConfig  `koanf:"engine"`
	History HistoryConfig `koanf:"history"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	RateLimit       float64       `koanf:"rate_limit"` // requests per second, 0 disables
	RateBurst       int           `koanf:"rate_burst"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// EngineConfig holds the diagnosis engine's tunable scoring model. The
// weights and thresholds are named configuration, not magic numbers, so the
// model can be tuned without touching control flow.
type EngineConfig struct {
	MinConfidence      float64 `koanf:"min_confidence"`
	MaxDiagnoses       int     `koanf:"max_diagnoses"`
	PlantMatchWeight   float64 `koanf:"plant_match_weight"`
	SymptomMatchWeight float64 `koanf:"symptom_match_weight"`
	FuzzyThreshold     float64 `koanf:"fuzzy_threshold"` // minimum similarity for a fuzzy plant match
	MaxInputLength     int     `koanf:"max_input_length"`
	CatalogPath        string  `koanf:"catalog_path"` // empty uses the embedded catalog
}

// HistoryConfig holds interaction log configuration.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Engine scoring defaults.
const (
	DefaultMinConfidence      = 0.3
	DefaultMaxDiagnoses       = 3
	DefaultPlantMatchWeight   = 0.4
	DefaultSymptomMatchWeight = 0.6
	DefaultFuzzyThreshold     = 0.6
	DefaultMaxInputLength     = 500
)

// Validate validates the configuration, including engine value ranges.
// Out-of-range weights are rejected here rather than inside the core, which
// trusts its inputs.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Server.RateLimit < 0 {
		return errors.New("rate limit cannot be negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q (must be json or console)", c.Logging.Format)
	}

	e := c.Engine
	if e.MinConfidence < 0 || e.MinConfidence > 1 {
		return fmt.Errorf("min_confidence %v out of range [0, 1]", e.MinConfidence)
	}
	if e.MaxDiagnoses < 1 {
		return fmt.Errorf("max_diagnoses must be at least 1, got %d", e.MaxDiagnoses)
	}
	if e.PlantMatchWeight < 0 || e.PlantMatchWeight > 1 {
		return fmt.Errorf("plant_match_weight %v out of range [0, 1]", e.PlantMatchWeight)
	}
	if e.SymptomMatchWeight < 0 || e.SymptomMatchWeight > 1 {
		return fmt.Errorf("symptom_match_weight %v out of range [0, 1]", e.SymptomMatchWeight)
	}
	if e.FuzzyThreshold <= 0 || e.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold %v out of range (0, 1]", e.FuzzyThreshold)
	}
	if e.MaxInputLength < 1 {
		return fmt.Errorf("max_input_length must be at least 1, got %d", e.MaxInputLength)
	}

	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history path required when history is enabled")
	}

	return nil
}
