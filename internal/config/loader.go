package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables before mapping them to
// config keys: PLANTDOC_ENGINE_MAX_DIAGNOSES -> engine.max_diagnoses.
const envPrefix = "PLANTDOC_"

// Load loads configuration from the given YAML file (skipped when the path
// is empty or the file does not exist), then overrides with PLANTDOC_*
// environment variables, applies defaults, and validates.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (PLANTDOC_SERVER_PORT, PLANTDOC_ENGINE_MAX_DIAGNOSES, ...)
//  2. YAML config file
//  3. Hardcoded defaults
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = defaultConfigPath()
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			content, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
			}
		}
	}

	// Environment variables use underscore separators and are uppercased.
	// The first underscore after the prefix separates section from field:
	// PLANTDOC_ENGINE_PLANT_MATCH_WEIGHT -> engine.plant_match_weight.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// defaultConfigPath returns ~/.config/plantdoc/config.yaml, or empty when
// the home directory cannot be resolved.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "plantdoc", "config.yaml")
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = 20
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Engine.MinConfidence == 0 {
		cfg.Engine.MinConfidence = DefaultMinConfidence
	}
	if cfg.Engine.MaxDiagnoses == 0 {
		cfg.Engine.MaxDiagnoses = DefaultMaxDiagnoses
	}
	if cfg.Engine.PlantMatchWeight == 0 {
		cfg.Engine.PlantMatchWeight = DefaultPlantMatchWeight
	}
	if cfg.Engine.SymptomMatchWeight == 0 {
		cfg.Engine.SymptomMatchWeight = DefaultSymptomMatchWeight
	}
	if cfg.Engine.FuzzyThreshold == 0 {
		cfg.Engine.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if cfg.Engine.MaxInputLength == 0 {
		cfg.Engine.MaxInputLength = DefaultMaxInputLength
	}

	if cfg.History.Enabled && cfg.History.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.History.Path = filepath.Join(home, ".local", "share", "plantdoc", "history.jsonl")
		}
	}
}
