// Package config loads the CLI stages' shared
// configuration from an optional YAML file, with environment-variable
// overrides, mirroring the platform-wide config pattern this library's
// ambient stack is built on.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the configuration shared by the tokenize/buildindex/search/
// freq CLI stages. Any field left unset keeps its default.
type Config struct {
	Tokenize TokenizeConfig `yaml:"tokenize"`
	Index    IndexConfig    `yaml:"index"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// TokenizeConfig controls the tokenizer stage.
type TokenizeConfig struct {
	Stem bool `yaml:"stem"`
}

// IndexConfig controls the index-builder stage.
type IndexConfig struct {
	ProgressEvery int `yaml:"progressEvery"`
}

// SearchConfig controls the searcher stage's pagination defaults.
type SearchConfig struct {
	DefaultLimit int `yaml:"defaultLimit"`
	MaxLimit     int `yaml:"maxLimit"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the optional debug metrics HTTP endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if path is non-empty) over a set of
// defaults, then applies RUIDX_* environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Tokenize: TokenizeConfig{Stem: true},
		Index:    IndexConfig{ProgressEvery: 1000},
		Search:   SearchConfig{DefaultLimit: 50, MaxLimit: 200},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Metrics:  MetricsConfig{Enabled: false, Port: 9090},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RUIDX_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RUIDX_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("RUIDX_SEARCH_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.DefaultLimit = n
		}
	}
	if v := os.Getenv("RUIDX_SEARCH_MAX_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MaxLimit = n
		}
	}
	if v := os.Getenv("RUIDX_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "1" || v == "true"
	}
	if v := os.Getenv("RUIDX_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = n
		}
	}
}
