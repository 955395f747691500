// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents settings that can be loaded from a JSON file. All fields
// are optional; missing values use defaults or must be provided via CLI
// flags or environment variables.
type Config struct {
	Port          int    `json:"port,omitempty"`           // HTTP server port
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	GeminiAPIKey  string `json:"gemini_api_key,omitempty"` // Gemini API key
	SearchAPIKey  string `json:"search_api_key,omitempty"` // Serper API key
	AlertSchedule string `json:"alert_schedule,omitempty"` // cron spec for the alert batch
	LogLevel      string `json:"log_level,omitempty"`      // zerolog level name
	LogPretty     bool   `json:"log_pretty,omitempty"`     // human-readable console output
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are enforced later, after CLI flags and environment variables are merged.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Bool fields are not merged; flags always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.AlertSchedule == "" {
		result.AlertSchedule = defaults.AlertSchedule
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	return result
}
