package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name (URLSIG_LOG_LEVEL, ...).
const Prefix = "URLSIG"

// Config holds runtime settings read from the environment.
// Command-line flags take precedence over these values.
type Config struct {
	// LogLevel empty selects warn, or debug when LogDev is set.
	LogLevel string `envconfig:"LOG_LEVEL"`
	LogDev   bool   `envconfig:"LOG_DEV" default:"false"`
	LogFile  string `envconfig:"LOG_FILE"`

	// RulesPath points at a site-rules YAML file. Empty disables rewriting.
	RulesPath string `envconfig:"RULES"`

	// MaxLine bounds one input line in stream mode.
	MaxLine int `envconfig:"MAX_LINE" default:"65536"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.MaxLine <= 0 {
		return nil, fmt.Errorf("failed to load config: %s_MAX_LINE must be positive", Prefix)
	}
	return &cfg, nil
}
