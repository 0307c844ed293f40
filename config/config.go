package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete bot configuration
type Config struct {
	Partners []string `json:"partners" yaml:"partners"`
	DataDir  string   `json:"data_dir" yaml:"data_dir"`

	// ConfirmTimeout is how long a pending record waits for a reply before
	// it is committed automatically, e.g. "15s".
	ConfirmTimeout string `json:"confirm_timeout" yaml:"confirm_timeout"`

	// PollInterval is the transport polling period, e.g. "500ms".
	PollInterval string `json:"poll_interval" yaml:"poll_interval"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// ParseConfirmTimeout converts the confirm_timeout string to time.Duration
func (c *Config) ParseConfirmTimeout() (time.Duration, error) {
	return time.ParseDuration(c.ConfirmTimeout)
}

// ParsePollInterval converts the poll_interval string to time.Duration
func (c *Config) ParsePollInterval() (time.Duration, error) {
	return time.ParseDuration(c.PollInterval)
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Partners) == 0 {
		return fmt.Errorf("at least one partner is required")
	}
	for _, p := range c.Partners {
		if p == "" {
			return fmt.Errorf("partner names must not be empty")
		}
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	d, err := c.ParseConfirmTimeout()
	if err != nil {
		return fmt.Errorf("invalid confirm_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("confirm_timeout must be positive")
	}
	d, err = c.ParsePollInterval()
	if err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of trace, debug, info, warn, error")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Partners:       []string{"记账群"},
		DataDir:        "./data",
		ConfirmTimeout: "15s",
		PollInterval:   "500ms",
		LogLevel:       "info",
	}
}
