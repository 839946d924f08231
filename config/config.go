// Package config provides configuration loading and management for blogwire.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete blogwire configuration
type Config struct {
	API         APIConfig         `yaml:"api"`
	Live        LiveConfig        `yaml:"live"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

// APIConfig configures the platform API connection
type APIConfig struct {
	// BaseURL is the platform API base URL
	BaseURL string `yaml:"base_url"`
	// Timeout is the maximum time to wait for an API response
	Timeout time.Duration `yaml:"timeout"`
	// UserAgent overrides the default User-Agent header (optional)
	UserAgent string `yaml:"user_agent"`
}

// LiveConfig configures the push channel connection
type LiveConfig struct {
	// URL is the NATS server URL delivering live update events
	URL string `yaml:"url"`
}

// CredentialsConfig configures durable token storage
type CredentialsConfig struct {
	// Path is where the bearer token is persisted
	// (default: ~/.config/blogwire/token)
	Path string `yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5001",
			Timeout: 30 * time.Second,
		},
		Live: LiveConfig{
			URL: "nats://localhost:4222",
		},
		Credentials: CredentialsConfig{
			Path: defaultTokenPath(),
		},
	}
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "token"
	}
	return filepath.Join(home, UserConfigDir, "token")
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.Credentials.Path == "" {
		return fmt.Errorf("credentials.path is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// API
	if other.API.BaseURL != "" {
		c.API.BaseURL = other.API.BaseURL
	}
	if other.API.Timeout != 0 {
		c.API.Timeout = other.API.Timeout
	}
	if other.API.UserAgent != "" {
		c.API.UserAgent = other.API.UserAgent
	}

	// Live
	if other.Live.URL != "" {
		c.Live.URL = other.Live.URL
	}

	// Credentials
	if other.Credentials.Path != "" {
		c.Credentials.Path = other.Credentials.Path
	}
}
