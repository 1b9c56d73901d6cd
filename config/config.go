// Package config provides configuration loading and management for the
// lifestream service.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete lifestream configuration
type Config struct {
	// Author is the display name attached to every inserted event
	Author   string        `yaml:"author"`
	Blog     BlogConfig    `yaml:"blog"`
	Twitter  TwitterConfig `yaml:"twitter"`
	Code     CodeConfig    `yaml:"code"`
	NATS     NATSConfig    `yaml:"nats"`
	Store    StoreConfig   `yaml:"store"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Schedule string        `yaml:"schedule"`
}

// BlogConfig configures the blog feed source
type BlogConfig struct {
	Enabled bool   `yaml:"enabled"`
	FeedURL string `yaml:"feed_url"`
}

// TwitterConfig configures the social-media timeline source
type TwitterConfig struct {
	Enabled bool `yaml:"enabled"`
	// Endpoint is the API base (default: https://api.twitter.com/1.1)
	Endpoint   string `yaml:"endpoint"`
	ScreenName string `yaml:"screen_name"`
	// Token is the bearer token used for timeline requests
	Token string `yaml:"token"`
}

// CodeConfig configures the code-hosting activity source
type CodeConfig struct {
	Enabled bool `yaml:"enabled"`
	// Endpoint is the API base (default: https://api.github.com)
	Endpoint string `yaml:"endpoint"`
	Username string `yaml:"username"`
}

// NATSConfig configures the NATS connection backing the event store
type NATSConfig struct {
	// URL is the NATS server URL (empty = use embedded server)
	URL string `yaml:"url"`
	// Embedded indicates whether to run an embedded NATS server
	Embedded bool `yaml:"embedded"`
	// StoreDir is where the embedded server keeps JetStream data
	StoreDir string `yaml:"store_dir"`
}

// StoreConfig selects the event store backend
type StoreConfig struct {
	// Backend is "nats" or "memory"
	Backend string `yaml:"backend"`
}

// MetricsConfig configures the prometheus endpoint in daemon mode
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Author: "Jacob Emerick",
		Twitter: TwitterConfig{
			Endpoint: "https://api.twitter.com/1.1",
		},
		Code: CodeConfig{
			Endpoint: "https://api.github.com",
		},
		NATS: NATSConfig{
			URL:      "",
			Embedded: true,
		},
		Store: StoreConfig{
			Backend: "nats",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9102",
		},
		Schedule: "@every 15m",
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Author == "" {
		return fmt.Errorf("author is required")
	}
	if c.Blog.Enabled && c.Blog.FeedURL == "" {
		return fmt.Errorf("blog.feed_url is required when blog is enabled")
	}
	if c.Twitter.Enabled && c.Twitter.ScreenName == "" {
		return fmt.Errorf("twitter.screen_name is required when twitter is enabled")
	}
	if c.Code.Enabled && c.Code.Username == "" {
		return fmt.Errorf("code.username is required when code is enabled")
	}
	switch c.Store.Backend {
	case "nats", "memory":
	default:
		return fmt.Errorf("store.backend must be nats or memory, got %q", c.Store.Backend)
	}
	if c.Schedule == "" {
		return fmt.Errorf("schedule is required")
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
