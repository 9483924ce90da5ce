// internal/config/config.go

// Package config loads the analysis daemon's settings from a TOML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the daemon settings.
type Config struct {
	Listen string `toml:"listen"`

	Matcher struct {
		URL               string  `toml:"url"`
		Database          string  `toml:"database"`
		TimeoutSeconds    int     `toml:"timeout_seconds"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
	} `toml:"matcher"`

	Pipeline struct {
		MinLength      int     `toml:"min_length"`
		MinQuality     float64 `toml:"min_quality"`
		MaxAmbiguous   float64 `toml:"max_ambiguous"`
		Identity       float64 `toml:"identity"`
		MinClusterSize int     `toml:"min_cluster_size"`
		Environment    string  `toml:"environment"`
		Workers        int     `toml:"workers"`
		Seed           int64   `toml:"seed"`
	} `toml:"pipeline"`
}

// Default returns the daemon's baseline settings; pipeline zero values
// defer to the core defaults.
func Default() Config {
	var c Config
	c.Listen = ":8080"
	c.Matcher.Database = "nt"
	c.Matcher.TimeoutSeconds = 180
	c.Matcher.RequestsPerSecond = 4
	c.Pipeline.Environment = "marine"
	c.Pipeline.Seed = 1
	return c
}

// Load reads path (optional; "" keeps defaults), then applies
// environment overrides: EDNAD_LISTEN and EDNAD_MATCHER_URL.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if v := os.Getenv("EDNAD_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("EDNAD_MATCHER_URL"); v != "" {
		c.Matcher.URL = v
	}
	return c, c.validate()
}

// MatcherTimeout converts the configured seconds to a duration.
func (c Config) MatcherTimeout() time.Duration {
	return time.Duration(c.Matcher.TimeoutSeconds) * time.Second
}

func (c Config) validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.Matcher.TimeoutSeconds <= 0 {
		return fmt.Errorf("matcher timeout must be positive, got %d", c.Matcher.TimeoutSeconds)
	}
	if c.Matcher.RequestsPerSecond <= 0 {
		return fmt.Errorf("matcher rate must be positive, got %v", c.Matcher.RequestsPerSecond)
	}
	return nil
}
