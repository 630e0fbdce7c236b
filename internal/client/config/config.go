// Package config loads runtime settings for the MediaVault CLI from
// defaults, an optional JSON file, and command-line flags, in that order of
// precedence (later sources win).
package config

import "time"

// Config holds runtime settings for the MediaVault CLI.
//
// Fields:
//   - ServerBaseURL: scheme + host of the backend API, no trailing slash.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: path of the local sqlite database (session cache).
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	DatabasePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:5000"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "mediavault.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
