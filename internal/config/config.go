// Package config loads runtime settings for the notectl client.
package config

import "time"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API, including the /api prefix.
//   - SessionDBPath: path of the local sqlite file holding the cached session.
//   - RequestTimeout: per-request timeout for backend calls.
type Config struct {
	APIBaseURL     string
	SessionDBPath  string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:3000/api"
	c.SessionDBPath = "notectl.db"
	c.RequestTimeout = 10 * time.Second
}

// Load constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
