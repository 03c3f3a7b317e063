package config

import "time"

// Config holds runtime settings for the ephemeral CLI.
//
// Fields:
//   - ServerURL: base URL of the backend REST endpoint.
//   - APIKey: project API key sent with every request.
//   - DatabasePath: path of the local SQLite file holding the persisted session.
//   - RequestTimeout: per-request HTTP timeout.
//   - SavedAckInterval: how long the "saved" acknowledgment stays visible.
//
// Units: RequestTimeout and SavedAckInterval are time.Durations.
type Config struct {
	ServerURL        string
	APIKey           string
	DatabasePath     string
	RequestTimeout   time.Duration
	SavedAckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:54321"
	c.APIKey = ""
	c.DatabasePath = "ephemeral.db"
	c.RequestTimeout = 10 * time.Second
	c.SavedAckInterval = 2 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
