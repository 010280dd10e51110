// Package config handles configuration for the clinicore daemon, layered as
// defaults, then environment (including a .env file), then an optional JSON
// file, then command-line flags.
package config

import "time"

// Config holds runtime settings for the clinicore core.
//
// Fields:
//   - DatabasePath: path to the SQLite database file.
//   - KeyFilePath: path to the master key file. The key may also arrive via
//     the CLINICORE_MASTER_KEY environment variable, which wins over the file.
//   - SessionSecret: HMAC secret for signing session tokens (HS256). Do not
//     use the default outside development.
//   - SessionTTL: session token lifetime.
//   - LogLevel: slog level name (debug, info, warn, error).
//   - LogFormat: "json" or "text".
type Config struct {
	DatabasePath  string
	KeyFilePath   string
	SessionSecret string
	SessionTTL    time.Duration
	LogLevel      string
	LogFormat     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SessionSecret must be overridden in production.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "clinicore.db"
	c.KeyFilePath = "clinicore.key"
	c.SessionSecret = "devSessionSecret"
	c.SessionTTL = 8 * time.Hour
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
