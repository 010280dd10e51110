package config

import (
	"encoding/json"
	"os"

	"github.com/arturpetrov/clinicore/internal/flagx"
	"github.com/arturpetrov/clinicore/internal/timex"
)

// JsonConfig is the JSON-file shape of Config. It uses timex.Duration for
// the TTL field so both "8h" strings and integer nanoseconds parse.
type JsonConfig struct {
	DatabasePath  string         `json:"database_path"`
	KeyFilePath   string         `json:"key_file_path"`
	SessionSecret string         `json:"session_secret"`
	SessionTTL    timex.Duration `json:"session_ttl"`
	LogLevel      string         `json:"log_level"`
	LogFormat     string         `json:"log_format"`
}

// parseJson overlays configuration from the JSON file named by the -c or
// -config flags. Without those flags no file is loaded. An unreadable or
// malformed file panics: a config file that was asked for but cannot be used
// should stop startup.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabasePath != "" {
		config.DatabasePath = c.DatabasePath
	}
	if c.KeyFilePath != "" {
		config.KeyFilePath = c.KeyFilePath
	}
	if c.SessionSecret != "" {
		config.SessionSecret = c.SessionSecret
	}
	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
}
