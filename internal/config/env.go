package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first, without clobbering variables already
// set in the real environment.
//
// Recognized variables:
//
//	CLINICORE_DATABASE_PATH   SQLite database file path
//	CLINICORE_KEY_FILE        master key file path
//	CLINICORE_SESSION_SECRET  session token HMAC secret
//	CLINICORE_SESSION_TTL     session lifetime, Go duration string (e.g. "8h")
//	CLINICORE_LOG_LEVEL       slog level name
//	CLINICORE_LOG_FORMAT      "json" or "text"
func parseEnv(config *Config) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	if v := os.Getenv("CLINICORE_DATABASE_PATH"); v != "" {
		config.DatabasePath = v
	}
	if v := os.Getenv("CLINICORE_KEY_FILE"); v != "" {
		config.KeyFilePath = v
	}
	if v := os.Getenv("CLINICORE_SESSION_SECRET"); v != "" {
		config.SessionSecret = v
	}
	if v := os.Getenv("CLINICORE_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTTL = d
		}
	}
	if v := os.Getenv("CLINICORE_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("CLINICORE_LOG_FORMAT"); v != "" {
		config.LogFormat = v
	}
}
