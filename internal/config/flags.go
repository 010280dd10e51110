package config

import (
	"flag"
	"os"
	"time"

	"github.com/arturpetrov/clinicore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   SQLite database file path
//	-k string   master key file path
//	-s string   session token HMAC secret
//	-t int      session lifetime, minutes
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (json, text)
//
// os.Args is filtered through flagx.FilterArgs first, so flags owned by
// other components (such as -c for the config file) pass through untouched.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-s", "-t", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabasePath, "d", config.DatabasePath, "database file path")
	fs.StringVar(&config.KeyFilePath, "k", config.KeyFilePath, "master key file path")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session lifetime (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	_ = fs.Parse(args)

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
}
