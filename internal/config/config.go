// Package config resolves the connection string and store driver from
// environment variables, with an optional .env loader the same way the
// teacher's pkg/config resolves openbot.json plus env-var overrides.
// The ingest knobs (similarity window, EMA N, recent cap) are set to
// their defaults; they are not read from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the resolved runtime knobs for an ingest run.
type Config struct {
	// ConnString is the database connection string. For the sqlite
	// driver this is a file path (or ":memory:"); for postgres, a
	// standard DSN.
	ConnString string
	// Driver selects the Store implementation: "sqlite" or "postgres".
	Driver string

	SimilarityWindow time.Duration
	EMASmoothingN    int
	RecentCap        int
}

const (
	envConnString = "ACTIVITYIMPORT_DATABASE_URL"
	envDriver     = "ACTIVITYIMPORT_DRIVER"
)

// Load reads .env (if present) then resolves Config from the
// environment, applying the spec's defaults (§6: 10min window, N=500,
// cap=200).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ConnString:       os.Getenv(envConnString),
		Driver:           os.Getenv(envDriver),
		SimilarityWindow: 10 * time.Minute,
		EMASmoothingN:    500,
		RecentCap:        200,
	}
	if cfg.Driver == "" {
		cfg.Driver = "sqlite"
	}
	return cfg, nil
}

// RequireConnString fails fast when persistence is needed but no
// connection string was resolved (spec §7 Config error kind).
func (c Config) RequireConnString() error {
	if c.ConnString == "" {
		return fmt.Errorf("%s is not set", envConnString)
	}
	return nil
}
