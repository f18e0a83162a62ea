package cli

import (
	"context"
	"fmt"

	"github.com/vycdev/activityimport/internal/config"
	"github.com/vycdev/activityimport/internal/store"
	"github.com/vycdev/activityimport/internal/store/postgres"
	"github.com/vycdev/activityimport/internal/store/sqlite"
)

// openStore resolves the driver/connection knobs (flags, then env via
// internal/config) and opens the corresponding Store implementation.
func openStore(ctx context.Context) (store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if driver != "" {
		cfg.Driver = driver
	}
	if connString != "" {
		cfg.ConnString = connString
	}

	switch cfg.Driver {
	case "sqlite", "":
		path := cfg.ConnString
		if path == "" {
			path = databasePath
		}
		return sqlite.New(path)
	case "postgres":
		if err := cfg.RequireConnString(); err != nil {
			return nil, fmt.Errorf("connection string required for postgres driver: %w", err)
		}
		return postgres.New(ctx, cfg.ConnString)
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

// newDryRunStore opens a scratch in-memory SQLite database: dry-run
// still exercises the full scoring and seeding path, but nothing
// written to it outlives the process (spec §6: "do not persist").
func newDryRunStore(ctx context.Context) (store.Store, error) {
	s, err := sqlite.New(":memory:")
	if err != nil {
		return nil, err
	}
	if err := s.Ensure(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
