// Package sqlite implements internal/store.Store on top of
// modernc.org/sqlite, the default local driver: used for `init`,
// `--dry-run`, and tests. It substitutes a batched multi-row INSERT for
// the COPY protocol the postgres driver gets natively (spec §4.H).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vycdev/activityimport/internal/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New opens a SQLite database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is its own empty database, so
		// the pool is held to the one connection the schema lives on.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{db: db}, nil
}

// Ensure creates all tables and indexes.
func (s *Store) Ensure(ctx context.Context) error {
	return s.createSchema(ctx)
}

// Close releases database resources.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for callers that need to run
// ad-hoc queries (tests, diagnostics).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Stats returns aggregate row counts.
func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	var st store.Stats
	queries := []struct {
		q   string
		dst *int
	}{
		{"SELECT COUNT(*) FROM guilds", &st.Guilds},
		{"SELECT COUNT(*) FROM users", &st.Users},
		{"SELECT COUNT(*) FROM user_activity", &st.ActivityRows},
		{"SELECT COUNT(*) FROM user_levels", &st.UserLevelsRows},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.q).Scan(q.dst); err != nil {
			return store.Stats{}, err
		}
	}
	return st, nil
}

// ImportGuild runs fn inside one transaction scoped to a single guild's
// ingest, ensuring the guild row exists first. Any error aborts the
// transaction; nothing about this guild is persisted on failure.
// synchronousCommit is honored on a best-effort basis: SQLite's
// synchronous pragma is connection-scoped rather than per-transaction,
// so false sets it to OFF through the connection pool before the
// transaction begins and resets it to NORMAL when ImportGuild returns;
// the pool does not guarantee that either statement runs on the
// connection the transaction uses.
func (s *Store) ImportGuild(ctx context.Context, guildDiscordID uint64, guildName string, synchronousCommit bool, fn func(ctx context.Context, tx store.GuildTx) error) error {
	if !synchronousCommit {
		if _, err := s.db.ExecContext(ctx, "PRAGMA synchronous=OFF"); err != nil {
			return fmt.Errorf("relax synchronous commit: %w", err)
		}
		defer s.db.ExecContext(context.Background(), "PRAGMA synchronous=NORMAL")
	}

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	guildID, err := ensureGuild(ctx, sqlTx, guildDiscordID, guildName)
	if err != nil {
		sqlTx.Rollback()
		return fmt.Errorf("ensure guild: %w", err)
	}

	tx := &guildTx{tx: sqlTx, guildID: guildID}
	if err := fn(ctx, tx); err != nil {
		sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func ensureGuild(ctx context.Context, tx *sql.Tx, discordID uint64, name string) (int64, error) {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO guilds (discord_id, name) VALUES (?, ?)
		 ON CONFLICT(discord_id) DO NOTHING`, int64(discordID), name)
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM guilds WHERE discord_id = ?`, int64(discordID)).Scan(&id)
	return id, err
}
