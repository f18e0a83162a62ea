// Package postgres implements internal/store.Store on top of
// jackc/pgx/v5's pgxpool, using a real COPY-protocol stream
// (pgx.CopyFrom) for the activity sink instead of the sqlite driver's
// batched INSERT fallback.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vycdev/activityimport/internal/store"
)

// Store implements store.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and returns a ready Store.
func New(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ensure(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

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
		if err := s.pool.QueryRow(ctx, q.q).Scan(q.dst); err != nil {
			return store.Stats{}, err
		}
	}
	return st, nil
}

// ImportGuild runs fn inside one transaction scoped to a single guild's
// ingest. synchronousCommit false issues a transaction-local
// `SET LOCAL synchronous_commit = off`, a genuine per-transaction
// relaxation pgx/Postgres supports natively (spec §4.G).
func (s *Store) ImportGuild(ctx context.Context, guildDiscordID uint64, guildName string, synchronousCommit bool, fn func(ctx context.Context, tx store.GuildTx) error) error {
	pgxTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer pgxTx.Rollback(ctx)

	if !synchronousCommit {
		if _, err := pgxTx.Exec(ctx, "SET LOCAL synchronous_commit = off"); err != nil {
			return fmt.Errorf("relax synchronous commit: %w", err)
		}
	}

	guildID, err := ensureGuild(ctx, pgxTx, guildDiscordID, guildName)
	if err != nil {
		return fmt.Errorf("ensure guild: %w", err)
	}

	tx := &guildTx{tx: pgxTx, guildID: guildID}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := pgxTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func ensureGuild(ctx context.Context, tx pgx.Tx, discordID uint64, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO guilds (discord_id, name) VALUES ($1, $2)
		 ON CONFLICT (discord_id) DO UPDATE SET discord_id = excluded.discord_id
		 RETURNING id`, int64(discordID), name).Scan(&id)
	return id, err
}
