package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vycdev/activityimport/internal/score"
	"github.com/vycdev/activityimport/internal/store"
)

// guildTx implements store.GuildTx over a single *sql.Tx, scoped to one
// guild's import (guildID is the internal Guilds.id, not the Discord id).
type guildTx struct {
	tx      *sql.Tx
	guildID int64
}

func (g *guildTx) EnsureUser(ctx context.Context, discordID uint64, username string) (int64, error) {
	now := time.Now().UTC()
	_, err := g.tx.ExecContext(ctx,
		`INSERT INTO users (discord_id, username, last_username_check) VALUES (?, ?, ?)
		 ON CONFLICT(discord_id) DO UPDATE SET username = excluded.username, last_username_check = excluded.last_username_check`,
		int64(discordID), username, now)
	if err != nil {
		return 0, err
	}

	var id int64
	err = g.tx.QueryRowContext(ctx, `SELECT id FROM users WHERE discord_id = ?`, int64(discordID)).Scan(&id)
	return id, err
}

func (g *guildTx) UserCache(ctx context.Context, userID int64) (store.UserCache, error) {
	var c store.UserCache
	row := g.tx.QueryRowContext(ctx,
		`SELECT total_xp, level, user_message_count, user_average_message_length, user_average_message_length_ema
		 FROM user_levels WHERE user_id = ? AND guild_id = ?`, userID, g.guildID)
	err := row.Scan(&c.TotalXP, &c.Level, &c.MessageCount, &c.AverageLength, &c.EMALength)
	if err == sql.ErrNoRows {
		return store.UserCache{}, nil
	}
	return c, err
}

func (g *guildTx) SeedGuildStats(ctx context.Context, firstTS time.Time) (float64, int, error) {
	var avg float64
	var count int
	row := g.tx.QueryRowContext(ctx,
		`SELECT guild_average_message_length, guild_message_count
		 FROM user_activity
		 WHERE guild_id = ? AND insert_date < ?
		 ORDER BY insert_date DESC LIMIT 1`, g.guildID, firstTS)
	err := row.Scan(&avg, &count)
	if err == sql.ErrNoRows {
		return 0, 0, nil
	}
	return avg, count, err
}

func (g *guildTx) SeedUserPrev(ctx context.Context, firstTS time.Time) (map[int64]store.UserPrevSeed, error) {
	rows, err := g.tx.QueryContext(ctx,
		`SELECT user_id, insert_date, message_hash FROM (
			SELECT user_id, insert_date, message_hash,
			       ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY insert_date DESC) AS rn
			FROM user_activity
			WHERE guild_id = ? AND insert_date < ?
		 ) WHERE rn = 1`, g.guildID, firstTS)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]store.UserPrevSeed)
	for rows.Next() {
		var userID int64
		var seed store.UserPrevSeed
		if err := rows.Scan(&userID, &seed.Timestamp, &seed.ContentHash); err != nil {
			return nil, err
		}
		out[userID] = seed
	}
	return out, rows.Err()
}

func (g *guildTx) SeedUserRecent(ctx context.Context, firstTS time.Time, window time.Duration, cap int) (map[int64][]score.RecentEntry, error) {
	rows, err := g.tx.QueryContext(ctx,
		`SELECT user_id, message_simhash, normalized_length, insert_date FROM (
			SELECT user_id, message_simhash, normalized_length, insert_date,
			       ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY insert_date DESC) AS rn
			FROM user_activity
			WHERE guild_id = ? AND insert_date >= ? AND insert_date < ?
		 ) WHERE rn <= ?
		 ORDER BY user_id, insert_date DESC`,
		g.guildID, firstTS.Add(-window), firstTS, cap)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]score.RecentEntry)
	for rows.Next() {
		var userID int64
		var entry score.RecentEntry
		var simhash int64
		if err := rows.Scan(&userID, &simhash, &entry.NormalizedLength, &entry.Timestamp); err != nil {
			return nil, err
		}
		entry.SimHash = uint64(simhash)
		out[userID] = append(out[userID], entry)
	}
	return out, rows.Err()
}

func (g *guildTx) OpenActivitySink(ctx context.Context) (store.ActivitySink, error) {
	return newActivitySink(g.tx, g.guildID), nil
}

func (g *guildTx) FlushUserLevels(ctx context.Context, updates []store.UserLevelsUpdate) error {
	stmt, err := g.tx.PrepareContext(ctx,
		`INSERT INTO user_levels (user_id, guild_id, total_xp, level, user_message_count, user_average_message_length, user_average_message_length_ema)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, guild_id) DO UPDATE SET
			total_xp = excluded.total_xp,
			level = excluded.level,
			user_message_count = excluded.user_message_count,
			user_average_message_length = excluded.user_average_message_length,
			user_average_message_length_ema = excluded.user_average_message_length_ema`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.UserID, g.guildID, u.TotalXP, u.Level, u.MessageCount, u.AverageLength, u.EMALength); err != nil {
			return err
		}
	}
	return nil
}
