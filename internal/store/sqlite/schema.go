package sqlite

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS guilds (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	discord_id INTEGER NOT NULL UNIQUE,
	name       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	discord_id          INTEGER NOT NULL UNIQUE,
	username            TEXT NOT NULL,
	last_username_check DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS user_activity (
	channel_id                   INTEGER NOT NULL,
	guild_id                     INTEGER NOT NULL REFERENCES guilds(id),
	user_id                      INTEGER NOT NULL REFERENCES users(id),
	insert_date                  DATETIME NOT NULL,
	message_hash                 TEXT NOT NULL,
	message_length               INTEGER NOT NULL,
	message_simhash              INTEGER NOT NULL,
	normalized_length            INTEGER NOT NULL,
	xp_gained                    INTEGER NOT NULL,
	guild_average_message_length REAL NOT NULL,
	guild_message_count          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_activity_guild_insert
	ON user_activity (guild_id, insert_date);

CREATE INDEX IF NOT EXISTS idx_user_activity_guild_user_insert
	ON user_activity (guild_id, user_id, insert_date);

CREATE TABLE IF NOT EXISTS user_levels (
	user_id                          INTEGER NOT NULL REFERENCES users(id),
	guild_id                         INTEGER NOT NULL REFERENCES guilds(id),
	total_xp                         INTEGER NOT NULL DEFAULT 0,
	level                            INTEGER NOT NULL DEFAULT 0,
	user_message_count               INTEGER NOT NULL DEFAULT 0,
	user_average_message_length      REAL NOT NULL DEFAULT 0,
	user_average_message_length_ema  REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, guild_id)
);
`

func (s *Store) createSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}
