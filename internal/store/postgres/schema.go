package postgres

const schema = `
CREATE TABLE IF NOT EXISTS guilds (
	id         BIGSERIAL PRIMARY KEY,
	discord_id BIGINT NOT NULL UNIQUE,
	name       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id                  BIGSERIAL PRIMARY KEY,
	discord_id          BIGINT NOT NULL UNIQUE,
	username            TEXT NOT NULL,
	last_username_check TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS user_activity (
	channel_id                   BIGINT NOT NULL,
	guild_id                     BIGINT NOT NULL REFERENCES guilds(id),
	user_id                      BIGINT NOT NULL REFERENCES users(id),
	insert_date                  TIMESTAMPTZ NOT NULL,
	message_hash                 TEXT NOT NULL,
	message_length               INTEGER NOT NULL,
	message_simhash              BIGINT NOT NULL,
	normalized_length            INTEGER NOT NULL,
	xp_gained                    INTEGER NOT NULL,
	guild_average_message_length DOUBLE PRECISION NOT NULL,
	guild_message_count          INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_activity_guild_insert
	ON user_activity (guild_id, insert_date);

CREATE INDEX IF NOT EXISTS idx_user_activity_guild_user_insert
	ON user_activity (guild_id, user_id, insert_date);

CREATE TABLE IF NOT EXISTS user_levels (
	user_id                          BIGINT NOT NULL REFERENCES users(id),
	guild_id                         BIGINT NOT NULL REFERENCES guilds(id),
	total_xp                         INTEGER NOT NULL DEFAULT 0,
	level                            INTEGER NOT NULL DEFAULT 0,
	user_message_count               INTEGER NOT NULL DEFAULT 0,
	user_average_message_length      DOUBLE PRECISION NOT NULL DEFAULT 0,
	user_average_message_length_ema  DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, guild_id)
);
`
