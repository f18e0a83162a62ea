// Package store defines the narrow persistence surface the ingest
// core depends on (spec §4.H): guild/user lookups, the seed queries
// RollingState is primed from, a streaming bulk sink for activity rows,
// and a batched UserLevels flush. Two drivers implement it: sqlite
// (default, local/dry-run) and postgres (bulk COPY via pgx).
package store

import (
	"context"
	"time"

	"github.com/vycdev/activityimport/internal/ingesttype"
	"github.com/vycdev/activityimport/internal/score"
)

// Store is the top-level handle: schema lifecycle plus one entry point
// per guild ingest, each its own transaction (spec §4.G, §5).
type Store interface {
	// Ensure creates all tables this core touches if they don't exist.
	Ensure(ctx context.Context) error

	// Close releases database resources.
	Close() error

	// ImportGuild runs fn inside one transaction scoped to a single
	// guild's ingest. synchronousCommit, when false, asks the driver to
	// relax durability for this transaction only (spec §4.G). Any error
	// returned by fn aborts the transaction; nothing is persisted.
	ImportGuild(ctx context.Context, guildDiscordID uint64, guildName string, synchronousCommit bool, fn func(ctx context.Context, tx GuildTx) error) error

	// Stats returns aggregate counts, e.g. for the `stats` CLI command.
	Stats(ctx context.Context) (Stats, error)
}

// Stats holds aggregate counts across the whole store.
type Stats struct {
	Guilds          int
	Users           int
	ActivityRows    int
	UserLevelsRows  int
}

// UserCache is a (user, guild) pair's persisted aggregate state, read
// once per guild ingest before the merge starts (spec §4.G step 1).
type UserCache struct {
	TotalXP       int
	Level         int
	MessageCount  int
	AverageLength float64
	EMALength     float64
}

// UserPrevSeed is a user's most recent pre-history message (spec §4.E
// seed query 2).
type UserPrevSeed struct {
	Timestamp   time.Time
	ContentHash string
}

// UserLevelsUpdate is one user's post-run aggregate values, issued as
// a single update during the flush step (spec §4.G step 4).
type UserLevelsUpdate struct {
	UserID        int64
	TotalXP       int
	Level         int
	MessageCount  int
	AverageLength float64
	EMALength     float64
}

// GuildTx is the capability surface available for the duration of one
// guild's import transaction.
type GuildTx interface {
	// EnsureUser upserts a Users row by Discord id, updating Username
	// when it changed, and returns the internal user id.
	EnsureUser(ctx context.Context, discordID uint64, username string) (int64, error)

	// UserCache returns a user's cached aggregate state for this guild,
	// zero-valued if the pair has never been seen.
	UserCache(ctx context.Context, userID int64) (UserCache, error)

	// SeedGuildStats returns the latest guild length/count strictly
	// before firstTS (spec §4.E seed query 1).
	SeedGuildStats(ctx context.Context, firstTS time.Time) (averageLength float64, count int, err error)

	// SeedUserPrev returns, per user with history in this guild, their
	// most recent (timestamp, hash) strictly before firstTS (seed
	// query 2).
	SeedUserPrev(ctx context.Context, firstTS time.Time) (map[int64]UserPrevSeed, error)

	// SeedUserRecent returns, per user, recent fingerprints in
	// [firstTS-window, firstTS), newest first, capped (seed query 3).
	SeedUserRecent(ctx context.Context, firstTS time.Time, window time.Duration, cap int) (map[int64][]score.RecentEntry, error)

	// OpenActivitySink opens the bulk sink for this guild's activity
	// rows. It must be closed before FlushUserLevels is called.
	OpenActivitySink(ctx context.Context) (ActivitySink, error)

	// FlushUserLevels issues one update per accumulated user delta.
	FlushUserLevels(ctx context.Context, updates []UserLevelsUpdate) error
}

// ActivitySink is a streaming bulk-insert handle over the activity
// table (spec §4.H): a COPY-protocol stream where the driver supports
// one, a multi-row INSERT batch otherwise.
type ActivitySink interface {
	WriteRow(ctx context.Context, row ingesttype.ActivityRow) error
	Close(ctx context.Context) error
}
