package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vycdev/activityimport/internal/ingesttype"
	"github.com/vycdev/activityimport/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Ensure(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureCreatesAllTables(t *testing.T) {
	s := newTestStore(t)

	tables := []string{"guilds", "users", "user_activity", "user_levels"}
	for _, name := range tables {
		var got string
		err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, name).Scan(&got)
		require.NoError(t, err, "table %s", name)
		require.Equal(t, name, got)
	}
}

func TestImportGuildEnsuresGuildRowAndCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.ImportGuild(ctx, 123, "Test Guild", true, func(ctx context.Context, tx store.GuildTx) error {
		userID, err := tx.EnsureUser(ctx, 42, "alice")
		require.NoError(t, err)
		require.NotZero(t, userID)
		return nil
	})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.Guilds)
	require.Equal(t, 1, st.Users)
}

func TestImportGuildRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.ImportGuild(ctx, 1, "G", true, func(ctx context.Context, tx store.GuildTx) error {
		_, err := tx.EnsureUser(ctx, 1, "bob")
		require.NoError(t, err)
		return assertErr
	})
	require.ErrorIs(t, err, assertErr)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, st.Guilds)
	require.Equal(t, 0, st.Users)
}

var assertErr = errTest("boom")

type errTest string

func (e errTest) Error() string { return string(e) }

func TestActivitySinkAndFlushUserLevelsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := s.ImportGuild(ctx, 1, "G", true, func(ctx context.Context, tx store.GuildTx) error {
		userID, err := tx.EnsureUser(ctx, 1, "alice")
		require.NoError(t, err)

		sink, err := tx.OpenActivitySink(ctx)
		require.NoError(t, err)

		require.NoError(t, sink.WriteRow(ctx, ingesttype.ActivityRow{
			ChannelID: 9, UserID: userID, InsertDate: now, MessageHash: "abc",
			MessageLength: 11, MessageSimhash: 0, NormalizedLength: 9,
			XPGained: 5, GuildAverageMessageLen: 11, GuildMessageCount: 1,
		}))
		require.NoError(t, sink.Close(ctx))

		return tx.FlushUserLevels(ctx, []store.UserLevelsUpdate{
			{UserID: userID, TotalXP: 5, Level: 0, MessageCount: 1, AverageLength: 11, EMALength: 11},
		})
	})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.ActivityRows)
	require.Equal(t, 1, st.UserLevelsRows)
}

func TestSeedQueriesReturnPriorHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	err := s.ImportGuild(ctx, 1, "G", true, func(ctx context.Context, tx store.GuildTx) error {
		userID, err := tx.EnsureUser(ctx, 7, "carol")
		require.NoError(t, err)

		sink, err := tx.OpenActivitySink(ctx)
		require.NoError(t, err)
		require.NoError(t, sink.WriteRow(ctx, ingesttype.ActivityRow{
			ChannelID: 1, UserID: userID, InsertDate: base, MessageHash: "h1",
			MessageLength: 20, MessageSimhash: 77, NormalizedLength: 15,
			XPGained: 3, GuildAverageMessageLen: 20, GuildMessageCount: 1,
		}))
		require.NoError(t, sink.Close(ctx))
		return nil
	})
	require.NoError(t, err)

	err = s.ImportGuild(ctx, 1, "G", true, func(ctx context.Context, tx store.GuildTx) error {
		cutoff := base.Add(time.Hour)

		avg, count, err := tx.SeedGuildStats(ctx, cutoff)
		require.NoError(t, err)
		require.Equal(t, 20.0, avg)
		require.Equal(t, 1, count)

		prev, err := tx.SeedUserPrev(ctx, cutoff)
		require.NoError(t, err)
		require.Len(t, prev, 1)

		recent, err := tx.SeedUserRecent(ctx, cutoff, 10*time.Minute, 200)
		require.NoError(t, err)
		require.Empty(t, recent, "1h before cutoff is outside the 10-minute window")

		recentWide, err := tx.SeedUserRecent(ctx, cutoff, 2*time.Hour, 200)
		require.NoError(t, err)
		require.Len(t, recentWide, 1)
		return nil
	})
	require.NoError(t, err)
}
