// Package ingest orchestrates one guild's import: seeding rolling
// state from persisted history, streaming merged messages through the
// scorer, and flushing accumulated per-user deltas once at the end
// (spec §4.E, §4.G).
package ingest

import (
	"context"
	"time"

	"github.com/vycdev/activityimport/internal/rolling"
	"github.com/vycdev/activityimport/internal/store"
)

// seed primes st from persisted history strictly before firstTS, using
// the three one-shot queries of spec §4.E.
func seed(ctx context.Context, tx store.GuildTx, st *rolling.State, cfg rolling.Config, firstTS time.Time) error {
	avgLen, count, err := tx.SeedGuildStats(ctx, firstTS)
	if err != nil {
		return err
	}
	st.SeedGuild(avgLen, count)

	prevByUser, err := tx.SeedUserPrev(ctx, firstTS)
	if err != nil {
		return err
	}
	for userID, seed := range prevByUser {
		st.SeedUserPrev(userID, seed.Timestamp, seed.ContentHash)
	}

	recentByUser, err := tx.SeedUserRecent(ctx, firstTS, cfg.SimilarityWindow, cfg.RecentCap)
	if err != nil {
		return err
	}
	for userID, entries := range recentByUser {
		rolling.SortRecentEntriesNewestFirst(entries)
		st.SeedUserRecent(userID, entries)
	}

	return nil
}
