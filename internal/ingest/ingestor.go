package ingest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vycdev/activityimport/internal/fingerprint"
	"github.com/vycdev/activityimport/internal/ingesttype"
	"github.com/vycdev/activityimport/internal/leveling"
	"github.com/vycdev/activityimport/internal/merge"
	"github.com/vycdev/activityimport/internal/rolling"
	"github.com/vycdev/activityimport/internal/score"
	"github.com/vycdev/activityimport/internal/store"
)

// GuildImport is everything needed to ingest one guild's merged
// channel exports.
type GuildImport struct {
	DiscordID uint64
	Name      string
	Streams   []merge.Stream
}

// Run ingests one guild inside a single transaction (spec §4.G). On any
// error the transaction aborts and nothing about this guild persists.
func Run(ctx context.Context, s store.Store, imp GuildImport, cfg rolling.Config, synchronousCommit bool) error {
	return s.ImportGuild(ctx, imp.DiscordID, imp.Name, synchronousCommit, func(ctx context.Context, tx store.GuildTx) error {
		return ingestGuild(ctx, tx, imp.Streams, cfg)
	})
}

func ingestGuild(ctx context.Context, tx store.GuildTx, streams []merge.Stream, cfg rolling.Config) error {
	firstTS, ok := earliestTimestamp(streams)
	if !ok {
		return nil
	}

	state := rolling.New(cfg)
	if err := seed(ctx, tx, state, cfg, firstTS); err != nil {
		return fmt.Errorf("seed rolling state: %w", err)
	}

	deltas := rolling.NewDeltas(cfg)
	cache := make(map[int64]store.UserCache)
	userIDByDiscord := make(map[uint64]int64)

	sink, err := tx.OpenActivitySink(ctx)
	if err != nil {
		return fmt.Errorf("open activity sink: %w", err)
	}

	source := merge.NewSource(streams)
	for {
		cm, ok := source.Next()
		if !ok {
			break
		}
		msg := cm.Message
		if msg.Author.IsBot {
			continue
		}

		discordID, err := strconv.ParseUint(msg.Author.ID, 10, 64)
		if err != nil {
			return fmt.Errorf("parse author id %q: %w", msg.Author.ID, err)
		}

		userID, known := userIDByDiscord[discordID]
		if !known {
			userID, err = tx.EnsureUser(ctx, discordID, msg.Author.Name)
			if err != nil {
				return fmt.Errorf("ensure user: %w", err)
			}
			userIDByDiscord[discordID] = userID
			uc, err := tx.UserCache(ctx, userID)
			if err != nil {
				return fmt.Errorf("load user cache: %w", err)
			}
			cache[userID] = uc
		}

		contentHash := fingerprint.ContentHash(msg.Content)
		fp := fingerprint.Compute(msg.Content)
		rawLength := fingerprint.UTF16Len(msg.Content)

		guildPrev := state.GuildPrev()
		in := score.Input{
			Content:     msg.Content,
			Timestamp:   msg.Timestamp,
			ContentHash: contentHash,
			Fingerprint: fp,
			PrevUser:    state.PrevUser(userID),
			Recent:      state.RecentWindow(userID, msg.Timestamp),
			PrevGuild:   &guildPrev,
		}
		xp := score.Score(in)

		avgLen, count := state.Advance(userID, rawLength, contentHash, fp, msg.Timestamp)

		row := ingesttype.ActivityRow{
			ChannelID:              cm.ChannelID,
			UserID:                 userID,
			InsertDate:             msg.Timestamp,
			MessageHash:            contentHash,
			MessageLength:          rawLength,
			MessageSimhash:         int64(fp.SimHash),
			NormalizedLength:       fp.NormalizedLength,
			XPGained:               xp,
			GuildAverageMessageLen: avgLen,
			GuildMessageCount:      count,
		}
		if err := sink.WriteRow(ctx, row); err != nil {
			return fmt.Errorf("write activity row: %w", err)
		}

		deltas.Record(userID, xp, rawLength, cache[userID].EMALength)
	}

	if err := sink.Close(ctx); err != nil {
		return fmt.Errorf("close activity sink: %w", err)
	}

	updates := flushUpdates(deltas, cache)
	if err := tx.FlushUserLevels(ctx, updates); err != nil {
		return fmt.Errorf("flush user levels: %w", err)
	}
	return nil
}

func flushUpdates(deltas *rolling.Deltas, cache map[int64]store.UserCache) []store.UserLevelsUpdate {
	updates := make([]store.UserLevelsUpdate, 0, len(deltas.All()))
	for userID, delta := range deltas.All() {
		c := cache[userID]

		totalXP := c.TotalXP + delta.XPSum
		count := c.MessageCount + delta.MessageCount

		avg := 0.0
		if count > 0 {
			avg = (c.AverageLength*float64(c.MessageCount) + float64(delta.LengthSum)) / float64(count)
		}

		ema := delta.EMACurrent
		if ema <= 0 {
			ema = c.EMALength
		}

		updates = append(updates, store.UserLevelsUpdate{
			UserID:        userID,
			TotalXP:       totalXP,
			Level:         leveling.FromXP(totalXP),
			MessageCount:  count,
			AverageLength: avg,
			EMALength:     ema,
		})
	}
	return updates
}

func earliestTimestamp(streams []merge.Stream) (time.Time, bool) {
	var first time.Time
	found := false
	for _, st := range streams {
		for _, m := range st.Messages {
			if !found || m.Timestamp.Before(first) {
				first = m.Timestamp
				found = true
			}
		}
	}
	return first, found
}
