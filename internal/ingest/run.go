package ingest

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vycdev/activityimport/internal/ingesttype"
	"github.com/vycdev/activityimport/internal/merge"
	"github.com/vycdev/activityimport/internal/rolling"
	"github.com/vycdev/activityimport/internal/store"
)

// GroupByGuild collects parsed per-channel exports into one GuildImport
// per guild, each channel becoming a merge stream, messages pre-sorted
// by timestamp so MergeSource's heap invariant holds (spec §4.F, §7:
// "sort is applied before merge").
func GroupByGuild(exports []ingesttype.Export) []GuildImport {
	byGuild := make(map[uint64]*GuildImport)
	order := make([]uint64, 0)

	for _, exp := range exports {
		imp, ok := byGuild[exp.Guild.ID]
		if !ok {
			imp = &GuildImport{DiscordID: exp.Guild.ID, Name: exp.Guild.Name}
			byGuild[exp.Guild.ID] = imp
			order = append(order, exp.Guild.ID)
		}

		messages := append([]ingesttype.Message(nil), exp.Messages...)
		sort.SliceStable(messages, func(i, j int) bool {
			return messages[i].Timestamp.Before(messages[j].Timestamp)
		})
		imp.Streams = append(imp.Streams, merge.Stream{ChannelID: exp.Channel.ID, Messages: messages})
	}

	out := make([]GuildImport, len(order))
	for i, id := range order {
		out[i] = *byGuild[id]
	}
	return out
}

// RunAll ingests every guild's import, running up to concurrency guilds
// at once (spec §5: parallelism is sound at guild granularity, never
// within a guild). concurrency <= 0 means unbounded.
func RunAll(ctx context.Context, s store.Store, imports []GuildImport, cfg rolling.Config, synchronousCommit bool, concurrency int) error {
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for _, imp := range imports {
		imp := imp
		g.Go(func() error {
			return Run(ctx, s, imp, cfg, synchronousCommit)
		})
	}

	return g.Wait()
}
