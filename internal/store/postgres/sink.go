package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/vycdev/activityimport/internal/ingesttype"
)

const copyBatchSize = 2000

// activitySink streams ActivityRow values into Postgres using the COPY
// protocol (pgx.CopyFrom), buffering rows into batches so the Ingestor
// can write one row at a time without a round-trip per row.
type activitySink struct {
	tx      pgx.Tx
	guildID int64
	buf     []ingesttype.ActivityRow
}

var activityColumns = []string{
	"channel_id", "guild_id", "user_id", "insert_date", "message_hash",
	"message_length", "message_simhash", "normalized_length", "xp_gained",
	"guild_average_message_length", "guild_message_count",
}

func (s *activitySink) WriteRow(ctx context.Context, row ingesttype.ActivityRow) error {
	s.buf = append(s.buf, row)
	if len(s.buf) >= copyBatchSize {
		return s.flush(ctx)
	}
	return nil
}

func (s *activitySink) Close(ctx context.Context) error {
	return s.flush(ctx)
}

func (s *activitySink) flush(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}

	rows := make([][]any, len(s.buf))
	for i, row := range s.buf {
		rows[i] = []any{
			row.ChannelID, s.guildID, row.UserID, row.InsertDate, row.MessageHash,
			row.MessageLength, row.MessageSimhash, row.NormalizedLength, row.XPGained,
			row.GuildAverageMessageLen, row.GuildMessageCount,
		}
	}

	_, err := s.tx.CopyFrom(ctx, pgx.Identifier{"user_activity"}, activityColumns, pgx.CopyFromRows(rows))
	s.buf = s.buf[:0]
	return err
}
