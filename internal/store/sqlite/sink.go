package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/vycdev/activityimport/internal/ingesttype"
)

// batchSize bounds how many rows accumulate before a flush, keeping a
// single INSERT statement's placeholder count well under SQLite's
// default variable limit.
const batchSize = 400

const columnsPerRow = 11

// activitySink buffers ActivityRow values and flushes them as multi-row
// INSERT statements, substituting for the COPY protocol the postgres
// driver uses natively.
type activitySink struct {
	tx      *sql.Tx
	guildID int64
	buf     []ingesttype.ActivityRow
}

func newActivitySink(tx *sql.Tx, guildID int64) *activitySink {
	return &activitySink{tx: tx, guildID: guildID, buf: make([]ingesttype.ActivityRow, 0, batchSize)}
}

func (s *activitySink) WriteRow(ctx context.Context, row ingesttype.ActivityRow) error {
	s.buf = append(s.buf, row)
	if len(s.buf) >= batchSize {
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

	var sb strings.Builder
	sb.WriteString(`INSERT INTO user_activity (
		channel_id, guild_id, user_id, insert_date, message_hash, message_length,
		message_simhash, normalized_length, xp_gained, guild_average_message_length, guild_message_count
	) VALUES `)

	args := make([]any, 0, len(s.buf)*columnsPerRow)
	for i, row := range s.buf {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			row.ChannelID, s.guildID, row.UserID, row.InsertDate, row.MessageHash,
			row.MessageLength, row.MessageSimhash, row.NormalizedLength, row.XPGained,
			row.GuildAverageMessageLen, row.GuildMessageCount,
		)
	}

	_, err := s.tx.ExecContext(ctx, sb.String(), args...)
	s.buf = s.buf[:0]
	return err
}
