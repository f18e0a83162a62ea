package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vycdev/activityimport/internal/ingesttype"
)

func msg(id string, t time.Time) ingesttype.Message {
	return ingesttype.Message{ID: id, Timestamp: t}
}

func TestSourceMergesChronologically(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	streams := []Stream{
		{ChannelID: 1, Messages: []ingesttype.Message{
			msg("a1", base),
			msg("a2", base.Add(3*time.Second)),
		}},
		{ChannelID: 2, Messages: []ingesttype.Message{
			msg("b1", base.Add(1*time.Second)),
			msg("b2", base.Add(2*time.Second)),
		}},
	}

	src := NewSource(streams)
	var order []string
	for {
		m, ok := src.Next()
		if !ok {
			break
		}
		order = append(order, m.Message.ID)
	}

	assert.Equal(t, []string{"a1", "b1", "b2", "a2"}, order)
}

func TestSourceTieBreaksByStreamOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	streams := []Stream{
		{ChannelID: 1, Messages: []ingesttype.Message{msg("first", base)}},
		{ChannelID: 2, Messages: []ingesttype.Message{msg("second", base)}},
		{ChannelID: 3, Messages: []ingesttype.Message{msg("third", base)}},
	}

	src := NewSource(streams)
	var order []string
	for {
		m, ok := src.Next()
		if !ok {
			break
		}
		order = append(order, m.Message.ID)
	}
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSourceSkipsEmptyStreams(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	streams := []Stream{
		{ChannelID: 1, Messages: nil},
		{ChannelID: 2, Messages: []ingesttype.Message{msg("only", base)}},
	}
	src := NewSource(streams)
	m, ok := src.Next()
	require.True(t, ok)
	assert.Equal(t, "only", m.Message.ID)

	_, ok = src.Next()
	assert.False(t, ok)
}
