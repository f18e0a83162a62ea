package rolling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vycdev/activityimport/internal/fingerprint"
)

func TestGuildStatsFirstMessageSetsAverage(t *testing.T) {
	s := New(DefaultConfig())
	avg, count := s.Advance(1, 11, "hash1", fingerprint.Compute("hello world"), time.Now())
	assert.Equal(t, 11.0, avg)
	assert.Equal(t, 1, count)
}

func TestGuildCounterIncrementsByOnePerMessage(t *testing.T) {
	s := New(DefaultConfig())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var last int
	for i := 0; i < 5; i++ {
		_, count := s.Advance(1, 10, "h", fingerprint.Compute("x"), now.Add(time.Duration(i)*time.Minute))
		assert.Equal(t, last+1, count)
		last = count
	}
}

func TestPrevUserTracksLatestPerUser(t *testing.T) {
	s := New(DefaultConfig())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.Nil(t, s.PrevUser(1))

	s.Advance(1, 5, "hash-a", fingerprint.Compute("hello"), now)
	prev := s.PrevUser(1)
	require.NotNil(t, prev)
	assert.Equal(t, "hash-a", prev.ContentHash)

	s.Advance(1, 5, "hash-b", fingerprint.Compute("world"), now.Add(time.Minute))
	prev = s.PrevUser(1)
	assert.Equal(t, "hash-b", prev.ContentHash)
}

func TestRecentWindowTrimsExpiredAndCaps(t *testing.T) {
	cfg := Config{SimilarityWindow: 10 * time.Minute, EMASmoothingN: 500, RecentCap: 3}
	s := New(cfg)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Advance(1, 20, "h0", fingerprint.Compute("aaaaaaaaaaaaaaaaaaaa"), base)
	for i := 1; i <= 4; i++ {
		s.Advance(1, 20, "h", fingerprint.Compute("bbbbbbbbbbbbbbbbbbbb"), base.Add(time.Duration(i)*time.Minute))
	}
	window := s.RecentWindow(1, base.Add(4*time.Minute))
	assert.LessOrEqual(t, len(window), 3)
}

// RecentWindow must re-trim against the timestamp of the message being
// scored, not just against whatever timestamp the entry happened to be
// appended under — otherwise a stale entry lingers past its window.
func TestRecentWindowReTrimsAgainstQueryTimeNotInsertTime(t *testing.T) {
	cfg := Config{SimilarityWindow: 10 * time.Minute, EMASmoothingN: 500, RecentCap: 200}
	s := New(cfg)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.Advance(1, 20, "h0", fingerprint.Compute("aaaaaaaaaaaaaaaaaaaa"), base)

	// Immediately after insertion the entry is still within its own window.
	assert.Len(t, s.RecentWindow(1, base.Add(time.Minute)), 1)

	// Scoring a message 20 minutes later (beyond the 10-minute window)
	// must not see the stale entry, even though it was never re-trimmed
	// by an intervening Advance call.
	assert.Empty(t, s.RecentWindow(1, base.Add(20*time.Minute)))
}

func TestDeltaAccumulatorBotFreeRecording(t *testing.T) {
	cfg := DefaultConfig()
	d := NewDeltas(cfg)

	d.Record(1, 5, 11, 0)
	d.Record(1, 0, 5, 0)

	delta := d.All()[1]
	require.NotNil(t, delta)
	assert.Equal(t, 5, delta.XPSum)
	assert.Equal(t, 2, delta.MessageCount)
	assert.Equal(t, 16, delta.LengthSum)
	assert.Equal(t, 11.0, delta.EMACurrent)
}

func TestDeltaEMASeedsFromPersistedWhenPositive(t *testing.T) {
	d := NewDeltas(DefaultConfig())
	d.Record(1, 5, 30, 20)
	assert.Equal(t, 20.0, d.All()[1].EMACurrent)
}

func TestDeltaEMAUnaffectedByZeroXPMessages(t *testing.T) {
	d := NewDeltas(DefaultConfig())
	d.Record(1, 0, 100, 0)
	assert.Equal(t, 0.0, d.All()[1].EMACurrent)
	assert.Equal(t, 0, d.All()[1].XPSum)
}
