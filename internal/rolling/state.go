// Package rolling holds the per-guild in-memory state the scorer
// consults and mutates as messages are ingested in order: guild length
// statistics, each user's last message, and each user's recent SimHash
// window.
package rolling

import (
	"sort"
	"time"

	"github.com/vycdev/activityimport/internal/fingerprint"
	"github.com/vycdev/activityimport/internal/score"
)

// Config holds the tunable knobs. The CLI fills it from config.Load,
// which sets the spec's defaults; no flag or env var overrides them.
type Config struct {
	SimilarityWindow time.Duration
	EMASmoothingN    int
	RecentCap        int
}

// DefaultConfig returns the spec's default knob values (§6).
func DefaultConfig() Config {
	return Config{
		SimilarityWindow: 10 * time.Minute,
		EMASmoothingN:    500,
		RecentCap:        200,
	}
}

// Alpha is the EMA smoothing constant 2/(N+1).
func (c Config) Alpha() float64 {
	return 2 / (float64(c.EMASmoothingN) + 1)
}

// GuildStats is the rolling average-length/count pair for one guild.
type GuildStats struct {
	AverageLength float64
	Count         int
}

func (g *GuildStats) update(length int, alpha float64) {
	if g.AverageLength <= 0 {
		g.AverageLength = float64(length)
	} else {
		g.AverageLength = (1-alpha)*g.AverageLength + alpha*float64(length)
	}
	g.Count++
}

type userPrevEntry struct {
	timestamp   time.Time
	contentHash string
}

type recentEntry struct {
	simHash          uint64
	normalizedLength int
	timestamp        time.Time
}

// State is the live rolling state for one guild's ingest run.
type State struct {
	cfg   Config
	Guild GuildStats

	prevUser map[int64]userPrevEntry
	recent   map[int64][]recentEntry // newest-first
}

// New creates empty rolling state for a fresh guild ingest.
func New(cfg Config) *State {
	return &State{
		cfg:      cfg,
		prevUser: make(map[int64]userPrevEntry),
		recent:   make(map[int64][]recentEntry),
	}
}

// SeedGuild installs guild statistics read from persisted history.
func (s *State) SeedGuild(averageLength float64, count int) {
	s.Guild = GuildStats{AverageLength: averageLength, Count: count}
}

// SeedUserPrev installs a user's most recent pre-history message.
func (s *State) SeedUserPrev(userID int64, timestamp time.Time, contentHash string) {
	s.prevUser[userID] = userPrevEntry{timestamp: timestamp, contentHash: contentHash}
}

// SeedUserRecent installs a user's recent SimHash window from persisted
// history, newest first. Callers should already have applied the
// window and cap bounds (§4.E seed query 3).
func (s *State) SeedUserRecent(userID int64, entries []score.RecentEntry) {
	out := make([]recentEntry, len(entries))
	for i, e := range entries {
		out[i] = recentEntry{simHash: e.SimHash, normalizedLength: e.NormalizedLength, timestamp: e.Timestamp}
	}
	s.recent[userID] = out
}

// GuildPrev returns the guild statistics as of the last processed
// message, for Scorer to consult.
func (s *State) GuildPrev() score.GuildPrev {
	return score.GuildPrev{AverageLength: s.Guild.AverageLength, Count: s.Guild.Count}
}

// PrevUser returns the user's last message, or nil if none seen yet.
func (s *State) PrevUser(userID int64) *score.UserPrev {
	e, ok := s.prevUser[userID]
	if !ok {
		return nil
	}
	return &score.UserPrev{Timestamp: e.timestamp, ContentHash: e.contentHash}
}

// RecentWindow returns the user's recency window as of now, newest
// first. The stored window only reflects the trim applied when the
// previous message was appended (relative to that message's own
// timestamp), so entries are re-trimmed here against now before
// Scorer ever sees them — otherwise a stale entry from outside the
// current similarity window would still count toward complexSimilarity.
func (s *State) RecentWindow(userID int64, now time.Time) []score.RecentEntry {
	entries := trim(s.recent[userID], now, s.cfg.SimilarityWindow, s.cfg.RecentCap)
	out := make([]score.RecentEntry, len(entries))
	for i, e := range entries {
		out[i] = score.RecentEntry{SimHash: e.simHash, NormalizedLength: e.normalizedLength, Timestamp: e.timestamp}
	}
	return out
}

// Advance applies one non-bot message to the rolling state: it updates
// guild stats, the user's last-message pointer, and the user's recency
// window (appending then trimming per §4.D), and returns the
// post-update guild stats for the ActivityRow being written.
func (s *State) Advance(userID int64, rawLength int, contentHash string, fp fingerprint.Fingerprint, timestamp time.Time) (averageLength float64, count int) {
	s.Guild.update(rawLength, s.cfg.Alpha())

	s.prevUser[userID] = userPrevEntry{timestamp: timestamp, contentHash: contentHash}

	entries := append([]recentEntry{{simHash: fp.SimHash, normalizedLength: fp.NormalizedLength, timestamp: timestamp}}, s.recent[userID]...)
	entries = trim(entries, timestamp, s.cfg.SimilarityWindow, s.cfg.RecentCap)
	s.recent[userID] = entries

	return s.Guild.AverageLength, s.Guild.Count
}

func trim(entries []recentEntry, now time.Time, window time.Duration, cap_ int) []recentEntry {
	cutoff := now.Add(-window)
	kept := entries[:0:0]
	for _, e := range entries {
		if e.timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > cap_ {
		kept = kept[:cap_]
	}
	return kept
}

// SortRecentEntriesNewestFirst is exposed for seed queries that read
// rows in arbitrary order and must hand State entries already sorted.
func SortRecentEntriesNewestFirst(entries []score.RecentEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })
}
