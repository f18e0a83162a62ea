// Package score computes the integer XP award for one message under
// the duplication- and typing-rate-aware model described by the
// activity engine.
package score

import (
	"math"
	"time"

	"github.com/vycdev/activityimport/internal/fingerprint"
)

const (
	lengthBonusB = 4.0
	lengthBonusK = 0.025
)

// UserPrev is the sender's latest prior non-bot message, if any.
type UserPrev struct {
	Timestamp   time.Time
	ContentHash string
}

// RecentEntry is one prior fingerprint in a user's similarity window,
// newest first.
type RecentEntry struct {
	SimHash          uint64
	NormalizedLength int
	Timestamp        time.Time
}

// GuildPrev is the guild's rolling length statistics before this message.
type GuildPrev struct {
	AverageLength float64
	Count         int
}

// Input bundles everything Score needs to evaluate one message. Content
// and Timestamp are the raw message; ContentHash and Fingerprint are
// FingerprintHasher's output for that same content so Scorer never
// recomputes them.
type Input struct {
	Content     string
	Timestamp   time.Time
	ContentHash string
	Fingerprint fingerprint.Fingerprint

	PrevUser  *UserPrev
	Recent    []RecentEntry
	PrevGuild *GuildPrev
}

// Score returns the floored integer XP for one message.
func Score(in Input) int {
	length := fingerprint.UTF16Len(in.Content)

	r := 1.0
	if in.PrevGuild != nil && in.PrevGuild.AverageLength > 0 {
		r = clamp(float64(length)/in.PrevGuild.AverageLength, 0, 100)
	}
	lengthXP := lengthBonusB * math.Log(1+lengthBonusK*r) / math.Log(1+lengthBonusK)

	simSimple := simpleSimilarity(in)
	speedSimple := simpleSpeed(in)
	simComplex := complexSimilarity(in)
	speedComplex := complexSpeed(in, length)

	xp := math.Floor((1 + lengthXP) * simSimple * simComplex * speedSimple * speedComplex)
	return int(xp)
}

func simpleSimilarity(in Input) float64 {
	if in.PrevUser == nil {
		return 1
	}
	if in.PrevUser.ContentHash != in.ContentHash {
		return 1
	}
	if absDuration(in.Timestamp.Sub(in.PrevUser.Timestamp)) < 60*time.Second {
		return 0
	}
	return 1
}

func simpleSpeed(in Input) float64 {
	if in.PrevUser == nil {
		return 1
	}
	dt := clamp(in.Timestamp.Sub(in.PrevUser.Timestamp).Seconds(), 0, 5)
	return math.Log(1+9*dt) / math.Log(1+9*5)
}

func complexSimilarity(in Input) float64 {
	if in.Fingerprint.NormalizedLength < 12 || in.Fingerprint.SimHash == 0 {
		return 1
	}

	found := false
	sMax := 0.0
	for _, e := range in.Recent {
		if e.SimHash == 0 || e.NormalizedLength < 12 {
			continue
		}
		sim := 1 - float64(fingerprint.Hamming(in.Fingerprint.SimHash, e.SimHash))/64
		if !found || sim > sMax {
			sMax = sim
			found = true
		}
	}
	if !found {
		return 1
	}
	switch {
	case sMax >= 0.92:
		return 0
	case sMax >= 0.85:
		return 0.25
	default:
		return 1
	}
}

func complexSpeed(in Input, length int) float64 {
	if in.PrevUser == nil || length < 50 {
		return 1
	}
	dtMin := in.Timestamp.Sub(in.PrevUser.Timestamp).Minutes()
	if dtMin < 1e-6 {
		dtMin = 1e-6
	}
	wpm := (float64(length) / dtMin) / 5
	switch {
	case wpm >= 300:
		return 0
	case wpm > 200:
		return 1 - math.Log10(1+9*(wpm-200)/100)
	default:
		return 1
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
