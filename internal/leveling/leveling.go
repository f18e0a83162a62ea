// Package leveling derives a user's level from their total XP. Level
// is always a pure function of total XP, never stored independently of
// it (spec §3 invariants).
package leveling

import "math"

// FromXP computes level = floor(log10((totalXP+111)/111) ^ 5.0243).
func FromXP(totalXP int) int {
	ratio := (float64(totalXP) + 111) / 111
	return int(math.Floor(math.Pow(math.Log10(ratio), 5.0243)))
}
