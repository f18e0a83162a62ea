// Package fingerprint canonicalises message text and derives the
// content hash and SimHash fingerprint used to score and dedupe it.
package fingerprint

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	vs16 = 0xFE0F
	zwj  = 0x200D
	zwsp = 0x200B
)

// Normalize canonicalises raw message text for hashing, per the
// reference algorithm: NFKD + simple lowercasing, whitespace collapse,
// mark/punctuation/symbol/control stripping, VS16/ZWJ/ZWSP stripping,
// digit folding to '0', and leading/trailing space trim.
//
// Step order matters: whitespace arising only from decomposition must
// still collapse, so the space check runs before the category filters
// on every decomposed rune.
func Normalize(s string) string {
	decomposed := norm.NFKD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))

	lastWasSpace := false
	for _, r := range decomposed {
		r = unicode.ToLower(r)

		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteByte(' ')
				lastWasSpace = true
			}
			continue
		}

		if unicode.In(r, unicode.Mn, unicode.Mc) {
			continue
		}
		if r == vs16 || r == zwj || r == zwsp {
			continue
		}
		if unicode.In(r, unicode.P, unicode.S, unicode.C) {
			continue
		}

		if unicode.IsDigit(r) {
			b.WriteByte('0')
		} else {
			b.WriteRune(r)
		}
		lastWasSpace = false
	}

	return strings.Trim(b.String(), " ")
}
