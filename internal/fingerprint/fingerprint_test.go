package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeIdempotent(t *testing.T) {
	cases := []string{
		"Hello World!",
		"café",
		"CAFÉ",
		"  multiple   spaces  ",
		"123 abc 456",
		"emoji\U0001F600️ here",
		"",
	}
	for _, c := range cases {
		once := Normalize(c)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "Normalize(%q) not idempotent", c)
	}
}

func TestNormalizeDigitFolding(t *testing.T) {
	got := Normalize("room 1234 door 5")
	for _, r := range got {
		if r >= '0' && r <= '9' {
			assert.Equal(t, byte('0'), byte(r))
		}
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b", Normalize("a    b"))
	assert.Equal(t, "a b", Normalize("a\t\n  b"))
}

func TestNormalizeStripsPunctuationAndMarks(t *testing.T) {
	assert.Equal(t, "cafe", Normalize("café!"))
	assert.Equal(t, "hello", Normalize("hello..."))
}

func TestNormalizeStripsVariationSelectorsAndZWJ(t *testing.T) {
	got := Normalize("a️‍b​")
	assert.NotContains(t, got, "️")
	assert.NotContains(t, got, "‍")
	assert.NotContains(t, got, "​")
}

func TestNormalizeTrims(t *testing.T) {
	assert.Equal(t, "hi", Normalize("  hi  "))
}

func TestSimHashStableAcrossEquivalentForms(t *testing.T) {
	a := Compute("cafe")
	b := Compute("CAFE")
	require.Equal(t, a.NormalizedLength, b.NormalizedLength)
	assert.Equal(t, a.SimHash, b.SimHash)
}

func TestSimHashShortStringsAreZero(t *testing.T) {
	fp := Compute("hi")
	assert.Equal(t, uint64(0), fp.SimHash)
	assert.Less(t, fp.NormalizedLength, 3)
}

func TestContentHashDeterministicOnBytes(t *testing.T) {
	a := ContentHash("hello world")
	b := ContentHash("hello world")
	assert.Equal(t, a, b)
	assert.Len(t, a, 11)

	c := ContentHash("hello world!")
	assert.NotEqual(t, a, c)
}

func TestHammingDistance(t *testing.T) {
	assert.Equal(t, 0, Hamming(0xFF, 0xFF))
	assert.Equal(t, 1, Hamming(0b10, 0b11))
	assert.Equal(t, 64, Hamming(0, ^uint64(0)))
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, 5, UTF16Len("hello"))
	// U+1F600 is outside the BMP: 2 UTF-16 code units.
	assert.Equal(t, 2, UTF16Len("\U0001F600"))
}
