package fingerprint

import (
	"encoding/base64"
	"encoding/binary"
	"unicode/utf16"

	"github.com/cespare/xxhash/v2"
)

// ContentHash returns the 11-char unpadded standard-base64 encoding of
// the little-endian 8-byte xxh64 digest of content's UTF-8 bytes.
func ContentHash(content string) string {
	sum := xxhash.Sum64String(content)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], sum)
	return base64.RawStdEncoding.EncodeToString(buf[:])
}

// UTF16Len returns the UTF-16 code-unit length of s, matching the
// reference runtime's string length semantics.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
