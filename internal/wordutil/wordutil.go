// Package wordutil provides shared headword utility functions.
package wordutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Identity returns the content address of a headword: the hex-encoded
// SHA-256 digest of its exact text. Records with the same identity are
// merged into one dictionary entry, and cross-reference links target it.
func Identity(word string) string {
	return hashString(word)
}

// RowID returns the storage key for one physical source line.
// Many lines share a headword identity, so rows are keyed by the line itself
// to make reloading the same file idempotent.
func RowID(line string) string {
	return hashString(line)
}

// NormalizeHeadword trims the surrounding whitespace the source format
// leaves between a headword and its class braces or the record colon.
func NormalizeHeadword(word string) string {
	return strings.TrimSpace(word)
}

// ByteLen returns the UTF-8 encoded length of a headword.
func ByteLen(word string) int {
	return len(word)
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
