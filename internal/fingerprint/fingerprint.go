// Package fingerprint derives stable cache keys from image references.
// Keys are only used for cache lookups, never for anything security
// related; a collision at worst serves a stale translation.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Length is the number of hex characters in a fingerprint
const Length = 32

// Of returns the fingerprint of an image reference such as its URL
func Of(reference string) string {
	return OfBytes([]byte(reference))
}

// OfBytes returns the fingerprint of raw image bytes
func OfBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:Length]
}
