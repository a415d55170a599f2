// Package fingerprint derives content-addressed identifiers for articles.
// The fingerprint is the sole deduplication mechanism: identical
// (title, url) pairs always produce identical fingerprints, and the store
// enforces uniqueness over them.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the hex-encoded SHA-256 digest over the UTF-8 bytes of
// title and url concatenated in that order.
//
// The concatenation carries no separator, so ("ab","c") and ("a","bc")
// produce the same digest. Changing this would alter the dedup semantics
// of every fingerprint already stored, so the behavior is kept as is.
func Hash(title, url string) string {
	sum := sha256.Sum256([]byte(title + url))
	return hex.EncodeToString(sum[:])
}
