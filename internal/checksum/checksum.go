// Package checksum fingerprints persisted blobs for change detection and ETags.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag quotes sum as a strong entity tag. An empty sum stands for an empty
// blob.
func ETag(sum string) string {
	if sum == "" {
		sum = Sum(nil)
	}
	return `"` + sum + `"`
}
