// Package checksum computes content digests used to detect concurrent edits.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is the hex-encoded SHA-256 of some content.
type Digest string

// Of returns the digest of data.
func Of(data []byte) Digest {
	h := sha256.Sum256(data)
	return Digest(hex.EncodeToString(h[:]))
}

// Matches reports whether data still has digest d.
func (d Digest) Matches(data []byte) bool {
	return Of(data) == d
}

func (d Digest) String() string { return string(d) }
