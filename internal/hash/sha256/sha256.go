// Package sha256 fingerprints generated pages.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher implements checklist.Hasher using SHA-256.
type Hasher struct{}

// New returns a SHA-256 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash returns the hex digest of data. Identical pages hash identically,
// so a rerun against an unchanged checklist can be detected downstream.
func (h *Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
