package rxn

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRandomID returns 16 random hex characters. Overflow events and
// notifiers that are registered without an ID are named with it.
func NewRandomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
