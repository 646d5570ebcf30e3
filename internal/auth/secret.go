package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewRememberSecret generates the opaque per-session secret stored on the
// shop record: 32 random bytes, hex encoded.
func NewRememberSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate remember secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
