// Package reference generates payment correlation references.
package reference

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// randomBytes is the number of random bytes appended to the timestamp.
const randomBytes = 8

// Generate produces a payment reference of the form
// "{unix-millis}-{16 hex chars}". The random component comes from
// crypto/rand, so collisions are overwhelmingly unlikely — but callers
// must still treat assignment as subject to the storage layer's unique
// index rather than assume uniqueness by construction.
func Generate() (string, error) {
	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	timestamp := time.Now().UnixMilli()
	return fmt.Sprintf("%d-%s", timestamp, hex.EncodeToString(buf)), nil
}
