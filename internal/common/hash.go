package common

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Digest hashes the JSON encoding of each part, in order, and returns the
// SHA-256 sum as lowercase hex. Parts must encode deterministically: structs
// and slices do, maps are encoded with sorted keys.
func Digest(parts ...any) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for i, p := range parts {
		if err := enc.Encode(p); err != nil {
			return "", fmt.Errorf("digest part %d: %w", i, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
