package cache

import (
	"fmt"

	"github.com/noah-isme/toko-checkout/internal/common"
)

// KeyReceipt returns the cache key for a priced cart. The key covers the
// catalog content fingerprint and every other pricing input, so processes
// sharing Redis only share receipts priced from identical data.
func KeyReceipt(fingerprint string, inputs ...any) (string, error) {
	sum, err := common.Digest(append([]any{fingerprint}, inputs...)...)
	if err != nil {
		return "", fmt.Errorf("receipt cache key: %w", err)
	}
	return "receipt:" + sum, nil
}
