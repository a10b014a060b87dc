package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/toko-checkout/internal/resilience"
)

// JSON stores JSON payloads in Redis with a fixed TTL. A nil client turns every
// call into a miss.
type JSON struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *resilience.Breaker
}

// NewJSON constructs a JSON cache helper.
func NewJSON(client *redis.Client, ttl time.Duration) *JSON {
	return &JSON{client: client, ttl: ttl}
}

// WithBreaker guards Redis calls with b. While b is open reads are misses and
// writes are dropped.
func (c *JSON) WithBreaker(b *resilience.Breaker) *JSON {
	c.breaker = b
	return c
}

// BreakerState names the guarding breaker position, or "unguarded".
func (c *JSON) BreakerState() string {
	if c == nil || c.breaker == nil {
		return "unguarded"
	}
	return c.breaker.State().String()
}

// Enabled reports whether the cache is backed by Redis.
func (c *JSON) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *JSON) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() || key == "" {
		return false, nil
	}
	var data []byte
	err := c.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return err
	}, isMiss)
	switch {
	case errors.Is(err, resilience.ErrOpenCircuit), isMiss(err):
		return false, nil
	case err != nil:
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *JSON) SetJSON(ctx context.Context, key string, v any) error {
	if !c.Enabled() || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	err = c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.client.Set(ctx, key, data, c.ttl).Err()
	}, nil)
	if errors.Is(err, resilience.ErrOpenCircuit) {
		return nil
	}
	return err
}

func isMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
