package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

var ready atomic.Bool

func init() {
	ready.Store(true)
}

// SetReady toggles readiness, typically to false while the server drains.
func SetReady(v bool) {
	ready.Store(v)
}

// Checker represents dependencies that can be checked for readiness.
type Checker interface {
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// RedisChecker pings a Redis client.
type RedisChecker struct {
	Client *redis.Client
}

// PingRedis pings Redis within timeout.
func (c RedisChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.Client == nil {
		return errors.New("redis not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Client.Ping(ctx).Err()
}

// Handler exposes HTTP handlers for health endpoints. A nil Checker means
// Redis is not part of the deployment and is reported as disabled.
// ReceiptCache, when set, reports the cache breaker position; the cache is
// optional, so an open breaker does not fail readiness.
type Handler struct {
	Checker      Checker
	Catalog      func() error
	ReceiptCache func() string
	RedisTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on dependency checks.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	healthy := ready.Load()
	status := map[string]string{"server": "ok", "catalog": "ok", "redis": "disabled"}
	if !healthy {
		status["server"] = "draining"
	}
	if h.Catalog != nil {
		if err := h.Catalog(); err != nil {
			status["catalog"] = err.Error()
			healthy = false
		}
	}
	if h.Checker != nil {
		status["redis"] = "ok"
		if err := h.Checker.PingRedis(ctx, h.redisTimeout()); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}
	}
	if h.ReceiptCache != nil {
		status["receipt_cache"] = h.ReceiptCache()
	}
	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) redisTimeout() time.Duration {
	if h.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.RedisTimeout
}
