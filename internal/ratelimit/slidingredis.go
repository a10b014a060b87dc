package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingScript trims expired events, records a new one only while under the
// limit and reports the allowance, the count and when the oldest event expires.
var slidingScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  count = count + 1
  allowed = 1
end
redis.call('PEXPIRE', key, window)
local reset = now + window
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if oldest[2] then
  reset = tonumber(oldest[2]) + window
end
return {allowed, count, reset}
`)

// SlidingWindow limits events per key over a moving window kept in a Redis
// sorted set scored by millisecond timestamps. Rejected calls are not recorded,
// so a client that keeps retrying regains capacity as old events age out.
type SlidingWindow struct {
	Client *redis.Client
	Prefix string

	now func() time.Time
}

// Allow records an event for key when fewer than max events fall inside window.
func (l SlidingWindow) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	if l.Client == nil || max <= 0 || window <= 0 {
		return true, max, now.Add(window), nil
	}

	windowMs := window.Milliseconds()
	if windowMs < 1 {
		windowMs = 1
	}
	redisKey := l.Prefix + key
	res, err := slidingScript.Run(ctx, l.Client, []string{redisKey},
		now.UnixMilli(), windowMs, max, uuid.NewString()).Int64Slice()
	if err != nil {
		return false, 0, now.Add(window), fmt.Errorf("sliding window %s: %w", redisKey, err)
	}
	if len(res) != 3 {
		return false, 0, now.Add(window), fmt.Errorf("sliding window %s: unexpected reply %v", redisKey, res)
	}

	remaining := max - int(res[1])
	if remaining < 0 {
		remaining = 0
	}
	return res[0] == 1, remaining, time.UnixMilli(res[2]), nil
}
