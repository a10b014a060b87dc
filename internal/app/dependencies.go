package app

import (
	"context"
	"errors"
	"fmt"

	validator "github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-checkout/internal/cache"
	"github.com/noah-isme/toko-checkout/internal/config"
	"github.com/noah-isme/toko-checkout/internal/ratelimit"
	"github.com/noah-isme/toko-checkout/internal/repo"
	"github.com/noah-isme/toko-checkout/internal/resilience"
)

// Dependencies enumerates the services shared by the HTTP handlers.
type Dependencies struct {
	Redis     *redis.Client
	Validator *validator.Validate
	Limiter   ratelimit.Limiter
	Catalog   *repo.Catalog
	Receipts  *cache.JSON
	Logger    zerolog.Logger
}

// New loads the catalog and connects the optional Redis backend described by cfg.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	v := validator.New()
	fx, err := repo.LoadFile(cfg.CatalogFile, v)
	if err != nil {
		return nil, err
	}
	deps := &Dependencies{
		Validator: v,
		Catalog:   repo.NewCatalog(fx),
		Logger:    logger,
	}

	if cfg.RedisURL != "" {
		rdb, err := NewRedis(ctx, cfg.RedisURL, cfg.Obs.EnableTracing, cfg.Obs.EnablePrometheus)
		if err != nil {
			return nil, err
		}
		deps.Redis = rdb
	}
	breaker := resilience.NewBreaker("receipt_cache", cfg.CacheBreaker.MinCalls, cfg.CacheBreaker.FailureRatio, cfg.CacheBreaker.CoolOff).
		WithLogger(logger)
	deps.Receipts = cache.NewJSON(deps.Redis, cfg.ReceiptCacheTTL).WithBreaker(breaker)

	limiter, err := NewLimiter(cfg.RateLimitStrategy, deps.Redis)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	deps.Limiter = limiter
	return deps, nil
}

// NewRedis parses url, instruments the client and checks connectivity.
func NewRedis(ctx context.Context, url string, tracing, metrics bool) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := instrumentRedis(rdb, tracing, metrics); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

var instrumentRedis = func(rdb *redis.Client, tracing, metrics bool) error {
	if tracing {
		if err := redisotel.InstrumentTracing(rdb); err != nil {
			return fmt.Errorf("instrument redis tracing: %w", err)
		}
	}
	if metrics {
		if err := redisotel.InstrumentMetrics(rdb); err != nil {
			return fmt.Errorf("instrument redis metrics: %w", err)
		}
	}
	return nil
}

// NewLimiter picks the rate limiter backend. Without Redis an in-process
// store is used whatever the strategy.
func NewLimiter(strategy string, rdb *redis.Client) (ratelimit.Limiter, error) {
	const prefix = "ratelimit:"
	if rdb == nil {
		return ratelimit.FixedWindow{Store: ratelimit.NewMemoryStore(prefix)}, nil
	}
	switch strategy {
	case "", "sliding":
		return ratelimit.SlidingWindow{Client: rdb, Prefix: prefix}, nil
	case "fixed":
		store, err := ratelimit.NewRedisStore(rdb, prefix)
		if err != nil {
			return nil, fmt.Errorf("limiter store: %w", err)
		}
		return ratelimit.FixedWindow{Store: store}, nil
	default:
		return nil, fmt.Errorf("unknown rate limit strategy %q", strategy)
	}
}

// Close releases the Redis connection if one was opened.
func (d *Dependencies) Close() error {
	if d == nil || d.Redis == nil {
		return nil
	}
	if err := d.Redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
