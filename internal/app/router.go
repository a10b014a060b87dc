package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/toko-checkout/internal/cart"
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/common"
	"github.com/noah-isme/toko-checkout/internal/config"
	"github.com/noah-isme/toko-checkout/internal/health"
	"github.com/noah-isme/toko-checkout/internal/obs"
	"github.com/noah-isme/toko-checkout/internal/ratelimit"
	"github.com/noah-isme/toko-checkout/internal/repo"
)

var errCatalogMissing = errors.New("catalog not loaded")

// NewRouter wires middleware and routes for the checkout API.
func NewRouter(cfg *config.Config, deps *Dependencies) http.Handler {
	logger := deps.Logger
	obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, nil)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Obs.EnableTracing {
		r.Use(obs.TracingMiddleware)
	}
	if cfg.Obs.EnablePrometheus {
		r.Use(obs.HTTPObs{Metrics: obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, cfg.Obs.MetricsBuckets, nil)}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key"},
		ExposedHeaders: []string{"X-Cache", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))

	if cfg.Obs.EnablePrometheus {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Catalog: func() error {
			if deps.Catalog == nil {
				return errCatalogMissing
			}
			return nil
		},
	}
	if deps.Redis != nil {
		healthHandler.Checker = health.RedisChecker{Client: deps.Redis}
	}
	if deps.Receipts.Enabled() {
		healthHandler.ReceiptCache = deps.Receipts.BreakerState
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	limit := ratelimit.Handler{
		Limiter: deps.Limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP,
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}
	idem := common.Idem{R: deps.Redis, TTL: cfg.IdempotencyTTL}

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Source: deps.Catalog})
	promoHandler := repo.NewHandler(repo.HandlerConfig{Catalog: deps.Catalog, Validator: deps.Validator})
	var receipts cart.ReceiptCache
	if deps.Receipts.Enabled() {
		receipts = deps.Receipts
	}
	receiptHandler := cart.NewHandler(cart.HandlerConfig{
		Catalog:   deps.Catalog,
		Cache:     receipts,
		Rates:     cfg.Delivery,
		Validator: deps.Validator,
		Logger:    logger,
	})

	r.Route("/api/v1", func(v chi.Router) {
		v.Use(limit.Middleware)

		v.Get("/categories", catalogHandler.Categories)
		v.Get("/products", catalogHandler.Products)
		v.Post("/receipts", receiptHandler.Receipt)

		v.Route("/campaigns", func(c chi.Router) {
			c.Get("/", promoHandler.ListCampaigns)
			c.With(idem.Middleware).Post("/", promoHandler.CreateCampaign)
			c.Delete("/{id}", promoHandler.DeleteCampaign)
		})
		v.Route("/coupons", func(c chi.Router) {
			c.Get("/", promoHandler.ListCoupons)
			c.With(idem.Middleware).Post("/", promoHandler.CreateCoupon)
			c.Delete("/{id}", promoHandler.DeleteCoupon)
		})
	})
	return r
}
