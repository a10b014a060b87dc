package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/toko-checkout/internal/delivery"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	CatalogFile        string
	Delivery           delivery.Rates
	RedisURL           string
	ReceiptCacheTTL    time.Duration
	CacheBreaker       Breaker
	RateLimitMax       int
	RateLimitWindow    time.Duration
	RateLimitStrategy  string
	IdempotencyTTL     time.Duration
	CORSAllowedOrigins []string
	Obs                Obs
}

// Breaker tunes the circuit breaker in front of the receipt cache.
type Breaker struct {
	MinCalls     int
	FailureRatio float64
	CoolOff      time.Duration
}

// Obs groups logging, metrics and tracing settings.
type Obs struct {
	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	MetricsBuckets   []float64
	EnablePrometheus bool
	EnableTracing    bool
	OTLPEndpoint     string
	TracingExporter  string
	SamplingRatio    float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	rates, err := loadRates(k)
	if err != nil {
		return nil, err
	}
	buckets, err := parseBuckets("OBS_METRICS_BUCKETS_MS", k.String("OBS_METRICS_BUCKETS_MS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		CatalogFile:        valueOrDefault(k.String("CATALOG_FILE"), "fixtures/catalog.yaml"),
		Delivery:           rates,
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		ReceiptCacheTTL:    parseDuration(k.String("RECEIPT_CACHE_TTL"), "5m"),
		CacheBreaker: Breaker{
			MinCalls:     parseInt(k.String("CACHE_BREAKER_MIN_CALLS"), 5),
			FailureRatio: parseFloat(k.String("CACHE_BREAKER_FAILURE_RATIO"), 0.5),
			CoolOff:      parseDuration(k.String("CACHE_BREAKER_COOL_OFF"), "30s"),
		},
		RateLimitMax:       parseInt(k.String("RATE_LIMIT_MAX"), 60),
		RateLimitWindow:    parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitStrategy:  strings.ToLower(valueOrDefault(k.String("RATE_LIMIT_STRATEGY"), "sliding")),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		Obs: Obs{
			LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
			LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
			MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "checkout"),
			MetricsBuckets:   buckets,
			EnablePrometheus: parseBool(k.String("OBS_ENABLE_PROMETHEUS"), true),
			EnableTracing:    parseBool(k.String("OBS_ENABLE_TRACING"), false),
			OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
			TracingExporter:  valueOrDefault(k.String("OBS_TRACING_EXPORTER"), "otlp"),
			SamplingRatio:    parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1.0),
		},
	}

	switch cfg.RateLimitStrategy {
	case "sliding", "fixed":
	default:
		return nil, fmt.Errorf("RATE_LIMIT_STRATEGY must be sliding or fixed, got %q", cfg.RateLimitStrategy)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// AllowedOrigins returns the configured CORS origins, defaulting to any origin.
func (c *Config) AllowedOrigins() []string {
	if len(c.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return c.CORSAllowedOrigins
}

func loadRates(k *koanf.Koanf) (delivery.Rates, error) {
	defaults := delivery.DefaultRates()
	perDelivery, err := parseMoney(k, "DELIVERY_COST_PER_DELIVERY", defaults.PerDelivery)
	if err != nil {
		return delivery.Rates{}, err
	}
	perProduct, err := parseMoney(k, "DELIVERY_COST_PER_PRODUCT", defaults.PerProduct)
	if err != nil {
		return delivery.Rates{}, err
	}
	fixed, err := parseMoney(k, "DELIVERY_FIXED_COST", defaults.Fixed)
	if err != nil {
		return delivery.Rates{}, err
	}
	return delivery.Rates{PerDelivery: perDelivery, PerProduct: perProduct, Fixed: fixed}, nil
}

func parseMoney(k *koanf.Koanf, key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := strings.TrimSpace(k.String(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: invalid amount %q: %w", key, raw, err)
	}
	if v.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s: amount must not be negative", key)
	}
	return v, nil
}

// parseBuckets reads comma-separated histogram bounds. They must be positive
// and strictly increasing; an empty value keeps the library defaults.
func parseBuckets(key, raw string) ([]float64, error) {
	parts := splitAndTrim(raw)
	if len(parts) == 0 {
		return nil, nil
	}
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid bucket %q: %w", key, part, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("%s: bucket %q must be positive", key, part)
		}
		if n := len(out); n > 0 && v <= out[n-1] {
			return nil, fmt.Errorf("%s: buckets must be strictly increasing, got %q after %v", key, part, out[n-1])
		}
		out = append(out, v)
	}
	return out, nil
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseInt(value string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}

func parseFloat(value string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return v
}

// MustLoad behaves like Load but panics on error. Command entrypoints use it.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
