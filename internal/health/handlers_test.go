package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/health"
)

type stubChecker struct {
	redisErr error
}

func (s stubChecker) PingRedis(_ context.Context, _ time.Duration) error {
	return s.redisErr
}

func readyStatus(t *testing.T, handler health.Handler) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	handler.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var status map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rr.Code, status
}

func TestLive(t *testing.T) {
	handler := health.Handler{}
	rr := httptest.NewRecorder()
	handler.Live(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if body := rr.Body.String(); body != "ok" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestReadySuccess(t *testing.T) {
	code, status := readyStatus(t, health.Handler{Checker: stubChecker{}, RedisTimeout: 50 * time.Millisecond})
	if code != http.StatusOK {
		t.Fatalf("expected 200 got %d", code)
	}
	if status["redis"] != "ok" || status["catalog"] != "ok" {
		t.Fatalf("unexpected status %#v", status)
	}
}

func TestReadyWithoutRedis(t *testing.T) {
	code, status := readyStatus(t, health.Handler{})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "disabled", status["redis"])
}

func TestReadyFailure(t *testing.T) {
	code, status := readyStatus(t, health.Handler{Checker: stubChecker{redisErr: errors.New("redis down")}, RedisTimeout: 10 * time.Millisecond})
	if code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", code)
	}
	require.Equal(t, "redis down", status["redis"])

	code, status = readyStatus(t, health.Handler{Catalog: func() error { return errors.New("no catalog") }})
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "no catalog", status["catalog"])
}

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, health.RedisChecker{Client: client}.PingRedis(context.Background(), time.Second))
	mr.Close()
	require.Error(t, health.RedisChecker{Client: client}.PingRedis(context.Background(), 100*time.Millisecond))
	require.Error(t, health.RedisChecker{}.PingRedis(context.Background(), time.Second))
}

func TestReadyReportsReceiptCacheWithoutFailing(t *testing.T) {
	code, status := readyStatus(t, health.Handler{ReceiptCache: func() string { return "open" }})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "open", status["receipt_cache"])

	_, status = readyStatus(t, health.Handler{})
	require.NotContains(t, status, "receipt_cache")
}
