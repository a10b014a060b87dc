package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5/middleware"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env.Error
}

func TestWriteErrorMapsAppError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("print receipt: %w", ArgumentRequired("cart")))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeError(t, rr)
	require.Equal(t, CodeArgumentRequired, body.Code)
	require.Equal(t, map[string]any{"argument": "cart"}, body.Details)
}

func TestWriteErrorDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, &AppError{Message: "bad"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "BAD_REQUEST", decodeError(t, rr).Code)

	rr = httptest.NewRecorder()
	WriteError(rr, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "INTERNAL", decodeError(t, rr).Code)
}

func TestPaginationBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons?page=2&limit=2", nil)
	page, perPage := ParsePagination(req, 20)
	require.Equal(t, 2, page)
	require.Equal(t, 2, perPage)

	start, end := Pagination{Page: page, PerPage: perPage, TotalItems: 3}.Bounds()
	require.Equal(t, 2, start)
	require.Equal(t, 3, end)

	start, end = Pagination{Page: 5, PerPage: 2, TotalItems: 3}.Bounds()
	require.Equal(t, 3, start)
	require.Equal(t, 3, end)

	req = httptest.NewRequest(http.MethodGet, "/?limit=5000&page=-1", nil)
	page, perPage = ParsePagination(req, 20)
	require.Equal(t, 1, page)
	require.Equal(t, MaxPerPage, perPage)
}

func TestIdemRejectsReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	calls := 0
	h := Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/coupons", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusCreated, send("abc").Code)
	replay := send("abc")
	require.Equal(t, http.StatusConflict, replay.Code)
	require.Equal(t, "IDEMPOTENT_REPLAY", decodeError(t, replay).Code)
	require.Equal(t, http.StatusCreated, send("").Code)
	require.Equal(t, 2, calls)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:4321"
	require.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")
	require.Equal(t, "192.0.2.1", ClientIP(req), "headers are ignored without RealIP")

	var seen string
	middleware.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIP(r)
	})).ServeHTTP(httptest.NewRecorder(), req)
	require.Equal(t, "203.0.113.9", seen)

	req.RemoteAddr = "198.51.100.2"
	require.Equal(t, "198.51.100.2", ClientIP(req))
	require.Equal(t, "", ClientIP(nil))
}
