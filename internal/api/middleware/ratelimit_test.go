package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedHandler(limit int) http.Handler {
	rl := NewRateLimiter(limit, 15*time.Minute)
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimit_AllowsUpToLimit(t *testing.T) {
	h := newLimitedHandler(100)

	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/aws/resources", nil)
		r.RemoteAddr = "203.0.113.7:51000"
		h.ServeHTTP(rec, r)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimit_Returns429PastLimit(t *testing.T) {
	h := newLimitedHandler(100)

	var rec *httptest.ResponseRecorder
	for i := 0; i < 101; i++ {
		rec = httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/aws/resources", nil)
		r.RemoteAddr = "203.0.113.7:51000"
		h.ServeHTTP(rec, r)
	}

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Rate Limit Error", body["error"])
}

func TestRateLimit_IsolatesClients(t *testing.T) {
	h := newLimitedHandler(5)

	for i := 0; i < 6; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "203.0.113.7:51000"
		h.ServeHTTP(rec, r)
	}

	// A different IP still has its full budget.
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.9:40000"
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:51000"
	assert.Equal(t, "203.0.113.7", clientIP(r))

	r.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", clientIP(r))
}
