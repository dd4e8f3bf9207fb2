package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traini8/traini8/internal/config"
	"github.com/traini8/traini8/internal/logger"
)

func testConfig(limit int) *config.Config {
	return &config.Config{
		RateLimiting: config.RateLimitingConfig{
			Enabled: true,
			Backend: "memory",
			Limit:   limit,
			Window:  time.Minute,
		},
	}
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimit_MemoryBackendRejectsOverLimit(t *testing.T) {
	m := New(nil, logger.Nop(), testConfig(2))
	h := m.RateLimit(IPKey)(okHandler)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/training-centers/add", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests. Please try again later."}`, rec.Body.String())
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	m := New(nil, logger.Nop(), testConfig(1))
	h := m.RateLimit(IPKey)(okHandler)

	for _, ip := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodPost, "/add", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, ip)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	cfg := testConfig(1)
	cfg.RateLimiting.Enabled = false
	m := New(nil, logger.Nop(), cfg)
	h := m.RateLimit(IPKey)(okHandler)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMemoryLimiter_RefillsAndSweeps(t *testing.T) {
	l := newMemoryLimiter(1, time.Second)
	now := time.Unix(1_000, 0)
	l.now = func() time.Time { return now }

	res, err := l.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, _ = l.Allow(context.Background(), "k")
	assert.False(t, res.Allowed)
	assert.Greater(t, res.Reset, time.Duration(0))

	now = now.Add(time.Second)
	res, _ = l.Allow(context.Background(), "k")
	assert.True(t, res.Allowed, "bucket refills after one window")

	now = now.Add(10 * time.Second)
	_, _ = l.Allow(context.Background(), "other")
	_, stale := l.entries["k"]
	assert.False(t, stale, "idle limiter should be swept")
}

func TestRequestID(t *testing.T) {
	m := New(nil, logger.Nop(), testConfig(1))

	var seen string
	h := m.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Len(t, seen, 36, "oversized IDs are replaced with a UUID")
}

func TestRecover(t *testing.T) {
	m := New(nil, logger.Nop(), testConfig(1))
	h := m.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestCORS(t *testing.T) {
	m := New(nil, logger.Nop(), testConfig(1))
	h := m.CORS([]string{"http://localhost:3000"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/training-centers/add", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	m := New(nil, logger.Nop(), testConfig(1))
	rec := httptest.NewRecorder()
	m.SecurityHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRateLimit_SameHostAcrossPorts(t *testing.T) {
	m := New(nil, logger.Nop(), testConfig(1))
	h := m.ClientIP(m.RateLimit(IPKey)(okHandler))

	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}
	for i, addr := range []string{"10.0.0.1:40001", "10.0.0.1:40002", "10.0.0.1:40003"} {
		req := httptest.NewRequest(http.MethodPost, "/add", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want[i], rec.Code, addr)
	}
}

func TestRateLimit_IgnoresForwardedForWithoutTrustedProxy(t *testing.T) {
	m := New(nil, logger.Nop(), testConfig(1))
	h := m.ClientIP(m.RateLimit(IPKey)(okHandler))

	want := []int{http.StatusOK, http.StatusTooManyRequests}
	for i, forwarded := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodPost, "/add", nil)
		req.RemoteAddr = "10.0.0.1:40001"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want[i], rec.Code, forwarded)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"strips port", false, "10.0.0.1:40001", "", "10.0.0.1"},
		{"ipv6 remote", false, "[2001:db8::1]:443", "", "2001:db8::1"},
		{"forwarded ignored", false, "10.0.0.1:40001", "203.0.113.7", "10.0.0.1"},
		{"first trusted hop", true, "10.0.0.1:40001", "203.0.113.7, 10.0.0.9", "203.0.113.7"},
		{"unparseable hop", true, "10.0.0.1:40001", strings.Repeat("a", 200), "10.0.0.1"},
		{"no port", false, "10.0.0.1", "", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(1)
			cfg.Server.TrustProxy = tt.trustProxy
			m := New(nil, logger.Nop(), cfg)

			var seen string
			h := m.ClientIP(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				seen = IPKey(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, seen)
		})
	}
}
