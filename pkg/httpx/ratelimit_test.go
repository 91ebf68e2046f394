package httpx_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestFrom(ip string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":12345"
	return req
}

func TestIPKeyExtractor(t *testing.T) {
	req := requestFrom("192.168.1.1")
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")

	t.Run("ignores forwarded headers by default", func(t *testing.T) {
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("honours forwarded headers when trusted", func(t *testing.T) {
		httpx.TrustForwardedHeaders = true
		t.Cleanup(func() { httpx.TrustForwardedHeaders = false })

		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))

		real := requestFrom("192.168.1.1")
		real.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(real))
	})
}

func TestJSONFieldKeyExtractor(t *testing.T) {
	body := `{"email":"  Alice@Example.com ","password":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	key := httpx.JSONFieldKeyExtractor("email")(req)
	require.Equal(t, "alice@example.com", key)

	// The handler still sees the full body.
	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.Equal(t, body, string(rest))

	t.Run("missing field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
		require.Empty(t, httpx.JSONFieldKeyExtractor("email")(req))
	})

	t.Run("not json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`email=alice`))
		require.Empty(t, httpx.JSONFieldKeyExtractor("email")(req))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks requests over limit", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}
		h := httpx.RateLimitMiddleware(cfg, httpx.IPKeyExtractor)(okHandler)

		for i := range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, requestFrom("192.168.1.1"))
			require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("192.168.1.1"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")

		// Other clients keep their own bucket.
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("192.168.1.2"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		cfg := httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
		h := httpx.RateLimitMiddleware(cfg, func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, requestFrom("192.168.1.1"))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRateLimitByIPAndJSONField(t *testing.T) {
	cfg := httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := httpx.RateLimitByIPAndJSONField(cfg, "email")(okHandler)

	login := func(email string) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"`+email+`"}`))
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, login("alice@example.com"))
	require.Equal(t, http.StatusOK, login("alice@example.com"))
	require.Equal(t, http.StatusTooManyRequests, login("alice@example.com"))
	require.Equal(t, http.StatusOK, login("bob@example.com"))
}

func TestParseRateLimit(t *testing.T) {
	env := map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "50",
		"RATELIMIT_STRICT_WINDOW_SEC": "10",
		"RATELIMIT_STRICT_BURST":      "-3",
	}
	getenv := func(k string) string { return env[k] }

	got := httpx.ParseRateLimit(getenv, "STRICT", httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5})
	require.Equal(t, 50, got.RequestsPerWindow)
	require.Equal(t, 10*time.Second, got.Window)
	require.Equal(t, 5, got.Burst)
}

func TestRateLimitProfilesAreOrdered(t *testing.T) {
	require.Less(t, httpx.StrictLimit.RequestsPerWindow, httpx.ModerateLimit.RequestsPerWindow)
	require.Less(t, httpx.ModerateLimit.RequestsPerWindow, httpx.LenientLimit.RequestsPerWindow)
	require.Less(t, httpx.LenientLimit.RequestsPerWindow, httpx.PublicLimit.RequestsPerWindow)
}
