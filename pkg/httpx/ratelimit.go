package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines a token bucket per key.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Rate limit profiles. LoadRateLimitProfiles overrides them from the
// environment.
var (
	// StrictLimit guards credential and token endpoints.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}
	// ModerateLimit covers authenticated writes.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 30}
	// LenientLimit covers authenticated reads.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 120, Window: time.Minute, Burst: 120}
	// PublicLimit covers health checks and the payment webhook.
	PublicLimit = RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}
)

// TrustForwardedHeaders makes IPKeyExtractor honour X-Forwarded-For and
// X-Real-IP. Only enable it behind a proxy that overwrites those headers.
var TrustForwardedHeaders = false

// LoadRateLimitProfiles applies RATELIMIT_{STRICT,MODERATE,LENIENT,PUBLIC}_
// {REQUESTS,WINDOW_SEC,BURST} overrides read through getenv.
func LoadRateLimitProfiles(getenv func(string) string) {
	StrictLimit = ParseRateLimit(getenv, "STRICT", StrictLimit)
	ModerateLimit = ParseRateLimit(getenv, "MODERATE", ModerateLimit)
	LenientLimit = ParseRateLimit(getenv, "LENIENT", LenientLimit)
	PublicLimit = ParseRateLimit(getenv, "PUBLIC", PublicLimit)
}

// ParseRateLimit reads RATELIMIT_{prefix}_* overrides on top of def.
// Unparseable or non-positive values are ignored.
func ParseRateLimit(getenv func(string) string, prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	positive := func(key string) (int, bool) {
		n, err := strconv.Atoi(getenv("RATELIMIT_" + prefix + "_" + key))
		return n, err == nil && n > 0
	}
	if n, ok := positive("REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positive("WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positive("BURST"); ok {
		cfg.Burst = n
	}
	return cfg
}

// KeyExtractor groups requests into rate limit buckets.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor returns the client IP.
func IPKeyExtractor(r *http.Request) string {
	if TrustForwardedHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// UserIDKeyExtractor returns the authenticated user's ID, if any.
func UserIDKeyExtractor(r *http.Request) string {
	if p, ok := PrincipalFrom(r.Context()); ok {
		return p.UserID
	}
	return ""
}

// JSONFieldKeyExtractor returns the lower-cased string value of a top level
// field in a JSON body. The body is restored for the handler.
func JSONFieldKeyExtractor(field string) KeyExtractor {
	return func(r *http.Request) string {
		if r.Body == nil {
			return ""
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, DefaultBodyLimit))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if err != nil {
			return ""
		}

		var fields map[string]json.RawMessage
		if json.Unmarshal(raw, &fields) != nil {
			return ""
		}
		var v string
		if json.Unmarshal(fields[field], &v) != nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(v))
	}
}

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extract := range extractors {
			if key := extract(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

type limiterSet struct {
	limit rate.Limit
	burst int

	limiters    sync.Map // string -> *rate.Limiter
	mu          sync.Mutex
	lastCleanup time.Time
}

func (s *limiterSet) get(key string) *rate.Limiter {
	if l, ok := s.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	l, _ := s.limiters.LoadOrStore(key, rate.NewLimiter(s.limit, s.burst))
	s.sweep()
	return l.(*rate.Limiter)
}

// sweep drops limiters whose bucket has refilled, at most every 5 minutes.
func (s *limiterSet) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.lastCleanup) < 5*time.Minute {
		return
	}
	s.lastCleanup = time.Now()

	s.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(s.burst) {
			s.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware limits requests per key. Requests without a key pass.
func RateLimitMiddleware(cfg RateLimitConfig, keyOf KeyExtractor) Middleware {
	set := &limiterSet{
		limit:       rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyOf(r)
			if key == "" {
				logFromRequest(r).Warn("rate limit: no key for request, allowing")
				next.ServeHTTP(w, r)
				return
			}

			limiter := set.get(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			res := limiter.Reserve()
			retryAfter := max(int(res.Delay().Seconds()), 1)
			res.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", cfg.Window.String())

			logFromRequest(r).Warn("rate limit exceeded", "key", key, "retry_after", retryAfter)
			WriteError(w, http.StatusTooManyRequests, CodeRateLimited, "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP limits per client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByUser limits per authenticated user, per IP for anonymous callers.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", UserIDKeyExtractor, IPKeyExtractor))
}

// RateLimitByIPAndJSONField limits per IP and body field, e.g. login
// attempts per IP and email.
func RateLimitByIPAndJSONField(cfg RateLimitConfig, field string) Middleware {
	return RateLimitMiddleware(cfg, CompositeKeyExtractor(":", IPKeyExtractor, JSONFieldKeyExtractor(field)))
}
