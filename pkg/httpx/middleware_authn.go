package httpx

import (
	"context"
	"net/http"
	"strings"
)

// SessionCookieName carries the session token for browser clients.
const SessionCookieName = "gx_session"

// Authenticator resolves a raw session token to a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// SessionToken returns the token from the session cookie, falling back to an
// "Authorization: Bearer" header for API clients.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authz := r.Header.Get("Authorization")
	if len(authz) > 7 && strings.EqualFold(authz[:7], "Bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}

// AuthnMiddleware rejects requests without a valid session and injects the
// Principal into the request context.
func AuthnMiddleware(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := SessionToken(r)
			if raw == "" {
				writeUnauthorized(w, "missing session")
				return
			}

			p, err := a.Authenticate(r.Context(), raw)
			if err != nil {
				logFromRequest(r).Debug("session rejected", "err", err)
				writeUnauthorized(w, "session is invalid or expired")
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthn injects a Principal when a valid session is present and lets
// anonymous requests through untouched.
func OptionalAuthn(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := SessionToken(r); raw != "" {
				if p, err := a.Authenticate(r.Context(), raw); err == nil {
					r = r.WithContext(WithPrincipal(r.Context(), p))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, desc)
}
