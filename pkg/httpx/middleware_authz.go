package httpx

import "net/http"

// RequirePlatformRole admits only callers whose session carries role.
// It must run after AuthnMiddleware.
func RequirePlatformRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				writeUnauthorized(w, "missing session")
				return
			}
			if p.PlatformRole != role {
				WriteError(w, http.StatusForbidden, CodeForbidden, "insufficient platform role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
