package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gladiatorrx/platform/pkg/slogx"
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID       string
	SessionID    string
	PlatformRole string
	AMR          []string
}

type principalKey struct{}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller set by AuthnMiddleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != ""
}

func logFromRequest(r *http.Request) *slog.Logger {
	return slogx.FromContext(r.Context())
}
