package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/gladiatorrx/platform/pkg/idx"
)

type membershipKey struct{}

func withMembership(ctx context.Context, m domain.Membership) context.Context {
	return context.WithValue(ctx, membershipKey{}, m)
}

// membershipFrom returns the membership loaded by RequireOrgRole.
func membershipFrom(ctx context.Context) domain.Membership {
	m, _ := ctx.Value(membershipKey{}).(domain.Membership)
	return m
}

// RequireOrgRole loads the caller's membership of the {orgID} path
// organization and admits callers holding at least min. Non-members get a
// 404 so organization IDs cannot be probed. Must run after AuthnMiddleware.
func RequireOrgRole(orgs *service.OrganizationService, min domain.OrgRole) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := httpx.PrincipalFrom(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "missing session")
				return
			}

			orgID := r.PathValue("orgID")
			if !idx.Valid(orgID) {
				httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Resource not found")
				return
			}

			m, err := orgs.Membership(r.Context(), orgID, p.UserID)
			if err != nil {
				if errors.Is(err, service.ErrNotMember) {
					httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Resource not found")
					return
				}
				writeServiceError(w, r, err, "load membership")
				return
			}
			if !m.Role.AtLeast(min) {
				httpx.WriteError(w, http.StatusForbidden, httpx.CodeForbidden, "requires role "+string(min)+" or higher")
				return
			}

			next.ServeHTTP(w, r.WithContext(withMembership(r.Context(), m)))
		})
	}
}
