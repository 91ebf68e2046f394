package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/gladiatorrx/platform/pkg/jwtx"
	"github.com/gladiatorrx/platform/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/gladiatorrx/platform/api/gladiator" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService         *service.AuthService
	MFAService          *service.MFAService
	OnboardingService   *service.OnboardingService
	InvitationService   *service.InvitationService
	PasswordService     *service.PasswordResetService
	OrganizationService *service.OrganizationService
	BillingService      *service.BillingService
	BreachService       *service.BreachService

	WebhookSecret string
	SecureCookies bool
}

func NewRouter(
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSystem()
	r.registerAuth()
	r.registerPassword()
	r.registerWaitlist()
	r.registerOnboarding()
	r.registerOrganizations()
	r.registerInvitations()
	r.registerBilling()
	r.registerBreaches()
	r.registerMFA()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			GladiatorRX API
//	@version		0.1.0
//	@description	Breach-exposure monitoring for organizations: waitlist onboarding, team invitations,
//	@description	subscription billing and breach search.
//	@description
//	@description				Sessions are EdDSA-signed tokens sent as the gx_session cookie or as a Bearer token.
//
//	@contact.name				GladiatorRX Team
//	@contact.url				https://github.com/gladiatorrx/platform
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// session is the middleware stack of every signed-in route.
func (r *Router) session(h http.Handler, limit httpx.RateLimitConfig, extra ...httpx.Middleware) http.Handler {
	mws := append([]httpx.Middleware{
		httpx.AuthnMiddleware(r.AuthService),
		httpx.RateLimitByUser(limit),
	}, extra...)
	return httpx.Chain(h, mws...)
}

// org is a signed-in route scoped to {orgID} for callers holding at least min.
func (r *Router) org(h http.HandlerFunc, min domain.OrgRole, limit httpx.RateLimitConfig) http.Handler {
	return r.session(h, limit, RequireOrgRole(r.OrganizationService, min))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, SecureCookies: r.SecureCookies}

	// POST /auth/login - strict, keyed by IP + email to slow credential stuffing
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout", r.session(http.HandlerFunc(h.HandleLogout), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/me", r.session(http.HandlerFunc(h.HandleMe), httpx.LenientLimit))
}

func (r *Router) registerPassword() {
	h := &PasswordHandler{PasswordService: r.PasswordService}

	r.Mux.Handle("POST /v1/password/forgot",
		httpx.Chain(http.HandlerFunc(h.HandleForgot),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("GET /v1/password/reset/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/password/reset",
		httpx.Chain(http.HandlerFunc(h.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerWaitlist() {
	h := &WaitlistHandler{OnboardingService: r.OnboardingService}

	// POST /waitlist - strict rate limit by IP (public signup endpoint)
	r.Mux.Handle("POST /v1/waitlist",
		httpx.Chain(http.HandlerFunc(h.HandleJoin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	admin := httpx.RequirePlatformRole(string(domain.PlatformRoleAdmin))
	r.Mux.Handle("GET /v1/admin/waitlist", r.session(http.HandlerFunc(h.HandleList), httpx.ModerateLimit, admin))
	r.Mux.Handle("POST /v1/admin/waitlist/{id}/approve", r.session(http.HandlerFunc(h.HandleApprove), httpx.ModerateLimit, admin))
	r.Mux.Handle("POST /v1/admin/waitlist/{id}/reject", r.session(http.HandlerFunc(h.HandleReject), httpx.ModerateLimit, admin))
	r.Mux.Handle("POST /v1/admin/waitlist/{id}/resend", r.session(http.HandlerFunc(h.HandleResend), httpx.ModerateLimit, admin))
}

func (r *Router) registerOnboarding() {
	h := &OnboardingHandler{OnboardingService: r.OnboardingService}

	r.Mux.Handle("GET /v1/onboarding/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/onboarding/complete",
		httpx.Chain(http.HandlerFunc(h.HandleComplete),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerOrganizations() {
	h := &OrganizationsHandler{OrganizationService: r.OrganizationService}

	r.Mux.Handle("GET /v1/orgs", r.session(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/orgs/{orgID}", r.org(h.HandleGet, domain.OrgRoleViewer, httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/orgs/{orgID}", r.org(h.HandleRename, domain.OrgRoleAdmin, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/orgs/{orgID}/members", r.org(h.HandleMembers, domain.OrgRoleViewer, httpx.LenientLimit))
	r.Mux.Handle("PATCH /v1/orgs/{orgID}/members/{userID}", r.org(h.HandleChangeRole, domain.OrgRoleAdmin, httpx.ModerateLimit))
	// Members may remove themselves; the service enforces ADMIN for others.
	r.Mux.Handle("DELETE /v1/orgs/{orgID}/members/{userID}", r.org(h.HandleRemove, domain.OrgRoleViewer, httpx.ModerateLimit))
}

func (r *Router) registerInvitations() {
	h := &InvitationsHandler{InvitationService: r.InvitationService}

	r.Mux.Handle("POST /v1/orgs/{orgID}/invitations", r.org(h.HandleCreate, domain.OrgRoleAdmin, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/orgs/{orgID}/invitations", r.org(h.HandleList, domain.OrgRoleAdmin, httpx.LenientLimit))
	r.Mux.Handle("DELETE /v1/orgs/{orgID}/invitations/{id}", r.org(h.HandleRevoke, domain.OrgRoleAdmin, httpx.ModerateLimit))

	r.Mux.Handle("GET /v1/invitations/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	// Accept works with or without a session.
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.OptionalAuthn(r.AuthService),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerBilling() {
	h := &BillingHandler{BillingService: r.BillingService, AuthService: r.AuthService}

	r.Mux.Handle("POST /v1/orgs/{orgID}/billing/checkout", r.org(h.HandleCheckout, domain.OrgRoleOwner, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/orgs/{orgID}/billing", r.org(h.HandleOverview, domain.OrgRoleViewer, httpx.LenientLimit))

	r.Mux.Handle("POST /v1/billing/webhook",
		httpx.Chain(&WebhookHandler{BillingService: r.BillingService, Secret: r.WebhookSecret},
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerBreaches() {
	h := &BreachHandler{BreachService: r.BreachService}

	r.Mux.Handle("POST /v1/orgs/{orgID}/breaches/search", r.org(h.HandleSearch, domain.OrgRoleMember, httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/orgs/{orgID}/breaches/history", r.org(h.HandleHistory, domain.OrgRoleViewer, httpx.LenientLimit))
	r.Mux.Handle("GET /v1/orgs/{orgID}/dashboard", r.org(h.HandleDashboard, domain.OrgRoleViewer, httpx.LenientLimit))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	r.Mux.Handle("POST /v1/mfa/totp/enroll", r.session(http.HandlerFunc(h.HandleEnroll), httpx.ModerateLimit))
	// POST /mfa/totp/verify - strict rate limit by user (prevent brute force of TOTP codes)
	r.Mux.Handle("POST /v1/mfa/totp/verify", r.session(http.HandlerFunc(h.HandleVerify), httpx.StrictLimit))
	r.Mux.Handle("POST /v1/mfa/backup-codes", r.session(http.HandlerFunc(h.HandleRegenerateBackupCodes), httpx.StrictLimit))
	r.Mux.Handle("DELETE /v1/mfa/totp", r.session(http.HandlerFunc(h.HandleRemove), httpx.StrictLimit))
}
