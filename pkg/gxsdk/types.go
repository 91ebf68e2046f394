package gxsdk

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Common
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// ============================================================================
// Users and sessions
// ============================================================================

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PlatformRole string     `json:"platform_role"`
	MFAEnabled   bool       `json:"mfa_enabled"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TOTPCode   string `json:"totp_code,omitempty"`
	BackupCode string `json:"backup_code,omitempty"`
}

// LoginResponse carries the session token for API clients. Browsers also
// receive it as an HttpOnly cookie.
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type MeResponse struct {
	User          User                     `json:"user"`
	Organizations []OrganizationMembership `json:"organizations"`
}

type PasswordForgotRequest struct {
	Email string `json:"email"`
}

type PasswordResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ============================================================================
// Single-use tokens
// ============================================================================

// Token verdicts.
const (
	VerdictValid       = "VALID"
	VerdictExpired     = "EXPIRED"
	VerdictAlreadyUsed = "ALREADY_USED"
	VerdictNotFound    = "NOT_FOUND"
)

// TokenVerdictResponse reports whether a token can still be used. Details
// are only filled for tokens that exist.
type TokenVerdictResponse struct {
	Verdict          string     `json:"verdict"`
	Email            string     `json:"email,omitempty"`
	Name             string     `json:"name,omitempty"`
	Company          string     `json:"company,omitempty"`
	OrganizationName string     `json:"organization_name,omitempty"`
	Role             string     `json:"role,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// ============================================================================
// Waitlist and onboarding
// ============================================================================

type WaitlistJoinRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type WaitlistEntry struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name,omitempty"`
	Company        string     `json:"company,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Status         string     `json:"status"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	TokenUsedAt    *time.Time `json:"token_used_at,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type WaitlistListResponse struct {
	Entries []WaitlistEntry `json:"entries"`
}

type OnboardingCompleteRequest struct {
	Token            string `json:"token"`
	Name             string `json:"name,omitempty"`
	Password         string `json:"password"`
	OrganizationName string `json:"organization_name,omitempty"`
}

type OnboardingCompleteResponse struct {
	User         User         `json:"user"`
	Organization Organization `json:"organization"`
}

// ============================================================================
// Organizations
// ============================================================================

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type OrganizationMembership struct {
	Organization
	Role string `json:"role"`
}

type OrganizationsResponse struct {
	Organizations []OrganizationMembership `json:"organizations"`
}

type OrganizationRenameRequest struct {
	Name string `json:"name"`
}

type Member struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type MembersResponse struct {
	Members []Member `json:"members"`
}

type RoleChangeRequest struct {
	Role string `json:"role"`
}

// ============================================================================
// Invitations
// ============================================================================

type InvitationCreateRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Invitation struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	InvitedByID string     `json:"invited_by_id"`
	ExpiresAt   time.Time  `json:"expires_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type InvitationsResponse struct {
	Invitations []Invitation `json:"invitations"`
}

// InvitationAcceptRequest needs Password only when the invited email has no
// account yet.
type InvitationAcceptRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

type InvitationAcceptResponse struct {
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
	User           User   `json:"user"`
	UserCreated    bool   `json:"user_created"`
}

// ============================================================================
// Billing
// ============================================================================

type CheckoutResponse struct {
	URL string `json:"url"`
}

type Subscription struct {
	Status            string     `json:"status"`
	PriceID           string     `json:"price_id,omitempty"`
	CurrentPeriodEnd  *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
}

// Invoice amounts are decimal strings in major currency units.
type Invoice struct {
	ID               string          `json:"id"`
	Number           string          `json:"number,omitempty"`
	Currency         string          `json:"currency"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Status           string          `json:"status"`
	HostedInvoiceURL string          `json:"hosted_invoice_url,omitempty"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type BillingResponse struct {
	Entitled     bool          `json:"entitled"`
	Subscription *Subscription `json:"subscription,omitempty"`
	Invoices     []Invoice     `json:"invoices"`
}

type WebhookReceivedResponse struct {
	Received bool `json:"received"`
	Replayed bool `json:"replayed,omitempty"`
}

// ============================================================================
// Breach search
// ============================================================================

type BreachSearchRequest struct {
	Queries []string `json:"queries"`
}

type Breach struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Domain      string    `json:"domain,omitempty"`
	BreachDate  string    `json:"breach_date,omitempty"`
	AddedDate   time.Time `json:"added_date"`
	PwnCount    int64     `json:"pwn_count"`
	DataClasses []string  `json:"data_classes,omitempty"`
	IsVerified  bool      `json:"is_verified"`
	IsSensitive bool      `json:"is_sensitive"`
}

type BreachSearch struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	QueryType   string    `json:"query_type"`
	BreachCount int       `json:"breach_count"`
	Breaches    []Breach  `json:"breaches"`
	Error       string    `json:"error,omitempty"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type BreachSearchResponse struct {
	Results []BreachSearch `json:"results"`
}

type BreachHistoryResponse struct {
	Searches []BreachSearch `json:"searches"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
}

type DashboardResponse struct {
	TotalSearches      int            `json:"total_searches"`
	ExposedQueries     int            `json:"exposed_queries"`
	TotalBreachHits    int            `json:"total_breach_hits"`
	LastSearchAt       *time.Time     `json:"last_search_at,omitempty"`
	RecentSearches     []BreachSearch `json:"recent_searches"`
	Subscription       *Subscription  `json:"subscription,omitempty"`
	MemberCount        int            `json:"member_count"`
	PendingInvitations int            `json:"pending_invitations"`
}

// ============================================================================
// MFA
// ============================================================================

type MFAEnrollResponse struct {
	Secret  string `json:"secret"`
	URL     string `json:"otpauth_url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

type MFACodeRequest struct {
	Code string `json:"code"`
}

type BackupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}
