package store

import (
	"context"
	"errors"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Sub-repositories are exposed as
// methods so a Tx hands out the same repositories bound to the transaction.
type Store interface {
	Users() Users
	Sessions() Sessions
	BackupCodes() BackupCodes
	Organizations() Organizations
	Memberships() Memberships
	Invitations() Invitations
	Waitlist() Waitlist
	Subscriptions() Subscriptions
	Invoices() Invoices
	WebhookEvents() WebhookEvents
	BreachSearches() BreachSearches

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller must Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction scoped Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts u. A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error
	SetPlatformRole(ctx context.Context, email string, role domain.PlatformRole, now time.Time) error
	TouchLastLogin(ctx context.Context, userID string, now time.Time) error

	UpdateMFASecret(ctx context.Context, userID, secret string, now time.Time) error
	EnableMFA(ctx context.Context, userID string, now time.Time) error
	DisableMFA(ctx context.Context, userID string, now time.Time) error

	// SetResetToken replaces any previous reset token of the user.
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt, now time.Time) error
	// GetResetByTokenHash returns the reset state for classification.
	GetResetByTokenHash(ctx context.Context, tokenHash string) (domain.PasswordReset, error)
	// ConsumeResetToken marks an unused, unexpired reset token used in a
	// single conditional update. ErrNotFound when no row qualified.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.PasswordReset, error)
	// ClearStaleResetTokens clears unused reset tokens that expired before cutoff.
	ClearStaleResetTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, error)
	RevokeSession(ctx context.Context, id string, now time.Time) error
	RevokeUserSessions(ctx context.Context, userID string, now time.Time) (int64, error)
	// DeleteStaleSessions removes sessions that expired or were revoked before cutoff.
	DeleteStaleSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

type BackupCodes interface {
	CreateBackupCode(ctx context.Context, userID, codeHash string) error
	// UseBackupCode deletes the code and reports whether it existed.
	UseBackupCode(ctx context.Context, userID, codeHash string) (bool, error)
	DeleteAllBackupCodes(ctx context.Context, userID string) error
	CountBackupCodes(ctx context.Context, userID string) (int, error)
}

type Organizations interface {
	// CreateOrganization inserts o. A duplicate slug yields ErrAlreadyExists.
	CreateOrganization(ctx context.Context, o domain.Organization) error
	GetOrganization(ctx context.Context, id string) (domain.Organization, error)
	GetOrganizationByBillingCustomer(ctx context.Context, customerID string) (domain.Organization, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	RenameOrganization(ctx context.Context, id, name string, now time.Time) error
	SetBillingCustomer(ctx context.Context, id, customerID string, now time.Time) error
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.UserOrganization, error)
}

type Memberships interface {
	// CreateMembership yields ErrAlreadyExists when the user is already a member.
	CreateMembership(ctx context.Context, m domain.Membership) error
	GetMembership(ctx context.Context, orgID, userID string) (domain.Membership, error)
	IsMemberByEmail(ctx context.Context, orgID, email string) (bool, error)
	ListMembers(ctx context.Context, orgID string) ([]domain.Member, error)
	UpdateRole(ctx context.Context, orgID, userID string, role domain.OrgRole) error
	DeleteMembership(ctx context.Context, orgID, userID string) error
	CountByRole(ctx context.Context, orgID string, role domain.OrgRole) (int, error)
}

type Invitations interface {
	// CreateInvitation yields ErrAlreadyExists when a PENDING invitation for
	// the same organization and email exists.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error
	// GetInvitation looks an invitation up within its organization.
	GetInvitation(ctx context.Context, orgID, id string) (domain.Invitation, error)
	GetInvitationByTokenHash(ctx context.Context, tokenHash string) (domain.Invitation, error)
	GetPendingInvitation(ctx context.Context, orgID, email string) (domain.Invitation, error)
	ListInvitations(ctx context.Context, orgID string) ([]domain.Invitation, error)
	CountPending(ctx context.Context, orgID string, now time.Time) (int, error)

	// ConsumeInvitation flips a PENDING, unexpired invitation to ACCEPTED in
	// a single conditional update. ErrNotFound when no row qualified.
	ConsumeInvitation(ctx context.Context, tokenHash string, now time.Time) (domain.Invitation, error)
	// RevokeInvitation flips a PENDING invitation to REVOKED.
	RevokeInvitation(ctx context.Context, orgID, id string, now time.Time) error
	// ExpireStaleInvitations marks PENDING invitations past expiry as EXPIRED.
	ExpireStaleInvitations(ctx context.Context, now time.Time) (int64, error)
}

type Waitlist interface {
	// CreateEntry yields ErrAlreadyExists for a duplicate email.
	CreateEntry(ctx context.Context, e domain.WaitlistEntry) error
	GetEntry(ctx context.Context, id string) (domain.WaitlistEntry, error)
	GetEntryByTokenHash(ctx context.Context, tokenHash string) (domain.WaitlistEntry, error)
	ListEntries(ctx context.Context, status domain.WaitlistStatus, limit, offset int) ([]domain.WaitlistEntry, error)

	// Approve moves a PENDING entry to APPROVED with a fresh token.
	// ErrNotFound when the entry is missing or not PENDING.
	Approve(ctx context.Context, id, reviewerID, tokenHash string, expiresAt, now time.Time) error
	// ReissueToken replaces the token of an APPROVED entry whose token was
	// never used. ErrNotFound otherwise.
	ReissueToken(ctx context.Context, id, tokenHash string, expiresAt, now time.Time) error
	// Reject moves a PENDING entry to REJECTED. ErrNotFound otherwise.
	Reject(ctx context.Context, id, reviewerID string, now time.Time) error
	// ConsumeToken marks an APPROVED entry's unused, unexpired token used.
	// ErrNotFound when no row qualified.
	ConsumeToken(ctx context.Context, tokenHash string, now time.Time) (domain.WaitlistEntry, error)
}

type Subscriptions interface {
	// UpsertSubscription inserts or updates by provider subscription ID.
	UpsertSubscription(ctx context.Context, s domain.Subscription) error
	GetSubscriptionByProviderID(ctx context.Context, providerID string) (domain.Subscription, error)
	// GetCurrentSubscription returns the most recently updated subscription.
	GetCurrentSubscription(ctx context.Context, orgID string) (domain.Subscription, error)
}

type Invoices interface {
	// UpsertInvoice inserts or updates by provider invoice ID.
	UpsertInvoice(ctx context.Context, inv domain.Invoice) error
	GetInvoiceByProviderID(ctx context.Context, providerID string) (domain.Invoice, error)
	ListInvoices(ctx context.Context, orgID string, limit int) ([]domain.Invoice, error)
	CountInvoices(ctx context.Context, orgID string) (int, error)
}

type WebhookEvents interface {
	// RecordEvent stores a processed provider event. ErrAlreadyExists when
	// the event was already recorded.
	RecordEvent(ctx context.Context, id, eventType string, now time.Time) error
	HasEvent(ctx context.Context, id string) (bool, error)
}

type BreachSearches interface {
	CreateSearch(ctx context.Context, s domain.BreachSearch) error
	ListSearches(ctx context.Context, orgID string, limit, offset int) ([]domain.BreachSearch, error)
	// Summarize fills the aggregate counters of a DashboardSummary.
	Summarize(ctx context.Context, orgID string) (domain.DashboardSummary, error)
}
