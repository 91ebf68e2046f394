package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/store/drivers/sqlite"
	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/gladiatorrx/platform/pkg/idx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fastHasher keeps argon2 cheap in tests.
func fastHasher() *cryptox.PasswordHasher {
	return &cryptox.PasswordHasher{
		Params: cryptox.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		Pepper: "test-pepper",
	}
}

type sentMail struct {
	Kind   string
	To     string
	Token  string
	Amount decimal.Decimal
}

// fakeNotifier records every message and fails the kinds listed in fail.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail map[string]error
}

func (n *fakeNotifier) record(kind, to, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail[kind]; err != nil {
		return err
	}
	n.sent = append(n.sent, sentMail{Kind: kind, To: to, Token: token})
	return nil
}

func (n *fakeNotifier) SendInvitation(_ context.Context, to, _, _, _, rawToken string, _ time.Time) error {
	return n.record("invitation", to, rawToken)
}

func (n *fakeNotifier) SendInvitationWithdrawn(_ context.Context, to, _ string) error {
	return n.record("invitation_withdrawn", to, "")
}

func (n *fakeNotifier) SendWaitlistReceived(_ context.Context, to, _ string) error {
	return n.record("waitlist_received", to, "")
}

func (n *fakeNotifier) SendOnboarding(_ context.Context, to, _, rawToken string, _ time.Time) error {
	return n.record("onboarding", to, rawToken)
}

func (n *fakeNotifier) SendWaitlistRejected(_ context.Context, to, _ string) error {
	return n.record("waitlist_rejected", to, "")
}

func (n *fakeNotifier) SendWelcome(_ context.Context, to, _, _ string) error {
	return n.record("welcome", to, "")
}

func (n *fakeNotifier) SendPasswordReset(_ context.Context, to, rawToken string, _ time.Time) error {
	return n.record("password_reset", to, rawToken)
}

func (n *fakeNotifier) SendPaymentReceipt(_ context.Context, to, _ string, amount decimal.Decimal, _, _, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.fail["receipt"]; err != nil {
		return err
	}
	n.sent = append(n.sent, sentMail{Kind: "receipt", To: to, Amount: amount})
	return nil
}

func (n *fakeNotifier) byKind(kind string) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// lastToken returns the raw token of the most recent message of kind.
func (n *fakeNotifier) lastToken(t *testing.T, kind string) string {
	t.Helper()
	msgs := n.byKind(kind)
	require.NotEmpty(t, msgs, "no %s email sent", kind)
	return msgs[len(msgs)-1].Token
}

type harness struct {
	store  *sqlite.Store
	mail   *fakeNotifier
	hasher *cryptox.PasswordHasher
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return &harness{
		store:  s,
		mail:   &fakeNotifier{fail: map[string]error{}},
		hasher: fastHasher(),
		now:    t0,
	}
}

func (h *harness) clock() Clock { return func() time.Time { return h.now } }

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

func (h *harness) invitations() *InvitationService {
	return &InvitationService{Store: h.store, Notifier: h.mail, Hasher: h.hasher, Clock: h.clock()}
}

func (h *harness) onboarding() *OnboardingService {
	return &OnboardingService{Store: h.store, Notifier: h.mail, Hasher: h.hasher, Clock: h.clock()}
}

func (h *harness) organizations() *OrganizationService {
	return &OrganizationService{Store: h.store, Clock: h.clock()}
}

func (h *harness) passwords() *PasswordResetService {
	return &PasswordResetService{Store: h.store, Notifier: h.mail, Hasher: h.hasher, Clock: h.clock()}
}

func (h *harness) billing() *BillingService {
	return &BillingService{Store: h.store, Notifier: h.mail, Clock: h.clock(), PriceID: "price_pro"}
}

func (h *harness) seedUser(t *testing.T, email, password string) domain.User {
	t.Helper()
	hash, err := h.hasher.Hash(password)
	require.NoError(t, err)
	u := domain.User{
		ID:           idx.NewAt(h.now).String(),
		Email:        email,
		Name:         "Seeded " + email,
		PasswordHash: hash,
		PlatformRole: domain.PlatformRoleUser,
		CreatedAt:    h.now,
		UpdatedAt:    h.now,
	}
	require.NoError(t, h.store.Users().CreateUser(context.Background(), u))
	return u
}

// seedOrg creates an organization owned by owner.
func (h *harness) seedOrg(t *testing.T, owner domain.User, name string) domain.Organization {
	t.Helper()
	org, err := h.organizations().Create(context.Background(), owner.ID, name)
	require.NoError(t, err)
	return org
}

func (h *harness) addMember(t *testing.T, org domain.Organization, u domain.User, role domain.OrgRole) domain.Membership {
	t.Helper()
	m := domain.Membership{OrganizationID: org.ID, UserID: u.ID, Role: role, CreatedAt: h.now}
	require.NoError(t, h.store.Memberships().CreateMembership(context.Background(), m))
	return m
}
