package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/email"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/internal/gladiator/store/drivers/sqlite"
	"github.com/gladiatorrx/platform/pkg/cryptox"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/idx"
	"github.com/gladiatorrx/platform/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_gladiator"

type outbox struct {
	mu   sync.Mutex
	msgs []email.Message
}

func (o *outbox) Send(_ context.Context, msg email.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return nil
}

var tokenParam = regexp.MustCompile(`token=([A-Za-z0-9_\-]+)`)

// lastToken returns the token linked in the newest email sent to addr.
func (o *outbox) lastToken(t *testing.T, addr string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.msgs) - 1; i >= 0; i-- {
		if o.msgs[i].To != addr {
			continue
		}
		if m := tokenParam.FindStringSubmatch(o.msgs[i].Text); m != nil {
			return m[1]
		}
	}
	t.Fatalf("no tokenised email sent to %s", addr)
	return ""
}

func (o *outbox) count(addr string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, m := range o.msgs {
		if m.To == addr {
			n++
		}
	}
	return n
}

type fakeProvider struct {
	hits map[string][]domain.Breach
}

func (p *fakeProvider) Lookup(_ context.Context, query string, _ domain.BreachQueryType) ([]domain.Breach, error) {
	return p.hits[query], nil
}

type testServer struct {
	*httptest.Server

	store    *sqlite.Store
	outbox   *outbox
	hasher   *cryptox.PasswordHasher
	router   *Router
	provider *fakeProvider
	client   *gxsdk.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	pem, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSigner(pem)
	require.NoError(t, err)
	verifier := jwtx.NewVerifier("gladiator-test", signer)

	hasher := &cryptox.PasswordHasher{
		Params: cryptox.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		Pepper: "test-pepper",
	}
	box := &outbox{}
	mailer := &email.Mailer{Sender: box, From: "noreply@gladiatorrx.test", Product: "GladiatorRX", BaseURL: "https://app.gladiatorrx.test"}
	clock := service.Clock(time.Now)
	provider := &fakeProvider{hits: map[string][]domain.Breach{}}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(verifier, "test", st, logger)
	r.AuthService = &service.AuthService{Store: st, Hasher: hasher, Signer: signer, Verifier: verifier, Issuer: "gladiator-test", Clock: clock}
	r.MFAService = &service.MFAService{Store: st, Issuer: "GladiatorRX", Clock: clock}
	r.OnboardingService = &service.OnboardingService{Store: st, Notifier: mailer, Hasher: hasher, Clock: clock}
	r.InvitationService = &service.InvitationService{Store: st, Notifier: mailer, Hasher: hasher, Clock: clock}
	r.PasswordService = &service.PasswordResetService{Store: st, Notifier: mailer, Hasher: hasher, Clock: clock}
	r.OrganizationService = &service.OrganizationService{Store: st, Clock: clock}
	r.BillingService = &service.BillingService{Store: st, Notifier: mailer, Clock: clock, PriceID: "price_pro"}
	r.BreachService = &service.BreachService{Store: st, Provider: provider, Clock: clock, RequireSubscription: true}
	r.WebhookSecret = testWebhookSecret
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{
		Server:   srv,
		store:    st,
		outbox:   box,
		hasher:   hasher,
		router:   r,
		provider: provider,
		client:   gxsdk.NewClient(srv.URL),
	}
}

func (s *testServer) seedUser(t *testing.T, addr, password string, role domain.PlatformRole) domain.User {
	t.Helper()
	hash, err := s.hasher.Hash(password)
	require.NoError(t, err)
	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        addr,
		Name:         "Seeded",
		PasswordHash: hash,
		PlatformRole: role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.store.Users().CreateUser(context.Background(), u))
	return u
}

func (s *testServer) seedOrg(t *testing.T, owner domain.User, name string) domain.Organization {
	t.Helper()
	org, err := s.router.OrganizationService.Create(context.Background(), owner.ID, name)
	require.NoError(t, err)
	return org
}

func (s *testServer) addMember(t *testing.T, org domain.Organization, u domain.User, role domain.OrgRole) {
	t.Helper()
	require.NoError(t, s.store.Memberships().CreateMembership(context.Background(),
		domain.Membership{OrganizationID: org.ID, UserID: u.ID, Role: role, CreatedAt: time.Now().UTC()}))
}

func (s *testServer) login(t *testing.T, addr, password string) *gxsdk.Session {
	t.Helper()
	sess, err := s.client.Login(context.Background(), gxsdk.LoginRequest{Email: addr, Password: password})
	require.NoError(t, err)
	return sess
}

// do sends a raw JSON request and returns the response with its body read.
func (s *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, s.URL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	var apiErr *gxsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code)
}
