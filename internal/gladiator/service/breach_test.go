package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/breach"
	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/stretchr/testify/require"
)

// fakeProvider answers from a fixed table and tracks peak concurrency.
type fakeProvider struct {
	results map[string][]domain.Breach
	errs    map[string]error

	mu       sync.Mutex
	calls    []string
	inflight atomic.Int32
	peak     atomic.Int32
}

func (p *fakeProvider) Lookup(_ context.Context, query string, _ domain.BreachQueryType) ([]domain.Breach, error) {
	n := p.inflight.Add(1)
	defer p.inflight.Add(-1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)

	p.mu.Lock()
	p.calls = append(p.calls, query)
	p.mu.Unlock()
	if err := p.errs[query]; err != nil {
		return nil, err
	}
	return p.results[query], nil
}

func TestBreachSearch(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.seedUser(t, "owner@acme.test", "ownerpassword")
	org := h.seedOrg(t, owner, "Acme")

	provider := &fakeProvider{
		results: map[string][]domain.Breach{
			"leaky@acme.test": {{Name: "Adobe", Title: "Adobe", PwnCount: 152445165}, {Name: "LinkedIn"}},
			"acme.test":       {{Name: "AcmeForum"}},
		},
		errs: map[string]error{"flaky@acme.test": breach.ErrRateLimited},
	}
	svc := &BreachService{Store: h.store, Provider: provider, Clock: h.clock(), Parallelism: 2}

	results, err := svc.Search(ctx, BreachSearchInput{
		OrganizationID: org.ID,
		UserID:         owner.ID,
		Queries:        []string{"Leaky@acme.test", "leaky@acme.test", "clean@acme.test", "acme.test", "flaky@acme.test", " "},
	})
	require.NoError(t, err)
	require.Len(t, results, 4, "duplicates and blanks are dropped")
	require.LessOrEqual(t, provider.peak.Load(), int32(2))

	require.Equal(t, "leaky@acme.test", results[0].Query)
	require.Equal(t, 2, results[0].BreachCount)
	require.Equal(t, domain.BreachQueryEmail, results[0].QueryType)
	require.Equal(t, 0, results[1].BreachCount)
	require.Equal(t, domain.BreachQueryDomain, results[2].QueryType)
	require.Equal(t, 1, results[2].BreachCount)
	require.NotEmpty(t, results[3].Error)

	history, err := svc.History(ctx, org.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 4)

	dash, err := svc.Dashboard(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, 4, dash.TotalSearches)
	require.Equal(t, 2, dash.ExposedQueries)
	require.Equal(t, 3, dash.TotalBreachHits)
	require.Equal(t, 1, dash.MemberCount)
	require.Len(t, dash.RecentSearches, 4)
	require.Nil(t, dash.Subscription)
}

func TestBreachSearchValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	svc := &BreachService{Store: h.store, Provider: &fakeProvider{}, Clock: h.clock()}

	_, err := svc.Search(ctx, BreachSearchInput{OrganizationID: "org", Queries: nil})
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Search(ctx, BreachSearchInput{OrganizationID: "org", Queries: []string{"not a query"}})
	require.ErrorIs(t, err, ErrInvalidRequest)

	many := make([]string, 0, MaxBreachQueries+1)
	for i := range MaxBreachQueries + 1 {
		many = append(many, "user"+string(rune('a'+i))+"@acme.test")
	}
	_, err = svc.Search(ctx, BreachSearchInput{OrganizationID: "org", Queries: many})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestBreachSearchRequiresSubscription(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	owner := h.seedUser(t, "owner@acme.test", "ownerpassword")
	org := h.seedOrg(t, owner, "Acme")
	require.NoError(t, h.store.Organizations().SetBillingCustomer(ctx, org.ID, "cus_1", t0))

	provider := &fakeProvider{}
	svc := &BreachService{Store: h.store, Provider: provider, Clock: h.clock(), RequireSubscription: true}
	in := BreachSearchInput{OrganizationID: org.ID, UserID: owner.ID, Queries: []string{"a@acme.test"}}

	_, err := svc.Search(ctx, in)
	require.ErrorIs(t, err, ErrSubscriptionRequired)
	require.Empty(t, provider.calls)

	require.NoError(t, h.store.Subscriptions().UpsertSubscription(ctx, domain.Subscription{
		ID:                     "sub-local",
		OrganizationID:         org.ID,
		ProviderSubscriptionID: "sub_1",
		ProviderCustomerID:     "cus_1",
		Status:                 domain.SubscriptionTrialing,
		CreatedAt:              t0,
		UpdatedAt:              t0,
	}))
	_, err = svc.Search(ctx, in)
	require.NoError(t, err)
}
