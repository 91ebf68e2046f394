package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/pkg/idx"
	"github.com/gladiatorrx/platform/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

var ErrSubscriptionRequired = errors.New("an active subscription is required")

const (
	MaxBreachQueries        = 20
	defaultLookupParallel   = 4
	dashboardRecentSearches = 5
)

// BreachProvider looks up breaches for one email address or domain.
// *breach.Client implements it.
type BreachProvider interface {
	Lookup(ctx context.Context, query string, kind domain.BreachQueryType) ([]domain.Breach, error)
}

type BreachService struct {
	Store    store.Store
	Provider BreachProvider
	Clock    Clock

	// Parallelism bounds concurrent provider lookups per search.
	Parallelism int
	// RequireSubscription gates searches behind an entitled subscription.
	RequireSubscription bool
}

type BreachSearchInput struct {
	OrganizationID string
	UserID         string
	Queries        []string
}

// Search runs every query against the provider and persists one record per
// query. A provider failure for one query is stored on its record and does
// not fail the others.
func (s *BreachService) Search(ctx context.Context, in BreachSearchInput) ([]domain.BreachSearch, error) {
	log := slogx.FromContext(ctx)

	// 1. Normalize and dedupe queries
	type query struct {
		value string
		kind  domain.BreachQueryType
	}
	seen := make(map[string]bool, len(in.Queries))
	queries := make([]query, 0, len(in.Queries))
	for _, raw := range in.Queries {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		q, kind, ok := domain.ClassifyQuery(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an email address or domain", ErrInvalidRequest, raw)
		}
		if seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, query{value: q, kind: kind})
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: at least one query is required", ErrInvalidRequest)
	}
	if len(queries) > MaxBreachQueries {
		return nil, fmt.Errorf("%w: at most %d queries per search", ErrInvalidRequest, MaxBreachQueries)
	}

	// 2. Subscription gate
	if s.RequireSubscription {
		ok, err := entitled(ctx, s.Store, in.OrganizationID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSubscriptionRequired
		}
	}

	// 3. Fan out with bounded concurrency
	limit := s.Parallelism
	if limit <= 0 {
		limit = defaultLookupParallel
	}
	results := make([]domain.BreachSearch, len(queries))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, q := range queries {
		g.Go(func() error {
			breaches, err := s.Provider.Lookup(ctx, q.value, q.kind)
			res := domain.BreachSearch{
				OrganizationID: in.OrganizationID,
				UserID:         in.UserID,
				Query:          q.value,
				QueryType:      q.kind,
				Breaches:       breaches,
				BreachCount:    len(breaches),
			}
			if err != nil {
				log.Warn("breach lookup failed", slog.String("query_type", string(q.kind)), slogx.Err(err))
				res.Error = err.Error()
				res.Breaches = nil
				res.BreachCount = 0
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 4. Persist in query order
	now := s.Clock.Now()
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for i := range results {
			results[i].ID = idx.NewAt(now).String()
			results[i].CreatedAt = now
			if err := tx.BreachSearches().CreateSearch(ctx, results[i]); err != nil {
				return fmt.Errorf("store breach search: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("breach search completed",
		slog.String("org_id", in.OrganizationID),
		slog.Int("queries", len(results)),
	)
	return results, nil
}

func (s *BreachService) History(ctx context.Context, orgID string, limit, offset int) ([]domain.BreachSearch, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.BreachSearches().ListSearches(ctx, orgID, limit, offset)
}

// Dashboard aggregates search history with the organization's billing and
// team state.
func (s *BreachService) Dashboard(ctx context.Context, orgID string) (domain.DashboardSummary, error) {
	sum, err := s.Store.BreachSearches().Summarize(ctx, orgID)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	if sum.RecentSearches, err = s.Store.BreachSearches().ListSearches(ctx, orgID, dashboardRecentSearches, 0); err != nil {
		return domain.DashboardSummary{}, err
	}

	sub, err := s.Store.Subscriptions().GetCurrentSubscription(ctx, orgID)
	switch {
	case err == nil:
		sum.Subscription = &sub
	case !errors.Is(err, store.ErrNotFound):
		return domain.DashboardSummary{}, err
	}

	members, err := s.Store.Memberships().ListMembers(ctx, orgID)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	sum.MemberCount = len(members)

	if sum.PendingInvites, err = s.Store.Invitations().CountPending(ctx, orgID, s.Clock.Now()); err != nil {
		return domain.DashboardSummary{}, err
	}
	return sum, nil
}
