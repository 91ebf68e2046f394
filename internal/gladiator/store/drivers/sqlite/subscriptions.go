package sqlite

import (
	"context"
	"database/sql"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

type subscriptionsRepo struct {
	db dbtx
}

const subscriptionColumns = `id, organization_id, provider_subscription_id, provider_customer_id, price_id,
	status, current_period_end, cancel_at_period_end, created_at, updated_at`

func scanSubscription(s scanner) (domain.Subscription, error) {
	var (
		sub                  domain.Subscription
		status               string
		periodEnd            sql.NullInt64
		cancel               int
		createdAt, updatedAt int64
	)
	if err := s.Scan(&sub.ID, &sub.OrganizationID, &sub.ProviderSubscriptionID, &sub.ProviderCustomerID,
		&sub.PriceID, &status, &periodEnd, &cancel, &createdAt, &updatedAt); err != nil {
		return domain.Subscription{}, err
	}
	sub.Status = domain.SubscriptionStatus(status)
	sub.CurrentPeriodEnd = fromNullMillis(periodEnd)
	sub.CancelAtPeriodEnd = cancel != 0
	sub.CreatedAt = fromMillis(createdAt)
	sub.UpdatedAt = fromMillis(updatedAt)
	return sub, nil
}

func (r *subscriptionsRepo) UpsertSubscription(ctx context.Context, s domain.Subscription) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider_subscription_id) DO UPDATE SET
			organization_id      = excluded.organization_id,
			provider_customer_id = excluded.provider_customer_id,
			price_id             = excluded.price_id,
			status               = excluded.status,
			current_period_end   = excluded.current_period_end,
			cancel_at_period_end = excluded.cancel_at_period_end,
			updated_at           = excluded.updated_at`,
		s.ID, s.OrganizationID, s.ProviderSubscriptionID, s.ProviderCustomerID, s.PriceID,
		string(s.Status), toNullMillis(s.CurrentPeriodEnd), boolToInt(s.CancelAtPeriodEnd),
		toMillis(s.CreatedAt), toMillis(s.UpdatedAt),
	)
	return err
}

func (r *subscriptionsRepo) GetSubscriptionByProviderID(ctx context.Context, providerID string) (domain.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRowContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE provider_subscription_id = ?`, providerID))
	if err != nil {
		return domain.Subscription{}, mapNotFound(err)
	}
	return s, nil
}

func (r *subscriptionsRepo) GetCurrentSubscription(ctx context.Context, orgID string) (domain.Subscription, error) {
	s, err := scanSubscription(r.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE organization_id = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`, orgID))
	if err != nil {
		return domain.Subscription{}, mapNotFound(err)
	}
	return s, nil
}
