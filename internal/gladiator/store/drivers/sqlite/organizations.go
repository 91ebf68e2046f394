package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

type organizationsRepo struct {
	db dbtx
}

const orgColumns = `o.id, o.name, o.slug, o.billing_customer_id, o.created_at, o.updated_at`

func scanOrganization(s scanner, extra ...any) (domain.Organization, error) {
	var (
		o                    domain.Organization
		customer             sql.NullString
		createdAt, updatedAt int64
	)
	dest := append([]any{&o.ID, &o.Name, &o.Slug, &customer, &createdAt, &updatedAt}, extra...)
	if err := s.Scan(dest...); err != nil {
		return domain.Organization{}, err
	}
	o.BillingCustomerID = customer.String
	o.CreatedAt = fromMillis(createdAt)
	o.UpdatedAt = fromMillis(updatedAt)
	return o, nil
}

func (r *organizationsRepo) CreateOrganization(ctx context.Context, o domain.Organization) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, slug, billing_customer_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Slug, mapStringNull(o.BillingCustomerID), toMillis(o.CreatedAt), toMillis(o.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *organizationsRepo) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	o, err := scanOrganization(r.db.QueryRowContext(ctx,
		`SELECT `+orgColumns+` FROM organizations o WHERE o.id = ?`, id))
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return o, nil
}

func (r *organizationsRepo) GetOrganizationByBillingCustomer(ctx context.Context, customerID string) (domain.Organization, error) {
	o, err := scanOrganization(r.db.QueryRowContext(ctx,
		`SELECT `+orgColumns+` FROM organizations o WHERE o.billing_customer_id = ?`, customerID))
	if err != nil {
		return domain.Organization{}, mapNotFound(err)
	}
	return o, nil
}

func (r *organizationsRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM organizations WHERE slug = ?)`, slug).Scan(&exists)
	return exists != 0, err
}

func (r *organizationsRepo) RenameOrganization(ctx context.Context, id, name string, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE organizations SET name = ?, updated_at = ? WHERE id = ?`, name, toMillis(now), id))
}

func (r *organizationsRepo) SetBillingCustomer(ctx context.Context, id, customerID string, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE organizations SET billing_customer_id = ?, updated_at = ? WHERE id = ?`,
		customerID, toMillis(now), id)
	return requireRow(res, mapConstraint(err))
}

func (r *organizationsRepo) ListUserOrganizations(ctx context.Context, userID string) ([]domain.UserOrganization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orgColumns+`, m.role
		FROM organizations o
		JOIN memberships m ON m.organization_id = o.id
		WHERE m.user_id = ?
		ORDER BY o.name, o.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserOrganization
	for rows.Next() {
		var role string
		o, err := scanOrganization(rows, &role)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.UserOrganization{Organization: o, Role: domain.OrgRole(role)})
	}
	return out, rows.Err()
}
