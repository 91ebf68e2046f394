package sqlite

import (
	"context"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.Membership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (organization_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?)`,
		m.OrganizationID, m.UserID, string(m.Role), toMillis(m.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *membershipsRepo) GetMembership(ctx context.Context, orgID, userID string) (domain.Membership, error) {
	var (
		m         domain.Membership
		role      string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT organization_id, user_id, role, created_at
		FROM memberships WHERE organization_id = ? AND user_id = ?`, orgID, userID,
	).Scan(&m.OrganizationID, &m.UserID, &role, &createdAt)
	if err != nil {
		return domain.Membership{}, mapNotFound(err)
	}
	m.Role = domain.OrgRole(role)
	m.CreatedAt = fromMillis(createdAt)
	return m, nil
}

func (r *membershipsRepo) IsMemberByEmail(ctx context.Context, orgID, email string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM memberships m JOIN users u ON u.id = m.user_id
			WHERE m.organization_id = ? AND u.email = ?
		)`, orgID, email).Scan(&exists)
	return exists != 0, err
}

func (r *membershipsRepo) ListMembers(ctx context.Context, orgID string) ([]domain.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.organization_id, m.user_id, m.role, m.created_at, u.email, u.name
		FROM memberships m JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = ?
		ORDER BY m.created_at, u.email`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var (
			m         domain.Member
			role      string
			createdAt int64
		)
		if err := rows.Scan(&m.OrganizationID, &m.UserID, &role, &createdAt, &m.Email, &m.Name); err != nil {
			return nil, err
		}
		m.Role = domain.OrgRole(role)
		m.CreatedAt = fromMillis(createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipsRepo) UpdateRole(ctx context.Context, orgID, userID string, role domain.OrgRole) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE memberships SET role = ? WHERE organization_id = ? AND user_id = ?`,
		string(role), orgID, userID))
}

func (r *membershipsRepo) DeleteMembership(ctx context.Context, orgID, userID string) error {
	return requireRow(r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE organization_id = ? AND user_id = ?`, orgID, userID))
}

func (r *membershipsRepo) CountByRole(ctx context.Context, orgID string, role domain.OrgRole) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE organization_id = ? AND role = ?`,
		orgID, string(role)).Scan(&n)
	return n, err
}
