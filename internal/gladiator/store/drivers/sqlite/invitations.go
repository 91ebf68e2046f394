package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, organization_id, email, role, invited_by_id, token_hash, status,
	expires_at, accepted_at, created_at, updated_at`

func scanInvitation(s scanner) (domain.Invitation, error) {
	var (
		inv                             domain.Invitation
		role, status                    string
		expiresAt, createdAt, updatedAt int64
		acceptedAt                      sql.NullInt64
	)
	if err := s.Scan(&inv.ID, &inv.OrganizationID, &inv.Email, &role, &inv.InvitedByID, &inv.TokenHash,
		&status, &expiresAt, &acceptedAt, &createdAt, &updatedAt); err != nil {
		return domain.Invitation{}, err
	}
	inv.Role = domain.OrgRole(role)
	inv.Status = domain.InvitationStatus(status)
	inv.ExpiresAt = fromMillis(expiresAt)
	inv.AcceptedAt = fromNullMillis(acceptedAt)
	inv.CreatedAt = fromMillis(createdAt)
	inv.UpdatedAt = fromMillis(updatedAt)
	return inv, nil
}

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	status := inv.Status
	if status == "" {
		status = domain.InvitationPending
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OrganizationID, inv.Email, string(inv.Role), inv.InvitedByID, inv.TokenHash,
		string(status), toMillis(inv.ExpiresAt), toNullMillis(inv.AcceptedAt),
		toMillis(inv.CreatedAt), toMillis(inv.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetInvitation(ctx context.Context, orgID, id string) (domain.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE organization_id = ? AND id = ?`, orgID, id))
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetInvitationByTokenHash(ctx context.Context, tokenHash string) (domain.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, tokenHash))
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetPendingInvitation(ctx context.Context, orgID, email string) (domain.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRowContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE organization_id = ? AND email = ? AND status = 'PENDING'`, orgID, email))
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) ListInvitations(ctx context.Context, orgID string) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE organization_id = ?
		ORDER BY created_at DESC, id DESC`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invitationsRepo) CountPending(ctx context.Context, orgID string, now time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invitations
		WHERE organization_id = ? AND status = 'PENDING' AND expires_at > ?`,
		orgID, toMillis(now)).Scan(&n)
	return n, err
}

func (r *invitationsRepo) ConsumeInvitation(ctx context.Context, tokenHash string, now time.Time) (domain.Invitation, error) {
	ms := toMillis(now)
	inv, err := scanInvitation(r.db.QueryRowContext(ctx, `
		UPDATE invitations
		SET status = 'ACCEPTED', accepted_at = ?, updated_at = ?
		WHERE token_hash = ? AND status = 'PENDING' AND expires_at > ?
		RETURNING `+invitationColumns,
		ms, ms, tokenHash, ms))
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) RevokeInvitation(ctx context.Context, orgID, id string, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE invitations SET status = 'REVOKED', updated_at = ?
		WHERE organization_id = ? AND id = ? AND status = 'PENDING'`,
		toMillis(now), orgID, id))
}

func (r *invitationsRepo) ExpireStaleInvitations(ctx context.Context, now time.Time) (int64, error) {
	ms := toMillis(now)
	return rowsAffected(r.db.ExecContext(ctx, `
		UPDATE invitations SET status = 'EXPIRED', updated_at = ?
		WHERE status = 'PENDING' AND expires_at <= ?`, ms, ms))
}
