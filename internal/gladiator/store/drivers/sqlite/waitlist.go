package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

type waitlistRepo struct {
	db dbtx
}

const waitlistColumns = `id, email, name, company, reason, status, token_hash, token_expires_at,
	token_used_at, reviewed_by, reviewed_at, created_at, updated_at`

func scanWaitlistEntry(s scanner) (domain.WaitlistEntry, error) {
	var (
		e                              domain.WaitlistEntry
		status                         string
		tokenHash, reviewedBy          sql.NullString
		tokenExpires, tokenUsed, revAt sql.NullInt64
		createdAt, updatedAt           int64
	)
	if err := s.Scan(&e.ID, &e.Email, &e.Name, &e.Company, &e.Reason, &status, &tokenHash, &tokenExpires,
		&tokenUsed, &reviewedBy, &revAt, &createdAt, &updatedAt); err != nil {
		return domain.WaitlistEntry{}, err
	}
	e.Status = domain.WaitlistStatus(status)
	e.TokenHash = mapNullStringPtr(tokenHash)
	e.TokenExpiresAt = fromNullMillis(tokenExpires)
	e.TokenUsedAt = fromNullMillis(tokenUsed)
	e.ReviewedBy = mapNullStringPtr(reviewedBy)
	e.ReviewedAt = fromNullMillis(revAt)
	e.CreatedAt = fromMillis(createdAt)
	e.UpdatedAt = fromMillis(updatedAt)
	return e, nil
}

func (r *waitlistRepo) CreateEntry(ctx context.Context, e domain.WaitlistEntry) error {
	status := e.Status
	if status == "" {
		status = domain.WaitlistPending
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO waitlist_entries (`+waitlistColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Email, e.Name, e.Company, e.Reason, string(status),
		mapOptionalString(e.TokenHash), toNullMillis(e.TokenExpiresAt), toNullMillis(e.TokenUsedAt),
		mapOptionalString(e.ReviewedBy), toNullMillis(e.ReviewedAt),
		toMillis(e.CreatedAt), toMillis(e.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *waitlistRepo) GetEntry(ctx context.Context, id string) (domain.WaitlistEntry, error) {
	e, err := scanWaitlistEntry(r.db.QueryRowContext(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries WHERE id = ?`, id))
	if err != nil {
		return domain.WaitlistEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *waitlistRepo) GetEntryByTokenHash(ctx context.Context, tokenHash string) (domain.WaitlistEntry, error) {
	e, err := scanWaitlistEntry(r.db.QueryRowContext(ctx,
		`SELECT `+waitlistColumns+` FROM waitlist_entries WHERE token_hash = ?`, tokenHash))
	if err != nil {
		return domain.WaitlistEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *waitlistRepo) ListEntries(ctx context.Context, status domain.WaitlistStatus, limit, offset int) ([]domain.WaitlistEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+waitlistColumns+` FROM waitlist_entries
		WHERE (? = '' OR status = ?)
		ORDER BY created_at, id
		LIMIT ? OFFSET ?`, string(status), string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WaitlistEntry
	for rows.Next() {
		e, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *waitlistRepo) Approve(ctx context.Context, id, reviewerID, tokenHash string, expiresAt, now time.Time) error {
	ms := toMillis(now)
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE waitlist_entries
		SET status = 'APPROVED', token_hash = ?, token_expires_at = ?, token_used_at = NULL,
			reviewed_by = ?, reviewed_at = ?, updated_at = ?
		WHERE id = ? AND status = 'PENDING'`,
		tokenHash, toMillis(expiresAt), mapStringNull(reviewerID), ms, ms, id))
}

func (r *waitlistRepo) ReissueToken(ctx context.Context, id, tokenHash string, expiresAt, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE waitlist_entries
		SET token_hash = ?, token_expires_at = ?, updated_at = ?
		WHERE id = ? AND status = 'APPROVED' AND token_used_at IS NULL`,
		tokenHash, toMillis(expiresAt), toMillis(now), id))
}

func (r *waitlistRepo) Reject(ctx context.Context, id, reviewerID string, now time.Time) error {
	ms := toMillis(now)
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE waitlist_entries
		SET status = 'REJECTED', token_hash = NULL, token_expires_at = NULL,
			reviewed_by = ?, reviewed_at = ?, updated_at = ?
		WHERE id = ? AND status = 'PENDING'`,
		mapStringNull(reviewerID), ms, ms, id))
}

func (r *waitlistRepo) ConsumeToken(ctx context.Context, tokenHash string, now time.Time) (domain.WaitlistEntry, error) {
	ms := toMillis(now)
	e, err := scanWaitlistEntry(r.db.QueryRowContext(ctx, `
		UPDATE waitlist_entries
		SET token_used_at = ?, updated_at = ?
		WHERE token_hash = ? AND status = 'APPROVED' AND token_used_at IS NULL AND token_expires_at > ?
		RETURNING `+waitlistColumns,
		ms, ms, tokenHash, ms))
	if err != nil {
		return domain.WaitlistEntry{}, mapNotFound(err)
	}
	return e, nil
}
