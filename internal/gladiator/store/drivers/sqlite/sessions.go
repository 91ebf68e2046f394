package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, user_agent, ip, expires_at, revoked_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.UserAgent, s.IP, toMillis(s.ExpiresAt), toNullMillis(s.RevokedAt), toMillis(s.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var (
		s                    domain.Session
		expiresAt, createdAt int64
		revokedAt            sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, user_agent, ip, expires_at, revoked_at, created_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.UserAgent, &s.IP, &expiresAt, &revokedAt, &createdAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.ExpiresAt = fromMillis(expiresAt)
	s.RevokedAt = fromNullMillis(revokedAt)
	s.CreatedAt = fromMillis(createdAt)
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`, toMillis(now), id)
	return err
}

func (r *sessionsRepo) RevokeUserSessions(ctx context.Context, userID string, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`, toMillis(now), userID))
}

func (r *sessionsRepo) DeleteStaleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	c := toMillis(cutoff)
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)`, c, c))
}
