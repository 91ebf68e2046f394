package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, name, password_hash, platform_role, email_verified,
	mfa_enabled_at, mfa_secret, last_login_at, created_at, updated_at`

func scanUser(s scanner) (domain.User, error) {
	var (
		u                                 domain.User
		role                              string
		verified                          int
		mfaEnabledAt, lastLogin           sql.NullInt64
		mfaSecret                         sql.NullString
		createdAt, updatedAt              int64
	)
	if err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &verified,
		&mfaEnabledAt, &mfaSecret, &lastLogin, &createdAt, &updatedAt); err != nil {
		return domain.User{}, err
	}
	u.PlatformRole = domain.PlatformRole(role)
	u.EmailVerified = verified != 0
	u.MFAEnabledAt = fromNullMillis(mfaEnabledAt)
	u.MFASecret = mapNullStringPtr(mfaSecret)
	u.LastLoginAt = fromNullMillis(lastLogin)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	role := u.PlatformRole
	if role == "" {
		role = domain.PlatformRoleUser
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, platform_role, email_verified,
			mfa_enabled_at, mfa_secret, last_login_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, string(role), boolToInt(u.EmailVerified),
		toNullMillis(u.MFAEnabledAt), mapOptionalString(u.MFASecret), toNullMillis(u.LastLoginAt),
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, toMillis(now), userID))
}

func (r *usersRepo) SetPlatformRole(ctx context.Context, email string, role domain.PlatformRole, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET platform_role = ?, updated_at = ? WHERE email = ?`,
		string(role), toMillis(now), email))
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, userID string, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, toMillis(now), userID))
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID, secret string, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_secret = ?, mfa_enabled_at = NULL, updated_at = ? WHERE id = ?`,
		secret, toMillis(now), userID))
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled_at = ?, updated_at = ? WHERE id = ? AND mfa_secret IS NOT NULL`,
		toMillis(now), toMillis(now), userID))
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET mfa_enabled_at = NULL, mfa_secret = NULL, updated_at = ? WHERE id = ?`,
		toMillis(now), userID))
}

func (r *usersRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt, now time.Time) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token_hash = ?, reset_token_expires_at = ?, reset_token_used_at = NULL, updated_at = ?
		WHERE id = ?`,
		tokenHash, toMillis(expiresAt), toMillis(now), userID))
}

const resetColumns = `id, email, reset_token_hash, reset_token_expires_at, reset_token_used_at`

func scanReset(s scanner) (domain.PasswordReset, error) {
	var (
		pr        domain.PasswordReset
		expiresAt int64
		usedAt    sql.NullInt64
	)
	if err := s.Scan(&pr.UserID, &pr.Email, &pr.TokenHash, &expiresAt, &usedAt); err != nil {
		return domain.PasswordReset{}, err
	}
	pr.ExpiresAt = fromMillis(expiresAt)
	pr.UsedAt = fromNullMillis(usedAt)
	return pr, nil
}

func (r *usersRepo) GetResetByTokenHash(ctx context.Context, tokenHash string) (domain.PasswordReset, error) {
	pr, err := scanReset(r.db.QueryRowContext(ctx,
		`SELECT `+resetColumns+` FROM users WHERE reset_token_hash = ?`, tokenHash))
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	return pr, nil
}

func (r *usersRepo) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.PasswordReset, error) {
	pr, err := scanReset(r.db.QueryRowContext(ctx, `
		UPDATE users
		SET reset_token_used_at = ?, updated_at = ?
		WHERE reset_token_hash = ?
		  AND reset_token_used_at IS NULL
		  AND reset_token_expires_at > ?
		RETURNING `+resetColumns,
		toMillis(now), toMillis(now), tokenHash, toMillis(now)))
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	return pr, nil
}

func (r *usersRepo) ClearStaleResetTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx, `
		UPDATE users
		SET reset_token_hash = NULL, reset_token_expires_at = NULL, reset_token_used_at = NULL
		WHERE reset_token_hash IS NOT NULL
		  AND reset_token_used_at IS NULL
		  AND reset_token_expires_at < ?`,
		toMillis(cutoff)))
}
