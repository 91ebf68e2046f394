package sqlite

import (
	"context"
)

type backupCodesRepo struct {
	db dbtx
}

func (r *backupCodesRepo) CreateBackupCode(ctx context.Context, userID, codeHash string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backup_codes (user_id, code_hash) VALUES (?, ?)`, userID, codeHash)
	return mapConstraint(err)
}

func (r *backupCodesRepo) UseBackupCode(ctx context.Context, userID, codeHash string) (bool, error) {
	n, err := rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM backup_codes WHERE user_id = ? AND code_hash = ?`, userID, codeHash))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *backupCodesRepo) DeleteAllBackupCodes(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM backup_codes WHERE user_id = ?`, userID)
	return err
}

func (r *backupCodesRepo) CountBackupCodes(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM backup_codes WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}
