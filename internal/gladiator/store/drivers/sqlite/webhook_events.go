package sqlite

import (
	"context"
	"time"
)

type webhookEventsRepo struct {
	db dbtx
}

func (r *webhookEventsRepo) RecordEvent(ctx context.Context, id, eventType string, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO webhook_events (id, type, processed_at) VALUES (?, ?, ?)`,
		id, eventType, toMillis(now))
	return mapConstraint(err)
}

func (r *webhookEventsRepo) HasEvent(ctx context.Context, id string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM webhook_events WHERE id = ?)`, id).Scan(&exists)
	return exists != 0, err
}
