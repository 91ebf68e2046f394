package sqlite

import (
	"context"
	"database/sql"

	"github.com/gladiatorrx/platform/internal/gladiator/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer Store owns the DB

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(t)
}

func (t *txStore) ApplyMigrations() error { return nil } // applied before any tx

func (t *txStore) Users() store.Users                   { return &usersRepo{db: t.tx} }
func (t *txStore) Sessions() store.Sessions             { return &sessionsRepo{db: t.tx} }
func (t *txStore) BackupCodes() store.BackupCodes       { return &backupCodesRepo{db: t.tx} }
func (t *txStore) Organizations() store.Organizations   { return &organizationsRepo{db: t.tx} }
func (t *txStore) Memberships() store.Memberships       { return &membershipsRepo{db: t.tx} }
func (t *txStore) Invitations() store.Invitations       { return &invitationsRepo{db: t.tx} }
func (t *txStore) Waitlist() store.Waitlist             { return &waitlistRepo{db: t.tx} }
func (t *txStore) Subscriptions() store.Subscriptions   { return &subscriptionsRepo{db: t.tx} }
func (t *txStore) Invoices() store.Invoices             { return &invoicesRepo{db: t.tx} }
func (t *txStore) WebhookEvents() store.WebhookEvents   { return &webhookEventsRepo{db: t.tx} }
func (t *txStore) BreachSearches() store.BreachSearches { return &breachSearchesRepo{db: t.tx} }
