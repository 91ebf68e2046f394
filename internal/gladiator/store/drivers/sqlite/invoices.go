package sqlite

import (
	"context"
	"database/sql"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/shopspring/decimal"
)

type invoicesRepo struct {
	db dbtx
}

const invoiceColumns = `id, organization_id, provider_invoice_id, provider_subscription_id, number, currency,
	amount_due, amount_paid, status, hosted_invoice_url, attempt_count, paid_at, created_at, updated_at`

func scanInvoice(s scanner) (domain.Invoice, error) {
	var (
		inv                   domain.Invoice
		amountDue, amountPaid string
		status                string
		paidAt                sql.NullInt64
		createdAt, updatedAt  int64
	)
	if err := s.Scan(&inv.ID, &inv.OrganizationID, &inv.ProviderInvoiceID, &inv.ProviderSubscriptionID,
		&inv.Number, &inv.Currency, &amountDue, &amountPaid, &status, &inv.HostedInvoiceURL,
		&inv.AttemptCount, &paidAt, &createdAt, &updatedAt); err != nil {
		return domain.Invoice{}, err
	}
	var err error
	if inv.AmountDue, err = decimal.NewFromString(amountDue); err != nil {
		return domain.Invoice{}, err
	}
	if inv.AmountPaid, err = decimal.NewFromString(amountPaid); err != nil {
		return domain.Invoice{}, err
	}
	inv.Status = domain.InvoiceStatus(status)
	inv.PaidAt = fromNullMillis(paidAt)
	inv.CreatedAt = fromMillis(createdAt)
	inv.UpdatedAt = fromMillis(updatedAt)
	return inv, nil
}

// UpsertInvoice keys on the provider invoice ID. Replaying the same payload
// rewrites identical values, so the row is stable under redelivery. An
// earlier paid_at is never cleared.
func (r *invoicesRepo) UpsertInvoice(ctx context.Context, inv domain.Invoice) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (provider_invoice_id) DO UPDATE SET
			organization_id          = excluded.organization_id,
			provider_subscription_id = excluded.provider_subscription_id,
			number                   = excluded.number,
			currency                 = excluded.currency,
			amount_due               = excluded.amount_due,
			amount_paid              = excluded.amount_paid,
			status                   = excluded.status,
			hosted_invoice_url       = excluded.hosted_invoice_url,
			attempt_count            = excluded.attempt_count,
			paid_at                  = COALESCE(invoices.paid_at, excluded.paid_at),
			updated_at               = excluded.updated_at`,
		inv.ID, inv.OrganizationID, inv.ProviderInvoiceID, inv.ProviderSubscriptionID,
		inv.Number, inv.Currency, inv.AmountDue.String(), inv.AmountPaid.String(), string(inv.Status),
		inv.HostedInvoiceURL, inv.AttemptCount, toNullMillis(inv.PaidAt),
		toMillis(inv.CreatedAt), toMillis(inv.UpdatedAt),
	)
	return err
}

func (r *invoicesRepo) GetInvoiceByProviderID(ctx context.Context, providerID string) (domain.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE provider_invoice_id = ?`, providerID))
	if err != nil {
		return domain.Invoice{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invoicesRepo) ListInvoices(ctx context.Context, orgID string, limit int) ([]domain.Invoice, error) {
	if limit <= 0 {
		limit = 24
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE organization_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, orgID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *invoicesRepo) CountInvoices(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE organization_id = ?`, orgID).Scan(&n)
	return n, err
}
