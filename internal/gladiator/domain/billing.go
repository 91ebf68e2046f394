package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatus mirrors the payment provider's subscription status.
type SubscriptionStatus string

const (
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	SubscriptionTrialing   SubscriptionStatus = "trialing"
	SubscriptionActive     SubscriptionStatus = "active"
	SubscriptionPastDue    SubscriptionStatus = "past_due"
	SubscriptionCanceled   SubscriptionStatus = "canceled"
	SubscriptionUnpaid     SubscriptionStatus = "unpaid"
	SubscriptionPaused     SubscriptionStatus = "paused"
)

// Entitled reports whether the status unlocks paid features.
func (s SubscriptionStatus) Entitled() bool {
	return s == SubscriptionActive || s == SubscriptionTrialing
}

type Subscription struct {
	ID                     string
	OrganizationID         string
	ProviderSubscriptionID string
	ProviderCustomerID     string
	PriceID                string
	Status                 SubscriptionStatus
	CurrentPeriodEnd       *time.Time
	CancelAtPeriodEnd      bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceOpen          InvoiceStatus = "open"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceUncollectible InvoiceStatus = "uncollectible"
	InvoiceVoid          InvoiceStatus = "void"
)

// Invoice is keyed by the provider's invoice ID; replays update in place.
// Amounts are in major currency units.
type Invoice struct {
	ID                     string
	OrganizationID         string
	ProviderInvoiceID      string
	ProviderSubscriptionID string
	Number                 string
	Currency               string
	AmountDue              decimal.Decimal
	AmountPaid             decimal.Decimal
	Status                 InvoiceStatus
	HostedInvoiceURL       string
	AttemptCount           int64
	PaidAt                 *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// BillingOverview is what an organization's billing page shows.
type BillingOverview struct {
	Subscription *Subscription
	Invoices     []Invoice
}
