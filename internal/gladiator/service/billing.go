package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/store"
	"github.com/gladiatorrx/platform/pkg/idx"
	"github.com/gladiatorrx/platform/pkg/slogx"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	stripesession "github.com/stripe/stripe-go/v82/checkout/session"
)

var (
	ErrBillingDisabled  = errors.New("billing is not configured")
	ErrUnknownCustomer  = errors.New("no organization is linked to this billing customer")
	ErrMalformedEvent   = errors.New("malformed webhook event payload")
	errEventAlreadySeen = errors.New("webhook event already processed")
)

// CheckoutSessionCreator creates a hosted checkout session.
type CheckoutSessionCreator func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)

type BillingService struct {
	Store    store.Store
	Notifier Notifier
	Clock    Clock

	PriceID    string
	SuccessURL string
	CancelURL  string

	// CreateCheckoutSession defaults to the Stripe API.
	CreateCheckoutSession CheckoutSessionCreator
}

// WebhookResult describes what HandleEvent did.
type WebhookResult struct {
	Replayed bool
	Ignored  bool
}

func (s *BillingService) Enabled() bool {
	return strings.TrimSpace(s.PriceID) != ""
}

// Checkout starts a subscription checkout for orgID and returns the hosted
// payment page URL.
func (s *BillingService) Checkout(ctx context.Context, orgID, customerEmail string) (string, error) {
	log := slogx.FromContext(ctx)
	if !s.Enabled() {
		return "", ErrBillingDisabled
	}

	org, err := s.Store.Organizations().GetOrganization(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(s.SuccessURL),
		CancelURL:         stripe.String(s.CancelURL),
		ClientReferenceID: stripe.String(org.ID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(strings.TrimSpace(s.PriceID)),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"org_id": org.ID},
		},
		Metadata: map[string]string{"org_id": org.ID},
	}
	if org.BillingCustomerID != "" {
		params.Customer = stripe.String(org.BillingCustomerID)
	} else if customerEmail != "" {
		params.CustomerEmail = stripe.String(customerEmail)
	}

	create := s.CreateCheckoutSession
	if create == nil {
		create = stripesession.New
	}
	sess, err := create(params)
	if err != nil || sess == nil || strings.TrimSpace(sess.URL) == "" {
		log.Error("checkout session creation failed", slog.String("org_id", org.ID), slogx.Err(err))
		if err == nil {
			err = errors.New("checkout session has no URL")
		}
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	log.Info("checkout session created", slog.String("org_id", org.ID), slog.String("session_id", sess.ID))
	return sess.URL, nil
}

func (s *BillingService) Overview(ctx context.Context, orgID string) (domain.BillingOverview, error) {
	var out domain.BillingOverview
	sub, err := s.Store.Subscriptions().GetCurrentSubscription(ctx, orgID)
	switch {
	case err == nil:
		out.Subscription = &sub
	case !errors.Is(err, store.ErrNotFound):
		return domain.BillingOverview{}, err
	}
	out.Invoices, err = s.Store.Invoices().ListInvoices(ctx, orgID, 24)
	if err != nil {
		return domain.BillingOverview{}, err
	}
	return out, nil
}

// Entitled reports whether orgID has an active or trialing subscription.
func (s *BillingService) Entitled(ctx context.Context, orgID string) (bool, error) {
	return entitled(ctx, s.Store, orgID)
}

func entitled(ctx context.Context, st store.Store, orgID string) (bool, error) {
	sub, err := st.Subscriptions().GetCurrentSubscription(ctx, orgID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return sub.Status.Entitled(), nil
}

type receipt struct {
	orgID   string
	invoice domain.Invoice
}

// HandleEvent applies a verified provider event. Processing and recording
// the event ID share one transaction, so a replay of a processed event is a
// no-op and a failed event can be retried.
func (s *BillingService) HandleEvent(ctx context.Context, event stripe.Event) (WebhookResult, error) {
	log := slogx.FromContext(ctx).With(
		slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)),
	)
	now := s.Clock.Now()

	var (
		result   WebhookResult
		receipts []receipt
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		seen, err := tx.WebhookEvents().HasEvent(ctx, event.ID)
		if err != nil {
			return err
		}
		if seen {
			return errEventAlreadySeen
		}

		if event.Data == nil {
			return ErrMalformedEvent
		}

		switch event.Type {
		case "checkout.session.completed":
			result.Ignored, err = s.applyCheckout(ctx, tx, event.Data.Raw, now)
		case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
			err = s.applySubscription(ctx, tx, string(event.Type), event.Data.Raw, now)
		case "invoice.created", "invoice.finalized", "invoice.paid", "invoice.payment_failed", "invoice.voided":
			var r *receipt
			r, err = s.applyInvoice(ctx, tx, string(event.Type), event.Data.Raw, now)
			if r != nil {
				receipts = append(receipts, *r)
			}
		default:
			result.Ignored = true
		}
		if err != nil {
			return err
		}

		if err := tx.WebhookEvents().RecordEvent(ctx, event.ID, string(event.Type), now); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return errEventAlreadySeen
			}
			return err
		}
		return nil
	})
	if errors.Is(err, errEventAlreadySeen) {
		log.Info("webhook event replay ignored")
		return WebhookResult{Replayed: true}, nil
	}
	if err != nil {
		log.Error("webhook event processing failed", slogx.Err(err))
		return WebhookResult{}, err
	}

	for _, r := range receipts {
		s.sendReceipt(ctx, r)
	}

	if result.Ignored {
		log.Info("webhook event ignored")
	} else {
		log.Info("webhook event processed")
	}
	return result, nil
}

type checkoutPayload struct {
	ID                string            `json:"id"`
	Customer          string            `json:"customer"`
	Subscription      string            `json:"subscription"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
}

func (s *BillingService) applyCheckout(ctx context.Context, tx store.Tx, raw json.RawMessage, now time.Time) (bool, error) {
	var p checkoutPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return false, fmt.Errorf("%w: checkout.session: %v", ErrMalformedEvent, err)
	}
	orgID := strings.TrimSpace(p.Metadata["org_id"])
	if orgID == "" {
		orgID = strings.TrimSpace(p.ClientReferenceID)
	}
	if orgID == "" || p.Customer == "" {
		return true, nil
	}

	err := tx.Organizations().SetBillingCustomer(ctx, orgID, p.Customer, now)
	if errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Warn("checkout completed for unknown organization", slog.String("org_id", orgID))
		return true, nil
	}
	return false, err
}

type subscriptionPayload struct {
	ID                string            `json:"id"`
	Customer          string            `json:"customer"`
	Status            string            `json:"status"`
	CancelAtPeriodEnd bool              `json:"cancel_at_period_end"`
	CurrentPeriodEnd  int64             `json:"current_period_end"`
	Created           int64             `json:"created"`
	Metadata          map[string]string `json:"metadata"`
	Items             struct {
		Data []struct {
			CurrentPeriodEnd int64 `json:"current_period_end"`
			Price            struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

func (s *BillingService) applySubscription(ctx context.Context, tx store.Tx, eventType string, raw json.RawMessage, now time.Time) error {
	var p subscriptionPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return fmt.Errorf("%w: subscription: %v", ErrMalformedEvent, err)
	}

	orgID, err := resolveOrganization(ctx, tx, p.Metadata["org_id"], p.Customer)
	if err != nil {
		return err
	}

	sub := domain.Subscription{
		ID:                     idx.NewAt(now).String(),
		OrganizationID:         orgID,
		ProviderSubscriptionID: p.ID,
		ProviderCustomerID:     p.Customer,
		Status:                 domain.SubscriptionStatus(p.Status),
		CancelAtPeriodEnd:      p.CancelAtPeriodEnd,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if eventType == "customer.subscription.deleted" {
		sub.Status = domain.SubscriptionCanceled
	}
	periodEnd := p.CurrentPeriodEnd
	for _, item := range p.Items.Data {
		if sub.PriceID == "" {
			sub.PriceID = item.Price.ID
		}
		if periodEnd == 0 {
			periodEnd = item.CurrentPeriodEnd
		}
	}
	if periodEnd > 0 {
		t := time.Unix(periodEnd, 0).UTC()
		sub.CurrentPeriodEnd = &t
	}
	if prior, err := tx.Subscriptions().GetSubscriptionByProviderID(ctx, p.ID); err == nil {
		sub.ID = prior.ID
		sub.CreatedAt = prior.CreatedAt
	}

	return tx.Subscriptions().UpsertSubscription(ctx, sub)
}

type invoicePayload struct {
	ID               string `json:"id"`
	Customer         string `json:"customer"`
	Subscription     string `json:"subscription"`
	Number           string `json:"number"`
	Currency         string `json:"currency"`
	AmountDue        int64  `json:"amount_due"`
	AmountPaid       int64  `json:"amount_paid"`
	Status           string `json:"status"`
	HostedInvoiceURL string `json:"hosted_invoice_url"`
	AttemptCount     int64  `json:"attempt_count"`
	Created          int64  `json:"created"`
	Parent           struct {
		SubscriptionDetails struct {
			Subscription string `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
	StatusTransitions struct {
		PaidAt int64 `json:"paid_at"`
	} `json:"status_transitions"`
	Metadata map[string]string `json:"metadata"`
}

// applyInvoice upserts the invoice and returns a receipt to send when this
// event moves the invoice into paid. An unknown customer is an error so the
// provider retries once checkout has linked the customer.
func (s *BillingService) applyInvoice(ctx context.Context, tx store.Tx, eventType string, raw json.RawMessage, now time.Time) (*receipt, error) {
	var p invoicePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return nil, fmt.Errorf("%w: invoice: %v", ErrMalformedEvent, err)
	}

	orgID, err := resolveOrganization(ctx, tx, p.Metadata["org_id"], p.Customer)
	if err != nil {
		return nil, err
	}

	inv := domain.Invoice{
		ID:                     idx.NewAt(now).String(),
		OrganizationID:         orgID,
		ProviderInvoiceID:      p.ID,
		ProviderSubscriptionID: p.Subscription,
		Number:                 p.Number,
		Currency:               strings.ToLower(p.Currency),
		AmountDue:              MinorToMajor(p.AmountDue, p.Currency),
		AmountPaid:             MinorToMajor(p.AmountPaid, p.Currency),
		Status:                 domain.InvoiceStatus(p.Status),
		HostedInvoiceURL:       p.HostedInvoiceURL,
		AttemptCount:           p.AttemptCount,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if inv.ProviderSubscriptionID == "" {
		inv.ProviderSubscriptionID = p.Parent.SubscriptionDetails.Subscription
	}
	if p.Created > 0 {
		inv.CreatedAt = time.Unix(p.Created, 0).UTC()
	}
	switch eventType {
	case "invoice.paid":
		inv.Status = domain.InvoicePaid
	case "invoice.voided":
		inv.Status = domain.InvoiceVoid
	}
	if inv.Status == "" {
		inv.Status = domain.InvoiceDraft
	}
	if inv.Status == domain.InvoicePaid {
		paidAt := now
		if p.StatusTransitions.PaidAt > 0 {
			paidAt = time.Unix(p.StatusTransitions.PaidAt, 0).UTC()
		}
		inv.PaidAt = &paidAt
	}

	wasPaid := false
	prior, err := tx.Invoices().GetInvoiceByProviderID(ctx, p.ID)
	switch {
	case err == nil:
		inv.ID = prior.ID
		inv.CreatedAt = prior.CreatedAt
		wasPaid = prior.Status == domain.InvoicePaid
		if wasPaid && inv.Status != domain.InvoiceVoid {
			// a late invoice.finalized must not regress a paid invoice
			inv.Status = domain.InvoicePaid
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	if err := tx.Invoices().UpsertInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("upsert invoice: %w", err)
	}

	if !wasPaid && inv.Status == domain.InvoicePaid {
		return &receipt{orgID: orgID, invoice: inv}, nil
	}
	return nil, nil
}

func resolveOrganization(ctx context.Context, tx store.Tx, metadataOrgID, customerID string) (string, error) {
	if id := strings.TrimSpace(metadataOrgID); id != "" {
		org, err := tx.Organizations().GetOrganization(ctx, id)
		if err == nil {
			return org.ID, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", err
		}
	}
	if customerID == "" {
		return "", ErrUnknownCustomer
	}
	org, err := tx.Organizations().GetOrganizationByBillingCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUnknownCustomer, customerID)
		}
		return "", err
	}
	return org.ID, nil
}

// sendReceipt emails every owner. Delivery problems are logged only; the
// event is already committed.
func (s *BillingService) sendReceipt(ctx context.Context, r receipt) {
	log := slogx.FromContext(ctx)

	org, err := s.Store.Organizations().GetOrganization(ctx, r.orgID)
	if err != nil {
		log.Warn("receipt skipped: organization lookup failed", slogx.Err(err))
		return
	}
	members, err := s.Store.Memberships().ListMembers(ctx, r.orgID)
	if err != nil {
		log.Warn("receipt skipped: member lookup failed", slogx.Err(err))
		return
	}
	for _, m := range members {
		if m.Role != domain.OrgRoleOwner {
			continue
		}
		err := s.Notifier.SendPaymentReceipt(ctx, m.Email, org.Name, r.invoice.AmountPaid,
			r.invoice.Currency, r.invoice.Number, r.invoice.HostedInvoiceURL)
		if err != nil {
			log.Warn("payment receipt not delivered", slog.String("user_id", m.UserID), slogx.Err(err))
		}
	}
}

// zeroDecimalCurrencies are charged in whole units by the provider.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true, "krw": true,
	"mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true, "vuv": true, "xaf": true,
	"xof": true, "xpf": true,
}

// MinorToMajor converts a provider amount in minor units into major units.
func MinorToMajor(amount int64, currency string) decimal.Decimal {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return decimal.NewFromInt(amount)
	}
	return decimal.New(amount, -2)
}
