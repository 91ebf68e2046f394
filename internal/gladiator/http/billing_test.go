package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

func eventPayload(t *testing.T, id, typ string, object map[string]any) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        typ,
		"api_version": "2025-08-27.basil",
		"created":     time.Now().Unix(),
		"data":        map[string]any{"object": object},
	})
	require.NoError(t, err)
	return payload
}

// postWebhook signs payload with secret and posts it.
func (s *testServer) postWebhook(t *testing.T, payload []byte, secret string) (int, gxsdk.WebhookReceivedResponse) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})

	req, err := http.NewRequest(http.MethodPost, s.URL+"/v1/billing/webhook", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signed.Header)

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out gxsdk.WebhookReceivedResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func invoiceObject(customer string) map[string]any {
	return map[string]any{
		"id":                 "in_http_1",
		"object":             "invoice",
		"customer":           customer,
		"subscription":       "sub_http_1",
		"number":             "GX-1001",
		"currency":           "usd",
		"amount_due":         4900,
		"amount_paid":        4900,
		"status":             "paid",
		"hosted_invoice_url": "https://pay.example/in_http_1",
		"status_transitions": map[string]any{"paid_at": time.Now().Unix()},
	}
}

func TestWebhookSignatureAndReplay(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	owner := s.seedUser(t, "owner@acme.test", "ownerpassword", domain.PlatformRoleUser)
	org := s.seedOrg(t, owner, "Acme")
	require.NoError(t, s.store.Organizations().SetBillingCustomer(ctx, org.ID, "cus_http", time.Now()))

	payload := eventPayload(t, "evt_http_paid", "invoice.paid", invoiceObject("cus_http"))

	status, _ := s.postWebhook(t, payload, "whsec_wrong")
	require.Equal(t, http.StatusBadRequest, status)

	status, res := s.postWebhook(t, payload, testWebhookSecret)
	require.Equal(t, http.StatusOK, status)
	require.True(t, res.Received)
	require.False(t, res.Replayed)

	status, res = s.postWebhook(t, payload, testWebhookSecret)
	require.Equal(t, http.StatusOK, status)
	require.True(t, res.Replayed)

	n, err := s.store.Invoices().CountInvoices(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 1, s.outbox.count("owner@acme.test"), "one receipt")

	sess := s.login(t, "owner@acme.test", "ownerpassword")
	overview, err := sess.Billing(ctx, org.ID)
	require.NoError(t, err)
	require.False(t, overview.Entitled)
	require.Len(t, overview.Invoices, 1)
	require.Equal(t, "paid", overview.Invoices[0].Status)
	require.True(t, decimal.RequireFromString("49").Equal(overview.Invoices[0].AmountPaid))
}

func TestWebhookUnknownCustomerAsksForRetry(t *testing.T) {
	s := newTestServer(t)

	payload := eventPayload(t, "evt_orphan", "invoice.paid", invoiceObject("cus_nobody"))
	status, _ := s.postWebhook(t, payload, testWebhookSecret)
	require.Equal(t, http.StatusInternalServerError, status)

	// Nothing was recorded, so the retry is processed again.
	seen, err := s.store.WebhookEvents().HasEvent(context.Background(), "evt_orphan")
	require.NoError(t, err)
	require.False(t, seen)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/v1/billing/webhook", "", map[string]any{"id": "evt_1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, string(body), "missing Stripe signature")
}

func TestSubscriptionGatesBreachSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	owner := s.seedUser(t, "owner@acme.test", "ownerpassword", domain.PlatformRoleUser)
	org := s.seedOrg(t, owner, "Acme")
	viewer := s.seedUser(t, "viewer@acme.test", "viewerpassword", domain.PlatformRoleUser)
	s.addMember(t, org, viewer, domain.OrgRoleViewer)

	s.provider.hits["owner@acme.test"] = []domain.Breach{
		{Name: "Adobe", Title: "Adobe", Domain: "adobe.com", PwnCount: 152445165, DataClasses: []string{"Email addresses", "Passwords"}},
		{Name: "LinkedIn", Title: "LinkedIn", Domain: "linkedin.com", PwnCount: 164611595},
	}

	sess := s.login(t, "owner@acme.test", "ownerpassword")
	_, err := sess.SearchBreaches(ctx, org.ID, "owner@acme.test")
	requireAPIError(t, err, http.StatusPaymentRequired, gxsdk.CodePaymentRequired)

	sub := eventPayload(t, "evt_sub", "customer.subscription.created", map[string]any{
		"id":                   "sub_gate",
		"object":               "subscription",
		"customer":             "cus_gate",
		"status":               "active",
		"cancel_at_period_end": false,
		"current_period_end":   time.Now().Add(30 * 24 * time.Hour).Unix(),
		"metadata":             map[string]any{"org_id": org.ID},
		"items": map[string]any{"data": []any{
			map[string]any{"price": map[string]any{"id": "price_pro"}},
		}},
	})
	status, _ := s.postWebhook(t, sub, testWebhookSecret)
	require.Equal(t, http.StatusOK, status)

	results, err := sess.SearchBreaches(ctx, org.ID, "Owner@Acme.test", "clean.example.com")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "owner@acme.test", results[0].Query)
	require.Equal(t, 2, results[0].BreachCount)
	require.Equal(t, 0, results[1].BreachCount)

	_, err = sess.SearchBreaches(ctx, org.ID, "not a query")
	requireAPIError(t, err, http.StatusBadRequest, gxsdk.CodeInvalidRequest)

	viewerSess := s.login(t, "viewer@acme.test", "viewerpassword")
	_, err = viewerSess.SearchBreaches(ctx, org.ID, "viewer@acme.test")
	requireAPIError(t, err, http.StatusForbidden, gxsdk.CodeForbidden)

	dash, err := viewerSess.Dashboard(ctx, org.ID)
	require.NoError(t, err)
	require.Equal(t, 2, dash.TotalSearches)
	require.Equal(t, 1, dash.ExposedQueries)
	require.Equal(t, 2, dash.TotalBreachHits)
	require.Equal(t, 2, dash.MemberCount)
	require.NotNil(t, dash.Subscription)
	require.Equal(t, "active", dash.Subscription.Status)

	history, err := viewerSess.BreachHistory(ctx, org.ID, 1, 0)
	require.NoError(t, err)
	require.Len(t, history.Searches, 1)
	require.Equal(t, 1, history.Limit)

	overview, err := sess.Billing(ctx, org.ID)
	require.NoError(t, err)
	require.True(t, overview.Entitled)
}

func TestCheckoutRequiresOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	owner := s.seedUser(t, "owner@acme.test", "ownerpassword", domain.PlatformRoleUser)
	org := s.seedOrg(t, owner, "Acme")
	admin := s.seedUser(t, "admin@acme.test", "adminpassword", domain.PlatformRoleUser)
	s.addMember(t, org, admin, domain.OrgRoleAdmin)

	adminSess := s.login(t, "admin@acme.test", "adminpassword")
	_, err := adminSess.Checkout(ctx, org.ID)
	requireAPIError(t, err, http.StatusForbidden, gxsdk.CodeForbidden)
}
