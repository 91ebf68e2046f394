//go:build e2e

package gladiator_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

func postSigned(t *testing.T, baseURL string, payload []byte, secret string) (int, gxsdk.WebhookReceivedResponse) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, baseURL+"/v1/billing/webhook", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signed.Header)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out gxsdk.WebhookReceivedResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

// TestInvoiceWebhookIsIdempotent links a customer through a completed
// checkout and then delivers the same paid invoice twice.
func TestInvoiceWebhookIsIdempotent(t *testing.T) {
	c := setupContainer(t, false)
	ctx := t.Context()

	owner, org := c.onboardOwner(t, "billing@acme.test", "billingpassword", "Billing Co")

	event := func(id, typ string, object map[string]any) []byte {
		b, err := json.Marshal(map[string]any{
			"id":          id,
			"object":      "event",
			"type":        typ,
			"api_version": "2025-08-27.basil",
			"created":     time.Now().Unix(),
			"data":        map[string]any{"object": object},
		})
		require.NoError(t, err)
		return b
	}

	checkout := event("evt_e2e_checkout", "checkout.session.completed", map[string]any{
		"id":                  "cs_e2e",
		"object":              "checkout.session",
		"customer":            "cus_e2e",
		"client_reference_id": org.ID,
		"metadata":            map[string]any{"org_id": org.ID},
	})
	status, _ := postSigned(t, c.BaseURL, checkout, webhookSecret)
	require.Equal(t, http.StatusOK, status)

	invoice := event("evt_e2e_paid", "invoice.paid", map[string]any{
		"id":                 "in_e2e",
		"object":             "invoice",
		"customer":           "cus_e2e",
		"currency":           "usd",
		"amount_due":         4900,
		"amount_paid":        4900,
		"status":             "paid",
		"status_transitions": map[string]any{"paid_at": time.Now().Unix()},
	})

	status, _ = postSigned(t, c.BaseURL, invoice, "whsec_forged")
	require.Equal(t, http.StatusBadRequest, status)

	status, first := postSigned(t, c.BaseURL, invoice, webhookSecret)
	require.Equal(t, http.StatusOK, status)
	require.False(t, first.Replayed)

	status, second := postSigned(t, c.BaseURL, invoice, webhookSecret)
	require.Equal(t, http.StatusOK, status)
	require.True(t, second.Replayed)

	billing, err := owner.Billing(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, billing.Invoices, 1)
	require.Equal(t, "paid", billing.Invoices[0].Status)
	require.Equal(t, "49", billing.Invoices[0].AmountPaid.String())
}
