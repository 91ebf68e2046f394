package http

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/metrics"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/gladiatorrx/platform/pkg/slogx"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookBodyLimit = 1024 * 1024 // 1 MiB

// WebhookHandler verifies and dispatches Stripe webhook events.
type WebhookHandler struct {
	BillingService *service.BillingService
	Secret         string
}

// ServeHTTP godoc
//
//	@Summary		Stripe webhook
//	@Description	Receives Stripe events signed with the Stripe-Signature header. Subscription and invoice
//	@Description	events are upserted idempotently; replays of processed events are acknowledged without effect.
//	@Description	Failed events answer 500 so Stripe retries them.
//	@Tags			Billing
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string	true	"Stripe signature"
//	@Success		200					{object}	gxsdk.WebhookReceivedResponse
//	@Failure		400					{object}	gxsdk.ErrorResponse	"unreadable body or invalid signature"
//	@Failure		500					{object}	gxsdk.ErrorResponse	"processing failed"
//	@Failure		503					{object}	gxsdk.ErrorResponse	"webhook secret not configured"
//	@Router			/v1/billing/webhook [post].
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	eventType := "unknown"
	status := http.StatusOK
	defer func() {
		metrics.WebhookRequestsTotal.WithLabelValues(eventType, strconv.Itoa(status)).Inc()
		metrics.WebhookDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
	}()

	log := slogx.FromContext(r.Context())

	if strings.TrimSpace(h.Secret) == "" {
		status = http.StatusServiceUnavailable
		httpx.WriteError(w, status, httpx.CodeUnavailable, "webhook secret not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		status = http.StatusBadRequest
		httpx.WriteError(w, status, httpx.CodeInvalidRequest, "failed to read request body")
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		status = http.StatusBadRequest
		httpx.WriteError(w, status, httpx.CodeInvalidRequest, "missing Stripe signature")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, h.Secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		log.Warn("stripe webhook rejected", slogx.Err(err))
		status = http.StatusBadRequest
		httpx.WriteError(w, status, httpx.CodeInvalidRequest, "invalid Stripe signature")
		return
	}
	eventType = string(event.Type)

	res, err := h.BillingService.HandleEvent(r.Context(), event)
	if err != nil {
		log.Error("stripe webhook processing failed",
			slog.String("event_id", event.ID),
			slog.String("type", eventType),
			slogx.Err(err),
		)
		status = http.StatusInternalServerError
		httpx.WriteError(w, status, httpx.CodeServerError, "processing failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gxsdk.WebhookReceivedResponse{Received: true, Replayed: res.Replayed})
}
