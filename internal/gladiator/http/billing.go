package http

import (
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
)

type BillingHandler struct {
	BillingService *service.BillingService
	AuthService    *service.AuthService
}

// HandleCheckout godoc
//
//	@Summary		Start a subscription checkout
//	@Description	Creates a Stripe Checkout session for the organization and returns its hosted payment URL.
//	@Tags			Billing
//	@Produce		json
//	@Param			orgID	path		string	true	"Organization ID"
//	@Success		200		{object}	gxsdk.CheckoutResponse
//	@Failure		403		{object}	gxsdk.ErrorResponse	"requires OWNER"
//	@Failure		503		{object}	gxsdk.ErrorResponse	"billing not configured"
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/billing/checkout [post].
func (h *BillingHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	m := membershipFrom(r.Context())

	profile, err := h.AuthService.Me(r.Context(), m.UserID)
	if err != nil {
		writeServiceError(w, r, err, "load profile")
		return
	}

	url, err := h.BillingService.Checkout(r.Context(), m.OrganizationID, profile.User.Email)
	if err != nil {
		writeServiceError(w, r, err, "create checkout session")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.CheckoutResponse{URL: url})
}

// HandleOverview godoc
//
//	@Summary		Billing overview
//	@Description	Current subscription, whether it entitles breach searches, and invoices newest first.
//	@Tags			Billing
//	@Produce		json
//	@Param			orgID	path		string	true	"Organization ID"
//	@Success		200		{object}	gxsdk.BillingResponse
//	@Failure		404		{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/billing [get].
func (h *BillingHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.BillingService.Overview(r.Context(), membershipFrom(r.Context()).OrganizationID)
	if err != nil {
		writeServiceError(w, r, err, "load billing overview")
		return
	}

	resp := gxsdk.BillingResponse{
		Entitled:     ov.Subscription != nil && ov.Subscription.Status.Entitled(),
		Subscription: toSubscription(ov.Subscription),
		Invoices:     make([]gxsdk.Invoice, 0, len(ov.Invoices)),
	}
	for _, inv := range ov.Invoices {
		resp.Invoices = append(resp.Invoices, toInvoice(inv))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
