package http

import (
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
)

type BreachHandler struct {
	BreachService *service.BreachService
}

// HandleSearch godoc
//
//	@Summary		Search breaches
//	@Description	Looks up to 20 emails or domains at once. Each query is stored with its results; a provider
//	@Description	failure for one query is reported on that query only.
//	@Tags			Breaches
//	@Accept			json
//	@Produce		json
//	@Param			orgID	path		string						true	"Organization ID"
//	@Param			request	body		gxsdk.BreachSearchRequest	true	"Queries"
//	@Success		200		{object}	gxsdk.BreachSearchResponse
//	@Failure		400		{object}	gxsdk.ErrorResponse
//	@Failure		402		{object}	gxsdk.ErrorResponse	"no active subscription"
//	@Failure		403		{object}	gxsdk.ErrorResponse	"requires MEMBER"
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/breaches/search [post].
func (h *BreachHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.BreachSearchRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	m := membershipFrom(r.Context())
	results, err := h.BreachService.Search(r.Context(), service.BreachSearchInput{
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Queries:        req.Queries,
	})
	if err != nil {
		writeServiceError(w, r, err, "breach search")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.BreachSearchResponse{Results: toBreachSearches(results)})
}

// HandleHistory godoc
//
//	@Summary		Search history
//	@Tags			Breaches
//	@Produce		json
//	@Param			orgID	path		string	true	"Organization ID"
//	@Param			limit	query		int		false	"page size (default 20, max 100)"
//	@Param			offset	query		int		false	"page offset"
//	@Success		200		{object}	gxsdk.BreachHistoryResponse
//	@Failure		400		{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/breaches/history [get].
func (h *BreachHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset, ok := parsePage(w, q.Get("limit"), q.Get("offset"))
	if !ok {
		return
	}

	searches, err := h.BreachService.History(r.Context(), membershipFrom(r.Context()).OrganizationID, limit, offset)
	if err != nil {
		writeServiceError(w, r, err, "breach history")
		return
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.BreachHistoryResponse{
		Searches: toBreachSearches(searches),
		Limit:    limit,
		Offset:   offset,
	})
}

// HandleDashboard godoc
//
//	@Summary		Dashboard summary
//	@Description	Search totals, distinct exposed queries, latest searches, subscription and team size.
//	@Tags			Breaches
//	@Produce		json
//	@Param			orgID	path		string	true	"Organization ID"
//	@Success		200		{object}	gxsdk.DashboardResponse
//	@Failure		404		{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/dashboard [get].
func (h *BreachHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sum, err := h.BreachService.Dashboard(r.Context(), membershipFrom(r.Context()).OrganizationID)
	if err != nil {
		writeServiceError(w, r, err, "dashboard")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.DashboardResponse{
		TotalSearches:      sum.TotalSearches,
		ExposedQueries:     sum.ExposedQueries,
		TotalBreachHits:    sum.TotalBreachHits,
		LastSearchAt:       sum.LastSearchAt,
		RecentSearches:     toBreachSearches(sum.RecentSearches),
		Subscription:       toSubscription(sum.Subscription),
		MemberCount:        sum.MemberCount,
		PendingInvitations: sum.PendingInvites,
	})
}
