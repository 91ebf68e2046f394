package http

import (
	"net/http"
	"strconv"

	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
)

type WaitlistHandler struct {
	OnboardingService *service.OnboardingService
}

// HandleJoin godoc
//
//	@Summary		Join the waitlist
//	@Description	Records a signup request and sends an acknowledgement email. Each email may join once.
//	@Tags			Waitlist
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gxsdk.WaitlistJoinRequest	true	"Signup details"
//	@Success		201		{object}	gxsdk.WaitlistEntry
//	@Failure		400		{object}	gxsdk.ErrorResponse	"invalid request or already on the waitlist"
//	@Failure		429		{object}	gxsdk.ErrorResponse
//	@Router			/v1/waitlist [post].
func (h *WaitlistHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.WaitlistJoinRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Email == "" {
		writeBadRequest(w, "email is required")
		return
	}

	entry, err := h.OnboardingService.Join(r.Context(), service.JoinWaitlistInput{
		Email:   req.Email,
		Name:    req.Name,
		Company: req.Company,
		Reason:  req.Reason,
	})
	if err != nil {
		writeServiceError(w, r, err, "join waitlist")
		return
	}

	// Token fields stay private to admins.
	httpx.WriteJSON(w, http.StatusCreated, gxsdk.WaitlistEntry{
		ID:        entry.ID,
		Email:     entry.Email,
		Name:      entry.Name,
		Company:   entry.Company,
		Status:    string(entry.Status),
		CreatedAt: entry.CreatedAt,
	})
}

// HandleList godoc
//
//	@Summary		List waitlist entries
//	@Description	Platform admins list signup requests, optionally filtered by status.
//	@Tags			Admin
//	@Produce		json
//	@Param			status	query		string	false	"PENDING, APPROVED or REJECTED"
//	@Param			limit	query		int		false	"page size (default 50)"
//	@Param			offset	query		int		false	"page offset"
//	@Success		200		{object}	gxsdk.WaitlistListResponse
//	@Failure		400		{object}	gxsdk.ErrorResponse
//	@Failure		401		{object}	gxsdk.ErrorResponse
//	@Failure		403		{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/admin/waitlist [get].
func (h *WaitlistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset, ok := parsePage(w, q.Get("limit"), q.Get("offset"))
	if !ok {
		return
	}

	entries, err := h.OnboardingService.List(r.Context(), q.Get("status"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, "list waitlist")
		return
	}

	resp := gxsdk.WaitlistListResponse{Entries: make([]gxsdk.WaitlistEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toWaitlistEntry(e))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleApprove godoc
//
//	@Summary		Approve a waitlist entry
//	@Description	Issues a 24 hour onboarding token and emails it. If the email cannot be delivered the entry stays PENDING.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Waitlist entry ID"
//	@Success		200	{object}	gxsdk.WaitlistEntry
//	@Failure		404	{object}	gxsdk.ErrorResponse
//	@Failure		400	{object}	gxsdk.ErrorResponse	"entry already reviewed"
//	@Failure		503	{object}	gxsdk.ErrorResponse	"email delivery failed"
//	@Security		BearerAuth
//	@Router			/v1/admin/waitlist/{id}/approve [post].
func (h *WaitlistHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	entry, err := h.OnboardingService.Approve(r.Context(), p.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "approve waitlist entry")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toWaitlistEntry(entry))
}

// HandleReject godoc
//
//	@Summary		Reject a waitlist entry
//	@Description	Rejects the entry and withdraws any outstanding onboarding token.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Waitlist entry ID"
//	@Success		200	{object}	gxsdk.WaitlistEntry
//	@Failure		404	{object}	gxsdk.ErrorResponse
//	@Failure		400	{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/admin/waitlist/{id}/reject [post].
func (h *WaitlistHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	entry, err := h.OnboardingService.Reject(r.Context(), p.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "reject waitlist entry")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toWaitlistEntry(entry))
}

// HandleResend godoc
//
//	@Summary		Resend an onboarding email
//	@Description	Issues a fresh onboarding token for an approved entry. The previous token stops working.
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Waitlist entry ID"
//	@Success		200	{object}	gxsdk.WaitlistEntry
//	@Failure		404	{object}	gxsdk.ErrorResponse
//	@Failure		400	{object}	gxsdk.ErrorResponse	"entry not approved or already onboarded"
//	@Failure		503	{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/admin/waitlist/{id}/resend [post].
func (h *WaitlistHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	entry, err := h.OnboardingService.Resend(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "resend onboarding")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toWaitlistEntry(entry))
}

// parsePage reads optional limit/offset query values. Bounds are applied by
// the services.
func parsePage(w http.ResponseWriter, rawLimit, rawOffset string) (limit, offset int, ok bool) {
	var err error
	if rawLimit != "" {
		if limit, err = strconv.Atoi(rawLimit); err != nil || limit < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return 0, 0, false
		}
	}
	if rawOffset != "" {
		if offset, err = strconv.Atoi(rawOffset); err != nil || offset < 0 {
			writeBadRequest(w, "offset must be a non-negative integer")
			return 0, 0, false
		}
	}
	return limit, offset, true
}
