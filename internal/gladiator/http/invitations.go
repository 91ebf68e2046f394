package http

import (
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
)

type InvitationsHandler struct {
	InvitationService *service.InvitationService
}

// HandleCreate godoc
//
//	@Summary		Invite a member
//	@Description	Emails a seven day invitation. Only owners may invite owners. One pending invitation per email.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			orgID	path		string							true	"Organization ID"
//	@Param			request	body		gxsdk.InvitationCreateRequest	true	"Invitee and role"
//	@Success		201		{object}	gxsdk.Invitation
//	@Failure		400		{object}	gxsdk.ErrorResponse	"invalid request, pending invitation exists or already a member"
//	@Failure		403		{object}	gxsdk.ErrorResponse
//	@Failure		503		{object}	gxsdk.ErrorResponse	"email delivery failed"
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.InvitationCreateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Email == "" || req.Role == "" {
		writeBadRequest(w, "email and role are required")
		return
	}

	m := membershipFrom(r.Context())
	inv, err := h.InvitationService.Issue(r.Context(), service.IssueInvitationInput{
		OrganizationID: m.OrganizationID,
		InviterID:      m.UserID,
		InviterRole:    m.Role,
		Email:          req.Email,
		Role:           req.Role,
	})
	if err != nil {
		writeServiceError(w, r, err, "issue invitation")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toInvitation(inv))
}

// HandleList godoc
//
//	@Summary		List invitations
//	@Tags			Invitations
//	@Produce		json
//	@Param			orgID	path		string	true	"Organization ID"
//	@Success		200		{object}	gxsdk.InvitationsResponse
//	@Failure		403		{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	invs, err := h.InvitationService.List(r.Context(), membershipFrom(r.Context()).OrganizationID)
	if err != nil {
		writeServiceError(w, r, err, "list invitations")
		return
	}

	resp := gxsdk.InvitationsResponse{Invitations: make([]gxsdk.Invitation, 0, len(invs))}
	for _, inv := range invs {
		resp.Invitations = append(resp.Invitations, toInvitation(inv))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleRevoke godoc
//
//	@Summary		Revoke an invitation
//	@Description	Withdraws a pending invitation; its link then verifies as NOT_FOUND.
//	@Tags			Invitations
//	@Param			orgID	path	string	true	"Organization ID"
//	@Param			id		path	string	true	"Invitation ID"
//	@Success		204
//	@Failure		400	{object}	gxsdk.ErrorResponse	"invitation no longer pending"
//	@Failure		404	{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/invitations/{id} [delete].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := h.InvitationService.Revoke(r.Context(), membershipFrom(r.Context()).OrganizationID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "revoke invitation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleVerify godoc
//
//	@Summary		Verify an invitation token
//	@Description	Reports whether an invitation link can still be used, with the organization and role it grants.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	query		string	true	"Invitation token from the email link"
//	@Success		200		{object}	gxsdk.TokenVerdictResponse
//	@Router			/v1/invitations/verify [get].
func (h *InvitationsHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	preview, err := h.InvitationService.Verify(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, err, "verify invitation")
		return
	}

	resp := gxsdk.TokenVerdictResponse{Verdict: string(preview.Verdict)}
	if preview.Verdict != domain.VerdictNotFound {
		expiresAt := preview.Invitation.ExpiresAt
		resp.Email = preview.Invitation.Email
		resp.Role = string(preview.Invitation.Role)
		resp.OrganizationName = preview.OrganizationName
		resp.ExpiresAt = &expiresAt
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAccept godoc
//
//	@Summary		Accept an invitation
//	@Description	Consumes the invitation. Signed-in callers join with their account, which must match the
//	@Description	invited email. Otherwise a password creates the account when the email has none.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gxsdk.InvitationAcceptRequest	true	"Token and, for new accounts, a password"
//	@Success		200		{object}	gxsdk.InvitationAcceptResponse
//	@Failure		400		{object}	gxsdk.ErrorResponse	"invalid_request, token_expired, token_used, token_invalid"
//	@Failure		403		{object}	gxsdk.ErrorResponse	"signed in as a different email"
//	@Router			/v1/invitations/accept [post].
func (h *InvitationsHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.InvitationAcceptRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	in := service.AcceptInvitationInput{Token: req.Token, Name: req.Name, Password: req.Password}
	if p, ok := httpx.PrincipalFrom(r.Context()); ok {
		in.SessionUserID = p.UserID
	}

	res, err := h.InvitationService.Accept(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err, "accept invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, gxsdk.InvitationAcceptResponse{
		OrganizationID: res.Invitation.OrganizationID,
		Role:           string(res.Invitation.Role),
		User:           toUser(res.User),
		UserCreated:    res.UserCreated,
	})
}
