package http

import (
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
)

type OrganizationsHandler struct {
	OrganizationService *service.OrganizationService
}

// HandleList godoc
//
//	@Summary		List my organizations
//	@Tags			Organizations
//	@Produce		json
//	@Success		200	{object}	gxsdk.OrganizationsResponse
//	@Failure		401	{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs [get].
func (h *OrganizationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	orgs, err := h.OrganizationService.ListForUser(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err, "list organizations")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.OrganizationsResponse{Organizations: toMemberships(orgs)})
}

// HandleGet godoc
//
//	@Summary		Get an organization
//	@Description	Returns the organization and the caller's role in it. Non-members get 404.
//	@Tags			Organizations
//	@Produce		json
//	@Param			orgID	path		string	true	"Organization ID"
//	@Success		200		{object}	gxsdk.OrganizationMembership
//	@Failure		404		{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID} [get].
func (h *OrganizationsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m := membershipFrom(r.Context())
	org, err := h.OrganizationService.Get(r.Context(), m.OrganizationID)
	if err != nil {
		writeServiceError(w, r, err, "get organization")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.OrganizationMembership{
		Organization: toOrganization(org),
		Role:         string(m.Role),
	})
}

// HandleRename godoc
//
//	@Summary		Rename an organization
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			orgID	path		string							true	"Organization ID"
//	@Param			request	body		gxsdk.OrganizationRenameRequest	true	"New name"
//	@Success		200		{object}	gxsdk.Organization
//	@Failure		400		{object}	gxsdk.ErrorResponse
//	@Failure		403		{object}	gxsdk.ErrorResponse	"requires ADMIN"
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID} [patch].
func (h *OrganizationsHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.OrganizationRenameRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	org, err := h.OrganizationService.Rename(r.Context(), membershipFrom(r.Context()).OrganizationID, req.Name)
	if err != nil {
		writeServiceError(w, r, err, "rename organization")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toOrganization(org))
}

// HandleMembers godoc
//
//	@Summary		List members
//	@Tags			Organizations
//	@Produce		json
//	@Param			orgID	path		string	true	"Organization ID"
//	@Success		200		{object}	gxsdk.MembersResponse
//	@Failure		404		{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/members [get].
func (h *OrganizationsHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.OrganizationService.Members(r.Context(), membershipFrom(r.Context()).OrganizationID)
	if err != nil {
		writeServiceError(w, r, err, "list members")
		return
	}

	resp := gxsdk.MembersResponse{Members: make([]gxsdk.Member, 0, len(members))}
	for _, m := range members {
		resp.Members = append(resp.Members, toMember(m))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleChangeRole godoc
//
//	@Summary		Change a member's role
//	@Description	Admins cannot grant OWNER or modify an owner. The last owner cannot be demoted.
//	@Tags			Organizations
//	@Accept			json
//	@Produce		json
//	@Param			orgID	path		string					true	"Organization ID"
//	@Param			userID	path		string					true	"Member user ID"
//	@Param			request	body		gxsdk.RoleChangeRequest	true	"New role"
//	@Success		200		{object}	gxsdk.Member
//	@Failure		400		{object}	gxsdk.ErrorResponse	"invalid role or last owner"
//	@Failure		403		{object}	gxsdk.ErrorResponse
//	@Failure		404		{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/members/{userID} [patch].
func (h *OrganizationsHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.RoleChangeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	actor := membershipFrom(r.Context())
	updated, err := h.OrganizationService.ChangeRole(r.Context(), actor, r.PathValue("userID"), req.Role)
	if err != nil {
		writeServiceError(w, r, err, "change role")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.describeMember(r, updated))
}

// HandleRemove godoc
//
//	@Summary		Remove a member
//	@Description	Any member may leave. Removing someone else requires ADMIN, and only owners remove owners.
//	@Tags			Organizations
//	@Param			orgID	path	string	true	"Organization ID"
//	@Param			userID	path	string	true	"Member user ID"
//	@Success		204
//	@Failure		403	{object}	gxsdk.ErrorResponse
//	@Failure		404	{object}	gxsdk.ErrorResponse
//	@Failure		400	{object}	gxsdk.ErrorResponse	"last owner"
//	@Security		BearerAuth
//	@Router			/v1/orgs/{orgID}/members/{userID} [delete].
func (h *OrganizationsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	actor := membershipFrom(r.Context())
	if err := h.OrganizationService.RemoveMember(r.Context(), actor, r.PathValue("userID")); err != nil {
		writeServiceError(w, r, err, "remove member")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// describeMember fills in the profile fields of an updated membership.
func (h *OrganizationsHandler) describeMember(r *http.Request, m domain.Membership) gxsdk.Member {
	out := gxsdk.Member{UserID: m.UserID, Role: string(m.Role), JoinedAt: m.CreatedAt}
	members, err := h.OrganizationService.Members(r.Context(), m.OrganizationID)
	if err != nil {
		return out
	}
	for _, mm := range members {
		if mm.UserID == m.UserID {
			return toMember(mm)
		}
	}
	return out
}
