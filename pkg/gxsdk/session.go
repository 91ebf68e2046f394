package gxsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Session calls authenticated endpoints with a session token. Sessions do
// not refresh; log in again after ExpiresAt.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time
}

func (s *Session) Token() string        { return s.token }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

func (s *Session) do(ctx context.Context, method, path string, body, target any, expected int) error {
	return s.client.do(ctx, method, path, s.token, body, target, expected)
}

func (s *Session) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, http.StatusNoContent)
}

func (s *Session) Me(ctx context.Context) (MeResponse, error) {
	var out MeResponse
	err := s.do(ctx, http.MethodGet, "/v1/me", nil, &out, http.StatusOK)
	return out, err
}

// ============================================================================
// Organizations
// ============================================================================

func (s *Session) Organizations(ctx context.Context) ([]OrganizationMembership, error) {
	var out OrganizationsResponse
	err := s.do(ctx, http.MethodGet, "/v1/orgs", nil, &out, http.StatusOK)
	return out.Organizations, err
}

func (s *Session) Organization(ctx context.Context, orgID string) (OrganizationMembership, error) {
	var out OrganizationMembership
	err := s.do(ctx, http.MethodGet, "/v1/orgs/"+orgID, nil, &out, http.StatusOK)
	return out, err
}

func (s *Session) RenameOrganization(ctx context.Context, orgID, name string) (Organization, error) {
	var out Organization
	err := s.do(ctx, http.MethodPatch, "/v1/orgs/"+orgID, OrganizationRenameRequest{Name: name}, &out, http.StatusOK)
	return out, err
}

func (s *Session) Members(ctx context.Context, orgID string) ([]Member, error) {
	var out MembersResponse
	err := s.do(ctx, http.MethodGet, "/v1/orgs/"+orgID+"/members", nil, &out, http.StatusOK)
	return out.Members, err
}

func (s *Session) ChangeRole(ctx context.Context, orgID, userID, role string) (Member, error) {
	var out Member
	err := s.do(ctx, http.MethodPatch, "/v1/orgs/"+orgID+"/members/"+userID, RoleChangeRequest{Role: role}, &out, http.StatusOK)
	return out, err
}

func (s *Session) RemoveMember(ctx context.Context, orgID, userID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/orgs/"+orgID+"/members/"+userID, nil, nil, http.StatusNoContent)
}

// ============================================================================
// Invitations
// ============================================================================

func (s *Session) Invite(ctx context.Context, orgID string, req InvitationCreateRequest) (Invitation, error) {
	var out Invitation
	err := s.do(ctx, http.MethodPost, "/v1/orgs/"+orgID+"/invitations", req, &out, http.StatusCreated)
	return out, err
}

func (s *Session) Invitations(ctx context.Context, orgID string) ([]Invitation, error) {
	var out InvitationsResponse
	err := s.do(ctx, http.MethodGet, "/v1/orgs/"+orgID+"/invitations", nil, &out, http.StatusOK)
	return out.Invitations, err
}

func (s *Session) RevokeInvitation(ctx context.Context, orgID, invitationID string) error {
	return s.do(ctx, http.MethodDelete, "/v1/orgs/"+orgID+"/invitations/"+invitationID, nil, nil, http.StatusNoContent)
}

// AcceptInvitation accepts as the signed-in user.
func (s *Session) AcceptInvitation(ctx context.Context, token string) (InvitationAcceptResponse, error) {
	var out InvitationAcceptResponse
	err := s.do(ctx, http.MethodPost, "/v1/invitations/accept", InvitationAcceptRequest{Token: token}, &out, http.StatusOK)
	return out, err
}

// ============================================================================
// Billing and breach search
// ============================================================================

func (s *Session) Checkout(ctx context.Context, orgID string) (string, error) {
	var out CheckoutResponse
	err := s.do(ctx, http.MethodPost, "/v1/orgs/"+orgID+"/billing/checkout", nil, &out, http.StatusOK)
	return out.URL, err
}

func (s *Session) Billing(ctx context.Context, orgID string) (BillingResponse, error) {
	var out BillingResponse
	err := s.do(ctx, http.MethodGet, "/v1/orgs/"+orgID+"/billing", nil, &out, http.StatusOK)
	return out, err
}

func (s *Session) SearchBreaches(ctx context.Context, orgID string, queries ...string) ([]BreachSearch, error) {
	var out BreachSearchResponse
	err := s.do(ctx, http.MethodPost, "/v1/orgs/"+orgID+"/breaches/search", BreachSearchRequest{Queries: queries}, &out, http.StatusOK)
	return out.Results, err
}

func (s *Session) BreachHistory(ctx context.Context, orgID string, limit, offset int) (BreachHistoryResponse, error) {
	var out BreachHistoryResponse
	path := fmt.Sprintf("/v1/orgs/%s/breaches/history?limit=%d&offset=%d", orgID, limit, offset)
	err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out, err
}

func (s *Session) Dashboard(ctx context.Context, orgID string) (DashboardResponse, error) {
	var out DashboardResponse
	err := s.do(ctx, http.MethodGet, "/v1/orgs/"+orgID+"/dashboard", nil, &out, http.StatusOK)
	return out, err
}

// ============================================================================
// MFA
// ============================================================================

func (s *Session) EnrollTOTP(ctx context.Context) (MFAEnrollResponse, error) {
	var out MFAEnrollResponse
	err := s.do(ctx, http.MethodPost, "/v1/mfa/totp/enroll", nil, &out, http.StatusOK)
	return out, err
}

func (s *Session) VerifyTOTP(ctx context.Context, code string) ([]string, error) {
	var out BackupCodesResponse
	err := s.do(ctx, http.MethodPost, "/v1/mfa/totp/verify", MFACodeRequest{Code: code}, &out, http.StatusOK)
	return out.BackupCodes, err
}

func (s *Session) RegenerateBackupCodes(ctx context.Context, code string) ([]string, error) {
	var out BackupCodesResponse
	err := s.do(ctx, http.MethodPost, "/v1/mfa/backup-codes", MFACodeRequest{Code: code}, &out, http.StatusOK)
	return out.BackupCodes, err
}

func (s *Session) RemoveTOTP(ctx context.Context, code string) error {
	return s.do(ctx, http.MethodDelete, "/v1/mfa/totp", MFACodeRequest{Code: code}, nil, http.StatusNoContent)
}

// ============================================================================
// Platform admin
// ============================================================================

func (s *Session) ListWaitlist(ctx context.Context, status string) ([]WaitlistEntry, error) {
	var out WaitlistListResponse
	path := "/v1/admin/waitlist"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	err := s.do(ctx, http.MethodGet, path, nil, &out, http.StatusOK)
	return out.Entries, err
}

func (s *Session) ApproveWaitlist(ctx context.Context, entryID string) (WaitlistEntry, error) {
	return s.waitlistAction(ctx, entryID, "approve")
}

func (s *Session) RejectWaitlist(ctx context.Context, entryID string) (WaitlistEntry, error) {
	return s.waitlistAction(ctx, entryID, "reject")
}

func (s *Session) ResendOnboarding(ctx context.Context, entryID string) (WaitlistEntry, error) {
	return s.waitlistAction(ctx, entryID, "resend")
}

func (s *Session) waitlistAction(ctx context.Context, entryID, action string) (WaitlistEntry, error) {
	var out WaitlistEntry
	err := s.do(ctx, http.MethodPost, "/v1/admin/waitlist/"+entryID+"/"+action, nil, &out, http.StatusOK)
	return out, err
}
