package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/stretchr/testify/require"
)

func TestInviteAcceptOverHTTP(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	owner := s.seedUser(t, "owner@acme.test", "ownerpassword", domain.PlatformRoleUser)
	org := s.seedOrg(t, owner, "Acme")
	sess := s.login(t, "owner@acme.test", "ownerpassword")

	inv, err := sess.Invite(ctx, org.ID, gxsdk.InvitationCreateRequest{Email: "new@acme.test", Role: "member"})
	require.NoError(t, err)
	require.Equal(t, "PENDING", inv.Status)
	require.Equal(t, "MEMBER", inv.Role)

	_, err = sess.Invite(ctx, org.ID, gxsdk.InvitationCreateRequest{Email: "NEW@acme.test", Role: "viewer"})
	requireAPIError(t, err, http.StatusBadRequest, gxsdk.CodeConflict)

	token := s.outbox.lastToken(t, "new@acme.test")
	verdict, err := s.client.VerifyInvitation(ctx, token)
	require.NoError(t, err)
	require.Equal(t, gxsdk.VerdictValid, verdict.Verdict)
	require.Equal(t, "Acme", verdict.OrganizationName)
	require.Equal(t, "MEMBER", verdict.Role)

	res, err := s.client.AcceptInvitation(ctx, gxsdk.InvitationAcceptRequest{Token: token, Password: "longenough1"})
	require.NoError(t, err)
	require.True(t, res.UserCreated)
	require.Equal(t, org.ID, res.OrganizationID)

	verdict, err = s.client.VerifyInvitation(ctx, token)
	require.NoError(t, err)
	require.Equal(t, gxsdk.VerdictAlreadyUsed, verdict.Verdict)

	_, err = s.client.AcceptInvitation(ctx, gxsdk.InvitationAcceptRequest{Token: token, Password: "longenough1"})
	requireAPIError(t, err, http.StatusBadRequest, gxsdk.CodeTokenUsed)

	members, err := sess.Members(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	invs, err := sess.Invitations(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, invs, 1)
	require.Equal(t, "ACCEPTED", invs[0].Status)
}

func TestAcceptWithSessionOfAnotherEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	owner := s.seedUser(t, "owner@acme.test", "ownerpassword", domain.PlatformRoleUser)
	org := s.seedOrg(t, owner, "Acme")
	s.seedUser(t, "other@acme.test", "otherpassword", domain.PlatformRoleUser)

	ownerSess := s.login(t, "owner@acme.test", "ownerpassword")
	_, err := ownerSess.Invite(ctx, org.ID, gxsdk.InvitationCreateRequest{Email: "invitee@acme.test", Role: "VIEWER"})
	require.NoError(t, err)
	token := s.outbox.lastToken(t, "invitee@acme.test")

	other := s.login(t, "other@acme.test", "otherpassword")
	_, err = other.AcceptInvitation(ctx, token)
	requireAPIError(t, err, http.StatusForbidden, gxsdk.CodeForbidden)

	verdict, err := s.client.VerifyInvitation(ctx, token)
	require.NoError(t, err)
	require.Equal(t, gxsdk.VerdictValid, verdict.Verdict, "a rejected accept must not consume the token")
}

func TestRevokedInvitationVerifiesNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	owner := s.seedUser(t, "owner@acme.test", "ownerpassword", domain.PlatformRoleUser)
	org := s.seedOrg(t, owner, "Acme")
	sess := s.login(t, "owner@acme.test", "ownerpassword")

	inv, err := sess.Invite(ctx, org.ID, gxsdk.InvitationCreateRequest{Email: "gone@acme.test", Role: "MEMBER"})
	require.NoError(t, err)
	token := s.outbox.lastToken(t, "gone@acme.test")

	require.NoError(t, sess.RevokeInvitation(ctx, org.ID, inv.ID))

	verdict, err := s.client.VerifyInvitation(ctx, token)
	require.NoError(t, err)
	require.Equal(t, gxsdk.VerdictNotFound, verdict.Verdict)
	require.Empty(t, verdict.OrganizationName)

	err = sess.RevokeInvitation(ctx, org.ID, inv.ID)
	requireAPIError(t, err, http.StatusBadRequest, gxsdk.CodeConflict)

	err = sess.RevokeInvitation(ctx, org.ID, "01J0000000000000000000NONE")
	requireAPIError(t, err, http.StatusNotFound, gxsdk.CodeNotFound)
}
