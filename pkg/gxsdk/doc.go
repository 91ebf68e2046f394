/*
Package gxsdk is a Go client for the GladiatorRX API.

The request and response types in this package are the wire format of the
API; the server encodes exactly these structs.

# Client vs Session

Client calls public endpoints and creates sessions:

	client := gxsdk.NewClient("https://api.gladiatorrx.example")

	entry, err := client.JoinWaitlist(ctx, gxsdk.WaitlistJoinRequest{Email: "me@corp.example"})

	session, err := client.Login(ctx, gxsdk.LoginRequest{Email: email, Password: password})

Session carries the session token and calls authenticated endpoints:

	me, err := session.Me(ctx)
	inv, err := session.Invite(ctx, orgID, gxsdk.InvitationCreateRequest{Email: "new@corp.example", Role: "MEMBER"})

# Errors

Non-2xx responses are returned as *APIError:

	var apiErr *gxsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == gxsdk.CodeTokenExpired {
		// ask for a new link
	}
*/
package gxsdk
