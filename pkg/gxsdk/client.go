package gxsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client calls the public API endpoints.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", "", nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) JoinWaitlist(ctx context.Context, req WaitlistJoinRequest) (WaitlistEntry, error) {
	var out WaitlistEntry
	err := c.do(ctx, http.MethodPost, "/v1/waitlist", "", req, &out, http.StatusCreated)
	return out, err
}

func (c *Client) VerifyOnboarding(ctx context.Context, token string) (TokenVerdictResponse, error) {
	var out TokenVerdictResponse
	err := c.do(ctx, http.MethodGet, "/v1/onboarding/verify?token="+url.QueryEscape(token), "", nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) CompleteOnboarding(ctx context.Context, req OnboardingCompleteRequest) (OnboardingCompleteResponse, error) {
	var out OnboardingCompleteResponse
	err := c.do(ctx, http.MethodPost, "/v1/onboarding/complete", "", req, &out, http.StatusCreated)
	return out, err
}

func (c *Client) VerifyInvitation(ctx context.Context, token string) (TokenVerdictResponse, error) {
	var out TokenVerdictResponse
	err := c.do(ctx, http.MethodGet, "/v1/invitations/verify?token="+url.QueryEscape(token), "", nil, &out, http.StatusOK)
	return out, err
}

// AcceptInvitation accepts without a session; a new account is created from
// req.Password when the invited email has none.
func (c *Client) AcceptInvitation(ctx context.Context, req InvitationAcceptRequest) (InvitationAcceptResponse, error) {
	var out InvitationAcceptResponse
	err := c.do(ctx, http.MethodPost, "/v1/invitations/accept", "", req, &out, http.StatusOK)
	return out, err
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/v1/password/forgot", "", PasswordForgotRequest{Email: email}, nil, http.StatusAccepted)
}

func (c *Client) VerifyPasswordReset(ctx context.Context, token string) (TokenVerdictResponse, error) {
	var out TokenVerdictResponse
	err := c.do(ctx, http.MethodGet, "/v1/password/reset/verify?token="+url.QueryEscape(token), "", nil, &out, http.StatusOK)
	return out, err
}

func (c *Client) ResetPassword(ctx context.Context, req PasswordResetRequest) error {
	return c.do(ctx, http.MethodPost, "/v1/password/reset", "", req, nil, http.StatusNoContent)
}

// Login creates a session. A 401 with CodeMFARequired asks for a TOTP or
// backup code.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return c.NewSession(out.Token, out.ExpiresAt), nil
}

// NewSession wraps an existing session token.
func (c *Client) NewSession(token string, expiresAt time.Time) *Session {
	return &Session{client: c, token: token, expiresAt: expiresAt}
}
