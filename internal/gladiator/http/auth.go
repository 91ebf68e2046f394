package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
)

type AuthHandler struct {
	AuthService *service.AuthService
	// SecureCookies sets the Secure attribute on the session cookie. Only
	// disable it for plain-HTTP local development.
	SecureCookies bool
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Authenticates with email and password, plus a TOTP or backup code when MFA is enabled.
//	@Description	The session token is set as an HttpOnly cookie and returned in the body for API clients.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gxsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	gxsdk.LoginResponse
//	@Failure		400		{object}	gxsdk.ErrorResponse
//	@Failure		401		{object}	gxsdk.ErrorResponse	"unauthorized or mfa_required"
//	@Failure		429		{object}	gxsdk.ErrorResponse
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	res, err := h.AuthService.Login(r.Context(), service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		TOTPCode:   req.TOTPCode,
		BackupCode: req.BackupCode,
		UserAgent:  r.UserAgent(),
		IP:         httpx.IPKeyExtractor(r),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTOTPCode) {
			httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "invalid second factor")
			return
		}
		writeServiceError(w, r, err, "login")
		return
	}

	http.SetCookie(w, h.sessionCookie(res.Token, res.ExpiresAt))
	httpx.WriteJSON(w, http.StatusOK, gxsdk.LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		User:      toUser(res.User),
	})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Revokes the current session and clears the session cookie.
//	@Tags			Auth
//	@Success		204
//	@Failure		401	{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	if err := h.AuthService.Logout(r.Context(), p.SessionID); err != nil {
		writeServiceError(w, r, err, "logout")
		return
	}
	http.SetCookie(w, h.sessionCookie("", time.Unix(0, 0)))
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe godoc
//
//	@Summary		Current user
//	@Description	Returns the signed-in user and their organization memberships.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	gxsdk.MeResponse
//	@Failure		401	{object}	gxsdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	profile, err := h.AuthService.Me(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err, "load profile")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.MeResponse{
		User:          toUser(profile.User),
		Organizations: toMemberships(profile.Organizations),
	})
}

func (h *AuthHandler) sessionCookie(token string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		c.MaxAge = -1
	}
	return c
}
