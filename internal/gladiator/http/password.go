package http

import (
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/gladiatorrx/platform/pkg/slogx"
)

type PasswordHandler struct {
	PasswordService *service.PasswordResetService
}

// HandleForgot godoc
//
//	@Summary		Request a password reset
//	@Description	Emails a one hour reset link when the address has an account. Always answers 202 so
//	@Description	registered addresses cannot be discovered.
//	@Tags			Password
//	@Accept			json
//	@Param			request	body	gxsdk.PasswordForgotRequest	true	"Account email"
//	@Success		202
//	@Failure		400	{object}	gxsdk.ErrorResponse
//	@Failure		429	{object}	gxsdk.ErrorResponse
//	@Router			/v1/password/forgot [post].
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.PasswordForgotRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.PasswordService.Forgot(r.Context(), req.Email); err != nil {
		slogx.FromContext(r.Context()).Error("password reset request failed", slogx.Err(err))
	}
	w.WriteHeader(http.StatusAccepted)
}

// HandleVerify godoc
//
//	@Summary		Verify a password reset token
//	@Description	Reports whether a reset link can still be used without consuming it.
//	@Tags			Password
//	@Produce		json
//	@Param			token	query		string	true	"Reset token from the email link"
//	@Success		200		{object}	gxsdk.TokenVerdictResponse
//	@Router			/v1/password/reset/verify [get].
func (h *PasswordHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	verdict, err := h.PasswordService.Verify(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, err, "verify reset token")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.TokenVerdictResponse{Verdict: string(verdict)})
}

// HandleReset godoc
//
//	@Summary		Reset a password
//	@Description	Consumes a reset token, sets the new password and ends every session of the account.
//	@Tags			Password
//	@Accept			json
//	@Param			request	body	gxsdk.PasswordResetRequest	true	"Token and new password"
//	@Success		204
//	@Failure		400	{object}	gxsdk.ErrorResponse	"invalid_request, token_expired, token_used, token_invalid"
//	@Failure		429	{object}	gxsdk.ErrorResponse
//	@Router			/v1/password/reset [post].
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.PasswordResetRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Token == "" || req.Password == "" {
		writeBadRequest(w, "token and password are required")
		return
	}

	if err := h.PasswordService.Reset(r.Context(), req.Token, req.Password); err != nil {
		writeServiceError(w, r, err, "reset password")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
