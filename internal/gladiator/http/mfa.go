package http

import (
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
)

// MFAHandler handles all MFA-related endpoints.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll handles POST /v1/mfa/totp/enroll
//
//	@Summary		Enroll in TOTP MFA
//	@Description	Generates a TOTP secret for the signed-in user. MFA stays off until a code is verified.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	gxsdk.MFAEnrollResponse	"TOTP secret and otpauth URL"
//	@Failure		401	{object}	gxsdk.ErrorResponse		"Invalid or missing session"
//	@Failure		400	{object}	gxsdk.ErrorResponse	"MFA already enabled"
//	@Router			/v1/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())
	enrollment, err := h.MFAService.EnrollTOTP(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err, "enroll TOTP")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.MFAEnrollResponse{
		Secret:  enrollment.Secret,
		URL:     enrollment.URL,
		Issuer:  enrollment.Issuer,
		Account: enrollment.Account,
	})
}

// HandleVerify handles POST /v1/mfa/totp/verify
//
//	@Summary		Verify TOTP code and enable MFA
//	@Description	Verifies the first code after enrollment, enables MFA and returns single-use backup codes.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gxsdk.MFACodeRequest		true	"TOTP code"
//	@Success		200		{object}	gxsdk.BackupCodesResponse
//	@Failure		400		{object}	gxsdk.ErrorResponse	"invalid code, not enrolled or already enabled"
//	@Router			/v1/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	code, ok := decodeCode(w, r)
	if !ok {
		return
	}
	p, _ := httpx.PrincipalFrom(r.Context())
	codes, err := h.MFAService.VerifyTOTP(r.Context(), p.UserID, code)
	if err != nil {
		writeServiceError(w, r, err, "verify TOTP")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.BackupCodesResponse{BackupCodes: codes})
}

// HandleRegenerateBackupCodes handles POST /v1/mfa/backup-codes
//
//	@Summary		Regenerate backup codes
//	@Description	Replaces all backup codes. Requires a current TOTP code.
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gxsdk.MFACodeRequest		true	"TOTP code"
//	@Success		200		{object}	gxsdk.BackupCodesResponse
//	@Failure		400		{object}	gxsdk.ErrorResponse	"MFA not enabled"
//	@Router			/v1/mfa/backup-codes [post].
func (h *MFAHandler) HandleRegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	code, ok := decodeCode(w, r)
	if !ok {
		return
	}
	p, _ := httpx.PrincipalFrom(r.Context())
	codes, err := h.MFAService.RegenerateBackupCodes(r.Context(), p.UserID, code)
	if err != nil {
		writeServiceError(w, r, err, "regenerate backup codes")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, gxsdk.BackupCodesResponse{BackupCodes: codes})
}

// HandleRemove handles DELETE /v1/mfa/totp
//
//	@Summary		Disable MFA
//	@Tags			MFA
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	gxsdk.MFACodeRequest	true	"TOTP code"
//	@Success		204
//	@Failure		400	{object}	gxsdk.ErrorResponse	"MFA not enabled"
//	@Router			/v1/mfa/totp [delete].
func (h *MFAHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	code, ok := decodeCode(w, r)
	if !ok {
		return
	}
	p, _ := httpx.PrincipalFrom(r.Context())
	if err := h.MFAService.RemoveMFA(r.Context(), p.UserID, code); err != nil {
		writeServiceError(w, r, err, "remove MFA")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req gxsdk.MFACodeRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return "", false
	}
	if req.Code == "" {
		writeBadRequest(w, "code is required")
		return "", false
	}
	return req.Code, true
}
