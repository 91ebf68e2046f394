package http

import (
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/domain"
	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/gxsdk"
	"github.com/gladiatorrx/platform/pkg/httpx"
)

type OnboardingHandler struct {
	OnboardingService *service.OnboardingService
}

// HandleVerify godoc
//
//	@Summary		Verify an onboarding token
//	@Description	Reports whether an onboarding link can still be used without consuming it.
//	@Description	Unknown, rejected and superseded tokens all report NOT_FOUND.
//	@Tags			Onboarding
//	@Produce		json
//	@Param			token	query		string	true	"Onboarding token from the email link"
//	@Success		200		{object}	gxsdk.TokenVerdictResponse
//	@Router			/v1/onboarding/verify [get].
func (h *OnboardingHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	preview, err := h.OnboardingService.Verify(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, err, "verify onboarding token")
		return
	}

	resp := gxsdk.TokenVerdictResponse{Verdict: string(preview.Verdict)}
	if preview.Verdict != domain.VerdictNotFound {
		resp.Email = preview.Email
		resp.Name = preview.Name
		resp.Company = preview.Company
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleComplete godoc
//
//	@Summary		Complete onboarding
//	@Description	Consumes an onboarding token and creates the user, their organization and an OWNER membership.
//	@Tags			Onboarding
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gxsdk.OnboardingCompleteRequest	true	"Token, password and organization name"
//	@Success		201		{object}	gxsdk.OnboardingCompleteResponse
//	@Failure		400		{object}	gxsdk.ErrorResponse	"invalid_request, token_expired, token_used, token_invalid, email already registered"
//	@Router			/v1/onboarding/complete [post].
func (h *OnboardingHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var req gxsdk.OnboardingCompleteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Token == "" || req.Password == "" {
		writeBadRequest(w, "token and password are required")
		return
	}

	res, err := h.OnboardingService.Complete(r.Context(), service.CompleteOnboardingInput{
		Token:            req.Token,
		Name:             req.Name,
		Password:         req.Password,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		writeServiceError(w, r, err, "complete onboarding")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, gxsdk.OnboardingCompleteResponse{
		User:         toUser(res.User),
		Organization: toOrganization(res.Organization),
	})
}
