package http

import (
	"errors"
	"net/http"

	"github.com/gladiatorrx/platform/internal/gladiator/service"
	"github.com/gladiatorrx/platform/pkg/httpx"
	"github.com/gladiatorrx/platform/pkg/slogx"
)

// writeServiceError maps service sentinels to the API error taxonomy.
// Anything unrecognised is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidTOTPCode):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest, err.Error())

	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeTokenExpired, "This link has expired")
	case errors.Is(err, service.ErrTokenUsed):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeTokenUsed, "This link has already been used")
	case errors.Is(err, service.ErrTokenNotFound):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeTokenInvalid, "This link is not valid")

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionInvalid):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrMFARequired):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeMFARequired, err.Error())

	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrInvitationMismatch):
		httpx.WriteError(w, http.StatusForbidden, httpx.CodeForbidden, err.Error())

	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrNotMember):
		httpx.WriteError(w, http.StatusNotFound, httpx.CodeNotFound, "Resource not found")

	case errors.Is(err, service.ErrInvitationConflict),
		errors.Is(err, service.ErrInvitationClosed),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrWaitlistConflict),
		errors.Is(err, service.ErrWaitlistState),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrLastOwner),
		errors.Is(err, service.ErrMFAAlreadyEnabled),
		errors.Is(err, service.ErrMFANotEnabled),
		errors.Is(err, service.ErrMFANotEnrolled):
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeConflict, err.Error())

	case errors.Is(err, service.ErrSubscriptionRequired):
		httpx.WriteError(w, http.StatusPaymentRequired, httpx.CodePaymentRequired, err.Error())

	case errors.Is(err, service.ErrDeliveryFailed):
		slogx.FromContext(r.Context()).Warn(action+" failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusServiceUnavailable, httpx.CodeUnavailable, "Email could not be delivered, please try again")
	case errors.Is(err, service.ErrBillingDisabled):
		httpx.WriteError(w, http.StatusServiceUnavailable, httpx.CodeUnavailable, err.Error())

	default:
		slogx.FromContext(r.Context()).Error(action+" failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeServerError, "Internal server error")
	}
}

// writeBadRequest reports a malformed body or a missing field.
func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest, desc)
}
