package gxsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes carried in ErrorResponse.Error.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeUnauthorized    = "unauthorized"
	CodeMFARequired     = "mfa_required"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodePaymentRequired = "payment_required"
	CodeTokenExpired    = "token_expired"
	CodeTokenUsed       = "token_used"
	CodeTokenInvalid    = "token_invalid"
	CodeRateLimited     = "rate_limit_exceeded"
	CodeServerError     = "server_error"
	CodeUnavailable     = "service_unavailable"
)

// APIError is a non-2xx API response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("gxsdk: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("gxsdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == code
}

func parseErrorResponse(resp *http.Response, body []byte) error {
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return &APIError{StatusCode: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
	}
	return &APIError{StatusCode: resp.StatusCode, Code: er.Error, Description: er.ErrorDescription}
}
