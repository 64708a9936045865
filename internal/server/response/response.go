// Package response writes the JSON envelope used by every API endpoint:
// a data field on success and an error field on failure.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/agentstation/modelreg/pkg/errors"
)

// Response is the API envelope. Exactly one of Data and Error is set.
type Response struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
}

// Error is the failure half of the envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func write(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func fail(w http.ResponseWriter, status int, code, message, details string) {
	write(w, status, Response{Error: &Error{Code: code, Message: message, Details: details}})
}

// OK writes data with status 200.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Response{Data: data})
}

// BadRequest writes a 400.
func BadRequest(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusUnauthorized, "UNAUTHORIZED", message, details)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusNotFound, "NOT_FOUND", message, details)
}

// MethodNotAllowed writes a 405 naming the rejected method.
func MethodNotAllowed(w http.ResponseWriter, method string) {
	fail(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed",
		method+" is not supported on this route")
}

// Conflict writes a 409, used while a verification run is in progress.
func Conflict(w http.ResponseWriter, message, details string) {
	fail(w, http.StatusConflict, "CONFLICT", message, details)
}

// RateLimited writes a 429.
func RateLimited(w http.ResponseWriter, details string) {
	fail(w, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded", details)
}

// InternalError writes a 500. err is never sent to the client; callers log it.
func InternalError(w http.ResponseWriter, _ error) {
	fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", "")
}

// ServiceUnavailable writes a 503.
func ServiceUnavailable(w http.ResponseWriter, details string) {
	fail(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service unavailable", details)
}

// ErrorFromType picks the status for err from its type. Hub failures are
// reported as 502 unless the hub throttled us or rejected the request.
func ErrorFromType(w http.ResponseWriter, err error) {
	var apiErr *errors.APIError
	switch {
	case errors.IsNotFound(err):
		NotFound(w, err.Error(), "")
	case errors.IsValidationError(err):
		BadRequest(w, err.Error(), "")
	case errors.IsCanceled(err):
		ServiceUnavailable(w, "request canceled or timed out")
	case errors.IsRateLimited(err):
		RateLimited(w, err.Error())
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		BadRequest(w, apiErr.Error(), "")
	case errors.As(err, &apiErr):
		fail(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream service failed", apiErr.Service)
	default:
		InternalError(w, err)
	}
}
