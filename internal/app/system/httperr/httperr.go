// Package httperr defines the JSON error surface of the API.
//
// Every failed request produces a single envelope:
//
//	{"error": {"kind": "forbidden", "message": "You cannot moderate events."}}
//
// Kinds map one-to-one onto HTTP status codes. Authorization and validation
// failures are terminal for the request; "unavailable" is the only kind a
// client may reasonably retry (manually).
//
// Reads that fail authorization are reported as not_found, not forbidden,
// so callers cannot probe for the existence of resources they may not see.
package httperr

import (
	"encoding/json"
	"net/http"
)

// Error kinds surfaced to clients.
const (
	KindUnauthenticated = "unauthenticated" // 401: no or invalid credential
	KindForbidden       = "forbidden"       // 403: authenticated, lacking role/permission/ownership
	KindNotFound        = "not_found"       // 404: missing or outside the caller's visibility
	KindInvalidState    = "invalid_state"   // 409: e.g. approving a non-pending resource
	KindValidation      = "validation"      // 422: bad input, e.g. empty rejection reason
	KindUnavailable     = "unavailable"     // 503: store or dependency unreachable
)

// statusFor maps an error kind to its HTTP status code.
func statusFor(kind string) int {
	switch kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type envelope struct {
	Error body `json:"error"`
}

type body struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Write sends the error envelope for the given kind with a human-readable
// message.
func Write(w http.ResponseWriter, kind, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusFor(kind))
	_ = json.NewEncoder(w).Encode(envelope{Error: body{Kind: kind, Message: message}})
}

// Unauthenticated writes a 401 envelope.
func Unauthenticated(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Sign in to continue."
	}
	Write(w, KindUnauthenticated, message)
}

// Forbidden writes a 403 envelope.
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "You don't have permission to do that."
	}
	Write(w, KindForbidden, message)
}

// NotFound writes a 404 envelope. Used both for genuinely missing resources
// and for resources outside the caller's visibility.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found."
	}
	Write(w, KindNotFound, message)
}

// InvalidState writes a 409 envelope.
func InvalidState(w http.ResponseWriter, message string) {
	Write(w, KindInvalidState, message)
}

// Validation writes a 422 envelope.
func Validation(w http.ResponseWriter, message string) {
	Write(w, KindValidation, message)
}

// Unavailable writes a 503 envelope.
func Unavailable(w http.ResponseWriter, message string) {
	if message == "" {
		message = "The service is temporarily unavailable. Try again."
	}
	Write(w, KindUnavailable, message)
}
