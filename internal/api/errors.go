package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed remote call for presentation and recovery.
type Kind int

const (
	// KindNetworkOrServer covers transport failures, timeouts and 5xx.
	KindNetworkOrServer Kind = iota
	KindUnauthorized
	KindNotFound
	KindConflict
	KindValidation
)

// String returns the display name for a kind
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "network or server"
	}
}

// Error is a classified remote failure. Message carries the server-provided
// message from the response envelope when one was decodable.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
	}
	if e.Status != 0 {
		return fmt.Sprintf("api: %s (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("api: %s", e.Kind)
}

// KindOf extracts the failure kind from any error returned by this package.
// Non-api errors (including context cancellation) report NetworkOrServer.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetworkOrServer
}

// IsUnauthorized reports whether err is a classified 401
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsConflict reports whether err is a classified 409
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// IsValidation reports whether err is a classified 400/422
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsNotFound reports whether err is a classified 404
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// classify maps a non-2xx status to the error taxonomy.
func classify(status int, message string) *Error {
	kind := KindNetworkOrServer
	switch status {
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusConflict:
		kind = KindConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = KindValidation
	}
	return &Error{Kind: kind, Status: status, Message: message}
}
