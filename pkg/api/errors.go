package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the service rejected the stored credential (HTTP 401).
	ErrUnauthorized = errors.New("api.unauthorized")

	// ErrRejected indicates the service reported success=false on an otherwise healthy response.
	ErrRejected = errors.New("api.request_rejected")

	// ErrResource indicates a non-2xx status such as 404 or 500.
	ErrResource = errors.New("api.resource_error")

	// ErrTransport indicates no usable response was received.
	ErrTransport = errors.New("api.transport_failure")

	// ErrInvalidBaseURL indicates the configured base URL could not be parsed.
	ErrInvalidBaseURL = errors.New("api.invalid_base_url")
)

// ErrorKind classifies a failed API call.
type ErrorKind string

const (
	// KindUnauthorized is an authorization failure; the global interceptor has already fired.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindRejected is a server-reported failure (success=false with a 2xx status).
	KindRejected ErrorKind = "rejected"
	// KindResource is a non-2xx status other than 401.
	KindResource ErrorKind = "resource"
	// KindTransport is a failure to obtain a response at all.
	KindTransport ErrorKind = "transport"
)

// Error is the uniform failure result of an API call. It satisfies errors.Is
// against the kind sentinels above, so callers can branch without inspecting
// the struct.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Kind)
	}
	return fmt.Sprintf("api: request failed (%s)", e.Kind)
}

func (e *Error) Unwrap() []error {
	sentinel := map[ErrorKind]error{
		KindUnauthorized: ErrUnauthorized,
		KindRejected:     ErrRejected,
		KindResource:     ErrResource,
		KindTransport:    ErrTransport,
	}[e.Kind]

	if e.cause != nil {
		return []error{sentinel, e.cause}
	}
	return []error{sentinel}
}

// ErrorMessage returns the server-provided message carried by an API error,
// or the fallback when the error carries none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
