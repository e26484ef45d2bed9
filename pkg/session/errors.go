package session

import "errors"

var (
	// ErrInitializing indicates a mutating operation arrived before startup reconciliation finished
	ErrInitializing = errors.New("session.initializing")

	// ErrAlreadyAuthenticated indicates login/register was attempted on an authenticated session
	ErrAlreadyAuthenticated = errors.New("session.already_authenticated")

	// ErrLoginFailed is the generic fallback when the service rejects a login without a message
	ErrLoginFailed = errors.New("session.login_failed")

	// ErrRegistrationFailed is the generic fallback when the service rejects a registration without a message
	ErrRegistrationFailed = errors.New("session.registration_failed")

	// ErrNotAuthenticated indicates an operation that needs an authenticated session
	ErrNotAuthenticated = errors.New("session.not_authenticated")
)
