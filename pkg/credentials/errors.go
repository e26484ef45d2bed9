package credentials

import "errors"

var (
	// ErrNotFound indicates no credentials are stored
	ErrNotFound = errors.New("credentials.not_found")

	// ErrIncomplete indicates a write was attempted without both token and user
	ErrIncomplete = errors.New("credentials.incomplete")

	// ErrCorrupted indicates the stored credentials could not be decoded
	ErrCorrupted = errors.New("credentials.corrupted")
)
