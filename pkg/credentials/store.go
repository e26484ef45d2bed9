package credentials

import (
	"context"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

// Credentials is the persisted unit: an opaque bearer token and the cached
// user profile it belongs to.
type Credentials struct {
	Token string    `json:"token"`
	User  *api.User `json:"user"`
}

// Store defines the interface for credential persistence.
type Store interface {
	// Load returns the stored credentials, or ErrNotFound when absent.
	Load(ctx context.Context) (*Credentials, error)

	// Save stores token and user together, overwriting any previous pair.
	Save(ctx context.Context, creds *Credentials) error

	// SetUser replaces only the cached user, keeping the stored token.
	// Returns ErrNotFound when no credentials are stored.
	SetUser(ctx context.Context, user *api.User) error

	// Token returns the stored bearer token, or ErrNotFound when absent.
	Token(ctx context.Context) (string, error)

	// Clear removes both values. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
