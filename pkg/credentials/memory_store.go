package credentials

import (
	"context"
	"sync"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

// MemoryStore implements Store without touching the filesystem. It backs
// tests and short-lived tooling where persistence is unwanted.
type MemoryStore struct {
	mu    sync.RWMutex
	creds *Credentials
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored credentials, or ErrNotFound when absent.
func (s *MemoryStore) Load(ctx context.Context) (*Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.creds == nil {
		return nil, ErrNotFound
	}

	copied := *s.creds
	userCopy := *s.creds.User
	copied.User = &userCopy
	return &copied, nil
}

// Save stores token and user together, overwriting any previous pair.
func (s *MemoryStore) Save(ctx context.Context, creds *Credentials) error {
	if creds == nil || creds.Token == "" || creds.User == nil {
		return ErrIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *creds
	userCopy := *creds.User
	copied.User = &userCopy
	s.creds = &copied
	return nil
}

// SetUser replaces only the cached user, keeping the stored token.
func (s *MemoryStore) SetUser(ctx context.Context, user *api.User) error {
	if user == nil {
		return ErrIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.creds == nil {
		return ErrNotFound
	}

	userCopy := *user
	s.creds.User = &userCopy
	return nil
}

// Token returns the stored bearer token, or ErrNotFound when absent.
func (s *MemoryStore) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.creds == nil {
		return "", ErrNotFound
	}
	return s.creds.Token, nil
}

// Clear removes both values. Clearing an empty store is not an error.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	return nil
}
