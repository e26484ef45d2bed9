package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
)

// FileStore persists credentials as a single JSON file. Writes go through a
// temp file and rename so a crash never leaves a half-written credential.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultPath returns the conventional credentials location under the user's
// configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wanderlust", "credentials.json"), nil
}

// NewFileStore creates a file-backed store at the given path. The parent
// directory is created on first write, not here.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the stored credentials, or ErrNotFound when absent.
func (s *FileStore) Load(ctx context.Context) (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save stores token and user together, overwriting any previous pair.
func (s *FileStore) Save(ctx context.Context, creds *Credentials) error {
	if creds == nil || creds.Token == "" || creds.User == nil {
		return ErrIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(creds)
}

// SetUser replaces only the cached user, keeping the stored token.
func (s *FileStore) SetUser(ctx context.Context, user *api.User) error {
	if user == nil {
		return ErrIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return err
	}

	creds.User = user
	return s.write(creds)
}

// Token returns the stored bearer token, or ErrNotFound when absent.
func (s *FileStore) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil {
		return "", err
	}
	return creds.Token, nil
}

// Clear removes the credentials file. Clearing an empty store is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) load() (*Credentials, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, errors.Join(ErrCorrupted, err)
	}
	if creds.Token == "" || creds.User == nil {
		return nil, ErrCorrupted
	}

	return &creds, nil
}

func (s *FileStore) write(creds *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	raw, err := json.Marshal(creds)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}
