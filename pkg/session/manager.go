package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/credentials"
	"github.com/wanderlust-travel/wanderlust-go/pkg/validator"
)

// MinPasswordLength is enforced client-side before registration is sent.
const MinPasswordLength = 8

// AuthService is the slice of the API client the manager depends on.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*api.AuthPayload, error)
	Register(ctx context.Context, params api.RegisterParams) (*api.AuthPayload, error)
	Profile(ctx context.Context) (*api.User, error)
}

// Manager is the single source of truth for the current session. Construct
// one per application with New, then call Init once to run the startup
// reconciliation.
type Manager struct {
	mu    sync.RWMutex
	state State
	user  *api.User

	auth  AuthService
	creds credentials.Store
	log   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the logger used for lifecycle diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// New creates a manager in the Initializing state.
func New(auth AuthService, creds credentials.Store, opts ...Option) *Manager {
	m := &Manager{
		state: StateInitializing,
		auth:  auth,
		creds: creds,
		log:   slog.Default(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Init runs the startup reconciliation and returns the settled snapshot.
// When the store holds a token and cached user the manager first becomes
// Authenticated with the cached identity, so concurrent readers are not
// blocked, then confirms it against the service: a fresh profile replaces the
// cached one in memory and in the store, while any re-validation failure
// clears both and settles Anonymous.
//
// Init is a no-op after the first call; the Initializing state is exited
// exactly once.
func (m *Manager) Init(ctx context.Context) Snapshot {
	m.mu.Lock()
	if m.state != StateInitializing {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}

	stored, err := m.creds.Load(ctx)
	if err != nil {
		if !errors.Is(err, credentials.ErrNotFound) {
			// A corrupted or unreadable record cannot be trusted; drop it.
			m.log.WarnContext(ctx, "discarding unreadable stored credentials", slog.Any("error", err))
			_ = m.creds.Clear(ctx)
		}
		m.setStateLocked(StateAnonymous, nil)
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}

	cached := stored.User
	m.setStateLocked(StateAuthenticated, cached)
	m.mu.Unlock()

	m.log.DebugContext(ctx, "re-validating cached identity", slog.String("user_id", cached.ID))

	fresh, err := m.auth.Profile(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	// The session may have been logged out or invalidated while the
	// re-validation was in flight; in that case its result is stale.
	if m.state != StateAuthenticated || m.user == nil || m.user.ID != cached.ID {
		return m.snapshotLocked()
	}

	if err != nil {
		m.log.InfoContext(ctx, "cached identity rejected, falling back to anonymous", slog.Any("error", err))
		_ = m.creds.Clear(ctx)
		m.setStateLocked(StateAnonymous, nil)
		return m.snapshotLocked()
	}

	if err := m.creds.SetUser(ctx, fresh); err != nil {
		m.log.ErrorContext(ctx, "failed to persist refreshed profile", slog.Any("error", err))
	}
	m.setStateLocked(StateAuthenticated, fresh)
	return m.snapshotLocked()
}

// Login authenticates with the service and, on success, persists the
// returned credentials and transitions to Authenticated. On failure the
// session is left unchanged; the returned error wraps ErrLoginFailed and
// carries the server-provided message when there is one.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if err := validator.Apply(
		validator.Required("email", email),
		validator.Required("password", password),
	); err != nil {
		return err
	}

	if err := m.requireAnonymous(); err != nil {
		return err
	}

	payload, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return errors.Join(ErrLoginFailed, err)
	}

	if err := m.adopt(ctx, payload); err != nil {
		return errors.Join(ErrLoginFailed, err)
	}

	m.log.InfoContext(ctx, "logged in", slog.String("user_id", payload.User.ID))
	return nil
}

// Register creates an account and, on success, behaves exactly like a
// successful login. All field checks run before any network call; an
// operator registration without a signup code is rejected locally.
func (m *Manager) Register(ctx context.Context, params api.RegisterParams) error {
	if err := validator.Apply(
		validator.Required("email", params.Email),
		validator.Required("name", params.Name),
		validator.Required("password", params.Password),
		validator.MinLen("password", params.Password, MinPasswordLength),
		validator.InList("role", params.Role, []api.Role{api.RoleStandard, api.RoleOperator}),
		validator.RequiredIf("signupCode", params.SignupCode, params.Role == api.RoleOperator),
	); err != nil {
		return err
	}

	if err := m.requireAnonymous(); err != nil {
		return err
	}

	payload, err := m.auth.Register(ctx, params)
	if err != nil {
		return errors.Join(ErrRegistrationFailed, err)
	}

	if err := m.adopt(ctx, payload); err != nil {
		return errors.Join(ErrRegistrationFailed, err)
	}

	m.log.InfoContext(ctx, "registered", slog.String("user_id", payload.User.ID))
	return nil
}

// Logout clears the in-memory session and the persisted credentials and
// settles Anonymous. It never calls the remote service, always succeeds and
// is idempotent; a failure to remove the persisted record is logged, not
// surfaced.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.setStateLocked(StateAnonymous, nil)
	m.mu.Unlock()

	if err := m.creds.Clear(ctx); err != nil {
		m.log.ErrorContext(ctx, "failed to clear stored credentials on logout", slog.Any("error", err))
	}
}

// Invalidate drops the in-memory identity after the API client's 401
// interceptor has already cleared the persisted store. Wire it via
// api.WithOnUnauthorized.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateAuthenticated {
		m.log.Info("session invalidated by service")
		m.setStateLocked(StateAnonymous, nil)
	}
}

// AdoptUser replaces the cached identity with a fresh server-returned record
// after a profile mutation, writing it through to the credential store so the
// next startup reconciliation begins from the updated copy. The stored token
// is left untouched.
func (m *Manager) AdoptUser(ctx context.Context, user *api.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateAuthenticated {
		return ErrNotAuthenticated
	}

	if err := m.creds.SetUser(ctx, user); err != nil {
		return err
	}
	m.setStateLocked(StateAuthenticated, user)
	return nil
}

// Snapshot returns a point-in-time view of the session.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (m *Manager) CurrentUser() *api.User {
	return m.Snapshot().User
}

// Loading reports whether startup reconciliation has not yet settled.
func (m *Manager) Loading() bool {
	return m.State() == StateInitializing
}

// adopt persists the auth payload and transitions to Authenticated. The
// write-through happens first so a reader observing the new state also finds
// the persisted credentials in place.
func (m *Manager) adopt(ctx context.Context, payload *api.AuthPayload) error {
	user := payload.User
	if err := m.creds.Save(ctx, &credentials.Credentials{Token: payload.Token, User: &user}); err != nil {
		return err
	}

	m.mu.Lock()
	m.setStateLocked(StateAuthenticated, &user)
	m.mu.Unlock()
	return nil
}

func (m *Manager) requireAnonymous() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch m.state {
	case StateInitializing:
		return ErrInitializing
	case StateAuthenticated:
		return ErrAlreadyAuthenticated
	default:
		return nil
	}
}

// setStateLocked applies a transition; the caller holds the write lock.
// Illegal transitions indicate a bug in the manager itself.
func (m *Manager) setStateLocked(to State, user *api.User) {
	if !canTransition(m.state, to) {
		panic(fmt.Sprintf("session: illegal transition %s -> %s", m.state, to))
	}
	m.state = to
	m.user = user
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{State: m.state}
	if m.user != nil {
		userCopy := *m.user
		snap.User = &userCopy
	}
	return snap
}
