package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/credentials"
	"github.com/wanderlust-travel/wanderlust-go/pkg/session"
	"github.com/wanderlust-travel/wanderlust-go/pkg/validator"
)

// stubAuth is a controllable AuthService double that counts calls, so tests
// can assert that client-side rejections never reach the network.
type stubAuth struct {
	loginFn    func(ctx context.Context, email, password string) (*api.AuthPayload, error)
	registerFn func(ctx context.Context, params api.RegisterParams) (*api.AuthPayload, error)
	profileFn  func(ctx context.Context) (*api.User, error)

	loginCalls    atomic.Int32
	registerCalls atomic.Int32
	profileCalls  atomic.Int32
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*api.AuthPayload, error) {
	s.loginCalls.Add(1)
	if s.loginFn == nil {
		return nil, errors.New("unexpected login call")
	}
	return s.loginFn(ctx, email, password)
}

func (s *stubAuth) Register(ctx context.Context, params api.RegisterParams) (*api.AuthPayload, error) {
	s.registerCalls.Add(1)
	if s.registerFn == nil {
		return nil, errors.New("unexpected register call")
	}
	return s.registerFn(ctx, params)
}

func (s *stubAuth) Profile(ctx context.Context) (*api.User, error) {
	s.profileCalls.Add(1)
	if s.profileFn == nil {
		return nil, errors.New("unexpected profile call")
	}
	return s.profileFn(ctx)
}

func cachedUser() *api.User {
	return &api.User{ID: "u1", Email: "a@b.com", Name: "Cached Alice", Role: api.RoleStandard}
}

func payloadFor(user *api.User, token string) *api.AuthPayload {
	return &api.AuthPayload{User: *user, Token: token}
}

func TestInit_NoStoredCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := &stubAuth{}
	store := credentials.NewMemoryStore()
	mgr := session.New(auth, store)

	assert.Equal(t, session.StateInitializing, mgr.State())
	assert.True(t, mgr.Loading())

	snap := mgr.Init(ctx)

	assert.Equal(t, session.StateAnonymous, snap.State)
	assert.False(t, mgr.Loading())
	assert.Zero(t, auth.profileCalls.Load(), "empty store must settle without a network call")
}

func TestInit_ValidTokenAdoptsFreshProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fresh := cachedUser()
	fresh.Name = "Fresh Alice"

	auth := &stubAuth{
		profileFn: func(ctx context.Context) (*api.User, error) {
			freshCopy := *fresh
			return &freshCopy, nil
		},
	}
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(ctx, &credentials.Credentials{Token: "tok1", User: cachedUser()}))

	mgr := session.New(auth, store)
	snap := mgr.Init(ctx)

	require.Equal(t, session.StateAuthenticated, snap.State)
	assert.Equal(t, "Fresh Alice", snap.User.Name, "in-memory user must be the re-validated profile")

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fresh Alice", stored.User.Name, "persisted user must be the re-validated profile")
	assert.Equal(t, "tok1", stored.Token)
}

func TestInit_RejectedTokenFallsBackToAnonymous(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		profileFn func(ctx context.Context) (*api.User, error)
	}{
		{
			name: "server rejects the profile call",
			profileFn: func(ctx context.Context) (*api.User, error) {
				return nil, &api.Error{Kind: api.KindRejected, Message: "token invalid"}
			},
		},
		{
			name: "transport failure",
			profileFn: func(ctx context.Context) (*api.User, error) {
				return nil, &api.Error{Kind: api.KindTransport, Message: "no response"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			store := credentials.NewMemoryStore()
			require.NoError(t, store.Save(ctx, &credentials.Credentials{Token: "tok1", User: cachedUser()}))

			mgr := session.New(&stubAuth{profileFn: tt.profileFn}, store)
			snap := mgr.Init(ctx)

			assert.Equal(t, session.StateAnonymous, snap.State)
			assert.Nil(t, snap.User)

			_, err := store.Load(ctx)
			assert.ErrorIs(t, err, credentials.ErrNotFound, "both persisted entries must be gone")
		})
	}
}

func TestInit_OptimisticStateVisibleDuringRevalidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	release := make(chan struct{})
	auth := &stubAuth{
		profileFn: func(ctx context.Context) (*api.User, error) {
			<-release
			return cachedUser(), nil
		},
	}
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(ctx, &credentials.Credentials{Token: "tok1", User: cachedUser()}))

	mgr := session.New(auth, store)

	done := make(chan session.Snapshot, 1)
	go func() { done <- mgr.Init(ctx) }()

	// While re-validation is in flight the cached identity must already be
	// visible, so consumers are not blocked on the network.
	require.Eventually(t, func() bool {
		return mgr.State() == session.StateAuthenticated
	}, time.Second, time.Millisecond)
	assert.Equal(t, "Cached Alice", mgr.CurrentUser().Name)
	assert.False(t, mgr.Loading())

	close(release)
	snap := <-done
	assert.Equal(t, session.StateAuthenticated, snap.State)
}

func TestInit_SecondCallIsNoOp(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := &stubAuth{}
	mgr := session.New(auth, credentials.NewMemoryStore())

	first := mgr.Init(ctx)
	second := mgr.Init(ctx)

	assert.Equal(t, first.State, second.State)
	assert.Zero(t, auth.profileCalls.Load())
}

func TestInit_CorruptedStoreIsDiscarded(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// A record holding only a token violates the paired-write invariant and
	// must be discarded without a network call.
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok1"}`), 0o600))

	auth := &stubAuth{}
	store := credentials.NewFileStore(path)
	mgr := session.New(auth, store)

	snap := mgr.Init(ctx)
	assert.Equal(t, session.StateAnonymous, snap.State)
	assert.Zero(t, auth.profileCalls.Load())
	assert.NoFileExists(t, path)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success persists and authenticates", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()

		user := cachedUser()
		auth := &stubAuth{
			loginFn: func(ctx context.Context, email, password string) (*api.AuthPayload, error) {
				assert.Equal(t, "a@b.com", email)
				assert.Equal(t, "secret12", password)
				return payloadFor(user, "tok1"), nil
			},
		}
		store := credentials.NewMemoryStore()
		mgr := session.New(auth, store)
		mgr.Init(ctx)

		require.NoError(t, mgr.Login(ctx, "a@b.com", "secret12"))

		snap := mgr.Snapshot()
		assert.Equal(t, session.StateAuthenticated, snap.State)
		assert.Equal(t, "u1", snap.User.ID)

		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok1", stored.Token)
		assert.Equal(t, "u1", stored.User.ID)
	})

	t.Run("rejection keeps session anonymous and carries server message", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()

		auth := &stubAuth{
			loginFn: func(ctx context.Context, email, password string) (*api.AuthPayload, error) {
				return nil, &api.Error{Kind: api.KindRejected, Message: "invalid email or password"}
			},
		}
		store := credentials.NewMemoryStore()
		mgr := session.New(auth, store)
		mgr.Init(ctx)

		err := mgr.Login(ctx, "a@b.com", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, session.ErrLoginFailed)
		assert.Equal(t, "invalid email or password", api.ErrorMessage(err, "fallback"))

		assert.Equal(t, session.StateAnonymous, mgr.State())
		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, credentials.ErrNotFound)
	})

	t.Run("empty fields never reach the network", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()

		auth := &stubAuth{}
		mgr := session.New(auth, credentials.NewMemoryStore())
		mgr.Init(ctx)

		err := mgr.Login(ctx, "", "secret12")
		assert.True(t, validator.IsValidationError(err))

		err = mgr.Login(ctx, "a@b.com", "")
		assert.True(t, validator.IsValidationError(err))

		assert.Zero(t, auth.loginCalls.Load())
	})

	t.Run("rejected while initializing", func(t *testing.T) {
		t.Parallel()

		auth := &stubAuth{}
		mgr := session.New(auth, credentials.NewMemoryStore())

		err := mgr.Login(context.Background(), "a@b.com", "secret12")
		assert.ErrorIs(t, err, session.ErrInitializing)
		assert.Zero(t, auth.loginCalls.Load())
	})

	t.Run("rejected when already authenticated", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()

		auth := &stubAuth{
			loginFn: func(ctx context.Context, email, password string) (*api.AuthPayload, error) {
				return payloadFor(cachedUser(), "tok1"), nil
			},
		}
		mgr := session.New(auth, credentials.NewMemoryStore())
		mgr.Init(ctx)
		require.NoError(t, mgr.Login(ctx, "a@b.com", "secret12"))

		err := mgr.Login(ctx, "a@b.com", "secret12")
		assert.ErrorIs(t, err, session.ErrAlreadyAuthenticated)
	})
}

func TestRegister(t *testing.T) {
	t.Parallel()

	validParams := func() api.RegisterParams {
		return api.RegisterParams{
			Email:    "new@example.com",
			Password: "secret-password",
			Name:     "Newcomer",
			Role:     api.RoleStandard,
		}
	}

	t.Run("success behaves like login", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()

		user := &api.User{ID: "u9", Email: "new@example.com", Name: "Newcomer", Role: api.RoleStandard}
		auth := &stubAuth{
			registerFn: func(ctx context.Context, params api.RegisterParams) (*api.AuthPayload, error) {
				return payloadFor(user, "tok9"), nil
			},
		}
		store := credentials.NewMemoryStore()
		mgr := session.New(auth, store)
		mgr.Init(ctx)

		require.NoError(t, mgr.Register(ctx, validParams()))

		assert.Equal(t, session.StateAuthenticated, mgr.State())
		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok9", stored.Token)
	})

	t.Run("client-side rejections never reach the network", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			mutate func(*api.RegisterParams)
			field  string
		}{
			{"missing email", func(p *api.RegisterParams) { p.Email = "" }, "email"},
			{"missing name", func(p *api.RegisterParams) { p.Name = "" }, "name"},
			{"short password", func(p *api.RegisterParams) { p.Password = "seven77" }, "password"},
			{"unknown role", func(p *api.RegisterParams) { p.Role = "admin" }, "role"},
			{"operator without signup code", func(p *api.RegisterParams) {
				p.Role = api.RoleOperator
				p.SignupCode = ""
			}, "signupCode"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				ctx := context.Background()

				auth := &stubAuth{}
				mgr := session.New(auth, credentials.NewMemoryStore())
				mgr.Init(ctx)

				params := validParams()
				tt.mutate(&params)

				err := mgr.Register(ctx, params)
				require.Error(t, err)

				ve := validator.ExtractValidationErrors(err)
				require.NotNil(t, ve)
				assert.True(t, ve.Has(tt.field))
				assert.Zero(t, auth.registerCalls.Load())
				assert.Equal(t, session.StateAnonymous, mgr.State())
			})
		}
	})

	t.Run("operator with signup code goes through", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()

		auth := &stubAuth{
			registerFn: func(ctx context.Context, params api.RegisterParams) (*api.AuthPayload, error) {
				assert.Equal(t, "CODE123", params.SignupCode)
				user := &api.User{ID: "op1", Role: api.RoleOperator}
				return payloadFor(user, "tok-op"), nil
			},
		}
		mgr := session.New(auth, credentials.NewMemoryStore())
		mgr.Init(ctx)

		params := validParams()
		params.Role = api.RoleOperator
		params.SignupCode = "CODE123"

		require.NoError(t, mgr.Register(ctx, params))
		assert.Equal(t, int32(1), auth.registerCalls.Load())
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := &stubAuth{
		loginFn: func(ctx context.Context, email, password string) (*api.AuthPayload, error) {
			return payloadFor(cachedUser(), "tok1"), nil
		},
	}
	store := credentials.NewMemoryStore()
	mgr := session.New(auth, store)
	mgr.Init(ctx)
	require.NoError(t, mgr.Login(ctx, "a@b.com", "secret12"))

	// Repeated logout must stay Anonymous with empty storage every time.
	for range 3 {
		mgr.Logout(ctx)

		assert.Equal(t, session.StateAnonymous, mgr.State())
		assert.Nil(t, mgr.CurrentUser())

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, credentials.ErrNotFound)
		_, err = store.Token(ctx)
		assert.ErrorIs(t, err, credentials.ErrNotFound)
	}
}

func TestInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := &stubAuth{
		loginFn: func(ctx context.Context, email, password string) (*api.AuthPayload, error) {
			return payloadFor(cachedUser(), "tok1"), nil
		},
	}
	store := credentials.NewMemoryStore()
	mgr := session.New(auth, store)
	mgr.Init(ctx)
	require.NoError(t, mgr.Login(ctx, "a@b.com", "secret12"))

	mgr.Invalidate()

	assert.Equal(t, session.StateAnonymous, mgr.State())
	assert.Nil(t, mgr.CurrentUser())

	// Idempotent, and harmless when already anonymous.
	mgr.Invalidate()
	assert.Equal(t, session.StateAnonymous, mgr.State())
}

func TestAdoptUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := &stubAuth{
		loginFn: func(ctx context.Context, email, password string) (*api.AuthPayload, error) {
			return payloadFor(cachedUser(), "tok1"), nil
		},
	}
	store := credentials.NewMemoryStore()
	mgr := session.New(auth, store)
	mgr.Init(ctx)

	t.Run("rejected while anonymous", func(t *testing.T) {
		err := mgr.AdoptUser(ctx, cachedUser())
		assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	})

	require.NoError(t, mgr.Login(ctx, "a@b.com", "secret12"))

	t.Run("updates memory and store, keeps token", func(t *testing.T) {
		updated := cachedUser()
		updated.Name = "Renamed Traveler"
		require.NoError(t, mgr.AdoptUser(ctx, updated))

		assert.Equal(t, "Renamed Traveler", mgr.CurrentUser().Name)

		stored, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok1", stored.Token)
		assert.Equal(t, "Renamed Traveler", stored.User.Name)
	})
}

func TestLogoutDuringRevalidationWins(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	release := make(chan struct{})
	auth := &stubAuth{
		profileFn: func(ctx context.Context) (*api.User, error) {
			<-release
			return cachedUser(), nil
		},
	}
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(ctx, &credentials.Credentials{Token: "tok1", User: cachedUser()}))

	mgr := session.New(auth, store)

	done := make(chan session.Snapshot, 1)
	go func() { done <- mgr.Init(ctx) }()

	require.Eventually(t, func() bool {
		return mgr.State() == session.StateAuthenticated
	}, time.Second, time.Millisecond)

	mgr.Logout(ctx)
	close(release)

	snap := <-done
	assert.Equal(t, session.StateAnonymous, snap.State, "a logout issued mid-revalidation must not be overridden")

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, credentials.ErrNotFound)
}
