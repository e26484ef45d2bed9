package session_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/credentials"
	"github.com/wanderlust-travel/wanderlust-go/pkg/devserver"
	"github.com/wanderlust-travel/wanderlust-go/pkg/guard"
	"github.com/wanderlust-travel/wanderlust-go/pkg/session"
)

// wire assembles the full client stack against a dev server, the same way
// cmd/wanderlust does.
func wire(t *testing.T, srv *devserver.Server) (*session.Manager, *api.Client, credentials.Store) {
	t.Helper()

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	store := credentials.NewMemoryStore()
	var mgr *session.Manager
	client, err := api.New(api.Config{BaseURL: ts.URL}, store,
		api.WithOnUnauthorized(func() { mgr.Invalidate() }),
	)
	require.NoError(t, err)
	mgr = session.New(client, store)
	return mgr, client, store
}

func TestFullStack_LoginThenOperatorPageRedirectsHome(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := devserver.New()
	_, err := srv.SeedAccount("a@b.com", "secret12", "Alice", api.RoleStandard)
	require.NoError(t, err)

	mgr, _, store := wire(t, srv)
	mgr.Init(ctx)

	require.NoError(t, mgr.Login(ctx, "a@b.com", "secret12"))

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Token)
	assert.Equal(t, "a@b.com", stored.User.Email)

	// A standard user asking for the operator dashboard is silently sent home.
	result := guard.Default().Evaluate(mgr.Snapshot(), []api.Role{api.RoleOperator}, "/dashboard")
	assert.Equal(t, guard.DecisionHomeRedirect, result.Decision)
	assert.Equal(t, "/", result.RedirectTo)
}

func TestFullStack_RestartReconciliation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := devserver.New()
	_, err := srv.SeedAccount("a@b.com", "secret12", "Alice", api.RoleStandard)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	// First process: log in and persist to a file-backed store.
	path := t.TempDir() + "/credentials.json"
	store1 := credentials.NewFileStore(path)
	client1, err := api.New(api.Config{BaseURL: ts.URL}, store1)
	require.NoError(t, err)
	mgr1 := session.New(client1, store1)
	mgr1.Init(ctx)
	require.NoError(t, mgr1.Login(ctx, "a@b.com", "secret12"))

	// Second process over the same file: reconciliation re-validates the
	// token and lands authenticated without a fresh login.
	store2 := credentials.NewFileStore(path)
	client2, err := api.New(api.Config{BaseURL: ts.URL}, store2)
	require.NoError(t, err)
	mgr2 := session.New(client2, store2)

	snap := mgr2.Init(ctx)
	assert.Equal(t, session.StateAuthenticated, snap.State)
	assert.Equal(t, "a@b.com", snap.User.Email)
}

func TestFullStack_RevokedTokenInvalidatesSessionOnAnyCall(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := devserver.New()
	_, err := srv.SeedAccount("a@b.com", "secret12", "Alice", api.RoleStandard)
	require.NoError(t, err)

	mgr, client, store := wire(t, srv)
	mgr.Init(ctx)
	require.NoError(t, mgr.Login(ctx, "a@b.com", "secret12"))

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	srv.RevokeToken(stored.Token)

	// An unrelated authenticated call trips the global interceptor.
	_, err = client.ListMessages(ctx, api.MessageFilter{})
	require.ErrorIs(t, err, api.ErrUnauthorized)

	assert.Equal(t, session.StateAnonymous, mgr.State())
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, credentials.ErrNotFound)

	// The next guard evaluation sends the user to login with the original
	// destination preserved.
	result := guard.Default().Evaluate(mgr.Snapshot(), nil, "/messages")
	assert.Equal(t, guard.DecisionLoginRedirect, result.Decision)
	assert.Equal(t, "/messages", result.ReturnTo)
}

func TestFullStack_StartupReconciliationDropsRevokedToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	srv := devserver.New()
	_, err := srv.SeedAccount("a@b.com", "secret12", "Alice", api.RoleStandard)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	store := credentials.NewMemoryStore()
	client, err := api.New(api.Config{BaseURL: ts.URL}, store)
	require.NoError(t, err)

	mgr := session.New(client, store)
	mgr.Init(ctx)
	require.NoError(t, mgr.Login(ctx, "a@b.com", "secret12"))

	stored, err := store.Load(ctx)
	require.NoError(t, err)

	// Revoke server-side, then model a restart with the stale record intact.
	srv.RevokeToken(stored.Token)

	mgr2 := session.New(client, store)
	snap := mgr2.Init(ctx)

	assert.Equal(t, session.StateAnonymous, snap.State)
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, credentials.ErrNotFound)
}
