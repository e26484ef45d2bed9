package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/guard"
	"github.com/wanderlust-travel/wanderlust-go/pkg/session"
)

func snapshot(state session.State, role api.Role) session.Snapshot {
	snap := session.Snapshot{State: state}
	if state == session.StateAuthenticated {
		snap.User = &api.User{ID: "u1", Email: "a@b.com", Role: role}
	}
	return snap
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	g := guard.Default()
	operatorOnly := []api.Role{api.RoleOperator}

	tests := []struct {
		name     string
		snap     session.Snapshot
		roles    []api.Role
		path     string
		decision guard.Decision
		redirect string
		returnTo string
	}{
		{
			name:     "initializing session defers",
			snap:     snapshot(session.StateInitializing, ""),
			roles:    operatorOnly,
			path:     "/dashboard",
			decision: guard.DecisionDefer,
		},
		{
			name:     "anonymous session redirects to login with return path",
			snap:     snapshot(session.StateAnonymous, ""),
			roles:    nil,
			path:     "/favorites",
			decision: guard.DecisionLoginRedirect,
			redirect: "/login",
			returnTo: "/favorites",
		},
		{
			name:     "standard user on operator page silently redirects home",
			snap:     snapshot(session.StateAuthenticated, api.RoleStandard),
			roles:    operatorOnly,
			path:     "/dashboard",
			decision: guard.DecisionHomeRedirect,
			redirect: "/",
		},
		{
			name:     "operator on operator page renders",
			snap:     snapshot(session.StateAuthenticated, api.RoleOperator),
			roles:    operatorOnly,
			path:     "/dashboard",
			decision: guard.DecisionAllow,
		},
		{
			name:     "authenticated user on role-free page renders",
			snap:     snapshot(session.StateAuthenticated, api.RoleStandard),
			roles:    nil,
			path:     "/profile",
			decision: guard.DecisionAllow,
		},
		{
			name:     "anonymous user on operator page goes to login, not home",
			snap:     snapshot(session.StateAnonymous, ""),
			roles:    operatorOnly,
			path:     "/dashboard",
			decision: guard.DecisionLoginRedirect,
			redirect: "/login",
			returnTo: "/dashboard",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := g.Evaluate(tt.snap, tt.roles, tt.path)
			assert.Equal(t, tt.decision, result.Decision)
			assert.Equal(t, tt.redirect, result.RedirectTo)
			assert.Equal(t, tt.returnTo, result.ReturnTo)
		})
	}
}

func TestEvaluate_NoSideEffects(t *testing.T) {
	t.Parallel()

	// Evaluate must not mutate the snapshot it is handed.
	g := guard.Default()
	snap := snapshot(session.StateAuthenticated, api.RoleStandard)

	_ = g.Evaluate(snap, []api.Role{api.RoleOperator}, "/dashboard")
	_ = g.Evaluate(snap, nil, "/profile")

	assert.Equal(t, session.StateAuthenticated, snap.State)
	assert.Equal(t, api.RoleStandard, snap.User.Role)
}

func TestResult_Allowed(t *testing.T) {
	t.Parallel()

	g := guard.Default()
	assert.True(t, g.Evaluate(snapshot(session.StateAuthenticated, api.RoleStandard), nil, "/").Allowed())
	assert.False(t, g.Evaluate(snapshot(session.StateAnonymous, ""), nil, "/").Allowed())
}
