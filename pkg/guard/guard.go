// Package guard decides whether the current session may see a protected
// page. Evaluate is a pure function of the session snapshot, the page's
// required roles and the requested path; it signals redirects rather than
// performing them, so any front end can apply the outcome.
package guard

import (
	"github.com/wanderlust-travel/wanderlust-go/pkg/api"
	"github.com/wanderlust-travel/wanderlust-go/pkg/session"
)

// Decision is the outcome of an access check.
type Decision string

const (
	// DecisionDefer means the session is still initializing; render a
	// neutral loading state and re-evaluate once it settles.
	DecisionDefer Decision = "defer"
	// DecisionAllow means the page may be rendered.
	DecisionAllow Decision = "allow"
	// DecisionLoginRedirect means no trusted identity is present; send the
	// user to the anonymous entry point and keep the original destination.
	DecisionLoginRedirect Decision = "login_redirect"
	// DecisionHomeRedirect means the user lacks a required role. The denial
	// is silent: redirect home without an error message.
	DecisionHomeRedirect Decision = "home_redirect"
)

// Result carries the decision plus the redirect target and, for the login
// redirect, the path to return to after authenticating.
type Result struct {
	Decision   Decision
	RedirectTo string
	ReturnTo   string
}

// Allowed reports whether the page may be rendered.
func (r Result) Allowed() bool {
	return r.Decision == DecisionAllow
}

// Guard holds the application's two redirect destinations.
type Guard struct {
	// LoginPath is the anonymous entry point.
	LoginPath string
	// HomePath is the default destination for silent authorization denials.
	HomePath string
}

// Default returns a guard with the conventional /login and / destinations.
func Default() Guard {
	return Guard{LoginPath: "/login", HomePath: "/"}
}

// Evaluate applies the access decision table, first match wins:
//
//  1. session still initializing → defer
//  2. no authenticated user → redirect to login, recording the requested path
//  3. required roles declared and the user's role is not among them →
//     silent redirect home
//  4. otherwise → allow
//
// An empty requiredRoles set means any authenticated user may enter.
func (g Guard) Evaluate(snap session.Snapshot, requiredRoles []api.Role, requestedPath string) Result {
	if snap.Loading() {
		return Result{Decision: DecisionDefer}
	}

	if !snap.Authenticated() {
		return Result{
			Decision:   DecisionLoginRedirect,
			RedirectTo: g.LoginPath,
			ReturnTo:   requestedPath,
		}
	}

	if len(requiredRoles) > 0 && !roleIn(snap.User.Role, requiredRoles) {
		return Result{
			Decision:   DecisionHomeRedirect,
			RedirectTo: g.HomePath,
		}
	}

	return Result{Decision: DecisionAllow}
}

func roleIn(role api.Role, roles []api.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
