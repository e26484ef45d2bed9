package session

import "github.com/wanderlust-travel/wanderlust-go/pkg/api"

// State is the session's position in its lifecycle.
type State string

const (
	// StateInitializing is the startup window before reconciliation settles.
	// Entered exactly once, at construction, and left exactly once.
	StateInitializing State = "initializing"
	// StateAnonymous means no trusted identity is present.
	StateAnonymous State = "anonymous"
	// StateAuthenticated means a user identity is present and trusted.
	StateAuthenticated State = "authenticated"
)

func (s State) String() string {
	return string(s)
}

// legalTransitions encodes the session state machine. Initializing can settle
// either way; afterwards the session only moves between Anonymous and
// Authenticated. Self-transitions cover idempotent logout and the
// optimistic-then-confirmed startup path.
var legalTransitions = map[State][]State{
	StateInitializing:  {StateAnonymous, StateAuthenticated},
	StateAnonymous:     {StateAnonymous, StateAuthenticated},
	StateAuthenticated: {StateAnonymous, StateAuthenticated},
}

func canTransition(from, to State) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Snapshot is a point-in-time view of the session, safe to hand to readers
// like the access guard without exposing the manager's lock.
type Snapshot struct {
	State State
	User  *api.User
}

// Loading reports whether startup reconciliation is still in flight.
func (s Snapshot) Loading() bool {
	return s.State == StateInitializing
}

// Authenticated reports whether a trusted user identity is present.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}
