// Package session owns the answer to "who is using the application right
// now". A Manager holds the in-memory session singleton, reconciles it with
// the persisted credential store at startup, and exposes the mutating
// operations: Login, Register, Logout and Invalidate.
//
// The session moves through an explicit three-state machine:
//
//	Initializing ──► Anonymous ◄──► Authenticated
//
// Initializing is entered exactly once, at construction, and left exactly
// once when Init finishes the startup reconciliation. When a token and cached
// user are found on disk the manager transitions to Authenticated
// optimistically, so consumers are not blocked, then re-validates the profile
// against the service and either adopts the fresh profile or falls back to
// Anonymous and clears the store.
//
// Every successful mutation writes through to the credential store before the
// in-memory state changes, so a reader observing the new state also finds the
// persisted values in place.
package session
