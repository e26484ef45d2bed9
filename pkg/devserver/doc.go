// Package devserver is an in-memory implementation of the Wanderlust service
// contract. It exists for local development (`wanderlust serve`) and as the
// remote double in the client test suites; it is not a production backend.
//
// All endpoints speak the same `{success, data, message, error}` envelope the
// real service uses, issue opaque bearer tokens, and enforce the same
// server-side rules the client relies on: operator signup codes, the
// operator-only hotel mutations, and 401 on a missing or unknown token.
package devserver
