// Package credentials persists the bearer token and cached user profile
// across process restarts. The two values are a unit: any write or clear
// affects both, so the store can never hold a token without a user or the
// other way around after an operation completes.
//
// FileStore is the production implementation, a mode-0600 JSON file under the
// user's configuration directory. MemoryStore backs tests.
package credentials
