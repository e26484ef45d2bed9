// Package api is the typed client for the Wanderlust hotel-booking service.
//
// A Client is configured once with a base URL and a credential source. Every
// outbound request carries the stored bearer token when one is present, and
// every response is expected to use the service's uniform envelope:
//
//	{ "success": bool, "data": ..., "message": "...", "error": "..." }
//
// Server-reported failures (success=false or a non-2xx status) are returned
// as *Error values carrying a Kind and the server-provided message; they are
// never panics. An authorization failure (HTTP 401) on any call triggers a
// global side effect: the stored credentials are cleared and the configured
// unauthorized handler is invoked, independent of which call was in flight.
// The client performs no retries; a single failed attempt is surfaced to the
// caller.
package api
