// Package middleware exposes gin middleware that guards routes with goNotes bearer tokens.
//
// # Handlers
//
//   - [RequireAuth]: verifies the bearer token through the engine and stores the identity.
//   - [ClientContext]: attaches client IP and User-Agent for throttling and audit.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. All token decisions are
// delegated to Engine.Authenticate.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly.
//   - Touch Redis or the user store.
//   - Tell a client why a token failed beyond "not valid" or "expired".
package middleware
