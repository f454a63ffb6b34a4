// Package goNotes is the authentication core of the notes service: account registration,
// password login, and bearer-token authentication on top of the [jwt] and [password]
// packages.
//
// Engine methods are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goNotes is the public surface. It exposes [Engine], [Builder], [Config], and value types
// ([AuthResult], [Identity], [UserRecord]). Rate limiting, audit dispatch, and metric
// storage live under internal/ and are never exported directly. Persistence is supplied by
// the caller through [UserStore].
//
// # What this package must NOT do
//
//   - Expose Redis clients, storage handles, or signing secrets in its public API.
//   - Run password KDFs on the caller's goroutine or beyond Password.MaxConcurrent at once.
//   - Tell a caller whether an email is registered through login errors or timing.
//
// # Performance contract
//
// Authenticate is the hot path: one HMAC and one JSON decode, no store or Redis round-trips.
// Login and Register each pay exactly one PBKDF2 derivation.
package goNotes
