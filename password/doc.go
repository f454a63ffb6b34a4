// Package password derives and verifies salted PBKDF2-SHA512 password hashes.
//
// # Output format
//
//	<32 hex chars: 16-byte random salt>:<128 hex chars: 64-byte derived key>
//
// The KDF salt input is the hex text of the salt, so the stored form is self-contained and
// matches credentials already persisted by existing clients. Iteration count, key length and
// hash function are fixed constants; they are not configurable so every stored credential is
// equally costly to brute-force.
//
// # Concurrency
//
// Hashing takes tens of milliseconds. [PBKDF2.HashAsync] and [PBKDF2.VerifyAsync]
// run the KDF on its own goroutine and return a [Future]; bounding how many run at once is the
// caller's job.
//
// # What this package must NOT do
//
//   - Store or retrieve credentials; callers supply plaintext and receive stored strings.
//   - Enforce password policy.
//   - Report a wrong password as an error.
package password
