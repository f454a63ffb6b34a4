// Package jwt mints and verifies compact HS256 tokens (header.payload.signature) from
// HMAC-SHA256 and base64url primitives, without an external token library.
//
// # Wire format
//
//	base64url(JSON(header)) "." base64url(JSON(payload)) "." base64url(HMAC-SHA256(secret, signingInput))
//
// base64url is RFC 4648 §5 with padding stripped. The header is always
// {"alg":"HS256","typ":"JWT"}.
//
// # Validation contract
//
// [Codec.Verify] checks the segment shape, then the signature over the exact received bytes
// using a constant-time comparison, then the pinned algorithm, then expiry. A token is expired
// when now >= exp in epoch seconds. Every verification failure wraps [ErrInvalidToken].
//
// # What this package must NOT do
//
//   - Choose the verification algorithm from the token header.
//   - Store, revoke, or refresh tokens.
//   - Read the wall clock or the secret from globals; both are supplied by the caller.
package jwt
