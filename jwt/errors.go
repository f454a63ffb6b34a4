package jwt

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is the umbrella error wrapped by every verification failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrFormat marks caller or input bugs: a bad expiresIn value or a structurally broken token.
	ErrFormat = errors.New("format error")
	// ErrMalformed reports a token that is not three non-empty segments or whose segments
	// do not decode.
	ErrMalformed = fmt.Errorf("%w: %w", ErrInvalidToken, ErrFormat)
	// ErrInvalidDuration reports an expiresIn value that does not match <integer><s|m|h|d>.
	ErrInvalidDuration = fmt.Errorf("%w: invalid expiresIn", ErrFormat)
	// ErrSignature reports an HMAC mismatch.
	ErrSignature = fmt.Errorf("%w: signature verification failed", ErrInvalidToken)
	// ErrExpired reports a correctly signed token whose exp is not in the future.
	ErrExpired = fmt.Errorf("%w: token expired", ErrInvalidToken)
	// ErrUnsupportedAlgorithm reports a signed header that does not declare HS256.
	ErrUnsupportedAlgorithm = fmt.Errorf("%w: unsupported algorithm", ErrInvalidToken)
)
