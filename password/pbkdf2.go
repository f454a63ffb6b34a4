package password

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Iterations is the PBKDF2 work factor.
	Iterations = 100_000
	// KeyLength is the derived key size in bytes.
	KeyLength = 64
	// SaltLength is the random salt size in bytes before hex encoding.
	SaltLength = 16

	separator = ":"
)

// ErrHashFailed is returned when a hash cannot be produced, e.g. the randomness source fails.
var ErrHashFailed = errors.New("password hashing failed")

// Option configures a [PBKDF2] hasher.
type Option func(*PBKDF2)

// WithRandom replaces crypto/rand as the salt source. Intended for deterministic tests.
func WithRandom(r io.Reader) Option {
	return func(p *PBKDF2) {
		if r != nil {
			p.random = r
		}
	}
}

// PBKDF2 hashes and verifies passwords. It holds no mutable state; one value can serve
// concurrent callers as long as its randomness source is safe for concurrent reads.
type PBKDF2 struct {
	random io.Reader
}

// New returns a hasher that draws salts from crypto/rand unless [WithRandom] is given.
func New(opts ...Option) *PBKDF2 {
	p := &PBKDF2{random: rand.Reader}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultHasher = New()

// Hash hashes password with a fresh salt from crypto/rand.
func Hash(password string) (string, error) {
	return defaultHasher.Hash(password)
}

// Verify reports whether password matches stored.
func Verify(password, stored string) bool {
	return defaultHasher.Verify(password, stored)
}

// Hash returns "salt:derivedKey" for password. Two calls never share a salt.
func (p *PBKDF2) Hash(password string) (string, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(p.random, salt); err != nil {
		return "", fmt.Errorf("%w: read salt: %v", ErrHashFailed, err)
	}
	saltHex := hex.EncodeToString(salt)

	return saltHex + separator + hex.EncodeToString(derive(password, saltHex)), nil
}

// Verify re-derives the key from password and the stored salt and compares it in constant
// time. Malformed stored values report false rather than an error.
func (p *PBKDF2) Verify(password, stored string) bool {
	saltHex, keyHex, ok := strings.Cut(stored, separator)
	if !ok || saltHex == "" || keyHex == "" {
		return false
	}

	want, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}

	// ConstantTimeCompare returns early only on length mismatch; stored length is not secret.
	return subtle.ConstantTimeCompare(derive(password, saltHex), want) == 1
}

func derive(password, saltHex string) []byte {
	return pbkdf2.Key([]byte(password), []byte(saltHex), Iterations, KeyLength, sha512.New)
}
