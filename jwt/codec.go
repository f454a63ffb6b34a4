package jwt

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// Algorithm is the only signing algorithm this package produces or accepts.
	Algorithm = "HS256"
	// TokenType is the fixed "typ" header value.
	TokenType = "JWT"
)

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

var encodedHeader = mustEncodeHeader()

// Option configures a [Codec].
type Option func(*Codec)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec mints and verifies tokens. It holds no secrets and no mutable state, so one value
// can be shared by any number of goroutines.
type Codec struct {
	now func() time.Time
}

// NewCodec returns a Codec using time.Now unless [WithClock] is given.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCodec = NewCodec()

// Mint signs claims with secret using the wall clock.
func Mint(claims Claims, secret []byte, opts ...MintOption) (string, error) {
	return defaultCodec.Mint(claims, secret, opts...)
}

// Verify checks token against secret using the wall clock.
func Verify(token string, secret []byte) (Claims, error) {
	return defaultCodec.Verify(token, secret)
}

// MintOption adjusts a single Mint call.
type MintOption func(*mintOptions)

type mintOptions struct {
	expiresIn        string
	expiresInSeconds int64
}

// WithExpiresIn sets exp to now plus a "<integer><s|m|h|d>" duration. An empty value
// leaves the token without exp; an unparsable one makes Mint fail with [ErrInvalidDuration].
func WithExpiresIn(value string) MintOption {
	return func(o *mintOptions) {
		o.expiresIn = value
		o.expiresInSeconds = 0
	}
}

// WithExpiresInSeconds sets exp to now plus n seconds. Zero leaves the token without exp.
func WithExpiresInSeconds(n int64) MintOption {
	return func(o *mintOptions) {
		o.expiresInSeconds = n
		o.expiresIn = ""
	}
}

// Mint builds header and payload, signs them and returns "header.payload.signature".
//
// The caller's claims are copied, never mutated. iat is set to now unless the caller supplied
// a non-zero value; exp is always computed from now, not from a caller-supplied iat.
func (c *Codec) Mint(claims Claims, secret []byte, opts ...MintOption) (string, error) {
	var o mintOptions
	for _, opt := range opts {
		opt(&o)
	}

	now := c.now().Unix()
	body := claims.clone()

	switch {
	case o.expiresIn != "":
		seconds, err := parseSeconds(o.expiresIn)
		if err != nil {
			return "", err
		}
		if seconds > math.MaxInt64-now {
			return "", fmt.Errorf("%w: %q overflows exp", ErrInvalidDuration, o.expiresIn)
		}
		body[ClaimExpiresAt] = now + seconds
	case o.expiresInSeconds != 0:
		if o.expiresInSeconds > math.MaxInt64-now {
			return "", fmt.Errorf("%w: %d seconds overflows exp", ErrInvalidDuration, o.expiresInSeconds)
		}
		body[ClaimExpiresAt] = now + o.expiresInSeconds
	}

	if isUnset(body[ClaimIssuedAt]) {
		body[ClaimIssuedAt] = now
	}

	payload, err := marshalJSON(body)
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}

	signingInput := encodedHeader + "." + encodeSegment(payload)
	return signingInput + "." + sign(signingInput, secret), nil
}

// Verify validates token against secret and returns its claims.
func (c *Codec) Verify(token string, secret []byte) (Claims, error) {
	headerSeg, payloadSeg, signatureSeg, ok := split(token)
	if !ok {
		return nil, ErrMalformed
	}

	expected := sign(headerSeg+"."+payloadSeg, secret)
	if subtle.ConstantTimeCompare([]byte(signatureSeg), []byte(expected)) != 1 {
		return nil, ErrSignature
	}

	var h header
	if err := decodeSegment(headerSeg, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	if h.Alg != Algorithm {
		return nil, ErrUnsupportedAlgorithm
	}

	var claims Claims
	if err := decodeSegment(payloadSeg, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: payload is not an object", ErrMalformed)
	}

	if raw, present := claims[ClaimExpiresAt]; present {
		exp, ok := numeric(raw)
		if !ok {
			return nil, fmt.Errorf("%w: exp is not numeric", ErrMalformed)
		}
		if float64(c.now().Unix()) >= exp {
			return nil, ErrExpired
		}
	}

	return claims, nil
}

func split(token string) (string, string, string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", "", "", false
	}
	for _, p := range parts {
		if p == "" {
			return "", "", "", false
		}
	}
	return parts[0], parts[1], parts[2], true
}

func sign(signingInput string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(signingInput))
	return encodeSegment(mac.Sum(nil))
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeSegment(seg string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// marshalJSON matches JSON.stringify output for the same keys: no HTML escaping and no
// trailing newline.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func mustEncodeHeader() string {
	b, err := marshalJSON(header{Alg: Algorithm, Typ: TokenType})
	if err != nil {
		panic(err)
	}
	return encodeSegment(b)
}
