package jwt

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time           { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCodec(t *testing.T) (*Codec, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	return NewCodec(WithClock(clock.Now)), clock
}

func TestHeaderSegmentIsFixed(t *testing.T) {
	codec, _ := newTestCodec(t)
	token, err := codec.Mint(Claims{"sub": "u1"}, []byte("k"))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if got := strings.SplitN(token, ".", 2)[0]; got != "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9" {
		t.Fatalf("unexpected header segment %q", got)
	}
	if strings.ContainsAny(token, "=+/") {
		t.Fatalf("token is not unpadded base64url: %s", token)
	}
}

func TestVerifyKnownVector(t *testing.T) {
	codec, _ := newTestCodec(t)
	const token = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiIxMjM0NTY3ODkwIiwibmFtZSI6IkpvaG4gRG9lIiwiaWF0IjoxNTE2MjM5MDIyfQ." +
		"SflKxwRJSMeKKF2QT4fwpMeJf36POk6yJV_adQssw5c"

	claims, err := codec.Verify(token, []byte("your-256-bit-secret"))
	if err != nil {
		t.Fatalf("verify known vector: %v", err)
	}
	if sub, _ := claims.Subject(); sub != "1234567890" {
		t.Fatalf("unexpected sub %q", sub)
	}
	if iat, _ := claims.IssuedAt(); iat != 1516239022 {
		t.Fatalf("unexpected iat %d", iat)
	}
}

func TestMintVerifyRoundTrip(t *testing.T) {
	codec, clock := newTestCodec(t)
	secret := []byte("round-trip-secret")
	in := Claims{
		"sub":   "u1",
		"name":  "Ada <admin> & co",
		"roles": []any{"reader", "writer"},
		"meta":  map[string]any{"nested": true},
	}

	token, err := codec.Mint(in, secret)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, ok := in[ClaimIssuedAt]; ok {
		t.Fatal("mint must not mutate caller claims")
	}

	out, err := codec.Verify(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	if iat, ok := out.IssuedAt(); !ok || iat != clock.now.Unix() {
		t.Fatalf("expected iat=%d, got %v", clock.now.Unix(), out[ClaimIssuedAt])
	}
	if _, ok := out[ClaimExpiresAt]; ok {
		t.Fatal("exp must be absent when no expiry was requested")
	}

	delete(out, ClaimIssuedAt)
	want, _ := json.Marshal(in)
	got, _ := json.Marshal(out)
	if string(want) != string(got) {
		t.Fatalf("claims mismatch:\nwant %s\ngot  %s", want, got)
	}
}

func TestMintKeepsCallerIssuedAt(t *testing.T) {
	codec, clock := newTestCodec(t)
	secret := []byte("k")

	token, err := codec.Mint(Claims{"iat": int64(42)}, secret, WithExpiresIn("1m"))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := codec.Verify(token, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if iat, _ := claims.IssuedAt(); iat != 42 {
		t.Fatalf("expected caller iat to be kept, got %d", iat)
	}
	if exp, _ := claims.ExpiresAt(); exp != clock.now.Unix()+60 {
		t.Fatalf("exp must be computed from now, got %d", exp)
	}

	token, err = codec.Mint(Claims{"iat": 0}, secret)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, _ = codec.Verify(token, secret)
	if iat, _ := claims.IssuedAt(); iat != clock.now.Unix() {
		t.Fatalf("zero iat must be replaced with now, got %d", iat)
	}
}

func TestExpiresInUnits(t *testing.T) {
	codec, _ := newTestCodec(t)
	secret := []byte("k")

	tests := []struct {
		in   string
		want int64
	}{
		{"30s", 30},
		{"5m", 300},
		{"2h", 7200},
		{"1d", 86400},
	}

	for _, tc := range tests {
		token, err := codec.Mint(Claims{}, secret, WithExpiresIn(tc.in))
		if err != nil {
			t.Fatalf("mint %s: %v", tc.in, err)
		}
		claims, err := codec.Verify(token, secret)
		if err != nil {
			t.Fatalf("verify %s: %v", tc.in, err)
		}
		iat, _ := claims.IssuedAt()
		exp, _ := claims.ExpiresAt()
		if exp-iat != tc.want {
			t.Fatalf("%s: expected exp-iat=%d, got %d", tc.in, tc.want, exp-iat)
		}
	}
}

func TestExpiresInSeconds(t *testing.T) {
	codec, clock := newTestCodec(t)
	token, err := codec.Mint(Claims{}, []byte("k"), WithExpiresInSeconds(90))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := codec.Verify(token, []byte("k"))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if exp, _ := claims.ExpiresAt(); exp != clock.now.Unix()+90 {
		t.Fatalf("unexpected exp %d", exp)
	}
}

func TestMintRejectsBadDuration(t *testing.T) {
	codec, _ := newTestCodec(t)
	for _, in := range []string{"abc", "10", "h", "1w", "-5m", "1.5h", " 1h"} {
		if _, err := codec.Mint(Claims{}, []byte("k"), WithExpiresIn(in)); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("%q: expected ErrInvalidDuration, got %v", in, err)
		}
	}
	if _, err := codec.Mint(Claims{}, []byte("k"), WithExpiresIn("abc")); !errors.Is(err, ErrFormat) {
		t.Fatalf("duration error must be a format error, got %v", err)
	}
}

func TestMintRejectsExpiryOverflow(t *testing.T) {
	codec, _ := newTestCodec(t)
	cases := []MintOption{
		WithExpiresInSeconds(math.MaxInt64),
		WithExpiresInSeconds(math.MaxInt64 - 1_000_000_000),
		WithExpiresIn("106751991167300d"),
	}
	for i, opt := range cases {
		if _, err := codec.Mint(Claims{}, []byte("k"), opt); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("case %d: expected ErrInvalidDuration, got %v", i, err)
		}
	}
}

func TestClaimsInt64KeepsLargeIntegersExact(t *testing.T) {
	claims := Claims{
		"big":   json.Number("9007199254740993"),
		"max":   json.Number("9223372036854775807"),
		"over":  json.Number("9223372036854775808"),
		"sci":   json.Number("1e3"),
		"frac":  json.Number("1.5"),
		"float": float64(math.MaxInt64),
		"int":   int64(math.MinInt64),
	}

	if v, ok := claims.Int64("big"); !ok || v != 9007199254740993 {
		t.Fatalf("big = %d, %v", v, ok)
	}
	if v, ok := claims.Int64("max"); !ok || v != math.MaxInt64 {
		t.Fatalf("max = %d, %v", v, ok)
	}
	if v, ok := claims.Int64("sci"); !ok || v != 1000 {
		t.Fatalf("sci = %d, %v", v, ok)
	}
	if v, ok := claims.Int64("int"); !ok || v != math.MinInt64 {
		t.Fatalf("int = %d, %v", v, ok)
	}
	for _, key := range []string{"over", "frac", "float"} {
		if _, ok := claims.Int64(key); ok {
			t.Fatalf("%s must not convert", key)
		}
	}
}

func TestVerifyExpiry(t *testing.T) {
	codec, clock := newTestCodec(t)
	secret := []byte("k")

	token, err := codec.Mint(Claims{"sub": "u1"}, secret, WithExpiresIn("1s"))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := codec.Verify(token, secret); err != nil {
		t.Fatalf("fresh token must verify: %v", err)
	}

	clock.Advance(time.Second)
	_, err = codec.Verify(token, secret)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired at now == exp, got %v", err)
	}
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expiry must wrap ErrInvalidToken, got %v", err)
	}
}

func TestVerifySecretIsolation(t *testing.T) {
	codec, _ := newTestCodec(t)
	secrets := [][]byte{[]byte("k"), []byte("k2"), []byte("K"), []byte(""), []byte("a much longer secret value")}

	for i, s1 := range secrets {
		token, err := codec.Mint(Claims{"sub": "u1"}, s1)
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		for j, s2 := range secrets {
			_, err := codec.Verify(token, s2)
			if i == j {
				if err != nil {
					t.Fatalf("same secret must verify: %v", err)
				}
				continue
			}
			if !errors.Is(err, ErrSignature) {
				t.Fatalf("secret %q vs %q: expected ErrSignature, got %v", s1, s2, err)
			}
		}
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	codec, _ := newTestCodec(t)
	secret := []byte("k")
	token, _ := codec.Mint(Claims{"sub": "u1"}, secret, WithExpiresIn("1h"))
	parts := strings.Split(token, ".")

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	for bit := 0; bit < len(sig)*8; bit++ {
		flipped := append([]byte(nil), sig...)
		flipped[bit/8] ^= 1 << (bit % 8)
		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)
		if _, err := codec.Verify(tampered, secret); !errors.Is(err, ErrSignature) {
			t.Fatalf("bit %d: expected ErrSignature, got %v", bit, err)
		}
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	codec, _ := newTestCodec(t)
	secret := []byte("k")
	token, _ := codec.Mint(Claims{"sub": "u1", "admin": false}, secret)
	parts := strings.Split(token, ".")

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	for bit := 0; bit < len(payload)*8; bit++ {
		flipped := append([]byte(nil), payload...)
		flipped[bit/8] ^= 1 << (bit % 8)
		tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(flipped) + "." + parts[2]
		if _, err := codec.Verify(tampered, secret); !errors.Is(err, ErrSignature) {
			t.Fatalf("bit %d: expected ErrSignature, got %v", bit, err)
		}
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	codec, _ := newTestCodec(t)
	for _, token := range []string{"", "abc", "a.b", "a.b.c.d", ".b.c", "a..c", "a.b.", "..", "a.b.c."} {
		_, err := codec.Verify(token, []byte("k"))
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: expected ErrMalformed, got %v", token, err)
		}
		if !errors.Is(err, ErrFormat) || !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%q: malformed must be both a format and an invalid-token error", token)
		}
	}
}

func TestVerifyPinsAlgorithm(t *testing.T) {
	codec, _ := newTestCodec(t)
	secret := []byte("k")

	hdr := encodeSegment([]byte(`{"alg":"none","typ":"JWT"}`))
	body := encodeSegment([]byte(`{"sub":"u1"}`))
	signingInput := hdr + "." + body
	token := signingInput + "." + sign(signingInput, secret)

	if _, err := codec.Verify(token, secret); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}

func TestVerifyRejectsNonNumericExp(t *testing.T) {
	codec, _ := newTestCodec(t)
	secret := []byte("k")

	body := encodeSegment([]byte(`{"sub":"u1","exp":"tomorrow"}`))
	signingInput := encodedHeader + "." + body
	token := signingInput + "." + sign(signingInput, secret)

	if _, err := codec.Verify(token, secret); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestEndToEndScenario(t *testing.T) {
	codec, clock := newTestCodec(t)
	t0 := clock.now.Unix()

	token, err := codec.Mint(Claims{"sub": "u1"}, []byte("k"), WithExpiresIn("1h"))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := codec.Verify(token, []byte("k"))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if len(claims) != 3 {
		t.Fatalf("expected exactly sub, iat, exp; got %v", claims)
	}
	sub, _ := claims.Subject()
	iat, _ := claims.IssuedAt()
	exp, _ := claims.ExpiresAt()
	if sub != "u1" || iat != t0 || exp != t0+3600 {
		t.Fatalf("unexpected claims sub=%q iat=%d exp=%d", sub, iat, exp)
	}

	if _, err := codec.Verify(token, []byte("wrong-key")); !errors.Is(err, ErrSignature) {
		t.Fatalf("expected ErrSignature for wrong key, got %v", err)
	}
}
