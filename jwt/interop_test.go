package jwt

import (
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func TestTokensVerifyWithGolangJWT(t *testing.T) {
	secret := []byte("interop-secret")
	token, err := Mint(Claims{"sub": "u1", "name": "Ada"}, secret, WithExpiresIn("5m"))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	parsed, err := gjwt.Parse(token, func(*gjwt.Token) (interface{}, error) {
		return secret, nil
	}, gjwt.WithValidMethods([]string{gjwt.SigningMethodHS256.Alg()}), gjwt.WithIssuedAt())
	if err != nil {
		t.Fatalf("golang-jwt rejected minted token: %v", err)
	}

	claims, ok := parsed.Claims.(gjwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if sub, _ := claims.GetSubject(); sub != "u1" {
		t.Fatalf("unexpected sub %q", sub)
	}
	if typ, _ := parsed.Header["typ"].(string); typ != TokenType {
		t.Fatalf("unexpected typ header %q", typ)
	}
}

func TestVerifyAcceptsGolangJWTTokens(t *testing.T) {
	secret := []byte("interop-secret")
	now := time.Now()

	signed, err := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": "u2",
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := Verify(signed, secret)
	if err != nil {
		t.Fatalf("verify golang-jwt token: %v", err)
	}
	if sub, _ := claims.Subject(); sub != "u2" {
		t.Fatalf("unexpected sub %q", sub)
	}

	expired, _ := gjwt.NewWithClaims(gjwt.SigningMethodHS256, gjwt.MapClaims{
		"sub": "u2",
		"exp": now.Add(-time.Minute).Unix(),
	}).SignedString(secret)
	if _, err := Verify(expired, secret); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	secret := []byte("interop-secret-with-enough-length-for-hs512")
	signed, err := gjwt.NewWithClaims(gjwt.SigningMethodHS512, gjwt.MapClaims{"sub": "u3"}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify(signed, secret); !errors.Is(err, ErrSignature) {
		t.Fatalf("HS512 token must fail HS256 signature check, got %v", err)
	}
}
