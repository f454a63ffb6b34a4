package jwt

import (
	"encoding/json"
	"math"
)

// Registered claim names set or read by the codec.
const (
	ClaimSubject   = "sub"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
)

// Claims is the token payload. Values must survive JSON serialization.
//
// Claims returned by [Codec.Verify] carry numbers as [json.Number]; use [Claims.Int64]
// rather than a type assertion to read them.
type Claims map[string]any

// Subject returns the "sub" claim when it is a non-empty string.
func (c Claims) Subject() (string, bool) {
	return c.String(ClaimSubject)
}

// IssuedAt returns the "iat" claim in epoch seconds.
func (c Claims) IssuedAt() (int64, bool) {
	return c.Int64(ClaimIssuedAt)
}

// ExpiresAt returns the "exp" claim in epoch seconds.
func (c Claims) ExpiresAt() (int64, bool) {
	return c.Int64(ClaimExpiresAt)
}

// String returns the claim stored under key when it is a non-empty string.
func (c Claims) String(key string) (string, bool) {
	s, ok := c[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Int64 returns the claim stored under key when it is an integral number.
func (c Claims) Int64(key string) (int64, bool) {
	v, ok := c[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	// Floats and forms like "1e3". float64(math.MaxInt64) rounds up to 2^63, so the upper
	// bound is exclusive.
	f, ok := numeric(v)
	if !ok || f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func (c Claims) clone() Claims {
	out := make(Claims, len(c)+2)
	for k, v := range c {
		out[k] = v
	}
	return out
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// isUnset mirrors the "caller did not supply it" rule for iat: absent, null, zero or empty.
func isUnset(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	}
	f, ok := numeric(v)
	return ok && f == 0
}
