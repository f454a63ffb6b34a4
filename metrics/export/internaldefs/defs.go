package internaldefs

import (
	goNotes "github.com/MrEthical07/goNotes"
)

// CounterDef binds a MetricID to its exported name.
type CounterDef struct {
	ID   goNotes.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram MetricID to its exported name.
type HistogramDef struct {
	ID   goNotes.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: goNotes.MetricRegisterSuccess, Name: "gonotes_register_success_total", Help: "Successful registrations."},
	{ID: goNotes.MetricRegisterDuplicate, Name: "gonotes_register_duplicate_total", Help: "Registrations rejected for an existing email."},
	{ID: goNotes.MetricRegisterInvalid, Name: "gonotes_register_invalid_total", Help: "Registrations rejected for missing fields."},
	{ID: goNotes.MetricRegisterRateLimited, Name: "gonotes_register_rate_limited_total", Help: "Registrations rejected by the per-IP throttle."},
	{ID: goNotes.MetricLoginSuccess, Name: "gonotes_login_success_total", Help: "Successful login attempts."},
	{ID: goNotes.MetricLoginFailure, Name: "gonotes_login_failure_total", Help: "Failed login attempts."},
	{ID: goNotes.MetricLoginRateLimited, Name: "gonotes_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: goNotes.MetricRateLimiterUnavailable, Name: "gonotes_rate_limiter_unavailable_total", Help: "Limiter calls that failed on Redis."},
	{ID: goNotes.MetricTokenValid, Name: "gonotes_token_valid_total", Help: "Bearer tokens accepted."},
	{ID: goNotes.MetricTokenInvalid, Name: "gonotes_token_invalid_total", Help: "Bearer tokens rejected as malformed, forged or missing sub."},
	{ID: goNotes.MetricTokenExpired, Name: "gonotes_token_expired_total", Help: "Bearer tokens rejected as expired."},
}

var HistogramDefs = []HistogramDef{
	{ID: goNotes.MetricPasswordHashLatency, Name: "gonotes_password_hash_seconds", Help: "PBKDF2 hash latency."},
	{ID: goNotes.MetricPasswordVerifyLatency, Name: "gonotes_password_verify_seconds", Help: "PBKDF2 verify latency."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds. The engine's last bucket
// is +Inf and has no entry here.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// NormalizeBuckets pads or truncates raw to the engine's bucket count.
func NormalizeBuckets(raw []uint64) [goNotes.HistogramBucketCount]uint64 {
	var out [goNotes.HistogramBucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals; the last entry is the count.
func CumulativeBuckets(raw [goNotes.HistogramBucketCount]uint64) [goNotes.HistogramBucketCount]uint64 {
	var out [goNotes.HistogramBucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
