package goNotes

import (
	"context"
	"io"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/goNotes/internal/audit"
	internalmetrics "github.com/MrEthical07/goNotes/internal/metrics"
	"github.com/MrEthical07/goNotes/jwt"
)

// UserRecord is a stored account. PasswordHash is the "salt:key" form produced by
// password.Hash and is never serialized.
type UserRecord struct {
	UserID       string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser is what Register hands to [UserStore.CreateUser].
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
}

// UserStore persists accounts. Implementations must be safe for concurrent use, return
// [ErrAccountExists] for a duplicate email and [ErrUserNotFound] for missing users.
// Emails arrive already normalized to lower case.
type UserStore interface {
	CreateUser(ctx context.Context, user NewUser) (UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string
	// ExpiresAt is zero when the engine mints tokens without exp.
	ExpiresAt time.Time
	User      UserRecord
}

// Identity is the verified caller behind a bearer token.
type Identity struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    jwt.Claims
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// AuditStats counts audit events delivered, dropped and failed by the dispatcher.
type AuditStats = internalaudit.Stats

// SlogSink is an [AuditSink] that writes events through a [slog.Logger].
type SlogSink = internalaudit.SlogSink

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return internalaudit.NewSlogSink(logger)
}

// MetricID identifies a specific counter or histogram in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	MetricRegisterSuccess        = internalmetrics.MetricRegisterSuccess
	MetricRegisterDuplicate      = internalmetrics.MetricRegisterDuplicate
	MetricRegisterInvalid        = internalmetrics.MetricRegisterInvalid
	MetricRegisterRateLimited    = internalmetrics.MetricRegisterRateLimited
	MetricLoginSuccess           = internalmetrics.MetricLoginSuccess
	MetricLoginFailure           = internalmetrics.MetricLoginFailure
	MetricLoginRateLimited       = internalmetrics.MetricLoginRateLimited
	MetricRateLimiterUnavailable = internalmetrics.MetricRateLimiterUnavailable
	MetricTokenValid             = internalmetrics.MetricTokenValid
	MetricTokenInvalid           = internalmetrics.MetricTokenInvalid
	MetricTokenExpired           = internalmetrics.MetricTokenExpired
	MetricPasswordHashLatency    = internalmetrics.MetricPasswordHashLatency
	MetricPasswordVerifyLatency  = internalmetrics.MetricPasswordVerifyLatency
)

// HistogramBucketCount is the number of latency buckets per histogram, +Inf included.
const HistogramBucketCount = internalmetrics.BucketCount

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
