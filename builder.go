package goNotes

import (
	"errors"
	"log/slog"
	"time"

	internalaudit "github.com/MrEthical07/goNotes/internal/audit"
	"github.com/MrEthical07/goNotes/internal/rate"
	"github.com/MrEthical07/goNotes/jwt"
	"github.com/MrEthical07/goNotes/password"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/semaphore"
)

// Builder assembles an [Engine]. A Builder can be built once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	userStore UserStore
	auditSink AuditSink
	logger    *slog.Logger
	now       func() time.Time

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the client backing login throttling. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets account persistence. Required.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.userStore = store
	return b
}

// WithAuditSink sets where audit events go. Events are only dispatched when Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger for backend failures. Defaults to slog.Default().
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithClock replaces the wall clock used for minting and verifying tokens.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the KDF latency histograms. Requires metrics to be enabled.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine. It performs no I/O.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.userStore == nil {
		return nil, errors.New("user store required")
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	engine := &Engine{
		config:   cfg,
		users:    b.userStore,
		codec:    jwt.NewCodec(jwt.WithClock(now)),
		hasher:   password.New(),
		kdfSlots: semaphore.NewWeighted(int64(cfg.Password.MaxConcurrent)),
		logger:   logger.With(slog.String("component", "auth")),
		now:      now,
		audit:    internalaudit.NewDispatcher(internalaudit.Config(cfg.Audit), b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	engine.rateLimiter = rate.New(b.redis, rate.Config{
		EnableIPThrottle:      cfg.Security.EnableIPThrottle,
		MaxLoginAttempts:      cfg.Security.MaxLoginAttempts,
		LoginCooldownDuration: cfg.Security.LoginCooldownDuration,

		EnableRegisterThrottle:   cfg.Security.EnableRegisterThrottle,
		MaxRegisterAttempts:      cfg.Security.MaxRegisterAttempts,
		RegisterCooldownDuration: cfg.Security.RegisterCooldownDuration,
	})

	b.built = true

	return engine, nil
}
