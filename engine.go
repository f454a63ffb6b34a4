package goNotes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	internalaudit "github.com/MrEthical07/goNotes/internal/audit"
	"github.com/MrEthical07/goNotes/internal/rate"
	"github.com/MrEthical07/goNotes/jwt"
	"github.com/MrEthical07/goNotes/password"
	"golang.org/x/sync/semaphore"
)

// decoyCredential is a well-formed stored credential verified in place of a missing user's,
// so an unknown email costs one full derivation like a known one.
const decoyCredential = "00000000000000000000000000000000:" +
	"49ecc538a849907c01b1a96e9c079cda32caabc7b75d83bada93a91072a06659" +
	"26811282ae04bd370b027db1b114f403e1d9e4af5caa57d2ccdc127d86b59322"

// Engine registers users, logs them in and authenticates bearer tokens.
type Engine struct {
	config Config
	users  UserStore

	codec    *jwt.Codec
	hasher   *password.PBKDF2
	kdfSlots *semaphore.Weighted

	rateLimiter *rate.Limiter
	audit       *internalaudit.Dispatcher
	metrics     *Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// Close flushes and stops the audit dispatcher. The Engine must not be used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports events discarded because the audit buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// AuditStats reports delivered, dropped and failed audit event counts.
func (e *Engine) AuditStats() AuditStats {
	if e == nil || e.audit == nil {
		return AuditStats{}
	}
	return e.audit.Stats()
}

// MetricsSnapshot copies the current counters and histograms. A disabled engine returns empty maps.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Register creates an account and returns a token for it.
//
// Name, email and password must be non-blank; the email is trimmed and lower-cased before
// it reaches the store. A taken email fails with [ErrAccountExists] before any hashing.
// With the registration throttle on, every well-formed attempt counts against the caller's
// IP budget and an exhausted budget fails with [ErrRegisterRateLimited].
func (e *Engine) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		e.metricInc(MetricRegisterInvalid)
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	if err := e.rateLimiter.EnforceRegister(ctx, clientIPFromContext(ctx)); err != nil {
		return nil, e.registerThrottled(ctx, email, err)
	}

	_, err := e.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, e.registerDuplicate(ctx, email)
	case !errors.Is(err, ErrUserNotFound):
		return nil, e.registerFailed(ctx, email, e.backendError("lookup user", err))
	}

	hash, err := e.hashPassword(ctx, in.Password)
	if err != nil {
		return nil, e.registerFailed(ctx, email, err)
	}

	user, err := e.users.CreateUser(ctx, NewUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, e.registerDuplicate(ctx, email)
		}
		return nil, e.registerFailed(ctx, email, e.backendError("create user", err))
	}

	result, err := e.issue(user)
	if err != nil {
		return nil, e.registerFailed(ctx, email, err)
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, user.UserID, nil, nil)

	return result, nil
}

func (e *Engine) registerDuplicate(ctx context.Context, email string) error {
	e.metricInc(MetricRegisterDuplicate)
	e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", ErrAccountExists, func() map[string]string {
		return map[string]string{"email": email}
	})
	return ErrAccountExists
}

func (e *Engine) registerThrottled(ctx context.Context, email string, err error) error {
	if errors.Is(err, rate.ErrRedisUnavailable) {
		e.metricInc(MetricRateLimiterUnavailable)
		e.logger.ErrorContext(ctx, "register limiter unavailable", slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	e.metricInc(MetricRegisterRateLimited)
	e.emitAudit(ctx, auditEventRegisterLimited, false, "", ErrRegisterRateLimited, func() map[string]string {
		return map[string]string{"email": email}
	})
	return ErrRegisterRateLimited
}

func (e *Engine) registerFailed(ctx context.Context, email string, err error) error {
	e.emitAudit(ctx, auditEventRegisterFailure, false, "", err, func() map[string]string {
		return map[string]string{"email": email}
	})
	return err
}

// Login checks email and password and returns a fresh token.
//
// Unknown emails and wrong passwords both fail with [ErrInvalidCredentials] after the same
// amount of KDF work. Each failure counts against the per-email (and, when enabled, per-IP)
// budget; once it is spent Login fails with [ErrLoginRateLimited] without touching the store.
// A success clears the counters.
func (e *Engine) Login(ctx context.Context, email, pass string) (*AuthResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	ip := clientIPFromContext(ctx)

	if err := e.rateLimiter.CheckLogin(ctx, email, ip); err != nil {
		return nil, e.loginThrottled(ctx, email, err)
	}

	user, err := e.users.GetUserByEmail(ctx, email)
	found := err == nil
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, e.backendError("lookup user", err)
	}

	stored := decoyCredential
	if found {
		stored = user.PasswordHash
	}

	ok, err := e.verifyPassword(ctx, pass, stored)
	if err != nil {
		return nil, err
	}

	if !found || !ok {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{"email": email}
		})
		if err := e.rateLimiter.IncrementLogin(ctx, email, ip); err != nil {
			return nil, e.loginThrottled(ctx, email, err)
		}
		return nil, ErrInvalidCredentials
	}

	if err := e.rateLimiter.ResetLogin(ctx, email, ip); err != nil {
		e.metricInc(MetricRateLimiterUnavailable)
		e.logger.WarnContext(ctx, "reset login counters failed", slog.String("user_id", user.UserID), slog.Any("error", err))
	}

	result, err := e.issue(user)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, nil, nil)

	return result, nil
}

// loginThrottled maps a limiter error. Redis failures fail closed as ErrBackendUnavailable.
func (e *Engine) loginThrottled(ctx context.Context, email string, err error) error {
	if errors.Is(err, rate.ErrRedisUnavailable) {
		e.metricInc(MetricRateLimiterUnavailable)
		e.logger.ErrorContext(ctx, "login limiter unavailable", slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	e.metricInc(MetricLoginRateLimited)
	e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrLoginRateLimited, func() map[string]string {
		return map[string]string{"email": email}
	})
	return ErrLoginRateLimited
}

// Authenticate verifies a bearer token and returns the identity it names. It never touches
// the store, so a token for a deleted user still authenticates until it expires.
func (e *Engine) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.codec.Verify(token, e.config.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			e.metricInc(MetricTokenExpired)
		} else {
			e.metricInc(MetricTokenInvalid)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	sub, ok := claims.Subject()
	if !ok {
		e.metricInc(MetricTokenInvalid)
		return nil, fmt.Errorf("%w: %w: missing sub", ErrUnauthorized, jwt.ErrInvalidToken)
	}

	id := &Identity{UserID: sub, Claims: claims}
	if iat, ok := claims.IssuedAt(); ok {
		id.IssuedAt = time.Unix(iat, 0).UTC()
	}
	if exp, ok := claims.ExpiresAt(); ok {
		id.ExpiresAt = time.Unix(exp, 0).UTC()
	}

	e.metricInc(MetricTokenValid)
	return id, nil
}

// Me loads the account behind an authenticated identity.
func (e *Engine) Me(ctx context.Context, userID string) (UserRecord, error) {
	if e == nil {
		return UserRecord{}, ErrEngineNotReady
	}

	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, e.backendError("load user", err)
	}
	return user, nil
}

func (e *Engine) issue(user UserRecord) (*AuthResult, error) {
	now := e.now()

	var opts []jwt.MintOption
	if e.config.JWT.ExpiresIn != "" {
		opts = append(opts, jwt.WithExpiresIn(e.config.JWT.ExpiresIn))
	}

	// Pin the codec to now so exp and ExpiresAt agree across a second boundary.
	codec := jwt.NewCodec(jwt.WithClock(func() time.Time { return now }))
	token, err := codec.Mint(jwt.Claims{jwt.ClaimSubject: user.UserID}, e.config.JWT.Secret, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: mint token: %v", ErrBackendUnavailable, err)
	}

	result := &AuthResult{Token: token, User: user}
	if e.config.JWT.ExpiresIn != "" {
		// Validate has already parsed the same value.
		ttl, _ := jwt.ParseExpiresIn(e.config.JWT.ExpiresIn)
		result.ExpiresAt = time.Unix(now.Unix(), 0).Add(ttl).UTC()
	}
	return result, nil
}

// hashPassword and verifyPassword hold a KDF slot until the derivation finishes, even when
// ctx ends the wait first.
func (e *Engine) hashPassword(ctx context.Context, pass string) (string, error) {
	if err := e.kdfSlots.Acquire(ctx, 1); err != nil {
		return "", err
	}

	start := time.Now()
	future := e.hasher.HashAsync(pass)
	go e.releaseAfter(future.Done(), MetricPasswordHashLatency, start)

	hash, err := future.Wait(ctx)
	if err != nil && !errors.Is(err, ctx.Err()) {
		e.logger.ErrorContext(ctx, "password hash failed", slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return hash, err
}

func (e *Engine) verifyPassword(ctx context.Context, pass, stored string) (bool, error) {
	if err := e.kdfSlots.Acquire(ctx, 1); err != nil {
		return false, err
	}

	start := time.Now()
	future := e.hasher.VerifyAsync(pass, stored)
	go e.releaseAfter(future.Done(), MetricPasswordVerifyLatency, start)

	return future.Wait(ctx)
}

func (e *Engine) releaseAfter(done <-chan struct{}, id MetricID, start time.Time) {
	<-done
	e.metrics.Observe(id, time.Since(start))
	e.kdfSlots.Release(1)
}

func (e *Engine) backendError(op string, err error) error {
	e.logger.Error("user store failure", slog.String("op", op), slog.Any("error", err))
	return fmt.Errorf("%w: %s: %v", ErrBackendUnavailable, op, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
