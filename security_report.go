package goNotes

import (
	"time"

	"github.com/MrEthical07/goNotes/jwt"
	"github.com/MrEthical07/goNotes/password"
)

// SecurityReport is the effective security posture of a built engine. It carries no secrets
// and is meant for startup logs and health pages.
type SecurityReport struct {
	SigningAlgorithm string
	// TokenLifetime is zero when tokens are minted without exp.
	TokenLifetime time.Duration
	Password      PasswordConfigReport

	LoginThrottle    ThrottleReport
	IPThrottle       bool
	RegisterThrottle ThrottleReport

	AuditEnabled   bool
	MetricsEnabled bool
}

// PasswordConfigReport describes the KDF applied to every stored credential.
type PasswordConfigReport struct {
	Algorithm     string
	Iterations    int
	SaltLength    int
	KeyLength     int
	MaxConcurrent int
}

// ThrottleReport describes one fixed-window budget.
type ThrottleReport struct {
	Enabled     bool
	MaxAttempts int
	Window      time.Duration
}

// SecurityReport summarizes the engine configuration.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	var lifetime time.Duration
	if e.config.JWT.ExpiresIn != "" {
		lifetime, _ = jwt.ParseExpiresIn(e.config.JWT.ExpiresIn)
	}

	return SecurityReport{
		SigningAlgorithm: jwt.Algorithm,
		TokenLifetime:    lifetime,
		Password: PasswordConfigReport{
			Algorithm:     "PBKDF2-SHA512",
			Iterations:    password.Iterations,
			SaltLength:    password.SaltLength,
			KeyLength:     password.KeyLength,
			MaxConcurrent: e.config.Password.MaxConcurrent,
		},
		LoginThrottle: ThrottleReport{
			Enabled:     true,
			MaxAttempts: e.config.Security.MaxLoginAttempts,
			Window:      e.config.Security.LoginCooldownDuration,
		},
		IPThrottle: e.config.Security.EnableIPThrottle,
		RegisterThrottle: ThrottleReport{
			Enabled:     e.config.Security.EnableRegisterThrottle,
			MaxAttempts: e.config.Security.MaxRegisterAttempts,
			Window:      e.config.Security.RegisterCooldownDuration,
		},
		AuditEnabled:   e.config.Audit.Enabled,
		MetricsEnabled: e.config.Metrics.Enabled,
	}
}
