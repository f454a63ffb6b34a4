package goNotes

import (
	"errors"
	"runtime"
	"time"

	"github.com/MrEthical07/goNotes/jwt"
)

// Config is the full Engine configuration. Start from [DefaultConfig] and override fields.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// JWTConfig controls token minting.
type JWTConfig struct {
	// Secret is the HS256 key. Required.
	Secret []byte
	// ExpiresIn is a "<integer><s|m|h|d>" lifetime such as "7d". Empty mints tokens without exp.
	ExpiresIn string
}

// PasswordConfig bounds KDF work.
type PasswordConfig struct {
	// MaxConcurrent caps simultaneous PBKDF2 derivations across Register and Login.
	MaxConcurrent int
}

// SecurityConfig controls login and registration throttling.
type SecurityConfig struct {
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration

	// EnableRegisterThrottle caps registrations per client IP. Requests without an IP in
	// their context are never counted.
	EnableRegisterThrottle   bool
	MaxRegisterAttempts      int
	RegisterCooldownDuration time.Duration
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters and KDF latency histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns a Config with everything but JWT.Secret filled in.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			ExpiresIn: "7d",
		},
		Password: PasswordConfig{
			MaxConcurrent: runtime.NumCPU(),
		},
		Security: SecurityConfig{
			EnableIPThrottle:      false,
			MaxLoginAttempts:      5,
			LoginCooldownDuration: 15 * time.Minute,

			EnableRegisterThrottle:   false,
			MaxRegisterAttempts:      10,
			RegisterCooldownDuration: time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) == 0 {
		return errors.New("JWT Secret must be set")
	}
	if c.JWT.ExpiresIn != "" {
		if _, err := jwt.ParseExpiresIn(c.JWT.ExpiresIn); err != nil {
			return err
		}
	}

	if c.Password.MaxConcurrent <= 0 {
		return errors.New("Password MaxConcurrent must be > 0")
	}

	if c.Security.MaxLoginAttempts <= 0 {
		return errors.New("Security MaxLoginAttempts must be > 0")
	}
	if c.Security.LoginCooldownDuration <= 0 {
		return errors.New("Security LoginCooldownDuration must be > 0")
	}

	if c.Security.EnableRegisterThrottle {
		if c.Security.MaxRegisterAttempts <= 0 {
			return errors.New("Security MaxRegisterAttempts must be > 0 when register throttle is enabled")
		}
		if c.Security.RegisterCooldownDuration <= 0 {
			return errors.New("Security RegisterCooldownDuration must be > 0 when register throttle is enabled")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
