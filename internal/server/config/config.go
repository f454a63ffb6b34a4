// Package config loads notes-server settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then variables from
// .env files, then the process environment. A later layer overrides an earlier one only
// when it sets a non-empty value.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	goNotes "github.com/MrEthical07/goNotes"
	"github.com/MrEthical07/goNotes/internal/logging"
	"github.com/MrEthical07/goNotes/jwt"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment names recognised in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config holds runtime settings for notes-server.
type Config struct {
	Env          string   `yaml:"env"`
	Port         string   `yaml:"port"`
	JWTSecret    string   `yaml:"jwt_secret"`
	JWTExpiresIn string   `yaml:"jwt_expires_in"`
	DatabasePath string   `yaml:"database_path"`
	RedisAddr    string   `yaml:"redis_addr"`
	ClientDir    string   `yaml:"client_dir"`
	CORSOrigins  []string `yaml:"cors_origins"`

	Log      LogConfig      `yaml:"log"`
	Security SecurityConfig `yaml:"security"`
	Audit    AuditConfig    `yaml:"audit"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SecurityConfig struct {
	MaxLoginAttempts int           `yaml:"max_login_attempts"`
	LoginCooldown    time.Duration `yaml:"login_cooldown"`
	EnableIPThrottle bool          `yaml:"enable_ip_throttle"`

	EnableRegisterThrottle bool          `yaml:"enable_register_throttle"`
	MaxRegisterAttempts    int           `yaml:"max_register_attempts"`
	RegisterCooldown       time.Duration `yaml:"register_cooldown"`
}

type AuditConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns development defaults. JWTSecret is left empty and must be supplied.
func Default() Config {
	return Config{
		Env:          EnvDevelopment,
		Port:         "5000",
		JWTExpiresIn: "7d",
		DatabasePath: "gonotes.db",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Security: SecurityConfig{
			MaxLoginAttempts: 5,
			LoginCooldown:    15 * time.Minute,

			MaxRegisterAttempts: 10,
			RegisterCooldown:    time.Hour,
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Loader reads configuration from a YAML file, .env files and the environment.
type Loader struct {
	file     string
	dotenv   []string
	lookup   func(string) (string, bool)
	readFile func(string) ([]byte, error)
}

// NewLoader returns a loader reading ./.env and the process environment.
func NewLoader() *Loader {
	return &Loader{
		dotenv:   []string{".env"},
		lookup:   os.LookupEnv,
		readFile: os.ReadFile,
	}
}

// WithFile sets the YAML file. The file must exist when set.
func (l *Loader) WithFile(path string) *Loader {
	l.file = path
	return l
}

// WithDotEnv replaces the list of .env files. Missing files are skipped; no arguments
// disables .env loading.
func (l *Loader) WithDotEnv(paths ...string) *Loader {
	l.dotenv = paths
	return l
}

// WithLookup replaces the environment lookup, mainly for tests.
func (l *Loader) WithLookup(lookup func(string) (string, bool)) *Loader {
	if lookup != nil {
		l.lookup = lookup
	}
	return l
}

// Load applies every layer and validates the result.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	if l.file != "" {
		raw, err := l.readFile(l.file)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", l.file, err)
		}
	}

	dotenv, err := l.readDotEnv()
	if err != nil {
		return nil, err
	}

	get := func(key string) string {
		if v, ok := l.lookup(key); ok && v != "" {
			return v
		}
		return dotenv[key]
	}
	if err := applyEnv(&cfg, get); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) readDotEnv() (map[string]string, error) {
	out := map[string]string{}
	for _, path := range l.dotenv {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range values {
			if _, seen := out[k]; !seen {
				out[k] = v
			}
		}
	}
	return out, nil
}

func applyEnv(cfg *Config, get func(string) string) error {
	setString := func(dst *string, key string) {
		if v := get(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.Port, "PORT")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.JWTExpiresIn, "JWT_EXPIRES_IN")
	setString(&cfg.DatabasePath, "DATABASE_PATH")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.ClientDir, "CLIENT_DIR")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if v := get("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	if v := get("MAX_LOGIN_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_LOGIN_ATTEMPTS: %w", err)
		}
		cfg.Security.MaxLoginAttempts = n
	}
	if v := get("LOGIN_COOLDOWN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LOGIN_COOLDOWN: %w", err)
		}
		cfg.Security.LoginCooldown = d
	}
	if v := get("AUDIT_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUDIT_ENABLED: %w", err)
		}
		cfg.Audit.Enabled = b
	}

	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first setting that would stop the server from starting.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiresIn != "" {
		if _, err := jwt.ParseExpiresIn(c.JWTExpiresIn); err != nil {
			return fmt.Errorf("JWT_EXPIRES_IN: %w", err)
		}
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DatabasePath == "" {
		return errors.New("DATABASE_PATH is required")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT: unknown format %q", c.Log.Format)
	}
	if c.Security.MaxLoginAttempts <= 0 {
		return errors.New("security.max_login_attempts must be > 0")
	}
	if c.Security.LoginCooldown <= 0 {
		return errors.New("security.login_cooldown must be > 0")
	}
	return nil
}

// Production reports whether APP_ENV is production.
func (c *Config) Production() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Engine maps the settings onto an auth engine configuration.
func (c *Config) Engine() goNotes.Config {
	cfg := goNotes.DefaultConfig()
	cfg.JWT.Secret = []byte(c.JWTSecret)
	cfg.JWT.ExpiresIn = c.JWTExpiresIn
	cfg.Security.MaxLoginAttempts = c.Security.MaxLoginAttempts
	cfg.Security.LoginCooldownDuration = c.Security.LoginCooldown
	cfg.Security.EnableIPThrottle = c.Security.EnableIPThrottle
	cfg.Security.EnableRegisterThrottle = c.Security.EnableRegisterThrottle
	cfg.Security.MaxRegisterAttempts = c.Security.MaxRegisterAttempts
	cfg.Security.RegisterCooldownDuration = c.Security.RegisterCooldown
	cfg.Audit.Enabled = c.Audit.Enabled
	return cfg
}

// Logging returns the logger settings.
func (c *Config) Logging() logging.Config {
	return logging.Config{Level: c.Log.Level, Format: c.Log.Format}
}
