package goNotes

import "errors"

var (
	// ErrUnauthorized wraps every token rejection. The underlying jwt error stays reachable
	// through errors.Is.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials reports a wrong password or an unknown email. Login never says which.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by a UserStore for a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is returned by a UserStore, or by Register, for a taken email.
	ErrAccountExists = errors.New("user already exists")
	// ErrInvalidInput reports a missing or blank registration or login field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLoginRateLimited reports an exhausted login attempt budget.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRegisterRateLimited reports an exhausted per-IP registration budget.
	ErrRegisterRateLimited = errors.New("registration rate limited")
	// ErrEngineNotReady is returned when an Engine method is called on a nil or closed engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrBackendUnavailable reports a failing UserStore or token signer.
	ErrBackendUnavailable = errors.New("auth backend unavailable")
)
