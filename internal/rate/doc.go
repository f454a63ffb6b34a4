// Package rate provides Redis-backed fixed-window counters for login and registration throttling.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - al:  login per-email
//   - ali: login per-IP
//   - ari: registration per-IP
//
// A window opens on the first failed attempt and lasts LoginCooldownDuration no matter
// how many attempts follow. MaxLoginAttempts failures are tolerated; the next one is
// rejected and every attempt after it is refused until the key expires. Registration
// counts every attempt, successful or not, against MaxRegisterAttempts.
//
// # What this package must NOT do
//
//   - Decide what happens on a Redis failure; callers see [ErrRedisUnavailable] and choose.
//   - Be imported outside the goNotes module.
package rate
