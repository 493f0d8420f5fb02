// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxLockout    = 24 * time.Hour
	maxIPLimiters = 10000
)

// LoginProtection combines a per-IP token bucket on the login route with
// account lockout after repeated failures. Both maps live in memory; a
// restart clears them, which is acceptable for a single admin account.
type LoginProtection struct {
	ipMu       sync.Mutex
	ipLimiters map[string]*rate.Limiter
	ipRate     rate.Limit
	ipBurst    int

	mu       sync.RWMutex
	attempts map[string]*attemptRecord

	maxFailed       int
	lockoutDuration time.Duration
	attemptWindow   time.Duration
}

// attemptRecord tracks login failures for one account.
type attemptRecord struct {
	count       int
	windowStart time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig tunes the protection. Zero fields fall back to the
// defaults below.
type LoginProtectionConfig struct {
	IPRateLimit       float64       // requests per second per IP
	IPBurst           int           // token bucket burst size
	MaxFailedAttempts int           // failures before the account locks
	LockoutDuration   time.Duration // base lockout, doubles per lockout
	AttemptWindow     time.Duration // window for counting failures
}

func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5, // one attempt per two seconds
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection builds the protection and starts its cleanup loop.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}

	lp := &LoginProtection{
		ipLimiters:      make(map[string]*rate.Limiter),
		ipRate:          rate.Limit(cfg.IPRateLimit),
		ipBurst:         cfg.IPBurst,
		attempts:        make(map[string]*attemptRecord),
		maxFailed:       cfg.MaxFailedAttempts,
		lockoutDuration: cfg.LockoutDuration,
		attemptWindow:   cfg.AttemptWindow,
	}
	go lp.cleanupLoop()
	return lp
}

// CheckIPRateLimit reports whether a login attempt from ip may proceed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	lp.ipMu.Lock()
	limiter, ok := lp.ipLimiters[ip]
	if !ok {
		limiter = rate.NewLimiter(lp.ipRate, lp.ipBurst)
		lp.ipLimiters[ip] = limiter
	}
	lp.ipMu.Unlock()
	return limiter.Allow()
}

// IsAccountLocked reports whether the account is locked and for how much
// longer.
func (lp *LoginProtection) IsAccountLocked(username string) (bool, time.Duration) {
	lp.mu.RLock()
	rec, ok := lp.attempts[username]
	lp.mu.RUnlock()

	if ok && time.Now().Before(rec.lockedUntil) {
		return true, time.Until(rec.lockedUntil)
	}
	return false, 0
}

// RecordFailedAttempt counts a failure. When the account crosses the
// threshold it locks with exponential backoff, and the returned duration is
// the lockout length.
func (lp *LoginProtection) RecordFailedAttempt(username string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := time.Now()
	rec, ok := lp.attempts[username]
	if !ok || now.Sub(rec.windowStart) > lp.attemptWindow {
		if !ok {
			rec = &attemptRecord{}
			lp.attempts[username] = rec
		}
		rec.count = 1
		rec.windowStart = now
		return false, 0
	}

	rec.count++
	if rec.count < lp.maxFailed {
		return false, 0
	}

	lockout := lp.lockoutDuration
	for i := 0; i < rec.lockouts && lockout < maxLockout; i++ {
		lockout *= 2
	}
	if lockout > maxLockout {
		lockout = maxLockout
	}

	rec.lockedUntil = now.Add(lockout)
	rec.lockouts++
	rec.count = 0

	slog.Warn("account locked after repeated login failures",
		"username", username,
		"lockouts", rec.lockouts,
		"duration", lockout,
	)
	return true, lockout
}

// RecordSuccessfulLogin clears failure tracking for the account.
func (lp *LoginProtection) RecordSuccessfulLogin(username string) {
	lp.mu.Lock()
	delete(lp.attempts, username)
	lp.mu.Unlock()
}

// GetRemainingAttempts returns how many failures the account has left before
// it locks.
func (lp *LoginProtection) GetRemainingAttempts(username string) int {
	lp.mu.RLock()
	rec, ok := lp.attempts[username]
	lp.mu.RUnlock()

	if !ok || time.Since(rec.windowStart) > lp.attemptWindow {
		return lp.maxFailed
	}
	if remaining := lp.maxFailed - rec.count; remaining > 0 {
		return remaining
	}
	return 0
}

func (lp *LoginProtection) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		lp.removeStale()
	}
}

func (lp *LoginProtection) removeStale() {
	lp.ipMu.Lock()
	if len(lp.ipLimiters) > maxIPLimiters {
		lp.ipLimiters = make(map[string]*rate.Limiter)
		slog.Info("reset login IP limiters, map grew too large")
	}
	lp.ipMu.Unlock()

	now := time.Now()
	lp.mu.Lock()
	for username, rec := range lp.attempts {
		if now.After(rec.lockedUntil) && now.Sub(rec.windowStart) > lp.attemptWindow {
			delete(lp.attempts, username)
		}
	}
	lp.mu.Unlock()
}

// Middleware rate limits POSTs to the login route per client IP. Other
// methods pass through so CORS preflights are unaffected.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded",
					"Too many login attempts, please slow down", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
