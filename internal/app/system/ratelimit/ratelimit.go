// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// sweepEvery is how many Allow calls pass between removals of expired windows.
const sweepEvery = 256

// Limiter counts events per key in fixed windows. It is safe for
// concurrent use and starts no goroutines.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]window
	limit   int
	period  time.Duration
	calls   int
	now     func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New allows limit events per key in each period.
func New(limit int, period time.Duration) *Limiter {
	return &Limiter{
		windows: make(map[string]window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records an event for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(now)
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		l.windows[key] = window{count: 1, expiresAt: now.Add(l.period)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	l.windows[key] = w
	return true
}

// Remaining returns how many events key may still record in its window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !l.now().Before(w.expiresAt) {
		return l.limit
	}
	if n := l.limit - w.count; n > 0 {
		return n
	}
	return 0
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Len is the number of keys currently tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// caller holds l.mu
func (l *Limiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}

// ClientIP extracts the client IP, preferring X-Forwarded-For and X-Real-IP
// as set by the fronting proxy, then RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

var (
	// ErrTooManyFromClient means the caller's address is over its limit.
	ErrTooManyFromClient = errors.New("too many sign-in attempts from this address")
	// ErrTooManyForAccount means the target email is over its limit.
	ErrTooManyForAccount = errors.New("too many sign-in attempts for this account")
)

// LoginGuard throttles password sign-in by client address and by email, so
// neither one address hammering many accounts nor many addresses hammering
// one account get far.
type LoginGuard struct {
	Client  *Limiter
	Account *Limiter
}

// NewLoginGuard allows 10 attempts per address per minute and 5 per account
// per 5 minutes.
func NewLoginGuard() *LoginGuard {
	return &LoginGuard{
		Client:  New(10, time.Minute),
		Account: New(5, 5*time.Minute),
	}
}

// Check records an attempt and returns an error when it must be refused.
func (g *LoginGuard) Check(r *http.Request, email string) error {
	if !g.Client.Allow(ClientIP(r)) {
		return ErrTooManyFromClient
	}
	if key := accountKey(email); key != "" && !g.Account.Allow(key) {
		return ErrTooManyForAccount
	}
	return nil
}

// Succeeded clears the account's counter after a successful sign-in.
func (g *LoginGuard) Succeeded(email string) {
	if key := accountKey(email); key != "" {
		g.Account.Reset(key)
	}
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
