// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a keyed token-bucket limiter. Each key gets its own bucket
// that refills at limit tokens per window. Idle buckets are swept lazily.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
	idle    time.Duration
	swept   time.Time
	now     func() time.Time
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// New allows limit requests per window for each key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		every:   rate.Limit(float64(limit) / window.Seconds()),
		burst:   limit,
		idle:    2 * window,
		now:     time.Now,
	}
}

// Allow reports whether a request for key may proceed and consumes a token.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// Reset forgets key's bucket.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.swept) < l.idle {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.seen) > l.idle {
			delete(l.buckets, k)
		}
	}
	l.swept = now
}

// ClientIP returns the first X-Forwarded-For hop, else X-Real-IP, else the
// host part of RemoteAddr.
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

// LoginLimiter throttles sign-in attempts per client IP and per email.
type LoginLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewLoginLimiter allows ipLimit attempts per minute per IP and emailLimit
// attempts per five minutes per email.
func NewLoginLimiter(ipLimit, emailLimit int) *LoginLimiter {
	return &LoginLimiter{
		ip:    New(ipLimit, time.Minute),
		email: New(emailLimit, 5*time.Minute),
	}
}

// Check reports whether a login attempt may proceed. When it may not, the
// returned message is safe to show to the caller.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if ll == nil {
		return true, ""
	}
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "too many login attempts; wait a minute and try again"
	}
	if key := strings.ToLower(strings.TrimSpace(email)); key != "" && !ll.email.Allow(key) {
		return false, "too many login attempts for this account; wait a few minutes"
	}
	return true, ""
}

// ResetEmail clears the per-email budget after a successful login.
func (ll *LoginLimiter) ResetEmail(email string) {
	if ll == nil {
		return
	}
	if key := strings.ToLower(strings.TrimSpace(email)); key != "" {
		ll.email.Reset(key)
	}
}
