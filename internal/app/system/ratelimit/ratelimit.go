// Package ratelimit throttles sign-in attempts with sliding windows.
// Per-credential lockout lives in the credential store; this layer sits
// in front of it and caps request volume per IP and per username, so a
// flood never reaches bcrypt.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter is a sliding-window counter keyed by string. Safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per duration per key.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
	}
	go l.cleanupLoop(duration * 2)
	return l
}

// Allow reports whether a request for key fits in the current window,
// counting it when it does.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the window for a key. Called after a successful sign-in
// so a legitimate user is not penalized for earlier typos.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the client IP, preferring the proxy headers set by
// the load balancer over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter combines an IP window and a username window: the IP
// window blunts spraying from one host, the username window blunts a
// distributed attack on one account.
type LoginLimiter struct {
	ip       *Limiter
	username *Limiter
}

// NewLoginLimiter returns a limiter with sign-in defaults: 10 attempts
// per IP per minute, 5 per username per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return &LoginLimiter{
		ip:       New(10, time.Minute),
		username: New(5, 5*time.Minute),
	}
}

// Check reports whether a sign-in attempt may proceed.
func (ll *LoginLimiter) Check(r *http.Request, username string) bool {
	if !ll.ip.Allow(ClientIP(r)) {
		return false
	}
	if u := normalizeKey(username); u != "" {
		return ll.username.Allow(u)
	}
	return true
}

// ResetUsername clears the username window after a successful sign-in.
func (ll *LoginLimiter) ResetUsername(username string) {
	if u := normalizeKey(username); u != "" {
		ll.username.Reset(u)
	}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
