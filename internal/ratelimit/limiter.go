// Package ratelimit implements a fixed-window request counter keyed by a
// heuristic client fingerprint.
package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Default policy
const (
	DefaultWindow      = 5 * time.Minute
	DefaultMaxRequests = 10

	// maxAgentPrefix bounds how much of the User-Agent feeds the fingerprint
	maxAgentPrefix = 50
)

type window struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window counter. Windows reset at discrete boundaries;
// they do not slide.
type Limiter struct {
	mu          sync.Mutex
	entries     map[string]*window
	window      time.Duration
	maxRequests int
	now         func() time.Time
	log         zerolog.Logger
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock replaces the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithLogger attaches a logger used by the sweeper
func WithLogger(log zerolog.Logger) Option {
	return func(l *Limiter) {
		l.log = log.With().Str("component", "ratelimit").Logger()
	}
}

// New creates a Limiter allowing maxRequests per window per key.
// Non-positive arguments fall back to the defaults.
func New(windowDuration time.Duration, maxRequests int, opts ...Option) *Limiter {
	if windowDuration <= 0 {
		windowDuration = DefaultWindow
	}
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}

	l := &Limiter{
		entries:     make(map[string]*window),
		window:      windowDuration,
		maxRequests: maxRequests,
		now:         time.Now,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records a request for key and reports whether it is within the
// current window's budget. Rejected requests do not consume budget.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		l.entries[key] = &window{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if entry.count >= l.maxRequests {
		return false
	}

	entry.count++
	return true
}

// RetryAfter returns how long until key's window resets, or zero when the
// key has no active window.
func (l *Limiter) RetryAfter(key string) time.Duration {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || now.After(entry.resetAt) {
		return 0
	}
	return entry.resetAt.Sub(now)
}

// Sweep drops entries whose window has expired and returns how many were
// removed. Without it, keys that stop sending requests stay in the table
// forever.
func (l *Limiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, entry := range l.entries {
		if now.After(entry.resetAt) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
// It blocks, so callers run it in its own goroutine.
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = l.window
	}

	l.log.Info().Dur("interval", interval).Msg("Rate limit sweeper started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("Rate limit sweeper stopping")
			return
		case <-ticker.C:
			if removed := l.Sweep(); removed > 0 {
				l.log.Debug().Int("removed", removed).Int("tracked", l.Len()).Msg("Swept expired rate limit entries")
			}
		}
	}
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Fingerprint derives the rate limit key from the forwarded client address
// and a bounded prefix of the declared user agent. It is not an identity:
// rotating either header yields a fresh key.
func Fingerprint(clientAddr, userAgent string) string {
	addr := strings.TrimSpace(clientAddr)
	if i := strings.IndexByte(addr, ','); i >= 0 {
		addr = strings.TrimSpace(addr[:i])
	}
	if addr == "" {
		addr = "unknown"
	}

	agent := userAgent
	if runes := []rune(agent); len(runes) > maxAgentPrefix {
		agent = string(runes[:maxAgentPrefix])
	}

	return addr + "|" + agent
}
