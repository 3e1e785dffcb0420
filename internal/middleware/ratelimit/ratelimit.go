// Package ratelimit throttles form submissions per client address using a
// fixed one-minute window.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"budgetbuddy/internal/metrics"
)

const (
	window   = time.Minute
	staleAge = 10 * time.Minute
)

type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{RequestsPerMinute: 60, CleanupInterval: 5 * time.Minute}
}

type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	cleanup time.Duration
	now     func() time.Time
}

type client struct {
	windowStart time.Time
	lastSeen    time.Time
	requests    int
}

func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}
	return &Limiter{
		clients: make(map[string]*client),
		limit:   cfg.RequestsPerMinute,
		cleanup: cfg.CleanupInterval,
		now:     time.Now,
	}
}

// Allow records one request from key and reports whether it is within the
// limit for the current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok || now.Sub(c.windowStart) >= window {
		l.clients[key] = &client{windowStart: now, lastSeen: now, requests: 1}
		return true
	}

	c.requests++
	c.lastSeen = now
	return c.requests <= l.limit
}

// Run drops idle clients periodically until ctx is cancelled.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.removeStale()
		case <-ctx.Done():
			return
		}
	}
}

func (l *Limiter) removeStale() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-staleAge)
	removed := 0
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Middleware limits POST requests only; reads are never throttled.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || l.Allow(extractIP(r)) {
				next.ServeHTTP(w, r)
				return
			}

			metrics.RateLimited.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
			if onLimit != nil {
				onLimit(w, r)
				return
			}
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		})
	}
}
