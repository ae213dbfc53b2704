package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a per-key token bucket: limit requests per window, refilled
// continuously.
type RateLimiter struct {
	limiters map[string]*entry
	limit    int
	window   time.Duration
	every    rate.Limit
	mu       sync.Mutex
}

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// New creates a new rate limiter. A non-positive limit denies every request.
func New(limit int, window time.Duration) *RateLimiter {
	every := rate.Limit(0)
	if limit > 0 && window > 0 {
		every = rate.Every(window / time.Duration(limit))
	}
	return &RateLimiter{
		limiters: make(map[string]*entry),
		limit:    limit,
		window:   window,
		every:    every,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.limiters[key]
	if !ok {
		burst := rl.limit
		if burst < 0 {
			burst = 0
		}
		e = &entry{limiter: rate.NewLimiter(rl.every, burst)}
		rl.limiters[key] = e
	}
	e.lastAccess = time.Now()
	return e.limiter
}

// Allow checks if a request is allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).Allow()
}

// Limit returns the configured number of requests per window.
func (rl *RateLimiter) Limit() int {
	return rl.limit
}

// GetRemaining returns the number of whole tokens left for the given key
func (rl *RateLimiter) GetRemaining(key string) int {
	remaining := int(rl.get(key).Tokens())
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// RetryAfter returns how long the caller should wait before the next token.
func (rl *RateLimiter) RetryAfter() time.Duration {
	if rl.limit <= 0 {
		return rl.window
	}
	return rl.window / time.Duration(rl.limit)
}

// Cleanup drops limiters idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := time.Now().Add(-maxIdle)
	for key, e := range rl.limiters {
		if e.lastAccess.Before(threshold) {
			delete(rl.limiters, key)
		}
	}
}

// Size returns the number of tracked keys.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup(maxIdle)
		}
	}
}
