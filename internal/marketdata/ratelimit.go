package marketdata

import (
	"context"
	"sync"
	"time"
)

// defaultMinInterval is the minimum spacing between outbound provider
// calls, shared process-wide regardless of which symbol or caller
// triggered the fetch.
const defaultMinInterval = 500 * time.Millisecond

// RateLimiter enforces a minimum interval between calls. Concurrent
// callers serialize on the mutex, which is held across the wait so that
// the spacing guarantee holds under contention.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewRateLimiter creates a limiter with the given minimum spacing.
// A non-positive interval uses the default.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval <= 0 {
		interval = defaultMinInterval
	}
	return &RateLimiter{interval: interval}
}

// Wait blocks until the minimum interval since the previous permitted
// call has elapsed, or the context is done. On success the caller owns
// the next call slot.
func (l *RateLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.last.Add(l.interval)
	if wait := time.Until(next); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	l.last = time.Now()
	return nil
}
