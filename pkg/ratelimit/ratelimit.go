package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget toward an AI provider.
// The window resets a minute after its first consumption.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	remaining   int
	windowStart time.Time
}

// NewTokenLimiter creates a limiter allowing maxPerMin tokens per minute.
func NewTokenLimiter(maxPerMin int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin: maxPerMin,
		remaining: maxPerMin,
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetIfExpired()
	return l.remaining
}

// Wait blocks until n tokens are available or the context is done. Requests
// larger than the whole budget are allowed through once the window is fresh,
// otherwise they would never complete.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		l.resetIfExpired()

		if n >= l.maxPerMin && l.remaining == l.maxPerMin {
			l.remaining = 0
			l.markWindow()
			l.mu.Unlock()
			return nil
		}

		if n <= l.remaining {
			l.remaining -= n
			l.markWindow()
			l.mu.Unlock()
			return nil
		}

		wait := time.Until(l.windowStart.Add(time.Minute))
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *TokenLimiter) resetIfExpired() {
	if !l.windowStart.IsZero() && time.Since(l.windowStart) >= time.Minute {
		l.remaining = l.maxPerMin
		l.windowStart = time.Time{}
	}
}

func (l *TokenLimiter) markWindow() {
	if l.windowStart.IsZero() {
		l.windowStart = time.Now()
	}
}
