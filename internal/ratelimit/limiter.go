// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimiter defines the interface for rate limiting implementations.
//
// Wait blocks until the next request may start. If the context is cancelled
// before that, the context error is returned.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// SleepFunc pauses for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real-time SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IntervalLimiter separates consecutive Wait completions by at least the
// configured interval. It uses a token bucket with a burst of one, so the
// first call after an idle period proceeds immediately.
//
// The limiter is shared process-wide; callers are expected to issue one
// request at a time.
type IntervalLimiter struct {
	limiter  *rate.Limiter
	interval time.Duration
	now      func() time.Time
	sleep    SleepFunc
}

// NewIntervalLimiter creates a limiter enforcing the given minimum interval.
// A non-positive interval disables limiting.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	l := &IntervalLimiter{
		interval: interval,
		now:      time.Now,
		sleep:    Sleep,
	}
	if interval > 0 {
		l.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return l
}

// WithClock replaces the time source and sleep function (used by tests)
func (l *IntervalLimiter) WithClock(now func() time.Time, sleep SleepFunc) *IntervalLimiter {
	if now != nil {
		l.now = now
	}
	if sleep != nil {
		l.sleep = sleep
	}
	return l
}

// Interval returns the configured minimum interval
func (l *IntervalLimiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the interval since the previous request has elapsed
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := l.now()
	r := l.limiter.ReserveN(now, 1)
	if !r.OK() {
		return fmt.Errorf("rate limiter cannot satisfy reservation")
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	log.Debug().
		Dur("delay", delay).
		Msg("Rate limit delay")

	if err := l.sleep(ctx, delay); err != nil {
		r.CancelAt(l.now())
		return err
	}
	return nil
}
