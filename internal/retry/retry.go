// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
)

// Policy returns the delay to wait after the given failed attempt (0-based)
type Policy func(attempt int) time.Duration

// Flat waits the same delay between every pair of attempts
func Flat(delay time.Duration) Policy {
	return func(int) time.Duration {
		return delay
	}
}

// Exponential grows the delay by multiplier each attempt, capped at max
func Exponential(initial, max time.Duration, multiplier float64) Policy {
	return func(attempt int) time.Duration {
		backoff := float64(initial) * math.Pow(multiplier, float64(attempt))
		if max > 0 && backoff > float64(max) {
			backoff = float64(max)
		}
		return time.Duration(backoff)
	}
}

// SleepFunc pauses for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config defines retry behavior
type Config struct {
	MaxAttempts int       // Total attempts, including the first one
	Backoff     Policy    // Delay between attempts
	Sleep       SleepFunc // Defaults to a context-aware timer
}

// DefaultConfig returns the fetch retry configuration: 3 attempts, 2s apart
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Backoff:     Flat(2 * time.Second),
		Sleep:       sleepContext,
	}
}

// ExhaustedError is returned when every attempt failed
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// permanentError marks an error that must not be retried
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so WithRetry returns it without further attempts
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// WithRetry executes fn until it succeeds, returns a permanent error, or
// MaxAttempts is reached. fn receives the 1-based attempt number.
func WithRetry(ctx context.Context, cfg Config, fn func(attempt int) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff == nil {
		cfg.Backoff = Flat(0)
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}

	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn(attempt + 1)
		if err == nil {
			if attempt > 0 {
				log.Debug().
					Int("attempts", attempt+1).
					Msg("Retry succeeded")
			}
			return nil
		}

		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			log.Debug().
				Err(err).
				Msg("Error is not retryable")
			return perm.err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			backoff := cfg.Backoff(attempt)

			log.Warn().
				Int("attempt", attempt+1).
				Int("max_attempts", cfg.MaxAttempts).
				Dur("backoff", backoff).
				Err(err).
				Msg("Attempt failed, retrying")

			if err := cfg.Sleep(ctx, backoff); err != nil {
				return err
			}
		}
	}

	return &ExhaustedError{Attempts: cfg.MaxAttempts, Last: lastErr}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

// StatusCoder is an interface for errors that provide an HTTP status code
type StatusCoder interface {
	GetStatusCode() int
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

func (e HTTPError) GetStatusCode() int {
	return e.StatusCode
}

// NewHTTPError creates a new HTTPError
func NewHTTPError(statusCode int, status string, message string) HTTPError {
	return HTTPError{
		StatusCode: statusCode,
		Status:     status,
		Message:    message,
	}
}
