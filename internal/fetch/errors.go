package fetch

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound marks an HTTP 404. Never retried; the scraper decides whether
// the document falls back to PDF-only handling.
var ErrNotFound = errors.New("document not found")

// ErrBreakerOpen is returned while the circuit breaker refuses calls.
var ErrBreakerOpen = errors.New("circuit breaker open")

// RateLimitedError carries the source's Retry-After hint when present.
type RateLimitedError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (status %d, retry after %s)", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited (status %d)", e.StatusCode)
}

// TransientError wraps timeouts, connection resets and 5xx responses.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient fetch error: %v", e.Err)
	}
	return fmt.Sprintf("transient fetch error: status %d", e.StatusCode)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsRetryable classifies errors for the fetch retrier.
func IsRetryable(err error) bool {
	var rl *RateLimitedError
	var tr *TransientError
	return errors.As(err, &rl) || errors.As(err, &tr)
}
