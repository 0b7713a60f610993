package houdiniswap

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/actuallyrizzn/houdiniswap-sdk/internal/backoff"
)

// Default retry configuration, matching the partner API's documented
// transient statuses.
const (
	DefaultMaxRetries    = 3
	DefaultBackoffFactor = 1 * time.Second
)

// DefaultRetryableStatuses returns the status codes retried by default.
func DefaultRetryableStatuses() []int {
	return []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	}
}

// RetryPolicy decides whether a failed attempt is retried and how long to
// wait first. Immutable after client construction.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt, so a
	// call makes at most MaxRetries+1 transport invocations.
	MaxRetries int
	// BackoffFactor scales the exponential wait:
	// wait = BackoffFactor * 2^attempt, attempt starting at 0.
	BackoffFactor time.Duration
	// RetryableStatuses is the set of HTTP statuses treated as transient.
	RetryableStatuses map[int]struct{}
}

// NewRetryPolicy builds a policy from a status list. An empty list selects
// the defaults.
func NewRetryPolicy(maxRetries int, factor time.Duration, statuses ...int) RetryPolicy {
	if len(statuses) == 0 {
		statuses = DefaultRetryableStatuses()
	}
	set := make(map[int]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return RetryPolicy{MaxRetries: maxRetries, BackoffFactor: factor, RetryableStatuses: set}
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return NewRetryPolicy(DefaultMaxRetries, DefaultBackoffFactor)
}

// Retryable reports whether status is in the retryable set.
func (p RetryPolicy) Retryable(status int) bool {
	_, ok := p.RetryableStatuses[status]
	return ok
}

// Backoff returns the wait before retrying the given zero-based attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	return backoff.Exponential(attempt, p.BackoffFactor)
}

// ShouldRetry classifies one attempt outcome. err is the transport error,
// resp the response when err is nil. It returns the wait duration and
// whether a retry should happen; a server-supplied Retry-After overrides
// the exponential wait.
func (p RetryPolicy) ShouldRetry(resp *http.Response, err error, attempt int) (time.Duration, bool) {
	if attempt >= p.MaxRetries {
		return 0, false
	}

	var delay time.Duration
	switch {
	case err != nil:
		// Transport-level failures are always transient.
	case resp != nil && p.Retryable(resp.StatusCode):
		delay = parseRetryAfter(resp.Header.Get("Retry-After"))
	default:
		return 0, false
	}

	if delay == 0 {
		delay = p.Backoff(attempt)
	}
	return delay, true
}

// parseRetryAfter parses a Retry-After header value, supporting both
// delay-seconds and HTTP-date formats. Returns 0 when absent or invalid.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if seconds > 0 {
			delay := time.Duration(seconds) * time.Second
			if delay > time.Hour {
				delay = time.Hour
			}
			return delay
		}
		return 0
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay > 0 && delay <= time.Hour {
			return delay
		}
	}

	return 0
}
