package houdiniswap

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error. Every failure the SDK surfaces carries exactly
// one kind so callers can branch without string matching.
type Kind string

const (
	// KindAuthentication marks 401 responses. Never retried.
	KindAuthentication Kind = "Authentication"
	// KindAPI marks non-retryable API error responses, or retryable ones
	// observed after the retry budget is exhausted.
	KindAPI Kind = "API"
	// KindNetwork marks transport-level failures (connection, timeout, DNS)
	// surfaced after retries are exhausted.
	KindNetwork Kind = "Network"
	// KindValidation marks malformed caller input or malformed API payloads.
	// Never retried; it indicates a contract violation, not a transient
	// condition.
	KindValidation Kind = "Validation"
	// KindTimeout marks a poller deadline that expired before a target
	// status was observed.
	KindTimeout Kind = "Timeout"
)

// Error is the single error type returned by the SDK. The populated fields
// depend on the kind: API errors carry StatusCode and Body, validation
// errors carry Fields, timeout errors carry LastStatus.
type Error struct {
	Kind    Kind
	Message string
	Cause   error

	// StatusCode is the HTTP status for API and authentication errors.
	StatusCode int
	// Body is the decoded error body when the API sent one.
	Body any
	// Fields names the missing record fields for validation errors.
	Fields []string
	// LastStatus is the last transaction status a poller observed before
	// timing out. Nil when no status was ever fetched.
	LastStatus *Status

	// Attempt and MaxRetries describe the retry loop position at failure.
	Attempt    int
	MaxRetries int
	RequestID  string
	Method     string
	Path       string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: missing fields [%s]", msg, strings.Join(e.Fields, ", "))
	}
	if e.LastStatus != nil {
		msg = fmt.Sprintf("%s (last status: %s)", msg, e.LastStatus.Status)
	}
	if e.Attempt > 0 {
		// MaxRetries counts retries after the first attempt, so the total
		// attempt budget is MaxRetries+1.
		msg = fmt.Sprintf("%s (attempt %d of %d)", msg, e.Attempt, e.MaxRetries+1)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error kinds for errors.Is.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// IsTransient reports whether err represents a failure that might succeed
// on retry: network errors and retryable API statuses (429 and 5xx).
// Authentication, validation and other 4xx failures are not transient.
func IsTransient(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindNetwork:
		return true
	case KindAPI:
		return e.StatusCode == 429 || e.StatusCode >= 500
	default:
		return false
	}
}

// kindOf extracts the Kind from an SDK error, or "" for foreign errors.
func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}
