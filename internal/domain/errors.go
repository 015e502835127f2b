package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer. Wrap these with fmt.Errorf("%w")
// so callers can dispatch with errors.Is regardless of added context.
var (
	// ErrInvalidQuery marks caller-supplied parameters that violate
	// remote-service constraints. Never retried, never cached.
	ErrInvalidQuery = fmt.Errorf("invalid query")

	// ErrRateLimit marks a 429 from the service. Transient.
	ErrRateLimit = fmt.Errorf("rate limit exceeded")

	// ErrUpstreamUnavailable marks 502/503/504 or a network-level
	// failure. Transient.
	ErrUpstreamUnavailable = fmt.Errorf("upstream unavailable")

	// ErrAuthInvalid marks a credential rejection (401/403). Terminal.
	ErrAuthInvalid = fmt.Errorf("authentication failed")

	// ErrTimeout marks an attempt that exceeded its deadline. Transient.
	ErrTimeout = fmt.Errorf("operation timed out")

	// ErrMalformedResponse marks a payload that could not be parsed at
	// all. Distinct from a well-formed payload with zero results.
	ErrMalformedResponse = fmt.Errorf("malformed response")
)

// TransportError reports a remote call that failed terminally: either a
// non-retryable status, or a transient condition that outlived the retry
// budget. Body is truncated before it gets here.
type TransportError struct {
	// Status is the HTTP status code, or 0 for network-level failures.
	Status int
	// BodyExcerpt is a truncated slice of the response body, for
	// diagnostics only.
	BodyExcerpt string
	// Err is the classified sentinel (ErrRateLimit, ErrAuthInvalid, ...)
	// or the underlying network error.
	Err error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transport: %v", e.Err)
	}
	if e.BodyExcerpt != "" {
		return fmt.Sprintf("transport: HTTP %d: %s", e.Status, e.BodyExcerpt)
	}
	return fmt.Sprintf("transport: HTTP %d: %v", e.Status, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// WrapOp adds operation context to an error. Returns nil if err is nil,
// enabling idiomatic use: return domain.WrapOp("fetch", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsRetryable reports whether err is a transient failure that may
// succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrUpstreamUnavailable) ||
		errors.Is(err, ErrTimeout)
}
