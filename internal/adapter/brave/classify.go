package brave

import (
	"context"
	"errors"
	"net"

	"bravesearch/internal/domain"
)

// classifyStatus maps a non-200 HTTP status to a domain sentinel and a
// transience verdict. Only rate limiting and upstream unavailability are
// retried; every other client error is a caller mistake and surfaces
// immediately.
func classifyStatus(status int) (sentinel error, transient bool) {
	switch status {
	case 429:
		return domain.ErrRateLimit, true
	case 502, 503, 504:
		return domain.ErrUpstreamUnavailable, true
	case 401, 403:
		return domain.ErrAuthInvalid, false
	default:
		return nil, false
	}
}

// classifyNetError maps a network-level failure to a domain sentinel.
// Network failures (refused connections, resets, DNS trouble) are
// transient across the board; timeouts get their own sentinel for
// diagnostics. Caller cancellation is not a failure and must be checked
// before calling this.
func classifyNetError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.ErrTimeout
	}
	return domain.ErrUpstreamUnavailable
}
