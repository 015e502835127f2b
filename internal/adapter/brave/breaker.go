package brave

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker/v2"

	"bravesearch/internal/infra/config"
)

// BreakerTransport wraps an Executor with a circuit breaker. When the
// remote service fails repeatedly (hard outage, revoked credential), the
// circuit opens and calls fail fast without spending their retry budget
// against a dead endpoint.
type BreakerTransport struct {
	inner   Executor
	breaker *gobreaker.CircuitBreaker[*RawResponse]
	logger  *slog.Logger
}

// NewBreakerTransport wraps inner with a circuit breaker configured from
// cfg. Zero-valued fields fall back to the config defaults.
func NewBreakerTransport(inner Executor, cfg config.BreakerConfig, logger *slog.Logger) *BreakerTransport {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	cb := gobreaker.NewCircuitBreaker[*RawResponse](gobreaker.Settings{
		Name:        "brave-search",
		MaxRequests: 1, // one probe in half-open state
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	return &BreakerTransport{inner: inner, breaker: cb, logger: logger}
}

// Execute implements Executor, routing the call through the breaker.
func (b *BreakerTransport) Execute(ctx context.Context, req *http.Request) (*RawResponse, error) {
	raw, err := b.breaker.Execute(func() (*RawResponse, error) {
		return b.inner.Execute(ctx, req)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("search circuit open: %w", err)
		}
		return nil, err
	}
	return raw, nil
}

// State returns the current breaker state for monitoring.
func (b *BreakerTransport) State() gobreaker.State {
	return b.breaker.State()
}

var _ Executor = (*BreakerTransport)(nil)
