package brave

import (
	"context"
	"log/slog"

	"bravesearch/internal/domain"
	"bravesearch/internal/infra/config"
)

// Backend is the assembled remote-service adapter: request builder,
// resilient transport (optionally behind a circuit breaker), and
// normalizer. It holds the credential so nothing above this layer ever
// touches it.
type Backend struct {
	endpoint   string
	credential string
	exec       Executor
	logger     *slog.Logger
}

// NewBackend wires a Backend from configuration. The credential is
// received as an opaque string; loading it from the environment or a
// secret store is the caller's concern.
func NewBackend(cfg config.SearchConfig, credential string, logger *slog.Logger) *Backend {
	var exec Executor = NewTransport(cfg, logger)
	if cfg.Breaker.Enabled {
		exec = NewBreakerTransport(exec, cfg.Breaker, logger)
	}
	return &Backend{
		endpoint:   cfg.Endpoint,
		credential: credential,
		exec:       exec,
		logger:     logger,
	}
}

// Search executes one validated query end to end: build, execute,
// normalize. Retry scheduling happens inside the transport; by the time
// an error surfaces here the budget is already spent.
func (b *Backend) Search(ctx context.Context, q domain.Query) (*domain.SearchResponse, error) {
	req, err := BuildRequest(ctx, b.endpoint, q, b.credential)
	if err != nil {
		return nil, err
	}

	raw, err := b.exec.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	return Normalize(q, raw)
}
