// Package usecase exposes the client's single public entry point,
// composing validation, caching, the remote backend and observability.
package usecase

import (
	"context"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"bravesearch/internal/adapter/cache"
	"bravesearch/internal/domain"
	"bravesearch/internal/infra/config"
	"bravesearch/internal/infra/tracer"
)

// SearchBackend abstracts the remote search adapter so tests can swap in
// fakes with deterministic responses and call counters.
type SearchBackend interface {
	Search(ctx context.Context, q domain.Query) (*domain.SearchResponse, error)
}

// Client is the fetch orchestrator. Concurrent Fetch calls are
// independent; the cache is the only shared state and synchronizes
// itself.
type Client struct {
	cfg     config.SearchConfig
	backend SearchBackend
	cache   *cache.Cache
	logger  *slog.Logger
}

// NewClient composes the client. cache may be nil to disable caching.
func NewClient(cfg config.SearchConfig, backend SearchBackend, c *cache.Cache, logger *slog.Logger) *Client {
	return &Client{cfg: cfg, backend: backend, cache: c, logger: logger}
}

// Fetch resolves one logical query: validate, consult the cache, and on
// a miss execute against the backend and store the result. Failures are
// never cached, and an empty result list is a valid response, not an
// error.
func (c *Client) Fetch(ctx context.Context, q domain.Query) (*domain.SearchResponse, error) {
	if q.Count == 0 {
		q.Count = c.cfg.DefaultCount
	}

	ctx, span := tracer.StartSpan(ctx, "client.fetch")
	defer span.End()

	callID := ulid.Make().String()
	log := c.logger.With("call_id", callID)
	span.SetAttributes(
		tracer.StringAttr("search.call_id", callID),
		tracer.IntAttr("search.count", q.Count),
		tracer.IntAttr("search.offset", q.Offset),
	)

	if err := q.Validate(); err != nil {
		tracer.RecordError(span, err)
		return nil, domain.WrapOp("fetch", err)
	}

	key := q.Key()
	if resp, ok := c.cache.Get(key); ok {
		span.SetAttributes(tracer.BoolAttr("search.cache_hit", true))
		tracer.SetOK(span)
		log.Debug("search cache hit", "results", len(resp.Results))
		return resp, nil
	}
	span.SetAttributes(tracer.BoolAttr("search.cache_hit", false))

	resp, err := c.backend.Search(ctx, q)
	if err != nil {
		tracer.RecordError(span, err)
		log.Warn("search failed",
			"error", err,
			"retryable", domain.IsRetryable(err),
		)
		return nil, domain.WrapOp("fetch", err)
	}

	c.cache.Put(key, resp)
	tracer.SetOK(span)
	log.Debug("search completed",
		"results", len(resp.Results),
		"total_estimated", resp.TotalEstimated,
	)
	return resp, nil
}
