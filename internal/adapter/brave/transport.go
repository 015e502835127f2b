package brave

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"bravesearch/internal/domain"
	"bravesearch/internal/infra/config"
	"bravesearch/internal/infra/tracer"
)

const (
	// maxBodySize caps how much of a response body is ever read.
	maxBodySize = 512 * 1024
	// bodyExcerptLimit caps the body slice carried in a TransportError.
	bodyExcerptLimit = 300
)

// RawResponse is the raw payload of a successful (HTTP 200) call.
type RawResponse struct {
	Status int
	Body   []byte
}

// Executor executes an outbound request and returns the raw payload or a
// classified error. Implemented by Transport and BreakerTransport.
type Executor interface {
	Execute(ctx context.Context, req *http.Request) (*RawResponse, error)
}

// callState tracks one logical call through the retry state machine.
type callState int

const (
	statePending callState = iota
	stateRetrying
	stateSucceeded
	stateFailed
)

// retryState is scoped to a single call and destroyed when it resolves.
// Attempts share nothing across concurrent calls.
type retryState struct {
	state   callState
	attempt int
	budget  int
	backoff time.Duration

	// resolution, valid in stateSucceeded / stateFailed
	raw      *RawResponse
	sentinel error
	status   int
	excerpt  string
}

// Transport executes requests with a fixed per-attempt timeout and a
// bounded exponential-backoff retry policy for transient failures.
// Safe for concurrent use.
type Transport struct {
	client      *http.Client
	maxRetries  int
	baseBackoff time.Duration
	limiter     *rate.Limiter
	logger      *slog.Logger

	// sleep is the backoff suspension point; injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTransport builds a Transport from configuration. When rate limiting
// is enabled, a shared token bucket gates every attempt so concurrent
// calls collectively respect the service's rate ceiling.
func NewTransport(cfg config.SearchConfig, logger *slog.Logger) *Transport {
	t := &Transport{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
			Timeout: cfg.Timeout,
		},
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.BaseBackoff,
		logger:      logger,
		sleep:       sleepCtx,
	}
	if cfg.RateLimit.Enabled {
		burst := cfg.RateLimit.Burst
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), burst)
	}
	return t
}

// Execute runs the retry state machine for one request. Transient
// outcomes (429, 502, 503, 504, network failures) are retried with
// doubling backoff until the budget runs out; anything else fails
// immediately. The backoff sleep blocks only this call and honors ctx,
// so a caller can abandon the call at any retry boundary.
func (t *Transport) Execute(ctx context.Context, req *http.Request) (*RawResponse, error) {
	rs := retryState{
		state:   statePending,
		budget:  t.maxRetries,
		backoff: t.baseBackoff,
	}

	for {
		switch rs.state {
		case statePending:
			rs.attempt++
			t.runAttempt(ctx, req, &rs)

		case stateRetrying:
			t.logger.Debug("transient search failure, backing off",
				"status", rs.status,
				"attempt", rs.attempt,
				"backoff", rs.backoff,
				"remaining", rs.budget,
			)
			if err := t.sleep(ctx, rs.backoff); err != nil {
				return nil, err
			}
			rs.backoff *= 2
			rs.budget--
			rs.state = statePending

		case stateSucceeded:
			return rs.raw, nil

		case stateFailed:
			return nil, &domain.TransportError{
				Status:      rs.status,
				BodyExcerpt: rs.excerpt,
				Err:         rs.sentinel,
			}

		default:
			return nil, fmt.Errorf("transport: invalid state %d", rs.state)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
}

// runAttempt issues one outbound call and advances the state machine.
func (t *Transport) runAttempt(ctx context.Context, req *http.Request, rs *retryState) {
	// Reset per-attempt resolution; only the final attempt's outcome
	// survives into the returned error.
	rs.status, rs.sentinel, rs.excerpt = 0, nil, ""

	ctx, span := tracer.StartSpan(ctx, "transport.attempt")
	defer span.End()
	span.SetAttributes(tracer.IntAttr("search.attempt", rs.attempt))
	defer func() {
		span.SetAttributes(tracer.IntAttr("search.status", rs.status))
		if rs.sentinel != nil {
			tracer.RecordError(span, rs.sentinel)
		} else {
			tracer.SetOK(span)
		}
	}()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			rs.state = stateFailed
			rs.sentinel = err
			return
		}
	}

	resp, err := t.client.Do(req.Clone(ctx))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			rs.state = stateFailed
			rs.sentinel = context.Canceled
			return
		}
		rs.status = 0
		rs.sentinel = fmt.Errorf("%w: %v", classifyNetError(err), err)
		if rs.budget > 0 {
			rs.state = stateRetrying
		} else {
			rs.state = stateFailed
		}
		return
	}
	defer resp.Body.Close()

	body, readErr := readBody(resp)

	if resp.StatusCode == http.StatusOK {
		if readErr != nil {
			rs.status = 0
			rs.sentinel = fmt.Errorf("%w: read body: %v", classifyNetError(readErr), readErr)
			if rs.budget > 0 {
				rs.state = stateRetrying
			} else {
				rs.state = stateFailed
			}
			return
		}
		rs.state = stateSucceeded
		rs.status = resp.StatusCode
		rs.raw = &RawResponse{Status: resp.StatusCode, Body: body}
		return
	}

	sentinel, transient := classifyStatus(resp.StatusCode)
	if sentinel == nil {
		sentinel = fmt.Errorf("unexpected status")
	}
	rs.status = resp.StatusCode
	rs.sentinel = sentinel
	rs.excerpt = excerpt(body)

	if transient && rs.budget > 0 {
		rs.state = stateRetrying
	} else {
		rs.state = stateFailed
	}
}

// readBody drains up to maxBodySize of the response, decompressing when
// the service honored our explicit Accept-Encoding: gzip.
func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBodySize))
}

// excerpt truncates an error body for diagnostics.
func excerpt(body []byte) string {
	if len(body) > bodyExcerptLimit {
		return string(body[:bodyExcerptLimit])
	}
	return string(body)
}

// sleepCtx blocks for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
