package brave

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bravesearch/internal/domain"
	"bravesearch/internal/infra/config"
	"bravesearch/internal/infra/logger"
)

func testSearchConfig(endpoint string) config.SearchConfig {
	return config.SearchConfig{
		Endpoint:    endpoint,
		Timeout:     5 * time.Second,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	}
}

func TestBackendSearchEndToEnd(t *testing.T) {
	var gotToken, gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken.Store(r.Header.Get("X-Subscription-Token"))
		gotQuery.Store(r.URL.Query().Get("q"))
		w.Write([]byte(`{
			"query": {"original": "golang"},
			"web": {"results": [
				{"title": "The Go Programming Language", "url": "https://go.dev", "description": "Go home"}
			]}
		}`))
	}))
	defer srv.Close()

	b := NewBackend(testSearchConfig(srv.URL), "tok", logger.Discard())
	resp, err := b.Search(context.Background(), domain.Query{Text: "golang", Count: 5})
	require.NoError(t, err)

	assert.Equal(t, "tok", gotToken.Load())
	assert.Equal(t, "golang", gotQuery.Load())
	assert.Equal(t, "golang", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://go.dev", resp.Results[0].URL)
}

func TestBackendSearchRetriesThroughTransport(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"web": {"results": [{"url": "https://third.example", "title": "third"}]}}`))
	}))
	defer srv.Close()

	b := NewBackend(testSearchConfig(srv.URL), "tok", logger.Discard())
	resp, err := b.Search(context.Background(), domain.Query{Text: "x", Count: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "third", resp.Results[0].Title, "response must reflect the final attempt")
}

func TestBackendSearchPropagatesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b := NewBackend(testSearchConfig(srv.URL), "tok", logger.Discard())
	_, err := b.Search(context.Background(), domain.Query{Text: "x", Count: 5})
	require.Error(t, err)

	var te *domain.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.StatusTooManyRequests, te.Status)
}

func TestBackendSearchValidatesBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	b := NewBackend(testSearchConfig(srv.URL), "tok", logger.Discard())
	_, err := b.Search(context.Background(), domain.Query{Text: "", Count: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuery))
	assert.Equal(t, int32(0), calls.Load(), "validation errors must not hit the network")
}
