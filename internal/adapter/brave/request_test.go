package brave

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bravesearch/internal/domain"
)

const testEndpoint = "https://api.search.brave.com/res/v1/web/search"

func TestBuildRequestRequiredParams(t *testing.T) {
	q := domain.Query{Text: "  go concurrency  ", Count: 10}
	req, err := BuildRequest(context.Background(), testEndpoint, q, "token-1")
	require.NoError(t, err)

	v := req.URL.Query()
	assert.Equal(t, "go concurrency", v.Get("q"), "text must be trimmed")
	assert.Equal(t, "10", v.Get("count"))
	assert.Equal(t, "moderate", v.Get("safesearch"), "safesearch defaults to moderate")
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Equal(t, "gzip", req.Header.Get("Accept-Encoding"))
}

func TestBuildRequestOptionalParamsAbsent(t *testing.T) {
	q := domain.Query{Text: "x", Count: 5}
	req, err := BuildRequest(context.Background(), testEndpoint, q, "token-1")
	require.NoError(t, err)

	v := req.URL.Query()
	for _, p := range []string{"offset", "search_lang", "country", "freshness", "spellcheck"} {
		_, present := v[p]
		assert.False(t, present, "parameter %q must not be sent when unset", p)
	}
}

func TestBuildRequestOptionalParamsPresent(t *testing.T) {
	off := false
	q := domain.Query{
		Text:       "x",
		Count:      5,
		Offset:     15,
		Language:   "ja",
		Country:    "JP",
		SafeSearch: domain.SafeSearchStrict,
		Freshness:  domain.FreshnessWeek,
		Spellcheck: &off,
	}
	req, err := BuildRequest(context.Background(), testEndpoint, q, "token-1")
	require.NoError(t, err)

	v := req.URL.Query()
	assert.Equal(t, "15", v.Get("offset"))
	assert.Equal(t, "ja", v.Get("search_lang"))
	assert.Equal(t, "JP", v.Get("country"))
	assert.Equal(t, "strict", v.Get("safesearch"))
	assert.Equal(t, "pw", v.Get("freshness"))
	assert.Equal(t, "0", v.Get("spellcheck"))
}

func TestBuildRequestAutoLanguageNotSent(t *testing.T) {
	q := domain.Query{Text: "x", Count: 5, Language: "auto"}
	req, err := BuildRequest(context.Background(), testEndpoint, q, "token-1")
	require.NoError(t, err)

	_, present := req.URL.Query()["search_lang"]
	assert.False(t, present, "auto language must not be serialized")
}

func TestBuildRequestCredentialPlacement(t *testing.T) {
	q := domain.Query{Text: "x", Count: 5}
	req, err := BuildRequest(context.Background(), testEndpoint, q, "super-secret")
	require.NoError(t, err)

	assert.Equal(t, "super-secret", req.Header.Get("X-Subscription-Token"))
	assert.NotContains(t, req.URL.String(), "super-secret", "credential must never appear in the URL")
}

func TestBuildRequestRejectsInvalidQuery(t *testing.T) {
	bad := []domain.Query{
		{Text: "", Count: 5},
		{Text: "   ", Count: 5},
		{Text: "x", Count: 0},
		{Text: "x", Count: 51},
		{Text: "x", Count: 5, Offset: -1},
	}
	for _, q := range bad {
		_, err := BuildRequest(context.Background(), testEndpoint, q, "token-1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidQuery), "query %+v: got %v", q, err)
	}
}

func TestBuildRequestRejectsMissingCredential(t *testing.T) {
	q := domain.Query{Text: "x", Count: 5}
	_, err := BuildRequest(context.Background(), testEndpoint, q, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthInvalid))
}
