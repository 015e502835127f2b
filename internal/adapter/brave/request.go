// Package brave is the remote-service adapter: it builds authenticated
// requests for the Brave web-search API, executes them with bounded
// retries, and normalizes the JSON payload into domain records.
package brave

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bravesearch/internal/domain"
)

// authHeader carries the subscription token. The credential travels only
// here, never in the query string.
const authHeader = "X-Subscription-Token"

// BuildRequest validates q and serializes it into an outbound request.
// Optional parameters (offset, language, country, freshness, spellcheck)
// are present if and only if the corresponding field is set; the service
// distinguishes an absent parameter from an empty one.
func BuildRequest(ctx context.Context, endpoint string, q domain.Query, credential string) (*http.Request, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if credential == "" {
		return nil, fmt.Errorf("%w: missing credential", domain.ErrAuthInvalid)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	v := url.Values{}
	v.Set("q", strings.TrimSpace(q.Text))
	v.Set("count", strconv.Itoa(q.Count))
	v.Set("safesearch", string(q.EffectiveSafeSearch()))
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if lang := q.EffectiveLanguage(); lang != "" {
		v.Set("search_lang", lang)
	}
	if q.Country != "" {
		v.Set("country", q.Country)
	}
	if q.Freshness != domain.FreshnessNone {
		v.Set("freshness", string(q.Freshness))
	}
	if q.Spellcheck != nil {
		if *q.Spellcheck {
			v.Set("spellcheck", "1")
		} else {
			v.Set("spellcheck", "0")
		}
	}
	req.URL.RawQuery = v.Encode()

	req.Header.Set("Accept", "application/json")
	// Set explicitly, so the transport must also decompress explicitly;
	// see readBody.
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set(authHeader, credential)

	return req, nil
}
