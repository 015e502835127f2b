package brave

import (
	"encoding/json"
	"fmt"
	"strings"

	"bravesearch/internal/domain"
)

// maxExtraSnippets caps the per-record snippet carry-over.
const maxExtraSnippets = 3

// braveResponse models the relevant portion of the service payload.
// Everything is optional; the service varies its shape by result mix.
type braveResponse struct {
	Query *struct {
		Original string `json:"original"`
	} `json:"query"`
	Web *struct {
		Results    []braveResult `json:"results"`
		TotalCount int           `json:"total_count"`
	} `json:"web"`
}

type braveResult struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	Subtype       string   `json:"subtype"`
	Age           string   `json:"age"`
	Language      string   `json:"language"`
	ExtraSnippets []string `json:"extra_snippets"`
	MetaURL       *struct {
		Hostname string `json:"hostname"`
	} `json:"meta_url"`
}

// Normalize converts a raw payload into a uniform SearchResponse.
// A payload missing the web-results container entirely means the service
// found nothing; that is a valid empty response. Only a payload that
// cannot be parsed at all is an error.
func Normalize(q domain.Query, raw *RawResponse) (*domain.SearchResponse, error) {
	var payload braveResponse
	if err := json.Unmarshal(raw.Body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	resp := &domain.SearchResponse{
		Query:   strings.TrimSpace(q.Text),
		Results: []domain.SearchResult{},
		Offset:  q.Offset,
	}
	if payload.Query != nil && payload.Query.Original != "" {
		resp.Query = payload.Query.Original
	}
	if payload.Web == nil {
		return resp, nil
	}

	for _, r := range payload.Web.Results {
		if len(resp.Results) >= q.Count {
			break
		}
		// URL is the only required field; a record without one is not
		// addressable and gets dropped rather than failing the response.
		if r.URL == "" {
			continue
		}

		rec := domain.SearchResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Kind:        resultKind(r),
			Age:         r.Age,
			Language:    r.Language,
		}
		if r.MetaURL != nil {
			rec.Hostname = r.MetaURL.Hostname
		}
		if len(r.ExtraSnippets) > maxExtraSnippets {
			rec.ExtraSnippets = r.ExtraSnippets[:maxExtraSnippets]
		} else if len(r.ExtraSnippets) > 0 {
			rec.ExtraSnippets = r.ExtraSnippets
		}
		resp.Results = append(resp.Results, rec)
	}

	resp.TotalEstimated = payload.Web.TotalCount
	if resp.TotalEstimated <= 0 {
		resp.TotalEstimated = len(resp.Results)
	}
	return resp, nil
}

// resultKind maps the service's type/subtype hints onto a ResultKind.
func resultKind(r braveResult) domain.ResultKind {
	for _, hint := range []string{r.Subtype, r.Type} {
		switch hint {
		case "video":
			return domain.KindVideo
		case "news", "article":
			return domain.KindNews
		case "image", "images":
			return domain.KindImage
		}
	}
	return domain.KindWeb
}
