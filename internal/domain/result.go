package domain

// ResultKind distinguishes the flavor of a search result record.
type ResultKind string

const (
	KindWeb   ResultKind = "web"
	KindImage ResultKind = "image"
	KindVideo ResultKind = "video"
	KindNews  ResultKind = "news"
)

// SearchResult is one normalized result record. URL is the only required
// field; absent textual fields are empty strings, never nil.
type SearchResult struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Kind        ResultKind `json:"kind"`

	// Optional metadata the service sometimes includes.
	Hostname      string   `json:"hostname,omitempty"`
	Age           string   `json:"age,omitempty"`
	Language      string   `json:"language,omitempty"`
	ExtraSnippets []string `json:"extra_snippets,omitempty"`
}

// SearchResponse is the ordered result of one successful fetch.
// Immutable once returned; callers must not mutate Results.
type SearchResponse struct {
	// Query is the query text as echoed by the service, or the requested
	// text when the service omits the echo.
	Query string `json:"query"`
	// Results is the normalized record sequence. Empty means the service
	// found no matches, which is a valid outcome, not an error.
	Results []SearchResult `json:"results"`
	// TotalEstimated is the service's total-count hint when present,
	// otherwise len(Results).
	TotalEstimated int `json:"total_estimated"`
	// Offset is the pagination offset this response was produced for.
	Offset int `json:"offset"`
}
