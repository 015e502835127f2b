package domain

import (
	"fmt"
	"strings"
)

// Remote-service limits for a single query.
const (
	MinCount = 1
	MaxCount = 50
)

// SafeSearch controls adult-content filtering on the remote service.
type SafeSearch string

const (
	SafeSearchOff      SafeSearch = "off"
	SafeSearchModerate SafeSearch = "moderate"
	SafeSearchStrict   SafeSearch = "strict"
)

// Freshness restricts results to a recency window. The zero value means
// no restriction. The string values are the remote service's wire codes.
type Freshness string

const (
	FreshnessNone  Freshness = ""
	FreshnessDay   Freshness = "pd"
	FreshnessWeek  Freshness = "pw"
	FreshnessMonth Freshness = "pm"
)

// Query is an immutable logical search query. Construct it, call
// Validate, and pass it by value; nothing in the client mutates it.
type Query struct {
	// Text is the search text. Must be non-blank after trimming.
	Text string
	// Count is the number of results to request, in [MinCount, MaxCount].
	Count int
	// Offset is the zero-based pagination offset.
	Offset int
	// Language is the search language code (e.g. "en", "ja"). Optional;
	// "auto" is treated as unset, matching the service's default behavior.
	Language string
	// Country is the two-letter country code. Optional.
	Country string
	// SafeSearch is the content filtering level. Empty defaults to moderate.
	SafeSearch SafeSearch
	// Freshness restricts results to a recency window. Optional.
	Freshness Freshness
	// Spellcheck enables or disables query spellchecking. nil leaves the
	// decision to the service; the parameter is then not sent at all.
	Spellcheck *bool
}

// Validate checks the query against remote-service limits. It returns an
// error wrapping ErrInvalidQuery so callers can reject bad input before
// any network activity.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: text must not be blank", ErrInvalidQuery)
	}
	if q.Count < MinCount || q.Count > MaxCount {
		return fmt.Errorf("%w: count %d outside [%d,%d]", ErrInvalidQuery, q.Count, MinCount, MaxCount)
	}
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset %d is negative", ErrInvalidQuery, q.Offset)
	}
	switch q.SafeSearch {
	case "", SafeSearchOff, SafeSearchModerate, SafeSearchStrict:
	default:
		return fmt.Errorf("%w: unknown safesearch %q (want: off, moderate, strict)", ErrInvalidQuery, q.SafeSearch)
	}
	switch q.Freshness {
	case FreshnessNone, FreshnessDay, FreshnessWeek, FreshnessMonth:
	default:
		return fmt.Errorf("%w: unknown freshness %q (want: pd, pw, pm)", ErrInvalidQuery, q.Freshness)
	}
	return nil
}

// EffectiveSafeSearch returns the filtering level with the moderate
// default applied.
func (q Query) EffectiveSafeSearch() SafeSearch {
	if q.SafeSearch == "" {
		return SafeSearchModerate
	}
	return q.SafeSearch
}

// EffectiveLanguage returns the language code, with "auto" collapsed to
// unset. The service rejects "auto" as an explicit value.
func (q Query) EffectiveLanguage() string {
	if q.Language == "auto" {
		return ""
	}
	return q.Language
}

// Key returns the cache identity of the query. Every field participates:
// count, offset, language, country, filtering and freshness all change
// what the service returns, so none of them may be collapsed.
func (q Query) Key() string {
	spell := "-"
	if q.Spellcheck != nil {
		spell = fmt.Sprintf("%t", *q.Spellcheck)
	}
	return fmt.Sprintf("%s|%d|%d|%s|%s|%s|%s|%s",
		strings.TrimSpace(q.Text), q.Count, q.Offset,
		q.EffectiveLanguage(), q.Country,
		q.EffectiveSafeSearch(), q.Freshness, spell)
}
