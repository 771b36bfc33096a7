package stats

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// HandlePlaceholder marks where the user handle goes in an endpoint template.
const HandlePlaceholder = "{handle}"

// ParseFunc maps a raw response body to a record. It returns an error
// wrapping ErrUpstream or ErrParse when the payload cannot be used.
type ParseFunc func(body []byte) (Record, error)

// Source describes one external statistics provider.
type Source struct {
	Name       string
	Endpoint   string
	Categories []string
	Parse      ParseFunc

	// Client overrides the fetcher's HTTP client for this source, e.g. with
	// a RateLimitedDoer.
	Client Doer
}

// URL substitutes handle into the endpoint template. The handle is
// query-escaped when the placeholder sits in the query string and
// path-escaped otherwise.
func (s Source) URL(handle string) (string, error) {
	idx := strings.Index(s.Endpoint, HandlePlaceholder)
	if idx < 0 {
		return "", fmt.Errorf("endpoint %q for %s has no %s placeholder", s.Endpoint, s.Name, HandlePlaceholder)
	}

	escaped := url.PathEscape(handle)
	if q := strings.IndexByte(s.Endpoint, '?'); q >= 0 && q < idx {
		escaped = url.QueryEscape(handle)
	}

	raw := strings.ReplaceAll(s.Endpoint, HandlePlaceholder, escaped)
	if _, err := url.Parse(raw); err != nil {
		return "", fmt.Errorf("invalid endpoint for %s: %w", s.Name, err)
	}
	return raw, nil
}

// conform checks that rec has exactly the declared categories and that
// every count is non-negative.
func (s Source) conform(rec Record) error {
	if len(rec) != len(s.Categories) {
		return Malformed("expected %d categories, got %d", len(s.Categories), len(rec))
	}
	for label, n := range rec {
		if !slices.Contains(s.Categories, label) {
			return Malformed("unexpected category %q", label)
		}
		if n < 0 {
			return Malformed("negative count %d for %q", n, label)
		}
	}
	return nil
}
