package request

import (
	"fmt"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/search/sortby"
)

// Result limits.
const (
	DefaultMaxResults = 100
	MaxMaxResults     = 1000
)

// Options controls a single search request.
type Options struct {
	useCache    bool
	sortBy      sortby.Option
	maxResults  int
	strictLimit bool
}

// NewOptions validates and normalizes request options.
// Defaults: sort=relevance, maxResults=100. maxResults is clamped to 1000.
// With strictLimit a result set larger than maxResults fails with ErrTooManyResults
// instead of being truncated.
func NewOptions(useCache bool, sortBy sortby.Option, maxResults int, strictLimit bool) (Options, error) {
	if sortBy == "" {
		sortBy = sortby.Relevance
	}
	if !sortBy.IsValid() {
		return Options{}, fmt.Errorf("%w: invalid sort option %q", domain.ErrInvalidQuery, sortBy)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxMaxResults {
		maxResults = MaxMaxResults
	}
	return Options{
		useCache:    useCache,
		sortBy:      sortBy,
		maxResults:  maxResults,
		strictLimit: strictLimit,
	}, nil
}

// DefaultOptions returns cached, relevance-ordered options with the default cap.
func DefaultOptions() Options {
	return Options{useCache: true, sortBy: sortby.Relevance, maxResults: DefaultMaxResults}
}

// UseCache reports whether the result cache is consulted and populated.
func (o Options) UseCache() bool { return o.useCache }

// SortBy returns the document ordering.
func (o Options) SortBy() sortby.Option { return o.sortBy }

// MaxResults returns the per-kind list cap.
func (o Options) MaxResults() int { return o.maxResults }

// StrictLimit reports whether exceeding MaxResults is an error.
func (o Options) StrictLimit() bool { return o.strictLimit }
