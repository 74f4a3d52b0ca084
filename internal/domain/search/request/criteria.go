package request

import (
	"strings"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/query"
	"github.com/kailas-cloud/homesearch/internal/domain/search/sortby"
)

// Criteria is the structured input of an advanced search.
type Criteria struct {
	Text            string
	Types           []string
	Categories      []string
	Members         []string
	DateFrom        *time.Time
	DateTo          *time.Time
	MinSize         *int64
	MaxSize         *int64
	SortBy          sortby.Option
	IncludeArchived bool
	NoCache         bool
	MaxResults      int
}

// Build translates c into a query, a filter set and options.
// A blank Text becomes the wildcard query, which skips the length check.
func (c Criteria) Build() (query.Query, filter.Set, Options, error) {
	var q query.Query
	if strings.TrimSpace(c.Text) == "" {
		q = query.NewWildcard()
	} else {
		var err error
		if q, err = query.New(c.Text); err != nil {
			return query.Query{}, filter.Set{}, Options{}, err
		}
	}

	f, err := filter.New(filter.Params{
		Types:           c.Types,
		Categories:      c.Categories,
		Members:         c.Members,
		MinSize:         c.MinSize,
		MaxSize:         c.MaxSize,
		DateFrom:        c.DateFrom,
		DateTo:          c.DateTo,
		IncludeArchived: c.IncludeArchived,
	})
	if err != nil {
		return query.Query{}, filter.Set{}, Options{}, err
	}

	opts, err := NewOptions(!c.NoCache, c.SortBy, c.MaxResults, false)
	if err != nil {
		return query.Query{}, filter.Set{}, Options{}, err
	}
	return q, f, opts, nil
}
