package homesearch

import (
	"context"
	"time"
)

// SearchBuilder is a fluent builder for plain searches.
type SearchBuilder struct {
	client *Client
	text   string
	filter Filter
	opts   SearchOptions
}

// Find starts a search for text.
func (c *Client) Find(text string) *SearchBuilder {
	return &SearchBuilder{client: c, text: text}
}

// Kinds limits the search to the given record kinds.
func (b *SearchBuilder) Kinds(kinds ...Kind) *SearchBuilder {
	b.filter.Kinds = append(b.filter.Kinds, kinds...)
	return b
}

// Types keeps documents whose type is one of types.
func (b *SearchBuilder) Types(types ...string) *SearchBuilder {
	b.filter.Types = append(b.filter.Types, types...)
	return b
}

// InCategories keeps records in one of the given categories.
func (b *SearchBuilder) InCategories(ids ...string) *SearchBuilder {
	b.filter.Categories = append(b.filter.Categories, ids...)
	return b
}

// OwnedBy keeps records owned by one of the given members.
func (b *SearchBuilder) OwnedBy(ids ...string) *SearchBuilder {
	b.filter.Members = append(b.filter.Members, ids...)
	return b
}

// Size bounds the document size in bytes. A negative bound is open.
func (b *SearchBuilder) Size(minBytes, maxBytes int64) *SearchBuilder {
	if minBytes >= 0 {
		b.filter.MinSize = &minBytes
	}
	if maxBytes >= 0 {
		b.filter.MaxSize = &maxBytes
	}
	return b
}

// CreatedBetween bounds the creation date. A zero time is open.
func (b *SearchBuilder) CreatedBetween(from, to time.Time) *SearchBuilder {
	if !from.IsZero() {
		b.filter.DateFrom = &from
	}
	if !to.IsZero() {
		b.filter.DateTo = &to
	}
	return b
}

// WithArchived includes archived records.
func (b *SearchBuilder) WithArchived() *SearchBuilder {
	b.filter.IncludeArchived = true
	return b
}

// SortBy sets the document order.
func (b *SearchBuilder) SortBy(o SortOption) *SearchBuilder {
	b.opts.SortBy = o
	return b
}

// Limit caps each per-kind list. With strict, a larger result fails with ErrTooManyResults.
func (b *SearchBuilder) Limit(n int, strict bool) *SearchBuilder {
	b.opts.MaxResults = n
	b.opts.StrictLimit = strict
	return b
}

// NoCache bypasses the result cache.
func (b *SearchBuilder) NoCache() *SearchBuilder {
	b.opts.NoCache = true
	return b
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) (Result, error) {
	return b.client.Search(ctx, b.text, b.filter, b.opts)
}
