package result

import (
	"maps"
	"slices"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/query"
	"github.com/kailas-cloud/homesearch/internal/domain/search/sortby"
)

// Source is the outcome of one adapter call. It is never mutated after construction.
type Source[T any] struct {
	kind    record.Kind
	items   []T
	total   int
	elapsed time.Duration
}

// NewSource creates a source result.
func NewSource[T any](kind record.Kind, items []T, total int, elapsed time.Duration) Source[T] {
	return Source[T]{kind: kind, items: items, total: total, elapsed: elapsed}
}

// EmptySource creates the zero-count result a failed adapter degrades to.
func EmptySource[T any](kind record.Kind, elapsed time.Duration) Source[T] {
	return Source[T]{kind: kind, elapsed: elapsed}
}

// Kind returns the record kind the result came from.
func (s Source[T]) Kind() record.Kind { return s.kind }

// Items returns a copy of the matched records in adapter order.
func (s Source[T]) Items() []T { return slices.Clone(s.items) }

// Total returns the number of records found.
func (s Source[T]) Total() int { return s.total }

// Elapsed returns the adapter call duration.
func (s Source[T]) Elapsed() time.Duration { return s.elapsed }

// Aggregate is the merged outcome of one search.
// TotalResults equals the sum of the four per-kind counts; reordering or
// truncating the lists never changes the counts.
type Aggregate struct {
	Query           string
	NormalizedQuery string

	Documents  []record.Document
	Folders    []record.Folder
	Categories []record.Category
	Members    []record.Member

	DocumentCount int
	FolderCount   int
	CategoryCount int
	MemberCount   int
	TotalResults  int

	SearchedAt time.Time
	DurationMs int64
	Timings    map[record.Kind]time.Duration

	Filters filter.Set
	SortBy  sortby.Option
}

// NewAggregate merges the four partial results.
func NewAggregate(
	q query.Query, f filter.Set,
	docs Source[record.Document], folders Source[record.Folder],
	cats Source[record.Category], members Source[record.Member],
	searchedAt time.Time, elapsed time.Duration,
) Aggregate {
	a := Aggregate{
		Query:           q.Raw(),
		NormalizedQuery: q.Normalized(),
		Documents:       docs.Items(),
		Folders:         folders.Items(),
		Categories:      cats.Items(),
		Members:         members.Items(),
		DocumentCount:   docs.Total(),
		FolderCount:     folders.Total(),
		CategoryCount:   cats.Total(),
		MemberCount:     members.Total(),
		SearchedAt:      searchedAt,
		DurationMs:      elapsed.Milliseconds(),
		Timings: map[record.Kind]time.Duration{
			record.KindDocument: docs.Elapsed(),
			record.KindFolder:   folders.Elapsed(),
			record.KindCategory: cats.Elapsed(),
			record.KindMember:   members.Elapsed(),
		},
		Filters: f,
		SortBy:  sortby.Relevance,
	}
	a.TotalResults = a.DocumentCount + a.FolderCount + a.CategoryCount + a.MemberCount
	return a
}

// Clone returns a deep copy that shares no mutable state with a.
func (a Aggregate) Clone() Aggregate {
	c := a
	c.Documents = slices.Clone(a.Documents)
	c.Folders = slices.Clone(a.Folders)
	c.Categories = slices.Clone(a.Categories)
	c.Members = slices.Clone(a.Members)
	c.Timings = maps.Clone(a.Timings)
	return c
}

// Truncate returns a copy whose per-kind lists hold at most limit items.
// Counts are left untouched. limit <= 0 means no cap.
func (a Aggregate) Truncate(limit int) Aggregate {
	c := a.Clone()
	if limit <= 0 {
		return c
	}
	c.Documents = capped(c.Documents, limit)
	c.Folders = capped(c.Folders, limit)
	c.Categories = capped(c.Categories, limit)
	c.Members = capped(c.Members, limit)
	return c
}

func capped[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
