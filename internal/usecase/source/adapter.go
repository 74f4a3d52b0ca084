// Package source adapts the record stores to the search engine.
// Adapters never fail: store errors, cancellations and panics degrade to an empty result.
package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/query"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
	"github.com/kailas-cloud/homesearch/internal/metrics"
)

// Failure reasons reported to metrics.
const (
	ReasonError = "error"
	ReasonPanic = "panic"
)

// Adapter searches one record kind.
type Adapter[T any] struct {
	kind    record.Kind
	list    func(ctx context.Context) ([]T, error)
	fields  func(T) []string
	allow   func(T, filter.Set) bool
	name    func(T) string
	tag     suggestion.Source
	metrics *metrics.Search
	logger  *zap.Logger
}

// Kind returns the record kind served by the adapter.
func (a *Adapter[T]) Kind() record.Kind { return a.kind }

// Search returns the records matching the normalized query and the filters.
// Matching is a case-insensitive substring test on the searchable fields;
// the wildcard query matches every record.
func (a *Adapter[T]) Search(ctx context.Context, normalized string, f filter.Set) (res result.Source[T]) {
	if !f.AllowsKind(a.kind) {
		return result.EmptySource[T](a.kind, 0)
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res = a.fail(start, ReasonPanic, fmt.Errorf("panic: %v", r))
		}
	}()

	items, err := a.load(ctx)
	if err != nil {
		return a.fail(start, ReasonError, err)
	}

	wildcard := normalized == query.Wildcard
	matched := make([]T, 0, len(items))
	for _, it := range items {
		if !wildcard && !a.matches(it, normalized) {
			continue
		}
		if !a.allow(it, f) {
			continue
		}
		matched = append(matched, it)
	}

	elapsed := time.Since(start)
	a.metrics.ObserveSource(string(a.kind), elapsed)
	return result.NewSource(a.kind, matched, len(matched), elapsed)
}

// SuggestNames returns names starting with the normalized prefix, best score first.
// Archived records are never suggested. Adapters without a name field return nil.
func (a *Adapter[T]) SuggestNames(ctx context.Context, prefix string, limit int) (out []suggestion.Suggestion) {
	if a.name == nil || limit <= 0 || prefix == "" {
		return nil
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.fail(start, ReasonPanic, fmt.Errorf("panic: %v", r))
			out = nil
		}
	}()

	items, err := a.load(ctx)
	if err != nil {
		a.fail(start, ReasonError, err)
		return nil
	}

	prefix = strings.ToLower(prefix)
	var cands []suggestion.Suggestion
	for _, it := range items {
		if !a.allow(it, filter.Empty()) {
			continue
		}
		n := a.name(it)
		if n == "" || !strings.HasPrefix(strings.ToLower(n), prefix) {
			continue
		}
		cands = append(cands, suggestion.Suggestion{
			Text:   n,
			Source: a.tag,
			Score:  suggestion.NameScore(prefix, n),
		})
	}
	return suggestion.Merge(cands, limit)
}

func (a *Adapter[T]) load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := a.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", a.kind, err)
	}
	return items, nil
}

func (a *Adapter[T]) matches(it T, normalized string) bool {
	for _, v := range a.fields(it) {
		if strings.Contains(strings.ToLower(v), normalized) {
			return true
		}
	}
	return false
}

func (a *Adapter[T]) fail(start time.Time, reason string, err error) result.Source[T] {
	elapsed := time.Since(start)
	a.metrics.SourceFailed(string(a.kind), reason)
	a.metrics.ObserveSource(string(a.kind), elapsed)
	a.logger.Warn("Source degraded to empty result",
		zap.String("source", string(a.kind)),
		zap.String("reason", reason),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
	return result.EmptySource[T](a.kind, elapsed)
}
