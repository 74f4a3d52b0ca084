package search

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/query"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
)

// Suggestion limits.
const (
	DefaultSuggestions = 10
	historySuggestions = 3
)

// QuickSearch returns autocomplete suggestions for a prefix: up to three
// matching history entries of the current user plus file and folder names.
// It never fails; without a session or with a prefix under two runes it returns nothing.
func (s *Service) QuickSearch(ctx context.Context, rawPrefix string, limit int) []suggestion.Suggestion {
	start := time.Now()
	defer func() { s.metrics.ObserveRequest("suggest", "ok", time.Since(start)) }()

	user, ok := s.session.CurrentUser(ctx)
	if !ok {
		return []suggestion.Suggestion{}
	}
	prefix := query.Normalize(rawPrefix)
	if utf8.RuneCountInString(prefix) < query.MinLength {
		return []suggestion.Suggestion{}
	}
	if limit <= 0 {
		limit = DefaultSuggestions
	}

	cands := make([]suggestion.Suggestion, 0, historySuggestions+limit)
	for _, it := range s.history.Match(user.ID, prefix, historySuggestions) {
		cands = append(cands, suggestion.Suggestion{
			Text:   it.Query,
			Source: suggestion.FromHistory,
			Score:  suggestion.HistoryScore,
		})
	}

	if half := limit / 2; half > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		// Files first, then folders. A source still running at the deadline contributes nothing.
		var (
			mu    sync.Mutex
			names [2][]suggestion.Suggestion
			wg    sync.WaitGroup
		)
		collect := func(i int, got []suggestion.Suggestion) {
			mu.Lock()
			names[i] = got
			mu.Unlock()
		}
		s.dispatch(&wg, record.KindDocument, func() { collect(0, s.sources.Documents.SuggestNames(ctx, prefix, half)) })
		s.dispatch(&wg, record.KindFolder, func() { collect(1, s.sources.Folders.SuggestNames(ctx, prefix, half)) })
		wait(ctx, &wg)

		mu.Lock()
		cands = append(cands, names[0]...)
		cands = append(cands, names[1]...)
		mu.Unlock()
	}

	return suggestion.Merge(cands, limit)
}
