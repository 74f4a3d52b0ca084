package search

import (
	"context"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/history"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
)

// Source searches one record kind. Implementations never fail; errors degrade to an empty result.
type Source[T any] interface {
	Search(ctx context.Context, normalized string, f filter.Set) result.Source[T]
}

// NameSuggester proposes record names starting with a prefix.
type NameSuggester interface {
	SuggestNames(ctx context.Context, prefix string, limit int) []suggestion.Suggestion
}

// DocumentSource searches documents and suggests file names.
type DocumentSource interface {
	Source[record.Document]
	NameSuggester
}

// FolderSource searches folders and suggests folder names.
type FolderSource interface {
	Source[record.Folder]
	NameSuggester
}

// Sources bundles the four record adapters.
type Sources struct {
	Documents  DocumentSource
	Folders    FolderSource
	Categories Source[record.Category]
	Members    Source[record.Member]
}

// SessionProvider resolves the user of a request.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (domain.User, bool)
}

// Cache stores small aggregate results.
type Cache interface {
	Get(key string) (result.Aggregate, bool)
	Put(key string, r result.Aggregate) bool
	Len() int
	Clear()
}

// HistoryTracker records per-user searches.
type HistoryTracker interface {
	Record(userID, text string, cacheHit bool) bool
	List(userID string, limit int) []history.Item
	Match(userID, substr string, limit int) []history.Item
	Clear(userID string)
	Stats() history.Stats
}
