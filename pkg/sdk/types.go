package homesearch

import (
	"context"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/history"
	"github.com/kailas-cloud/homesearch/internal/domain/search/request"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/sortby"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
	"github.com/kailas-cloud/homesearch/internal/session"
	searchuc "github.com/kailas-cloud/homesearch/internal/usecase/search"
)

// Records.
type (
	Document = record.Document
	Folder   = record.Folder
	Category = record.Category
	Member   = record.Member
	Kind     = record.Kind
)

// Record kinds.
const (
	KindDocument = record.KindDocument
	KindFolder   = record.KindFolder
	KindCategory = record.KindCategory
	KindMember   = record.KindMember
)

// SortOption orders document results.
type SortOption = sortby.Option

// Sort options.
const (
	SortRelevance = sortby.Relevance
	SortDateDesc  = sortby.DateDesc
	SortDateAsc   = sortby.DateAsc
	SortNameAsc   = sortby.NameAsc
	SortNameDesc  = sortby.NameDesc
	SortSizeDesc  = sortby.SizeDesc
	SortSizeAsc   = sortby.SizeAsc
)

// Search inputs and outputs.
type (
	// Result is the merged outcome of one search.
	Result = result.Aggregate
	// Criteria is the input of AdvancedSearch. A blank Text matches every record.
	Criteria = request.Criteria
	// Suggestion is one autocomplete candidate.
	Suggestion = suggestion.Suggestion
	// HistoryItem is one recorded search.
	HistoryItem = history.Item
	// Statistics summarizes engine usage.
	Statistics = searchuc.Statistics
	// User is the household member a call acts for.
	User = domain.User
)

// Filter narrows a plain search. Zero fields are open.
type Filter = filter.Params

// SearchOptions controls a plain search.
type SearchOptions struct {
	NoCache     bool       // bypass the result cache
	SortBy      SortOption // default: relevance
	MaxResults  int        // per-kind cap, default 100, max 1000
	StrictLimit bool       // fail instead of truncating above MaxResults
}

// SessionProvider resolves the user of a call.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (User, bool)
}

// ContextWithUser attaches the acting user to ctx.
func ContextWithUser(ctx context.Context, u User) context.Context {
	return session.WithUser(ctx, u)
}

type staticSession struct {
	user User
}

func (s staticSession) CurrentUser(ctx context.Context) (User, bool) {
	return session.Static{User: s.user}.CurrentUser(ctx)
}
