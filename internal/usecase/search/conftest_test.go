package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
	"github.com/kailas-cloud/homesearch/internal/repository/history"
	"github.com/kailas-cloud/homesearch/internal/repository/resultcache"
	"github.com/kailas-cloud/homesearch/internal/session"
)

// --- Mocks ---

// mockSource returns its items for every query and counts calls.
type mockSource[T any] struct {
	kind   record.Kind
	items  []T
	names  []suggestion.Suggestion
	hang   bool
	panics bool
	// block, when set, stalls every call until closed, ignoring the context.
	block chan struct{}

	mu           sync.Mutex
	calls        int
	suggestCalls int
}

func (m *mockSource[T]) Search(ctx context.Context, _ string, _ filter.Set) result.Source[T] {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.panics {
		panic("source exploded")
	}
	if m.block != nil {
		<-m.block
	}
	if m.hang {
		<-ctx.Done()
		return result.EmptySource[T](m.kind, 0)
	}
	return result.NewSource(m.kind, m.items, len(m.items), time.Millisecond)
}

func (m *mockSource[T]) SuggestNames(_ context.Context, _ string, limit int) []suggestion.Suggestion {
	m.mu.Lock()
	m.suggestCalls++
	m.mu.Unlock()
	if m.block != nil {
		<-m.block
	}
	if len(m.names) > limit {
		return m.names[:limit]
	}
	return m.names
}

func (m *mockSource[T]) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockSource[T]) SuggestCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suggestCalls
}

type fixture struct {
	svc     *Service
	docs    *mockSource[record.Document]
	folders *mockSource[record.Folder]
	cats    *mockSource[record.Category]
	members *mockSource[record.Member]
	cache   *resultcache.Cache
	history *history.Tracker
	now     time.Time
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	fx := &fixture{
		docs:    &mockSource[record.Document]{kind: record.KindDocument},
		folders: &mockSource[record.Folder]{kind: record.KindFolder},
		cats:    &mockSource[record.Category]{kind: record.KindCategory},
		members: &mockSource[record.Member]{kind: record.KindMember},
		now:     testNow,
	}
	clock := func() time.Time { return fx.now }

	cache, err := resultcache.New(resultcache.DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("resultcache.New: %v", err)
	}
	fx.cache = cache.WithClock(clock)
	fx.history = history.New(history.Config{}).WithClock(clock)

	svc, err := New(
		Sources{Documents: fx.docs, Folders: fx.folders, Categories: fx.cats, Members: fx.members},
		session.Context{}, fx.cache, fx.history, cfg, nil, nil,
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(svc.Close)
	fx.svc = svc.WithClock(clock)
	return fx
}

func (fx *fixture) adapterCalls() int {
	return fx.docs.Calls() + fx.folders.Calls() + fx.cats.Calls() + fx.members.Calls()
}

func userCtx(id string) context.Context {
	return session.WithUser(context.Background(), domain.User{ID: id, DisplayName: id})
}
