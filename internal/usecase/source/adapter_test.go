package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/query"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
	"github.com/kailas-cloud/homesearch/internal/metrics"
)

// --- Mocks ---

type mockStore struct {
	docs    []record.Document
	folders []record.Folder
	cats    []record.Category
	members []record.Member
	err     error
	panic   bool
	calls   int
}

func (m *mockStore) ListDocuments(context.Context) ([]record.Document, error) {
	m.calls++
	if m.panic {
		panic("corrupt index")
	}
	return m.docs, m.err
}

func (m *mockStore) ListFolders(context.Context) ([]record.Folder, error) {
	m.calls++
	return m.folders, m.err
}

func (m *mockStore) ListCategories(context.Context) ([]record.Category, error) {
	m.calls++
	return m.cats, m.err
}

func (m *mockStore) ListMembers(context.Context) ([]record.Member, error) {
	m.calls++
	return m.members, m.err
}

func mustFilter(t *testing.T, p filter.Params) filter.Set {
	t.Helper()
	f, err := filter.New(p)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}
	return f
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func docID(d record.Document) string { return d.ID }

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	jan = time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	jun = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
)

func sampleDocs() []record.Document {
	return []record.Document{
		{ID: "d1", Name: "Invoice March", Type: "pdf", Size: 100, Created: jan, CategoryID: "tax", OwnerID: "alice"},
		{ID: "d2", Name: "Car manual", Type: "pdf", Description: "see invoice inside", Size: 5000, Created: jun, OwnerID: "bob"},
		{ID: "d3", Name: "Holiday", Type: "jpg", Size: 300, OwnerID: "alice"},
		{ID: "d4", Name: "Old invoice", Type: "pdf", Size: 50, Created: jan, Archived: true},
	}
}

// --- Search ---

func TestDocuments_MatchFields(t *testing.T) {
	a := NewDocuments(&mockStore{docs: sampleDocs()}, nil, nil)

	tests := []struct {
		q    string
		want []string
	}{
		{"invoice", []string{"d1", "d2"}},
		{"pdf", []string{"d1", "d2"}},
		{"holi", []string{"d3"}},
		{"nothing", []string{}},
		{query.Wildcard, []string{"d1", "d2", "d3"}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			res := a.Search(context.Background(), tt.q, filter.Empty())
			got := ids(res.Items(), docID)
			if !equal(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.q, got, tt.want)
			}
			if res.Total() != len(tt.want) {
				t.Errorf("Total() = %d, want %d", res.Total(), len(tt.want))
			}
			if res.Kind() != record.KindDocument {
				t.Errorf("Kind() = %q", res.Kind())
			}
		})
	}
}

func TestDocuments_Predicates(t *testing.T) {
	a := NewDocuments(&mockStore{docs: sampleDocs()}, nil, nil)
	from, to := jan.AddDate(0, 0, -1), jan.AddDate(0, 0, 1)

	tests := []struct {
		name string
		p    filter.Params
		want []string
	}{
		{"type", filter.Params{Types: []string{"JPG"}}, []string{"d3"}},
		{"category", filter.Params{Categories: []string{"tax"}}, []string{"d1"}},
		{"owner", filter.Params{Members: []string{"alice"}}, []string{"d1", "d3"}},
		{"size", filter.Params{MinSize: ptr(int64(100)), MaxSize: ptr(int64(300))}, []string{"d1", "d3"}},
		{"date excludes undated", filter.Params{DateFrom: &from, DateTo: &to}, []string{"d1"}},
		{"archived", filter.Params{IncludeArchived: true}, []string{"d1", "d2", "d3", "d4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Search(context.Background(), query.Wildcard, mustFilter(t, tt.p))
			if got := ids(res.Items(), docID); !equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestFoldersCategoriesMembers(t *testing.T) {
	store := &mockStore{
		folders: []record.Folder{
			{ID: "f1", Name: "Taxes 2024", CategoryID: "tax", OwnerID: "alice"},
			{ID: "f2", Name: "Receipts", Description: "tax receipts", CategoryID: "home"},
		},
		cats: []record.Category{
			{ID: "tax", Name: "Taxes"},
			{ID: "home", Name: "Home", Description: "tax deductible repairs"},
		},
		members: []record.Member{
			{ID: "alice", DisplayName: "Alice", Email: "alice@example.com"},
			{ID: "bob", DisplayName: "Bob", Email: "bob@tax-office.example"},
		},
	}
	ctx := context.Background()

	folders := NewFolders(store, nil, nil).Search(ctx, "tax", filter.Empty())
	if folders.Total() != 2 {
		t.Errorf("folders total = %d, want 2", folders.Total())
	}
	byCat := NewFolders(store, nil, nil).Search(ctx, "tax", mustFilter(t, filter.Params{Categories: []string{"home"}}))
	if byCat.Total() != 1 || byCat.Items()[0].ID != "f2" {
		t.Errorf("folders by category = %+v", byCat.Items())
	}

	cats := NewCategories(store, nil, nil).Search(ctx, "tax", mustFilter(t, filter.Params{Categories: []string{"tax"}}))
	if cats.Total() != 1 || cats.Items()[0].ID != "tax" {
		t.Errorf("categories = %+v", cats.Items())
	}

	members := NewMembers(store, nil, nil).Search(ctx, "tax", filter.Empty())
	if members.Total() != 1 || members.Items()[0].ID != "bob" {
		t.Errorf("members by email = %+v", members.Items())
	}
	onlyAlice := NewMembers(store, nil, nil).Search(ctx, query.Wildcard, mustFilter(t, filter.Params{Members: []string{"alice"}}))
	if onlyAlice.Total() != 1 {
		t.Errorf("members allow-list total = %d", onlyAlice.Total())
	}
}

func TestSearch_KindExcludedSkipsStore(t *testing.T) {
	store := &mockStore{docs: sampleDocs()}
	a := NewDocuments(store, nil, nil)

	res := a.Search(context.Background(), "invoice", mustFilter(t, filter.Params{Kinds: []record.Kind{record.KindFolder}}))
	if res.Total() != 0 {
		t.Errorf("Total() = %d, want 0", res.Total())
	}
	if store.calls != 0 {
		t.Errorf("store called %d times", store.calls)
	}
}

func TestSearch_SoftFailure(t *testing.T) {
	tests := []struct {
		name   string
		store  *mockStore
		reason string
	}{
		{"error", &mockStore{err: errors.New("connection refused")}, ReasonError},
		{"panic", &mockStore{panic: true}, ReasonPanic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			m := metrics.NewSearch()
			a := NewDocuments(tt.store, m, zap.New(core))

			res := a.Search(context.Background(), "invoice", filter.Empty())
			if res.Total() != 0 || len(res.Items()) != 0 {
				t.Errorf("expected empty result, got %d", res.Total())
			}
			if v := testutil.ToFloat64(m.SourceFailures.WithLabelValues("documents", tt.reason)); v != 1 {
				t.Errorf("failures{%s} = %v, want 1", tt.reason, v)
			}
			if logs.FilterField(zap.String("source", "documents")).Len() != 1 {
				t.Errorf("expected one warn log, got %d", logs.Len())
			}
		})
	}
}

func TestSearch_CanceledContext(t *testing.T) {
	store := &mockStore{docs: sampleDocs()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewDocuments(store, nil, nil).Search(ctx, "invoice", filter.Empty())
	if res.Total() != 0 {
		t.Errorf("Total() = %d, want 0", res.Total())
	}
	if store.calls != 0 {
		t.Error("canceled search must not hit the store")
	}
}

// --- SuggestNames ---

func TestSuggestNames(t *testing.T) {
	store := &mockStore{docs: []record.Document{
		{ID: "1", Name: "Invoice March"},
		{ID: "2", Name: "invoice"},
		{ID: "3", Name: "Insurance"},
		{ID: "4", Name: "Invoice old", Archived: true},
		{ID: "5", Name: "My invoice"},
	}}
	got := NewDocuments(store, nil, nil).SuggestNames(context.Background(), "inv", 5)

	if len(got) != 2 {
		t.Fatalf("got %d suggestions: %+v", len(got), got)
	}
	if got[0].Text != "invoice" || got[1].Text != "Invoice March" {
		t.Errorf("order = %q, %q", got[0].Text, got[1].Text)
	}
	if got[0].Source != suggestion.FromFileName {
		t.Errorf("Source = %q", got[0].Source)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("shorter name should score higher: %v vs %v", got[0].Score, got[1].Score)
	}

	exact := NewDocuments(store, nil, nil).SuggestNames(context.Background(), "invoice", 1)
	if len(exact) != 1 || exact[0].Score != 1.0 {
		t.Errorf("exact match = %+v, want score 1.0", exact)
	}
}

func TestSuggestNames_Folders(t *testing.T) {
	store := &mockStore{folders: []record.Folder{{ID: "f1", Name: "Taxes"}}}
	got := NewFolders(store, nil, nil).SuggestNames(context.Background(), "ta", 3)
	if len(got) != 1 || got[0].Source != suggestion.FromFolderName {
		t.Errorf("got %+v", got)
	}
}

func TestSuggestNames_Degrades(t *testing.T) {
	m := metrics.NewSearch()
	a := NewDocuments(&mockStore{panic: true}, m, nil)
	if got := a.SuggestNames(context.Background(), "inv", 3); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	if v := testutil.ToFloat64(m.SourceFailures.WithLabelValues("documents", ReasonPanic)); v != 1 {
		t.Errorf("failures = %v", v)
	}

	if got := NewCategories(&mockStore{}, nil, nil).SuggestNames(context.Background(), "ta", 3); got != nil {
		t.Error("categories do not suggest names")
	}
	if got := NewDocuments(&mockStore{docs: sampleDocs()}, nil, nil).SuggestNames(context.Background(), "inv", 0); got != nil {
		t.Error("zero limit should return nil")
	}
}
