package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/homesearch/internal/db"
	"github.com/kailas-cloud/homesearch/internal/db/memory"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
)

func TestDocuments_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore(), "")
	created := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	in := []record.Document{
		{ID: "d2", Name: "Invoice March", Type: "pdf", Size: 2048, Created: created,
			FolderID: "f1", CategoryID: "c1", OwnerID: "m1", Archived: true},
		{ID: "d1", Name: "Manual", Type: "txt", Description: "washing machine"},
	}
	if err := repo.PutDocuments(ctx, in); err != nil {
		t.Fatalf("PutDocuments: %v", err)
	}

	got, err := repo.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "d1" || got[1].ID != "d2" {
		t.Errorf("order = %s, %s; want d1, d2", got[0].ID, got[1].ID)
	}
	if got[0] != in[1] {
		t.Errorf("undated document = %+v, want %+v", got[0], in[1])
	}
	if !got[1].Created.Equal(created) || got[1].Size != 2048 || !got[1].Archived || got[1].OwnerID != "m1" {
		t.Errorf("dated document = %+v", got[1])
	}
	if !got[0].Created.IsZero() {
		t.Error("unknown created date should stay zero")
	}
}

func TestPut_AssignsMissingIDs(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore(), "")

	cats := []record.Category{{Name: "Taxes"}, {ID: "c-fixed", Name: "Home"}}
	if err := repo.PutCategories(ctx, cats); err != nil {
		t.Fatalf("PutCategories: %v", err)
	}
	if cats[0].ID == "" {
		t.Fatal("expected an assigned id")
	}
	if len(cats[0].ID) != 26 {
		t.Errorf("id %q is not a ULID", cats[0].ID)
	}
	if cats[1].ID != "c-fixed" {
		t.Errorf("existing id overwritten: %q", cats[1].ID)
	}

	got, _ := repo.ListCategories(ctx)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestFoldersMembers_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore(), "test:")

	folders := []record.Folder{{ID: "f1", Name: "Taxes 2024", CategoryID: "c1", OwnerID: "m1"}}
	members := []record.Member{{ID: "m1", DisplayName: "Alice", Email: "alice@example.com", Role: "owner"}}
	if err := repo.PutFolders(ctx, folders); err != nil {
		t.Fatal(err)
	}
	if err := repo.PutMembers(ctx, members); err != nil {
		t.Fatal(err)
	}

	gotF, err := repo.ListFolders(ctx)
	if err != nil || len(gotF) != 1 || gotF[0] != folders[0] {
		t.Errorf("ListFolders = %+v, %v", gotF, err)
	}
	gotM, err := repo.ListMembers(ctx)
	if err != nil || len(gotM) != 1 || gotM[0] != members[0] {
		t.Errorf("ListMembers = %+v, %v", gotM, err)
	}
	if docs, _ := repo.ListDocuments(ctx); len(docs) != 0 {
		t.Errorf("kinds leak into each other: %+v", docs)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := New(memory.NewStore(), "")
	_ = repo.PutMembers(ctx, []record.Member{{ID: "m1"}, {ID: "m2"}})

	if err := repo.Delete(ctx, record.KindMember, "m1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ := repo.ListMembers(ctx)
	if len(got) != 1 || got[0].ID != "m2" {
		t.Errorf("ListMembers = %+v", got)
	}
	if err := repo.Delete(ctx, "pets", "x"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestKeysUsePrefix(t *testing.T) {
	var keys []string
	ms := &mockStore{hsetMultiFn: func(_ context.Context, items []db.HashSetItem) error {
		for _, it := range items {
			keys = append(keys, it.Key)
		}
		return nil
	}}
	repo := New(ms, "hh:")
	_ = repo.PutDocuments(context.Background(), []record.Document{{ID: "d1"}})
	if len(keys) != 1 || keys[0] != "hh:documents:d1" {
		t.Errorf("keys = %v", keys)
	}
}

func TestList_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		ms   *mockStore
	}{
		{"scan", &mockStore{scanFn: func(context.Context, string) ([]string, error) { return nil, boom }}},
		{"load", &mockStore{
			scanFn: func(context.Context, string) ([]string, error) { return []string{"homesearch:documents:d1"}, nil },
			hgetAllMultiFn: func(context.Context, []string) ([]map[string]string, error) {
				return nil, boom
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.ms, "").ListDocuments(context.Background())
			if !errors.Is(err, boom) {
				t.Fatalf("expected wrapped boom, got %v", err)
			}
		})
	}
}

func TestList_DecodeError(t *testing.T) {
	ms := &mockStore{
		scanFn: func(context.Context, string) ([]string, error) { return []string{"homesearch:documents:d1"}, nil },
		hgetAllMultiFn: func(context.Context, []string) ([]map[string]string, error) {
			return []map[string]string{{"name": "x", "size": "big"}}, nil
		},
	}
	if _, err := New(ms, "").ListDocuments(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestList_SkipsVanishedKeys(t *testing.T) {
	ms := &mockStore{
		scanFn: func(context.Context, string) ([]string, error) {
			return []string{"homesearch:members:m2", "homesearch:members:m1"}, nil
		},
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			if keys[0] != "homesearch:members:m1" {
				t.Errorf("keys not sorted: %v", keys)
			}
			return []map[string]string{{}, {"display_name": "Bob"}}, nil
		},
	}
	got, err := New(ms, "").ListMembers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "m2" {
		t.Errorf("ListMembers = %+v", got)
	}
}
