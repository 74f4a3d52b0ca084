package memory

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kailas-cloud/homesearch/internal/db"
)

func TestHashRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	if err := s.HSet(ctx, "homesearch:doc:d1", map[string]string{"name": "Invoice", "type": "pdf"}); err != nil {
		t.Fatalf("HSet: %v", err)
	}
	if err := s.HSet(ctx, "homesearch:doc:d1", map[string]string{"type": "PDF"}); err != nil {
		t.Fatalf("HSet: %v", err)
	}

	got, err := s.HGetAll(ctx, "homesearch:doc:d1")
	if err != nil {
		t.Fatalf("HGetAll: %v", err)
	}
	if got["name"] != "Invoice" || got["type"] != "PDF" {
		t.Errorf("HGetAll = %v", got)
	}

	got["name"] = "mutated"
	again, _ := s.HGetAll(ctx, "homesearch:doc:d1")
	if again["name"] != "Invoice" {
		t.Error("HGetAll must return a copy")
	}
}

func TestHGetAll_Missing(t *testing.T) {
	got, err := NewStore().HGetAll(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestMultiAndScan(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	err := s.HSetMulti(ctx, []db.HashSetItem{
		{Key: "homesearch:doc:b", Fields: map[string]string{"name": "b"}},
		{Key: "homesearch:doc:a", Fields: map[string]string{"name": "a"}},
		{Key: "homesearch:folder:f", Fields: map[string]string{"name": "f"}},
		{Key: "homesearch:doc:empty"},
	})
	if err != nil {
		t.Fatalf("HSetMulti: %v", err)
	}

	keys, err := s.Scan(ctx, "homesearch:doc:*")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !slices.Equal(keys, []string{"homesearch:doc:a", "homesearch:doc:b"}) {
		t.Errorf("Scan = %v", keys)
	}

	hs, err := s.HGetAllMulti(ctx, keys)
	if err != nil {
		t.Fatalf("HGetAllMulti: %v", err)
	}
	if hs[0]["name"] != "a" || hs[1]["name"] != "b" {
		t.Errorf("HGetAllMulti = %v", hs)
	}
}

func TestDelExists(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_ = s.HSet(ctx, "k", map[string]string{"f": "v"})

	if ok, _ := s.Exists(ctx, "k"); !ok {
		t.Fatal("expected key to exist")
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, _ := s.Exists(ctx, "k"); ok {
		t.Error("expected key to be gone")
	}
}

func TestScan_BadPattern(t *testing.T) {
	_, err := NewStore().Scan(context.Background(), "[")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestClosed(t *testing.T) {
	s := NewStore()
	s.Close()

	if err := s.Ping(context.Background()); !errors.Is(err, db.ErrClosed) {
		t.Errorf("Ping after Close = %v", err)
	}
	if err := s.HSet(context.Background(), "k", map[string]string{"f": "v"}); !errors.Is(err, db.ErrClosed) {
		t.Errorf("HSet after Close = %v", err)
	}
	if err := s.WaitForReady(context.Background(), 150*time.Millisecond); err == nil {
		t.Error("WaitForReady should fail on a closed store")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStore().Scan(ctx, "*"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
