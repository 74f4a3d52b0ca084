package filter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
)

func int64Ptr(v int64) *int64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func mustNew(t *testing.T, p Params) Set {
	t.Helper()
	s, err := New(p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew_Empty(t *testing.T) {
	s := mustNew(t, Params{})
	if !s.IsEmpty() {
		t.Error("IsEmpty() = false")
	}
	if s.Key() != Empty().Key() {
		t.Error("zero Params should equal Empty()")
	}
	if s.Kinds() != nil || s.Types() != nil {
		t.Error("expected nil allow-lists")
	}
}

func TestNew_CanonicalizesLists(t *testing.T) {
	a := mustNew(t, Params{
		Types:      []string{"PDF", " jpg ", "pdf", ""},
		Categories: []string{"c2", "c1", "c2"},
		Kinds:      []record.Kind{record.KindFolder, record.KindDocument},
	})
	b := mustNew(t, Params{
		Types:      []string{"jpg", "pdf"},
		Categories: []string{"c1", "c2"},
		Kinds:      []record.Kind{record.KindDocument, record.KindFolder, record.KindDocument},
	})

	if got := strings.Join(a.Types(), ","); got != "jpg,pdf" {
		t.Errorf("Types() = %q", got)
	}
	if got := strings.Join(a.Categories(), ","); got != "c1,c2" {
		t.Errorf("Categories() = %q", got)
	}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %s vs %s", a.Key(), b.Key())
	}
}

func TestKey_DiffersOnEveryField(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	variants := []Params{
		{},
		{Kinds: []record.Kind{record.KindMember}},
		{Types: []string{"pdf"}},
		{Categories: []string{"c1"}},
		{Members: []string{"m1"}},
		{MinSize: int64Ptr(1)},
		{MaxSize: int64Ptr(1)},
		{DateFrom: timePtr(from)},
		{DateTo: timePtr(from)},
		{IncludeArchived: true},
	}

	seen := make(map[string]int)
	for i, p := range variants {
		k := mustNew(t, p).Key()
		if j, ok := seen[k]; ok {
			t.Errorf("variant %d has the same key as variant %d", i, j)
		}
		seen[k] = i
	}
}

func TestKey_TimeZoneInsensitive(t *testing.T) {
	utc := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	local := utc.In(time.FixedZone("UTC+3", 3*3600))

	a := mustNew(t, Params{DateFrom: timePtr(utc)})
	b := mustNew(t, Params{DateFrom: timePtr(local)})
	if a.Key() != b.Key() {
		t.Error("same instant in different zones should share a key")
	}
}

func TestNew_Invalid(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		p    Params
		msg  string
	}{
		{"unknown kind", Params{Kinds: []record.Kind{"pets"}}, "unknown record kind"},
		{"negative min", Params{MinSize: int64Ptr(-1)}, "negative"},
		{"min > max", Params{MinSize: int64Ptr(10), MaxSize: int64Ptr(5)}, "exceeds max size"},
		{"from > to", Params{DateFrom: timePtr(day), DateTo: timePtr(day.Add(-time.Hour))}, "date from"},
		{"too many types", Params{Types: make([]string, MaxValuesPerList+1)}, "too many types"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want substring %q", err, tt.msg)
			}
		})
	}
}

func TestNew_CopiesBounds(t *testing.T) {
	minSize := int64(10)
	p := Params{MinSize: &minSize}
	s := mustNew(t, p)
	minSize = 99
	if v, _ := s.MinSize(); v != 10 {
		t.Errorf("MinSize() = %d, want 10 (set must not alias input)", v)
	}
}

func TestPredicates(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	s := mustNew(t, Params{
		Kinds:      []record.Kind{record.KindDocument},
		Types:      []string{"pdf"},
		Categories: []string{"tax"},
		Members:    []string{"alice"},
		MinSize:    int64Ptr(100),
		MaxSize:    int64Ptr(1000),
		DateFrom:   &from,
		DateTo:     &to,
	})

	checks := []struct {
		name string
		got  bool
		want bool
	}{
		{"kind doc", s.AllowsKind(record.KindDocument), true},
		{"kind folder", s.AllowsKind(record.KindFolder), false},
		{"type PDF case", s.AllowsType("PDF"), true},
		{"type jpg", s.AllowsType("jpg"), false},
		{"category", s.AllowsCategory("tax"), true},
		{"category other", s.AllowsCategory("home"), false},
		{"member", s.AllowsMember("alice"), true},
		{"member other", s.AllowsMember("bob"), false},
		{"size lower edge", s.AllowsSize(100), true},
		{"size upper edge", s.AllowsSize(1000), true},
		{"size below", s.AllowsSize(99), false},
		{"size above", s.AllowsSize(1001), false},
		{"date inside", s.AllowsDate(from.AddDate(0, 6, 0)), true},
		{"date edge", s.AllowsDate(from), true},
		{"date before", s.AllowsDate(from.Add(-time.Second)), false},
		{"date after", s.AllowsDate(to.Add(time.Second)), false},
		{"date unknown", s.AllowsDate(time.Time{}), false},
		{"archived hidden", s.AllowsArchived(true), false},
		{"active shown", s.AllowsArchived(false), true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestPredicates_Open(t *testing.T) {
	s := Empty()
	if !s.AllowsKind(record.KindMember) || !s.AllowsType("anything") ||
		!s.AllowsCategory("x") || !s.AllowsMember("y") || !s.AllowsSize(1<<40) {
		t.Error("empty set should allow everything")
	}
	if !s.AllowsDate(time.Time{}) {
		t.Error("unknown date should pass when no bound is set")
	}
	if s.AllowsArchived(true) {
		t.Error("archived records are hidden by default")
	}
}
