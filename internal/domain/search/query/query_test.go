package query

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kailas-cloud/homesearch/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"Invoice", "invoice"},
		{"  Tax   Return\t2024 \n", "tax return 2024"},
		{"ÉTÉ Photos", "été photos"},
		{"Ⱥb", "ⱥb"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"", "a", " A  b ", "\tMixed\nCASE  text ", "ÅNGSTRÖM   unit", "x y", "Ⱥb"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
		if utf8.RuneCountInString(once) > utf8.RuneCountInString(in) {
			t.Errorf("normalized %q longer than raw %q", once, in)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", domain.ErrEmptyQuery},
		{"one char", "a", domain.ErrQueryTooShort},
		{"one rune multibyte", "é", domain.ErrQueryTooShort},
		{"min", "ab", nil},
		{"max", strings.Repeat("x", MaxLength), nil},
		{"too long", strings.Repeat("x", MaxLength+1), domain.ErrQueryTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate(%q) = %v, want %v", tt.in, err, tt.want)
			}
			if tt.want != nil && !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery family, got %v", err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	q, err := New("  My   INVOICES ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Raw() != "  My   INVOICES " {
		t.Errorf("Raw() = %q", q.Raw())
	}
	if q.Normalized() != "my invoices" {
		t.Errorf("Normalized() = %q", q.Normalized())
	}
	if q.IsWildcard() {
		t.Error("IsWildcard() = true")
	}
}

func TestNew_WhitespaceOnlyIsEmpty(t *testing.T) {
	_, err := New(" \t ")
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestNew_WildcardIsTooShort(t *testing.T) {
	_, err := New(Wildcard)
	if !errors.Is(err, domain.ErrQueryTooShort) {
		t.Fatalf("expected ErrQueryTooShort for plain wildcard, got %v", err)
	}
}

func TestNewWildcard(t *testing.T) {
	q := NewWildcard()
	if !q.IsWildcard() {
		t.Fatal("IsWildcard() = false")
	}
	if q.Normalized() != Wildcard {
		t.Errorf("Normalized() = %q", q.Normalized())
	}
}
