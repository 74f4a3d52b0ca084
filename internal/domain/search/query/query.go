package query

import (
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/homesearch/internal/domain"
)

// Length bounds applied to the normalized text, in runes.
const (
	MinLength = 2
	MaxLength = 200
)

// Wildcard matches every record. Only advanced search may issue it.
const Wildcard = "*"

// Query is a validated search text (immutable value object).
type Query struct {
	raw        string
	normalized string
}

// New normalizes and validates raw.
func New(raw string) (Query, error) {
	n := Normalize(raw)
	if err := Validate(n); err != nil {
		return Query{}, err
	}
	return Query{raw: raw, normalized: n}, nil
}

// NewWildcard creates the match-everything query used when advanced search has no text term.
func NewWildcard() Query {
	return Query{raw: Wildcard, normalized: Wildcard}
}

// Raw returns the text as typed.
func (q Query) Raw() string { return q.raw }

// Normalized returns the trimmed, lower-cased, whitespace-collapsed text.
func (q Query) Normalized() string { return q.normalized }

// IsWildcard reports whether q matches every record.
func (q Query) IsWildcard() bool { return q.normalized == Wildcard }

// Normalize trims s, lower-cases it and collapses every whitespace run to a single space.
// Normalize is idempotent and never increases the rune count, though lower-casing
// may grow the byte length.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Validate checks the length bounds of an already normalized text.
func Validate(normalized string) error {
	n := utf8.RuneCountInString(normalized)
	switch {
	case n == 0:
		return domain.ErrEmptyQuery
	case n < MinLength:
		return domain.ErrQueryTooShort
	case n > MaxLength:
		return domain.ErrQueryTooLong
	}
	return nil
}
