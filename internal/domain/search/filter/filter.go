package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
)

// MaxValuesPerList is the maximum number of values in a single allow-list.
const MaxValuesPerList = 64

// Params is the unvalidated input for New. Nil bounds are open.
type Params struct {
	Kinds           []record.Kind
	Types           []string
	Categories      []string
	Members         []string
	MinSize         *int64
	MaxSize         *int64
	DateFrom        *time.Time
	DateTo          *time.Time
	IncludeArchived bool
}

// Set is the combined narrowing constraints of a search (immutable value object).
// Allow-lists are canonical: trimmed, de-duplicated and sorted, so two sets with
// the same members compare equal and produce the same Key.
type Set struct {
	kinds           []record.Kind
	types           []string
	categories      []string
	members         []string
	minSize         *int64
	maxSize         *int64
	dateFrom        *time.Time
	dateTo          *time.Time
	includeArchived bool
}

// New validates and canonicalizes p.
func New(p Params) (Set, error) {
	kinds := make([]string, 0, len(p.Kinds))
	for _, k := range p.Kinds {
		if !k.IsValid() {
			return Set{}, fmt.Errorf("%w: unknown record kind %q", domain.ErrInvalidQuery, k)
		}
		kinds = append(kinds, string(k))
	}

	lists := map[string][]string{
		"kinds": kinds, "types": p.Types, "categories": p.Categories, "members": p.Members,
	}
	for name, l := range lists {
		if len(l) > MaxValuesPerList {
			return Set{}, fmt.Errorf("%w: too many %s (max %d)", domain.ErrInvalidQuery, name, MaxValuesPerList)
		}
	}

	if p.MinSize != nil && *p.MinSize < 0 {
		return Set{}, fmt.Errorf("%w: min size must not be negative", domain.ErrInvalidQuery)
	}
	if p.MinSize != nil && p.MaxSize != nil && *p.MinSize > *p.MaxSize {
		return Set{}, fmt.Errorf("%w: min size %d exceeds max size %d", domain.ErrInvalidQuery, *p.MinSize, *p.MaxSize)
	}
	if p.DateFrom != nil && p.DateTo != nil && p.DateFrom.After(*p.DateTo) {
		return Set{}, fmt.Errorf("%w: date from is after date to", domain.ErrInvalidQuery)
	}

	s := Set{
		types:           canonical(p.Types, true),
		categories:      canonical(p.Categories, false),
		members:         canonical(p.Members, false),
		includeArchived: p.IncludeArchived,
	}
	for _, k := range canonical(kinds, false) {
		s.kinds = append(s.kinds, record.Kind(k))
	}
	if p.MinSize != nil {
		v := *p.MinSize
		s.minSize = &v
	}
	if p.MaxSize != nil {
		v := *p.MaxSize
		s.maxSize = &v
	}
	if p.DateFrom != nil {
		v := p.DateFrom.UTC()
		s.dateFrom = &v
	}
	if p.DateTo != nil {
		v := p.DateTo.UTC()
		s.dateTo = &v
	}
	return s, nil
}

// Empty returns the unconstrained set.
func Empty() Set { return Set{} }

func canonical(values []string, lower bool) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		if v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// Kinds returns the entity-kind allow-list (nil = all kinds).
func (s Set) Kinds() []record.Kind { return slices.Clone(s.kinds) }

// Types returns the document type allow-list.
func (s Set) Types() []string { return slices.Clone(s.types) }

// Categories returns the category-id allow-list.
func (s Set) Categories() []string { return slices.Clone(s.categories) }

// Members returns the member-id allow-list.
func (s Set) Members() []string { return slices.Clone(s.members) }

// MinSize returns the inclusive lower size bound in bytes.
func (s Set) MinSize() (int64, bool) { return deref(s.minSize) }

// MaxSize returns the inclusive upper size bound in bytes.
func (s Set) MaxSize() (int64, bool) { return deref(s.maxSize) }

// DateFrom returns the inclusive lower creation-date bound.
func (s Set) DateFrom() (time.Time, bool) { return deref(s.dateFrom) }

// DateTo returns the inclusive upper creation-date bound.
func (s Set) DateTo() (time.Time, bool) { return deref(s.dateTo) }

// IncludeArchived reports whether archived records are searched.
func (s Set) IncludeArchived() bool { return s.includeArchived }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

// AllowsKind reports whether records of kind k are searched.
func (s Set) AllowsKind(k record.Kind) bool {
	return len(s.kinds) == 0 || slices.Contains(s.kinds, k)
}

// AllowsType reports whether a document type passes the type allow-list.
func (s Set) AllowsType(t string) bool {
	return len(s.types) == 0 || slices.Contains(s.types, strings.ToLower(t))
}

// AllowsCategory reports whether a category id passes the category allow-list.
func (s Set) AllowsCategory(id string) bool {
	return len(s.categories) == 0 || slices.Contains(s.categories, id)
}

// AllowsMember reports whether a member id passes the member allow-list.
func (s Set) AllowsMember(id string) bool {
	return len(s.members) == 0 || slices.Contains(s.members, id)
}

// AllowsSize reports whether size lies within the size bounds.
func (s Set) AllowsSize(size int64) bool {
	if s.minSize != nil && size < *s.minSize {
		return false
	}
	if s.maxSize != nil && size > *s.maxSize {
		return false
	}
	return true
}

// HasDateBounds reports whether a creation-date bound is set.
func (s Set) HasDateBounds() bool { return s.dateFrom != nil || s.dateTo != nil }

// AllowsDate reports whether created lies within the date bounds.
// An unknown (zero) date never satisfies a bound.
func (s Set) AllowsDate(created time.Time) bool {
	if !s.HasDateBounds() {
		return true
	}
	if created.IsZero() {
		return false
	}
	if s.dateFrom != nil && created.Before(*s.dateFrom) {
		return false
	}
	if s.dateTo != nil && created.After(*s.dateTo) {
		return false
	}
	return true
}

// AllowsArchived reports whether a record with the given archived flag passes.
func (s Set) AllowsArchived(archived bool) bool {
	return !archived || s.includeArchived
}

// IsEmpty reports whether the set imposes no constraint besides hiding archived records.
func (s Set) IsEmpty() bool {
	return len(s.kinds) == 0 && len(s.types) == 0 && len(s.categories) == 0 && len(s.members) == 0 &&
		s.minSize == nil && s.maxSize == nil && s.dateFrom == nil && s.dateTo == nil && !s.includeArchived
}

// canonicalForm is the stable serialization hashed by Key.
type canonicalForm struct {
	Kinds           []record.Kind `json:"k,omitempty"`
	Types           []string      `json:"t,omitempty"`
	Categories      []string      `json:"c,omitempty"`
	Members         []string      `json:"m,omitempty"`
	MinSize         *int64        `json:"smin,omitempty"`
	MaxSize         *int64        `json:"smax,omitempty"`
	DateFrom        *int64        `json:"dfrom,omitempty"`
	DateTo          *int64        `json:"dto,omitempty"`
	IncludeArchived bool          `json:"a,omitempty"`
}

func (s Set) canonical() canonicalForm {
	f := canonicalForm{
		Kinds:           s.kinds,
		Types:           s.types,
		Categories:      s.categories,
		Members:         s.members,
		MinSize:         s.minSize,
		MaxSize:         s.maxSize,
		IncludeArchived: s.includeArchived,
	}
	if s.dateFrom != nil {
		v := s.dateFrom.UnixNano()
		f.DateFrom = &v
	}
	if s.dateTo != nil {
		v := s.dateTo.UnixNano()
		f.DateTo = &v
	}
	return f
}

// Key returns a deterministic fingerprint of the set. Equal sets yield equal keys.
func (s Set) Key() string {
	// Marshal of a struct with only slices, pointers and scalars cannot fail.
	data, _ := json.Marshal(s.canonical())
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:16])
}
