package suggestion

import (
	"slices"
	"strings"
)

// Source tags where a suggestion came from.
type Source string

// Suggestion sources.
const (
	FromHistory      Source = "history"
	FromFileName     Source = "file_name"
	FromFolderName   Source = "folder_name"
	FromCategoryName Source = "category_name"
	FromMemberName   Source = "member_name"
)

// HistoryScore is the fixed score of a history-derived suggestion.
const HistoryScore = 1.0

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Text   string
	Source Source
	Score  float64
}

// NameScore scores a name that starts with prefix: 0.5 for a bare prefix,
// rising linearly to 1.0 when the prefix covers the whole name.
func NameScore(prefix, name string) float64 {
	if name == "" {
		return 0
	}
	cover := float64(len(prefix)) / float64(len(name))
	if cover > 1 {
		cover = 1
	}
	return 0.5 + 0.5*cover
}

// Merge orders candidates by descending score, drops case-insensitive duplicates
// (the first, best-scored occurrence wins) and caps the list at limit.
// The sort is stable, so equal scores keep their gathering order.
// A limit <= 0 yields an empty list.
func Merge(candidates []Suggestion, limit int) []Suggestion {
	if limit <= 0 {
		return []Suggestion{}
	}
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b Suggestion) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]Suggestion, 0, min(limit, len(sorted)))
	for _, s := range sorted {
		if len(out) >= limit {
			break
		}
		key := strings.ToLower(s.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
