package search

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/query"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/sortby"
)

// Relevance weights.
const (
	nameMatchScore = 10.0
	typeMatchScore = 5.0
	recencyMax     = 5.0
	recencyDays    = 30
)

// Score rates a document against a normalized query.
// Name match +10, type match +5, plus a recency term that decays linearly
// from 5 (created today) to 0 at 30 days. Undated documents get no recency.
// The slope is 5/30 per day so that any document 30 or more days old scores
// exactly 15 on a full name and type match.
func Score(d record.Document, normalized string, now time.Time) float64 {
	var score float64
	if normalized != query.Wildcard && normalized != "" {
		if strings.Contains(strings.ToLower(d.Name), normalized) {
			score += nameMatchScore
		}
		if strings.Contains(strings.ToLower(d.Type), normalized) {
			score += typeMatchScore
		}
	}
	if !d.Created.IsZero() {
		days := max(0, int(now.Sub(d.Created).Hours()/24))
		score += max(0, recencyMax-recencyMax*float64(days)/recencyDays)
	}
	return score
}

// sortDocuments returns a stably sorted copy of docs. Ties keep adapter order.
func sortDocuments(docs []record.Document, normalized string, by sortby.Option, now time.Time) []record.Document {
	out := slices.Clone(docs)

	switch by {
	case sortby.DateDesc:
		slices.SortStableFunc(out, func(a, b record.Document) int { return b.Created.Compare(a.Created) })
	case sortby.DateAsc:
		slices.SortStableFunc(out, func(a, b record.Document) int { return a.Created.Compare(b.Created) })
	case sortby.NameAsc:
		slices.SortStableFunc(out, func(a, b record.Document) int { return strings.Compare(a.Name, b.Name) })
	case sortby.NameDesc:
		slices.SortStableFunc(out, func(a, b record.Document) int { return strings.Compare(b.Name, a.Name) })
	case sortby.SizeDesc:
		slices.SortStableFunc(out, func(a, b record.Document) int { return cmp.Compare(b.Size, a.Size) })
	case sortby.SizeAsc:
		slices.SortStableFunc(out, func(a, b record.Document) int { return cmp.Compare(a.Size, b.Size) })
	default:
		type scored struct {
			doc   record.Document
			score float64
		}
		tmp := make([]scored, len(out))
		for i, d := range out {
			tmp[i] = scored{doc: d, score: Score(d, normalized, now)}
		}
		slices.SortStableFunc(tmp, func(a, b scored) int { return cmp.Compare(b.score, a.score) })
		for i := range tmp {
			out[i] = tmp[i].doc
		}
	}
	return out
}

// rank reorders the documents of a for the sort option. Counts are untouched.
func rank(a result.Aggregate, by sortby.Option, now time.Time) result.Aggregate {
	if by == "" {
		by = sortby.Relevance
	}
	c := a.Clone()
	c.Documents = sortDocuments(a.Documents, a.NormalizedQuery, by, now)
	c.SortBy = by
	return c
}
