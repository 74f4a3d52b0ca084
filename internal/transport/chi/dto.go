package chi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/request"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/sortby"
)

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s parameter %q", e.name, e.value)
}

// dateLayouts are accepted for date bounds, most specific first.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func parseDate(name, v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &paramError{name: name, value: v}
}

// date decodes a JSON string in any of dateLayouts.
type date struct{ time.Time }

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	t, err := parseDate("date", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type searchParams struct {
	text       string
	filter     filter.Params
	sortBy     sortby.Option
	maxResults int
	strict     bool
	useCache   bool
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func parseSearchParams(q url.Values) (searchParams, error) {
	p := searchParams{
		text:     q.Get("q"),
		sortBy:   sortby.Option(q.Get("sort")),
		useCache: true,
		filter: filter.Params{
			Types:      splitList(q.Get("types")),
			Categories: splitList(q.Get("categories")),
			Members:    splitList(q.Get("members")),
		},
	}
	for _, k := range splitList(q.Get("kinds")) {
		p.filter.Kinds = append(p.filter.Kinds, record.Kind(strings.TrimSpace(k)))
	}

	var err error
	if p.maxResults, err = intParam(q, "limit"); err != nil {
		return searchParams{}, err
	}
	for name, dst := range map[string]**int64{"min_size": &p.filter.MinSize, "max_size": &p.filter.MaxSize} {
		if v := q.Get(name); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return searchParams{}, &paramError{name: name, value: v}
			}
			*dst = &n
		}
	}
	for name, dst := range map[string]**time.Time{"date_from": &p.filter.DateFrom, "date_to": &p.filter.DateTo} {
		if v := q.Get(name); v != "" {
			t, err := parseDate(name, v)
			if err != nil {
				return searchParams{}, err
			}
			*dst = &t
		}
	}
	for name, dst := range map[string]*bool{"strict": &p.strict, "include_archived": &p.filter.IncludeArchived} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return searchParams{}, &paramError{name: name, value: v}
			}
			*dst = b
		}
	}
	if v := q.Get("no_cache"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return searchParams{}, &paramError{name: "no_cache", value: v}
		}
		p.useCache = !b
	}
	return p, nil
}

type advancedSearchRequest struct {
	Text            string   `json:"text"`
	Types           []string `json:"types"`
	Categories      []string `json:"categories"`
	Members         []string `json:"members"`
	DateFrom        *date    `json:"date_from"`
	DateTo          *date    `json:"date_to"`
	MinSize         *int64   `json:"min_size"`
	MaxSize         *int64   `json:"max_size"`
	SortBy          string   `json:"sort_by"`
	IncludeArchived bool     `json:"include_archived"`
	UseCache        *bool    `json:"use_cache"`
	MaxResults      int      `json:"max_results"`
}

func (r advancedSearchRequest) criteria() request.Criteria {
	c := request.Criteria{
		Text:            r.Text,
		Types:           r.Types,
		Categories:      r.Categories,
		Members:         r.Members,
		MinSize:         r.MinSize,
		MaxSize:         r.MaxSize,
		SortBy:          sortby.Option(r.SortBy),
		IncludeArchived: r.IncludeArchived,
		NoCache:         r.UseCache != nil && !*r.UseCache,
		MaxResults:      r.MaxResults,
	}
	if r.DateFrom != nil {
		c.DateFrom = &r.DateFrom.Time
	}
	if r.DateTo != nil {
		c.DateTo = &r.DateTo.Time
	}
	return c
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type documentDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type,omitempty"`
	Description string     `json:"description,omitempty"`
	Size        int64      `json:"size"`
	Created     *time.Time `json:"created,omitempty"`
	FolderID    string     `json:"folder_id,omitempty"`
	CategoryID  string     `json:"category_id,omitempty"`
	OwnerID     string     `json:"owner_id,omitempty"`
	Archived    bool       `json:"archived"`
}

type folderDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CategoryID  string     `json:"category_id,omitempty"`
	OwnerID     string     `json:"owner_id,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	Archived    bool       `json:"archived"`
}

type categoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

type memberDTO struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
}

type countsDTO struct {
	Documents  int `json:"documents"`
	Folders    int `json:"folders"`
	Categories int `json:"categories"`
	Members    int `json:"members"`
	Total      int `json:"total"`
}

type aggregateResponse struct {
	Query           string             `json:"query"`
	NormalizedQuery string             `json:"normalized_query"`
	Documents       []documentDTO      `json:"documents"`
	Folders         []folderDTO        `json:"folders"`
	Categories      []categoryDTO      `json:"categories"`
	Members         []memberDTO        `json:"members"`
	Counts          countsDTO          `json:"counts"`
	SearchedAt      time.Time          `json:"searched_at"`
	DurationMs      int64              `json:"duration_ms"`
	SortBy          string             `json:"sort_by"`
	TimingsMs       map[string]float64 `json:"timings_ms"`
}

type suggestionDTO struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

type suggestResponse struct {
	Suggestions []suggestionDTO `json:"suggestions"`
}

type historyItemDTO struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	CacheHit  bool      `json:"cache_hit"`
}

type historyResponse struct {
	Items []historyItemDTO `json:"items"`
}

type statsResponse struct {
	TotalSearches      int     `json:"total_searches"`
	UniqueUsers        int     `json:"unique_users"`
	CacheSize          int     `json:"cache_size"`
	CacheHitRate       float64 `json:"cache_hit_rate"`
	AvgSearchesPerUser float64 `json:"avg_searches_per_user"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func aggregateToResponse(a result.Aggregate) aggregateResponse {
	resp := aggregateResponse{
		Query:           a.Query,
		NormalizedQuery: a.NormalizedQuery,
		Documents:       make([]documentDTO, len(a.Documents)),
		Folders:         make([]folderDTO, len(a.Folders)),
		Categories:      make([]categoryDTO, len(a.Categories)),
		Members:         make([]memberDTO, len(a.Members)),
		Counts: countsDTO{
			Documents:  a.DocumentCount,
			Folders:    a.FolderCount,
			Categories: a.CategoryCount,
			Members:    a.MemberCount,
			Total:      a.TotalResults,
		},
		SearchedAt: a.SearchedAt,
		DurationMs: a.DurationMs,
		SortBy:     string(a.SortBy),
		TimingsMs:  make(map[string]float64, len(a.Timings)),
	}
	for i, d := range a.Documents {
		resp.Documents[i] = documentDTO{
			ID: d.ID, Name: d.Name, Type: d.Type, Description: d.Description, Size: d.Size,
			Created: timePtr(d.Created), FolderID: d.FolderID, CategoryID: d.CategoryID,
			OwnerID: d.OwnerID, Archived: d.Archived,
		}
	}
	for i, f := range a.Folders {
		resp.Folders[i] = folderDTO{
			ID: f.ID, Name: f.Name, Description: f.Description, CategoryID: f.CategoryID,
			OwnerID: f.OwnerID, Created: timePtr(f.Created), Archived: f.Archived,
		}
	}
	for i, c := range a.Categories {
		resp.Categories[i] = categoryDTO{ID: c.ID, Name: c.Name, Description: c.Description, Color: c.Color}
	}
	for i, m := range a.Members {
		resp.Members[i] = memberDTO{ID: m.ID, DisplayName: m.DisplayName, Email: m.Email, Role: m.Role}
	}
	for k, d := range a.Timings {
		resp.TimingsMs[string(k)] = float64(d.Microseconds()) / 1000
	}
	return resp
}
