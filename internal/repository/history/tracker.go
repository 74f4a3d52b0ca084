package history

import (
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/homesearch/internal/domain/search/history"
)

// Defaults.
const (
	DefaultMaxPerUser  = 20
	DefaultDedupWindow = 5 * time.Minute
)

// Config bounds the tracker.
type Config struct {
	MaxPerUser  int
	DedupWindow time.Duration
}

// Tracker keeps the recent searches of every user in memory.
// Entries per user are stored oldest first and capped FIFO.
type Tracker struct {
	mu          sync.Mutex
	byUser      map[string][]history.Item
	maxPerUser  int
	dedupWindow time.Duration
	now         func() time.Time
}

// New creates a tracker. Zero config fields take defaults.
func New(cfg Config) *Tracker {
	if cfg.MaxPerUser <= 0 {
		cfg.MaxPerUser = DefaultMaxPerUser
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = DefaultDedupWindow
	}
	return &Tracker{
		byUser:      make(map[string][]history.Item),
		maxPerUser:  cfg.MaxPerUser,
		dedupWindow: cfg.DedupWindow,
		now:         time.Now,
	}
}

// WithClock replaces the time source (tests).
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
	return t
}

// Record appends a search of userID. A repeat of the same text within the
// dedup window is dropped; Record then returns false.
func (t *Tracker) Record(userID, text string, cacheHit bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	items := t.byUser[userID]
	for i := len(items) - 1; i >= 0; i-- {
		if now.Sub(items[i].Timestamp) >= t.dedupWindow {
			break
		}
		if items[i].Query == text {
			return false
		}
	}

	items = append(items, history.Item{UserID: userID, Query: text, Timestamp: now, CacheHit: cacheHit})
	if over := len(items) - t.maxPerUser; over > 0 {
		items = append(items[:0:0], items[over:]...)
	}
	t.byUser[userID] = items
	return true
}

// List returns the searches of userID, most recent first. limit <= 0 returns all.
func (t *Tracker) List(userID string, limit int) []history.Item {
	return t.Match(userID, "", limit)
}

// Match returns the searches of userID whose text contains substr
// (case-insensitive), most recent first. limit <= 0 returns all.
func (t *Tracker) Match(userID, substr string, limit int) []history.Item {
	t.mu.Lock()
	defer t.mu.Unlock()

	substr = strings.ToLower(substr)
	items := t.byUser[userID]
	out := make([]history.Item, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if substr != "" && !strings.Contains(strings.ToLower(items[i].Query), substr) {
			continue
		}
		out = append(out, items[i])
	}
	return out
}

// Clear removes the history of userID, or of every user when userID is empty.
func (t *Tracker) Clear(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if userID == "" {
		clear(t.byUser)
		return
	}
	delete(t.byUser, userID)
}

// Stats summarizes all recorded history.
func (t *Tracker) Stats() history.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	var s history.Stats
	for _, items := range t.byUser {
		if len(items) == 0 {
			continue
		}
		s.Users++
		s.TotalEntries += len(items)
		for _, it := range items {
			if it.CacheHit {
				s.CacheHits++
			}
		}
	}
	return s
}
