package resultcache

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
)

// Defaults.
const (
	DefaultTTL          = 5 * time.Minute
	DefaultMaxEntries   = 50
	DefaultMaxCacheable = 100
)

// Config bounds the cache.
type Config struct {
	TTL          time.Duration
	MaxEntries   int
	MaxCacheable int // results with more hits than this are never stored
}

// DefaultConfig returns the default cache bounds.
func DefaultConfig() Config {
	return Config{TTL: DefaultTTL, MaxEntries: DefaultMaxEntries, MaxCacheable: DefaultMaxCacheable}
}

type entry struct {
	result     result.Aggregate
	insertedAt time.Time
}

// Cache is a time-boxed, size-bounded store of aggregate results.
// Lookups never reorder entries: on overflow the oldest insertion is evicted.
// Results are cloned on the way in and out, so callers never share cached state.
type Cache struct {
	mu           sync.Mutex
	lru          *simplelru.LRU[string, entry]
	ttl          time.Duration
	maxCacheable int
	now          func() time.Time
	cacheTotal   *prometheus.CounterVec
	logger       *zap.Logger
}

// New creates a cache. Zero config fields take defaults.
// cacheTotal is a counter vec with label "result" (hit/miss/expired/evicted/skipped), may be nil.
func New(cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger) (*Cache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.MaxCacheable <= 0 {
		cfg.MaxCacheable = DefaultMaxCacheable
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l, err := simplelru.NewLRU[string, entry](cfg.MaxEntries, nil)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &Cache{
		lru:          l,
		ttl:          cfg.TTL,
		maxCacheable: cfg.MaxCacheable,
		now:          time.Now,
		cacheTotal:   cacheTotal,
		logger:       logger,
	}, nil
}

// WithClock replaces the time source (tests).
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Key builds the cache key of a normalized query and a filter set.
func Key(normalized string, f filter.Set) string {
	return normalized + "\x00" + f.Key()
}

// Get returns a copy of the cached result. An expired entry is removed and reported as a miss.
func (c *Cache) Get(key string) (result.Aggregate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Peek(key)
	if !ok {
		c.inc("miss")
		return result.Aggregate{}, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		c.lru.Remove(key)
		c.inc("expired")
		c.inc("miss")
		return result.Aggregate{}, false
	}

	c.inc("hit")
	return e.result.Clone(), true
}

// Put stores a copy of r. Oversized results are skipped and evict any stale
// entry under the same key. Returns true if r was stored.
func (c *Cache) Put(key string, r result.Aggregate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.TotalResults > c.maxCacheable {
		c.lru.Remove(key)
		c.inc("skipped")
		c.logger.Debug("Result too large to cache",
			zap.Int("total_results", r.TotalResults),
			zap.Int("max_cacheable", c.maxCacheable),
		)
		return false
	}

	if evicted := c.lru.Add(key, entry{result: r.Clone(), insertedAt: c.now()}); evicted {
		c.inc("evicted")
	}
	return true
}

// Len returns the number of entries, expired ones included until looked up.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

func (c *Cache) inc(res string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(res).Inc()
	}
}
