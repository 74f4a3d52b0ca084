package homesearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/db"
	"github.com/kailas-cloud/homesearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/homesearch/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/homesearch/internal/db/sqlite"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/history"
	"github.com/kailas-cloud/homesearch/internal/domain/search/request"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/domain/search/suggestion"
	"github.com/kailas-cloud/homesearch/internal/metrics"
	historyrepo "github.com/kailas-cloud/homesearch/internal/repository/history"
	"github.com/kailas-cloud/homesearch/internal/repository/records"
	"github.com/kailas-cloud/homesearch/internal/repository/resultcache"
	"github.com/kailas-cloud/homesearch/internal/session"
	healthuc "github.com/kailas-cloud/homesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/homesearch/internal/usecase/search"
	"github.com/kailas-cloud/homesearch/internal/usecase/source"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped in tests.
type searchUseCase interface {
	Search(ctx context.Context, raw string, f filter.Set, opts request.Options) (result.Aggregate, error)
	AdvancedSearch(ctx context.Context, c request.Criteria) (result.Aggregate, error)
	QuickSearch(ctx context.Context, rawPrefix string, limit int) []suggestion.Suggestion
	History(userID string, limit int) []history.Item
	ClearHistory(userID string)
	ClearCache()
	Statistics() searchuc.Statistics
	Close()
}

type recordRepo interface {
	PutDocuments(ctx context.Context, docs []Document) error
	PutFolders(ctx context.Context, folders []Folder) error
	PutCategories(ctx context.Context, cats []Category) error
	PutMembers(ctx context.Context, members []Member) error
	Delete(ctx context.Context, kind Kind, id string) error
}

// Client is the homesearch SDK entry point.
type Client struct {
	store     db.Store
	records   recordRepo
	searchSvc searchUseCase
	healthSvc healthUseCase
	session   SessionProvider
	obs       *observer
}

// New creates a Client and connects to the record store.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: driverMemory}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("homesearch: store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMemory:
		return memory.NewStore(), nil
	case driverRedis, driverValkey:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, errors.New("homesearch: store address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("homesearch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case driverSQLite:
		if cfg.sqlitePath == "" {
			return nil, errors.New("homesearch: sqlite path required")
		}
		s, err := dbSQLite.Open(cfg.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("homesearch: open sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("homesearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	var m *metrics.Search
	if cfg.metricsReg != nil {
		m = metrics.NewSearch()
		if err := m.Register(cfg.metricsReg); err != nil {
			return nil, fmt.Errorf("homesearch: %w", err)
		}
	}
	logger := zap.NewNop()

	repo := records.New(store, cfg.keyPrefix)
	cache, err := resultcache.New(resultcache.Config{
		TTL:        cfg.cacheTTL,
		MaxEntries: cfg.cacheMaxEntries,
	}, m.CacheCounter(), logger)
	if err != nil {
		return nil, fmt.Errorf("homesearch: %w", err)
	}

	sess := cfg.session
	if sess == nil {
		sess = session.Context{}
	}

	svc, err := searchuc.New(searchuc.Sources{
		Documents:  source.NewDocuments(repo, m, logger),
		Folders:    source.NewFolders(repo, m, logger),
		Categories: source.NewCategories(repo, m, logger),
		Members:    source.NewMembers(repo, m, logger),
	}, sess, cache, historyrepo.New(historyrepo.Config{}), searchuc.Config{
		Timeout:  cfg.timeout,
		PoolSize: cfg.poolSize,
	}, m, logger)
	if err != nil {
		return nil, fmt.Errorf("homesearch: %w", err)
	}

	return &Client{
		store:     store,
		records:   repo,
		searchSvc: svc,
		healthSvc: healthuc.New(store, svc),
		session:   sess,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.searchSvc != nil {
		c.searchSvc.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a plain text search across all record kinds.
func (c *Client) Search(ctx context.Context, text string, f Filter, o SearchOptions) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	set, err := filter.New(f)
	if err != nil {
		return Result{}, err
	}
	opts, err := request.NewOptions(!o.NoCache, o.SortBy, o.MaxResults, o.StrictLimit)
	if err != nil {
		return Result{}, err
	}
	return c.searchSvc.Search(ctx, text, set, opts)
}

// AdvancedSearch runs a structured search.
func (c *Client) AdvancedSearch(ctx context.Context, cr Criteria) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("advanced_search", start, err) }()

	return c.searchSvc.AdvancedSearch(ctx, cr)
}

// Suggest returns autocomplete candidates for prefix. It never fails.
func (c *Client) Suggest(ctx context.Context, prefix string, limit int) []Suggestion {
	start := time.Now()
	defer c.obs.observe("suggest", start, nil)

	return c.searchSvc.QuickSearch(ctx, prefix, limit)
}

// History returns the recent searches of the current user, most recent first.
func (c *Client) History(ctx context.Context, limit int) ([]HistoryItem, error) {
	user, ok := c.session.CurrentUser(ctx)
	if !ok {
		return nil, ErrAccessDenied
	}
	return c.searchSvc.History(user.ID, limit), nil
}

// ClearHistory drops the history of userID, or of everyone when userID is empty.
func (c *Client) ClearHistory(userID string) {
	c.searchSvc.ClearHistory(userID)
}

// ClearCache drops every cached result.
func (c *Client) ClearCache() {
	c.searchSvc.ClearCache()
}

// Statistics reports usage since the client was created.
func (c *Client) Statistics() Statistics {
	return c.searchSvc.Statistics()
}

// PutDocuments stores documents. Documents without an ID get a new one.
func (c *Client) PutDocuments(ctx context.Context, docs []Document) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put_documents", start, err) }()
	return c.records.PutDocuments(ctx, docs)
}

// PutFolders stores folders. Folders without an ID get a new one.
func (c *Client) PutFolders(ctx context.Context, folders []Folder) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put_folders", start, err) }()
	return c.records.PutFolders(ctx, folders)
}

// PutCategories stores categories. Categories without an ID get a new one.
func (c *Client) PutCategories(ctx context.Context, cats []Category) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put_categories", start, err) }()
	return c.records.PutCategories(ctx, cats)
}

// PutMembers stores members. Members without an ID get a new one.
func (c *Client) PutMembers(ctx context.Context, members []Member) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("put_members", start, err) }()
	return c.records.PutMembers(ctx, members)
}

// Delete removes one record.
func (c *Client) Delete(ctx context.Context, kind Kind, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()
	return c.records.Delete(ctx, kind, id)
}
