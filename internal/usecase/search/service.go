package search

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/history"
	"github.com/kailas-cloud/homesearch/internal/domain/search/query"
	"github.com/kailas-cloud/homesearch/internal/domain/search/request"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
	"github.com/kailas-cloud/homesearch/internal/metrics"
	"github.com/kailas-cloud/homesearch/internal/repository/resultcache"
)

// Defaults.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultPoolSize = 32
)

// Config tunes the service. Zero fields take defaults.
type Config struct {
	Timeout  time.Duration
	PoolSize int
}

// Statistics summarizes engine usage since start.
type Statistics struct {
	TotalSearches      int
	UniqueUsers        int
	CacheSize          int
	CacheHitRate       float64
	AvgSearchesPerUser float64
}

// Service federates searches over the four record sources.
type Service struct {
	sources Sources
	session SessionProvider
	cache   Cache
	history HistoryTracker
	pool    *ants.Pool
	timeout time.Duration
	now     func() time.Time
	metrics *metrics.Search
	logger  *zap.Logger
}

// New creates a search service. m and logger may be nil.
func New(
	src Sources, sess SessionProvider, cache Cache, hist HistoryTracker,
	cfg Config, m *metrics.Search, logger *zap.Logger,
) (*Service, error) {
	if src.Documents == nil || src.Folders == nil || src.Categories == nil || src.Members == nil {
		return nil, fmt.Errorf("all four sources are required")
	}
	if sess == nil || cache == nil || hist == nil {
		return nil, fmt.Errorf("session, cache and history are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// A full pool rejects submissions instead of blocking.
	pool, err := ants.NewPool(cfg.PoolSize,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			logger.Error("Worker panic", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &Service{
		sources: src,
		session: sess,
		cache:   cache,
		history: hist,
		pool:    pool,
		timeout: cfg.Timeout,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}, nil
}

// WithClock replaces the wall clock used for ranking and timestamps (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Close releases the worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Ready reports whether the worker pool still accepts searches.
func (s *Service) Ready() error {
	if s.pool.IsClosed() {
		return ants.ErrPoolClosed
	}
	return nil
}

// Search runs a plain text search for the current user.
func (s *Service) Search(
	ctx context.Context, raw string, f filter.Set, opts request.Options,
) (res result.Aggregate, err error) {
	p := s.newPipeline("search")
	defer func() { s.finish(p, err) }()

	p.enter(StageValidating)
	user, ok := s.session.CurrentUser(ctx)
	if !ok {
		return result.Aggregate{}, s.abort(p, domain.ErrAccessDenied)
	}
	q, err := query.New(raw)
	if err != nil {
		return result.Aggregate{}, s.abort(p, err)
	}

	return s.run(ctx, p, user, q, f, opts)
}

// AdvancedSearch runs a structured search. A blank text term matches every record.
func (s *Service) AdvancedSearch(ctx context.Context, c request.Criteria) (res result.Aggregate, err error) {
	p := s.newPipeline("advanced_search")
	defer func() { s.finish(p, err) }()

	p.enter(StageValidating)
	user, ok := s.session.CurrentUser(ctx)
	if !ok {
		return result.Aggregate{}, s.abort(p, domain.ErrAccessDenied)
	}
	q, f, opts, err := c.Build()
	if err != nil {
		return result.Aggregate{}, s.abort(p, err)
	}

	return s.run(ctx, p, user, q, f, opts)
}

func (s *Service) run(
	ctx context.Context, p *pipeline, user domain.User,
	q query.Query, f filter.Set, opts request.Options,
) (res result.Aggregate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = s.abort(p, fmt.Errorf("%w: panic in %s: %v", domain.ErrInternal, p.stage, r))
			res = result.Aggregate{}
		}
	}()

	key := resultcache.Key(q.Normalized(), f)

	p.enter(StageCacheLookup)
	if opts.UseCache() {
		if hit, ok := s.cache.Get(key); ok {
			if hit.SortBy != opts.SortBy() {
				hit = rank(hit, opts.SortBy(), s.now())
			}
			// The raw text of this request, not of the one that filled the cache.
			hit.Query = q.Raw()
			if err := checkLimit(hit, opts); err != nil {
				return result.Aggregate{}, s.abort(p, err)
			}
			p.enter(StageHistoryRecording)
			s.history.Record(user.ID, q.Normalized(), true)
			return hit.Truncate(opts.MaxResults()), nil
		}
	}

	p.enter(StageAggregating)
	agg, err := s.aggregate(ctx, q, f)
	if err != nil {
		return result.Aggregate{}, s.abort(p, err)
	}

	p.enter(StageRanking)
	ranked := rank(agg, opts.SortBy(), s.now())
	if err := checkLimit(ranked, opts); err != nil {
		return result.Aggregate{}, s.abort(p, err)
	}

	if opts.UseCache() {
		p.enter(StageCaching)
		s.cache.Put(key, ranked)
	}

	p.enter(StageHistoryRecording)
	s.history.Record(user.ID, q.Normalized(), false)

	p.logger.Debug("Search completed",
		zap.String("query", q.Normalized()),
		zap.Bool("wildcard", q.IsWildcard()),
		zap.Bool("filtered", !f.IsEmpty()),
		zap.Int("total_results", ranked.TotalResults),
		zap.Int64("duration_ms", ranked.DurationMs),
	)
	return ranked.Truncate(opts.MaxResults()), nil
}

func checkLimit(a result.Aggregate, opts request.Options) error {
	if opts.StrictLimit() && a.TotalResults > opts.MaxResults() {
		return fmt.Errorf("%w: %d results exceed the limit of %d", domain.ErrTooManyResults, a.TotalResults, opts.MaxResults())
	}
	return nil
}

// History returns the recent searches of userID, most recent first. limit <= 0 returns all.
func (s *Service) History(userID string, limit int) []history.Item {
	return s.history.List(userID, limit)
}

// ClearHistory drops the history of userID, or of every user when userID is empty.
func (s *Service) ClearHistory(userID string) {
	s.history.Clear(userID)
	s.logger.Info("History cleared", zap.String("user_id", userID))
}

// ClearCache drops every cached result.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.logger.Info("Result cache cleared")
}

// Statistics derives usage figures from the history tracker and the cache.
func (s *Service) Statistics() Statistics {
	hs := s.history.Stats()
	st := Statistics{
		TotalSearches: hs.TotalEntries,
		UniqueUsers:   hs.Users,
		CacheSize:     s.cache.Len(),
	}
	if hs.TotalEntries > 0 {
		st.CacheHitRate = float64(hs.CacheHits) / float64(hs.TotalEntries)
	}
	if hs.Users > 0 {
		st.AvgSearchesPerUser = float64(hs.TotalEntries) / float64(hs.Users)
	}
	return st
}
