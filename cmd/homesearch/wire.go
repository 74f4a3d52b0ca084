package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/config"
	"github.com/kailas-cloud/homesearch/internal/db"
	"github.com/kailas-cloud/homesearch/internal/db/memory"
	dbRedis "github.com/kailas-cloud/homesearch/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/homesearch/internal/db/sqlite"
	"github.com/kailas-cloud/homesearch/internal/metrics"
	historyrepo "github.com/kailas-cloud/homesearch/internal/repository/history"
	"github.com/kailas-cloud/homesearch/internal/repository/records"
	"github.com/kailas-cloud/homesearch/internal/repository/resultcache"
	healthuc "github.com/kailas-cloud/homesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/homesearch/internal/usecase/search"
	"github.com/kailas-cloud/homesearch/internal/usecase/source"
)

// engine is the composition root shared by every command.
type engine struct {
	store   db.Store
	records *records.Repo
	search  *searchuc.Service
	health  *healthuc.Service
}

// openStore creates the record store for the configured driver and waits until it answers.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverRedis, config.DriverValkey:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case config.DriverSQLite:
		store, err = dbSQLite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, cfg.Readiness()); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}

// newEngine wires repositories and services on top of store. m may be nil.
func newEngine(
	store db.Store, cfg config.Config, sess searchuc.SessionProvider, m *metrics.Search, logger *zap.Logger,
) (*engine, error) {
	repo := records.New(store, cfg.Database.KeyPrefix)

	cache, err := resultcache.New(resultcache.Config{
		TTL:          cfg.Cache.TTL(),
		MaxEntries:   cfg.Cache.MaxEntries,
		MaxCacheable: cfg.Cache.MaxCacheable,
	}, m.CacheCounter(), logger)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}

	hist := historyrepo.New(historyrepo.Config{
		MaxPerUser:  cfg.History.MaxPerUser,
		DedupWindow: cfg.History.DedupWindow(),
	})

	svc, err := searchuc.New(searchuc.Sources{
		Documents:  source.NewDocuments(repo, m, logger),
		Folders:    source.NewFolders(repo, m, logger),
		Categories: source.NewCategories(repo, m, logger),
		Members:    source.NewMembers(repo, m, logger),
	}, sess, cache, hist, searchuc.Config{
		Timeout:  cfg.Search.Timeout(),
		PoolSize: cfg.Search.PoolSize,
	}, m, logger)
	if err != nil {
		return nil, fmt.Errorf("create search service: %w", err)
	}

	return &engine{
		store:   store,
		records: repo,
		search:  svc,
		health:  healthuc.New(store, svc),
	}, nil
}

func (e *engine) Close() {
	e.search.Close()
	e.store.Close()
}
