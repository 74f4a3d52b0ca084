// Package memory is an in-process hash store for local runs and tests.
package memory

import (
	"context"
	"maps"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/kailas-cloud/homesearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps hashes in a map guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	hashes map[string]map[string]string
	closed bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{hashes: make(map[string]map[string]string)}
}

// Ping fails once the store is closed.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.check(ctx, db.OpPing)
}

// Close marks the store closed. Data is dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.hashes = nil
}

// WaitForReady returns immediately unless the store is closed.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, timeout, s.Ping)
}

// HSet merges fields into the hash at key.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, db.OpHSet); err != nil {
		return err
	}
	s.set(key, fields)
	return nil
}

// HSetMulti merges several hashes under one lock.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, db.OpHSet); err != nil {
		return err
	}
	for _, it := range items {
		s.set(it.Key, it.Fields)
	}
	return nil
}

func (s *Store) set(key string, fields map[string]string) {
	if len(fields) == 0 {
		return
	}
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	maps.Copy(h, fields)
}

// HGetAll returns a copy of the hash at key, empty if missing.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, db.OpHGetAll); err != nil {
		return nil, err
	}
	return s.get(key), nil
}

// HGetAllMulti returns copies of several hashes in key order.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, db.OpHGetAll); err != nil {
		return nil, err
	}
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = s.get(k)
	}
	return out, nil
}

func (s *Store) get(key string) map[string]string {
	h := s.hashes[key]
	if h == nil {
		return map[string]string{}
	}
	return maps.Clone(h)
}

// Del removes key.
func (s *Store) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(ctx, db.OpDel); err != nil {
		return err
	}
	delete(s.hashes, key)
	return nil
}

// Exists reports whether key holds a hash.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, db.OpExists); err != nil {
		return false, err
	}
	_, ok := s.hashes[key]
	return ok, nil
}

// Scan returns the sorted keys matching a glob pattern.
func (s *Store) Scan(ctx context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(ctx, db.OpScan); err != nil {
		return nil, err
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}

	var keys []string
	for k := range s.hashes {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// check must be called with the lock held.
func (s *Store) check(ctx context.Context, op string) error {
	if s.closed {
		return &db.Error{Op: op, Err: db.ErrClosed}
	}
	if err := ctx.Err(); err != nil {
		return &db.Error{Op: op, Err: err}
	}
	return nil
}
