package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/domain"
	"github.com/kailas-cloud/homesearch/internal/domain/record"
	"github.com/kailas-cloud/homesearch/internal/domain/search/filter"
	"github.com/kailas-cloud/homesearch/internal/domain/search/query"
	"github.com/kailas-cloud/homesearch/internal/domain/search/result"
)

// aggregate fans the query out to the four sources on the worker pool and
// waits for all of them. A slow or failing source never cancels the others;
// exceeding the time budget aborts the whole search.
func (s *Service) aggregate(ctx context.Context, q query.Query, f filter.Set) (result.Aggregate, error) {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n := q.Normalized()

	docs := result.EmptySource[record.Document](record.KindDocument, 0)
	folders := result.EmptySource[record.Folder](record.KindFolder, 0)
	cats := result.EmptySource[record.Category](record.KindCategory, 0)
	members := result.EmptySource[record.Member](record.KindMember, 0)

	var wg sync.WaitGroup
	s.dispatch(&wg, record.KindDocument, func() { docs = s.sources.Documents.Search(ctx, n, f) })
	s.dispatch(&wg, record.KindFolder, func() { folders = s.sources.Folders.Search(ctx, n, f) })
	s.dispatch(&wg, record.KindCategory, func() { cats = s.sources.Categories.Search(ctx, n, f) })
	s.dispatch(&wg, record.KindMember, func() { members = s.sources.Members.Search(ctx, n, f) })

	wait(ctx, &wg)
	// Sources degrade to empty results on cancellation, so a result that
	// completed after the deadline is still an abort.
	if err := ctx.Err(); err != nil {
		return result.Aggregate{}, deadlineError(parent, err, s.timeout)
	}

	return result.NewAggregate(q, f, docs, folders, cats, members, s.now(), time.Since(start)), nil
}

// dispatch runs task on the pool. A rejected submission leaves the source's empty default in place.
func (s *Service) dispatch(wg *sync.WaitGroup, kind record.Kind, task func()) {
	wg.Add(1)
	err := s.pool.Submit(func() {
		defer wg.Done()
		task()
	})
	if err != nil {
		wg.Done()
		s.metrics.SourceFailed(string(kind), "rejected")
		s.logger.Warn("Source submission rejected",
			zap.String("source", string(kind)),
			zap.Error(err),
		)
	}
}

// wait blocks until wg is done or ctx ends, whichever comes first.
func wait(ctx context.Context, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func deadlineError(parent context.Context, err error, budget time.Duration) error {
	if perr := parent.Err(); perr != nil {
		if errors.Is(perr, context.Canceled) {
			return fmt.Errorf("%w: search canceled: %w", domain.ErrInternal, perr)
		}
		return fmt.Errorf("%w: caller deadline: %w", domain.ErrTimeout, perr)
	}
	return fmt.Errorf("%w: exceeded %s: %w", domain.ErrTimeout, budget, err)
}
