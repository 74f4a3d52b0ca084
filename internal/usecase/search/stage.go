package search

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/homesearch/internal/domain"
)

// Stage is a step of the search pipeline.
type Stage string

// Pipeline stages in execution order. A cache hit jumps from CacheLookup to HistoryRecording.
const (
	StageIdle             Stage = "idle"
	StageValidating       Stage = "validating"
	StageCacheLookup      Stage = "cache_lookup"
	StageAggregating      Stage = "aggregating"
	StageRanking          Stage = "ranking"
	StageCaching          Stage = "caching"
	StageHistoryRecording Stage = "history_recording"
	StageDone             Stage = "done"
)

// pipeline tracks the stage of one search for logging and abort accounting.
type pipeline struct {
	op     string
	stage  Stage
	start  time.Time
	logger *zap.Logger
}

func (s *Service) newPipeline(op string) *pipeline {
	return &pipeline{op: op, stage: StageIdle, start: time.Now(), logger: s.logger.With(zap.String("op", op))}
}

func (p *pipeline) enter(st Stage) {
	p.stage = st
	p.logger.Debug("Search stage", zap.String("stage", string(st)))
}

// abort logs and counts a failed search, then returns err unchanged.
func (s *Service) abort(p *pipeline, err error) error {
	kind := domain.KindOf(err)
	s.metrics.Aborted(string(p.stage), string(kind))

	fields := []zap.Field{
		zap.String("stage", string(p.stage)),
		zap.String("kind", string(kind)),
		zap.Duration("elapsed", time.Since(p.start)),
		zap.Error(err),
	}
	if kind == domain.KindInternal {
		p.logger.Error("Search aborted", fields...)
	} else {
		p.logger.Warn("Search aborted", fields...)
	}
	return err
}

// finish records the request metric of a pipeline.
func (s *Service) finish(p *pipeline, err error) {
	status := "ok"
	if err != nil {
		status = string(domain.KindOf(err))
	} else {
		p.enter(StageDone)
	}
	s.metrics.ObserveRequest(p.op, status, time.Since(p.start))
}
