package scheduler

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vk/gridci/internal/ctxlog"
	"github.com/vk/gridci/internal/executor"
	"github.com/vk/gridci/internal/matrix"
)

// CellExecutor runs one cell to a terminal result. Satisfied by
// *executor.Executor; tests substitute fakes.
type CellExecutor interface {
	ExecuteCell(ctx context.Context, cell *matrix.Cell) *executor.CellResult
}

// Options tunes one scheduler instance.
type Options struct {
	// MaxConcurrency bounds the number of cells in the running state at any
	// moment. Zero or negative means one worker per cell (unbounded).
	MaxConcurrency int

	// RetryUnavailable re-dispatches a cell exactly once when its
	// environment could not be provisioned. Step failures are never retried.
	RetryUnavailable bool

	// OnResult, when set, is invoked for each terminal result in completion
	// order, before Run returns. It is called from the collector goroutine,
	// never concurrently with itself.
	OnResult func(*executor.CellResult)
}

// Scheduler dispatches independent cells to a CellExecutor.
type Scheduler struct {
	exec CellExecutor
	opts Options

	total     atomic.Int64
	completed atomic.Int64
}

// New creates a Scheduler.
func New(exec CellExecutor, opts Options) *Scheduler {
	if exec == nil {
		panic("scheduler: executor must not be nil")
	}
	return &Scheduler{exec: exec, opts: opts}
}

// Progress reports how many cells have reached a terminal state out of the
// total being scheduled. It is safe to call from other goroutines while Run
// is in flight.
func (s *Scheduler) Progress() (completed, total int) {
	return int(s.completed.Load()), int(s.total.Load())
}

// Run executes every cell and returns one terminal result per cell, in
// completion order.
//
// Cancelling ctx stops in-flight cells (their commands are terminated via
// the context) and marks every cell not yet started as cancelled; each cell
// still produces a result, so the aggregate always covers the full matrix.
func (s *Scheduler) Run(ctx context.Context, cells []*matrix.Cell) []*executor.CellResult {
	logger := ctxlog.FromContext(ctx)

	s.total.Store(int64(len(cells)))
	s.completed.Store(0)

	if len(cells) == 0 {
		return nil
	}

	workers := s.opts.MaxConcurrency
	if workers <= 0 || workers > len(cells) {
		workers = len(cells)
	}
	logger.Debug("Scheduler starting.", "cells", len(cells), "workers", workers)

	resultChan := make(chan *executor.CellResult, len(cells))

	// Collect in completion order while workers are still running.
	results := make([]*executor.CellResult, 0, len(cells))
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for result := range resultChan {
			s.completed.Add(1)
			if s.opts.OnResult != nil {
				s.opts.OnResult(result)
			}
			results = append(results, result)
		}
	}()

	var group errgroup.Group
	group.SetLimit(workers)
	for _, cell := range cells {
		group.Go(func() error {
			resultChan <- s.runCell(ctx, cell)
			return nil
		})
	}

	// Workers never return errors; failures live on the results.
	_ = group.Wait()
	close(resultChan)
	<-collectorDone

	logger.Debug("Scheduler finished.", "results", len(results))
	return results
}

// runCell dispatches one cell, applying the retry-on-unavailable policy.
func (s *Scheduler) runCell(ctx context.Context, cell *matrix.Cell) *executor.CellResult {
	logger := ctxlog.FromContext(ctx)

	result := s.exec.ExecuteCell(ctx, cell)

	if result.Status == executor.StatusUnavailable && s.opts.RetryUnavailable && ctx.Err() == nil {
		logger.Warn("Environment unavailable, re-dispatching cell once.", "cell", cell.ID())
		retried := s.exec.ExecuteCell(ctx, cell)
		retried.Attempts = result.Attempts + 1
		result = retried
	}

	return result
}
