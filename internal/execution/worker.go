package execution

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"narrtest/internal/config"
	"narrtest/internal/domain"
	"narrtest/internal/evaluator"
	"narrtest/internal/parser"
	"narrtest/internal/ui"
)

// WorkerPool runs test files in parallel, each in its own session
type WorkerPool struct {
	config   *config.Config
	runner   *Runner
	factory  evaluator.Factory
	parser   *parser.Parser
	progress *ui.ProgressBar
	logger   *zap.Logger
}

var _ Executor = (*WorkerPool)(nil)

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner *Runner, factory evaluator.Factory, p *parser.Parser, logger *zap.Logger) *WorkerPool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		config:  cfg,
		runner:  runner,
		factory: factory,
		parser:  p,
		logger:  logger,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress *ui.ProgressBar) {
	wp.progress = progress
}

// Execute runs the files, stopping early when fail-fast is configured.
func (wp *WorkerPool) Execute(ctx context.Context, paths []string) ([]domain.FileResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, paths, wp.config.Flags.FailFast)
}

// ExecuteWithOptions runs the files with optional fail-fast: no file is
// started after one finished unsuccessfully. Results keep the input order;
// files that never started are left out. A session error cancels the
// remaining files and is returned with the results collected so far.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, paths []string, failFast bool) ([]domain.FileResult, time.Duration, error) {
	if len(paths) == 0 {
		return nil, 0, nil
	}

	startTime := time.Now()
	workerCount := wp.config.Processors
	if workerCount <= 0 {
		workerCount = 1
	}

	slots := make([]*domain.FileResult, len(paths))
	var mu sync.Mutex
	var completedFiles int
	var total domain.Summary
	var stop atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)
	for i, path := range paths {
		if stop.Load() || gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if stop.Load() || gctx.Err() != nil {
				return nil
			}
			result, err := wp.RunFile(gctx, path)
			mu.Lock()
			slots[i] = &result
			completedFiles++
			total.Merge(result.Summary())
			if wp.progress != nil {
				wp.progress.Update(completedFiles, total)
			}
			mu.Unlock()
			if err != nil {
				return err
			}
			if failFast && !result.Summary().Success() {
				stop.Store(true)
			}
			return nil
		})
	}
	err := g.Wait()

	if wp.progress != nil {
		wp.progress.Finish()
	}
	results := make([]domain.FileResult, 0, len(paths))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return results, time.Since(startTime), err
}

// RunFile parses and runs one file in a fresh session.
func (wp *WorkerPool) RunFile(ctx context.Context, path string) (domain.FileResult, error) {
	start := time.Now()
	suite := wp.parser.ParseFile(path)
	wp.logger.Debug("suite parsed", zap.String("path", path), zap.Int("cases", len(suite)))

	results, err := wp.runner.RunWith(ctx, wp.factory, suite)
	return domain.FileResult{
		Path:     path,
		Suite:    suite,
		Results:  results,
		Duration: time.Since(start),
	}, err
}
