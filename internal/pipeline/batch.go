package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/md5recon/internal/config"
	"github.com/nao1215/md5recon/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor runs several reconciliation jobs concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
// A failing job does not stop the others; its error is kept in its run.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each job.
	pipelineFactory func(job config.Job) *Pipeline

	// concurrency is the maximum number of jobs run at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed runs in job order.
	results []*model.Run
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent jobs.
// Non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// pipelineFactory is called once per job.
func NewBatchProcessor(pipelineFactory func(job config.Job) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     config.DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every job and returns their runs in job order.
// Runs of failed jobs carry the error in Run.Err. The returned error is
// non-nil only when ctx was cancelled; jobs not started by then have a
// nil entry.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []config.Job) ([]*model.Run, error) {
	bp.mu.Lock()
	bp.results = make([]*model.Run, len(jobs))
	bp.mu.Unlock()

	err := bp.ProcessBatchWithCallback(ctx, jobs, func(run *model.Run, index int) {
		bp.mu.Lock()
		bp.results[index] = run
		bp.mu.Unlock()
	})

	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.results, err
}

// ProcessBatchWithCallback runs every job and calls callback as each one
// finishes, with the run and the job's index. The callback is called from
// the job's goroutine, so it must be safe for concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []config.Job,
	callback func(run *model.Run, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_jobs", len(jobs),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			bp.logger.Info("running job",
				"job", job.Name,
				"index", i+1,
				"total", len(jobs),
			)

			run := NewRun(job)
			if err := bp.pipelineFactory(job).Execute(ctx, run); err != nil {
				bp.logger.Warn("job failed",
					"job", job.Name,
					"error", err,
				)
			} else {
				bp.logger.Info("job completed",
					"job", job.Name,
					"summary", run.Summary.String(),
				)
			}

			callback(run, i)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_jobs", len(jobs),
		"elapsed", time.Since(startTime),
	)
	return err
}
