package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/md5recon/internal/model"
)

// Step is one phase of a reconciliation. Each step reads what earlier
// steps put into the run and adds its own results.
type Step interface {
	// Do performs the phase. On error the run keeps whatever was filled in so far.
	Do(ctx context.Context, run *model.Run) error

	// Name identifies the step in logs and in Run.PerformedSteps.
	Name() string
}

// Pipeline runs its steps in order against a single run.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for step progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running the remaining steps after a failure.
// The first error is still recorded in the run.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step; steps run in the order they were added.
func (p *Pipeline) AddStep(step Step) {
	p.AddSteps(step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against run.
//
// The context is checked between steps. The first failure is kept in
// run.Err and returned, unless WithContinueOnError was given, in which
// case the remaining steps still run and Execute returns nil.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("reconciliation cancelled",
				"job", run.Job,
				"before_step", step.Name(),
				"reason", err,
			)
			recordError(run, err)
			return err
		}

		if err := p.runStep(ctx, step, run); err != nil {
			recordError(run, err)
			if !p.continueOnError {
				return err
			}
		}
	}
	return nil
}

// runStep executes one step and logs its outcome and duration.
func (p *Pipeline) runStep(ctx context.Context, step Step, run *model.Run) error {
	p.logger.Info("step started", "job", run.Job, "step", step.Name())
	start := time.Now()

	if err := step.Do(ctx, run); err != nil {
		p.logger.Error("step failed",
			"job", run.Job,
			"step", step.Name(),
			"error", err,
		)
		return err
	}

	run.PerformedSteps = append(run.PerformedSteps, step.Name())
	p.logger.Debug("step finished",
		"job", run.Job,
		"step", step.Name(),
		"elapsed", time.Since(start),
	)
	return nil
}

// recordError keeps the first error of a run.
func recordError(run *model.Run, err error) {
	if run.Err == nil {
		run.Err = err
		run.ErrorMessage = err.Error()
	}
}

// StepCount returns how many steps the pipeline holds.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames lists the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
