package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/md5recon/internal/collector"
	"github.com/nao1215/md5recon/internal/config"
	"github.com/nao1215/md5recon/internal/model"
	"github.com/nao1215/md5recon/internal/progress"
	"github.com/nao1215/md5recon/internal/reconcile"
	"github.com/nao1215/md5recon/internal/report"
)

// ValidateStep checks the job inputs before anything is read.
type ValidateStep struct {
	job config.Job
}

// NewValidateStep creates a step that validates job.
func NewValidateStep(job config.Job) *ValidateStep {
	return &ValidateStep{job: job}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do returns config.ErrMasterNotFound or config.ErrRawRootNotFound (wrapped)
// when the inputs are missing.
func (s *ValidateStep) Do(_ context.Context, _ *model.Run) error {
	return s.job.Validate()
}

// ReadMasterStep loads the master manifest into run.Master.
type ReadMasterStep struct {
	collector *collector.Collector
	sink      progress.Sink
}

// NewReadMasterStep creates a step reading the master with c.
func NewReadMasterStep(c *collector.Collector, sink progress.Sink) *ReadMasterStep {
	return &ReadMasterStep{collector: c, sink: progress.Or(sink)}
}

// Name returns the step name.
func (s *ReadMasterStep) Name() string {
	return "read-master"
}

// Do reads run.MasterPath.
func (s *ReadMasterStep) Do(ctx context.Context, run *model.Run) error {
	progress.Messagef(s.sink, "[1/4] Reading master: %s", run.MasterPath)
	s.sink.Percent(progress.PercentReadMaster)

	idx, err := s.collector.CollectMaster(ctx, run.MasterPath)
	if err != nil {
		return err
	}
	run.Master = idx
	return nil
}

// ScanRawStep discovers and reads every raw manifest under run.RawRoot.
type ScanRawStep struct {
	collector *collector.Collector
	sink      progress.Sink
}

// NewScanRawStep creates a step scanning the raw tree with c.
// The collector should share sink so per-manifest messages follow the step message.
func NewScanRawStep(c *collector.Collector, sink progress.Sink) *ScanRawStep {
	return &ScanRawStep{collector: c, sink: progress.Or(sink)}
}

// Name returns the step name.
func (s *ScanRawStep) Name() string {
	return "scan-raw"
}

// Do fills run.Raw, run.Sources, run.Manifests and run.Failures.
func (s *ScanRawStep) Do(ctx context.Context, run *model.Run) error {
	progress.Messagef(s.sink, "[2/4] Scanning raw: %s", run.RawRoot)
	s.sink.Percent(progress.PercentScanRaw)

	corpus, err := s.collector.CollectRaw(ctx, run.RawRoot)
	if err != nil {
		return err
	}
	run.Raw = corpus.Hashes
	run.Sources = corpus.Sources
	run.Manifests = len(corpus.Manifests)
	run.Failures = corpus.Failures
	return nil
}

// CompareStep reconciles the master and raw indexes.
type CompareStep struct {
	sink progress.Sink
}

// NewCompareStep creates a comparison step.
func NewCompareStep(sink progress.Sink) *CompareStep {
	return &CompareStep{sink: progress.Or(sink)}
}

// Name returns the step name.
func (s *CompareStep) Name() string {
	return "compare"
}

// Do fills run.Rows and run.Summary.
func (s *CompareStep) Do(_ context.Context, run *model.Run) error {
	s.sink.Message("[3/4] Comparing...")
	s.sink.Percent(progress.PercentCompare)

	run.Rows = reconcile.Compare(run.Master, run.Raw)
	run.Summary = reconcile.Summarize(run.Rows)

	s.sink.Message("Summary -> " + run.Summary.String())
	return nil
}

// WriteReportStep writes the report file to run.OutputPath.
type WriteReportStep struct {
	format report.Format
	sink   progress.Sink
	logger *slog.Logger
}

// NewWriteReportStep creates a step writing the report in format.
func NewWriteReportStep(format report.Format, sink progress.Sink, logger *slog.Logger) *WriteReportStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteReportStep{format: format, sink: progress.Or(sink), logger: logger}
}

// Name returns the step name.
func (s *WriteReportStep) Name() string {
	return "write-report"
}

// Do writes the report, creating directories and replacing any existing file.
func (s *WriteReportStep) Do(_ context.Context, run *model.Run) error {
	progress.Messagef(s.sink, "[4/4] Writing report: %s", run.OutputPath)
	s.sink.Percent(progress.PercentWrite)

	if err := report.WriteFile(run.OutputPath, s.format, run); err != nil {
		return err
	}
	s.logger.Debug("report written", "output_path", run.OutputPath, "rows", len(run.Rows))
	return nil
}

// FinishStep marks the run complete.
type FinishStep struct {
	sink progress.Sink
	now  func() time.Time
}

// NewFinishStep creates the final step.
func NewFinishStep(sink progress.Sink) *FinishStep {
	return &FinishStep{sink: progress.Or(sink), now: time.Now}
}

// Name returns the step name.
func (s *FinishStep) Name() string {
	return "finish"
}

// Do sets run.FinishedAt and reports completion.
func (s *FinishStep) Do(_ context.Context, run *model.Run) error {
	run.FinishedAt = s.now()
	s.sink.Message("[DONE] Completed.")
	s.sink.Percent(progress.PercentDone)
	return nil
}

// NewRun creates the run for job with its output path resolved.
func NewRun(job config.Job) *model.Run {
	run := model.NewRun(job.Name, job.Master, job.RawRoot, job.ReportPath())
	if job.KeyMode != "" {
		run.KeyMode = job.KeyMode
	}
	return run
}

// DefaultPipeline creates the standard reconciliation pipeline for job:
// validate, read-master, scan-raw, compare, write-report, finish.
//
// The first parameter group configures the pipeline itself (WithLogger, etc).
// An unknown report format is caught by the validate step.
func DefaultPipeline(job config.Job, sink progress.Sink, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)
	sink = progress.Or(sink)

	c := collector.New(
		collector.WithSink(sink),
		collector.WithLogger(p.logger),
		collector.WithManifestName(job.Manifest()),
		collector.WithKeyMode(job.KeyMode),
		collector.WithContinueOnError(job.ContinueOnError),
	)

	format, err := report.ParseFormat(job.Format)
	if err != nil {
		format = report.FormatTSV
	}

	p.AddSteps(
		NewValidateStep(job),
		NewReadMasterStep(c, sink),
		NewScanRawStep(c, sink),
		NewCompareStep(sink),
		NewWriteReportStep(format, sink, p.logger),
		NewFinishStep(sink),
	)

	return p
}
