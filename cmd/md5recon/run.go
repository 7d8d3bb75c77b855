package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/nao1215/md5recon/internal/config"
	"github.com/nao1215/md5recon/internal/database"
	"github.com/nao1215/md5recon/internal/model"
	"github.com/nao1215/md5recon/internal/pipeline"
	"github.com/nao1215/md5recon/internal/progress"
	"github.com/nao1215/md5recon/internal/report"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile a master manifest against a raw directory tree",
		Long: `Run compares the master MD5 manifest with every MD5.txt found under the raw
root and writes a report listing the status of each filename.

Without --master, the jobs of the configuration file are run: the ones named
with --job, or all of them. Several jobs are reconciled concurrently.

Progress is printed to stderr and a summary of each job to stdout. The exit
status is 1 if any job fails.

Examples:
  # Reconcile one master against a raw tree
  md5recon run --master /data/master/MD5.txt --raw /data/raw

  # Write a Markdown report to a chosen path
  md5recon run -m master/MD5.txt -r raw -f markdown -o reports/today.md

  # Key files by path instead of by basename
  md5recon run -m master/MD5.txt -r raw --key-mode path

  # Run the "archive" and "photos" jobs of .md5recon
  md5recon run --job archive --job photos

  # Run every configured job, two at a time
  md5recon run -n 2`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	// Inputs
	cmd.Flags().StringP("master", "m", "",
		"Path of the master MD5 manifest")
	cmd.Flags().StringP("raw", "r", "",
		"Root directory searched for raw manifests")
	cmd.Flags().String("name", "",
		"Job name recorded in history for a --master run (default: master's directory name)")
	cmd.Flags().StringSliceP("job", "j", nil,
		"Run the named job from the configuration file (repeatable)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .md5recon in current or home directory)")

	// Reconciliation behavior
	cmd.Flags().StringP("key-mode", "k", string(model.KeyModeBasename),
		"How filenames are compared: basename or path")
	cmd.Flags().String("manifest-name", config.DefaultManifestName,
		"File name of the raw manifests")
	cmd.Flags().Bool("continue-on-error", false,
		"Skip unreadable raw manifests instead of failing")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of jobs reconciled at the same time")

	// Report
	cmd.Flags().StringP("output", "o", "",
		"Report path (default: md5_report.tsv next to the master manifest)")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"Report format: tsv, markdown or json")
	cmd.Flags().BoolP("quiet", "q", false,
		"Do not print progress")

	// History
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}

	return runJobs(ctx, cfg, cmd.OutOrStdout(), newTerminalSink(cmd.ErrOrStderr(), quiet, logger), logger)
}

// buildConfig creates a Config from the configuration file and cobra flags.
// Flags given on the command line override the file's settings.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON = getLogJSONFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	default:
		cfg.File = &config.File{Jobs: make(map[string]config.JobConfig)}
	}

	if cfg.File.Concurrency > 0 {
		cfg.Concurrency = cfg.File.Concurrency
	}
	if cmd.Flags().Changed("concurrency") {
		if cfg.Concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
			return nil, err
		}
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = cfg.File.HistoryEnabled() && !noHistory

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Jobs, err = selectJobs(cmd, cfg.File)
	if err != nil {
		return nil, err
	}

	if err := applyJobFlags(cmd, cfg.Jobs); err != nil {
		return nil, err
	}

	return cfg, nil
}

// selectJobs returns the ad-hoc job given by --master/--raw, the jobs named
// with --job, or every job of the configuration file.
func selectJobs(cmd *cobra.Command, file *config.File) ([]config.Job, error) {
	master, err := cmd.Flags().GetString("master")
	if err != nil {
		return nil, err
	}
	raw, err := cmd.Flags().GetString("raw")
	if err != nil {
		return nil, err
	}
	names, err := cmd.Flags().GetStringSlice("job")
	if err != nil {
		return nil, err
	}

	if master != "" || raw != "" {
		if master == "" || raw == "" {
			return nil, errors.New("--master and --raw must be given together")
		}
		if len(names) > 0 {
			return nil, errors.New("--job cannot be combined with --master and --raw")
		}
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = adHocJobName(master)
		}
		return []config.Job{file.AdHocJob(name, master, raw)}, nil
	}

	if len(names) == 0 {
		return file.AllJobs(), nil
	}

	jobs := make([]config.Job, 0, len(names))
	for _, name := range names {
		job, err := file.Job(name)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// adHocJobName names a flag-driven job after the directory holding its master.
func adHocJobName(master string) string {
	abs, err := filepath.Abs(master)
	if err != nil {
		abs = master
	}
	return filepath.Base(filepath.Dir(abs))
}

// applyJobFlags overrides job settings with the flags set on the command line.
func applyJobFlags(cmd *cobra.Command, jobs []config.Job) error {
	flags := cmd.Flags()

	if flags.Changed("output") {
		if len(jobs) > 1 {
			return errors.New("--output cannot be used when running several jobs")
		}
		output, err := flags.GetString("output")
		if err != nil {
			return err
		}
		for i := range jobs {
			jobs[i].Output = output
		}
	}

	if flags.Changed("format") {
		format, err := flags.GetString("format")
		if err != nil {
			return err
		}
		for i := range jobs {
			jobs[i].Format = format
		}
	}

	if flags.Changed("key-mode") {
		raw, err := flags.GetString("key-mode")
		if err != nil {
			return err
		}
		mode, err := model.ParseKeyMode(raw)
		if err != nil {
			return fmt.Errorf("%w: %q (valid: basename, path)", config.ErrInvalidKeyMode, raw)
		}
		for i := range jobs {
			jobs[i].KeyMode = mode
		}
	}

	if flags.Changed("manifest-name") {
		name, err := flags.GetString("manifest-name")
		if err != nil {
			return err
		}
		for i := range jobs {
			jobs[i].ManifestName = name
		}
	}

	if flags.Changed("continue-on-error") {
		cont, err := flags.GetBool("continue-on-error")
		if err != nil {
			return err
		}
		for i := range jobs {
			jobs[i].ContinueOnError = cont
		}
	}

	return nil
}

// runJobs reconciles every job of cfg, printing each summary to out as the
// job finishes and recording it in the history database.
func runJobs(ctx context.Context, cfg *config.Config, out io.Writer, sink progress.Sink, logger *slog.Logger) error {
	logger.Info("starting reconciliation",
		"jobs", len(cfg.Jobs),
		"concurrency", cfg.Concurrency,
		"save_to_db", cfg.SaveToDB,
	)

	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("run history disabled", "db_dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
			logger.Debug("database opened", "db_path", db.Path())
		}
	}

	multi := len(cfg.Jobs) > 1
	bp := pipeline.NewBatchProcessor(
		func(job config.Job) *pipeline.Pipeline {
			var s progress.Sink = sink
			if multi {
				s = progress.Prefixed{Prefix: "[" + job.Name + "] ", Sink: sink}
			}
			return pipeline.DefaultPipeline(job, s, pipeline.WithLogger(logger))
		},
		pipeline.WithConcurrency(cfg.Concurrency),
		pipeline.WithBatchLogger(logger),
	)

	summary := report.NewSimpleWriter(out,
		report.WithColor(colorEnabled(out)),
		report.WithVerbose(cfg.Verbose),
	)

	startTime := time.Now()
	var (
		mu     sync.Mutex
		failed []*model.Run
	)
	err := bp.ProcessBatchWithCallback(ctx, cfg.Jobs, func(run *model.Run, _ int) {
		mu.Lock()
		defer mu.Unlock()

		if run.Failed() {
			failed = append(failed, run)
		}

		if _, err := summary.Write(run); err != nil {
			logger.Error("failed to print summary", "job", run.Job, "error", err)
		}

		if db != nil {
			// Record the run even when the batch is being cancelled.
			if _, err := db.SaveRun(context.WithoutCancel(ctx), run); err != nil {
				logger.Error("failed to save run", "job", run.Job, "error", err)
			}
		}
	})

	logger.Info("reconciliation finished",
		"jobs", len(cfg.Jobs),
		"failed", len(failed),
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if err != nil {
		return err
	}
	switch {
	case len(failed) == 0:
		return nil
	case len(cfg.Jobs) == 1:
		return failed[0].Err
	default:
		return fmt.Errorf("%d of %d jobs failed", len(failed), len(cfg.Jobs))
	}
}
