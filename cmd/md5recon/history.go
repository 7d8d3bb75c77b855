package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/md5recon/internal/config"
	"github.com/nao1215/md5recon/internal/database"
	"github.com/nao1215/md5recon/internal/model"
	"github.com/nao1215/md5recon/internal/reconcile"
	"github.com/nao1215/md5recon/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// Constants for history output.
const (
	defaultHistoryLimit = 20
	historyFormatSimple = "simple"
	historyDateLayout   = "2006-01-02 15:04:05"
	statusNew           = "(new)"
	statusGone          = "(gone)"
)

// NewHistoryCmd creates the history command.
// This command reads the runs recorded by 'md5recon run'.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded reconciliation runs",
		Long: `History lists the runs recorded in the history database.

Every 'md5recon run' is recorded unless --no-history is given or history is
turned off in the configuration file. A recorded run can be shown again, and
the latest two successful runs of a job can be compared to see which files
changed status.

Examples:
  # List the latest runs of every job
  md5recon history

  # List the runs of one job
  md5recon history --job archive --limit 5

  # Show the rows of run 12 as Markdown
  md5recon history --show 12 --format markdown

  # Show which files changed status since the previous run of a job
  md5recon history --diff --job archive`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("job", "j", "",
		"Only show runs of this job")
	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().Int64P("show", "s", 0,
		"Show the rows of the run with this ID")
	cmd.Flags().StringP("format", "f", historyFormatSimple,
		"Output format for --show: simple, tsv, markdown or json")
	cmd.Flags().BoolP("diff", "d", false,
		"Show status changes between the latest two successful runs of --job")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	job, err := flags.GetString("job")
	if err != nil {
		return err
	}
	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	showID, err := flags.GetInt64("show")
	if err != nil {
		return err
	}
	format, err := flags.GetString("format")
	if err != nil {
		return err
	}
	diff, err := flags.GetBool("diff")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Validate arguments before opening the database.
	if diff && showID != 0 {
		return errors.New("--diff and --show cannot be used together")
	}
	if diff && job == "" {
		return errors.New("--diff requires --job")
	}
	if format != historyFormatSimple {
		if _, err := report.ParseFormat(format); err != nil {
			return err
		}
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case showID != 0:
		return showRun(ctx, db, out, showID, format)
	case diff:
		return diffRuns(ctx, db, out, job)
	default:
		return listRuns(ctx, db, out, job, limit)
	}
}

// listRuns prints recorded runs as a table, newest first.
func listRuns(ctx context.Context, db *database.RunDB, out io.Writer, job string, limit int) error {
	runs, err := db.ListRuns(ctx, job, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		if job != "" {
			fmt.Fprintf(out, "No runs recorded for job %s.\n", job)
			jobs, err := db.ListJobs(ctx)
			if err != nil {
				return fmt.Errorf("failed to list jobs: %w", err)
			}
			if len(jobs) > 0 {
				fmt.Fprintf(out, "Recorded jobs: %s\n", strings.Join(jobs, ", "))
			}
		} else {
			fmt.Fprintln(out, "No runs recorded.")
		}
		fmt.Fprintln(out, "\nUse 'md5recon run' to reconcile manifests.")
		return nil
	}

	table := tablewriter.NewTable(out)
	table.Header("ID", "Date", "Job", "Duration", "Result")
	for _, r := range runs {
		if err := table.Append(
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format(historyDateLayout),
			r.Job,
			formatDuration(r),
			formatResult(r),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nUse 'md5recon history --show <id>' to see the rows of a run.")
	fmt.Fprintln(out, "Use 'md5recon history --diff --job <name>' to compare the latest two runs of a job.")
	return nil
}

// formatResult summarizes a run for the history table.
func formatResult(r database.RunRecord) string {
	if r.Failed() {
		return "ERROR: " + r.Error
	}
	return r.Summary.String()
}

// formatDuration returns how long a run took, or "-" if it did not finish.
func formatDuration(r database.RunRecord) string {
	if r.FinishedAt.IsZero() {
		return "-"
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}

// showRun prints one stored run in the requested format.
func showRun(ctx context.Context, db *database.RunDB, out io.Writer, id int64, format string) error {
	record, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	rows, err := db.GetRows(ctx, id)
	if err != nil {
		return err
	}

	run := recordToRun(record, rows)

	var w report.Writer
	if format == historyFormatSimple {
		w = report.NewSimpleWriter(out,
			report.WithColor(colorEnabled(out)),
			report.WithVerbose(true),
		)
	} else {
		f, err := report.ParseFormat(format)
		if err != nil {
			return err
		}
		if w, err = report.NewWriter(f, out); err != nil {
			return err
		}
	}

	_, err = w.Write(run)
	return err
}

// recordToRun rebuilds a run from its stored form so that report writers can render it.
func recordToRun(record *database.RunRecord, rows []database.StoredRow) *model.Run {
	run := model.NewRun(record.Job, record.MasterPath, record.RawRoot, record.OutputPath)
	run.KeyMode = record.KeyMode
	run.Manifests = record.Manifests
	run.StartedAt = record.StartedAt
	run.FinishedAt = record.FinishedAt
	run.Summary = record.Summary
	run.Failures = record.Failures
	if record.Failed() {
		run.ErrorMessage = record.Error
		run.Err = errors.New(record.Error)
	}

	run.Rows = make([]model.Row, 0, len(rows))
	for _, r := range rows {
		run.Rows = append(run.Rows, r.Row)
		for _, dir := range r.Locations {
			run.Sources.Add(r.Filename, dir)
		}
	}
	return run
}

// diffRuns prints the status changes between the latest two successful runs of job.
func diffRuns(ctx context.Context, db *database.RunDB, out io.Writer, job string) error {
	runs, err := db.LatestRuns(ctx, job, 2)
	if err != nil {
		return fmt.Errorf("failed to get runs: %w", err)
	}
	if len(runs) < 2 {
		return fmt.Errorf("job %s needs at least two successful runs to compare (found %d)", job, len(runs))
	}
	curr, prev := runs[0], runs[1]

	prevRows, err := db.GetRows(ctx, prev.ID)
	if err != nil {
		return err
	}
	currRows, err := db.GetRows(ctx, curr.ID)
	if err != nil {
		return err
	}

	changes := reconcile.Diff(storedRows(prevRows), storedRows(currRows))

	fmt.Fprintf(out, "Job %s: run #%d (%s) -> run #%d (%s)\n",
		job,
		prev.ID, prev.StartedAt.Local().Format(historyDateLayout),
		curr.ID, curr.StartedAt.Local().Format(historyDateLayout),
	)
	fmt.Fprintf(out, "  before: %s\n", prev.Summary.String())
	fmt.Fprintf(out, "  after:  %s\n\n", curr.Summary.String())

	if len(changes) == 0 {
		fmt.Fprintln(out, "No status changes.")
		return nil
	}

	fmt.Fprintf(out, "%d status change(s):\n", len(changes))
	for _, c := range changes {
		fmt.Fprintf(out, "  %s: %s -> %s\n", c.Filename, changeLabel(c.Previous, statusNew), changeLabel(c.Current, statusGone))
	}
	return nil
}

// storedRows strips the stored locations from rows.
func storedRows(rows []database.StoredRow) []model.Row {
	out := make([]model.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Row
	}
	return out
}

// changeLabel returns the status name, or missing when the file was absent from that run.
func changeLabel(status model.Status, missing string) string {
	if status == "" {
		return missing
	}
	return status.String()
}
