package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/md5recon/internal/config"
	"github.com/nao1215/md5recon/internal/model"
	"github.com/nao1215/md5recon/internal/progress"
	"github.com/nao1215/md5recon/internal/report"
)

const (
	a1 = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa1"
	b2 = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb2"
	c3 = "ccccccccccccccccccccccccccccccc3"
	d4 = "ddddddddddddddddddddddddddddddd4"
)

// writeFile creates path with the given lines.
func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// scenario lays out the three-file reference case and returns its job.
func scenario(t *testing.T) config.Job {
	t.Helper()

	dir := t.TempDir()
	master := filepath.Join(dir, "master", "MD5.txt")
	raw := filepath.Join(dir, "raw")

	writeFile(t, master,
		a1+"  file1.bin",
		b2+"  file2.bin",
	)
	writeFile(t, filepath.Join(raw, "a", "MD5.txt"),
		a1+"  file1.bin",
		c3+"  file2.bin",
	)
	writeFile(t, filepath.Join(raw, "b", "MD5.txt"),
		d4+"  file3.bin",
	)

	return config.NewJob("", master, raw)
}

// TestDefaultPipeline tests the full reconciliation pipeline.
func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("reconciles the reference scenario", func(t *testing.T) {
		t.Parallel()

		job := scenario(t)
		rec := &progress.Recorder{}
		run := NewRun(job)

		p := DefaultPipeline(job, rec, WithLogger(discardLogger()))
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		summary := "MATCH:1, MISMATCH:1, ONLY_IN_MASTER:0, ONLY_IN_RAW:1, DUPLICATE_IN_MASTER:0, DUPLICATE_IN_RAW:0"
		if run.Summary.String() != summary {
			t.Errorf("summary = %q, want %q", run.Summary.String(), summary)
		}

		output := filepath.Join(filepath.Dir(job.Master), config.DefaultReportName)
		if run.OutputPath != output {
			t.Errorf("output = %q, want %q", run.OutputPath, output)
		}
		data, err := os.ReadFile(output)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		want := []string{
			report.TSVHeader,
			"file1.bin\tMATCH\t" + a1 + "\t" + a1 + "\t" + filepath.Join(job.RawRoot, "a"),
			"file2.bin\tMISMATCH\t" + b2 + "\t" + c3 + "\t" + filepath.Join(job.RawRoot, "a"),
			"file3.bin\tONLY_IN_RAW\t\t" + d4 + "\t" + filepath.Join(job.RawRoot, "b"),
		}
		if diff := cmp.Diff(want, lines); diff != "" {
			t.Errorf("report mismatch (-want +got):\n%s", diff)
		}

		messages := []string{
			"[1/4] Reading master: " + job.Master,
			"[2/4] Scanning raw: " + job.RawRoot,
			"[scan] 1/2 " + filepath.Join(job.RawRoot, "a", "MD5.txt"),
			"[scan] 2/2 " + filepath.Join(job.RawRoot, "b", "MD5.txt"),
			"[3/4] Comparing...",
			"Summary -> " + summary,
			"[4/4] Writing report: " + output,
			"[DONE] Completed.",
		}
		if diff := cmp.Diff(messages, rec.Messages()); diff != "" {
			t.Errorf("messages mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]int{5, 35, 65, 85, 100}, rec.Percents()); diff != "" {
			t.Errorf("percents mismatch (-want +got):\n%s", diff)
		}

		if run.FinishedAt.IsZero() {
			t.Error("expected FinishedAt to be set")
		}
		if run.Manifests != 2 {
			t.Errorf("manifests = %d, want 2", run.Manifests)
		}
	})

	t.Run("missing master stops before reading", func(t *testing.T) {
		t.Parallel()

		job := scenario(t)
		job.Master = filepath.Join(t.TempDir(), "absent.txt")
		rec := &progress.Recorder{}
		run := NewRun(job)

		err := DefaultPipeline(job, rec, WithLogger(discardLogger())).Execute(context.Background(), run)
		if !errors.Is(err, config.ErrMasterNotFound) {
			t.Fatalf("expected ErrMasterNotFound, got %v", err)
		}
		if len(rec.Messages()) != 0 {
			t.Errorf("expected no progress, got %v", rec.Messages())
		}
	})

	t.Run("missing raw root stops before reading", func(t *testing.T) {
		t.Parallel()

		job := scenario(t)
		job.RawRoot = filepath.Join(t.TempDir(), "absent")
		run := NewRun(job)

		err := DefaultPipeline(job, nil, WithLogger(discardLogger())).Execute(context.Background(), run)
		if !errors.Is(err, config.ErrRawRootNotFound) {
			t.Fatalf("expected ErrRawRootNotFound, got %v", err)
		}
	})

	t.Run("empty raw tree marks every master file", func(t *testing.T) {
		t.Parallel()

		job := scenario(t)
		job.RawRoot = t.TempDir()
		job.Output = filepath.Join(t.TempDir(), "out", "report.tsv")
		run := NewRun(job)

		if err := DefaultPipeline(job, nil, WithLogger(discardLogger())).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Summary.OnlyInMaster != 2 || run.Summary.Total() != 2 {
			t.Errorf("unexpected summary %s", run.Summary)
		}
		data, err := os.ReadFile(job.Output)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		if got := strings.Count(string(data), "\n"); got != 3 {
			t.Errorf("expected header plus 2 rows, got %d lines", got)
		}
	})

	t.Run("markdown format writes a markdown report", func(t *testing.T) {
		t.Parallel()

		job := scenario(t)
		job.Format = "markdown"
		run := NewRun(job)

		if err := DefaultPipeline(job, nil, WithLogger(discardLogger())).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Ext(run.OutputPath) != ".md" {
			t.Errorf("unexpected output path %s", run.OutputPath)
		}
		data, err := os.ReadFile(run.OutputPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "# MD5 Reconciliation Report") {
			t.Error("expected markdown heading")
		}
	})

	t.Run("path key mode keeps same-named files apart", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		master := filepath.Join(dir, "MD5.txt")
		raw := filepath.Join(dir, "raw")
		writeFile(t, master, a1+"  x/data.bin", b2+"  y/data.bin")
		writeFile(t, filepath.Join(raw, "x", "MD5.txt"), a1+"  data.bin")
		writeFile(t, filepath.Join(raw, "y", "MD5.txt"), b2+"  data.bin")

		job := config.NewJob("", master, raw)
		job.KeyMode = model.KeyModePath
		run := NewRun(job)

		if err := DefaultPipeline(job, nil, WithLogger(discardLogger())).Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if run.Summary.Match != 2 || run.Summary.Total() != 2 {
			t.Errorf("unexpected summary %s", run.Summary)
		}
	})
}

// TestCompareStep tests the comparison step on its own.
func TestCompareStep(t *testing.T) {
	t.Parallel()

	rec := &progress.Recorder{}
	run := model.NewRun("", "m", "r", "o")
	run.Master.Add("f", a1)
	run.Master.Add("f", b2)
	run.Raw.Add("f", a1)

	if err := NewCompareStep(rec).Do(context.Background(), run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(run.Rows) != 1 || run.Rows[0].Status != model.StatusDuplicateInMaster {
		t.Errorf("unexpected rows %+v", run.Rows)
	}
	if run.Summary.DuplicateInMaster != 1 {
		t.Errorf("unexpected summary %s", run.Summary)
	}
	if got := rec.Messages(); len(got) != 2 || got[0] != "[3/4] Comparing..." {
		t.Errorf("unexpected messages %v", got)
	}
}
