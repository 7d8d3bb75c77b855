package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/md5recon/internal/database"
	"github.com/nao1215/md5recon/internal/model"
	"github.com/nao1215/md5recon/internal/report"
)

// recordRuns runs the fixture as job "nightly" twice. Between the runs the
// raw copy of file2 is repaired and file3 is removed.
func recordRuns(t *testing.T, f fixture) {
	t.Helper()

	if _, _, err := execute(t, f.runArgs("-q", "--name", "nightly")...); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	writeLines(t, filepath.Join(f.raw, "a", "MD5.txt"),
		hashA+"  file1.bin",
		hashB+"  file2.bin",
	)
	writeLines(t, filepath.Join(f.raw, "b", "MD5.txt"))

	if _, _, err := execute(t, f.runArgs("-q", "--name", "nightly")...); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
}

func TestHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists recorded runs", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		recordRuns(t, f)

		stdout, _, err := execute(t, "history", "--db-dir", f.dbDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.Count(stdout, "nightly"); got != 2 {
			t.Errorf("expected 2 runs of nightly, got %d:\n%s", got, stdout)
		}
		if !strings.Contains(stdout, "history --show <id>") {
			t.Errorf("expected usage hint, got:\n%s", stdout)
		}
	})

	t.Run("empty history explains how to record runs", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := execute(t, "history", "--db-dir", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No runs recorded.") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
	})

	t.Run("unknown job lists the recorded jobs", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		recordRuns(t, f)

		stdout, _, err := execute(t, "history", "--db-dir", f.dbDir, "--job", "weekly")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No runs recorded for job weekly.") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
		if !strings.Contains(stdout, "Recorded jobs: nightly") {
			t.Errorf("expected recorded jobs, got:\n%s", stdout)
		}
	})

	t.Run("show renders a stored run as tsv", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		recordRuns(t, f)

		stdout, _, err := execute(t, "history", "--db-dir", f.dbDir, "--show", "1", "-f", "tsv")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		dirA := filepath.Join(f.raw, "a")
		dirB := filepath.Join(f.raw, "b")
		want := report.TSVHeader + "\n" +
			"file1.bin\tMATCH\t" + hashA + "\t" + hashA + "\t" + dirA + "\n" +
			"file2.bin\tMISMATCH\t" + hashB + "\t" + hashC + "\t" + dirA + "\n" +
			"file3.bin\tONLY_IN_RAW\t\t" + hashD + "\t" + dirB + "\n"
		if stdout != want {
			t.Errorf("unexpected report:\n got: %q\nwant: %q", stdout, want)
		}
	})

	t.Run("show defaults to the console summary", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		recordRuns(t, f)

		stdout, _, err := execute(t, "history", "--db-dir", f.dbDir, "--show", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "[MISMATCH] file2.bin") {
			t.Errorf("expected anomaly listing, got:\n%s", stdout)
		}
	})

	t.Run("diff shows status changes between the latest runs", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		recordRuns(t, f)

		stdout, _, err := execute(t, "history", "--db-dir", f.dbDir, "--diff", "--job", "nightly")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"run #1",
			"run #2",
			"2 status change(s):",
			"file2.bin: MISMATCH -> MATCH",
			"file3.bin: ONLY_IN_RAW -> (gone)",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("diff missing %q:\n%s", want, stdout)
			}
		}
		if strings.Contains(stdout, "file1.bin") {
			t.Errorf("unchanged file listed:\n%s", stdout)
		}
	})
}

func TestHistoryCmdErrors(t *testing.T) {
	t.Parallel()

	t.Run("diff without job", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "history", "--db-dir", t.TempDir(), "--diff")
		if err == nil || !strings.Contains(err.Error(), "--diff requires --job") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("diff with a single run", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		if _, _, err := execute(t, f.runArgs("-q", "--name", "once")...); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		_, _, err := execute(t, "history", "--db-dir", f.dbDir, "--diff", "-j", "once")
		if err == nil || !strings.Contains(err.Error(), "at least two successful runs") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("show unknown run", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "history", "--db-dir", t.TempDir(), "--show", "42")
		if !errors.Is(err, database.ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("unknown show format", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "history", "--db-dir", t.TempDir(), "--show", "1", "-f", "xml")
		if !errors.Is(err, report.ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

func TestChangeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status model.Status
		want   string
	}{
		{name: "present status is its name", status: model.StatusMatch, want: "MATCH"},
		{name: "absent status uses the placeholder", status: "", want: statusNew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := changeLabel(tt.status, statusNew); got != tt.want {
				t.Errorf("changeLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}
