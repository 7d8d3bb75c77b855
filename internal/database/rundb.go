package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/md5recon/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "md5recon.db"

// listSeparator joins hash and location lists in run_rows columns.
const listSeparator = ","

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunDB stores reconciliation runs in SQLite.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer; concurrent jobs queue on this connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// Path returns the database file path.
func (rdb *RunDB) Path() string {
	return rdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- One row per reconciliation run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job TEXT NOT NULL DEFAULT '',
		master_path TEXT NOT NULL,
		raw_root TEXT NOT NULL,
		output_path TEXT NOT NULL DEFAULT '',
		key_mode TEXT NOT NULL DEFAULT 'basename',
		manifests INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		summary_json TEXT NOT NULL,
		failures_json TEXT NOT NULL DEFAULT '[]'
	);

	CREATE INDEX IF NOT EXISTS idx_runs_job ON runs(job);

	-- Report rows of each run
	CREATE TABLE IF NOT EXISTS run_rows (
		run_id INTEGER NOT NULL REFERENCES runs(id),
		filename TEXT NOT NULL,
		status TEXT NOT NULL,
		master_md5 TEXT NOT NULL DEFAULT '',
		raw_md5 TEXT NOT NULL DEFAULT '',
		raw_locations TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, filename)
	);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored run without its rows.
type RunRecord struct {
	ID         int64
	Job        string
	MasterPath string
	RawRoot    string
	OutputPath string
	KeyMode    model.KeyMode
	Manifests  int
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
	Summary    model.Summary
	Failures   []model.ManifestFailure
}

// Failed reports whether the run ended with an error.
func (r RunRecord) Failed() bool {
	return r.Error != ""
}

// StoredRow is a stored report row.
type StoredRow struct {
	model.Row

	// Locations are the raw directories that listed the file.
	Locations []string
}

// SaveRun stores run and its rows in one transaction and returns the new run ID.
func (rdb *RunDB) SaveRun(ctx context.Context, run *model.Run) (id int64, err error) {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}
	failures := run.Failures
	if failures == nil {
		failures = []model.ManifestFailure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize failures: %w", err)
	}

	errMsg := run.ErrorMessage
	if errMsg == "" && run.Err != nil {
		errMsg = run.Err.Error()
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (job, master_path, raw_root, output_path, key_mode, manifests,
		started_at, finished_at, error, summary_json, failures_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.Job,
		run.MasterPath,
		run.RawRoot,
		run.OutputPath,
		string(run.KeyMode),
		run.Manifests,
		formatTimestamp(run.StartedAt),
		formatTimestamp(run.FinishedAt),
		errMsg,
		string(summaryJSON),
		string(failuresJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO run_rows (run_id, filename, status, master_md5, raw_md5, raw_locations)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range run.Rows {
		var locations []string
		if run.Sources != nil {
			locations = run.Sources.Locations(row.Filename)
		}
		if _, err = stmt.ExecContext(ctx,
			id,
			row.Filename,
			row.Status.String(),
			strings.Join(row.MasterHashes, listSeparator),
			strings.Join(row.RawHashes, listSeparator),
			strings.Join(locations, listSeparator),
		); err != nil {
			return 0, fmt.Errorf("failed to save row %s: %w", row.Filename, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, job, master_path, raw_root, output_path, key_mode, manifests,
	started_at, finished_at, error, summary_json, failures_json`

// ListRuns returns runs newest first. An empty job lists every job.
// A non-positive limit returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, job string, limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if job != "" {
		query += ` WHERE job = ?`
		args = append(args, job)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return rdb.queryRuns(ctx, query, args...)
}

// LatestRuns returns up to n successful runs of job, newest first.
func (rdb *RunDB) LatestRuns(ctx context.Context, job string, n int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs
	WHERE job = ? AND error = ''
	ORDER BY id DESC
	LIMIT ?`
	return rdb.queryRuns(ctx, query, job, n)
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (rdb *RunDB) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	runs, err := rdb.queryRuns(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return &runs[0], nil
}

// ListJobs returns the distinct job names with stored runs, sorted.
func (rdb *RunDB) ListJobs(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx, `SELECT DISTINCT job FROM runs ORDER BY job`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []string
	for rows.Next() {
		var job string
		if err := rows.Scan(&job); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// GetRows returns the rows of a run sorted by filename.
func (rdb *RunDB) GetRows(ctx context.Context, runID int64) ([]StoredRow, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT filename, status, master_md5, raw_md5, raw_locations
	FROM run_rows
	WHERE run_id = ?
	ORDER BY filename
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	defer rows.Close()

	var result []StoredRow
	for rows.Next() {
		var r StoredRow
		var status, master, raw, locations string
		if err := rows.Scan(&r.Filename, &status, &master, &raw, &locations); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r.Status = model.Status(status)
		r.MasterHashes = splitList(master)
		r.RawHashes = splitList(raw)
		r.Locations = splitList(locations)
		result = append(result, r)
	}
	return result, rows.Err()
}

// queryRuns runs a SELECT over runColumns.
func (rdb *RunDB) queryRuns(ctx context.Context, query string, args ...any) ([]RunRecord, error) {
	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var keyMode, startedAt, finishedAt, summaryJSON, failuresJSON string
		if err := rows.Scan(&r.ID, &r.Job, &r.MasterPath, &r.RawRoot, &r.OutputPath, &keyMode,
			&r.Manifests, &startedAt, &finishedAt, &r.Error, &summaryJSON, &failuresJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.KeyMode = model.KeyMode(keyMode)
		r.StartedAt = parseTimestamp(startedAt)
		r.FinishedAt = parseTimestamp(finishedAt)
		if err := json.Unmarshal([]byte(summaryJSON), &r.Summary); err != nil {
			return nil, fmt.Errorf("failed to parse summary of run %d: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(failuresJSON), &r.Failures); err != nil {
			r.Failures = nil
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// splitList reverses strings.Join for stored list columns.
func splitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, listSeparator)
}

// formatTimestamp stores t in UTC, or "" for the zero time.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats accepted when reading.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses a stored timestamp, returning the zero time when
// s is empty or in no known format.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
