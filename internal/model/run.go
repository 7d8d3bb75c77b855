package model

import "time"

// ManifestFailure records a raw manifest that could not be read.
// Failures are only collected when a run is allowed to continue past
// unreadable manifests; otherwise the first one aborts the run.
type ManifestFailure struct {
	// Path is the manifest file that failed.
	Path string `json:"path"`

	// Message is the error text.
	Message string `json:"message"`
}

// Run is the result of one reconciliation invocation.
// The input fields are set by the caller; the pipeline fills in the rest.
type Run struct {
	// === Inputs ===

	// Job is the job name, used to group runs in the history database.
	Job string `json:"job"`

	// MasterPath is the authoritative manifest.
	MasterPath string `json:"master_path"`

	// RawRoot is the directory tree searched for raw manifests.
	RawRoot string `json:"raw_root"`

	// OutputPath is where the report is written.
	OutputPath string `json:"output_path"`

	// KeyMode selects basename or path keys.
	KeyMode KeyMode `json:"key_mode"`

	// === Collected data ===

	// Master holds the hashes read from the master manifest.
	Master *HashIndex `json:"-"`

	// Raw holds the hashes read from every raw manifest.
	Raw *HashIndex `json:"-"`

	// Sources records which raw directories mentioned each filename.
	Sources *ProvenanceIndex `json:"-"`

	// Manifests is the number of raw manifests discovered.
	Manifests int `json:"manifests"`

	// Failures lists raw manifests that were skipped because they could not be read.
	Failures []ManifestFailure `json:"failures,omitempty"`

	// === Results ===

	// Rows is the reconciliation result, sorted by filename.
	Rows []Row `json:"rows"`

	// Summary counts Rows by status token.
	Summary Summary `json:"summary"`

	// StartedAt is when the run was created.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step completed. Zero if the run did not finish.
	FinishedAt time.Time `json:"finished_at,omitzero"`

	// Err is the fatal error that stopped the run, if any.
	Err error `json:"-"`

	// ErrorMessage mirrors Err for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps,omitempty"`
}

// NewRun creates a Run for the given inputs with empty indexes.
func NewRun(job, masterPath, rawRoot, outputPath string) *Run {
	return &Run{
		Job:        job,
		MasterPath: masterPath,
		RawRoot:    rawRoot,
		OutputPath: outputPath,
		KeyMode:    KeyModeBasename,
		Master:     NewHashIndex(),
		Raw:        NewHashIndex(),
		Sources:    NewProvenanceIndex(),
		StartedAt:  time.Now(),
	}
}

// Failed reports whether the run stopped on a fatal error.
func (r *Run) Failed() bool {
	return r.Err != nil
}

// Duration returns the wall time of a finished run, or 0 if it did not finish.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Anomalies returns the rows whose status is anything other than MATCH.
func (r *Run) Anomalies() []Row {
	out := make([]Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		if row.Status != StatusMatch {
			out = append(out, row)
		}
	}
	return out
}
