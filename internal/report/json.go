package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/md5recon/internal/model"
)

// JSONWriter outputs runs in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONRow is a report row with its raw locations attached.
type JSONRow struct {
	model.Row

	// Locations are the raw directories whose manifest listed the file.
	Locations []string `json:"raw_locations"`
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	// Run carries the run metadata, summary and failures.
	// Its rows are replaced by Rows below.
	*model.Run

	// Rows shadows Run.Rows to include raw locations.
	Rows []JSONRow `json:"rows"`
}

// NewJSONReport wraps run with per-row locations.
func NewJSONReport(run *model.Run) *JSONReport {
	rows := make([]JSONRow, len(run.Rows))
	for i, row := range run.Rows {
		locs := locations(run, row.Filename)
		if locs == nil {
			locs = []string{}
		}
		rows[i] = JSONRow{Row: normalizeRow(row), Locations: locs}
	}
	return &JSONReport{Run: run, Rows: rows}
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	if run.Err != nil && run.ErrorMessage == "" {
		run.ErrorMessage = run.Err.Error()
	}
	return w.writeJSON(NewJSONReport(run))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}

// normalizeRow replaces nil hash lists with empty ones so they encode as [].
func normalizeRow(row model.Row) model.Row {
	if row.MasterHashes == nil {
		row.MasterHashes = []string{}
	}
	if row.RawHashes == nil {
		row.RawHashes = []string{}
	}
	return row
}
