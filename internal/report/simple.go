package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nao1215/md5recon/internal/model"
)

// SimpleWriter prints a short human-readable summary of a run for the
// terminal. Colors are off unless WithColor is given.
type SimpleWriter struct {
	baseWriter

	// color enables ANSI colors on status labels.
	color bool

	// verbose lists every anomaly instead of only the counts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColor enables or disables colored status labels.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.color = enabled
	}
}

// WithVerbose enables the anomaly listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeSummary(&sb, run)
	w.writeAnomalies(&sb, run)
	w.writeFailures(&sb, run)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the run inputs.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.Run) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if run.Job != "" {
		fmt.Fprintf(sb, "Job:        %s\n", run.Job)
	}
	fmt.Fprintf(sb, "Master:     %s\n", run.MasterPath)
	fmt.Fprintf(sb, "Raw root:   %s (%d manifests)\n", run.RawRoot, run.Manifests)
	if run.OutputPath != "" {
		fmt.Fprintf(sb, "Report:     %s\n", run.OutputPath)
	}
	if run.Err != nil {
		fmt.Fprintf(sb, "Status:     %s\n", w.paint(color.FgRed, "ERROR - "+run.Err.Error()))
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// writeSummary writes one line per status token.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, run *model.Run) {
	for _, token := range model.StatusOrder {
		label := fmt.Sprintf("%-20s", token)
		n := run.Summary.Count(token)
		if n > 0 {
			label = w.paint(statusColor(token), label)
		}
		fmt.Fprintf(sb, "  %s %d\n", label, n)
	}
	fmt.Fprintf(sb, "  %-20s %d\n", "FILES", len(run.Rows))
}

// writeAnomalies lists non-matching rows in verbose mode.
func (w *SimpleWriter) writeAnomalies(sb *strings.Builder, run *model.Run) {
	if !w.verbose {
		return
	}
	anomalies := run.Anomalies()
	if len(anomalies) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	for _, row := range anomalies {
		fmt.Fprintf(sb, "  [%s] %s\n", w.paint(statusColor(row.Status), row.Status.String()), row.Filename)
	}
}

// writeFailures lists unreadable raw manifests.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, run *model.Run) {
	if len(run.Failures) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "%s\n", w.paint(color.FgYellow, fmt.Sprintf("Skipped %d unreadable manifest(s):", len(run.Failures))))
	for _, f := range run.Failures {
		fmt.Fprintf(sb, "  %s: %s\n", f.Path, f.Message)
	}
}

// paint colors s when colors are enabled.
func (w *SimpleWriter) paint(attr color.Attribute, s string) string {
	if !w.color {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

// statusColor picks the label color for a status.
func statusColor(status model.Status) color.Attribute {
	switch {
	case status.Has(model.StatusMismatch):
		return color.FgRed
	case status.IsDuplicate():
		return color.FgMagenta
	case status == model.StatusMatch:
		return color.FgGreen
	default:
		return color.FgYellow
	}
}
