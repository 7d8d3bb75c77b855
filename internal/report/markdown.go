package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/md5recon/internal/model"
)

// MarkdownWriter outputs runs as a Markdown document.
// Only anomalies are tabulated; matching files are counted in the summary.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeSummary(md, run)
	w.writeAnomalies(md, run)
	w.writeFailures(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run inputs.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("MD5 Reconciliation Report")
	md.PlainText("")

	rows := [][]string{}
	if run.Job != "" {
		rows = append(rows, []string{"Job", run.Job})
	}
	rows = append(rows,
		[]string{"Master", "`" + run.MasterPath + "`"},
		[]string{"Raw Root", "`" + run.RawRoot + "`"},
		[]string{"Key Mode", run.KeyMode.String()},
		[]string{"Raw Manifests", strconv.Itoa(run.Manifests)},
		[]string{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
	)
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the per-status counts, a pie chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, run *model.Run) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(model.StatusOrder)+1)
	for _, token := range model.StatusOrder {
		rows = append(rows, []string{string(token), strconv.Itoa(run.Summary.Count(token))})
	}
	rows = append(rows, []string{"**Files**", "**" + strconv.Itoa(len(run.Rows)) + "**"})
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if run.Summary.Total() > 0 {
		w.writePieChart(md, run.Summary)
	}
	w.writeAlert(md, run)
}

// writePieChart writes a mermaid pie chart of the non-zero status counts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Status Distribution"),
		piechart.WithShowData(true),
	)

	for _, token := range model.StatusOrder {
		if n := summary.Count(token); n > 0 {
			chart.LabelAndIntValue(string(token), uint64(n)) //nolint:gosec // counts are non-negative
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert for the most serious outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, run *model.Run) {
	s := run.Summary
	switch {
	case s.Mismatch > 0:
		md.Cautionf("%d file(s) have a different MD5 in the raw corpus.", s.Mismatch)
	case s.DuplicateInMaster+s.DuplicateInRaw > 0:
		md.Warningf("%d duplicate flag(s) raised. A filename carries conflicting hashes.",
			s.DuplicateInMaster+s.DuplicateInRaw)
	case s.OnlyInMaster+s.OnlyInRaw > 0:
		md.Importantf("%d file(s) are listed on one side only.", s.OnlyInMaster+s.OnlyInRaw)
	case len(run.Failures) > 0:
		md.Note("Every compared file matched, but some raw manifests could not be read.")
	case len(run.Rows) == 0:
		md.Note("No files were listed in either source.")
	default:
		md.Tip("Every file matched.")
	}
	md.PlainText("")
}

// writeAnomalies writes a table of every row that did not match.
func (w *MarkdownWriter) writeAnomalies(md *markdown.Markdown, run *model.Run) {
	md.H2("Anomalies")
	md.PlainText("")

	anomalies := run.Anomalies()
	if len(anomalies) == 0 {
		md.PlainText("No anomalies.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(anomalies))
	for i, row := range anomalies {
		rows[i] = []string{
			"`" + row.Filename + "`",
			row.Status.String(),
			cell(row.MasterHashes),
			cell(row.RawHashes),
			cell(locations(run, row.Filename)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Filename", "Status", "Master MD5", "Raw MD5", "Raw Locations"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures lists raw manifests that were skipped.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, run *model.Run) {
	if len(run.Failures) == 0 {
		return
	}

	md.H2("Unreadable Manifests")
	md.PlainText("")

	items := make([]string, len(run.Failures))
	for i, f := range run.Failures {
		items[i] = "`" + f.Path + "`: " + f.Message
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [md5recon](https://github.com/nao1215/md5recon)*")
}

// cell joins values for a table cell, using "-" for an empty list.
func cell(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, "<br>")
}
