package report

import (
	"io"
	"strings"

	"github.com/nao1215/md5recon/internal/model"
)

// TSVHeader is the first line of every TSV report.
const TSVHeader = "filename\tstatus\tmaster_md5\traw_md5\traw_locations"

// listSeparator joins hash lists and locations inside a TSV cell.
const listSeparator = ","

// TSVWriter writes the tab-separated reconciliation report.
// Each row becomes one line; hashes and raw locations are joined with commas
// and an absent side is an empty cell. Lines end with "\n".
type TSVWriter struct {
	baseWriter
}

// NewTSVWriter creates a TSVWriter that outputs to the given writer.
func NewTSVWriter(output io.Writer) *TSVWriter {
	return &TSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the header followed by one line per row of the run.
func (w *TSVWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder
	sb.WriteString(TSVHeader)
	sb.WriteByte('\n')

	for _, row := range run.Rows {
		sb.WriteString(row.Filename)
		sb.WriteByte('\t')
		sb.WriteString(row.Status.String())
		sb.WriteByte('\t')
		sb.WriteString(strings.Join(row.MasterHashes, listSeparator))
		sb.WriteByte('\t')
		sb.WriteString(strings.Join(row.RawHashes, listSeparator))
		sb.WriteByte('\t')
		sb.WriteString(strings.Join(locations(run, row.Filename), listSeparator))
		sb.WriteByte('\n')
	}

	return io.WriteString(w.output, sb.String())
}
