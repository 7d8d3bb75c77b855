package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/md5recon/internal/model"
)

// Format names a report file format.
type Format string

const (
	// FormatTSV is the tab-separated report. It is the default.
	FormatTSV Format = "tsv"
	// FormatMarkdown is a human-readable Markdown document.
	FormatMarkdown Format = "markdown"
	// FormatJSON is the full run as JSON.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat converts a format name into a Format.
// An empty name selects FormatTSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTSV:
		return FormatTSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: tsv, markdown, json)", ErrUnknownFormat, s)
	}
}

// Writer defines the interface for report output.
type Writer interface {
	// Write renders the run to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.Run) (int, error)
}

// NewWriter returns the Writer for format writing to output.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatTSV, "":
		return NewTSVWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile renders run to path in the given format.
// Missing parent directories are created and an existing file is overwritten.
func WriteFile(path string, format Format, run *model.Run) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report %s: %w", path, cerr)
		}
	}()

	w, err := NewWriter(format, f)
	if err != nil {
		return err
	}
	if _, err := w.Write(run); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// MultiWriter writes to multiple Writers in order.
// Stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the run with every writer and returns the total bytes written.
func (m *MultiWriter) Write(run *model.Run) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(run)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// locations returns the sorted raw directories that listed name.
func locations(run *model.Run, name string) []string {
	if run.Sources == nil {
		return nil
	}
	return run.Sources.Locations(name)
}
