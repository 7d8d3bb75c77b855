package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MaxLineLength is the longest manifest line the reader accepts.
// Longer lines make the read fail with bufio.ErrTooLong.
const MaxLineLength = 16 * 1024 * 1024

// ReadFile reads every accepted record from the manifest at path.
// Open and read failures are returned wrapped with the path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path) //nolint:gosec // Manifest paths come from the user or from discovery
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return records, nil
}

// Read parses manifest content from r and returns the accepted records with
// their 1-based line numbers. Lines end at "\n", "\r\n" or a lone "\r".
func Read(r io.Reader) ([]Record, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	scanner.Split(scanLines)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		rec, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		rec.Line = lineNo
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// scanLines is a bufio.SplitFunc that accepts "\n", "\r\n" and "\r" as line
// terminators. A trailing line without a terminator is returned as well.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// "\r" at the end of the buffer: wait to see whether "\n" follows.
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
