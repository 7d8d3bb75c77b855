package manifest

import (
	"path"
	"regexp"
	"strings"
)

// DigestLength is the number of hex characters in an MD5 digest.
const DigestLength = 32

var (
	// hashSpacePattern matches "<digest> [*]<name>".
	hashSpacePattern = regexp.MustCompile(`^\s*([0-9a-fA-F]{32})\s+\*?\s*(.+?)\s*$`)

	// bsdPattern matches "MD5 (<name>) = <digest>".
	bsdPattern = regexp.MustCompile(`^\s*MD5\s*\((.+?)\)\s*=\s*([0-9a-fA-F]{32})\s*$`)
)

// Record is one accepted manifest line.
type Record struct {
	// Line is the 1-based line number within the manifest. ParseLine leaves it zero.
	Line int

	// Name is the basename of the listed file.
	Name string

	// Path is the listed filename with '\' converted to '/', cleaned and
	// stripped of any leading '/'.
	Path string

	// Hash is the lowercase hex digest.
	Hash string
}

// ParseLine parses a single manifest line.
// It returns false for blank lines, comments and lines in neither format.
func ParseLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Record{}, false
	}

	var digest, name string
	if m := hashSpacePattern.FindStringSubmatch(line); m != nil {
		digest, name = m[1], m[2]
	} else if m := bsdPattern.FindStringSubmatch(line); m != nil {
		name, digest = m[1], m[2]
	} else {
		return Record{}, false
	}

	cleaned, base, ok := splitName(name)
	if !ok {
		return Record{}, false
	}

	return Record{
		Name: base,
		Path: cleaned,
		Hash: strings.ToLower(digest),
	}, true
}

// Basename returns the final segment of name, treating both '/' and '\' as
// separators. It returns "" when nothing usable remains (".", "..", "/").
func Basename(name string) string {
	_, base, ok := splitName(name)
	if !ok {
		return ""
	}
	return base
}

// splitName normalizes a listed filename into its cleaned relative path and basename.
func splitName(name string) (string, string, bool) {
	slashed := strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	if slashed == "" {
		return "", "", false
	}
	cleaned := strings.TrimLeft(path.Clean(slashed), "/")
	base := path.Base(cleaned)
	switch base {
	case "", ".", "..", "/":
		return "", "", false
	}
	return cleaned, base, true
}
