package model

import "strings"

// Status is the reconciliation outcome for a filename.
// A Status is either a single token (e.g. MATCH) or a composite of the
// duplicate tokens joined by StatusSeparator.
type Status string

const (
	// StatusMatch means both sources hold exactly one distinct hash and they agree.
	StatusMatch Status = "MATCH"

	// StatusMismatch means both sources hold exactly one distinct hash and they differ.
	StatusMismatch Status = "MISMATCH"

	// StatusOnlyInMaster means the filename never appears under the raw root.
	StatusOnlyInMaster Status = "ONLY_IN_MASTER"

	// StatusOnlyInRaw means the filename is absent from the master manifest.
	StatusOnlyInRaw Status = "ONLY_IN_RAW"

	// StatusDuplicateInMaster means the master records more than one distinct hash.
	StatusDuplicateInMaster Status = "DUPLICATE_IN_MASTER"

	// StatusDuplicateInRaw means the raw corpus records more than one distinct hash.
	StatusDuplicateInRaw Status = "DUPLICATE_IN_RAW"
)

// StatusSeparator joins the tokens of a composite status.
const StatusSeparator = ";"

// StatusOrder is the fixed order in which summaries render their counts.
var StatusOrder = []Status{
	StatusMatch,
	StatusMismatch,
	StatusOnlyInMaster,
	StatusOnlyInRaw,
	StatusDuplicateInMaster,
	StatusDuplicateInRaw,
}

// JoinStatus builds a composite status from the given tokens, skipping empty ones.
func JoinStatus(tokens ...Status) Status {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			parts = append(parts, string(t))
		}
	}
	return Status(strings.Join(parts, StatusSeparator))
}

// Tokens splits a status into its atomic tokens.
// Empty segments are dropped, so the zero Status has no tokens.
func (s Status) Tokens() []Status {
	if s == "" {
		return nil
	}
	parts := strings.Split(string(s), StatusSeparator)
	tokens := make([]Status, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, Status(p))
		}
	}
	return tokens
}

// Has reports whether token is one of the atomic tokens of s.
func (s Status) Has(token Status) bool {
	for _, t := range s.Tokens() {
		if t == token {
			return true
		}
	}
	return false
}

// IsDuplicate reports whether s carries at least one duplicate flag.
func (s Status) IsDuplicate() bool {
	return s.Has(StatusDuplicateInMaster) || s.Has(StatusDuplicateInRaw)
}

// String returns the status as written in reports.
func (s Status) String() string {
	return string(s)
}
