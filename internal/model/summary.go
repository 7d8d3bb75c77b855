package model

import (
	"fmt"
	"strings"
)

// Summary holds per-status counts for a reconciliation run.
// Composite statuses contribute one count per token, so a row flagged
// DUPLICATE_IN_MASTER;DUPLICATE_IN_RAW increments both duplicate counters.
type Summary struct {
	Match             int `json:"match"`
	Mismatch          int `json:"mismatch"`
	OnlyInMaster      int `json:"only_in_master"`
	OnlyInRaw         int `json:"only_in_raw"`
	DuplicateInMaster int `json:"duplicate_in_master"`
	DuplicateInRaw    int `json:"duplicate_in_raw"`
}

// Add counts every token of s. Unknown tokens are ignored.
func (s *Summary) Add(status Status) {
	for _, token := range status.Tokens() {
		if c := s.counter(token); c != nil {
			*c++
		}
	}
}

// Count returns the count for a single token, or 0 for an unknown one.
func (s Summary) Count(token Status) int {
	if c := s.counter(token); c != nil {
		return *c
	}
	return 0
}

// Total returns the sum of all token counts.
func (s Summary) Total() int {
	return s.Match + s.Mismatch + s.OnlyInMaster + s.OnlyInRaw + s.DuplicateInMaster + s.DuplicateInRaw
}

// Clean reports whether every filename matched.
func (s Summary) Clean() bool {
	return s.Total() == s.Match
}

// String renders the counts in StatusOrder, e.g.
// "MATCH:1, MISMATCH:0, ONLY_IN_MASTER:0, ONLY_IN_RAW:0, DUPLICATE_IN_MASTER:0, DUPLICATE_IN_RAW:0".
func (s Summary) String() string {
	parts := make([]string, 0, len(StatusOrder))
	for _, token := range StatusOrder {
		parts = append(parts, fmt.Sprintf("%s:%d", token, s.Count(token)))
	}
	return strings.Join(parts, ", ")
}

func (s *Summary) counter(token Status) *int {
	switch token {
	case StatusMatch:
		return &s.Match
	case StatusMismatch:
		return &s.Mismatch
	case StatusOnlyInMaster:
		return &s.OnlyInMaster
	case StatusOnlyInRaw:
		return &s.OnlyInRaw
	case StatusDuplicateInMaster:
		return &s.DuplicateInMaster
	case StatusDuplicateInRaw:
		return &s.DuplicateInRaw
	default:
		return nil
	}
}
