// Package reconcile compares a master hash index against a raw-corpus index.
//
// Compare produces one row per filename in either index, sorted by
// filename. Duplicate flags take precedence over MATCH/MISMATCH: when either
// side holds more than one distinct hash for a name, which hash is "the"
// hash is ambiguous, so the row is flagged for review instead of being
// declared equal or different. Summarize reduces rows to per-status counts
// and Diff lists how statuses moved between two runs.
package reconcile
