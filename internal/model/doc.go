// Package model defines the data structures shared by the md5recon packages.
//
// This package contains the following main types:
//   - HashIndex: filename to the hashes recorded for it, in encounter order
//   - ProvenanceIndex: filename to the raw-corpus directories that mentioned it
//   - Status: the reconciliation outcome for one filename
//   - Row: one line of the reconciliation report
//   - Summary: per-status counts over a set of rows
//   - Run: everything produced by one reconciliation invocation
//
// Indexes are append-only while a run is being collected and are treated as
// read-only afterwards. No value in this package outlives a single run except
// through the report file and the history database.
package model
