package model

// Row is one line of the reconciliation report.
type Row struct {
	// Filename is the comparison key (the basename unless path keys are in use).
	Filename string `json:"filename"`

	// Status is the reconciliation outcome.
	Status Status `json:"status"`

	// MasterHashes are the distinct master hashes in first-seen order.
	// Empty when the filename is not in the master.
	MasterHashes []string `json:"master_md5"`

	// RawHashes are the distinct raw-corpus hashes in first-seen order.
	// Empty when the filename is not under the raw root.
	RawHashes []string `json:"raw_md5"`
}

// StatusChange describes how a filename's status moved between two runs.
// Previous is empty for a filename that is new in the current run and
// Current is empty for one that disappeared.
type StatusChange struct {
	Filename string `json:"filename"`
	Previous Status `json:"previous"`
	Current  Status `json:"current"`
}
