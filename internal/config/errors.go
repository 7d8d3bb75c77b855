package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Job.Validate() and are
// wrapped with the offending value, so callers check them with errors.Is().
var (
	// ErrNoJob is returned when there is nothing to reconcile: no --master
	// flag was given and the configuration file defines no jobs.
	ErrNoJob = errors.New("no job specified: provide --master and --raw or define jobs in the configuration file")

	// ErrMasterNotFound is returned when the master manifest does not exist
	// or is not a regular file.
	ErrMasterNotFound = errors.New("master manifest not found")

	// ErrRawRootNotFound is returned when the raw root does not exist
	// or is not a directory.
	ErrRawRootNotFound = errors.New("raw root directory not found")

	// ErrInvalidFormat is returned for a report format other than tsv, markdown or json.
	ErrInvalidFormat = errors.New("invalid report format")

	// ErrInvalidKeyMode is returned for a key mode other than basename or path.
	ErrInvalidKeyMode = errors.New("invalid key mode")

	// ErrInvalidManifestName is returned when the raw manifest name is empty
	// or contains a path separator.
	ErrInvalidManifestName = errors.New("invalid manifest name: must be a plain file name")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrJobNotFound is returned when a job name is not defined in the configuration file.
	ErrJobNotFound = errors.New("job not found in configuration file")
)
