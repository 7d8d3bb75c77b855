// Package config provides configuration structures and utilities for md5recon.
// It defines reconciliation jobs, run-wide options such as concurrency and
// history, and the YAML configuration file that stores named jobs.
package config
