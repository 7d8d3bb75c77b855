// Package database provides SQLite-based run history for md5recon.
//
// RunDB stores every reconciliation run with its summary, unreadable
// manifests and full row list, so that later runs of the same job can be
// listed and compared status by status.
//
// The database is a single file (md5recon.db) opened through the CGO-free
// modernc.org/sqlite driver with WAL journaling.
package database
