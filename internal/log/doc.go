// Package log provides logger construction for md5recon on top of the
// standard slog package.
//
// Loggers built here log at Warn by default and at Debug in verbose mode.
// Their PathHandler rewrites file system paths under the user's home
// directory as "~/..." so that logs can be pasted into tickets without
// exposing account names.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//	logger.Debug("reading manifest", "path", "/home/alice/data/MD5.txt")
//	// path=~/data/MD5.txt
//
//	slog.SetDefault(logger)
package log
