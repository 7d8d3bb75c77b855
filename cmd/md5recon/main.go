// Package main provides the entry point for the md5recon CLI.
//
// md5recon reconciles a master MD5 manifest against every MD5.txt found
// under a raw directory tree and writes a per-file status report.
//
// Usage:
//
//	md5recon run --master <MD5.txt> --raw <dir>
//	md5recon run --job <name>
//
// See --help for all available options.
package main

// main is the entry point for md5recon.
func main() {
	Execute()
}
