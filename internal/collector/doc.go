// Package collector builds hash indexes from manifests on disk.
//
// CollectMaster reads the single authoritative manifest. CollectRaw walks a
// directory tree, reads every file named like the raw manifest (MD5.txt by
// default) in sorted depth-first order, and records for each filename both
// its hashes and the directories that listed it.
//
// Both operations are synchronous. The context is only checked between
// manifests so that a long scan can be abandoned.
package collector
