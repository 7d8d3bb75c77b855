// Package manifest parses checksum manifest files.
//
// Two line formats are understood:
//
//	d41d8cd98f00b204e9800998ecf8427e  foo.txt      (md5sum style, optional '*' before the name)
//	MD5 (foo.txt) = d41d8cd98f00b204e9800998ecf8427e   (BSD style)
//
// Blank lines, comments starting with '#' and anything else that matches
// neither format are skipped silently. Digests are lowercased and filenames
// are reduced to their basename; the name as written is kept on the Record
// for callers that key entries by path.
//
// Files are decoded leniently: invalid UTF-8 is replaced rather than
// rejected, a UTF-8 byte order mark is stripped, and UTF-16 files with a
// byte order mark are transcoded. Only failures to open or read the file
// are reported as errors.
package manifest
