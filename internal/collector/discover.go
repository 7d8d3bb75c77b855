package collector

import (
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
)

// Discover returns every regular file named name at any depth under root,
// in sorted depth-first order. Symlinks to files are included; symlinked
// directories are not descended into. Any walk error aborts discovery.
func Discover(root, name string) ([]string, error) {
	return discover(root, name, nil)
}

// discover walks root. When onError is non-nil it decides what to do with a
// failing path: returning nil skips the path, returning an error aborts.
func discover(root, name string, onError func(path string, err error) error) ([]string, error) {
	var found []string
	var walkErr error

	opts := &godirwalk.Options{
		Unsorted:            false,
		FollowSymbolicLinks: false,
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() || de.Name() != name {
				return nil
			}
			if isRegularFile(osPathname, de) {
				found = append(found, osPathname)
			}
			return nil
		},
		ErrorCallback: func(osPathname string, err error) godirwalk.ErrorAction {
			if onError == nil {
				walkErr = err
				return godirwalk.Halt
			}
			if cbErr := onError(osPathname, err); cbErr != nil {
				walkErr = cbErr
				return godirwalk.Halt
			}
			return godirwalk.SkipNode
		},
	}

	if err := godirwalk.Walk(filepath.Clean(root), opts); err != nil {
		if walkErr != nil {
			return nil, walkErr
		}
		return nil, err
	}
	return found, nil
}

// isRegularFile reports whether the entry is a regular file or a symlink to one.
func isRegularFile(osPathname string, de *godirwalk.Dirent) bool {
	if de.IsRegular() {
		return true
	}
	if !de.IsSymlink() {
		return false
	}
	info, err := os.Stat(osPathname)
	return err == nil && info.Mode().IsRegular()
}
