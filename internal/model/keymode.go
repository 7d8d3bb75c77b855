package model

import "fmt"

// KeyMode selects how filenames are turned into comparison keys.
type KeyMode string

const (
	// KeyModeBasename compares entries by their final path segment only.
	// Two files with the same name in different directories are treated as
	// the same logical entity.
	KeyModeBasename KeyMode = "basename"

	// KeyModePath compares entries by their path relative to the manifest
	// that lists them (master) or to the raw root (raw corpus).
	KeyModePath KeyMode = "path"
)

// ParseKeyMode converts s to a KeyMode. The empty string selects KeyModeBasename.
func ParseKeyMode(s string) (KeyMode, error) {
	switch KeyMode(s) {
	case "", KeyModeBasename:
		return KeyModeBasename, nil
	case KeyModePath:
		return KeyModePath, nil
	default:
		return "", fmt.Errorf("unknown key mode %q (want %q or %q)", s, KeyModeBasename, KeyModePath)
	}
}

// String returns the key mode name.
func (k KeyMode) String() string {
	return string(k)
}
