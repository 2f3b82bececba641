package pathutil

import "path/filepath"

// Normalize returns a canonical filesystem path string.
// It removes trailing slashes, collapses "." and "..", and
// preserves relative paths when provided.
func Normalize(path string) string {
	if path == "" {
		return path
	}
	return filepath.Clean(path)
}

// Child appends a single entry name to a directory path without
// re-cleaning the result. The name must not contain a separator.
func Child(dir, name string) string {
	if dir == "" {
		return name
	}
	if dir[len(dir)-1] == filepath.Separator {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
