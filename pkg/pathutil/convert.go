// Package pathutil converts between absolute and repo-relative paths.
//
// The engine works internally in absolute paths for consistency, but
// user-facing output (tags, tree nodes, rendered maps) uses relative paths
// for readability and portability.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root
// directory, falling back to the original path if conversion fails or the
// path is already relative or escapes the root.
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return absPath
	}
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// ToAbsolute resolves a repo-relative path against rootDir. Already
// absolute paths pass through unchanged.
func ToAbsolute(relPath, rootDir string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Clean(filepath.Join(rootDir, relPath))
}
