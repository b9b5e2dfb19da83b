// Package pathutil provides utilities for converting between absolute and
// relative paths.
//
// hiegraph uses absolute paths internally for consistency and to avoid
// ambiguity; user-facing output uses relative paths for readability. This
// package is the conversion layer between the two representations.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already
// relative.
//
// Examples:
//   - ToRelative("/home/user/project/dist/A.hie.json", "/home/user/project") → "dist/A.hie.json"
//   - ToRelative("/other/location/B.hie.json", "/home/user/project") → "/other/location/B.hie.json" (outside root)
//   - ToRelative("dist/A.hie.json", "/home/user/project") → "dist/A.hie.json" (already relative)
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
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// A ".." prefix means the file is outside the root; the absolute path is
	// clearer in that case.
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}
	return relPath
}

// ToRelativeAll converts a slice of paths without modifying the original.
// Used at output boundaries where skipped or failing dump files are listed
// for the user.
func ToRelativeAll(paths []string, rootDir string) []string {
	if len(paths) == 0 {
		return paths
	}
	converted := make([]string, len(paths))
	for i, p := range paths {
		converted[i] = ToRelative(p, rootDir)
	}
	return converted
}
