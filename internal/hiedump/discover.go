package hiedump

import (
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	hgerrors "github.com/hiegraph/hiegraph/internal/errors"
)

// DefaultPatterns matches the dump files the compiler emits by default.
var DefaultPatterns = []string{"**/*.hie.json"}

// Discover walks root and returns the dump files matching any of the glob
// patterns, sorted and deduplicated so repeated runs see the same order.
// An empty pattern list falls back to DefaultPatterns.
func Discover(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	fsys := os.DirFS(root)
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, hgerrors.NewDumpError("glob "+pattern, root, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			if info, err := fs.Stat(fsys, m); err != nil || info.IsDir() {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}
