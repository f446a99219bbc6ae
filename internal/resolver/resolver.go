// Package resolver maps file selectors (literal paths or glob patterns) to
// ordered lists of log files.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolver resolves selectors against a configured base log directory.
type Resolver struct {
	// BaseDir anchors relative selectors. Empty means the process working
	// directory.
	BaseDir string
}

// New creates a Resolver rooted at baseDir.
func New(baseDir string) *Resolver {
	return &Resolver{BaseDir: baseDir}
}

// Resolve maps a selector to an ordered list of file paths:
//
//   - a selector denoting an existing regular file resolves to exactly that
//     file;
//   - a selector containing '*' or '?' is a glob, evaluated against BaseDir
//     (or against its own parent directory when absolute), matching regular
//     files only, sorted by name;
//   - anything else resolves to an empty list.
//
// An empty result is the "no matching files" outcome, not an error.
func (r *Resolver) Resolve(selector string) ([]string, error) {
	resolved := selector
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(r.BaseDir, selector)
	}

	if info, err := os.Stat(resolved); err == nil && info.Mode().IsRegular() {
		return []string{resolved}, nil
	}

	if strings.ContainsAny(selector, "*?") {
		matches, err := filepath.Glob(resolved)
		if err != nil {
			return nil, fmt.Errorf("resolver: bad selector %q: %w", selector, err)
		}
		files := matches[:0]
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			files = append(files, m)
		}
		sort.Strings(files)
		return files, nil
	}

	return nil, nil
}
