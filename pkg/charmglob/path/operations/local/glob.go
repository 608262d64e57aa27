package pathlocal

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	pathhelpers "github.com/ImGajeed76/charmglob/pkg/charmglob/path/helpers"
	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
)

// Glob returns the absolute paths below root whose path relative to root
// matches pattern. The walk starts at the pattern's literal prefix, so
// "src/**/*.go" never reads anything outside src. With CaseInsensitive the
// prefix may not name a real directory and the whole root is walked.
//
// An absolute pattern is matched against paths relative to the filesystem
// root. A missing start directory is not an error and yields no matches.
func Glob(root string, pattern string, opts pathmodels.GlobOptions) ([]string, error) {
	if root == "" {
		root = "."
	}
	if strings.HasPrefix(pattern, "/") {
		root = "/"
		pattern = strings.TrimLeft(pattern, "/")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-glob-abs", Path: root, Err: err}
	}

	// The literal prefix names a real directory only when case matters.
	var base string
	if !opts.CaseInsensitive {
		base, _ = pathhelpers.SplitGlobBase(pattern, opts.Platform)
	}
	start := filepath.Join(absRoot, filepath.FromSlash(base))
	if _, err := os.Stat(start); err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, &pathmodels.PathError{Op: "local-glob-stat", Path: start, Err: err}
	}

	matcher := pathhelpers.NewMatcher(pattern, opts)
	matches := []string{}

	err = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == start {
				return err
			}
			// unreadable entries below the start are skipped
			return nil
		}
		if path == start {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		match, descend := matcher.Visit(filepath.ToSlash(rel), d.IsDir())
		if match {
			matches = append(matches, path)
		}
		if d.IsDir() && !descend {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-glob-walk", Path: start, Err: err}
	}

	sort.Strings(matches)
	return matches, nil
}
