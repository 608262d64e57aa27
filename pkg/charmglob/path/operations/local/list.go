package pathlocal

import (
	"io/fs"
	"os"
	"path/filepath"

	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
)

// List returns a list of paths for all items in the directory.
// If recursive is true, it will include paths from all subdirectories.
// Returns absolute paths by default.
func List(dirPath string, recursive bool) ([]string, error) {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-list-abs", Path: dirPath, Err: err}
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-list-stat", Path: dirPath, Err: err}
	}
	if !info.IsDir() {
		return nil, &pathmodels.PathError{
			Op:   "local-list-check",
			Path: dirPath,
			Err:  pathmodels.ErrInvalid,
		}
	}

	var paths []string

	if recursive {
		err = filepath.WalkDir(absPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != absPath {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, &pathmodels.PathError{Op: "local-list-walk", Path: dirPath, Err: err}
		}
	} else {
		entries, err := os.ReadDir(absPath)
		if err != nil {
			return nil, &pathmodels.PathError{Op: "local-list-read", Path: dirPath, Err: err}
		}

		for _, entry := range entries {
			paths = append(paths, filepath.Join(absPath, entry.Name()))
		}
	}

	return paths, nil
}
