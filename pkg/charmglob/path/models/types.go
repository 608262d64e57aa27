package pathmodels

import (
	"io/fs"
	"time"

	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
)

type FileMode uint32

type FileInfo struct {
	Name    string    // base Name of the file
	Size    int64     // length in bytes
	Mode    FileMode  // file Mode bits
	ModTime time.Time // modification time
	IsDir   bool      // is a directory
}

// NewFileInfo copies the fields of a fs.FileInfo.
func NewFileInfo(info fs.FileInfo) *FileInfo {
	return &FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    FileMode(info.Mode()),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}
}

type GlobOptions struct {
	glob.Options
	// Whether to include entries whose name starts with a dot
	IncludeHidden bool
	// Maximum depth below the search root, 0 means unlimited
	MaxDepth int
	// Globs of entries to leave out; a matching directory is not descended
	IgnorePatterns []string
	// ProgressFunc is called after every visited entry
	ProgressFunc func(scanned, matched int)
}

// DefaultGlobOptions returns the default options
func DefaultGlobOptions() GlobOptions {
	return GlobOptions{
		Options:       glob.DefaultOptions(),
		IncludeHidden: false,
		MaxDepth:      0,
	}
}

var (
	ErrNotExist   = fs.ErrNotExist   // Item does not exist
	ErrExist      = fs.ErrExist      // Item already exists
	ErrPermission = fs.ErrPermission // Permission denied
	ErrInvalid    = fs.ErrInvalid    // Invalid operation
)

type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return e.Op + " " + e.Path
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }
