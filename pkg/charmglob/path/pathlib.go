// Package path is a small pathlib over local files and sftp:// URLs. Glob
// walks either kind with the same matcher.
package path

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	constants "github.com/ImGajeed76/charmglob/internal"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/config"
	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	pathhelpers "github.com/ImGajeed76/charmglob/pkg/charmglob/path/helpers"
	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
	pathlocal "github.com/ImGajeed76/charmglob/pkg/charmglob/path/operations/local"
	pathsftp "github.com/ImGajeed76/charmglob/pkg/charmglob/path/operations/sftp"
	sftpmanager "github.com/ImGajeed76/charmglob/pkg/charmglob/sftp"
	"github.com/charmbracelet/log"
)

type Path struct {
	path   string
	isSftp bool
	conn   sftpmanager.ConnectionDetails
}

// New parses a local path or an sftp://[user[:password]@]host[:port]/path
// URL. It returns nil for an empty or malformed input.
func New(raw string) *Path {
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "sftp://") {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			return nil
		}

		conn := sftpmanager.ConnectionDetails{
			Hostname: u.Hostname(),
			Port:     sftpmanager.DefaultPort,
		}
		if port := u.Port(); port != "" {
			n, err := strconv.Atoi(port)
			if err != nil || n <= 0 {
				return nil
			}
			conn.Port = n
		}
		if u.User != nil {
			conn.Username = u.User.Username()
			conn.Password, _ = u.User.Password()
		}

		remote := u.Path
		if remote == "" {
			remote = "/"
		}
		return &Path{
			path:   path.Clean(remote),
			isSftp: true,
			conn:   conn,
		}
	}

	if runtime.GOOS == "windows" || hasDriveLetter(raw) {
		raw = strings.ReplaceAll(raw, "\\", "/")
	}
	return &Path{
		path:   raw,
		isSftp: false,
	}
}

func hasDriveLetter(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		(('a' <= p[0] && p[0] <= 'z') || ('A' <= p[0] && p[0] <= 'Z'))
}

func (p *Path) IsSftp() bool {
	return p.isSftp
}

func (p *Path) String() string {
	return p.path
}

// SftpPath returns the URL of a remote path without its password.
func (p *Path) SftpPath() string {
	if !p.isSftp {
		return ""
	}

	u := url.URL{
		Scheme: "sftp",
		Host:   p.conn.Hostname + ":" + strconv.Itoa(p.conn.Port),
		Path:   p.path,
	}
	if p.conn.Username != "" {
		u.User = url.User(p.conn.Username)
	}
	return u.String()
}

// ConnectionDetails returns the details used to reach a remote path. A missing
// password is looked up in the keyring.
func (p *Path) ConnectionDetails() sftpmanager.ConnectionDetails {
	conn := p.conn
	if conn.Password != "" || !p.isSftp {
		return conn
	}

	cfg, err := config.New(constants.ServiceName)
	if err != nil {
		log.Debug("keyring unavailable", "err", err)
		return conn
	}
	conn.Password = cfg.SftpPassword(conn)
	return conn
}

func (p *Path) with(newPath string) *Path {
	return &Path{path: newPath, isSftp: p.isSftp, conn: p.conn}
}

func (p *Path) Join(elem string) *Path {
	if elem == "" {
		return nil
	}
	return p.with(path.Join(p.path, strings.TrimPrefix(elem, "/")))
}

// Parent returns nil for a root or a single relative segment.
func (p *Path) Parent() *Path {
	trimmed := strings.TrimSuffix(p.path, "/")
	if trimmed == "" {
		return nil
	}
	i := strings.LastIndex(trimmed, "/")
	switch {
	case i < 0:
		return nil
	case i == 0:
		return p.with("/")
	}
	return p.with(trimmed[:i])
}

func (p *Path) Name() string {
	segments := strings.Split(strings.TrimSuffix(p.path, "/"), "/")
	return segments[len(segments)-1]
}

// Stem is the name up to its first dot.
func (p *Path) Stem() string {
	name := p.Name()
	if strings.Contains(name, ".") {
		return strings.Split(name, ".")[0]
	}

	return name
}

// Suffix is the name after its last dot, without the dot.
func (p *Path) Suffix() string {
	name := p.Name()
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return ""
}

// Stat returns information about the file or directory.
func (p *Path) Stat() (*pathmodels.FileInfo, error) {
	if p.isSftp {
		return pathsftp.Stat(context.Background(), p.path, p.ConnectionDetails())
	}
	return pathlocal.Stat(filepath.FromSlash(p.path))
}

// Exists checks if the path exists
func (p *Path) Exists() bool {
	_, err := p.Stat()
	return err == nil
}

// IsDir checks if the path is a directory
func (p *Path) IsDir() bool {
	info, err := p.Stat()
	return err == nil && info.IsDir
}

// List returns the entries of a directory, and all entries below it when
// recursive is set.
func (p *Path) List(recursive bool) ([]*Path, error) {
	var (
		names []string
		err   error
	)
	if p.isSftp {
		names, err = pathsftp.List(context.Background(), p.path, recursive, p.ConnectionDetails())
	} else {
		names, err = pathlocal.List(filepath.FromSlash(p.path), recursive)
	}
	if err != nil {
		return nil, err
	}
	return p.wrap(names), nil
}

func (p *Path) wrap(names []string) []*Path {
	paths := make([]*Path, 0, len(names))
	for _, name := range names {
		paths = append(paths, p.with(filepath.ToSlash(name)))
	}
	return paths
}

// Glob returns the entries below p whose relative path matches pattern.
func (p *Path) Glob(pattern string, opts ...pathmodels.GlobOptions) ([]*Path, error) {
	return p.GlobContext(context.Background(), pattern, opts...)
}

// GlobContext is Glob with cancellation for remote walks.
func (p *Path) GlobContext(ctx context.Context, pattern string, opts ...pathmodels.GlobOptions) ([]*Path, error) {
	options := pathmodels.DefaultGlobOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	var (
		names []string
		err   error
	)
	if p.isSftp {
		names, err = pathsftp.Glob(ctx, p.path, pattern, options, p.ConnectionDetails())
	} else {
		names, err = pathlocal.Glob(filepath.FromSlash(p.path), pattern, options)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("glob finished", "root", p.path, "pattern", pattern, "matches", len(names))
	return p.wrap(names), nil
}

// Match reports whether the path matches pattern. A pattern without a
// separator is matched against Name only.
func (p *Path) Match(pattern string, opts ...glob.Options) bool {
	compiled := glob.Compile(pattern, opts...)
	if !strings.ContainsAny(pattern, compiled.Options().Platform.Resolve().Separator()+"/") {
		return compiled.Match(p.Name())
	}
	return compiled.Match(p.path)
}

// ReadText reads the content of the file with the specified encoding
func (p *Path) ReadText(encoding string) (string, error) {
	if p.isSftp {
		return pathsftp.ReadText(context.Background(), p.path, encoding, p.ConnectionDetails())
	}
	return pathlocal.ReadText(filepath.FromSlash(p.path), encoding)
}

// ReadPatterns reads a pattern file such as an ignore list: one glob per
// line, blank lines and # comments skipped, each glob normalized.
func (p *Path) ReadPatterns(encoding string, opts ...glob.Options) ([]string, error) {
	text, err := p.ReadText(encoding)
	if err != nil {
		return nil, err
	}
	patterns, err := pathhelpers.ParsePatterns(text, opts...)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "read-patterns", Path: p.path, Err: err}
	}
	return patterns, nil
}
