package pathsftp

import (
	"context"
	"os"
	"path"
	"sort"
	"strings"

	pathhelpers "github.com/ImGajeed76/charmglob/pkg/charmglob/path/helpers"
	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
	sftpmanager "github.com/ImGajeed76/charmglob/pkg/charmglob/sftp"
	"github.com/pkg/sftp"
)

// Glob matches pattern below root on the remote host. See GlobClient.
func Glob(ctx context.Context, root string, pattern string, opts pathmodels.GlobOptions, connectionDetails sftpmanager.ConnectionDetails) ([]string, error) {
	client, release, err := sftpmanager.GetGlobalManager().Acquire(ctx, connectionDetails)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-glob-get-client", Path: root, Err: err}
	}
	defer release()
	return GlobClient(ctx, client, root, pattern, opts)
}

// GlobClient returns the remote paths below root whose path relative to root
// matches pattern, sorted. Remote paths always use forward slashes. The walk
// starts at the pattern's literal prefix, or at root with CaseInsensitive,
// and stops early when ctx is done.
func GlobClient(ctx context.Context, client *sftp.Client, root string, pattern string, opts pathmodels.GlobOptions) ([]string, error) {
	if root == "" {
		root = "."
	}
	if strings.HasPrefix(pattern, "/") {
		root = "/"
		pattern = strings.TrimLeft(pattern, "/")
	}
	root = path.Clean(root)

	// The literal prefix names a real directory only when case matters.
	var base string
	if !opts.CaseInsensitive {
		base, _ = pathhelpers.SplitGlobBase(pattern, opts.Platform)
	}
	start := path.Join(root, base)
	if _, err := client.Stat(start); err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, &pathmodels.PathError{Op: "sftp-glob-stat", Path: start, Err: err}
	}

	matcher := pathhelpers.NewMatcher(pattern, opts)
	matches := []string{}

	walker := client.Walk(start)
	for walker.Step() {
		if err := ctx.Err(); err != nil {
			return nil, &pathmodels.PathError{Op: "sftp-glob-walk", Path: start, Err: err}
		}
		if err := walker.Err(); err != nil {
			if walker.Path() == start {
				return nil, &pathmodels.PathError{Op: "sftp-glob-walk", Path: start, Err: err}
			}
			continue
		}
		current := walker.Path()
		if current == start {
			continue
		}

		rel, ok := pathhelpers.RelSlash(root, current)
		if !ok {
			continue
		}
		isDir := walker.Stat().IsDir()
		match, descend := matcher.Visit(rel, isDir)
		if match {
			matches = append(matches, current)
		}
		if isDir && !descend {
			walker.SkipDir()
		}
	}

	sort.Strings(matches)
	return matches, nil
}
