package pathsftp

import (
	"context"
	"path"

	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
	sftpmanager "github.com/ImGajeed76/charmglob/pkg/charmglob/sftp"
	"github.com/pkg/sftp"
)

func List(ctx context.Context, dirPath string, recursive bool, connectionDetails sftpmanager.ConnectionDetails) ([]string, error) {
	client, release, err := sftpmanager.GetGlobalManager().Acquire(ctx, connectionDetails)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-list-get-client", Path: dirPath, Err: err}
	}
	defer release()
	return ListClient(client, dirPath, recursive)
}

func ListClient(client *sftp.Client, dirPath string, recursive bool) ([]string, error) {
	info, err := client.Stat(dirPath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-list-stat", Path: dirPath, Err: err}
	}
	if !info.IsDir() {
		return nil, &pathmodels.PathError{
			Op:   "sftp-list-check",
			Path: dirPath,
			Err:  pathmodels.ErrInvalid,
		}
	}

	var paths []string

	if recursive {
		walker := client.Walk(dirPath)
		for walker.Step() {
			if err := walker.Err(); err != nil {
				return nil, &pathmodels.PathError{Op: "sftp-list-walk", Path: dirPath, Err: err}
			}
			if walker.Path() != dirPath {
				paths = append(paths, walker.Path())
			}
		}
	} else {
		entries, err := client.ReadDir(dirPath)
		if err != nil {
			return nil, &pathmodels.PathError{Op: "sftp-list-read", Path: dirPath, Err: err}
		}

		for _, entry := range entries {
			paths = append(paths, path.Join(dirPath, entry.Name()))
		}
	}

	return paths, nil
}
