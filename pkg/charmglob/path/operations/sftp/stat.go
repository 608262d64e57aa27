package pathsftp

import (
	"context"

	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
	sftpmanager "github.com/ImGajeed76/charmglob/pkg/charmglob/sftp"
	"github.com/pkg/sftp"
)

func Stat(ctx context.Context, path string, connectionDetails sftpmanager.ConnectionDetails) (*pathmodels.FileInfo, error) {
	client, err := sftpmanager.GetClient(ctx, connectionDetails)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-stat-get-client", Path: path, Err: err}
	}
	return StatClient(client, path)
}

func StatClient(client *sftp.Client, path string) (*pathmodels.FileInfo, error) {
	info, err := client.Stat(path)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-stat", Path: path, Err: err}
	}
	return pathmodels.NewFileInfo(info), nil
}
