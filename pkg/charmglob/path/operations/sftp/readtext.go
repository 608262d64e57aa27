package pathsftp

import (
	"bufio"
	"bytes"
	"context"
	"io"

	pathhelpers "github.com/ImGajeed76/charmglob/pkg/charmglob/path/helpers"
	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
	sftpmanager "github.com/ImGajeed76/charmglob/pkg/charmglob/sftp"
	"github.com/charmbracelet/log"
	"github.com/pkg/sftp"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

func ReadText(ctx context.Context, filePath string, encodingName string, connectionDetails sftpmanager.ConnectionDetails) (string, error) {
	client, err := sftpmanager.GetClient(ctx, connectionDetails)
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-get-client", Path: filePath, Err: err}
	}
	return ReadTextClient(client, filePath, encodingName)
}

// ReadTextClient reads a remote file and decodes it from the named IANA
// encoding. An empty name reads the bytes unchanged.
func ReadTextClient(client *sftp.Client, filePath string, encodingName string) (string, error) {
	var enc encoding.Encoding = encoding.Nop
	if encodingName != "" {
		found, err := ianaindex.IANA.Encoding(encodingName)
		if err != nil {
			return "", &pathmodels.PathError{Op: "sftp-read-get-encoding", Path: filePath, Err: err}
		}
		if found != nil {
			enc = found
		}
	}

	file, err := client.Open(filePath)
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-open", Path: filePath, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn("error closing SFTP file", "path", filePath, "err", err)
		}
	}()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-stat", Path: filePath, Err: err}
	}

	reader := bufio.NewReaderSize(file, pathhelpers.GetOptimalBufferSize(fileInfo.Size()))

	var contentBuffer bytes.Buffer
	contentBuffer.Grow(int(fileInfo.Size()))
	if _, err := io.Copy(&contentBuffer, reader); err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-copy", Path: filePath, Err: err}
	}

	decoded, err := enc.NewDecoder().Bytes(contentBuffer.Bytes())
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-decode", Path: filePath, Err: err}
	}

	return string(decoded), nil
}
