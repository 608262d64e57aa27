package pathlocal

import (
	"bufio"
	"io"
	"os"

	pathhelpers "github.com/ImGajeed76/charmglob/pkg/charmglob/path/helpers"
	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// ReadText reads a whole file and decodes it from the named IANA encoding.
// An empty name reads the bytes unchanged.
func ReadText(filePath string, encodingName string) (string, error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-get-encoding", Path: filePath, Err: err}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-open", Path: filePath, Err: err}
	}
	defer func(file *os.File) {
		if err := file.Close(); err != nil {
			log.Warn("error closing file", "path", filePath, "err", err)
		}
	}(file)

	fileInfo, err := file.Stat()
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-stat", Path: filePath, Err: err}
	}

	reader := bufio.NewReaderSize(file, pathhelpers.GetOptimalBufferSize(fileInfo.Size()))

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-read-all", Path: filePath, Err: err}
	}

	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-decode", Path: filePath, Err: err}
	}

	return string(decoded), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return encoding.Nop, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		enc = encoding.Nop
	}
	return enc, nil
}
