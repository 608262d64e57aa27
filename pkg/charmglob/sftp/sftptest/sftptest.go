// Package sftptest serves an in-memory SFTP filesystem for tests.
package sftptest

import (
	"net"
	"path"
	"testing"

	"github.com/pkg/sftp"
)

// NewClient returns a client connected over a pipe to an in-memory request
// server. Both ends are closed when the test finishes.
func NewClient(tb testing.TB) *sftp.Client {
	tb.Helper()

	c1, c2 := net.Pipe()
	server := sftp.NewRequestServer(c1, sftp.InMemHandler())
	go server.Serve() //nolint:errcheck

	client, err := sftp.NewClientPipe(c2, c2)
	if err != nil {
		tb.Fatalf("sftptest: new client: %v", err)
	}
	tb.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client
}

// WriteFiles creates each file, and its parent directories, with the given
// content. Paths must be absolute.
func WriteFiles(tb testing.TB, client *sftp.Client, files map[string]string) {
	tb.Helper()

	for name, content := range files {
		if err := client.MkdirAll(path.Dir(name)); err != nil {
			tb.Fatalf("sftptest: mkdir %s: %v", path.Dir(name), err)
		}
		f, err := client.Create(name)
		if err != nil {
			tb.Fatalf("sftptest: create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			tb.Fatalf("sftptest: write %s: %v", name, err)
		}
		if err := f.Close(); err != nil {
			tb.Fatalf("sftptest: close %s: %v", name, err)
		}
	}
}
