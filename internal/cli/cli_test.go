package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	// Equivalent of t.Chdir (Go 1.24+) for older toolchains.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Setenv("PWD", dir)
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "regexp",
			args: []string{"--platform", "posix", "regexp", "*.go"},
			want: "^[^/]*\\.go/*$\n",
		},
		{
			name: "regexp without globstar",
			args: []string{"--platform", "posix", "--globstar=false", "regexp", "a/**/b"},
			want: "^a/+[^/]*/+b/*$\n",
		},
		{
			name: "regexp windows",
			args: []string{"--platform", "windows", "regexp", "*"},
			want: "^[^\\\\/]*(?:\\\\|/)*$\n",
		},
		{
			name: "match arguments",
			args: []string{"--platform", "posix", "match", "*.go", "a.go", "b.txt", "dir/c.go"},
			want: "a.go\n",
		},
		{
			name:  "match stdin",
			stdin: "main.go\ncmd/root.go\r\n\nREADME.md\n",
			args:  []string{"--platform", "posix", "match", "**/*.go"},
			want:  "main.go\ncmd/root.go\n",
		},
		{
			name: "match case insensitive",
			args: []string{"--platform", "posix", "-i", "match", "*.GO", "a.go"},
			want: "a.go\n",
		},
		{
			name: "isglob",
			args: []string{"isglob", "*.go", "plain/path.txt", "\\*"},
			want: "true\t*.go\nfalse\tplain/path.txt\nfalse\t\\*\n",
		},
		{
			name: "normalize keeps parent after globstar",
			args: []string{"--platform", "posix", "normalize", "a/**/../b"},
			want: "a/**/../b\n",
		},
		{
			name: "normalize collapses plain parent",
			args: []string{"--platform", "posix", "normalize", "a/x/../b"},
			want: "a/b\n",
		},
		{
			name: "join keeps first glob with globstar",
			args: []string{"--platform", "posix", "join", "a", "b"},
			want: "a\n",
		},
		{
			name: "join without globstar",
			args: []string{"--platform", "posix", "--globstar=false", "join", "a", "b"},
			want: "a/b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			out, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestMatch_NoMatch(t *testing.T) {
	isolate(t)
	out, err := run(t, "", "--platform", "posix", "match", "*.rs", "a.go")
	assert.True(t, IsNoMatch(err))
	assert.Empty(t, out)
}

func TestSettingsSources(t *testing.T) {
	isolate(t)

	t.Setenv("CHARMGLOB_PLATFORM", "windows")
	out, err := run(t, "", "regexp", "a/b")
	require.NoError(t, err)
	assert.Equal(t, "^a(?:\\\\|/)+b(?:\\\\|/)*$\n", out)

	out, err = run(t, "", "--platform", "posix", "regexp", "a/b")
	require.NoError(t, err)
	assert.Equal(t, "^a/+b/*$\n", out, "a flag wins over the environment")

	t.Setenv("CHARMGLOB_PLATFORM", "")
	file := filepath.Join(t.TempDir(), "charmglob.yaml")
	require.NoError(t, os.WriteFile(file, []byte("platform: posix\ncase-insensitive: true\n"), 0o644))
	out, err = run(t, "", "--config", file, "match", "*.MD", "README.md")
	require.NoError(t, err)
	assert.Equal(t, "README.md\n", out)

	_, err = run(t, "", "--platform", "beos", "regexp", "*")
	assert.ErrorContains(t, err, "beos")

	_, err = run(t, "", "--log-level", "loud", "regexp", "*")
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	isolate(t)

	root := t.TempDir()
	files := map[string]string{
		"main.go":          "package main",
		"pkg/util.go":      "package pkg",
		"pkg/util_test.go": "package pkg",
		"pkg/notes.txt":    "notes",
		".hidden/x.go":     "package hidden",
	}
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	ignore := filepath.Join(t.TempDir(), "ignore")
	require.NoError(t, os.WriteFile(ignore, []byte("# tests\n**/*_test.go\n"), 0o644))

	out, err := run(t, "", "--platform", "posix", "find", "**/*.go", root, "--ignore-file", ignore)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		filepath.Join(root, "main.go"),
		filepath.Join(root, "pkg", "util.go"),
	}, "\n")+"\n", out)

	out, err = run(t, "", "--platform", "posix", "find", "**/*.go", root, "--include-hidden", "--max-depth", "1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "main.go")+"\n", out)

	_, err = run(t, "", "--platform", "posix", "find", "**/*.rs", root)
	assert.True(t, IsNoMatch(err))

	_, err = run(t, "", "find", "*", "sftp://")
	assert.ErrorContains(t, err, "invalid root")
}

func TestListCandidates(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "c.txt"), nil, 0o644))

	got, err := listCandidates(root, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a/b", "a/b/c.txt"}, got)

	got, err = listCandidates(root, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSyntaxAndVersion(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "syntax")
	require.NoError(t, err)
	assert.Contains(t, out, "Glob syntax")

	out, err = run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "charmglob")
}

func TestPassword_RejectsLocalPath(t *testing.T) {
	isolate(t)
	_, err := run(t, "", "password", "/tmp")
	assert.ErrorContains(t, err, "not an sftp URL")
}
