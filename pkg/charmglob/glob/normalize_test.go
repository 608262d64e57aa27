package glob

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeGlob(t *testing.T) {
	noGlobstar := posix()
	noGlobstar.Globstar = false

	tests := []struct {
		name string
		glob string
		opts Options
		want string
	}{
		{name: "parent after globstar kept", glob: "a/**/../b", opts: posix(), want: "a/**/../b"},
		{name: "leading globstar parent kept", glob: "**/../b", opts: posix(), want: "**/../b"},
		{name: "ordinary parent collapsed", glob: "a/x/../b", opts: posix(), want: "a/b"},
		{name: "dots and doubled separators", glob: "./a//b/./c/", opts: posix(), want: "a/b/c"},
		{name: "parent after star collapsed", glob: "a/*/../b", opts: posix(), want: "a/b"},
		{name: "without globstar everything collapses", glob: "a/**/../b", opts: noGlobstar, want: "a/b"},
		{name: "empty becomes dot", glob: "", opts: posix(), want: "."},
		{name: "windows parent after globstar kept", glob: `a\**\..\b`, opts: windows(), want: `a\**\..\b`},
		{name: "windows ordinary parent", glob: `a\x\..\b`, opts: windows(), want: `a\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeGlob(tt.glob, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeGlob_Idempotent(t *testing.T) {
	globs := []string{"a/**/../b", "./src//**/*.go", "x/../../y", "/abs/./path/", "{a,b}/../c"}
	for _, g := range globs {
		once, err := NormalizeGlob(g, posix())
		require.NoError(t, err)
		twice, err := NormalizeGlob(once, posix())
		require.NoError(t, err)
		assert.Equal(t, once, twice, g)
	}
}

func TestNormalizeGlob_InvalidCharacters(t *testing.T) {
	_, err := NormalizeGlob("a\x00b", posix())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPattern))
	assert.Contains(t, err.Error(), `"a\x00b"`)
}

func TestJoinGlobs(t *testing.T) {
	noGlobstar := posix()
	noGlobstar.Globstar = false

	tests := []struct {
		name  string
		globs []string
		opts  Options
		want  string
	}{
		{name: "globstar keeps the first glob", globs: []string{"a", "b"}, opts: posix(), want: "a"},
		{name: "globstar skips empty globs", globs: []string{"", "", "x/./y"}, opts: posix(), want: "x/y"},
		{name: "globstar with only empty globs", globs: []string{"", ""}, opts: posix(), want: "."},
		{name: "empty list", globs: nil, opts: posix(), want: "."},
		{name: "plain join of empty globs", globs: []string{"", ""}, opts: noGlobstar, want: "."},
		{name: "plain join", globs: []string{"a", "b"}, opts: noGlobstar, want: "a/b"},
		{name: "plain join cleans", globs: []string{"a/**", "..", "b"}, opts: noGlobstar, want: "a/b"},
		{name: "windows plain join", globs: []string{"a", "b"}, opts: Options{Platform: Windows}, want: `a\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JoinGlobs(tt.globs, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinGlobs_InvalidCharacters(t *testing.T) {
	_, err := JoinGlobs([]string{"a\x00"}, posix())
	assert.True(t, errors.Is(err, ErrInvalidPattern))
}

func TestPlatform_Clean(t *testing.T) {
	assert.Equal(t, "a/b", Posix.Clean("a/x/../b"))
	assert.Equal(t, `a\b`, Windows.Clean(`a\x\..\b`))
	assert.Equal(t, `a\b`, Windows.Clean("a/b"))
	assert.Equal(t, "/", Posix.Separator())
	assert.Equal(t, `\`, Windows.Separator())
}
