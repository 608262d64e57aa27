package glob

import (
	"sync"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func posix() Options {
	o := DefaultOptions()
	o.Platform = Posix
	return o
}

func windows() Options {
	o := DefaultOptions()
	o.Platform = Windows
	return o
}

func TestToRegExp(t *testing.T) {
	tests := []struct {
		name string
		glob string
		opts Options
		want string
	}{
		{name: "empty glob never matches", glob: "", opts: posix(), want: `(?!)`},
		{name: "single star", glob: "*", opts: posix(), want: `^[^/]*/*$`},
		{name: "globstar alone", glob: "**", opts: posix(), want: `^(?:[^/]*(?:/|$)+)*$`},
		{name: "globstar in the middle", glob: "a/**/b", opts: posix(), want: `^a/+(?:[^/]*(?:/|$)+)*b/*$`},
		{name: "root only", glob: "/", opts: posix(), want: `^/+$`},
		{name: "trailing separators trimmed", glob: "a//", opts: posix(), want: `^a/*$`},
		{name: "leading separator", glob: "/a", opts: posix(), want: `^/+a/*$`},
		{name: "negated range", glob: "[!abc]", opts: posix(), want: `^[^abc]/*$`},
		{name: "literal caret in range", glob: "[^a]", opts: posix(), want: `^[\^a]/*$`},
		{name: "posix class", glob: "[[:digit:]]", opts: posix(), want: `^[\d]/*$`},
		{name: "unknown posix class emits nothing", glob: "[a[:bogus:]]", opts: posix(), want: `^[a]/*$`},
		{name: "escaped range member", glob: `[a\]]`, opts: posix(), want: `^[a\]]/*$`},
		{name: "brace alternation", glob: "{foo,bar}.js", opts: posix(), want: `^(?:foo|bar)\.js/*$`},
		{name: "at group", glob: "@(foo|bar)", opts: posix(), want: `^(?:foo|bar)/*$`},
		{name: "star group", glob: "*(a|b)", opts: posix(), want: `^(?:a|b)*/*$`},
		{name: "plus group", glob: "+(a)", opts: posix(), want: `^(?:a)+/*$`},
		{name: "question group", glob: "?(a)", opts: posix(), want: `^(?:a)?/*$`},
		{name: "negated group adds wildcard", glob: "!(foo)", opts: posix(), want: `^(?!foo)[^/]*/*$`},
		{name: "question mark", glob: "foo?", opts: posix(), want: `^foo./*$`},
		{name: "star run is one wildcard", glob: "a***", opts: posix(), want: `^a[^/]*/*$`},
		{name: "double star inside a segment", glob: "**a", opts: posix(), want: `^[^/]*a/*$`},
		{name: "escaped star", glob: `\*`, opts: posix(), want: `^\*/*$`},
		{name: "metacharacters escaped", glob: "a.b+c$", opts: posix(), want: `^a\.b\+c\$/*$`},
		{name: "unclosed range falls back", glob: "[abc", opts: posix(), want: `^\[abc/*$`},
		{name: "unclosed brace falls back", glob: "{a,b", opts: posix(), want: `^\{a,b/*$`},
		{name: "dangling escape falls back", glob: `a\`, opts: posix(), want: `^a\\/*$`},
		{name: "fallback stays in its segment", glob: "[abc/*.go", opts: posix(), want: `^\[abc/+[^/]*\.go/*$`},
		{name: "stray closers are literal", glob: "a)|b", opts: posix(), want: `^a\)\|b/*$`},
		{name: "windows separators", glob: `a\b`, opts: windows(), want: `^a(?:\\|/)+b(?:\\|/)*$`},
		{name: "windows escape prefix", glob: "a`*b", opts: windows(), want: `^a\*b(?:\\|/)*$`},
		{name: "windows globstar", glob: `a\**\b`, opts: windows(), want: `^a(?:\\|/)+(?:[^\\/]*(?:\\|/|$)+)*b(?:\\|/)*$`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToRegExp(tt.glob, tt.opts))
		})
	}
}

func TestToRegExp_ExtendedDisabled(t *testing.T) {
	opts := posix()
	opts.Extended = false

	assert.Equal(t, `^@\(foo\|bar\)/*$`, ToRegExp("@(foo|bar)", opts))
	assert.Equal(t, `^.\(a\)/*$`, ToRegExp("?(a)", opts))
}

func TestToRegExp_GlobstarDisabled(t *testing.T) {
	opts := posix()
	opts.Globstar = false

	assert.Equal(t, `^a/+[^/]*/+b/*$`, ToRegExp("a/**/b", opts))
}

func TestPattern_Match(t *testing.T) {
	tests := []struct {
		glob  string
		name  string
		match bool
	}{
		{"", "", false},
		{"", "anything", false},
		{"*", "foo", true},
		{"*", "foo/bar", false},
		{"**", "a/b/c", true},
		{"**", "", true},
		{"a/**/b", "a/b", true},
		{"a/**/b", "a/x/y/b", true},
		{"a/**/b", "a/x/y/c", false},
		{"a/**", "a/b/c", true},
		{"[[:digit:]]", "5", true},
		{"[[:digit:]]", "a", false},
		{"[[:alpha:][:digit:]]", "x", true},
		{"[[:alpha:][:digit:]]", "7", true},
		{"[[:alpha:][:digit:]]", "-", false},
		{"[[:punct:]]", "`", true},
		{"[[:space:]]", "\t", true},
		{"foo", "foo\n", false},
		{"*.go", "a.go\n", false},
		{"{foo,bar}.js", "foo.js", true},
		{"{foo,bar}.js", "bar.js", true},
		{"{foo,bar}.js", "baz.js", false},
		{"@(foo|bar)", "foo", true},
		{"@(foo|bar)", "foobar", false},
		{"!(foo).txt", "bar.txt", true},
		{"!(foo).txt", "foo.txt", false},
		{"+(ab)", "abab", true},
		{"+(ab)", "", false},
		{"?(a)b", "b", true},
		{"?(a)b", "ab", true},
		{"*(a|b)c", "abac", true},
		{"a?c", "abc", true},
		{"a?c", "ac", false},
		{"[abc", "[abc", true},
		{"[abc", "a", false},
		{"[abc/*.go", "[abc/main.go", true},
		{"{a,b", "{a,b", true},
		{`\*`, "*", true},
		{`\*`, "a", false},
		{`[a\]]`, "]", true},
		{"foo/", "foo", true},
		{"foo/", "foo//", true},
		{"src/**/*.ts", "src/a.ts", true},
		{"src/**/*.ts", "src/x/y/a.ts", true},
		{"src/**/*.ts", "src/a.js", false},
		{"src/**/*.ts", "lib/a.ts", false},
	}

	for _, tt := range tests {
		t.Run(tt.glob+" "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, Compile(tt.glob, posix()).Match(tt.name))
		})
	}
}

func TestPattern_MatchExtendedDisabled(t *testing.T) {
	opts := posix()
	opts.Extended = false
	p := Compile("@(foo|bar)", opts)

	assert.True(t, p.Match("@(foo|bar)"))
	assert.False(t, p.Match("foo"))
}

func TestPattern_MatchGlobstarDisabled(t *testing.T) {
	opts := posix()
	opts.Globstar = false
	p := Compile("a/**/b", opts)

	assert.True(t, p.Match("a/x/b"))
	assert.False(t, p.Match("a/b"))
	assert.False(t, p.Match("a/x/y/b"))
}

func TestPattern_CaseInsensitive(t *testing.T) {
	opts := posix()
	assert.False(t, Compile("*.TXT", opts).Match("notes.txt"))

	opts.CaseInsensitive = true
	p := Compile("*.TXT", opts)
	assert.True(t, p.Match("notes.txt"))
	assert.True(t, p.Options().CaseInsensitive)
}

func TestPattern_Windows(t *testing.T) {
	p := Compile(`src\**\*.go`, windows())

	assert.True(t, p.Match(`src\main.go`))
	assert.True(t, p.Match("src/cmd/main.go"))
	assert.True(t, p.Match(`src\cmd/app\main.go`))
	assert.False(t, p.Match(`lib\main.go`))
	assert.Equal(t, Windows, p.Options().Platform)
}

func TestCompile_NeverPanics(t *testing.T) {
	globs := []string{
		"[", "]", "[]", "[!]", "[z-a]", "{", "}", "{}", "(", ")", "@(", "!(", "+(a|",
		"foo[[:bogus:]]", "[[:alpha:", `\`, "`", "**/**", "***/", "a/**b/c",
		"[[:digit:]/x:]]", "?(a)|b)", "{a,{b,c}}", "ä*ö", "\x00",
	}
	for _, g := range globs {
		t.Run(g, func(t *testing.T) {
			assert.NotPanics(t, func() {
				for _, opts := range []Options{posix(), windows()} {
					p := Compile(g, opts)
					p.Match(g)
					p.Match("")
					p.Match("a/b")
				}
			})
		})
	}
}

func TestCompile_EngineRejectionMatchesLiterally(t *testing.T) {
	// A reversed range is valid glob syntax but the engine refuses it.
	p := Compile("[z-a]", posix())
	require.NotNil(t, p.Regexp())
	assert.Equal(t, `^\[z-a]$`, p.String())
	assert.Equal(t, "[z-a]", p.Glob())
	assert.True(t, p.Match("[z-a]"))
	assert.False(t, p.Match("m"))
}

func TestPattern_ConcurrentMatch(t *testing.T) {
	p := Compile("src/**/*.{go,md}", posix())
	names := []string{"src/a.go", "src/x/README.md", "src/x/y/z.go", "lib/a.go"}
	want := []bool{true, true, true, false}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				for n, name := range names {
					assert.Equal(t, want[n], p.Match(name))
				}
			}
		}()
	}
	wg.Wait()
}

// The compiler agrees with doublestar on the syntax both implement.
func TestPattern_AgreesWithDoublestar(t *testing.T) {
	globs := []string{"*.go", "src/**/*.ts", "{a,b}.js", "[abc].txt", "a?c", "[!a]x", "**/*.md"}
	names := []string{
		"main.go", "cmd/main.go", ".go", "src/a.ts", "src/x/y/a.ts", "lib/a.ts", "src/a.js",
		"a.js", "b.js", "c.js", "ab.js", "a.txt", "d.txt", "ab.txt", "abc", "ac", "bx", "ax",
		"README.md", "docs/a/b.md",
	}

	for _, g := range globs {
		p := Compile(g, posix())
		for _, name := range names {
			want, err := doublestar.Match(g, name)
			require.NoError(t, err)
			assert.Equal(t, want, p.Match(name), "glob %q name %q", g, name)
		}
	}
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("*.go", "main.go", posix()))
	assert.False(t, Match("*.go", "main.rs", posix()))
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
		ok   bool
	}{
		{"", Host, true},
		{"host", Host, true},
		{"posix", Posix, true},
		{"Linux", Posix, true},
		{"windows", Windows, true},
		{"plan9", Host, false},
	}
	for _, tt := range tests {
		got, ok := ParsePlatform(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	assert.True(t, o.Extended)
	assert.True(t, o.Globstar)
	assert.False(t, o.CaseInsensitive)
	assert.Equal(t, Host, o.Platform)
	assert.NotEqual(t, Host, pickOptions(nil).Platform)
}
