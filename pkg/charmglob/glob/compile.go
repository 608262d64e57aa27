// Package glob translates shell-style globs into anchored regular expressions.
//
// Supported syntax:
//   - '*' matches any run of non-separator characters
//   - '**' as a whole segment matches any number of segments, including none
//   - '?' matches exactly one character
//   - '[abc]', '[a-z]', '[!abc]' and POSIX classes such as '[[:digit:]]'
//   - '{foo,bar}' alternation
//   - '?(..)', '*(..)', '+(..)', '@(..)' and '!(..)' extended groups
//
// A segment whose brackets, groups or escapes are left open is matched
// literally instead of failing.
package glob

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dlclark/regexp2"
)

// neverMatch is the source used for an empty glob.
const neverMatch = "(?!)"

// ToRegExp returns the anchored regular expression source for glob.
func ToRegExp(glob string, opts ...Options) string {
	if glob == "" {
		return neverMatch
	}
	options := pickOptions(opts)
	tok := options.Platform.tokens()

	runes := []rune(glob)
	n := len(runes)
	for n > 1 && tok.isSep(runes[n-1]) {
		n--
	}
	runes = runes[:n]

	var source strings.Builder
	source.WriteByte('^')
	for j := 0; j < len(runes); {
		seg := newSegmentParser(runes, options, tok)
		i := seg.parse(j)

		source.WriteString(seg.fragment())
		if !seg.endsWithSep {
			if i < len(runes) {
				source.WriteString(tok.sep)
			} else {
				source.WriteString(tok.sepMaybe)
			}
		}

		for i < len(runes) && tok.isSep(runes[i]) {
			i++
		}
		if i <= j {
			panic(fmt.Sprintf("glob: segment scan did not advance past %d in %q", j, glob))
		}
		j = i
	}
	source.WriteByte('$')
	return source.String()
}

// Pattern is a compiled glob. It is safe for concurrent use.
type Pattern struct {
	glob    string
	source  string
	options Options
	re      *regexp2.Regexp
}

// Compile translates glob and compiles the result. It never fails: broken
// syntax degrades to literal matching.
func Compile(glob string, opts ...Options) *Pattern {
	options := pickOptions(opts)
	source := ToRegExp(glob, options)

	re, err := regexp2.Compile(source, engineOptions(options))
	if err != nil {
		log.Debug("glob translation rejected by regexp engine, matching literally",
			"glob", glob, "source", source, "err", err)
		source = "^" + escapeLiteral(glob) + "$"
		re = regexp2.MustCompile(source, engineOptions(options))
	}

	return &Pattern{
		glob:    glob,
		source:  source,
		options: options,
		re:      re,
	}
}

func engineOptions(o Options) regexp2.RegexOptions {
	flags := regexp2.RegexOptions(regexp2.ECMAScript)
	if o.CaseInsensitive {
		flags |= regexp2.IgnoreCase
	}
	return flags
}

// Match reports whether name matches the whole pattern.
func (p *Pattern) Match(name string) bool {
	ok, err := p.re.MatchString(name)
	if err != nil {
		log.Debug("glob match failed", "glob", p.glob, "name", name, "err", err)
		return false
	}
	return ok
}

// String returns the regular expression source.
func (p *Pattern) String() string { return p.source }

// Glob returns the glob the pattern was compiled from.
func (p *Pattern) Glob() string { return p.glob }

// Options returns the options used, with the platform resolved.
func (p *Pattern) Options() Options { return p.options }

// Regexp exposes the underlying compiled expression.
func (p *Pattern) Regexp() *regexp2.Regexp { return p.re }

// Match compiles glob and matches name against it.
func Match(glob, name string, opts ...Options) bool {
	return Compile(glob, opts...).Match(name)
}
