package pathhelpers

import (
	"runtime"
	"strings"

	"github.com/ImGajeed76/charmglob/pkg/charmglob/glob"
	pathmodels "github.com/ImGajeed76/charmglob/pkg/charmglob/path/models"
	"github.com/pkg/errors"
)

// GetOptimalBufferSize returns the optimal buffer size based on the file size and system
func GetOptimalBufferSize(fileSize int64) int {
	// Base buffer size (4KB)
	baseSize := 4 * 1024

	// bufio wants a positive size, small files still get a small buffer
	if fileSize < int64(baseSize) {
		if fileSize < 16 {
			return 16
		}
		return int(fileSize)
	}

	// Scale buffer size based on available CPU cores
	cpuCount := runtime.GOMAXPROCS(0)
	scaledSize := baseSize * cpuCount

	// Cap maximum buffer size at 1MB
	maxSize := 1 * 1024 * 1024
	if scaledSize > maxSize {
		return maxSize
	}

	return scaledSize
}

const dynamicChars = "*?[({!"

// SplitGlobBase splits pattern into the leading run of literal segments and the
// rest. The walk for a glob only has to start at the base. Both results use
// forward slashes; the last segment always stays in rest.
func SplitGlobBase(pattern string, platform glob.Platform) (base, rest string) {
	escape := "\\"
	if platform.Resolve() == glob.Windows {
		pattern = strings.ReplaceAll(pattern, "\\", "/")
		escape = "`"
	}

	segments := strings.Split(pattern, "/")
	k := 0
	for ; k < len(segments)-1; k++ {
		seg := segments[k]
		if glob.IsGlob(seg) || strings.ContainsAny(seg, dynamicChars+escape) {
			break
		}
	}

	base = strings.Join(segments[:k], "/")
	if base == "" && strings.HasPrefix(pattern, "/") {
		base = "/"
	}
	rest = strings.Join(segments[k:], "/")
	return base, rest
}

// RelSlash returns name relative to root, both forward-slash paths, or false
// when name is not below root.
func RelSlash(root, name string) (string, bool) {
	if root == "." || root == "" {
		return strings.TrimPrefix(name, "./"), true
	}
	prefix := strings.TrimSuffix(root, "/") + "/"
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	return strings.TrimPrefix(name, prefix), true
}

// Matcher decides for each walked entry whether it matches and whether the
// walk should go below it. It is not safe for concurrent use.
type Matcher struct {
	pattern *glob.Pattern
	ignores []*glob.Pattern
	opts    pathmodels.GlobOptions

	scanned int
	matched int
}

// NewMatcher compiles pattern and the ignore patterns of opts.
func NewMatcher(pattern string, opts pathmodels.GlobOptions) *Matcher {
	m := &Matcher{
		pattern: glob.Compile(pattern, opts.Options),
		opts:    opts,
	}
	for _, ignore := range opts.IgnorePatterns {
		m.ignores = append(m.ignores, glob.Compile(ignore, opts.Options))
	}
	return m
}

// Visit takes the slash separated path of an entry relative to the search root.
func (m *Matcher) Visit(rel string, isDir bool) (match, descend bool) {
	m.scanned++
	defer m.report()

	name := rel[strings.LastIndex(rel, "/")+1:]
	depth := strings.Count(rel, "/") + 1

	if !m.opts.IncludeHidden && strings.HasPrefix(name, ".") && name != ".." {
		return false, false
	}
	if m.opts.MaxDepth > 0 && depth > m.opts.MaxDepth {
		return false, false
	}
	for _, ignore := range m.ignores {
		if ignore.Match(rel) {
			return false, false
		}
	}

	match = m.pattern.Match(rel)
	if match {
		m.matched++
	}
	descend = isDir && (m.opts.MaxDepth == 0 || depth < m.opts.MaxDepth)
	return match, descend
}

func (m *Matcher) report() {
	if m.opts.ProgressFunc != nil {
		m.opts.ProgressFunc(m.scanned, m.matched)
	}
}

func (m *Matcher) Scanned() int { return m.scanned }
func (m *Matcher) Matched() int { return m.matched }

// FilterMatches returns the names matching pattern, in their original order.
func FilterMatches(pattern string, names []string, opts ...glob.Options) []string {
	p := glob.Compile(pattern, opts...)
	matches := make([]string, 0, len(names))
	for _, name := range names {
		if p.Match(name) {
			matches = append(matches, name)
		}
	}
	return matches
}

// ParsePatterns reads one glob per line, skipping blank lines and lines
// starting with '#', and normalizes each.
func ParsePatterns(text string, opts ...glob.Options) ([]string, error) {
	var patterns []string
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		normalized, err := glob.NormalizeGlob(line, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n+1)
		}
		patterns = append(patterns, normalized)
	}
	return patterns, nil
}
