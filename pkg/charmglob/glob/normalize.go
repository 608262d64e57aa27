package glob

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// ErrInvalidPattern is returned for globs that cannot be normalized.
var ErrInvalidPattern = errors.New("invalid glob pattern")

// parentSentinel stands in for a protected ".." while the path is cleaned.
const parentSentinel = "\x00"

var (
	posixBadParent   = badParentRegExp(posixTokens.sepPattern)
	windowsBadParent = badParentRegExp(windowsTokens.sepPattern)
)

// badParentRegExp matches a ".." that directly follows a "**" segment.
func badParentRegExp(sep string) *regexp2.Regexp {
	return regexp2.MustCompile(`(?<=(`+sep+`|^)\*\*`+sep+`)\.\.(?=`+sep+`|$)`, regexp2.None)
}

// NormalizeGlob cleans glob like the platform path package would, except that
// with Globstar a "**/.." is kept: ** may match no segment at all, so the
// parent reference still means something.
func NormalizeGlob(glob string, opts ...Options) (string, error) {
	if strings.Contains(glob, parentSentinel) {
		return "", errors.Wrapf(ErrInvalidPattern, "glob contains invalid characters: %q", glob)
	}
	options := pickOptions(opts)
	if !options.Globstar {
		return options.Platform.Clean(glob), nil
	}

	badParent := posixBadParent
	if options.Platform == Windows {
		badParent = windowsBadParent
	}
	protected, err := badParent.Replace(glob, parentSentinel, -1, -1)
	if err != nil {
		return "", errors.Wrapf(err, "normalize glob %q", glob)
	}
	cleaned := options.Platform.Clean(protected)
	return strings.ReplaceAll(cleaned, parentSentinel, ".."), nil
}

// JoinGlobs joins globs with the platform separator. Without Globstar this is
// a plain path join.
//
// With Globstar only the first non-empty glob is kept before normalizing,
// and "." is returned when every glob is empty.
func JoinGlobs(globs []string, opts ...Options) (string, error) {
	options := pickOptions(opts)
	if !options.Globstar || len(globs) == 0 {
		return options.Platform.Join(globs...), nil
	}

	var joined string
	for _, g := range globs {
		if g == "" {
			continue
		}
		if joined == "" {
			joined = g
		}
	}
	if joined == "" {
		return ".", nil
	}
	return NormalizeGlob(joined, options)
}
