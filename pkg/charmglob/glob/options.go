package glob

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// Platform selects which path separators and escape character a glob uses.
type Platform uint8

const (
	// Host resolves to Windows or Posix from runtime.GOOS.
	Host Platform = iota
	Posix
	Windows
)

func (p Platform) String() string {
	switch p.Resolve() {
	case Windows:
		return "windows"
	default:
		return "posix"
	}
}

// ParsePlatform maps "posix", "windows" and "host" (or "") to a Platform.
func ParsePlatform(name string) (Platform, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "host":
		return Host, true
	case "posix", "linux", "darwin", "unix":
		return Posix, true
	case "windows":
		return Windows, true
	}
	return Host, false
}

// Resolve maps Host to the platform of the running program.
func (p Platform) Resolve() Platform {
	if p != Host {
		return p
	}
	if runtime.GOOS == "windows" {
		return Windows
	}
	return Posix
}

// Options controls how a glob is translated.
type Options struct {
	// Extended enables ?(..) *(..) +(..) @(..) and !(..) groups
	Extended bool
	// Globstar makes a lone ** match any number of path segments
	Globstar bool
	// CaseInsensitive compiles the pattern with case folding
	CaseInsensitive bool
	// Platform picks separators and the escape prefix
	Platform Platform
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Extended:        true,
		Globstar:        true,
		CaseInsensitive: false,
		Platform:        Host,
	}
}

func pickOptions(opts []Options) Options {
	options := DefaultOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	options.Platform = options.Platform.Resolve()
	return options
}

// tokens holds the regex fragments that depend on the platform.
type tokens struct {
	seps         string
	sep          string
	sepMaybe     string
	globstar     string
	wildcard     string
	escapePrefix rune
	sepPattern   string
}

var (
	posixTokens = tokens{
		seps:         "/",
		sep:          "/+",
		sepMaybe:     "/*",
		globstar:     "(?:[^/]*(?:/|$)+)*",
		wildcard:     "[^/]*",
		escapePrefix: '\\',
		sepPattern:   "/+",
	}
	windowsTokens = tokens{
		seps:         "\\/",
		sep:          "(?:\\\\|/)+",
		sepMaybe:     "(?:\\\\|/)*",
		globstar:     "(?:[^\\\\/]*(?:\\\\|/|$)+)*",
		wildcard:     "[^\\\\/]*",
		escapePrefix: '`',
		sepPattern:   "[\\\\/]+",
	}
)

func (p Platform) tokens() tokens {
	if p.Resolve() == Windows {
		return windowsTokens
	}
	return posixTokens
}

func (t tokens) isSep(r rune) bool {
	return strings.ContainsRune(t.seps, r)
}

// Separator returns the preferred path separator of the platform.
func (p Platform) Separator() string {
	if p.Resolve() == Windows {
		return "\\"
	}
	return "/"
}

// Clean collapses "." and ".." elements the way the platform's path package does.
func (p Platform) Clean(name string) string {
	switch {
	case p.Resolve() == Posix:
		return path.Clean(name)
	case filepath.Separator == '\\':
		return filepath.Clean(name)
	default:
		// Windows names cleaned on a non-Windows host.
		cleaned := path.Clean(strings.ReplaceAll(name, "\\", "/"))
		return strings.ReplaceAll(cleaned, "/", "\\")
	}
}

// Join joins elements with the platform separator and cleans the result.
// Joining nothing, or only empty elements, gives ".".
func (p Platform) Join(elem ...string) string {
	var joined string
	switch {
	case p.Resolve() == Posix:
		joined = path.Join(elem...)
	case filepath.Separator == '\\':
		joined = filepath.Join(elem...)
	default:
		parts := make([]string, len(elem))
		for i, e := range elem {
			parts[i] = strings.ReplaceAll(e, "\\", "/")
		}
		joined = strings.ReplaceAll(path.Join(parts...), "/", "\\")
	}
	if joined == "" {
		return "."
	}
	return joined
}
