package console

import (
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
)

// SyntaxHelp is the glob cheat sheet shown by the tester and the syntax command.
const SyntaxHelp = `# Glob syntax

| Pattern | Matches |
| --- | --- |
| ` + "`*`" + ` | any run of characters inside one path segment |
| ` + "`?`" + ` | exactly one character |
| ` + "`**`" + ` | zero or more whole segments, when it is the entire segment |
| ` + "`[abc]`" + ` | one of the listed characters |
| ` + "`[!a-z]`" + ` | one character outside the range |
| ` + "`[[:digit:]]`" + ` | a POSIX class: alnum alpha ascii blank cntrl digit graph lower print punct space upper word xdigit |
| ` + "`{a,b}`" + ` | either alternative |

## Extended groups

- ` + "`?(a|b)`" + ` zero or one of the alternatives
- ` + "`*(a|b)`" + ` zero or more
- ` + "`+(a|b)`" + ` one or more
- ` + "`@(a|b)`" + ` exactly one
- ` + "`!(a|b)`" + ` anything except the alternatives

Separators collapse, so ` + "`a//b`" + ` matches ` + "`a/b`" + `, and a trailing
separator is always optional. An unclosed bracket or group makes its segment
match literally.

## Escaping

Use ` + "`\\`" + ` on POSIX and a backtick on Windows. On Windows both ` + "`/`" + `
and ` + "`\\`" + ` separate segments.
`

// RenderSyntaxHelp renders SyntaxHelp for a terminal of the given width.
func RenderSyntaxHelp(width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", errors.Wrap(err, "create markdown renderer")
	}
	out, err := renderer.Render(SyntaxHelp)
	if err != nil {
		return "", errors.Wrap(err, "render syntax help")
	}
	return out, nil
}
