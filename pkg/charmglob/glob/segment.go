package glob

import (
	"strings"

	"github.com/charmbracelet/log"
)

// groupKind tags an open group on the parser's stack.
type groupKind uint8

const (
	groupBrace groupKind = iota
	groupAt
	groupStar
	groupPlus
	groupQuestion
	groupNot
)

var extGroupKinds = map[rune]groupKind{
	'@': groupAt,
	'*': groupStar,
	'+': groupPlus,
	'?': groupQuestion,
	'!': groupNot,
}

func isExtOpener(r rune) bool {
	_, ok := extGroupKinds[r]
	return ok
}

func (k groupKind) open() string {
	if k == groupNot {
		return "(?!"
	}
	return "(?:"
}

// closer is emitted right after the ")" of an extended group. A negated group
// is followed by a wildcard, so !(a|b) behaves like !(@(a|b)*).
func (k groupKind) closer(t tokens) string {
	switch k {
	case groupStar:
		return "*"
	case groupPlus:
		return "+"
	case groupQuestion:
		return "?"
	case groupNot:
		return t.wildcard
	}
	return ""
}

type scanState uint8

const (
	scanPattern scanState = iota
	scanRange             // inside [...]
)

// charClass is the meaning of one rune given the parser state.
type charClass uint8

const (
	classLiteral charClass = iota
	classEscape
	classRangeOpen
	classPosixClass
	classRangeClose
	classRangeMember
	classGroupClose
	classAlternate
	classExtOpen
	classAnyChar
	classBraceOpen
	classBraceClose
	classBraceSep
	classStar
)

// segmentParser translates one path segment of a glob.
type segmentParser struct {
	glob    []rune
	opts    Options
	tok     tokens
	state   scanState
	escaped bool
	groups  []groupKind
	out     strings.Builder

	endsWithSep bool
}

func newSegmentParser(glob []rune, opts Options, tok tokens) *segmentParser {
	return &segmentParser{glob: glob, opts: opts, tok: tok}
}

// at returns the rune at i, or -1 outside the glob.
func (p *segmentParser) at(i int) rune {
	if i < 0 || i >= len(p.glob) {
		return -1
	}
	return p.glob[i]
}

func (p *segmentParser) boundary(i int) bool {
	r := p.at(i)
	return r == -1 || p.tok.isSep(r)
}

func (p *segmentParser) top() (groupKind, bool) {
	if len(p.groups) == 0 {
		return 0, false
	}
	return p.groups[len(p.groups)-1], true
}

func (p *segmentParser) inExtGroup() bool {
	k, ok := p.top()
	return ok && k != groupBrace
}

func (p *segmentParser) inBrace() bool {
	k, ok := p.top()
	return ok && k == groupBrace
}

func (p *segmentParser) pop() groupKind {
	k := p.groups[len(p.groups)-1]
	p.groups = p.groups[:len(p.groups)-1]
	return k
}

// posixClass reads "[:name:]" starting at the "[" at i. It returns the name
// and the index of the closing "]".
func (p *segmentParser) posixClass(i int) (string, int, bool) {
	if p.at(i+1) != ':' {
		return "", i, false
	}
	k := i + 1
	var name strings.Builder
	for p.at(k+1) != -1 && p.at(k+1) != ':' {
		name.WriteRune(p.at(k + 1))
		k++
	}
	if p.at(k+1) == ':' && p.at(k+2) == ']' {
		return name.String(), k + 2, true
	}
	return "", i, false
}

func (p *segmentParser) classify(i int) charClass {
	r, next := p.glob[i], p.at(i+1)

	if r == p.tok.escapePrefix {
		return classEscape
	}
	if r == '[' {
		if p.state == scanPattern {
			return classRangeOpen
		}
		if _, _, ok := p.posixClass(i); ok {
			return classPosixClass
		}
	}
	if p.state == scanRange {
		if r == ']' {
			return classRangeClose
		}
		return classRangeMember
	}

	switch {
	case r == ')' && p.inExtGroup():
		return classGroupClose
	case r == '|' && p.inExtGroup():
		return classAlternate
	case p.opts.Extended && next == '(' && isExtOpener(r):
		return classExtOpen
	case r == '?':
		return classAnyChar
	case r == '{':
		return classBraceOpen
	case r == '}' && p.inBrace():
		return classBraceClose
	case r == ',' && p.inBrace():
		return classBraceSep
	case r == '*':
		return classStar
	}
	return classLiteral
}

// parse consumes the segment starting at j and returns the index just past it.
func (p *segmentParser) parse(j int) int {
	i := j
	for ; i < len(p.glob) && !p.tok.isSep(p.glob[i]); i++ {
		r := p.glob[i]

		if p.escaped {
			p.escaped = false
			if p.state == scanRange {
				p.out.WriteString(escapeWith(rangeEscapeChars, r))
			} else {
				p.out.WriteString(escapeRegExp(r))
			}
			continue
		}

		switch p.classify(i) {
		case classEscape:
			p.escaped = true
		case classRangeOpen:
			p.state = scanRange
			p.out.WriteByte('[')
			switch p.at(i + 1) {
			case '!':
				i++
				p.out.WriteByte('^')
			case '^':
				i++
				p.out.WriteString(`\^`)
			}
		case classPosixClass:
			name, end, _ := p.posixClass(i)
			i = end
			p.out.WriteString(posixClasses[name])
		case classRangeClose:
			p.state = scanPattern
			p.out.WriteByte(']')
		case classRangeMember:
			if r == '\\' {
				p.out.WriteString(`\\`)
			} else {
				p.out.WriteRune(r)
			}
		case classGroupClose:
			p.out.WriteByte(')')
			p.out.WriteString(p.pop().closer(p.tok))
		case classAlternate:
			p.out.WriteByte('|')
		case classExtOpen:
			kind := extGroupKinds[r]
			i++
			p.groups = append(p.groups, kind)
			p.out.WriteString(kind.open())
		case classAnyChar:
			p.out.WriteByte('.')
		case classBraceOpen:
			p.groups = append(p.groups, groupBrace)
			p.out.WriteString("(?:")
		case classBraceClose:
			p.pop()
			p.out.WriteByte(')')
		case classBraceSep:
			p.out.WriteByte('|')
		case classStar:
			i = p.star(i)
		default:
			p.out.WriteString(escapeRegExp(r))
		}
	}

	if len(p.groups) > 0 || p.state == scanRange || p.escaped {
		literal := string(p.glob[j:i])
		log.Debug("glob segment is not closed, matching it literally", "segment", literal)
		p.out.Reset()
		p.out.WriteString(escapeLiteral(literal))
		p.endsWithSep = false
	}
	return i
}

// star handles a run of "*" starting at i and returns the index of its last star.
func (p *segmentParser) star(i int) int {
	prev := i - 1
	stars := 1
	for p.at(i+1) == '*' {
		i++
		stars++
	}
	if p.opts.Globstar && stars == 2 && p.boundary(prev) && p.boundary(i+1) {
		p.out.WriteString(p.tok.globstar)
		p.endsWithSep = true
	} else {
		p.out.WriteString(p.tok.wildcard)
	}
	return i
}

func (p *segmentParser) fragment() string {
	return p.out.String()
}
