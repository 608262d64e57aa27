package glob

import "github.com/dlclark/regexp2"

// isGlobRegExp finds either an escaped character (group 1) or a construct
// Compile treats as special (group 2).
var isGlobRegExp = regexp2.MustCompile(
	`\\(.)|(^!|\*|\?|[\].+)]\?|\[[^\\\]]+\]|\{[^\\}]+\}|\(\?[:!=][^\\)]+\)|\([^|]+\|[^\\)]+\))`,
	regexp2.None,
)

var closers = map[string]rune{"{": '}', "(": ')', "[": ']'}

// IsGlob reports whether str contains glob syntax. An escaped opener skips
// ahead to its closer so the escaped group is not picked up again.
func IsGlob(str string) bool {
	rest := []rune(str)
	for len(rest) > 0 {
		m, err := isGlobRegExp.FindRunesMatch(rest)
		if err != nil || m == nil {
			return false
		}
		if len(m.GroupByNumber(2).Captures) > 0 {
			return true
		}

		idx := m.Index + m.Length
		if closer, ok := closers[m.GroupByNumber(1).String()]; ok {
			if n := indexRune(rest, closer, idx); n != -1 {
				idx = n + 1
			}
		}
		rest = rest[idx:]
	}
	return false
}

func indexRune(s []rune, r rune, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == r {
			return i
		}
	}
	return -1
}
