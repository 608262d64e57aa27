package glob

import "strings"

const (
	// regExpEscapeChars are escaped when emitted outside a bracket expression.
	regExpEscapeChars = "!$()*+.=?[\\^{|"
	// rangeEscapeChars are escaped when an escaped char lands inside [...].
	rangeEscapeChars = "-\\]"
)

// posixClasses maps [:name:] to the body of a regex bracket expression.
var posixClasses = map[string]string{
	"alnum":  `\dA-Za-z`,
	"alpha":  `A-Za-z`,
	"ascii":  `\x00-\x7F`,
	"blank":  `\t `,
	"cntrl":  `\x00-\x1F\x7F`,
	"digit":  `\d`,
	"graph":  `\x21-\x7E`,
	"lower":  `a-z`,
	"print":  `\x20-\x7E`,
	"punct":  `!"#$%&'()*+,\-./:;<=>?@[\\\]^_` + "`" + `{|}~`,
	"space":  `\s\v`,
	"upper":  `A-Z`,
	"word":   `\w`,
	"xdigit": `\dA-Fa-f`,
}

func escapeWith(set string, r rune) string {
	if strings.ContainsRune(set, r) {
		return `\` + string(r)
	}
	return string(r)
}

func escapeRegExp(r rune) string {
	return escapeWith(regExpEscapeChars, r)
}

// escapeLiteral escapes every regex metacharacter of s.
func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		b.WriteString(escapeRegExp(r))
	}
	return b.String()
}
