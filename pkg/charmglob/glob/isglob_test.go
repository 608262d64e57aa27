package glob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGlob(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"plain/path.txt", false},
		{"foo!", false},
		{"{}", false},
		{"[]", false},
		{"*.txt", true},
		{"src/**", true},
		{"?", true},
		{"!foo", true},
		{"{a,b}", true},
		{"[abc]", true},
		{"a.?", true},
		{"@(a|b)", true},
		{"(?:x)", true},
		{`\*`, false},
		{`\[abc]`, false},
		{`\{a,b}`, false},
		{`\[abc]*`, true},
		{`\(a|b)`, false},
		{`\*.txt?`, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGlob(tt.in))
		})
	}
}
