package argument

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// MaskChar replaces string literal bytes. It is never '(', ')' or ','.
const MaskChar = '!'

// escapedQuotes swaps escaped quotes for two placeholder bytes so they
// neither end a literal nor change the text length.
var escapedQuotes = strings.NewReplacer(`\'`, "__", `\"`, "!!")

// literalPatterns are applied in order; triple quotes first so that their
// inner quotes are already hidden when plain literals are scanned.
var literalPatterns = []*regexp2.Regexp{
	regexp2.MustCompile(`(?s)""".*?"""`, regexp2.None),
	regexp2.MustCompile(`(?s)'''.*?'''`, regexp2.None),
	regexp2.MustCompile(`".*?"`, regexp2.None),
	regexp2.MustCompile(`'.*?'`, regexp2.None),
}

// Mask returns text with every string literal, quotes included, replaced by
// MaskChar. Single- and double-quoted literals end at the line break;
// unterminated literals are left as they are. len(Mask(s)) == len(s).
func Mask(text string) string {
	masked := escapedQuotes.Replace(text)
	for _, re := range literalPatterns {
		masked = fillMatches(re, masked, MaskChar)
	}
	return masked
}

// fillMatches overwrites every byte of each match of re with fill.
func fillMatches(re *regexp2.Regexp, s string, fill byte) string {
	var b []byte
	offs := newRuneOffsets(s)
	eachMatch(re, s, func(m *regexp2.Match) bool {
		if b == nil {
			b = []byte(s)
		}
		start, end := offs.span(m.Index, m.Length)
		for i := start; i < end; i++ {
			b[i] = fill
		}
		return true
	})
	if b == nil {
		return s
	}
	return string(b)
}
