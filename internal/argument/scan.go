package argument

import (
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/argnoun/internal/log"
)

// runeOffsets maps rune indexes to byte offsets. regexp2 reports match
// positions in runes; every stage here works in bytes.
// Invalid UTF-8 bytes count as one rune each, as in a []rune conversion.
type runeOffsets []int

func newRuneOffsets(s string) runeOffsets {
	offs := make(runeOffsets, 0, len(s)+1)
	for i := 0; i < len(s); {
		offs = append(offs, i)
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return append(offs, len(s))
}

// span returns the byte bounds of the rune range [index, index+length).
func (o runeOffsets) span(index, length int) (int, int) {
	return o[index], o[index+length]
}

// eachMatch calls fn for successive non-overlapping matches of re in s until
// fn returns false. Engine errors end the scan early.
func eachMatch(re *regexp2.Regexp, s string, fn func(m *regexp2.Match) bool) {
	m, err := re.FindStringMatch(s)
	for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
		if !fn(m) {
			return
		}
	}
	if err != nil {
		log.ErrorErr(log.CatResolve, "regex scan aborted", err, "pattern", re.String())
	}
}
