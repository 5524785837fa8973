package argument

import "github.com/dlclark/regexp2"

// NestedChar replaces bytes inside nested parenthesis groups.
const NestedChar = '_'

// NeutralizeNested hides nested parenthesis groups from comma splitting:
// every byte while at least one `(` is open becomes NestedChar. The first
// unmatched `)` closes the list and the result is truncated there, so the
// output is a byte-for-byte aligned prefix of args.
//
//	"a*min(b, c), d) + e"  =>  "a*min_____), d"
func NeutralizeNested(args string) string {
	b := make([]byte, 0, len(args))
	depth := 0
	for i := 0; i < len(args); i++ {
		c := args[i]
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return string(b)
			}
		}
		if depth > 0 {
			b = append(b, NestedChar)
		} else {
			b = append(b, c)
		}
	}
	return string(b)
}

// Slice is one comma-delimited argument, including its trailing comma and
// whitespace when present. Start is the byte offset within the list.
type Slice struct {
	Text  string
	Start int
}

var argChunk = regexp2.MustCompile(`[^,]+,?\s*|,\s*`, regexp2.None)

// SplitArgs splits a neutralized argument list at commas. The slices tile
// args exactly: their lengths sum to len(args).
func SplitArgs(args string) []Slice {
	var slices []Slice
	offs := newRuneOffsets(args)
	eachMatch(argChunk, args, func(m *regexp2.Match) bool {
		start, end := offs.span(m.Index, m.Length)
		slices = append(slices, Slice{Text: args[start:end], Start: start})
		return true
	})
	return slices
}
