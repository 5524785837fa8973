package argument

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// adjacentIdents matches an identifier and the whitespace up to the next
// identifier, which is captured but not consumed so it can pair again.
// Matches start at an identifier boundary so a long run is scanned once.
var adjacentIdents = regexp2.MustCompile(`(?<![A-Za-z0-9_])([A-Za-z0-9_]+)(\s+)(?=([A-Za-z0-9_]+))`, regexp2.None)

// RepairTail bounds how far an argument list can run past the cursor.
// cursor is relative to args. Nothing before the identifier under the cursor
// is touched; after it, the text is cut at the first ';' and wherever two
// identifiers are separated by whitespace containing a line break, the first
// whitespace character becomes ')'. Either identifier being a reserved word
// suppresses the repair. The result never moves a byte that it keeps.
func (r *Resolver) RepairTail(args string, cursor int) string {
	cursor = max(0, min(cursor, len(args)))
	split := cursor
	for split > 0 && isIdentByte(args[split-1]) {
		split--
	}

	head, tail := args[:split], args[split:]
	if i := strings.IndexByte(tail, ';'); i >= 0 {
		tail = tail[:i]
	}

	var b []byte
	offs := newRuneOffsets(tail)
	eachMatch(adjacentIdents, tail, func(m *regexp2.Match) bool {
		ws := m.GroupByNumber(2)
		if !strings.Contains(ws.String(), "\n") {
			return true
		}
		if r.reserved[m.GroupByNumber(1).String()] || r.reserved[m.GroupByNumber(3).String()] {
			return true
		}

		if b == nil {
			b = []byte(tail)
		}
		start, end := offs.span(ws.Index, 1)
		b[start] = ')'
		for i := start + 1; i < end; i++ {
			b[i] = ' '
		}
		return true
	})
	if b != nil {
		tail = string(b)
	}
	return head + tail
}

func isIdentByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
