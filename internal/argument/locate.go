package argument

import "github.com/dlclark/regexp2"

// callOpen matches `name(` when a non-empty argument list follows. The
// argument list is only looked at, so the next scan starts inside it and
// nested calls are found too. The name must start at an identifier boundary;
// without it a long identifier run is rescanned from every byte.
var callOpen = regexp2.MustCompile(`(?<![A-Za-z0-9_])[A-Za-z0-9_]+[!?]?\s*\((?=\s*[^)\s])`, regexp2.None)

// FindArgListStart returns the offset just past the opening parenthesis of the
// innermost call whose argument list starts at or before cursor. masked should
// come from Mask so that parentheses inside literals are ignored.
func FindArgListStart(masked string, cursor int) (int, bool) {
	starts := FindArgListStarts(masked, cursor)
	if len(starts) == 0 {
		return 0, false
	}
	return starts[len(starts)-1], true
}

// FindArgListStarts returns the list offsets of every call whose
// argument list starts at or before cursor, in ascending order. The last
// entry is the innermost candidate.
func FindArgListStarts(masked string, cursor int) []int {
	var starts []int
	offs := newRuneOffsets(masked)
	eachMatch(callOpen, masked, func(m *regexp2.Match) bool {
		_, argStart := offs.span(m.Index, m.Length)
		if argStart > cursor {
			return false
		}
		starts = append(starts, argStart)
		return true
	})
	return starts
}
