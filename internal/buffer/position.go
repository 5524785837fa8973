package buffer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// ErrOutOfRange is returned when a line/column pair does not exist in the text.
var ErrOutOfRange = errors.New("position out of range")

// Position is a zero-indexed line and column. Col counts grapheme clusters,
// not bytes, so it matches what a user sees as a character.
type Position struct {
	Line int
	Col  int
}

// String formats the position 1-indexed, the way editors display it.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Col+1)
}

// OffsetOf converts a position into a byte offset. A column equal to the
// line's grapheme count addresses the end of the line.
func OffsetOf(text string, pos Position) (int, error) {
	if pos.Line < 0 || pos.Col < 0 {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, pos)
	}

	offset := 0
	for line := 0; line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return 0, fmt.Errorf("%w: line %d of %d", ErrOutOfRange, pos.Line+1, line+1)
		}
		offset += i + 1
	}

	lineText := text[offset:]
	if i := strings.IndexByte(lineText, '\n'); i >= 0 {
		lineText = lineText[:i]
	}

	col := 0
	state := -1
	rest := lineText
	for col < pos.Col {
		if rest == "" {
			return 0, fmt.Errorf("%w: column %d past end of line %d", ErrOutOfRange, pos.Col+1, pos.Line+1)
		}
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		offset += len(cluster)
		col++
	}
	return offset, nil
}

// PositionOf converts a byte offset into a position. Offsets inside a
// grapheme cluster resolve to that cluster's column.
func PositionOf(text string, offset int) Position {
	offset = clamp(offset, 0, len(text))
	start := lineStart(text, offset)
	line := strings.Count(text[:start], "\n")

	col := 0
	state := -1
	pos := start
	rest := text[start:lineEnd(text, offset)]
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		if pos+len(cluster) > offset {
			break
		}
		pos += len(cluster)
		col++
	}
	return Position{Line: line, Col: col}
}

// ParsePosition parses a 1-indexed "line:col" string.
func ParsePosition(s string) (Position, error) {
	var line, col int
	if _, err := fmt.Sscanf(s, "%d:%d", &line, &col); err != nil {
		return Position{}, fmt.Errorf("parsing position %q: expected LINE:COL: %w", s, err)
	}
	if line < 1 || col < 1 {
		return Position{}, fmt.Errorf("parsing position %q: line and column are 1-indexed", s)
	}
	return Position{Line: line - 1, Col: col - 1}, nil
}
