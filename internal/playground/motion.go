package playground

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/zjrosen/argnoun/internal/buffer"
)

// lineCount returns the number of lines in s; an empty string has one.
func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// lineBounds returns the byte range of line (zero-indexed), newline excluded.
func lineBounds(s string, line int) (start, end int) {
	start, err := buffer.OffsetOf(s, buffer.Position{Line: line})
	if err != nil {
		return len(s), len(s)
	}
	end = strings.IndexByte(s[start:], '\n')
	if end < 0 {
		return start, len(s)
	}
	return start, start + end
}

// moveLeft returns the start of the grapheme cluster before pt, staying on
// pt's line.
func moveLeft(s string, pt int) int {
	pos := buffer.PositionOf(s, pt)
	if pos.Col == 0 {
		return pt
	}
	off, err := buffer.OffsetOf(s, buffer.Position{Line: pos.Line, Col: pos.Col - 1})
	if err != nil {
		return pt
	}
	return off
}

// moveRight returns the offset after the grapheme cluster at pt, stopping at
// the end of the line.
func moveRight(s string, pt int) int {
	_, end := lineBounds(s, buffer.PositionOf(s, pt).Line)
	if pt >= end {
		return pt
	}
	cluster, _, _, _ := uniseg.StepString(s[pt:end], -1)
	return pt + len(cluster)
}

// moveVertical moves pt by delta lines, keeping the grapheme column where the
// target line is long enough.
func moveVertical(s string, pt, delta int) int {
	pos := buffer.PositionOf(s, pt)
	line := max(0, min(pos.Line+delta, lineCount(s)-1))
	if line == pos.Line {
		return pt
	}
	return columnOffset(s, line, pos.Col)
}

// columnOffset returns the offset of col on line, clamped to the line end.
func columnOffset(s string, line, col int) int {
	start, end := lineBounds(s, line)
	pt, state := start, -1
	rest := s[start:end]
	for i := 0; i < col && rest != ""; i++ {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		pt += len(cluster)
	}
	return pt
}

func lineStartOf(s string, pt int) int {
	start, _ := lineBounds(s, buffer.PositionOf(s, pt).Line)
	return start
}

func lineEndOf(s string, pt int) int {
	_, end := lineBounds(s, buffer.PositionOf(s, pt).Line)
	return end
}
