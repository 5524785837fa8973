package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around each change.
const diffContext = 3

// diffLine is one line of a line-level diff with its 1-indexed line numbers
// in the old and new text. An inserted line carries the old line it precedes;
// a deleted line carries the new line it precedes.
type diffLine struct {
	op    byte // ' ', '-' or '+'
	text  string
	oldNo int
	newNo int
}

// lineDiff compares before and after line by line.
func lineDiff(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []diffLine
	oldNo, newNo := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, diffLine{op: ' ', text: text, oldNo: oldNo, newNo: newNo})
				oldNo++
				newNo++
			case diffmatchpatch.DiffDelete:
				out = append(out, diffLine{op: '-', text: text, oldNo: oldNo, newNo: newNo})
				oldNo++
			case diffmatchpatch.DiffInsert:
				out = append(out, diffLine{op: '+', text: text, oldNo: oldNo, newNo: newNo})
				newNo++
			}
		}
	}
	return out
}

// splitLines splits s after each newline and drops the newlines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\n")
	}
	return lines
}

// hunks groups changed lines with up to context unchanged lines around
// them. It returns half-open index ranges into lines.
func hunks(lines []diffLine, context int) [][2]int {
	var out [][2]int
	for i, l := range lines {
		if l.op == ' ' {
			continue
		}
		start, end := max(0, i-context), min(len(lines), i+context+1)
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], end)
			continue
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// writeUnifiedDiff prints a unified diff of before and after. It writes
// nothing when they are equal.
func writeUnifiedDiff(w io.Writer, name, before, after string, s *styles) error {
	if before == after {
		return nil
	}
	lines := lineDiff(before, after)

	if _, err := fmt.Fprintf(w, "%s\n%s\n", s.deleted.Sprint("--- a/"+name), s.added.Sprint("+++ b/"+name)); err != nil {
		return err
	}
	for _, h := range hunks(lines, diffContext) {
		hunk := lines[h[0]:h[1]]
		var oldCount, newCount int
		for _, l := range hunk {
			if l.op != '+' {
				oldCount++
			}
			if l.op != '-' {
				newCount++
			}
		}
		oldStart, newStart := hunk[0].oldNo, hunk[0].newNo
		if oldCount == 0 {
			oldStart--
		}
		if newCount == 0 {
			newStart--
		}
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)
		if _, err := fmt.Fprintln(w, s.hunk.Sprint(header)); err != nil {
			return err
		}

		for _, l := range hunk {
			line := string(l.op) + l.text
			switch l.op {
			case '-':
				line = s.deleted.Sprint(line)
			case '+':
				line = s.added.Sprint(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
