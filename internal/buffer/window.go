package buffer

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultLineRadius is how many lines before and after the cursor line a
	// multiline window spans.
	DefaultLineRadius = 10
	// DefaultByteRadius caps the window around the cursor regardless of line
	// lengths.
	DefaultByteRadius = 4000
)

// WindowOptions bounds context extraction.
type WindowOptions struct {
	Multiline  bool
	LineRadius int
	ByteRadius int
}

// DefaultWindowOptions returns multiline extraction with the default radii.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{
		Multiline:  true,
		LineRadius: DefaultLineRadius,
		ByteRadius: DefaultByteRadius,
	}
}

// Window is a bounded slice of buffer text around a cursor.
// Invariant: 0 <= Start and Start+len(Text) <= buffer length.
type Window struct {
	Text  string
	Start int
}

// End returns the absolute offset just past the window.
func (w Window) End() int {
	return w.Start + len(w.Text)
}

// Relative converts an absolute offset into a window-relative one, clamped
// to [0, len(Text)].
func (w Window) Relative(pt int) int {
	return clamp(pt-w.Start, 0, len(w.Text))
}

// ExtractWindow returns the text around pt that argument resolution scans.
// Without Multiline the window is the cursor's line; with it, the window
// spans LineRadius whole lines on either side. Both are intersected with
// [pt-ByteRadius, pt+ByteRadius] and clamped to the buffer.
func ExtractWindow(buf Buffer, pt int, opts WindowOptions) Window {
	n := buf.Len()
	pt = clamp(pt, 0, n)

	radius := opts.ByteRadius
	if radius <= 0 {
		radius = DefaultByteRadius
	}
	lo, hi := max(0, pt-radius), min(n, pt+radius)
	chunk := buf.Text(lo, hi)
	rel := pt - lo

	start := lineStart(chunk, rel)
	end := lineEnd(chunk, rel)
	if opts.Multiline {
		lines := opts.LineRadius
		if lines < 0 {
			lines = 0
		}
		for i := 0; i < lines && start > 0; i++ {
			start = lineStart(chunk, start-1)
		}
		for i := 0; i < lines && end < len(chunk); i++ {
			end = lineEnd(chunk, end+1)
		}
	}

	// The byte cap can land inside a multibyte rune.
	for start < rel && !utf8.RuneStart(chunk[start]) {
		start++
	}
	for end > rel && end < len(chunk) && !utf8.RuneStart(chunk[end]) {
		end--
	}

	return Window{Text: chunk[start:end], Start: lo + start}
}

// lineStart returns the offset of the first byte of the line containing i.
func lineStart(s string, i int) int {
	return strings.LastIndexByte(s[:i], '\n') + 1
}

// lineEnd returns the offset of the newline ending the line containing i,
// or len(s) for the last line.
func lineEnd(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(s)
}
