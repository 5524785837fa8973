// Package buffer provides the read-only text access that argument expansion
// needs from its host, plus selection regions and bounded context windows.
//
// All offsets are byte offsets into UTF-8 text.
package buffer

// Buffer is read-only access to host text.
type Buffer interface {
	// Len returns the buffer length in bytes.
	Len() int
	// Text returns the text in [start, end). Out-of-range bounds are clamped.
	Text(start, end int) string
}

// StringBuffer is a Buffer backed by a string.
type StringBuffer struct {
	content string
}

// NewStringBuffer creates a buffer over content.
func NewStringBuffer(content string) *StringBuffer {
	return &StringBuffer{content: content}
}

// Len returns the content length in bytes.
func (b *StringBuffer) Len() int {
	return len(b.content)
}

// Text returns content[start:end] with bounds clamped to the buffer.
func (b *StringBuffer) Text(start, end int) string {
	start, end = clamp(start, 0, len(b.content)), clamp(end, 0, len(b.content))
	if start >= end {
		return ""
	}
	return b.content[start:end]
}

// String returns the whole content.
func (b *StringBuffer) String() string {
	return b.content
}

// Region is a selection: Anchor is where it started, Active where it extends to.
// A cursor is a Region with Anchor == Active.
type Region struct {
	Anchor int
	Active int
}

// Cursor returns an empty region at pt.
func Cursor(pt int) Region {
	return Region{Anchor: pt, Active: pt}
}

// Span returns a region covering [start, end) anchored at start.
func Span(start, end int) Region {
	return Region{Anchor: start, Active: end}
}

// Empty reports whether the region covers no text.
func (r Region) Empty() bool {
	return r.Anchor == r.Active
}

// Ordered returns the region bounds in ascending order.
func (r Region) Ordered() (start, end int) {
	if r.Anchor <= r.Active {
		return r.Anchor, r.Active
	}
	return r.Active, r.Anchor
}

// Len returns the number of bytes covered.
func (r Region) Len() int {
	start, end := r.Ordered()
	return end - start
}

// TextOf returns the text the region covers in buf.
func (r Region) TextOf(buf Buffer) string {
	start, end := r.Ordered()
	return buf.Text(start, end)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
