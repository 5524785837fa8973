package editor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/zjrosen/argnoun/internal/buffer"
)

// InsertTextCommand types text at every cursor in insert mode.
type InsertTextCommand struct {
	EditBase
	text   string
	before []buffer.Region
	at     []int // ascending insertion offsets in the pre-insert content
}

// NewInsertTextCommand creates a command that inserts text.
func NewInsertTextCommand(text string) *InsertTextCommand {
	return &InsertTextCommand{text: text}
}

// Execute inserts text at each cursor. Non-empty selections are typed over
// at their start and keep their text.
func (c *InsertTextCommand) Execute(_ context.Context, m *Model) ExecuteResult {
	if c.text == "" {
		return Skipped
	}

	c.before = m.Selections()
	c.at = c.at[:0]
	for _, r := range c.before {
		start, _ := r.Ordered()
		c.at = append(c.at, start)
	}
	slices.Sort(c.at)
	c.at = slices.Compact(c.at)

	var b strings.Builder
	cursors := make([]int, len(c.at))
	last := 0
	for i, pt := range c.at {
		b.WriteString(m.content[last:pt])
		b.WriteString(c.text)
		cursors[i] = pt + (i+1)*len(c.text)
		last = pt
	}
	b.WriteString(m.content[last:])

	m.content = b.String()
	m.SetCursors(cursors...)
	return Executed
}

// Undo removes the inserted text.
func (c *InsertTextCommand) Undo(m *Model) error {
	if c.before == nil {
		return fmt.Errorf("undo %s: command was not executed", c.ID())
	}
	content := m.content
	for i := len(c.at) - 1; i >= 0; i-- {
		start := c.at[i] + i*len(c.text)
		content = content[:start] + content[start+len(c.text):]
	}
	m.content = content
	m.SetSelections(c.before)
	return nil
}

func (c *InsertTextCommand) Keys() string { return c.text }
func (c *InsertTextCommand) Mode() Mode   { return ModeInsert }
func (c *InsertTextCommand) ID() string   { return "insert.text" }

// EscapeCommand leaves insert or visual mode. Visual selections collapse to
// their active end.
type EscapeCommand struct {
	SelectBase
	from Mode
}

// Execute returns to normal mode.
func (c *EscapeCommand) Execute(_ context.Context, m *Model) ExecuteResult {
	if m.mode == ModeNormal {
		return Skipped
	}
	if m.mode == ModeVisual {
		sels := m.Selections()
		for i, r := range sels {
			sels[i] = buffer.Cursor(r.Active)
		}
		m.SetSelections(sels)
	}
	m.mode = ModeNormal
	return Executed
}

func (c *EscapeCommand) Keys() string { return "<esc>" }
func (c *EscapeCommand) Mode() Mode   { return c.from }
func (c *EscapeCommand) ID() string   { return "mode.escape" }

// BackspaceCommand deletes the grapheme cluster before every cursor in
// insert mode.
type BackspaceCommand struct {
	EditBase
	before  []buffer.Region
	deleted []deletion
}

// Execute removes one cluster before each cursor. Cursors at offset 0 are
// left alone; if every cursor is there the command is skipped.
func (c *BackspaceCommand) Execute(_ context.Context, m *Model) ExecuteResult {
	var spans, keep []buffer.Region
	for _, r := range m.sels {
		start, _ := r.Ordered()
		if start == 0 {
			keep = append(keep, r)
			continue
		}
		spans = append(spans, buffer.Span(previousCluster(m.content, start), start))
	}
	if len(spans) == 0 {
		return Skipped
	}

	c.before = m.Selections()
	c.deleted = deleteRegions(m, spans, keep)
	return Executed
}

// Undo restores the deleted clusters.
func (c *BackspaceCommand) Undo(m *Model) error {
	if c.before == nil {
		return fmt.Errorf("undo %s: command was not executed", c.ID())
	}
	restoreDeletions(m, c.deleted)
	m.SetSelections(c.before)
	return nil
}

func (c *BackspaceCommand) Keys() string { return KeyBackspace }
func (c *BackspaceCommand) Mode() Mode   { return ModeInsert }
func (c *BackspaceCommand) ID() string   { return "insert.backspace" }

// previousCluster returns the start of the grapheme cluster ending at pt.
func previousCluster(s string, pt int) int {
	lineStart := strings.LastIndexByte(s[:pt], '\n') + 1
	if lineStart == pt {
		return pt - 1
	}
	prev, state := lineStart, -1
	rest := s[lineStart:pt]
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		if rest == "" {
			break
		}
		prev += len(cluster)
	}
	return prev
}
