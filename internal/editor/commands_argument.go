package editor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/zjrosen/argnoun/internal/buffer"
	"github.com/zjrosen/argnoun/internal/expand"
)

// ============================================================================
// Argument Text Object Commands
// ============================================================================

// argumentObject is the shared inner/outer flag and count of {v,d,c,y}{i,a}a.
type argumentObject struct {
	outer bool
	count int
}

func (o argumentObject) keys(verb byte) string {
	modifier := "i"
	if o.outer {
		modifier = "a"
	}
	count := ""
	if o.count > 1 {
		count = fmt.Sprint(o.count)
	}
	return fmt.Sprintf("%s%c%sa", count, verb, modifier)
}

func (o argumentObject) id(action string) string {
	if o.outer {
		return action + ".argument.outer"
	}
	return action + ".argument.inner"
}

// deletion is text removed at an offset of the pre-delete content.
type deletion struct {
	start int
	text  string
}

// deleteRegions removes the union of regions from the content and leaves a
// cursor where each merged span began. Selections in keep survive with their
// offsets shifted past the removed bytes. It returns the removed spans in
// ascending order.
func deleteRegions(m *Model, regions, keep []buffer.Region) []deletion {
	type span struct{ start, end int }
	spans := make([]span, 0, len(regions))
	for _, r := range regions {
		s, e := r.Ordered()
		spans = append(spans, span{s, e})
	}
	slices.SortFunc(spans, func(a, b span) int { return a.start - b.start })

	merged := spans[:0]
	for _, s := range spans {
		if n := len(merged); n > 0 && s.start <= merged[n-1].end {
			merged[n-1].end = max(merged[n-1].end, s.end)
			continue
		}
		merged = append(merged, s)
	}

	var (
		b       strings.Builder
		dels    = make([]deletion, 0, len(merged))
		sels    = make([]buffer.Region, 0, len(merged)+len(keep))
		last    = 0
		removed = 0
	)
	for _, s := range merged {
		b.WriteString(m.content[last:s.start])
		dels = append(dels, deletion{start: s.start, text: m.content[s.start:s.end]})
		sels = append(sels, buffer.Cursor(s.start-removed))
		removed += s.end - s.start
		last = s.end
	}
	b.WriteString(m.content[last:])

	// shift maps a pre-delete offset; offsets inside a removed span collapse
	// onto its start.
	shift := func(pt int) int {
		gone := 0
		for _, s := range merged {
			if pt <= s.start {
				break
			}
			gone += min(pt, s.end) - s.start
		}
		return pt - gone
	}
	for _, r := range keep {
		sels = append(sels, buffer.Region{Anchor: shift(r.Anchor), Active: shift(r.Active)})
	}
	sortSelections(sels)

	m.content = b.String()
	m.SetSelections(sels)
	return dels
}

// sortSelections orders selections by their start offset.
func sortSelections(sels []buffer.Region) {
	slices.SortStableFunc(sels, func(a, b buffer.Region) int {
		as, _ := a.Ordered()
		bs, _ := b.Ordered()
		return as - bs
	})
}

// restoreDeletions reinserts spans removed by deleteRegions.
func restoreDeletions(m *Model, dels []deletion) {
	content := m.content
	for _, d := range dels {
		content = content[:d.start] + d.text + content[d.start:]
	}
	m.content = content
}

// SelectArgumentCommand selects the argument under every cursor (via, vaa).
type SelectArgumentCommand struct {
	SelectBase
	argumentObject
}

// Execute expands every selection and enters visual mode.
func (c *SelectArgumentCommand) Execute(ctx context.Context, m *Model) ExecuteResult {
	opts := expand.Options{Outer: c.outer, Repeat: c.count, Multiline: m.multiline}
	if m.expander.ExpandAll(ctx, m, opts) == 0 {
		return Skipped
	}
	m.mode = ModeVisual
	return Executed
}

func (c *SelectArgumentCommand) Keys() string { return c.keys('v') }
func (c *SelectArgumentCommand) Mode() Mode   { return ModeNormal }
func (c *SelectArgumentCommand) ID() string   { return c.id("visual") }

// YankArgumentCommand copies the arguments under the cursors to the register
// (yia, yaa). Cursors move to the start of each argument.
type YankArgumentCommand struct {
	SelectBase
	argumentObject
}

// Execute yanks without modifying content.
func (c *YankArgumentCommand) Execute(ctx context.Context, m *Model) ExecuteResult {
	regions, missed := m.resolveArguments(ctx, c.outer, c.count)
	if len(regions) == 0 {
		return Skipped
	}
	m.register = m.textOf(regions)

	sels := make([]buffer.Region, 0, len(regions)+len(missed))
	for _, r := range regions {
		start, _ := r.Ordered()
		sels = append(sels, buffer.Cursor(start))
	}
	sels = append(sels, missed...)
	sortSelections(sels)
	m.SetSelections(sels)
	m.mode = ModeNormal
	return Executed
}

func (c *YankArgumentCommand) Keys() string { return c.keys('y') }
func (c *YankArgumentCommand) Mode() Mode   { return ModeNormal }
func (c *YankArgumentCommand) ID() string   { return c.id("yank") }

// DeleteArgumentCommand deletes the arguments under the cursors (dia, daa).
// Deletes also yank.
type DeleteArgumentCommand struct {
	EditBase
	argumentObject
	before  []buffer.Region
	deleted []deletion
}

// Execute deletes every resolved argument. Overlapping results are merged.
func (c *DeleteArgumentCommand) Execute(ctx context.Context, m *Model) ExecuteResult {
	return c.apply(ctx, m, ModeNormal)
}

func (c *DeleteArgumentCommand) apply(ctx context.Context, m *Model, after Mode) ExecuteResult {
	before := m.Selections()
	regions, missed := m.resolveArguments(ctx, c.outer, c.count)
	if len(regions) == 0 {
		return Skipped
	}

	c.before = before
	m.register = m.textOf(regions)
	c.deleted = deleteRegions(m, regions, missed)
	m.mode = after
	return Executed
}

// Undo reinserts the deleted text and restores the selections.
func (c *DeleteArgumentCommand) Undo(m *Model) error {
	if c.before == nil {
		return fmt.Errorf("undo %s: command was not executed", c.ID())
	}
	restoreDeletions(m, c.deleted)
	m.SetSelections(c.before)
	m.mode = ModeNormal
	return nil
}

func (c *DeleteArgumentCommand) Keys() string { return c.keys('d') }
func (c *DeleteArgumentCommand) Mode() Mode   { return ModeNormal }
func (c *DeleteArgumentCommand) ID() string   { return c.id("delete") }

// ChangeArgumentCommand deletes the arguments and enters insert mode with a
// cursor at each deletion (cia, caa).
type ChangeArgumentCommand struct {
	DeleteArgumentCommand
}

// Execute deletes and switches to insert mode.
func (c *ChangeArgumentCommand) Execute(ctx context.Context, m *Model) ExecuteResult {
	return c.apply(ctx, m, ModeInsert)
}

func (c *ChangeArgumentCommand) Keys() string { return c.keys('c') }
func (c *ChangeArgumentCommand) ID() string   { return c.id("change") }
