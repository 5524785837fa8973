// Package editor is an in-memory modal editor that hosts argument text
// objects. It implements expand.Host and understands the key grammar
// [count]{v,d,c,y}{i,a}a plus undo, redo and insert-mode typing.
package editor

import (
	"context"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/argnoun/internal/buffer"
	"github.com/zjrosen/argnoun/internal/expand"
	"github.com/zjrosen/argnoun/internal/log"
	"github.com/zjrosen/argnoun/internal/tracing"
)

// Model holds the buffer, selections, register and history.
type Model struct {
	content   string
	sels      []buffer.Region
	register  string
	mode      Mode
	multiline bool

	history  *CommandHistory
	expander *expand.Expander
	tracer   trace.Tracer
	onChange func(content string)
}

// Option configures a Model.
type Option func(*Model)

// WithExpander sets the expander used by argument commands.
func WithExpander(e *expand.Expander) Option {
	return func(m *Model) {
		if e != nil {
			m.expander = e
		}
	}
}

// WithMultiline controls whether argument lookups scan surrounding lines.
// It defaults to true.
func WithMultiline(on bool) Option {
	return func(m *Model) {
		m.multiline = on
	}
}

// WithTracer records a span per handled key sequence.
func WithTracer(t trace.Tracer) Option {
	return func(m *Model) {
		if t != nil {
			m.tracer = t
		}
	}
}

// WithOnChange registers a callback fired after each content change.
func WithOnChange(fn func(content string)) Option {
	return func(m *Model) {
		m.onChange = fn
	}
}

// New creates a model over content with one cursor at offset 0.
func New(content string, opts ...Option) *Model {
	m := &Model{
		content:   content,
		sels:      []buffer.Region{buffer.Cursor(0)},
		multiline: true,
		history:   NewCommandHistory(),
		expander:  expand.New(),
		tracer:    noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Len returns the content length in bytes.
func (m *Model) Len() int {
	return len(m.content)
}

// Text returns content in [start, end), clamped.
func (m *Model) Text(start, end int) string {
	start, end = max(0, min(start, len(m.content))), max(0, min(end, len(m.content)))
	if start >= end {
		return ""
	}
	return m.content[start:end]
}

// Content returns the whole buffer.
func (m *Model) Content() string {
	return m.content
}

// Selections returns a copy of the selection set.
func (m *Model) Selections() []buffer.Region {
	return slices.Clone(m.sels)
}

// SetSelections replaces the selection set, clamping every region to the
// buffer. An empty set becomes a single cursor at 0.
func (m *Model) SetSelections(sels []buffer.Region) {
	if len(sels) == 0 {
		m.sels = []buffer.Region{buffer.Cursor(0)}
		return
	}
	n := len(m.content)
	m.sels = make([]buffer.Region, len(sels))
	for i, r := range sels {
		m.sels[i] = buffer.Region{
			Anchor: max(0, min(r.Anchor, n)),
			Active: max(0, min(r.Active, n)),
		}
	}
}

// SetCursors replaces the selection set with cursors at pts.
func (m *Model) SetCursors(pts ...int) {
	sels := make([]buffer.Region, len(pts))
	for i, pt := range pts {
		sels[i] = buffer.Cursor(pt)
	}
	m.SetSelections(sels)
}

// Reload replaces the buffer with content read from elsewhere. History is
// cleared since its offsets no longer apply; selections are clamped and the
// editor returns to normal mode.
func (m *Model) Reload(content string) {
	m.content = content
	m.history.Clear()
	m.mode = ModeNormal
	m.SetSelections(m.sels)
}

// Mode returns the current mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Register returns the last yanked or deleted text.
func (m *Model) Register() string {
	return m.register
}

// CanUndo reports whether Undo has anything to reverse.
func (m *Model) CanUndo() bool {
	return m.history.CanUndo()
}

// CanRedo reports whether Redo has anything to re-apply.
func (m *Model) CanRedo() bool {
	return m.history.CanRedo()
}

// Execute runs cmd and records it in history when it is undoable.
func (m *Model) Execute(ctx context.Context, cmd Command) ExecuteResult {
	if cmd.Mode() != m.mode && !(cmd.Mode() == ModeNormal && m.mode == ModeVisual) {
		log.Debug(log.CatEditor, "command not valid in mode", "id", cmd.ID(), "mode", m.mode)
		return Skipped
	}

	res := cmd.Execute(ctx, m)
	log.Debug(log.CatEditor, "command executed", "id", cmd.ID(), "keys", cmd.Keys(), "executed", res == Executed)
	if res != Executed {
		return res
	}
	if cmd.IsUndoable() {
		m.history.Push(cmd)
	}
	if cmd.ChangesContent() {
		m.changed()
	}
	return res
}

// Undo reverses the last content change.
func (m *Model) Undo() error {
	undone, err := m.history.Undo(m)
	if undone {
		m.changed()
	}
	return err
}

// Redo re-applies the last undone change.
func (m *Model) Redo(ctx context.Context) {
	if m.history.Redo(ctx, m) {
		m.changed()
	}
}

// HandleKeys runs a whole key sequence, e.g. "2daa" or "cia<text><esc>".
// It stops at the first sequence that cannot be parsed.
func (m *Model) HandleKeys(ctx context.Context, keys string) error {
	ctx, span := m.tracer.Start(ctx, tracing.SpanEditorKeys,
		trace.WithAttributes(attribute.String(tracing.AttrEditorKeys, keys)))
	defer span.End()

	for keys != "" {
		var (
			cmd Command
			n   int
			err error
		)
		if m.mode == ModeInsert {
			cmd, n = ParseInsertKeys(keys)
		} else {
			cmd, n, err = ParseKeys(keys)
			if err != nil {
				span.RecordError(err)
				return err
			}
		}
		keys = keys[n:]

		switch c := cmd.(type) {
		case undoKey:
			if err := m.Undo(); err != nil {
				return err
			}
		case redoKey:
			m.Redo(ctx)
		default:
			span.AddEvent("command", trace.WithAttributes(attribute.String(tracing.AttrEditorCmdID, c.ID())))
			m.Execute(ctx, c)
		}
	}
	span.SetAttributes(attribute.String(tracing.AttrEditorMode, m.mode.String()))
	return nil
}

// resolveArguments returns the argument region for each selection that is
// inside an argument list, expanded count times from the selection anchor.
// Selections that resolve nothing are returned unchanged in missed.
func (m *Model) resolveArguments(ctx context.Context, outer bool, count int) (found, missed []buffer.Region) {
	opts := expand.Options{Outer: outer, Repeat: 1, Multiline: m.multiline}
	for _, sel := range m.sels {
		r, ok := sel, false
		for i := 0; i < max(1, count); i++ {
			var hit bool
			r, hit = m.expander.ExpandRegion(ctx, m, r, opts)
			ok = ok || hit
		}
		if ok {
			found = append(found, r)
		} else {
			missed = append(missed, sel)
		}
	}
	return found, missed
}

// replace sets the content and keeps selections inside it.
func (m *Model) replace(content string) {
	m.content = content
	m.SetSelections(m.sels)
}

func (m *Model) changed() {
	if m.onChange != nil {
		m.onChange(m.content)
	}
}

// textOf joins the text of regions with newlines, as a multi-cursor register.
func (m *Model) textOf(regions []buffer.Region) string {
	parts := make([]string, len(regions))
	for i, r := range regions {
		parts[i] = r.TextOf(m)
	}
	return strings.Join(parts, "\n")
}
