// Package expand drives argument resolution over every selection of a host.
package expand

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/argnoun/internal/argument"
	"github.com/zjrosen/argnoun/internal/buffer"
	"github.com/zjrosen/argnoun/internal/log"
	"github.com/zjrosen/argnoun/internal/tracing"
)

// Host is the editor surface expansion works against.
type Host interface {
	buffer.Buffer
	Selections() []buffer.Region
	// SetSelections replaces the whole selection set.
	SetSelections([]buffer.Region)
}

// Options selects the expansion flavour.
type Options struct {
	// Outer keeps the argument's separator.
	Outer bool
	// Repeat runs the expansion this many times per selection; < 1 means 1.
	Repeat int
	// Multiline scans surrounding lines instead of only the cursor's line.
	Multiline bool
}

func (o Options) passes() int {
	return max(1, o.Repeat)
}

// Expander resolves argument regions over host buffers.
type Expander struct {
	resolver *argument.Resolver
	window   buffer.WindowOptions
	tracer   trace.Tracer
}

// Option configures an Expander.
type Option func(*Expander)

// WithResolver sets the resolver; the default uses the built-in reserved words.
func WithResolver(r *argument.Resolver) Option {
	return func(e *Expander) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithWindow sets the line and byte radii used for context extraction.
// Multiline in opts is ignored; it comes from Options on each call.
func WithWindow(opts buffer.WindowOptions) Option {
	return func(e *Expander) {
		e.window = opts
	}
}

// WithTracer records spans on t.
func WithTracer(t trace.Tracer) Option {
	return func(e *Expander) {
		if t != nil {
			e.tracer = t
		}
	}
}

// New creates an Expander.
func New(opts ...Option) *Expander {
	e := &Expander{
		resolver: argument.New(),
		window:   buffer.DefaultWindowOptions(),
		tracer:   noop.NewTracerProvider().Tracer("noop"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExpandRegion resolves the argument around r's anchor once. It returns r
// unchanged and false when the anchor is not inside an argument list.
func (e *Expander) ExpandRegion(ctx context.Context, buf buffer.Buffer, r buffer.Region, opts Options) (buffer.Region, bool) {
	_, span := e.tracer.Start(ctx, tracing.SpanExpandRegion,
		trace.WithAttributes(attribute.Int(tracing.AttrRegionAnchor, r.Anchor)))
	defer span.End()

	wopts := e.window
	wopts.Multiline = opts.Multiline
	win := buffer.ExtractWindow(buf, r.Anchor, wopts)
	span.SetAttributes(
		attribute.Int(tracing.AttrWindowStart, win.Start),
		attribute.Int(tracing.AttrWindowLen, len(win.Text)),
	)

	rng, ok := e.resolver.Resolve(win.Text, win.Relative(r.Anchor), opts.Outer)
	span.SetAttributes(attribute.Bool(tracing.AttrRegionFound, ok))
	if !ok {
		return r, false
	}

	abs := rng.Shift(win.Start)
	span.SetAttributes(
		attribute.Int(tracing.AttrRegionStart, abs.Start),
		attribute.Int(tracing.AttrRegionEnd, abs.End),
	)
	return buffer.Span(abs.Start, abs.End), true
}

// ExpandAll expands every selection of host independently and replaces the
// selection set after each pass. Selections that do not expand are kept as
// they are. It returns how many selections changed in the final pass.
func (e *Expander) ExpandAll(ctx context.Context, host Host, opts Options) int {
	ctx, span := e.tracer.Start(ctx, tracing.SpanExpandAll,
		trace.WithAttributes(
			attribute.Bool(tracing.AttrOuter, opts.Outer),
			attribute.Int(tracing.AttrRepeat, opts.passes()),
			attribute.Bool(tracing.AttrMultiline, opts.Multiline),
		))
	defer span.End()

	expanded := 0
	for pass := 0; pass < opts.passes(); pass++ {
		current := host.Selections()
		next := make([]buffer.Region, len(current))
		expanded = 0
		for i, r := range current {
			if ctx.Err() != nil {
				// Keep what was not processed.
				copy(next[i:], current[i:])
				break
			}
			var ok bool
			next[i], ok = e.ExpandRegion(ctx, host, r, opts)
			if ok {
				expanded++
			}
		}
		host.SetSelections(next)

		log.Debug(log.CatExpand, "expansion pass",
			"pass", pass+1, "selections", len(current), "expanded", expanded, "outer", opts.Outer)
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrSelectionCount, len(host.Selections())),
		attribute.Int(tracing.AttrExpandedCount, expanded),
	)
	return expanded
}
