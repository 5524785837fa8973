// Package argument resolves the span of the function-call argument under a
// cursor.
//
// Resolution is textual and language agnostic. The scan runs in stages, each
// of which preserves the byte offsets of everything it keeps:
//
//  1. Mask hides string literals behind placeholder bytes.
//  2. FindArgListStart picks the innermost `name(` whose argument list starts
//     at or before the cursor.
//  3. RepairTail cuts the text after the cursor at a statement terminator and
//     closes calls whose closing parenthesis appears to be missing.
//  4. NeutralizeNested hides nested parenthesis groups and truncates at the
//     closing parenthesis of the list.
//  5. SplitArgs breaks the list at top-level commas, and the cursor is mapped
//     onto one of the slices.
//
// The result is a best-effort heuristic: when no argument can be found the
// caller is told so and must leave its selection alone.
package argument

import (
	"strings"

	"github.com/zjrosen/argnoun/internal/log"
)

// argDelimiters are trimmed from the end of an argument for inner expansion.
const argDelimiters = ", \t\r\n"

// leadingSpace is skipped between an opening parenthesis and the first
// argument.
const leadingSpace = " \t\r\n"

// DefaultReservedWords are operator-like keywords that RepairTail never treats
// as the end of a call when they start or follow a line break.
var DefaultReservedWords = []string{
	"mod", "div", "and", "or", "xor", "not", "if", "unless", "else", "const",
}

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns End - Start.
func (r Range) Len() int {
	return r.End - r.Start
}

// Shift returns the range moved by delta bytes.
func (r Range) Shift(delta int) Range {
	return Range{Start: r.Start + delta, End: r.End + delta}
}

// Resolver maps cursor offsets onto argument ranges.
// A Resolver is immutable after New and safe for concurrent use.
type Resolver struct {
	reserved map[string]bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithReservedWords replaces the RepairTail exclusion set.
// A nil slice keeps the defaults; an empty slice disables exclusions.
func WithReservedWords(words []string) Option {
	return func(r *Resolver) {
		if words == nil {
			return
		}
		r.reserved = make(map[string]bool, len(words))
		for _, w := range words {
			r.reserved[w] = true
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{}
	WithReservedWords(DefaultReservedWords)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = New()

// Resolve runs the default Resolver.
func Resolve(text string, cursor int, outer bool) (Range, bool) {
	return defaultResolver.Resolve(text, cursor, outer)
}

// Resolve returns the range, relative to text, of the argument containing
// cursor. With outer set the range keeps the argument's trailing comma and
// whitespace, and when the argument is the last in its list it grows left
// over the separator before it instead. ok is false when the cursor is not
// inside a non-empty argument list.
func (r *Resolver) Resolve(text string, cursor int, outer bool) (rng Range, ok bool) {
	if cursor < 0 || cursor > len(text) {
		return Range{}, false
	}

	masked := Mask(text)
	starts := FindArgListStarts(masked, cursor)
	if len(starts) == 0 {
		log.Debug(log.CatResolve, "no enclosing argument list", "cursor", cursor)
		return Range{}, false
	}

	// The innermost list may already have closed before the cursor, as in
	// f(a, g(b), |c); fall back to the lists enclosing it.
	for i := len(starts) - 1; i >= 0; i-- {
		if rng, ok = r.resolveIn(text, masked, starts[i], cursor, outer); ok {
			return rng, true
		}
	}

	log.Debug(log.CatResolve, "cursor past every argument list", "cursor", cursor, "candidates", len(starts))
	return Range{}, false
}

// resolveIn maps cursor onto the argument list starting at argStart.
func (r *Resolver) resolveIn(text, masked string, argStart, cursor int, outer bool) (Range, bool) {
	args := r.RepairTail(masked[argStart:], cursor-argStart)
	args = NeutralizeNested(args)
	slices := SplitArgs(args)

	for idx, s := range slices {
		// Only the first slice can start with whitespace; a cursor in it
		// belongs to the first argument.
		lead := len(s.Text) - len(strings.TrimLeft(s.Text, leadingSpace))
		s.Text = s.Text[lead:]
		if s.Text == "" {
			continue
		}
		start := argStart + s.Start + lead
		trimmed := strings.TrimRight(s.Text, argDelimiters)
		if cursor > start+len(trimmed) {
			continue
		}

		arg := trimmed
		if outer {
			arg = s.Text
		}
		rng := Range{Start: start, End: start + len(arg)}
		if !outer {
			// Bytes hidden by NeutralizeNested in an unclosed group may be
			// whitespace in the original text.
			for rng.End > rng.Start && strings.IndexByte(argDelimiters, text[rng.End-1]) >= 0 {
				rng.End--
			}
		}

		// The last argument has no trailing separator of its own, so outer
		// expansion takes the one in front of it.
		if outer && idx == len(slices)-1 {
			for rng.Start > 0 && strings.IndexByte(argDelimiters, text[rng.Start-1]) >= 0 {
				rng.Start--
			}
		}

		log.Debug(log.CatResolve, "argument resolved",
			"cursor", cursor, "list_start", argStart, "index", idx, "start", rng.Start, "end", rng.End, "outer", outer)
		return rng, true
	}
	return Range{}, false
}
