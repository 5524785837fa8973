package argument

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/argnoun/internal/buffer"
)

// expandMarked resolves the argument at the '|' marker in marked and returns
// the selected text.
func expandMarked(t *testing.T, r *Resolver, marked string, outer bool) (string, bool) {
	t.Helper()
	cursor := strings.Index(marked, "|")
	require.GreaterOrEqual(t, cursor, 0, "test input needs a | cursor marker")
	text := marked[:cursor] + marked[cursor+1:]

	rng, ok := r.Resolve(text, cursor, outer)
	if !ok {
		return "", false
	}
	require.LessOrEqual(t, 0, rng.Start)
	require.LessOrEqual(t, rng.Start, rng.End)
	require.LessOrEqual(t, rng.End, len(text))
	return text[rng.Start:rng.End], true
}

// ============================================================================
// Inner / outer expansion
// ============================================================================

func TestResolve_InnerMiddleArgument(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(a, |b, c)", false)
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestResolve_OuterMiddleArgumentKeepsTrailingSeparator(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(a, |b, c)", true)
	require.True(t, ok)
	assert.Equal(t, "b, ", got)
}

func TestResolve_OuterLastArgumentTakesLeadingSeparator(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(a, |b)", true)
	require.True(t, ok)
	assert.Equal(t, ", b", got)
}

func TestResolve_OuterFirstArgument(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(|a, b)", true)
	require.True(t, ok)
	assert.Equal(t, "a, ", got)
}

func TestResolve_OuterOnlyArgument(t *testing.T) {
	got, ok := expandMarked(t, New(), "f( |a )", true)
	require.True(t, ok)
	assert.Equal(t, " a ", got)
}

func TestResolve_CursorMidArgument(t *testing.T) {
	got, ok := expandMarked(t, New(), "compute(first_value, sec|ond_value + 1, third)", false)
	require.True(t, ok)
	assert.Equal(t, "second_value + 1", got)
}

func TestResolve_CursorOnCommaBelongsToPreviousArgument(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(alpha|, beta)", false)
	require.True(t, ok)
	assert.Equal(t, "alpha", got)
}

func TestResolve_CursorAtArgumentEnd(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(alpha, beta|)", false)
	require.True(t, ok)
	assert.Equal(t, "beta", got)
}

func TestResolve_MethodAndPredicateNames(t *testing.T) {
	got, ok := expandMarked(t, New(), "obj.method(x, |y)", false)
	require.True(t, ok)
	assert.Equal(t, "y", got)

	got, ok = expandMarked(t, New(), "valid?(a, |b)", false)
	require.True(t, ok)
	assert.Equal(t, "b", got)

	got, ok = expandMarked(t, New(), "save!(|a, b)", false)
	require.True(t, ok)
	assert.Equal(t, "a", got)
}

func TestResolve_RangeIsRelativeToText(t *testing.T) {
	text := "x = call(one, two)"
	rng, ok := New().Resolve(text, strings.Index(text, "two"), false)
	require.True(t, ok)
	assert.Equal(t, Range{Start: 14, End: 17}, rng)
	assert.Equal(t, 3, rng.Len())
	assert.Equal(t, Range{Start: 114, End: 117}, rng.Shift(100))
}

// ============================================================================
// Nesting and literals
// ============================================================================

func TestResolve_NestedCallIsOneArgument(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(a, |g(b, c), d)", false)
	require.True(t, ok)
	assert.Equal(t, "g(b, c)", got)
}

func TestResolve_CursorInsideNestedCallUsesInnermostList(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(a, g(|b, c), d)", false)
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestResolve_DirectlyNestedCalls(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(g(|x))", false)
	require.True(t, ok)
	assert.Equal(t, "x", got)
}

func TestResolve_AfterNestedCallReturnsToOuterList(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(a, g(b, c), |d)", false)
	require.True(t, ok)
	assert.Equal(t, "d", got)
}

func TestResolve_StringLiteralIsOneArgument(t *testing.T) {
	got, ok := expandMarked(t, New(), `f("a, |b", c)`, false)
	require.True(t, ok)
	assert.Equal(t, `"a, b"`, got)
}

func TestResolve_ParenInsideStringIgnored(t *testing.T) {
	got, ok := expandMarked(t, New(), `log(")", |x)`, false)
	require.True(t, ok)
	assert.Equal(t, "x", got)
}

func TestResolve_CallInsideStringIgnored(t *testing.T) {
	got, ok := expandMarked(t, New(), `f(a, "g(b, |c)")`, false)
	require.True(t, ok)
	assert.Equal(t, `"g(b, c)"`, got)
}

func TestResolve_EscapedQuoteInsideLiteral(t *testing.T) {
	got, ok := expandMarked(t, New(), `f("say \"hi, |there\"", 2)`, false)
	require.True(t, ok)
	assert.Equal(t, `"say \"hi, there\""`, got)
}

func TestResolve_TripleQuotedLiteralAcrossLines(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(\"\"\"one,\n|two\"\"\", three)", false)
	require.True(t, ok)
	assert.Equal(t, "\"\"\"one,\ntwo\"\"\"", got)
}

func TestResolve_MultibyteText(t *testing.T) {
	got, ok := expandMarked(t, New(), `greet("héllo, wörld", |naïve, ok)`, false)
	require.True(t, ok)
	assert.Equal(t, "naïve", got)
}

// ============================================================================
// Not applicable
// ============================================================================

func TestResolve_NoEnclosingCall(t *testing.T) {
	_, ok := expandMarked(t, New(), "x = |1 + 2", false)
	assert.False(t, ok)
}

func TestResolve_EmptyArgumentList(t *testing.T) {
	_, ok := expandMarked(t, New(), "f(|)", false)
	assert.False(t, ok)

	_, ok = expandMarked(t, New(), "f(  |  )", false)
	assert.False(t, ok)
}

func TestResolve_CursorOnCallName(t *testing.T) {
	_, ok := expandMarked(t, New(), "fu|nc(a, b)", false)
	assert.False(t, ok)
}

func TestResolve_CursorAfterClosingParen(t *testing.T) {
	_, ok := expandMarked(t, New(), "f(a, b) |+ 1", false)
	assert.False(t, ok)
}

func TestResolve_CursorOutOfBounds(t *testing.T) {
	_, ok := New().Resolve("f(a)", 10, false)
	assert.False(t, ok)
	_, ok = New().Resolve("f(a)", -1, false)
	assert.False(t, ok)
}

// ============================================================================
// Cost
// ============================================================================

func TestResolve_LongIdentifierRunStaysFast(t *testing.T) {
	run := strings.Repeat("a", 2*buffer.DefaultByteRadius)

	begin := time.Now()
	assert.Empty(t, FindArgListStarts(run, len(run)))
	assert.Equal(t, run, New().RepairTail(run, 0))
	assert.Equal(t, run+")"+run, New().RepairTail(run+"\n"+run, 0))

	rng, ok := Resolve("f(x, "+run+")", buffer.DefaultByteRadius, false)
	require.True(t, ok)
	assert.Equal(t, Range{Start: 5, End: 5 + len(run)}, rng)
	assert.Less(t, time.Since(begin), time.Second)
}

// ============================================================================
// Tail repair
// ============================================================================

func TestResolve_MissingParenRepair(t *testing.T) {
	got, ok := expandMarked(t, New(), "foo(a, |b\n    bar()", false)
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestResolve_MissingParenRepairBeforeNextStatement(t *testing.T) {
	got, ok := expandMarked(t, New(), "puts(a, |b\nnext_call 1", false)
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestResolve_SemicolonEndsStatement(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(a, |b; g(c, d)", false)
	require.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestResolve_ReservedWordSuppressesRepair(t *testing.T) {
	got, ok := expandMarked(t, New(), "f(a, |b and\n c)", false)
	require.True(t, ok)
	assert.Equal(t, "b and\n c", got)
}

func TestResolve_CustomReservedWords(t *testing.T) {
	r := New(WithReservedWords([]string{}))
	got, ok := expandMarked(t, r, "f(a, |b and\n c)", false)
	require.True(t, ok)
	assert.Equal(t, "b and", got)
}

func TestResolve_MultilineCall(t *testing.T) {
	text := "call(\n    first,\n    |second,\n    third\n)"
	got, ok := expandMarked(t, New(), text, false)
	require.True(t, ok)
	assert.Equal(t, "second", got)

	got, ok = expandMarked(t, New(), "call(\n    |first,\n    second\n)", false)
	require.True(t, ok)
	assert.Equal(t, "first", got)
}

func TestResolve_CursorBeforeFirstArgument(t *testing.T) {
	got, ok := expandMarked(t, New(), "f( | a, b)", false)
	require.True(t, ok)
	assert.Equal(t, "a", got)

	got, ok = expandMarked(t, New(), "f(|  a, b)", true)
	require.True(t, ok)
	assert.Equal(t, "a, ", got)

	got, ok = expandMarked(t, New(), "foo(|\n    a,\n    b\n)", false)
	require.True(t, ok)
	assert.Equal(t, "a", got)

	_, ok = expandMarked(t, New(), "f(  |;", false)
	assert.False(t, ok, "whitespace cut short by a terminator holds no argument")
}

func TestResolve_IdempotentOnSelectedArgument(t *testing.T) {
	text := "f(a, bb, c)"
	r := New()
	first, ok := r.Resolve(text, 6, false)
	require.True(t, ok)

	// Re-running from the start of the result selects the same argument.
	second, ok := r.Resolve(text, first.Start, false)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestResolve_PackageDefault(t *testing.T) {
	rng, ok := Resolve("f(a, b)", 5, false)
	require.True(t, ok)
	assert.Equal(t, Range{Start: 5, End: 6}, rng)
}
