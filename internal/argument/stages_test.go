package argument

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// ============================================================================
// Mask
// ============================================================================

func TestMask_DoubleAndSingleQuotes(t *testing.T) {
	assert.Equal(t, `f(!!!!!!, !!!!!)`, Mask(`f("a, b", 'c)d')`))
}

func TestMask_EscapedQuotes(t *testing.T) {
	in := `f("a\"b", 'it\'s')`
	out := Mask(in)
	assert.Equal(t, len(in), len(out))
	assert.Equal(t, `f(!!!!!!, !!!!!!!)`, out)
}

func TestMask_TripleQuotesSpanLines(t *testing.T) {
	in := "f(\"\"\"x,\n(y\"\"\", z)"
	assert.Equal(t, "f(!!!!!!!!!!!, z)", Mask(in))
}

func TestMask_PlainLiteralsStopAtLineBreak(t *testing.T) {
	in := "f(\"a\nb\", c)"
	assert.Equal(t, in, Mask(in))
}

func TestMask_UnterminatedLiteralLeftAlone(t *testing.T) {
	in := `f(a, "b, c)`
	assert.Equal(t, in, Mask(in))
}

func TestMask_MultibyteInsideLiteral(t *testing.T) {
	in := `x("é", y)`
	out := Mask(in)
	assert.Equal(t, len(in), len(out))
	assert.Equal(t, `x(!!!!, y)`, out)
}

func TestMask_Property_LengthPreserved(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.StringMatching(`[a-c(),"' \n\\é;]{0,80}`).Draw(t, "text")
		out := Mask(in)

		require.Equal(t, len(in), len(out))
		for i := 0; i < len(in); i++ {
			if in[i] != out[i] {
				require.Contains(t, "!_", string(out[i]), "byte %d replaced with structural character", i)
			}
		}
	})
}

// ============================================================================
// FindArgListStart
// ============================================================================

func TestFindArgListStart_PicksInnermost(t *testing.T) {
	s := "f(a, g(b, c))"
	start, ok := FindArgListStart(s, 8)
	require.True(t, ok)
	assert.Equal(t, 7, start)

	start, ok = FindArgListStart(s, 5)
	require.True(t, ok)
	assert.Equal(t, 2, start)
}

func TestFindArgListStart_StartsAfterParen(t *testing.T) {
	start, ok := FindArgListStart("call(\n    x)", 11)
	require.True(t, ok)
	assert.Equal(t, 5, start)

	start, ok = FindArgListStart("call(\n    x)", 5)
	require.True(t, ok, "the end of the call line is inside the list")
	assert.Equal(t, 5, start)
}

func TestFindArgListStart_WhitespaceBeforeParen(t *testing.T) {
	start, ok := FindArgListStart("print (a)", 7)
	require.True(t, ok)
	assert.Equal(t, 7, start)
}

func TestFindArgListStart_None(t *testing.T) {
	_, ok := FindArgListStart("(a, b)", 2)
	assert.False(t, ok, "a bare parenthesis is not a call")

	_, ok = FindArgListStart("f() + g( )", 9)
	assert.False(t, ok, "empty lists are not candidates")

	_, ok = FindArgListStart("f(a)", 1)
	assert.False(t, ok, "list starts after the cursor")
}

func TestFindArgListStarts_Ascending(t *testing.T) {
	starts := FindArgListStarts("a(b(c(d)))", 9)
	assert.Equal(t, []int{2, 4, 6}, starts)
}

// ============================================================================
// RepairTail
// ============================================================================

func TestRepairTail_TruncatesAtSemicolon(t *testing.T) {
	assert.Equal(t, "a, b", New().RepairTail("a, b; c(d)", 3))
}

func TestRepairTail_SemicolonBeforeCursorKept(t *testing.T) {
	assert.Equal(t, "i=0; i<n", New().RepairTail("i=0; i<n; i++)", 5))
}

func TestRepairTail_InsertsParenAcrossLineBreak(t *testing.T) {
	in := "a, b\n  next()"
	out := New().RepairTail(in, 3)
	assert.Equal(t, "a, b)  next()", out)
	assert.Equal(t, len(in), len(out))
}

func TestRepairTail_NoLineBreakNoRepair(t *testing.T) {
	in := "a, b  c"
	assert.Equal(t, in, New().RepairTail(in, 3))
}

func TestRepairTail_ReservedWordEitherSide(t *testing.T) {
	r := New()
	assert.Equal(t, "x and\n y", r.RepairTail("x and\n y", 0))
	assert.Equal(t, "x\n or y", r.RepairTail("x\n or y", 0))
}

func TestRepairTail_LeavesTextBeforeCursorIdentifier(t *testing.T) {
	in := "first\n second, thi\n rd"
	out := New().RepairTail(in, strings.Index(in, "hi"))
	assert.Equal(t, "first\n second, thi) rd", out)
}

func TestRepairTail_MultibyteLineBreakWhitespace(t *testing.T) {
	in := "a\u2028b"
	out := New().RepairTail(in, 0)
	assert.Equal(t, len(in), len(out))
	assert.Equal(t, in, out, "U+2028 is whitespace but not a newline")

	in = "a\n b"
	out = New().RepairTail(in, 0)
	assert.Equal(t, "a) b", out)
}

// ============================================================================
// NeutralizeNested / SplitArgs
// ============================================================================

func TestNeutralizeNested(t *testing.T) {
	assert.Equal(t, "a*min_____), d", NeutralizeNested("a*min(b, c), d) + e"))
	assert.Equal(t, "a, b", NeutralizeNested("a, b"))
	assert.Equal(t, "", NeutralizeNested(")"))
	assert.Equal(t, "f____)", NeutralizeNested("f((x))"))
}

func TestNeutralizeNested_Property_AlignedPrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.StringMatching(`[a-c(), ]{0,60}`).Draw(t, "args")
		out := NeutralizeNested(in)

		require.LessOrEqual(t, len(out), len(in))
		if len(out) < len(in) {
			require.Equal(t, byte(')'), in[len(out)], "truncation only at an unmatched paren")
		}
		for i := 0; i < len(out); i++ {
			if out[i] != in[i] {
				require.Equal(t, byte(NestedChar), out[i])
			}
		}
		if !strings.Contains(in, ")") {
			require.Equal(t, len(in), len(out))
		}
	})
}

func TestSplitArgs(t *testing.T) {
	slices := SplitArgs("a, bb,c ,  d")
	require.Equal(t, []Slice{
		{Text: "a, ", Start: 0},
		{Text: "bb,", Start: 3},
		{Text: "c ,  ", Start: 6},
		{Text: "d", Start: 11},
	}, slices)
}

func TestSplitArgs_EmptySlots(t *testing.T) {
	slices := SplitArgs(", a,, b")
	require.Equal(t, []Slice{
		{Text: ", ", Start: 0},
		{Text: "a,", Start: 2},
		{Text: ", ", Start: 4},
		{Text: "b", Start: 6},
	}, slices)
}

func TestSplitArgs_Empty(t *testing.T) {
	assert.Empty(t, SplitArgs(""))
}

func TestSplitArgs_Property_Tiles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.StringMatching(`[a-cé, \n]{0,60}`).Draw(t, "args")
		var b strings.Builder
		next := 0
		for _, s := range SplitArgs(in) {
			require.Equal(t, next, s.Start)
			next += len(s.Text)
			b.WriteString(s.Text)
		}
		require.Equal(t, in, b.String())
	})
}

// ============================================================================
// Resolve properties
// ============================================================================

func TestResolve_Property_RangeInvariants(t *testing.T) {
	r := New()
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-cf(),"' \n;é]{0,80}`).Draw(t, "text")
		cursor := rapid.IntRange(0, len(text)).Draw(t, "cursor")
		outer := rapid.Bool().Draw(t, "outer")

		rng, ok := r.Resolve(text, cursor, outer)
		if !ok {
			return
		}
		require.GreaterOrEqual(t, rng.Start, 0)
		require.LessOrEqual(t, rng.Start, rng.End)
		require.LessOrEqual(t, rng.End, len(text))
		if !outer && rng.End > rng.Start {
			require.NotContains(t, argDelimiters, string(text[rng.End-1]), "inner range keeps no trailing delimiter")
		}
	})
}
