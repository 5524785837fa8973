package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/argnoun/internal/config"
)

func useExpandOptions(t *testing.T, o expandOptions) {
	t.Helper()
	prev := expandOpts
	if o.format == "" {
		o.format = "text"
	}
	if o.color == "" {
		o.color = "never"
	}
	expandOpts = o
	t.Cleanup(func() { expandOpts = prev })
}

func TestExpand_Text(t *testing.T) {
	useConfig(t, config.Defaults())
	useExpandOptions(t, expandOptions{at: []string{"2:10", "1:1"}})
	path := writeTemp(t, "main.py", "x = 1\nf(alpha, beta)\n")

	out, _, err := run(t, runExpand, "", path)
	require.NoError(t, err)
	require.Equal(t, "2:10\t2:10-2:14\t\"beta\"\n1:1\tno argument\n", out)
}

func TestExpand_JSONOuterMultiCursor(t *testing.T) {
	useConfig(t, config.Defaults())
	useExpandOptions(t, expandOptions{offsets: []int{2, 9}, outer: true, format: "json"})

	out, _, err := run(t, runExpand, "f(alpha, beta)", "-")
	require.NoError(t, err)

	var results []expandResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Equal(t, []expandResult{
		{Cursor: "1:3", Found: true, Start: 2, End: 9, Range: "1:3-1:10", Text: "alpha, "},
		{Cursor: "1:10", Found: true, Start: 7, End: 13, Range: "1:8-1:14", Text: ", beta"},
	}, results)
}

func TestExpand_YAMLNotFound(t *testing.T) {
	useConfig(t, config.Defaults())
	useExpandOptions(t, expandOptions{offsets: []int{0}, format: "yaml"})

	out, _, err := run(t, runExpand, "plain text", "-")
	require.NoError(t, err, "nothing to expand is not an error")

	var results []expandResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.False(t, results[0].Found)
	require.Equal(t, "1:1", results[0].Cursor)
}

func TestExpand_EmptyArgumentSlotIsFound(t *testing.T) {
	useConfig(t, config.Defaults())
	useExpandOptions(t, expandOptions{offsets: []int{4}, format: "json"})

	out, _, err := run(t, runExpand, "f(a,,b)", "-")
	require.NoError(t, err)

	var results []expandResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Equal(t, []expandResult{
		{Cursor: "1:5", Found: true, Start: 4, End: 4, Range: "1:5-1:5", Text: ""},
	}, results)
}

func TestExpand_Repeat(t *testing.T) {
	useConfig(t, config.Defaults())
	useExpandOptions(t, expandOptions{offsets: []int{10}, repeat: 2, format: "json"})

	out, _, err := run(t, runExpand, "f(a, g(b, c))", "-")
	require.NoError(t, err)

	var results []expandResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	require.True(t, results[0].Found)
	require.Equal(t, "c", results[0].Text)
}

func TestExpand_MultilineFromConfig(t *testing.T) {
	content := "call(\n  first,\n  second\n)"
	c := config.Defaults()
	c.Window.Multiline = false
	useConfig(t, c)
	useExpandOptions(t, expandOptions{at: []string{"3:3"}, format: "json"})

	out, _, err := run(t, runExpand, content, "-")
	require.NoError(t, err)
	var results []expandResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.False(t, results[0].Found, "single-line window cannot see the call")

	useConfig(t, config.Defaults())
	out, _, err = run(t, runExpand, content, "-")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.True(t, results[0].Found)
	require.Equal(t, "second", results[0].Text)
}

func TestExpand_Errors(t *testing.T) {
	useConfig(t, config.Defaults())

	useExpandOptions(t, expandOptions{offsets: []int{0}, format: "xml"})
	_, _, err := run(t, runExpand, "f(a)", "-")
	require.ErrorContains(t, err, "unsupported format")

	useExpandOptions(t, expandOptions{})
	_, _, err = run(t, runExpand, "f(a)", "-")
	require.ErrorContains(t, err, "--at or --offset")
}

func TestNewStyles(t *testing.T) {
	s := newStyles("always")
	require.NotEqual(t, "x", s.text.Sprint("x"))

	s = newStyles("never")
	require.Equal(t, "x", s.text.Sprint("x"))
}
