package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/argnoun/internal/config"
	"github.com/zjrosen/argnoun/internal/editor"
)

func useEditOptions(t *testing.T, o editOptions) {
	t.Helper()
	prev := editOpts
	if o.color == "" {
		o.color = "never"
	}
	editOpts = o
	t.Cleanup(func() { editOpts = prev })
}

const editSource = "def f():\n    g(a, b)\n"

func TestEdit_PrintsBuffer(t *testing.T) {
	useConfig(t, config.Defaults())
	useEditOptions(t, editOptions{keys: "daa", at: []string{"2:7"}})

	out, _, err := run(t, runEdit, editSource, "-")
	require.NoError(t, err)
	require.Equal(t, "def f():\n    g(b)\n", out)
}

func TestEdit_Diff(t *testing.T) {
	useConfig(t, config.Defaults())
	useEditOptions(t, editOptions{keys: "daa", at: []string{"2:7"}, diff: true})
	path := writeTemp(t, "main.py", editSource)

	out, _, err := run(t, runEdit, "", path)
	require.NoError(t, err)
	require.Equal(t, "--- a/"+path+"\n+++ b/"+path+"\n"+
		"@@ -1,2 +1,2 @@\n"+
		" def f():\n"+
		"-    g(a, b)\n"+
		"+    g(b)\n", out)
}

func TestEdit_WriteChangeMultiCursor(t *testing.T) {
	useConfig(t, config.Defaults())
	useEditOptions(t, editOptions{
		keys:  "cianame<esc>",
		at:    []string{"1:3", "2:3"},
		write: true,
	})
	path := writeTemp(t, "main.py", "f(x)\ng(y)\n")

	out, errOut, err := run(t, runEdit, "", path)
	require.NoError(t, err)
	require.Empty(t, out)
	require.Contains(t, errOut, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "f(name)\ng(name)\n", string(data))
}

func TestEdit_Register(t *testing.T) {
	useConfig(t, config.Defaults())
	useEditOptions(t, editOptions{keys: "yaa", offsets: []int{2}, register: true})

	out, _, err := run(t, runEdit, "f(a, b)", "-")
	require.NoError(t, err)
	require.Equal(t, "a, ", out)
}

func TestEdit_Errors(t *testing.T) {
	useConfig(t, config.Defaults())

	useEditOptions(t, editOptions{keys: "daa", offsets: []int{2}, write: true})
	_, _, err := run(t, runEdit, "f(a)", "-")
	require.ErrorContains(t, err, "--write needs a file")

	useEditOptions(t, editOptions{keys: "dz", offsets: []int{2}})
	_, _, err = run(t, runEdit, "f(a)", "-")
	require.ErrorIs(t, err, editor.ErrUnknownKeys)

	useEditOptions(t, editOptions{keys: "daa"})
	_, _, err = run(t, runEdit, "f(a)", "-")
	require.ErrorContains(t, err, "--at or --offset")
}

func TestLineDiff_Hunks(t *testing.T) {
	before := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n"
	after := "1\nTWO\n3\n4\n5\n6\n7\n8\n9\n10\nELEVEN\n12\n"

	lines := lineDiff(before, after)
	require.Len(t, lines, 14)

	h := hunks(lines, diffContext)
	require.Len(t, h, 2, "changes more than 2*context apart stay separate")

	var out bytesWriter
	require.NoError(t, writeUnifiedDiff(&out, "n.txt", before, after, newStyles("never")))
	require.Contains(t, string(out), "@@ -1,5 +1,5 @@\n 1\n-2\n+TWO\n 3\n 4\n 5\n")
	require.Contains(t, string(out), "@@ -8,5 +8,5 @@\n 8\n 9\n 10\n-11\n+ELEVEN\n 12\n")
}

func TestLineDiff_PureInsertion(t *testing.T) {
	var out bytesWriter
	require.NoError(t, writeUnifiedDiff(&out, "n.txt", "", "new\n", newStyles("never")))
	require.Contains(t, string(out), "@@ -0,0 +1,1 @@\n+new\n")

	out = nil
	require.NoError(t, writeUnifiedDiff(&out, "n.txt", "same", "same", newStyles("never")))
	require.Empty(t, out)
}

type bytesWriter []byte

func (b *bytesWriter) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}
