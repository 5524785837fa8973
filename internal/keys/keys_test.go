package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestPlayground_KeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Up uses k and up", Playground.Up, []string{"k", "up"}},
		{"Down uses j and down", Playground.Down, []string{"j", "down"}},
		{"Left uses h and left", Playground.Left, []string{"h", "left"}},
		{"Right uses l and right", Playground.Right, []string{"l", "right"}},
		{"LineStart uses 0", Playground.LineStart, []string{"0", "home"}},
		{"AddCursorBelow uses J", Playground.AddCursorBelow, []string{"J", "alt+down"}},
		{"Redo uses ctrl+r", Playground.Redo, []string{"ctrl+r"}},
		{"Quit uses ctrl+c and q", Playground.Quit, []string{"ctrl+c", "q"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

// The editor grammar owns these keys; a binding on them would shadow it.
func TestPlayground_NoGrammarConflicts(t *testing.T) {
	grammar := map[string]bool{
		"v": true, "d": true, "c": true, "y": true, "i": true, "a": true, "u": true,
		"1": true, "2": true, "3": true, "4": true, "5": true, "6": true, "7": true, "8": true, "9": true,
	}
	for _, group := range Playground.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				require.False(t, grammar[k], "key %q is part of the editor grammar", k)
			}
		}
	}
}

func TestPlayground_HelpText(t *testing.T) {
	for _, group := range Playground.FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
	require.Len(t, Playground.ShortHelp(), 2)
}
