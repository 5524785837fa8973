// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the playground keybindings that sit outside the editor's
// text-object grammar. Bindings only apply when no operator is pending.
type KeyMap struct {
	// Navigation
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	LineStart key.Binding
	LineEnd   key.Binding

	// Cursors
	AddCursorBelow key.Binding
	ClearCursors   key.Binding

	// General
	Escape       key.Binding
	Redo         key.Binding
	Save         key.Binding
	ToggleStatus key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// Playground is the default playground keymap.
var Playground = DefaultKeyMap()

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "move right"),
		),
		LineStart: key.NewBinding(
			key.WithKeys("0", "home"),
			key.WithHelp("0", "line start"),
		),
		LineEnd: key.NewBinding(
			key.WithKeys("$", "end"),
			key.WithHelp("$", "line end"),
		),

		AddCursorBelow: key.NewBinding(
			key.WithKeys("J", "alt+down"),
			key.WithHelp("J", "add cursor below"),
		),
		ClearCursors: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "keep primary cursor"),
		),

		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "normal mode"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "write file"),
		),
		ToggleStatus: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle status bar"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.LineStart, k.LineEnd}, // Navigation
		{k.AddCursorBelow, k.ClearCursors},                      // Cursors
		{k.Escape, k.Redo, k.Save, k.ToggleStatus, k.Help, k.Quit},
	}
}
