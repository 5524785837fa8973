package editor

import "context"

// ExecuteResult indicates the outcome of command execution.
type ExecuteResult int

const (
	// Executed means the command ran and changed editor state.
	Executed ExecuteResult = iota
	// Skipped means pre-conditions weren't met (e.g. no cursor is inside an
	// argument list). State is unchanged.
	Skipped
)

// Command is an editor operation. Content-mutating commands are reversible
// and recorded in the model's CommandHistory.
type Command interface {
	// Execute applies the command to the model.
	Execute(ctx context.Context, m *Model) ExecuteResult

	// Undo reverses the command's effect.
	Undo(m *Model) error

	// Keys returns the key sequence that invokes this command, e.g. "daa".
	Keys() string

	// Mode returns the mode the command is valid in.
	Mode() Mode

	// ID returns a hierarchical identifier such as "delete.argument.outer".
	ID() string

	// IsUndoable returns true if the command is recorded in history.
	IsUndoable() bool

	// ChangesContent returns true if the command modifies the text.
	ChangesContent() bool
}

// ============================================================================
// Base structs for reducing boilerplate in Command implementations
// ============================================================================

// SelectBase is for commands that only move selections.
type SelectBase struct{}

func (SelectBase) Undo(*Model) error    { return nil }
func (SelectBase) IsUndoable() bool     { return false }
func (SelectBase) ChangesContent() bool { return false }

// EditBase is for commands that change the text.
type EditBase struct{}

func (EditBase) IsUndoable() bool     { return true }
func (EditBase) ChangesContent() bool { return true }

// ============================================================================
// CommandHistory
// ============================================================================

// CommandHistory is the undo/redo stack.
//
// undoIndex is -1 at the base state and otherwise points at the last applied
// command. Pushing after an undo discards the redo branch.
type CommandHistory struct {
	commands  []Command
	undoIndex int
}

// NewCommandHistory creates an empty command history.
func NewCommandHistory() *CommandHistory {
	return &CommandHistory{undoIndex: -1}
}

// Push records a command that has already been executed.
func (h *CommandHistory) Push(cmd Command) {
	h.commands = append(h.commands[:h.undoIndex+1], cmd)
	h.undoIndex = len(h.commands) - 1
}

// Undo reverses the last applied command. It reports whether there was one.
func (h *CommandHistory) Undo(m *Model) (bool, error) {
	if h.undoIndex < 0 {
		return false, nil
	}
	err := h.commands[h.undoIndex].Undo(m)
	h.undoIndex--
	return true, err
}

// Redo re-executes the next undone command. It reports whether there was one.
func (h *CommandHistory) Redo(ctx context.Context, m *Model) bool {
	if h.undoIndex >= len(h.commands)-1 {
		return false
	}
	h.undoIndex++
	_ = h.commands[h.undoIndex].Execute(ctx, m)
	return true
}

// CanUndo returns true if there are commands to undo.
func (h *CommandHistory) CanUndo() bool {
	return h.undoIndex >= 0
}

// CanRedo returns true if there are commands to redo.
func (h *CommandHistory) CanRedo() bool {
	return h.undoIndex < len(h.commands)-1
}

// Clear empties the history.
func (h *CommandHistory) Clear() {
	h.commands = h.commands[:0]
	h.undoIndex = -1
}
