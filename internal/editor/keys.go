package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKeys is returned for key sequences with no command.
	ErrUnknownKeys = errors.New("unknown key sequence")
	// ErrIncompleteKeys is returned for a valid prefix of a command, such as
	// "d" or "2ci". Interactive callers keep buffering keys.
	ErrIncompleteKeys = errors.New("incomplete key sequence")
)

// Special key tokens.
const (
	KeyEscape    = "<esc>"
	KeyRedo      = "<c-r>"
	KeyEnter     = "<cr>"
	KeyTab       = "<tab>"
	KeyBackspace = "<bs>"
)

// argumentCommands maps an operator to a constructor for its argument
// text object command.
var argumentCommands = map[byte]func(argumentObject) Command{
	'v': func(o argumentObject) Command { return &SelectArgumentCommand{argumentObject: o} },
	'y': func(o argumentObject) Command { return &YankArgumentCommand{argumentObject: o} },
	'd': func(o argumentObject) Command { return &DeleteArgumentCommand{argumentObject: o} },
	'c': func(o argumentObject) Command {
		return &ChangeArgumentCommand{DeleteArgumentCommand{argumentObject: o}}
	},
}

// undoKey and redoKey are dispatched by the model rather than recorded.
type undoKey struct{ SelectBase }

func (undoKey) Execute(context.Context, *Model) ExecuteResult { return Skipped }
func (undoKey) Keys() string                                  { return "u" }
func (undoKey) Mode() Mode                                    { return ModeNormal }
func (undoKey) ID() string                                    { return "history.undo" }

type redoKey struct{ SelectBase }

func (redoKey) Execute(context.Context, *Model) ExecuteResult { return Skipped }
func (redoKey) Keys() string                                  { return KeyRedo }
func (redoKey) Mode() Mode                                    { return ModeNormal }
func (redoKey) ID() string                                    { return "history.redo" }

// ParseKeys parses one normal-mode command from the start of keys and
// returns it with the number of bytes consumed.
//
// Grammar: [count]{v,d,c,y}{i,a}a | u | <c-r> | <esc>. A count of zero or
// one means a single expansion.
func ParseKeys(keys string) (Command, int, error) {
	switch {
	case keys == "":
		return nil, 0, ErrIncompleteKeys
	case strings.HasPrefix(keys, KeyRedo):
		return redoKey{}, len(KeyRedo), nil
	case strings.HasPrefix(keys, KeyEscape):
		return &EscapeCommand{from: ModeVisual}, len(KeyEscape), nil
	case keys[0] == 'u':
		return undoKey{}, 1, nil
	}

	i := 0
	count := 0
	for i < len(keys) && keys[i] >= '0' && keys[i] <= '9' {
		if i == 0 && keys[i] == '0' {
			break
		}
		count = count*10 + int(keys[i]-'0')
		if count > 9999 {
			return nil, 0, fmt.Errorf("%w: count too large in %q", ErrUnknownKeys, keys)
		}
		i++
	}

	rest := keys[i:]
	if rest == "" {
		return nil, 0, fmt.Errorf("%w: %q", ErrIncompleteKeys, keys)
	}
	build, ok := argumentCommands[rest[0]]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownKeys, keys)
	}
	if len(rest) < 2 {
		return nil, 0, fmt.Errorf("%w: %q", ErrIncompleteKeys, keys)
	}

	var outer bool
	switch rest[1] {
	case 'i':
	case 'a':
		outer = true
	default:
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownKeys, keys[:i+2])
	}
	if len(rest) < 3 {
		return nil, 0, fmt.Errorf("%w: %q", ErrIncompleteKeys, keys)
	}
	if rest[2] != 'a' {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownKeys, keys[:i+3])
	}

	return build(argumentObject{outer: outer, count: max(1, count)}), i + 3, nil
}

// ParseInsertKeys parses insert-mode input: an <esc>, a <bs>, or a run of
// text up to the next of those. <cr> and <tab> stand for a newline and a tab.
// It always consumes at least one byte of non-empty keys.
func ParseInsertKeys(keys string) (Command, int) {
	switch {
	case strings.HasPrefix(keys, KeyEscape):
		return &EscapeCommand{from: ModeInsert}, len(KeyEscape)
	case strings.HasPrefix(keys, KeyBackspace):
		return &BackspaceCommand{}, len(KeyBackspace)
	}
	n := len(keys)
	for _, special := range []string{KeyEscape, KeyBackspace} {
		if i := strings.Index(keys, special); i >= 0 && i < n {
			n = i
		}
	}
	text := strings.NewReplacer(KeyEnter, "\n", KeyTab, "\t").Replace(keys[:n])
	return NewInsertTextCommand(text), n
}
