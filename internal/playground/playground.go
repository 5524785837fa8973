// Package playground is an interactive terminal host for argument text
// objects: a small modal editor where via, daa, cia and friends can be tried
// on real files, with multiple cursors.
package playground

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/argnoun/internal/buffer"
	"github.com/zjrosen/argnoun/internal/editor"
	"github.com/zjrosen/argnoun/internal/keys"
	"github.com/zjrosen/argnoun/internal/log"
)

// Config configures a playground.
type Config struct {
	// Path is where ctrl+s writes. Empty disables saving.
	Path string
	// Content is the initial buffer.
	Content string
	// EditorOptions are passed to editor.New.
	EditorOptions []editor.Option
	// ShowStatusBar shows the status line on start.
	ShowStatusBar bool
	// WriteFile saves the buffer; defaults to os.WriteFile.
	WriteFile func(path string, data []byte) error
	// ReadFile reloads Path after an external change; defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
	// Changes signals that Path changed on disk. Nil disables reloading.
	Changes <-chan struct{}
}

// FileChangedMsg is delivered when the watched file changes on disk.
type FileChangedMsg struct{}

// Model holds the playground state.
type Model struct {
	editor    *editor.Model
	keys      keys.KeyMap
	help      help.Model
	path      string
	saved     string
	writeFile func(string, []byte) error
	readFile  func(string) ([]byte, error)
	changes   <-chan struct{}

	pending    string
	message    string
	showStatus bool
	showHelp   bool

	width  int
	height int
	top    int // first visible line
}

// New creates a playground model.
func New(cfg Config) Model {
	writeFile := cfg.WriteFile
	if writeFile == nil {
		writeFile = func(path string, data []byte) error {
			return os.WriteFile(path, data, 0644) // #nosec G306 -- user source file
		}
	}
	readFile := cfg.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	return Model{
		editor:     editor.New(cfg.Content, cfg.EditorOptions...),
		keys:       keys.Playground,
		help:       help.New(),
		path:       cfg.Path,
		saved:      cfg.Content,
		writeFile:  writeFile,
		readFile:   readFile,
		changes:    cfg.Changes,
		showStatus: cfg.ShowStatusBar,
		width:      80,
		height:     24,
	}
}

// Editor exposes the underlying editor model.
func (m Model) Editor() *editor.Model {
	return m.editor
}

// Dirty reports whether the buffer differs from what was loaded or saved.
func (m Model) Dirty() bool {
	return m.editor.Content() != m.saved
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the change channel and reports the next change.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return FileChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil

	case FileChangedMsg:
		m = m.reload()
		m.scrollToCursor()
		return m, m.waitForChange()

	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.editor.Mode() == editor.ModeInsert {
			m = m.handleInsertKey(msg)
		} else {
			m, cmd = m.handleNormalKey(msg)
		}
		m.scrollToCursor()
		return m, cmd
	}
	return m, nil
}

// handleInsertKey forwards typing to the editor.
func (m Model) handleInsertKey(msg tea.KeyMsg) Model {
	var seq string
	switch msg.Type {
	case tea.KeyEsc:
		seq = editor.KeyEscape
	case tea.KeyEnter:
		seq = editor.KeyEnter
	case tea.KeyTab:
		seq = editor.KeyTab
	case tea.KeyBackspace:
		seq = editor.KeyBackspace
	case tea.KeySpace:
		seq = " "
	case tea.KeyRunes:
		seq = string(msg.Runes)
	default:
		return m
	}
	return m.run(seq)
}

// handleNormalKey dispatches bindings when no operator is pending and
// otherwise accumulates keys for the text-object grammar.
func (m Model) handleNormalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.pending != "" && key.Matches(msg, m.keys.Escape) {
		m.pending = ""
		return m, nil
	}

	if m.pending == "" {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Escape):
			return m.run(editor.KeyEscape), nil
		case key.Matches(msg, m.keys.Redo):
			return m.run(editor.KeyRedo), nil
		case key.Matches(msg, m.keys.Save):
			return m.save(), nil
		case key.Matches(msg, m.keys.ToggleStatus):
			m.showStatus = !m.showStatus
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Left):
			return m.moveCursor(moveLeft), nil
		case key.Matches(msg, m.keys.Right):
			return m.moveCursor(moveRight), nil
		case key.Matches(msg, m.keys.Up):
			return m.moveCursor(func(s string, pt int) int { return moveVertical(s, pt, -1) }), nil
		case key.Matches(msg, m.keys.Down):
			return m.moveCursor(func(s string, pt int) int { return moveVertical(s, pt, 1) }), nil
		case key.Matches(msg, m.keys.LineStart):
			return m.moveCursor(lineStartOf), nil
		case key.Matches(msg, m.keys.LineEnd):
			return m.moveCursor(lineEndOf), nil
		case key.Matches(msg, m.keys.AddCursorBelow):
			return m.addCursorBelow(), nil
		case key.Matches(msg, m.keys.ClearCursors):
			m.editor.SetCursors(m.primary())
			return m, nil
		}
	}

	if msg.Type != tea.KeyRunes {
		m.pending = ""
		return m, nil
	}

	m.pending += string(msg.Runes)
	_, _, err := editor.ParseKeys(m.pending)
	switch {
	case errors.Is(err, editor.ErrIncompleteKeys):
		return m, nil
	case err != nil:
		m.message = err.Error()
		m.pending = ""
		return m, nil
	}

	seq := m.pending
	m.pending = ""
	return m.run(seq), nil
}

// run sends a key sequence to the editor and records the outcome.
func (m Model) run(seq string) Model {
	content, register, sels := m.editor.Content(), m.editor.Register(), m.editor.Selections()
	if err := m.editor.HandleKeys(context.Background(), seq); err != nil {
		m.message = err.Error()
		log.Warn(log.CatUI, "key sequence failed", "keys", seq, "error", err)
		return m
	}
	m.message = ""
	if isArgumentCommand(seq) && m.editor.Content() == content &&
		m.editor.Register() == register && slices.Equal(m.editor.Selections(), sels) {
		m.message = "no argument under cursor"
	}
	return m
}

func isArgumentCommand(seq string) bool {
	n := len(seq)
	return n >= 3 && seq[n-1] == 'a' && (seq[n-2] == 'i' || seq[n-2] == 'a')
}

func (m Model) save() Model {
	if m.path == "" {
		m.message = "no file to write"
		return m
	}
	content := m.editor.Content()
	if err := m.writeFile(m.path, []byte(content)); err != nil {
		m.message = fmt.Sprintf("write %s: %v", m.path, err)
		log.ErrorErr(log.CatUI, "write failed", err, "path", m.path)
		return m
	}
	m.saved = content
	m.message = fmt.Sprintf("wrote %s (%d bytes)", m.path, len(content))
	return m
}

// reload picks up an external change unless it would discard unsaved edits.
func (m Model) reload() Model {
	data, err := m.readFile(m.path)
	if err != nil {
		m.message = fmt.Sprintf("reload %s: %v", m.path, err)
		log.ErrorErr(log.CatUI, "reload failed", err, "path", m.path)
		return m
	}
	content := string(data)
	switch {
	case content == m.editor.Content():
		m.saved = content
	case m.Dirty():
		m.message = m.path + " changed on disk; ctrl+s overwrites it"
	default:
		m.editor.Reload(content)
		m.saved = content
		m.pending = ""
		m.message = "reloaded " + m.path
		log.Debug(log.CatUI, "reloaded file", "path", m.path, "bytes", len(content))
	}
	return m
}

// primary is the active end of the last selection.
func (m Model) primary() int {
	sels := m.editor.Selections()
	return sels[len(sels)-1].Active
}

// moveCursor collapses every selection to a cursor moved by fn.
func (m Model) moveCursor(fn func(s string, pt int) int) Model {
	content := m.editor.Content()
	sels := m.editor.Selections()
	pts := make([]int, len(sels))
	for i, r := range sels {
		pts[i] = fn(content, r.Active)
	}
	if m.editor.Mode() == editor.ModeVisual {
		m = m.run(editor.KeyEscape)
	}
	m.editor.SetCursors(pts...)
	return m
}

func (m Model) addCursorBelow() Model {
	content := m.editor.Content()
	pt := m.primary()
	below := moveVertical(content, pt, 1)
	if below == pt {
		return m
	}
	sels := append(m.editor.Selections(), buffer.Cursor(below))
	m.editor.SetSelections(sels)
	return m
}

// scrollToCursor keeps the primary cursor's line inside the viewport.
func (m *Model) scrollToCursor() {
	rows := m.textRows()
	line := buffer.PositionOf(m.editor.Content(), m.primary()).Line
	if line < m.top {
		m.top = line
	}
	if line >= m.top+rows {
		m.top = line - rows + 1
	}
}

// textRows is the number of rows left for the buffer.
func (m Model) textRows() int {
	rows := m.height - 1 // help line
	if m.showStatus {
		rows--
	}
	return max(1, rows)
}
