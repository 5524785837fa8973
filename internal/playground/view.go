package playground

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/argnoun/internal/buffer"
	"github.com/zjrosen/argnoun/internal/editor"
)

const tabWidth = 4

var (
	gutterStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectionStyle = lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("255"))
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	messageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	modeStyles = map[editor.Mode]lipgloss.Style{
		editor.ModeNormal: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("110")),
		editor.ModeInsert: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("150")),
		editor.ModeVisual: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("176")),
	}
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderText())
	if m.showStatus {
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
	}
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

// renderText draws the visible lines with selections and cursors.
func (m Model) renderText() string {
	content := m.editor.Content()
	sels := m.editor.Selections()
	total := lineCount(content)
	gutter := len(fmt.Sprint(total))

	rows := make([]string, 0, m.textRows())
	for line := m.top; line < total && len(rows) < m.textRows(); line++ {
		start, end := lineBounds(content, line)
		num := gutterStyle.Render(fmt.Sprintf("%*d ", gutter, line+1))
		width := max(1, m.width-gutter-1)
		rows = append(rows, num+renderLine(content, start, end, sels, width))
	}
	return strings.Join(rows, "\n")
}

// renderLine styles content[start:end] cluster by cluster and truncates it to
// width cells.
func renderLine(content string, start, end int, sels []buffer.Region, width int) string {
	var b strings.Builder
	used := 0
	pt, state := start, -1
	rest := content[start:end]
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)

		shown := cluster
		if cluster == "\t" {
			shown = strings.Repeat(" ", tabWidth)
		}
		w := runewidth.StringWidth(shown)
		if used+w > width-1 && rest != "" {
			b.WriteString("…")
			return b.String()
		}
		used += w

		b.WriteString(styleAt(pt, sels).Render(shown))
		pt += len(cluster)
	}

	// A cursor at the line end is drawn on a blank cell.
	if isCursor(end, sels) && used < width {
		b.WriteString(cursorStyle.Render(" "))
	}
	return b.String()
}

// styleAt returns the style for the cluster starting at pt.
func styleAt(pt int, sels []buffer.Region) lipgloss.Style {
	if isCursor(pt, sels) {
		return cursorStyle
	}
	for _, r := range sels {
		s, e := r.Ordered()
		if pt >= s && pt < e {
			return selectionStyle
		}
	}
	return lipgloss.NewStyle()
}

// isCursor reports whether an empty selection sits at pt.
func isCursor(pt int, sels []buffer.Region) bool {
	for _, r := range sels {
		if r.Empty() && r.Anchor == pt {
			return true
		}
	}
	return false
}

// renderStatus draws mode, pending keys, primary position, cursor count,
// register preview, file and message.
func (m Model) renderStatus() string {
	mode := m.editor.Mode()
	parts := []string{
		modeStyles[mode].Render(" " + mode.String() + " "),
	}

	pos := buffer.PositionOf(m.editor.Content(), m.primary())
	info := pos.String()
	if n := len(m.editor.Selections()); n > 1 {
		info += fmt.Sprintf("  %d cursors", n)
	}
	if m.pending != "" {
		info += "  " + m.pending
	}
	if reg := m.editor.Register(); reg != "" {
		reg = strings.NewReplacer("\n", "⏎", "\t", "→").Replace(reg)
		info += "  \"" + runewidth.Truncate(reg, 24, "…") + "\""
	}
	if m.path != "" {
		name := m.path
		if m.Dirty() {
			name += " [+]"
		}
		info += "  " + name
	}
	parts = append(parts, statusStyle.Render(" "+info+" "))

	if m.message != "" {
		parts = append(parts, " "+messageStyle.Render(m.message))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
