package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/chatnary/chatnary/internal/theme"
)

// header renders a panel title row. hint is right-aligned when it fits.
func header(th *theme.Theme, title, hint string, focused bool, width int) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if focused {
		style = style.Foreground(th.Accent).Underline(true)
	} else {
		style = style.Foreground(th.Subtle)
	}

	row := style.Render(title)
	if hint != "" {
		h := lipgloss.NewStyle().Foreground(th.Dim).Render(hint)
		if gap := width - lipgloss.Width(row) - lipgloss.Width(h) - 1; gap > 0 {
			row += strings.Repeat(" ", gap) + h
		}
	}
	return truncate(row, width)
}

// truncate cuts s to at most width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// pad right-pads s with spaces to width cells.
func pad(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// Rail renders a collapsed side panel: a column showing the first letter of
// label near the top.
func Rail(th *theme.Theme, label string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	letter := ""
	if label != "" {
		letter = strings.ToUpper(label[:1])
	}
	style := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		Foreground(th.Subtle).
		Bold(true)

	return style.Render("\n" + letter)
}

// scroll keeps cursor inside the window of rows starting at offset.
func scroll(cursor, offset, rows int) int {
	if rows <= 0 {
		return cursor
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+rows {
		return cursor - rows + 1
	}
	return offset
}
