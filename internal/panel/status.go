package panel

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/chatnary/chatnary/internal/theme"
)

// Status is the status bar at the bottom.
type Status struct {
	width    int
	focus    string
	file     string
	library  string
	resizing string
	errMsg   string
	help     help.Model
	keys     help.KeyMap
	theme    *theme.Theme
}

func NewStatus(libraryDir string, keys help.KeyMap, th *theme.Theme) Status {
	h := help.New()
	h.ShortSeparator = "  "
	h.Styles.ShortKey = lipgloss.NewStyle().Background(th.StatusBg).Foreground(th.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Background(th.StatusBg).Foreground(th.Subtle)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Background(th.StatusBg)
	h.Styles.Ellipsis = lipgloss.NewStyle().Background(th.StatusBg).Foreground(th.Subtle)

	return Status{
		library: libraryDir,
		focus:   "DOCS",
		help:    h,
		keys:    keys,
		theme:   th,
	}
}

func (s *Status) SetFocus(focus string) {
	s.focus = strings.ToUpper(focus)
}

func (s *Status) SetFile(file string) {
	s.file = file
}

func (s *Status) SetWidth(width int) {
	s.width = width
}

// SetResizing shows label as the active resize indicator.
func (s *Status) SetResizing(label string) {
	s.resizing = label
}

func (s *Status) ClearResizing() {
	s.resizing = ""
}

func (s *Status) SetError(msg string) {
	s.errMsg = msg
}

func (s *Status) ClearError() {
	s.errMsg = ""
}

func (s Status) View() string {
	if s.width == 0 {
		return ""
	}
	th := s.theme

	bg := lipgloss.NewStyle().Background(th.StatusBg)
	text := bg.Foreground(th.StatusFg).Padding(0, 1)

	badge := lipgloss.NewStyle().
		Background(th.Accent).
		Foreground(th.StatusBg).
		Bold(true).
		Padding(0, 1)

	var section string
	if s.errMsg != "" {
		section = bg.Foreground(th.Error).Padding(0, 1).Render(s.errMsg)
	} else {
		file := s.file
		if file == "" {
			file = s.library
		}
		section = text.Render(file)
	}

	left := badge.Render(s.focus) + section
	if s.resizing != "" {
		resize := lipgloss.NewStyle().
			Background(th.HandleActive).
			Foreground(th.StatusBg).
			Bold(true).
			Padding(0, 1)
		left += resize.Render("↔ " + s.resizing)
	}

	h := s.help
	h.Width = max(s.width-lipgloss.Width(left)-2, 0)
	right := ""
	if h.Width > 0 {
		right = bg.Padding(0, 1).Render(h.View(s.keys))
	}

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		return truncate(left, s.width)
	}
	return left + bg.Render(strings.Repeat(" ", gap)) + right
}
