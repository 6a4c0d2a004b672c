package panel

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chatnary/chatnary/internal/markdown"
	"github.com/chatnary/chatnary/internal/theme"
)

// OutlineSelectedMsg is sent when a heading is chosen in the outline.
type OutlineSelectedMsg struct {
	Heading markdown.Heading
}

// Outline lists the headings of the open document.
type Outline struct {
	headings []markdown.Heading
	cursor   int
	offset   int
	width    int
	height   int
	focused  bool
	theme    *theme.Theme
}

func NewOutline(th *theme.Theme) Outline {
	return Outline{theme: th}
}

func (o *Outline) SetHeadings(headings []markdown.Heading) {
	o.headings = headings
	o.cursor = 0
	o.offset = 0
}

func (o Outline) Headings() []markdown.Heading {
	return o.headings
}

func (o Outline) Update(msg tea.Msg) (Outline, tea.Cmd) {
	if !o.focused {
		return o, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if o.cursor < len(o.headings)-1 {
			o.cursor++
		}
	case "k", "up":
		if o.cursor > 0 {
			o.cursor--
		}
	case "g", "home":
		o.cursor = 0
	case "G", "end":
		if len(o.headings) > 0 {
			o.cursor = len(o.headings) - 1
		}
	case "enter":
		return o, o.open()
	}
	o.offset = scroll(o.cursor, o.offset, o.rows())
	return o, nil
}

// Click selects the heading at y, relative to the panel's top edge.
func (o Outline) Click(y int) (Outline, tea.Cmd) {
	row := y - 1 + o.offset
	if y < 1 || row >= len(o.headings) {
		return o, nil
	}
	o.cursor = row
	return o, o.open()
}

func (o Outline) open() tea.Cmd {
	if o.cursor >= len(o.headings) {
		return nil
	}
	h := o.headings[o.cursor]
	return func() tea.Msg { return OutlineSelectedMsg{Heading: h} }
}

func (o Outline) rows() int {
	return max(o.height-1, 0)
}

func (o Outline) View() string {
	if o.width == 0 || o.height == 0 {
		return ""
	}
	th := o.theme

	var b strings.Builder
	b.WriteString(header(th, "Outline", "", o.focused, o.width))

	if len(o.headings) == 0 {
		b.WriteByte('\n')
		b.WriteString(lipgloss.NewStyle().Foreground(th.Dim).Padding(0, 1).Render("No headings"))
		return b.String()
	}

	rows := o.rows()
	for i := o.offset; i < len(o.headings) && i-o.offset < rows; i++ {
		h := o.headings[i]
		indent := strings.Repeat("  ", max(h.Level-1, 0))
		line := pad(truncate(" "+indent+h.Text, o.width), o.width)

		style := lipgloss.NewStyle().Foreground(th.Text)
		if h.Level == 1 {
			style = style.Bold(true)
		}
		if i == o.cursor && o.focused {
			style = style.Foreground(th.Accent).Background(th.Border)
		}
		b.WriteByte('\n')
		b.WriteString(style.Render(line))
	}

	return b.String()
}

func (o *Outline) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.offset = scroll(o.cursor, o.offset, o.rows())
}

func (o *Outline) SetFocused(focused bool) {
	o.focused = focused
}
