package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/chatnary/chatnary/internal/library"
	"github.com/chatnary/chatnary/internal/theme"
)

// Viewer renders the open document in a scrollable viewport. Markdown is
// rendered with glamour and re-wrapped whenever the width changes.
type Viewer struct {
	viewport viewport.Model
	renderer *glamour.TermRenderer
	wrap     int // word wrap the renderer was built for
	rendered int // width of the last render
	hold     bool
	path     string
	content  []byte
	plain    []string // rendered lines with escape sequences removed
	width    int
	height   int
	focused  bool
	theme    *theme.Theme
}

func NewViewer(th *theme.Theme) Viewer {
	return Viewer{
		viewport: viewport.New(0, 0),
		theme:    th,
	}
}

// SetDocument replaces the displayed document and scrolls to the top.
func (v *Viewer) SetDocument(path string, content []byte) {
	v.path = path
	v.content = content
	v.render()
	v.viewport.GotoTop()
}

// Clear closes the current document.
func (v *Viewer) Clear() {
	v.path = ""
	v.content = nil
	v.plain = nil
	v.viewport.SetContent("")
}

// Path returns the open document's path, or "" when none is open.
func (v Viewer) Path() string {
	return v.path
}

// ScrollTo makes line the first visible line.
func (v *Viewer) ScrollTo(line int) {
	v.viewport.SetYOffset(line)
}

// YOffset returns the first visible line.
func (v Viewer) YOffset() int {
	return v.viewport.YOffset
}

func (v *Viewer) render() {
	if v.path == "" || v.width <= 0 {
		return
	}

	var out string
	if library.IsMarkdown(v.path) {
		r, err := v.markdownRenderer()
		if err == nil {
			out, err = r.Render(string(v.content))
		}
		if err != nil {
			out = ""
		}
	}
	if out == "" {
		out = lipgloss.NewStyle().Width(v.width).Padding(0, 1).Render(string(v.content))
	}

	out = strings.TrimRight(out, "\n")
	lines := strings.Split(out, "\n")
	v.plain = make([]string, len(lines))
	for i, l := range lines {
		v.plain[i] = ansi.Strip(l)
	}

	offset := v.viewport.YOffset
	v.viewport.SetContent(out)
	v.viewport.SetYOffset(offset)
	v.rendered = v.width
}

func (v *Viewer) markdownRenderer() (*glamour.TermRenderer, error) {
	wrap := max(v.width-4, 10)
	if v.renderer != nil && v.wrap == wrap {
		return v.renderer, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.DarkStyleConfig),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	v.renderer = r
	v.wrap = wrap
	return r, nil
}

// GotoHeading scrolls so the heading with the given text is the first
// visible line. It reports whether the heading was found.
func (v *Viewer) GotoHeading(text string) bool {
	want := strings.TrimSpace(text)
	if want == "" {
		return false
	}

	line := -1
	for i, l := range v.plain {
		if headingText(l) == want {
			line = i
			break
		}
	}
	if line < 0 {
		for i, l := range v.plain {
			if strings.Contains(l, want) {
				line = i
				break
			}
		}
	}
	if line < 0 {
		return false
	}

	v.viewport.SetYOffset(line)
	return true
}

func headingText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
}

func (v Viewer) Update(msg tea.Msg) (Viewer, tea.Cmd) {
	switch msg.(type) {
	case tea.KeyMsg:
		if !v.focused {
			return v, nil
		}
	case tea.MouseMsg:
	default:
		return v, nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v Viewer) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}

	if v.path == "" {
		msg := lipgloss.NewStyle().Foreground(v.theme.Dim).Render("No document open")
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
	}

	hint := ""
	if v.viewport.TotalLineCount() > v.viewport.Height {
		hint = fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100)
	}
	return header(v.theme, v.path, hint, v.focused, v.width) + "\n" + v.viewport.View()
}

// SetSize resizes the viewer, re-rendering when the width changed unless
// reflow is held.
func (v *Viewer) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-1, 0)
	if !v.hold && width != v.rendered {
		v.render()
	}
}

// HoldReflow keeps the current wrapping while hold is set, as during a panel
// drag. Releasing it re-renders once if the width moved in the meantime.
func (v *Viewer) HoldReflow(hold bool) {
	v.hold = hold
	if !hold && v.width != v.rendered {
		v.render()
	}
}

func (v *Viewer) SetFocused(focused bool) {
	v.focused = focused
}
