package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chatnary/chatnary/internal/theme"
)

// FinderItem is one search hit. Heading, when set, is the section of the
// document the hit points into.
type FinderItem struct {
	Title   string
	Path    string
	Heading string
}

func (it FinderItem) location() string {
	if it.Heading == "" {
		return it.Path
	}
	return it.Path + " # " + it.Heading
}

// FinderResultMsg is sent when a hit is chosen.
type FinderResultMsg struct {
	Path    string
	Heading string
}

// FinderClosedMsg is sent when the finder is dismissed without a choice.
type FinderClosedMsg struct{}

// SearchFunc returns the hits for query.
type SearchFunc func(query string) []FinderItem

type finderKeys struct {
	Open  key.Binding
	Close key.Binding
	Up    key.Binding
	Down  key.Binding
}

var defaultFinderKeys = finderKeys{
	Open:  key.NewBinding(key.WithKeys("enter")),
	Close: key.NewBinding(key.WithKeys("esc")),
	Up:    key.NewBinding(key.WithKeys("up", "ctrl+p", "ctrl+k")),
	Down:  key.NewBinding(key.WithKeys("down", "ctrl+n", "ctrl+j")),
}

// Finder is the full-text search overlay. Each hit takes two rows: the
// document title and its location.
type Finder struct {
	input    textinput.Model
	keys     finderKeys
	items    []FinderItem
	cursor   int
	offset   int
	width    int
	height   int
	visible  bool
	searchFn SearchFunc
	theme    *theme.Theme
}

func NewFinder(th *theme.Theme) Finder {
	ti := textinput.New()
	ti.Placeholder = "Search documents (tag:name filters)"
	ti.Prompt = "/ "
	ti.CharLimit = 256

	return Finder{input: ti, keys: defaultFinderKeys, theme: th}
}

func (f *Finder) SetSearchFunc(fn SearchFunc) {
	f.searchFn = fn
}

// Show opens the overlay with an empty query and whatever the search
// function offers for it.
func (f *Finder) Show() {
	f.visible = true
	f.input.SetValue("")
	f.input.Focus()
	f.setItems(nil)
	if f.searchFn != nil {
		f.setItems(f.searchFn(""))
	}
}

func (f *Finder) Hide() {
	f.visible = false
	f.input.Blur()
}

func (f Finder) Visible() bool {
	return f.visible
}

func (f *Finder) setItems(items []FinderItem) {
	f.items = items
	f.cursor = 0
	f.offset = 0
}

// pageSize is how many hits fit in the overlay.
func (f Finder) pageSize() int {
	return max((f.height/2-6)/2, 3)
}

func (f *Finder) move(delta int) {
	if len(f.items) == 0 {
		return
	}
	f.cursor = max(0, min(f.cursor+delta, len(f.items)-1))
	f.offset = scroll(f.cursor, f.offset, f.pageSize())
}

func (f Finder) Update(msg tea.Msg) (Finder, tea.Cmd) {
	if !f.visible {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.keys.Close):
			f.Hide()
			return f, func() tea.Msg { return FinderClosedMsg{} }

		case key.Matches(msg, f.keys.Open):
			if f.cursor >= len(f.items) {
				return f, nil
			}
			item := f.items[f.cursor]
			f.Hide()
			return f, func() tea.Msg {
				return FinderResultMsg{Path: item.Path, Heading: item.Heading}
			}

		case key.Matches(msg, f.keys.Up):
			f.move(-1)
			return f, nil

		case key.Matches(msg, f.keys.Down):
			f.move(1)
			return f, nil
		}
	}

	prev := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if query := f.input.Value(); query != prev && f.searchFn != nil {
		f.setItems(f.searchFn(query))
	}
	return f, cmd
}

func (f Finder) View() string {
	if !f.visible {
		return ""
	}
	th := f.theme

	width := f.width
	if width == 0 {
		width = 60
	}
	inner := width - 4

	title := lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Render("Search")
	dim := lipgloss.NewStyle().Foreground(th.Dim)
	if n := len(f.items); n > 0 {
		title += dim.Render(fmt.Sprintf("  %d/%d", f.cursor+1, n))
	}

	lines := []string{title, f.input.View(), ""}

	query := strings.TrimSpace(f.input.Value())
	switch {
	case len(f.items) == 0 && query == "":
		lines = append(lines, dim.Render("Type to search"))
	case len(f.items) == 0:
		lines = append(lines, dim.Render("No results"))
	default:
		end := min(f.offset+f.pageSize(), len(f.items))
		for i := f.offset; i < end; i++ {
			lines = append(lines, f.renderItem(f.items[i], i == f.cursor, query, inner)...)
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(0, 1).
		Width(inner)
	return box.Render(strings.Join(lines, "\n"))
}

func (f Finder) renderItem(it FinderItem, selected bool, query string, width int) []string {
	th := f.theme
	marker := "  "
	titleStyle := lipgloss.NewStyle().Foreground(th.Text)
	if selected {
		marker = "> "
		titleStyle = titleStyle.Foreground(th.Accent).Bold(true)
	}

	title := it.Title
	if title == "" {
		title = it.Path
	}
	hit := lipgloss.NewStyle().Underline(true)
	first := marker + highlightWords(title, query, titleStyle, titleStyle.Inherit(hit))
	second := "  " + lipgloss.NewStyle().Foreground(th.Dim).Render(it.location())

	return []string{truncate(first, width), truncate(second, width)}
}

// highlightWords renders s with every case-insensitive occurrence of a query
// word in match style and the rest in base style.
func highlightWords(s, query string, base, match lipgloss.Style) string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return base.Render(s)
	}

	lower := strings.ToLower(s)
	if len(lower) != len(s) {
		return base.Render(s)
	}
	marked := make([]bool, len(s))
	for _, w := range words {
		for from := 0; ; {
			i := strings.Index(lower[from:], w)
			if i < 0 {
				break
			}
			for j := from + i; j < from+i+len(w); j++ {
				marked[j] = true
			}
			from += i + len(w)
		}
	}

	var b strings.Builder
	start := 0
	for i := 1; i <= len(s); i++ {
		if i < len(s) && marked[i] == marked[start] {
			continue
		}
		style := base
		if marked[start] {
			style = match
		}
		b.WriteString(style.Render(s[start:i]))
		start = i
	}
	return b.String()
}

func (f *Finder) SetSize(width, height int) {
	f.width = width
	f.height = height
	f.input.Width = max(width-10, 10)
	f.offset = scroll(f.cursor, f.offset, f.pageSize())
}

// Items returns the current hits.
func (f Finder) Items() []FinderItem {
	return f.items
}
