package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/chatnary/chatnary/internal/library"
	"github.com/chatnary/chatnary/internal/theme"
)

// DocumentSelectedMsg is sent when a document is chosen in the list.
type DocumentSelectedMsg struct {
	Path string
}

// docSource adapts documents to fuzzy.Source, matching on path.
type docSource []library.Document

func (s docSource) String(i int) string { return s[i].Path }
func (s docSource) Len() int            { return len(s) }

// DocList is the document list panel with an incremental fuzzy filter.
type DocList struct {
	docs      []library.Document
	visible   []int         // indexes into docs, in display order
	matched   map[int][]int // doc index -> matched byte offsets in its path
	filter    textinput.Model
	filtering bool
	cursor    int
	offset    int
	width     int
	height    int
	focused   bool
	theme     *theme.Theme
}

func NewDocList(th *theme.Theme) DocList {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.CharLimit = 128

	return DocList{
		filter: ti,
		theme:  th,
	}
}

// SetDocuments replaces the list, keeping the selected document when it is
// still present.
func (d *DocList) SetDocuments(docs []library.Document) {
	selected, ok := d.Selected()
	d.docs = docs
	d.refilter()
	if ok {
		d.Select(selected.Path)
	}
}

// Selected returns the document under the cursor.
func (d DocList) Selected() (library.Document, bool) {
	if d.cursor < 0 || d.cursor >= len(d.visible) {
		return library.Document{}, false
	}
	return d.docs[d.visible[d.cursor]], true
}

// Select moves the cursor to path if it is visible.
func (d *DocList) Select(path string) {
	for i, idx := range d.visible {
		if d.docs[idx].Path == path {
			d.cursor = i
			d.offset = scroll(d.cursor, d.offset, d.rows())
			return
		}
	}
}

// Filtering reports whether the filter input has focus.
func (d DocList) Filtering() bool {
	return d.filtering
}

func (d *DocList) refilter() {
	query := d.filter.Value()
	d.visible = make([]int, 0, len(d.docs))
	d.matched = nil

	if query == "" {
		for i := range d.docs {
			d.visible = append(d.visible, i)
		}
	} else {
		d.matched = make(map[int][]int)
		for _, m := range fuzzy.FindFrom(query, docSource(d.docs)) {
			d.visible = append(d.visible, m.Index)
			d.matched[m.Index] = m.MatchedIndexes
		}
	}

	if d.cursor >= len(d.visible) {
		d.cursor = len(d.visible) - 1
	}
	if d.cursor < 0 {
		d.cursor = 0
	}
	d.offset = scroll(d.cursor, min(d.offset, d.cursor), d.rows())
}

func (d DocList) Update(msg tea.Msg) (DocList, tea.Cmd) {
	if !d.focused {
		return d, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if !d.filtering {
			return d, nil
		}
		var cmd tea.Cmd
		d.filter, cmd = d.filter.Update(msg)
		return d, cmd
	}

	if d.filtering {
		return d.updateFilter(keyMsg)
	}

	switch keyMsg.String() {
	case "j", "down":
		d.move(1)
	case "k", "up":
		d.move(-1)
	case "g", "home":
		d.cursor = 0
		d.offset = 0
	case "G", "end":
		if len(d.visible) > 0 {
			d.cursor = len(d.visible) - 1
			d.offset = scroll(d.cursor, d.offset, d.rows())
		}
	case "enter":
		return d, d.open()
	case "/":
		d.filtering = true
		return d, d.filter.Focus()
	case "esc":
		if d.filter.Value() != "" {
			d.filter.SetValue("")
			d.refilter()
		}
	}
	return d, nil
}

func (d DocList) updateFilter(msg tea.KeyMsg) (DocList, tea.Cmd) {
	switch msg.String() {
	case "esc":
		d.filtering = false
		d.filter.Blur()
		d.filter.SetValue("")
		d.refilter()
		return d, nil
	case "enter":
		d.filtering = false
		d.filter.Blur()
		return d, d.open()
	case "down", "ctrl+n":
		d.move(1)
		return d, nil
	case "up", "ctrl+p":
		d.move(-1)
		return d, nil
	}

	prev := d.filter.Value()
	var cmd tea.Cmd
	d.filter, cmd = d.filter.Update(msg)
	if d.filter.Value() != prev {
		d.cursor = 0
		d.refilter()
	}
	return d, cmd
}

func (d *DocList) move(delta int) {
	next := d.cursor + delta
	if next < 0 || next >= len(d.visible) {
		return
	}
	d.cursor = next
	d.offset = scroll(d.cursor, d.offset, d.rows())
}

func (d DocList) open() tea.Cmd {
	doc, ok := d.Selected()
	if !ok {
		return nil
	}
	return func() tea.Msg { return DocumentSelectedMsg{Path: doc.Path} }
}

// Click selects and opens the row at y, relative to the panel's top edge.
func (d DocList) Click(y int) (DocList, tea.Cmd) {
	row := y - d.headerLines() + d.offset
	if y < d.headerLines() || row >= len(d.visible) {
		return d, nil
	}
	d.cursor = row
	return d, d.open()
}

func (d DocList) headerLines() int {
	if d.filtering || d.filter.Value() != "" {
		return 2
	}
	return 1
}

func (d DocList) rows() int {
	return max(d.height-d.headerLines(), 0)
}

func (d DocList) View() string {
	if d.width == 0 || d.height == 0 {
		return ""
	}
	th := d.theme

	var b strings.Builder
	count := fmt.Sprintf("%d", len(d.docs))
	if d.filter.Value() != "" {
		count = fmt.Sprintf("%d/%d", len(d.visible), len(d.docs))
	}
	b.WriteString(header(th, "Documents", count, d.focused, d.width))

	if d.headerLines() == 2 {
		b.WriteByte('\n')
		b.WriteString(truncate(" "+d.filter.View(), d.width))
	}

	if len(d.visible) == 0 {
		b.WriteByte('\n')
		msg := "No documents"
		if d.filter.Value() != "" {
			msg = "No matches"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(th.Dim).Padding(0, 1).Render(msg))
		return b.String()
	}

	rows := d.rows()
	for i := d.offset; i < len(d.visible) && i-d.offset < rows; i++ {
		idx := d.visible[i]
		line := " " + d.highlight(idx, i == d.cursor)
		line = pad(truncate(line, d.width), d.width)
		if i == d.cursor && d.focused {
			line = lipgloss.NewStyle().Background(th.Border).Render(line)
		}
		b.WriteByte('\n')
		b.WriteString(line)
	}

	return b.String()
}

// highlight renders a document path with fuzzy-matched characters emphasized.
func (d DocList) highlight(idx int, selected bool) string {
	path := d.docs[idx].Path
	base := lipgloss.NewStyle().Foreground(d.theme.Text)
	if selected && d.focused {
		base = base.Foreground(d.theme.Accent).Bold(true)
	}

	matched := d.matched[idx]
	if len(matched) == 0 {
		return base.Render(path)
	}

	hit := lipgloss.NewStyle().Foreground(d.theme.Accent).Underline(true)
	set := make(map[int]bool, len(matched))
	for _, m := range matched {
		set[m] = true
	}

	var b strings.Builder
	for i, r := range path {
		if set[i] {
			b.WriteString(hit.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func (d *DocList) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.filter.Width = max(width-4, 1)
	d.offset = scroll(d.cursor, d.offset, d.rows())
}

func (d *DocList) SetFocused(focused bool) {
	d.focused = focused
	if !focused && d.filtering {
		d.filtering = false
		d.filter.Blur()
	}
}
