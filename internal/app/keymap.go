package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global bindings. Pane-local keys (j/k, enter, /) are
// handled by the panes themselves.
type keyMap struct {
	Quit        key.Binding
	Search      key.Binding
	NextFocus   key.Binding
	PrevFocus   key.Binding
	FocusLeft   key.Binding
	FocusRight  key.Binding
	ToggleLeft  key.Binding
	ToggleRight key.Binding
	ShrinkLeft  key.Binding
	GrowLeft    key.Binding
	GrowRight   key.Binding
	ShrinkRight key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+p", "ctrl+f"),
			key.WithHelp("ctrl+p", "search"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
		),
		FocusLeft: key.NewBinding(
			key.WithKeys("ctrl+h"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("ctrl+l"),
		),
		ToggleLeft: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "docs"),
		),
		ToggleRight: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "outline"),
		),
		ShrinkLeft: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[ ]", "resize left"),
		),
		GrowLeft: key.NewBinding(
			key.WithKeys("]"),
		),
		GrowRight: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{ }", "resize right"),
		),
		ShrinkRight: key.NewBinding(
			key.WithKeys("}"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextFocus, k.ToggleLeft, k.ToggleRight, k.ShrinkLeft, k.GrowRight, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.NextFocus, k.PrevFocus, k.FocusLeft, k.FocusRight},
		{k.ToggleLeft, k.ToggleRight},
		{k.ShrinkLeft, k.GrowLeft, k.GrowRight, k.ShrinkRight},
		{k.Quit},
	}
}
