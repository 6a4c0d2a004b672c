package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines a color palette used by all TUI panels.
// Panels hold a *Theme pointer so switching themes is visible on the next
// View() call.
type Theme struct {
	Name     string
	Accent   lipgloss.Color
	Subtle   lipgloss.Color
	Text     lipgloss.Color
	Dim      lipgloss.Color
	Border   lipgloss.Color
	StatusBg lipgloss.Color
	StatusFg lipgloss.Color
	Error    lipgloss.Color

	// Drag handle line colors.
	Handle       lipgloss.Color
	HandleHover  lipgloss.Color
	HandleActive lipgloss.Color
}

var themes = map[string]Theme{
	"catppuccin": {
		Name:         "catppuccin",
		Accent:       lipgloss.Color("#cba6f7"),
		Subtle:       lipgloss.Color("#6c7086"),
		Text:         lipgloss.Color("#cdd6f4"),
		Dim:          lipgloss.Color("#585b70"),
		Border:       lipgloss.Color("#45475a"),
		StatusBg:     lipgloss.Color("#313244"),
		StatusFg:     lipgloss.Color("#cdd6f4"),
		Error:        lipgloss.Color("#f38ba8"),
		Handle:       lipgloss.Color("#45475a"),
		HandleHover:  lipgloss.Color("#7f849c"),
		HandleActive: lipgloss.Color("#89b4fa"),
	},
	"nord": {
		Name:         "nord",
		Accent:       lipgloss.Color("#88c0d0"),
		Subtle:       lipgloss.Color("#4c566a"),
		Text:         lipgloss.Color("#eceff4"),
		Dim:          lipgloss.Color("#434c5e"),
		Border:       lipgloss.Color("#3b4252"),
		StatusBg:     lipgloss.Color("#3b4252"),
		StatusFg:     lipgloss.Color("#eceff4"),
		Error:        lipgloss.Color("#bf616a"),
		Handle:       lipgloss.Color("#3b4252"),
		HandleHover:  lipgloss.Color("#4c566a"),
		HandleActive: lipgloss.Color("#81a1c1"),
	},
	"gruvbox": {
		Name:         "gruvbox",
		Accent:       lipgloss.Color("#d79921"),
		Subtle:       lipgloss.Color("#665c54"),
		Text:         lipgloss.Color("#ebdbb2"),
		Dim:          lipgloss.Color("#504945"),
		Border:       lipgloss.Color("#3c3836"),
		StatusBg:     lipgloss.Color("#3c3836"),
		StatusFg:     lipgloss.Color("#ebdbb2"),
		Error:        lipgloss.Color("#fb4934"),
		Handle:       lipgloss.Color("#3c3836"),
		HandleHover:  lipgloss.Color("#665c54"),
		HandleActive: lipgloss.Color("#83a598"),
	},
	"tokyo-night": {
		Name:         "tokyo-night",
		Accent:       lipgloss.Color("#7aa2f7"),
		Subtle:       lipgloss.Color("#565f89"),
		Text:         lipgloss.Color("#c0caf5"),
		Dim:          lipgloss.Color("#414868"),
		Border:       lipgloss.Color("#292e42"),
		StatusBg:     lipgloss.Color("#1f2335"),
		StatusFg:     lipgloss.Color("#c0caf5"),
		Error:        lipgloss.Color("#f7768e"),
		Handle:       lipgloss.Color("#292e42"),
		HandleHover:  lipgloss.Color("#565f89"),
		HandleActive: lipgloss.Color("#7aa2f7"),
	},
}

// DefaultTheme returns the default color palette (catppuccin).
func DefaultTheme() Theme {
	return themes["catppuccin"]
}

// ByName returns a theme by name, falling back to the default.
func ByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return DefaultTheme()
}

// Names lists the built-in theme names.
func Names() []string {
	return []string{"catppuccin", "gruvbox", "nord", "tokyo-night"}
}
