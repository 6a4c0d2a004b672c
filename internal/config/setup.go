package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chatnary/chatnary/internal/library"
	"github.com/chatnary/chatnary/internal/theme"
)

const defaultLibrary = "~/chatnary"

// SetupResult is returned by RunSetup.
type SetupResult struct {
	LibraryPath string
	Cancelled   bool
}

var (
	setupConfirm = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm"))
	setupCancel  = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
)

// setupModel asks for the library directory on first start and previews
// what the chosen path holds.
type setupModel struct {
	input   textinput.Model
	theme   theme.Theme
	preview string
	err     error
	path    string
	quit    bool
}

func newSetupModel() setupModel {
	ti := textinput.New()
	ti.Placeholder = defaultLibrary
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	m := setupModel{input: ti, theme: theme.DefaultTheme()}
	m.preview = describeLibrary(m.resolved())
	return m
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

// resolved is the absolute path the current input names.
func (m setupModel) resolved() string {
	path := m.input.Value()
	if path == "" {
		path = defaultLibrary
	}
	path = ExpandHome(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, setupCancel):
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, setupConfirm):
			path := m.resolved()
			if err := validateLibraryPath(path); err != nil {
				m.err = err
				return m, nil
			}
			m.path = path
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	prev := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != prev {
		m.err = nil
		m.preview = describeLibrary(m.resolved())
	}
	return m, cmd
}

func (m setupModel) View() string {
	th := m.theme
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Render("Chatnary")
	dim := lipgloss.NewStyle().Foreground(th.Dim)

	s := "\n " + title + dim.Render("  first start") + "\n\n"
	s += " Documents are read from a library directory.\n\n"
	s += "   " + m.input.View() + "\n"
	s += "   " + dim.Render(m.preview) + "\n\n"

	if m.err != nil {
		s += " " + lipgloss.NewStyle().Foreground(th.Error).Render(m.err.Error()) + "\n\n"
	}

	s += " " + dim.Render(fmt.Sprintf("%s %s · %s %s",
		setupConfirm.Help().Key, setupConfirm.Help().Desc,
		setupCancel.Help().Key, setupCancel.Help().Desc)) + "\n"
	return s
}

// describeLibrary summarises what path currently holds.
func describeLibrary(path string) string {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return path + " will be created"
	case err != nil:
		return err.Error()
	case !info.IsDir():
		return path + " is a file"
	}
	docs, err := library.New(path).List()
	if err != nil {
		return err.Error()
	}
	switch len(docs) {
	case 0:
		return path + " is empty"
	case 1:
		return path + " holds 1 document"
	}
	return fmt.Sprintf("%s holds %d documents", path, len(docs))
}

// validateLibraryPath checks that a path is usable as a library directory:
// an existing directory, or a new one under an existing parent.
func validateLibraryPath(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", path)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	parent := filepath.Dir(path)
	pinfo, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("parent directory %s does not exist", parent)
	}
	if !pinfo.IsDir() {
		return fmt.Errorf("%s is not a directory", parent)
	}
	return nil
}

// RunSetup asks for the library path, creates the directory and records the
// choice in config.toml.
func RunSetup() (SetupResult, error) {
	final, err := tea.NewProgram(newSetupModel()).Run()
	if err != nil {
		return SetupResult{}, err
	}

	m, ok := final.(setupModel)
	if !ok {
		return SetupResult{}, errors.New("unexpected model type from setup")
	}
	if m.quit || m.path == "" {
		return SetupResult{Cancelled: true}, nil
	}

	if err := os.MkdirAll(m.path, 0755); err != nil {
		return SetupResult{}, fmt.Errorf("create library: %w", err)
	}
	if err := SaveFile(m.path); err != nil {
		return SetupResult{}, fmt.Errorf("save config: %w", err)
	}
	return SetupResult{LibraryPath: m.path}, nil
}
