package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatnary/chatnary/internal/config"
	"github.com/chatnary/chatnary/internal/layout"
	"github.com/chatnary/chatnary/internal/session"
)

const guideDoc = `# Guide

## Install

Run it.

## Drag handles

Drag the handle to resize.
`

func writeLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide.md"), []byte(guideDoc), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain notes"), 0644))
	return dir
}

func newTestApp(t *testing.T, dir string) *App {
	t.Helper()
	cfg := config.Default()
	cfg.LibraryPath = dir

	a, err := New(cfg, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	a.Update(tea.WindowSizeMsg{Width: 160, Height: 41})
	drain(t, a, a.listDocuments())
	return a
}

// drain runs cmd and feeds every resulting message back into the app until
// no commands remain.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for i := 0; len(queue) > 0; i++ {
		require.Less(t, i, 2000, "command loop did not settle")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := run(next)
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		_, c := a.Update(msg)
		queue = append(queue, c)
	}
}

// run executes cmd, giving up on commands that block, such as cursor blinks
// and the background event wait.
func run(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func update(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	drain(t, a, cmd)
}

func mouse(x, y int, action tea.MouseAction, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_OpensSelectedDocument(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))

	update(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "guide.md", a.viewer.Path())
	assert.Equal(t, "guide.md", a.current)
	assert.Len(t, a.outline.Headings(), 3)
}

func TestApp_DragLeftHandle(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))
	require.Equal(t, 30, a.ws.Regions().LeftHandle)

	update(t, a, mouse(30, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	update(t, a, mouse(45, 5, tea.MouseActionMotion, tea.MouseButtonLeft))
	assert.Equal(t, 45, a.ws.Regions().Left)
	assert.Contains(t, a.status.View(), "left 45")

	// Motion over the viewer during a drag never reaches the panes.
	update(t, a, mouse(80, 5, tea.MouseActionMotion, tea.MouseButtonLeft))
	assert.Equal(t, focusDocs, a.focused)
	assert.Equal(t, 50, a.ws.Geometry().Panel(layout.Left).Width(), "clamped to max")

	update(t, a, mouse(80, 5, tea.MouseActionRelease, tea.MouseButtonNone))
	_, dragging := a.ws.Dragging()
	assert.False(t, dragging)
	assert.NotContains(t, a.status.View(), "left 50")

	view := a.View()
	assert.Equal(t, 160, lipgloss.Width(view))
	assert.Equal(t, 41, lipgloss.Height(view))
}

func TestApp_BlurCancelsDrag(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))

	update(t, a, mouse(30, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	update(t, a, mouse(35, 5, tea.MouseActionMotion, tea.MouseButtonLeft))
	update(t, a, tea.BlurMsg{})

	_, dragging := a.ws.Dragging()
	assert.False(t, dragging)
	assert.Equal(t, 35, a.ws.Geometry().Panel(layout.Left).Width())
	assert.NotContains(t, a.status.View(), "left 35")
}

func TestApp_ToggleCollapse(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))
	require.Equal(t, focusDocs, a.focused)

	update(t, a, tea.KeyMsg{Type: tea.KeyCtrlB})

	assert.True(t, a.collapsed(layout.Left))
	assert.Equal(t, focusViewer, a.focused, "focus leaves the collapsed panel")
	assert.Equal(t, 3, a.ws.Regions().Left)
	assert.Equal(t, -1, a.ws.Regions().LeftHandle)

	a.cycleFocus(1)
	assert.Equal(t, focusOutline, a.focused)
	a.cycleFocus(1)
	assert.Equal(t, focusViewer, a.focused, "collapsed panel is skipped")

	// Clicking the rail expands the panel again.
	update(t, a, mouse(1, 3, tea.MouseActionPress, tea.MouseButtonLeft))
	assert.False(t, a.collapsed(layout.Left))
	assert.Equal(t, 30, a.ws.Regions().Left)
}

func TestApp_KeyboardResize(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))

	update(t, a, runes("]"))
	assert.Equal(t, 32, a.ws.Geometry().Panel(layout.Left).Width())
	assert.Equal(t, 32, a.ws.Regions().Left)

	update(t, a, runes("{"))
	assert.Equal(t, 42, a.ws.Geometry().Panel(layout.Right).Width())

	update(t, a, runes("}"))
	update(t, a, runes("}"))
	assert.Equal(t, 38, a.ws.Geometry().Panel(layout.Right).Width())
}

func TestApp_MouseRouting(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))

	update(t, a, mouse(80, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	assert.Equal(t, focusViewer, a.focused)

	update(t, a, mouse(5, 2, tea.MouseActionPress, tea.MouseButtonLeft))
	assert.Equal(t, focusDocs, a.focused)
	assert.Equal(t, "notes.txt", a.viewer.Path())

	update(t, a, mouse(5, 40, tea.MouseActionPress, tea.MouseButtonLeft))
	assert.Equal(t, "notes.txt", a.viewer.Path(), "status bar clicks are ignored")
}

func TestApp_SessionRoundTrip(t *testing.T) {
	dir := writeLibrary(t)

	a := newTestApp(t, dir)
	update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	update(t, a, mouse(30, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	update(t, a, mouse(40, 5, tea.MouseActionMotion, tea.MouseButtonLeft))
	update(t, a, mouse(40, 5, tea.MouseActionRelease, tea.MouseButtonNone))
	update(t, a, tea.KeyMsg{Type: tea.KeyCtrlO})
	a.Close()

	b := newTestApp(t, dir)
	assert.Equal(t, 40, b.ws.Regions().Left)
	assert.True(t, b.collapsed(layout.Right))
	assert.Equal(t, "guide.md", b.viewer.Path(), "last document is reopened")
}

func TestApp_CloseDuringDragSavesSession(t *testing.T) {
	dir := writeLibrary(t)
	a := newTestApp(t, dir)

	update(t, a, mouse(30, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	update(t, a, mouse(40, 5, tea.MouseActionMotion, tea.MouseButtonLeft))
	_, dragging := a.ws.Dragging()
	require.True(t, dragging)

	a.Close()

	_, dragging = a.ws.Dragging()
	assert.False(t, dragging)
	assert.False(t, a.ws.Geometry().Panel(layout.Left).Resizing())

	state, err := session.NewStore(a.cfg.StateDir()).Load()
	require.NoError(t, err)
	assert.True(t, state.Saved())
	assert.Equal(t, 40, state.LeftWidth, "width at teardown is kept")
	assert.Equal(t, 40, state.RightWidth)
}

func TestApp_SavedSessionExpandsConfiguredCollapse(t *testing.T) {
	dir := writeLibrary(t)
	cfg := config.Default()
	cfg.LibraryPath = dir
	cfg.Left.Collapsed = true

	store := session.NewStore(cfg.StateDir())
	require.NoError(t, store.Save(session.State{LeftWidth: 35}))

	a, err := New(cfg, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	a.Update(tea.WindowSizeMsg{Width: 160, Height: 41})

	assert.False(t, a.collapsed(layout.Left))
	assert.Equal(t, 35, a.ws.Regions().Left)
}

func TestApp_FatalErrorQuits(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))
	boom := errors.New("index vanished")

	_, cmd := a.Update(fatalErrorMsg{err: boom})
	require.NotNil(t, cmd)
	_, quit := run(cmd).(tea.QuitMsg)
	assert.True(t, quit)
	assert.ErrorIs(t, a.Err(), boom)

	state, err := session.NewStore(a.cfg.StateDir()).Load()
	require.NoError(t, err)
	assert.True(t, state.Saved(), "session is saved before quitting")
}

func TestApp_ErrNilAfterNormalQuit(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))

	_, cmd := a.Update(runes("q"))
	require.NotNil(t, cmd)
	_, quit := run(cmd).(tea.QuitMsg)
	assert.True(t, quit)
	assert.NoError(t, a.Err())
}

func TestApp_FinderOpensHeading(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))
	drain(t, a, a.initIndex())

	update(t, a, tea.KeyMsg{Type: tea.KeyCtrlP})
	require.True(t, a.finder.Visible())

	// Clicks are swallowed while the overlay is up.
	update(t, a, mouse(30, 5, tea.MouseActionPress, tea.MouseButtonLeft))
	_, dragging := a.ws.Dragging()
	assert.False(t, dragging)

	for _, r := range "drag" {
		update(t, a, runes(string(r)))
	}
	items := a.finder.Items()
	require.NotEmpty(t, items)
	assert.Equal(t, "guide.md", items[0].Path)
	assert.Equal(t, "Drag handles", items[0].Heading)

	update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, a.finder.Visible())
	assert.Equal(t, focusViewer, a.focused)
	assert.Equal(t, "guide.md", a.viewer.Path())
	assert.Equal(t, "chatnary: guide", a.Title())
}

func TestApp_FinderListsIndexBeforeTyping(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))
	drain(t, a, a.initIndex())

	update(t, a, tea.KeyMsg{Type: tea.KeyCtrlP})
	items := a.finder.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "guide.md", items[0].Path)
	assert.Equal(t, "Guide", items[0].Title)
	assert.Equal(t, "notes.txt", items[1].Path)

	update(t, a, tea.KeyMsg{Type: tea.KeyDown})
	update(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "notes.txt", a.viewer.Path())
}

func TestApp_QuitKeyTypedIntoFilter(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))

	update(t, a, runes("/"))
	_, cmd := a.Update(runes("q"))
	if cmd != nil {
		_, quit := run(cmd).(tea.QuitMsg)
		assert.False(t, quit, "q goes to the filter, not quit")
	}
	assert.True(t, a.docs.Filtering())
}

func TestApp_InvalidLayoutConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LibraryPath = t.TempDir()
	cfg.Left.MinWidth = 60

	_, err := New(cfg, log.New(io.Discard))
	assert.ErrorIs(t, err, layout.ErrInvalidBounds)
}

func TestApp_WindowTooSmall(t *testing.T) {
	a := newTestApp(t, writeLibrary(t))

	a.Update(tea.WindowSizeMsg{Width: 30, Height: 6})
	assert.Contains(t, a.View(), "Window too small")

	a.Update(tea.WindowSizeMsg{Width: 0, Height: 0})
	assert.Equal(t, 30, a.width, "zero sizes are ignored")
}

func TestOverlayCenter(t *testing.T) {
	base := "aaaaaaaaaa\naaaaaaaaaa\naaaaaaaaaa"
	got := overlayCenter(base, "XX", 10, 3)
	assert.Equal(t, "aaaaaaaaaa\naaaaXXaaaa\naaaaaaaaaa", got)
}
