package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/chatnary/chatnary/internal/config"
	"github.com/chatnary/chatnary/internal/index"
	"github.com/chatnary/chatnary/internal/layout"
	"github.com/chatnary/chatnary/internal/library"
	"github.com/chatnary/chatnary/internal/panel"
	"github.com/chatnary/chatnary/internal/session"
	"github.com/chatnary/chatnary/internal/theme"
)

type focusArea int

const (
	focusDocs focusArea = iota
	focusViewer
	focusOutline
)

func (f focusArea) String() string {
	switch f {
	case focusViewer:
		return "viewer"
	case focusOutline:
		return "outline"
	}
	return "docs"
}

const (
	minWidth  = 40
	minHeight = 8
)

// App is the root model: a document list, viewer and outline arranged in a
// resizable workspace.
type App struct {
	cfg     config.Config
	logger  *log.Logger
	lib     *library.Library
	ws      *layout.Workspace
	docs    panel.DocList
	viewer  panel.Viewer
	outline panel.Outline
	finder  panel.Finder
	status  panel.Status
	keys    keyMap
	db      *index.DB
	indexer *index.Indexer
	watcher *index.Watcher
	store   *session.Store
	theme   theme.Theme
	width   int
	height  int
	focused focusArea

	// current is the open document's relative path.
	current string
	// restore is the document from the last session, opened once listed.
	restore string

	events    chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
	// err is the fatal error that ended the program, if any.
	err error
}

// New builds the app. It fails only when the panel configuration is
// invalid; a missing index degrades search and is reported in the status bar.
func New(cfg config.Config, logger *log.Logger) (*App, error) {
	store := session.NewStore(cfg.StateDir())
	state, err := store.Load()
	if err != nil {
		logger.Warn("load session", "err", err)
		state = session.Default()
	}

	left, right := cfg.Left, cfg.Right
	state.Apply(&left, &right)
	ws, err := layout.NewWorkspace(left, right)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		lib:     library.New(cfg.LibraryPath),
		ws:      ws,
		keys:    defaultKeyMap(),
		store:   store,
		theme:   theme.ByName(cfg.Theme),
		restore: state.ActiveDocument,
		events:  make(chan tea.Msg, 16),
		done:    make(chan struct{}),
	}
	a.docs = panel.NewDocList(&a.theme)
	a.viewer = panel.NewViewer(&a.theme)
	a.outline = panel.NewOutline(&a.theme)
	a.finder = panel.NewFinder(&a.theme)
	a.status = panel.NewStatus(cfg.LibraryPath, a.keys, &a.theme)
	a.ws.SetStyles(layout.HandleStyles{
		Idle:   lipgloss.NewStyle().Foreground(a.theme.Handle),
		Hover:  lipgloss.NewStyle().Foreground(a.theme.HandleHover),
		Active: lipgloss.NewStyle().Foreground(a.theme.HandleActive).Bold(true),
	})

	dbPath := filepath.Join(cfg.StateDir(), "index.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		a.status.SetError(fmt.Sprintf("state dir: %v", err))
	} else if db, err := index.Open(dbPath); err != nil {
		// Keep the app usable; only search depends on the index.
		logger.Error("open index", "path", dbPath, "err", err)
		a.status.SetError(fmt.Sprintf("index open failed: %v", err))
	} else {
		a.db = db
		a.indexer = index.NewIndexer(db, a.lib, logger)
		a.finder.SetSearchFunc(a.searchDocuments)
	}

	a.setFocus(focusDocs)
	return a, nil
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.listDocuments(), a.initIndex(), a.waitForEvent())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The finder overlay is modal for the mouse.
	if _, ok := msg.(tea.MouseMsg); ok && a.finder.Visible() {
		return a, nil
	}

	// The workspace sees messages first so an active drag owns the pointer.
	if cmd, handled := a.ws.Update(msg); handled {
		a.syncLayout()
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Some terminals send transient 0x0 sizes during live resizes; ignore them.
		if msg.Width <= 0 || msg.Height <= 0 {
			return a, nil
		}
		a.width = msg.Width
		a.height = msg.Height
		a.ws.SetSize(msg.Width, msg.Height-1)
		a.finder.SetSize(min(msg.Width-4, 80), msg.Height)
		a.syncLayout()
		return a, tea.ClearScreen

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tea.BlurMsg:
		// The workspace has already cancelled any drag.
		a.syncLayout()
		return a, nil

	case layout.ResizedMsg:
		a.logger.Debug("panel resized", "side", msg.Side, "width", msg.Width)
		return a, nil

	case documentsListedMsg:
		if msg.err != nil {
			a.status.SetError(msg.err.Error())
			return a, nil
		}
		a.docs.SetDocuments(msg.docs)
		if a.restore != "" {
			path := a.restore
			a.restore = ""
			for _, d := range msg.docs {
				if d.Path == path {
					a.docs.Select(path)
					return a, a.loadDocument(path, "")
				}
			}
		}
		return a, nil

	case documentLoadedMsg:
		return a, a.showDocument(msg)

	case panel.DocumentSelectedMsg:
		return a, a.loadDocument(msg.Path, "")

	case panel.OutlineSelectedMsg:
		a.viewer.GotoHeading(msg.Heading.Text)
		return a, nil

	case panel.FinderResultMsg:
		a.setFocus(focusViewer)
		a.docs.Select(msg.Path)
		return a, a.loadDocument(msg.Path, msg.Heading)

	case panel.FinderClosedMsg:
		return a, nil

	case indexInitDoneMsg:
		if msg.err != nil {
			// Fail fast and loud: indexing is a core feature.
			return a, a.fail(fmt.Errorf("indexing failed: %w", msg.err))
		}
		if err := a.startWatcher(); err != nil {
			return a, a.fail(err)
		}
		return a, nil

	case documentChangedMsg:
		cmds := []tea.Cmd{a.waitForEvent(), a.listDocuments()}
		if msg.path == a.current {
			cmds = append(cmds, a.reloadCurrent())
		}
		return a, tea.Batch(cmds...)

	case fatalErrorMsg:
		return a, a.fail(msg.err)
	}

	// Everything else (cursor blink, viewport internals) goes to the panes.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.docs, cmd = a.docs.Update(msg)
	cmds = append(cmds, cmd)
	a.finder, cmd = a.finder.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.Close()
		return tea.Quit
	}

	var cmd tea.Cmd
	if a.finder.Visible() {
		a.finder, cmd = a.finder.Update(msg)
		return cmd
	}

	// The filter input takes every key while it has focus.
	if a.focused == focusDocs && a.docs.Filtering() {
		a.docs, cmd = a.docs.Update(msg)
		return cmd
	}

	step := a.cfg.ResizeStep
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.Close()
		return tea.Quit
	case key.Matches(msg, a.keys.Search):
		a.ws.Cancel()
		a.finder.Show()
		return nil
	case key.Matches(msg, a.keys.NextFocus):
		a.cycleFocus(1)
		return nil
	case key.Matches(msg, a.keys.PrevFocus):
		a.cycleFocus(-1)
		return nil
	case key.Matches(msg, a.keys.FocusLeft):
		a.cycleFocus(-1)
		return nil
	case key.Matches(msg, a.keys.FocusRight):
		a.cycleFocus(1)
		return nil
	case key.Matches(msg, a.keys.ToggleLeft):
		return a.toggle(layout.Left)
	case key.Matches(msg, a.keys.ToggleRight):
		return a.toggle(layout.Right)
	case key.Matches(msg, a.keys.ShrinkLeft):
		return a.resize(layout.Left, -step)
	case key.Matches(msg, a.keys.GrowLeft):
		return a.resize(layout.Left, step)
	case key.Matches(msg, a.keys.GrowRight):
		return a.resize(layout.Right, step)
	case key.Matches(msg, a.keys.ShrinkRight):
		return a.resize(layout.Right, -step)
	}

	switch a.focused {
	case focusDocs:
		a.docs, cmd = a.docs.Update(msg)
	case focusViewer:
		a.viewer, cmd = a.viewer.Update(msg)
	case focusOutline:
		a.outline, cmd = a.outline.Update(msg)
	}
	return cmd
}

// handleMouse routes a mouse event the workspace did not claim to the pane
// under the pointer.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	r := a.ws.Regions()
	if msg.Y >= r.Height {
		return nil
	}

	press := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
	var cmd tea.Cmd

	switch r.Region(msg.X) {
	case layout.AreaLeft:
		if !press {
			return nil
		}
		if a.collapsed(layout.Left) {
			return a.toggle(layout.Left)
		}
		a.setFocus(focusDocs)
		a.docs, cmd = a.docs.Click(msg.Y)

	case layout.AreaCenter:
		if press {
			a.setFocus(focusViewer)
		}
		a.viewer, cmd = a.viewer.Update(msg)

	case layout.AreaRight:
		if !press {
			return nil
		}
		if a.collapsed(layout.Right) {
			return a.toggle(layout.Right)
		}
		a.setFocus(focusOutline)
		a.outline, cmd = a.outline.Click(msg.Y)
	}
	return cmd
}

func (a *App) showDocument(msg documentLoadedMsg) tea.Cmd {
	if msg.err != nil {
		if errors.Is(msg.err, fs.ErrNotExist) && msg.path == a.current {
			a.current = ""
			a.viewer.Clear()
			a.outline.SetHeadings(nil)
			a.status.SetFile("")
			return nil
		}
		a.status.SetError(msg.err.Error())
		return nil
	}

	reload := msg.path == a.current && msg.heading == ""
	offset := a.viewer.YOffset()

	a.current = msg.path
	a.status.ClearError()
	a.status.SetFile(msg.path)
	a.viewer.SetDocument(msg.path, msg.content)
	a.outline.SetHeadings(msg.headings)

	switch {
	case msg.heading != "":
		a.viewer.GotoHeading(msg.heading)
	case reload:
		a.viewer.ScrollTo(offset)
	}
	return tea.SetWindowTitle(a.Title())
}

func (a *App) reloadCurrent() tea.Cmd {
	if a.current == "" {
		return nil
	}
	return a.loadDocument(a.current, "")
}

func (a *App) toggle(side layout.Side) tea.Cmd {
	cmd := a.ws.ToggleCollapsed(side)
	if a.collapsed(side) && a.focused == areaFor(side) {
		a.setFocus(focusViewer)
	}
	a.syncLayout()
	return cmd
}

func (a *App) resize(side layout.Side, delta int) tea.Cmd {
	cmd := a.ws.Resize(side, delta)
	a.syncLayout()
	return cmd
}

func (a *App) collapsed(side layout.Side) bool {
	return a.ws.Geometry().Panel(side).Collapsed()
}

func areaFor(side layout.Side) focusArea {
	if side == layout.Right {
		return focusOutline
	}
	return focusDocs
}

// syncLayout pushes the workspace regions down to the panes.
func (a *App) syncLayout() {
	r := a.ws.Regions()
	a.docs.SetSize(r.Left, r.Height)
	side, dragging := a.ws.Dragging()
	a.viewer.SetSize(r.Center, r.Height)
	a.viewer.HoldReflow(dragging)
	a.outline.SetSize(r.Right, r.Height)
	a.status.SetWidth(a.width)

	if dragging {
		a.status.SetResizing(fmt.Sprintf("%s %d", side, a.ws.Geometry().Panel(side).Width()))
	} else {
		a.status.ClearResizing()
	}
}

func (a *App) cycleFocus(dir int) {
	next := a.focused
	for i := 0; i < 3; i++ {
		next = focusArea((int(next) + dir + 3) % 3)
		if next == focusViewer ||
			(next == focusDocs && !a.collapsed(layout.Left)) ||
			(next == focusOutline && !a.collapsed(layout.Right)) {
			break
		}
	}
	a.setFocus(next)
}

func (a *App) setFocus(target focusArea) {
	a.docs.SetFocused(target == focusDocs)
	a.viewer.SetFocused(target == focusViewer)
	a.outline.SetFocused(target == focusOutline)
	a.status.SetFocus(target.String())
	a.focused = target
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	if a.width < minWidth || a.height < minHeight {
		msg := fmt.Sprintf("Window too small (%dx%d)\nMinimum supported: %dx%d", a.width, a.height, minWidth, minHeight)
		box := lipgloss.NewStyle().Foreground(a.theme.Text).Render(msg)
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
	}

	r := a.ws.Regions()
	left := a.docs.View()
	if a.collapsed(layout.Left) {
		left = panel.Rail(&a.theme, "Documents", r.Left, r.Height)
	}
	right := a.outline.View()
	if a.collapsed(layout.Right) {
		right = panel.Rail(&a.theme, "Outline", r.Right, r.Height)
	}

	result := a.ws.View(left, a.viewer.View(), right) + "\n" + a.status.View()

	if a.finder.Visible() {
		if fv := a.finder.View(); fv != "" {
			result = overlayCenter(result, fv, a.width, a.height)
		}
	}
	return result
}

// Close ends any drag, saves the session and releases the index. It is safe
// to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.ws.Cancel()
		close(a.done)

		if a.store != nil {
			state := session.Capture(a.ws.Geometry(), a.current)
			if err := a.store.Save(state); err != nil {
				a.logger.Error("save session state", "err", err)
			}
		}
		if a.watcher != nil {
			if err := a.watcher.Stop(); err != nil {
				a.logger.Error("stop watcher", "err", err)
			}
		}
		if a.db != nil {
			if err := a.db.Close(); err != nil {
				a.logger.Error("close index", "err", err)
			}
		}
	})
}

// Err reports the error that made the app quit, or nil after a normal exit.
// Callers print it once the program has left the alternate screen.
func (a *App) Err() error {
	return a.err
}

func (a *App) fail(err error) tea.Cmd {
	a.logger.Error("fatal", "err", err)
	a.err = err
	a.Close()
	return tea.Quit
}

// Title is shown as the terminal window title.
func (a *App) Title() string {
	if a.current == "" {
		return "chatnary"
	}
	return "chatnary: " + strings.TrimSuffix(filepath.Base(a.current), filepath.Ext(a.current))
}
