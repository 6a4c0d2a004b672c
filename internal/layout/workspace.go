package layout

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ResizedMsg is sent when a resize gesture or keyboard resize changed a
// panel's stored width.
type ResizedMsg struct {
	Side  Side
	Width int
}

// Workspace is the three-region layout with draggable side-panel handles.
// The host feeds it every message first; while a drag is active it captures
// all mouse motion and release events, wherever the pointer is.
type Workspace struct {
	geo      *Geometry
	anim     transition
	regions  Regions
	width    int
	height   int
	hover    Side
	hovering bool
	styles   HandleStyles
}

// NewWorkspace validates both panel configs and builds the layout.
func NewWorkspace(left, right PanelConfig) (*Workspace, error) {
	geo, err := NewGeometry(left, right)
	if err != nil {
		return nil, err
	}
	w := &Workspace{
		geo:  geo,
		anim: newTransition(geo.left.ActualWidth(), geo.right.ActualWidth()),
		styles: HandleStyles{
			Idle:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			Hover:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Active: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
		},
	}
	w.relayout()
	return w, nil
}

func (w *Workspace) Geometry() *Geometry { return w.geo }

func (w *Workspace) Regions() Regions { return w.regions }

func (w *Workspace) SetStyles(s HandleStyles) { w.styles = s }

// SetSize sets the area available to the three regions.
func (w *Workspace) SetSize(width, height int) {
	w.width = width
	w.height = height
	w.relayout()
}

// Dragging reports the side whose handle is being dragged.
func (w *Workspace) Dragging() (Side, bool) {
	return w.geo.Dragging()
}

// Update handles mouse, focus and transition messages. handled is true when
// the message belongs to the workspace and must not reach the panes.
func (w *Workspace) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return w.handleMouse(msg)

	case transitionTickMsg:
		next := w.anim.Step()
		w.relayout()
		return next, true

	case tea.BlurMsg:
		// The release may never arrive once the terminal loses focus.
		w.Cancel()
	}
	return nil, false
}

func (w *Workspace) handleMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	side, dragging := w.geo.Dragging()

	switch msg.Action {
	case tea.MouseActionPress:
		if dragging {
			return nil, true
		}
		if msg.Button != tea.MouseButtonLeft {
			return nil, false
		}
		s, ok := w.regions.HitTest(msg.X)
		if !ok || !w.geo.BeginDragWithin(s, msg.X, w.dragLimit(s)) {
			return nil, false
		}
		w.anim.Snap(s, w.geo.Panel(s).ActualWidth())
		w.relayout()
		return nil, true

	case tea.MouseActionMotion:
		if !dragging {
			w.hover, w.hovering = w.regions.HitTest(msg.X)
			return nil, false
		}
		if w.geo.DragTo(msg.X) {
			w.anim.Snap(side, w.geo.Panel(side).ActualWidth())
			w.relayout()
		}
		return nil, true

	case tea.MouseActionRelease:
		if !dragging {
			return nil, false
		}
		d, _ := w.geo.EndDrag()
		w.hover, w.hovering = w.regions.HitTest(msg.X)
		width := w.geo.Panel(d.Side).Width()
		if width == d.Original {
			return nil, true
		}
		return resized(d.Side, width), true
	}
	return nil, false
}

// dragLimit is the widest side can render at the current size. The right
// panel gives way first, so it only gets what the left leaves.
func (w *Workspace) dragLimit(side Side) int {
	r := w.regions
	space := r.Left + r.Center + r.Right
	if side == Right {
		space -= r.Left
	}
	return space
}

// Cancel ends any active drag, keeping the width reached so far. It is safe
// to call at any time and must be called when the host is torn down.
func (w *Workspace) Cancel() bool {
	_, ok := w.geo.EndDrag()
	w.hovering = false
	return ok
}

// SetCollapsed collapses or expands side, animating the width change.
func (w *Workspace) SetCollapsed(side Side, collapsed bool) tea.Cmd {
	if w.geo.Panel(side).Collapsed() == collapsed {
		return nil
	}
	w.geo.SetCollapsed(side, collapsed)
	return w.animate(side)
}

// ToggleCollapsed flips side between collapsed and expanded.
func (w *Workspace) ToggleCollapsed(side Side) tea.Cmd {
	return w.SetCollapsed(side, !w.geo.Panel(side).Collapsed())
}

// Resize grows (delta > 0) or shrinks side's stored width within its bounds.
// It is ignored for collapsed panels and during a drag.
func (w *Workspace) Resize(side Side, delta int) tea.Cmd {
	if _, dragging := w.geo.Dragging(); dragging {
		return nil
	}
	p := w.geo.Panel(side)
	if !p.Resize(p.Width() + delta) {
		return nil
	}
	return tea.Batch(w.animate(side), resized(side, p.Width()))
}

func (w *Workspace) animate(side Side) tea.Cmd {
	cmd := w.anim.Animate(side, w.geo.Panel(side).ActualWidth())
	w.relayout()
	return cmd
}

// View renders the three region views side by side.
func (w *Workspace) View(left, center, right string) string {
	return w.regions.Render(left, center, right, w.styles, w.handleState(Left), w.handleState(Right))
}

func (w *Workspace) handleState(side Side) HandleState {
	if s, ok := w.geo.Dragging(); ok {
		if s == side {
			return HandleActive
		}
		return HandleIdle
	}
	if w.hovering && w.hover == side {
		return HandleHover
	}
	return HandleIdle
}

func (w *Workspace) relayout() {
	w.regions = Compute(
		w.width, w.height,
		w.anim.Width(Left), w.anim.Width(Right),
		!w.geo.left.Collapsed(), !w.geo.right.Collapsed(),
	)
}

func resized(side Side, width int) tea.Cmd {
	return func() tea.Msg { return ResizedMsg{Side: side, Width: width} }
}
