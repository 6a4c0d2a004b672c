package layout

import (
	"fmt"
	"math"
)

// Geometry owns both side panels and the single active drag session.
type Geometry struct {
	left  *Panel
	right *Panel
	drag  *DragSession
}

func NewGeometry(left, right PanelConfig) (*Geometry, error) {
	l, err := NewPanel(Left, left)
	if err != nil {
		return nil, fmt.Errorf("left panel: %w", err)
	}
	r, err := NewPanel(Right, right)
	if err != nil {
		return nil, fmt.Errorf("right panel: %w", err)
	}
	return &Geometry{left: l, right: r}, nil
}

func (g *Geometry) Panel(side Side) *Panel {
	if side == Right {
		return g.right
	}
	return g.left
}

// BeginDrag starts a drag of side's handle with the pointer at x. It fails
// when the panel is collapsed or another drag is already active.
func (g *Geometry) BeginDrag(side Side, x int) bool {
	return g.BeginDragWithin(side, x, math.MaxInt)
}

// BeginDragWithin starts a drag of a panel that can render at most limit
// columns, as when a narrow terminal squeezes it below its stored width. The
// gesture measures from the rendered width and never stores more than limit.
// It also fails when limit is below the panel's minimum width.
func (g *Geometry) BeginDragWithin(side Side, x, limit int) bool {
	if g.drag != nil {
		return false
	}
	p := g.Panel(side)
	if p.Collapsed() || limit < p.Config().MinWidth {
		return false
	}
	g.drag = &DragSession{
		Side:       side,
		StartX:     x,
		StartWidth: min(p.Width(), limit),
		Original:   p.Width(),
		Limit:      limit,
	}
	p.resizing = true
	return true
}

// DragTo applies a pointer move. It reports whether the stored width changed
// and is a no-op without an active drag.
func (g *Geometry) DragTo(x int) bool {
	if g.drag == nil {
		return false
	}
	return g.Panel(g.drag.Side).Resize(g.drag.Width(x))
}

// EndDrag releases the active drag and returns it.
func (g *Geometry) EndDrag() (DragSession, bool) {
	if g.drag == nil {
		return DragSession{}, false
	}
	d := *g.drag
	g.drag = nil
	g.Panel(d.Side).resizing = false
	return d, true
}

// Dragging returns the side being dragged, if any.
func (g *Geometry) Dragging() (Side, bool) {
	if g.drag == nil {
		return Left, false
	}
	return g.drag.Side, true
}

// SetCollapsed collapses or expands side, ending a drag on that side.
func (g *Geometry) SetCollapsed(side Side, collapsed bool) {
	if collapsed {
		if s, ok := g.Dragging(); ok && s == side {
			g.EndDrag()
		}
	}
	g.Panel(side).SetCollapsed(collapsed)
}

// ToggleCollapsed flips side's render state and returns the new value.
func (g *Geometry) ToggleCollapsed(side Side) bool {
	collapsed := !g.Panel(side).Collapsed()
	g.SetCollapsed(side, collapsed)
	return collapsed
}
