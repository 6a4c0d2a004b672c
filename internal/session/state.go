package session

import "github.com/chatnary/chatnary/internal/layout"

// Version is the state file format written by Save.
const Version = 1

// State represents persisted session state.
type State struct {
	// Version is zero for a state that was never saved.
	Version        int    `json:"version"`
	ActiveDocument string `json:"active_document,omitempty"`
	LeftWidth      int    `json:"left_width,omitempty"`
	RightWidth     int    `json:"right_width,omitempty"`
	LeftCollapsed  bool   `json:"left_collapsed"`
	RightCollapsed bool   `json:"right_collapsed"`
}

// Default returns the default session state. Zero widths mean "use the
// configured default".
func Default() State {
	return State{}
}

// Saved reports whether s came from a state file.
func (s State) Saved() bool {
	return s.Version > 0
}

// Apply overlays the saved panel geometry onto the configured panels. The
// saved widths only replace the default width; the bounds stay as configured.
// A saved collapse state replaces the configured one, so a panel expanded in
// the last session opens expanded.
func (s State) Apply(left, right *layout.PanelConfig) {
	if s.LeftWidth > 0 {
		left.DefaultWidth = s.LeftWidth
	}
	if s.RightWidth > 0 {
		right.DefaultWidth = s.RightWidth
	}
	if s.Saved() {
		left.Collapsed = s.LeftCollapsed
		right.Collapsed = s.RightCollapsed
	}
}

// Capture records the current geometry of g.
func Capture(g *layout.Geometry, activeDocument string) State {
	l, r := g.Panel(layout.Left), g.Panel(layout.Right)
	return State{
		Version:        Version,
		ActiveDocument: activeDocument,
		LeftWidth:      l.Width(),
		RightWidth:     r.Width(),
		LeftCollapsed:  l.Collapsed(),
		RightCollapsed: r.Collapsed(),
	}
}
