package layout

// DragSession records one press-to-release resize gesture.
type DragSession struct {
	Side   Side
	StartX int
	// StartWidth is the rendered width at the press; pointer deltas apply
	// to it so the handle stays under the pointer.
	StartWidth int
	// Original is the stored width at the press.
	Original int
	// Limit is the widest the panel can render while the gesture lasts.
	Limit int
}

// Delta is the width change for a pointer at x. Moving toward the panel's
// outer edge is positive for both sides.
func (d DragSession) Delta(x int) int {
	if d.Side == Right {
		return d.StartX - x
	}
	return x - d.StartX
}

// Width is the target width for a pointer at x, capped at Limit but not yet
// clamped to the panel bounds.
func (d DragSession) Width(x int) int {
	return min(d.StartWidth+d.Delta(x), d.Limit)
}
