package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	// handleWidth is the visible width of a drag handle.
	handleWidth = 1

	// hitSlop is how many columns on either side of a handle still grab it.
	hitSlop = 1
)

// Regions is the computed horizontal geometry of one frame. Handle fields
// hold the column of the visible handle line, or -1 when there is none.
type Regions struct {
	Left        int
	Center      int
	Right       int
	LeftHandle  int
	RightHandle int
	Height      int
}

// Compute places the three regions in totalWidth columns. leftWidth and
// rightWidth are the widths to render, which may lag the stored widths while
// a transition runs. Collapsed panels get no handle. When the side panels do
// not fit, the right and then the left rendered width shrink; the center never
// goes below zero and every region stays inside totalWidth.
func Compute(totalWidth, height, leftWidth, rightWidth int, leftHandle, rightHandle bool) Regions {
	if totalWidth < 0 {
		totalWidth = 0
	}
	if height < 0 {
		height = 0
	}

	// Handles that do not fit are dropped, right first.
	if leftHandle && rightHandle && totalWidth < 2*handleWidth {
		rightHandle = false
	}
	if totalWidth < handleWidth {
		leftHandle, rightHandle = false, false
	}

	avail := totalWidth
	if leftHandle {
		avail -= handleWidth
	}
	if rightHandle {
		avail -= handleWidth
	}

	left := max(leftWidth, 0)
	right := max(rightWidth, 0)
	if left+right > avail {
		right = max(avail-left, 0)
	}
	if left > avail {
		left = avail
	}

	r := Regions{
		Left:        left,
		Right:       right,
		Center:      avail - left - right,
		LeftHandle:  -1,
		RightHandle: -1,
		Height:      height,
	}

	x := left
	if leftHandle {
		r.LeftHandle = x
		x += handleWidth
	}
	x += r.Center
	if rightHandle {
		r.RightHandle = x
	}
	return r
}

// CenterX is the first column of the center region.
func (r Regions) CenterX() int {
	if r.LeftHandle >= 0 {
		return r.Left + handleWidth
	}
	return r.Left
}

// RightX is the first column of the right region.
func (r Regions) RightX() int {
	x := r.CenterX() + r.Center
	if r.RightHandle >= 0 {
		x += handleWidth
	}
	return x
}

// HitTest returns the handle whose hit target contains column x. When both
// targets overlap the nearer handle wins.
func (r Regions) HitTest(x int) (Side, bool) {
	dl, dr := -1, -1
	if r.LeftHandle >= 0 && abs(x-r.LeftHandle) <= hitSlop {
		dl = abs(x - r.LeftHandle)
	}
	if r.RightHandle >= 0 && abs(x-r.RightHandle) <= hitSlop {
		dr = abs(x - r.RightHandle)
	}
	switch {
	case dl >= 0 && (dr < 0 || dl <= dr):
		return Left, true
	case dr >= 0:
		return Right, true
	}
	return Left, false
}

// Region reports which area column x falls in. Handle columns count as the
// adjacent side panel.
func (r Regions) Region(x int) Area {
	switch {
	case x < r.CenterX():
		return AreaLeft
	case x < r.CenterX()+r.Center:
		return AreaCenter
	default:
		return AreaRight
	}
}

// Area is one of the three rendered regions.
type Area int

const (
	AreaLeft Area = iota
	AreaCenter
	AreaRight
)

// HandleState selects the handle line style.
type HandleState int

const (
	HandleIdle HandleState = iota
	HandleHover
	HandleActive
)

// HandleStyles colors the handle line per state.
type HandleStyles struct {
	Idle   lipgloss.Style
	Hover  lipgloss.Style
	Active lipgloss.Style
}

func (s HandleStyles) style(state HandleState) lipgloss.Style {
	switch state {
	case HandleHover:
		return s.Hover
	case HandleActive:
		return s.Active
	}
	return s.Idle
}

// Render joins the three region views into one block of r.Height rows.
// Each view is cut or padded to its region's exact size.
func (r Regions) Render(left, center, right string, styles HandleStyles, leftState, rightState HandleState) string {
	if r.Height == 0 {
		return ""
	}

	var columns []string
	if r.Left > 0 {
		columns = append(columns, fit(left, r.Left, r.Height))
	}
	if r.LeftHandle >= 0 {
		columns = append(columns, handleColumn(styles.style(leftState), r.Height))
	}
	if r.Center > 0 {
		columns = append(columns, fit(center, r.Center, r.Height))
	}
	if r.RightHandle >= 0 {
		columns = append(columns, handleColumn(styles.style(rightState), r.Height))
	}
	if r.Right > 0 {
		columns = append(columns, fit(right, r.Right, r.Height))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func fit(view string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		MaxWidth(width).
		Height(height).
		MaxHeight(height).
		Render(view)
}

func handleColumn(style lipgloss.Style, height int) string {
	line := style.Render("│")
	return strings.TrimSuffix(strings.Repeat(line+"\n", height), "\n")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
