package layout

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	w, err := NewWorkspace(
		PanelConfig{DefaultWidth: 30, MinWidth: 20, MaxWidth: 50, CollapsedWidth: 3},
		PanelConfig{DefaultWidth: 40, MinWidth: 30, MaxWidth: 70, CollapsedWidth: 3},
	)
	require.NoError(t, err)
	w.SetSize(160, 40)
	return w
}

func press(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone}
}

// settle runs transition ticks until the animation stops.
func settle(t *testing.T, w *Workspace) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		cmd, handled := w.Update(transitionTickMsg{})
		require.True(t, handled)
		if cmd == nil {
			return
		}
	}
	t.Fatal("transition did not settle")
}

func TestWorkspace_DragLeftHandle(t *testing.T) {
	w := newWorkspace(t)
	require.Equal(t, 30, w.Regions().LeftHandle)

	_, handled := w.Update(press(30))
	require.True(t, handled)
	side, dragging := w.Dragging()
	require.True(t, dragging)
	assert.Equal(t, Left, side)

	_, handled = w.Update(motion(40))
	assert.True(t, handled)
	assert.Equal(t, 40, w.Geometry().Panel(Left).Width())
	assert.Equal(t, 40, w.Regions().Left, "drag updates render without a transition")

	_, handled = w.Update(motion(90))
	assert.True(t, handled)
	assert.Equal(t, 50, w.Regions().Left, "clamped to max")

	cmd, handled := w.Update(release(90))
	assert.True(t, handled)
	require.NotNil(t, cmd)
	assert.Equal(t, ResizedMsg{Side: Left, Width: 50}, cmd())

	_, dragging = w.Dragging()
	assert.False(t, dragging)
}

func TestWorkspace_DragRightHandle(t *testing.T) {
	w := newWorkspace(t)
	x := w.Regions().RightHandle
	require.Equal(t, 119, x)

	_, handled := w.Update(press(x))
	require.True(t, handled)

	w.Update(motion(x - 10))
	assert.Equal(t, 50, w.Geometry().Panel(Right).Width())
	assert.Equal(t, 50, w.Regions().Right)

	w.Update(motion(x + 30))
	assert.Equal(t, 30, w.Geometry().Panel(Right).Width(), "clamped to min")
}

func TestWorkspace_DragFollowsPointerWhenSqueezed(t *testing.T) {
	w := newWorkspace(t)
	w.SetSize(70, 20)
	r := w.Regions()
	require.Equal(t, 38, r.Right, "right panel renders narrower than its stored 40")
	require.Equal(t, 31, r.RightHandle)

	_, handled := w.Update(press(31))
	require.True(t, handled)
	assert.Equal(t, 40, w.Geometry().Panel(Right).Width())

	w.Update(motion(33))
	assert.Equal(t, 36, w.Geometry().Panel(Right).Width())
	assert.Equal(t, 33, w.Regions().RightHandle, "handle stays under the pointer")

	w.Update(motion(29))
	assert.Equal(t, 38, w.Geometry().Panel(Right).Width(), "capped at the space on screen")
	assert.Equal(t, 31, w.Regions().RightHandle)

	cmd, handled := w.Update(release(29))
	assert.True(t, handled)
	require.NotNil(t, cmd)
	assert.Equal(t, ResizedMsg{Side: Right, Width: 38}, cmd())
}

func TestWorkspace_SqueezedReleaseWithoutMove(t *testing.T) {
	w := newWorkspace(t)
	w.SetSize(70, 20)

	w.Update(press(31))
	cmd, handled := w.Update(release(31))
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, 40, w.Geometry().Panel(Right).Width())
}

func TestWorkspace_NoDragBelowMinimumSpace(t *testing.T) {
	w := newWorkspace(t)
	w.SetSize(60, 20)
	require.Equal(t, 28, w.Regions().Right)

	_, handled := w.Update(press(w.Regions().RightHandle))
	assert.False(t, handled)
	_, dragging := w.Dragging()
	assert.False(t, dragging)
	assert.Equal(t, 40, w.Geometry().Panel(Right).Width())
}

func TestWorkspace_HitTargetWiderThanLine(t *testing.T) {
	w := newWorkspace(t)

	_, handled := w.Update(press(31))
	assert.True(t, handled)
	w.Update(release(31))

	_, handled = w.Update(press(33))
	assert.False(t, handled)
}

func TestWorkspace_ReleaseAnywhereEndsDrag(t *testing.T) {
	w := newWorkspace(t)

	w.Update(press(30))
	w.Update(motion(35))
	cmd, handled := w.Update(release(150))
	assert.True(t, handled)
	require.NotNil(t, cmd)
	assert.Equal(t, ResizedMsg{Side: Left, Width: 35}, cmd())

	_, handled = w.Update(motion(60))
	assert.False(t, handled, "stray motion after release goes to the panes")
	assert.Equal(t, 35, w.Geometry().Panel(Left).Width())
}

func TestWorkspace_ReleaseWithoutMove(t *testing.T) {
	w := newWorkspace(t)

	w.Update(press(30))
	cmd, handled := w.Update(release(30))
	assert.True(t, handled)
	assert.Nil(t, cmd, "no ResizedMsg when the width did not change")
	assert.Equal(t, 30, w.Geometry().Panel(Left).Width())
}

func TestWorkspace_IgnoresOtherButtons(t *testing.T) {
	w := newWorkspace(t)

	_, handled := w.Update(tea.MouseMsg{X: 30, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.False(t, handled)
	_, handled = w.Update(tea.MouseMsg{X: 30, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.False(t, handled)
	_, dragging := w.Dragging()
	assert.False(t, dragging)
}

func TestWorkspace_SecondPressDuringDragIsSwallowed(t *testing.T) {
	w := newWorkspace(t)

	w.Update(press(30))
	_, handled := w.Update(press(119))
	assert.True(t, handled)

	side, _ := w.Dragging()
	assert.Equal(t, Left, side)
	assert.False(t, w.Geometry().Panel(Right).Resizing())
}

func TestWorkspace_Hover(t *testing.T) {
	w := newWorkspace(t)

	_, handled := w.Update(tea.MouseMsg{X: 31, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.False(t, handled)
	assert.Equal(t, HandleHover, w.handleState(Left))
	assert.Equal(t, HandleIdle, w.handleState(Right))

	w.Update(tea.MouseMsg{X: 80, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.Equal(t, HandleIdle, w.handleState(Left))

	w.Update(press(30))
	assert.Equal(t, HandleActive, w.handleState(Left))
}

func TestWorkspace_BlurCancelsDrag(t *testing.T) {
	w := newWorkspace(t)

	w.Update(press(30))
	w.Update(motion(36))
	w.Update(tea.BlurMsg{})

	_, dragging := w.Dragging()
	assert.False(t, dragging)
	assert.Equal(t, 36, w.Geometry().Panel(Left).Width())

	_, handled := w.Update(motion(45))
	assert.False(t, handled)
	assert.Equal(t, 36, w.Geometry().Panel(Left).Width())
}

func TestWorkspace_CancelIsIdempotent(t *testing.T) {
	w := newWorkspace(t)

	assert.False(t, w.Cancel())
	w.Update(press(30))
	assert.True(t, w.Cancel())
	assert.False(t, w.Cancel())
}

func TestWorkspace_CollapseAnimatesAndRestores(t *testing.T) {
	w := newWorkspace(t)
	w.Update(press(30))
	w.Update(motion(42))
	w.Update(release(42))

	cmd := w.ToggleCollapsed(Left)
	require.NotNil(t, cmd, "collapse starts a transition")
	assert.Equal(t, -1, w.Regions().LeftHandle, "collapsed panel loses its handle at once")
	assert.Equal(t, 42, w.Regions().Left, "rendered width has not moved yet")

	settle(t, w)
	assert.Equal(t, 3, w.Regions().Left)
	assert.Equal(t, 42, w.Geometry().Panel(Left).Width())

	_, handled := w.Update(press(3))
	assert.False(t, handled, "collapsed panel cannot be dragged")

	require.NotNil(t, w.ToggleCollapsed(Left))
	settle(t, w)
	assert.Equal(t, 42, w.Regions().Left)
	assert.Equal(t, 42, w.Regions().LeftHandle)
}

func TestWorkspace_CollapseDraggedPanelCancelsDrag(t *testing.T) {
	w := newWorkspace(t)

	w.Update(press(119))
	w.SetCollapsed(Right, true)

	_, dragging := w.Dragging()
	assert.False(t, dragging)
	assert.Nil(t, w.SetCollapsed(Right, true), "no-op when already collapsed")
}

func TestWorkspace_KeyboardResize(t *testing.T) {
	w := newWorkspace(t)

	cmd := w.Resize(Left, 5)
	require.NotNil(t, cmd)
	assert.Equal(t, 35, w.Geometry().Panel(Left).Width())
	settle(t, w)
	assert.Equal(t, 35, w.Regions().Left)

	w.Resize(Right, 100)
	assert.Equal(t, 70, w.Geometry().Panel(Right).Width())
	assert.Nil(t, w.Resize(Right, 1), "already at max")

	w.SetCollapsed(Left, true)
	assert.Nil(t, w.Resize(Left, 1))

	w.Update(press(w.Regions().RightHandle))
	assert.Nil(t, w.Resize(Right, -5), "ignored during a drag")
}

func TestWorkspace_View(t *testing.T) {
	w := newWorkspace(t)

	view := w.View("docs", "viewer", "outline")
	assert.Equal(t, 160, lipgloss.Width(view))
	assert.Equal(t, 40, lipgloss.Height(view))
}
