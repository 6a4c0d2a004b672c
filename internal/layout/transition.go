package layout

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
)

const (
	transitionFPS       = 60
	transitionFrequency = 8.0
	transitionDamping   = 1.0
)

// transitionTickMsg advances width transitions by one frame.
type transitionTickMsg struct{}

// spring animates one rendered width toward its target.
type spring struct {
	pos    float64
	vel    float64
	target float64
}

// transition animates the rendered side-panel widths after collapse and
// expand. Widths set while resizing snap instead of animating.
type transition struct {
	spring  harmonica.Spring
	left    spring
	right   spring
	ticking bool
}

func newTransition(left, right int) transition {
	return transition{
		spring: harmonica.NewSpring(harmonica.FPS(transitionFPS), transitionFrequency, transitionDamping),
		left:   spring{pos: float64(left), target: float64(left)},
		right:  spring{pos: float64(right), target: float64(right)},
	}
}

func (t *transition) side(s Side) *spring {
	if s == Right {
		return &t.right
	}
	return &t.left
}

// Snap jumps side to width with no animation.
func (t *transition) Snap(s Side, width int) {
	sp := t.side(s)
	sp.pos = float64(width)
	sp.vel = 0
	sp.target = float64(width)
}

// Animate retargets side. It returns a tick command when a new tick loop
// must be started.
func (t *transition) Animate(s Side, width int) tea.Cmd {
	t.side(s).target = float64(width)
	if t.ticking || t.settled() {
		return nil
	}
	t.ticking = true
	return tick()
}

// Step advances both springs one frame and returns the next tick, or nil once
// both have settled.
func (t *transition) Step() tea.Cmd {
	for _, sp := range []*spring{&t.left, &t.right} {
		sp.pos, sp.vel = t.spring.Update(sp.pos, sp.vel, sp.target)
		if math.Abs(sp.pos-sp.target) < 0.5 && math.Abs(sp.vel) < 0.5 {
			sp.pos = sp.target
			sp.vel = 0
		}
	}
	if t.settled() {
		t.ticking = false
		return nil
	}
	return tick()
}

// Width is the width to render for side this frame.
func (t *transition) Width(s Side) int {
	return int(math.Round(t.side(s).pos))
}

func (t *transition) settled() bool {
	return t.left.pos == t.left.target && t.right.pos == t.right.target
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/transitionFPS, func(time.Time) tea.Msg {
		return transitionTickMsg{}
	})
}
