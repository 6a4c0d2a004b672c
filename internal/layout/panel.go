package layout

// Side identifies one of the two resizable panels.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// RenderState is either Expanded or Collapsed.
type RenderState interface {
	renderState()
}

// Expanded panels render at Width.
type Expanded struct {
	Width int
}

// Collapsed panels render at the configured collapsed width. Width is the
// width the panel held before collapsing and is restored on expand.
type Collapsed struct {
	Width int
}

func (Expanded) renderState()  {}
func (Collapsed) renderState() {}

// Panel holds the geometry of one side panel.
type Panel struct {
	side     Side
	cfg      PanelConfig
	state    RenderState
	resizing bool
}

// NewPanel validates cfg and initializes the stored width from
// cfg.DefaultWidth.
func NewPanel(side Side, cfg PanelConfig) (*Panel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	width := Clamp(cfg.DefaultWidth, cfg.MinWidth, cfg.MaxWidth)
	p := &Panel{side: side, cfg: cfg}
	if cfg.Collapsed {
		p.state = Collapsed{Width: width}
	} else {
		p.state = Expanded{Width: width}
	}
	return p, nil
}

func (p *Panel) Side() Side { return p.side }

func (p *Panel) Config() PanelConfig { return p.cfg }

func (p *Panel) State() RenderState { return p.state }

// Width returns the stored width, which survives collapsing.
func (p *Panel) Width() int {
	switch s := p.state.(type) {
	case Expanded:
		return s.Width
	case Collapsed:
		return s.Width
	}
	return 0
}

// ActualWidth is the width the panel renders at.
func (p *Panel) ActualWidth() int {
	if _, ok := p.state.(Collapsed); ok {
		return p.cfg.CollapsedWidth
	}
	return p.Width()
}

func (p *Panel) Collapsed() bool {
	_, ok := p.state.(Collapsed)
	return ok
}

// SetCollapsed switches between the two render states without touching the
// stored width. Collapsing a panel that is being resized ends the resize.
func (p *Panel) SetCollapsed(collapsed bool) {
	width := p.Width()
	if collapsed {
		p.state = Collapsed{Width: width}
		p.resizing = false
		return
	}
	p.state = Expanded{Width: width}
}

// Resize stores width clamped to the configured bounds. Collapsed panels
// ignore it and return false.
func (p *Panel) Resize(width int) bool {
	if p.Collapsed() {
		return false
	}
	width = Clamp(width, p.cfg.MinWidth, p.cfg.MaxWidth)
	if width == p.Width() {
		return false
	}
	p.state = Expanded{Width: width}
	return true
}

func (p *Panel) Resizing() bool { return p.resizing }
