package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBounds is returned when a panel's MinWidth exceeds its MaxWidth.
	ErrInvalidBounds = errors.New("min width exceeds max width")

	// ErrNegativeWidth is returned when any configured width is negative.
	ErrNegativeWidth = errors.New("negative width")
)

// PanelConfig describes the sizing of one resizable side panel.
type PanelConfig struct {
	DefaultWidth   int
	MinWidth       int
	MaxWidth       int
	Collapsed      bool
	CollapsedWidth int
}

// Validate rejects configurations the clamp cannot honor. A DefaultWidth
// outside [MinWidth, MaxWidth] is not an error; it is clamped on use.
func (c PanelConfig) Validate() error {
	widths := []struct {
		name string
		v    int
	}{
		{"default", c.DefaultWidth},
		{"min", c.MinWidth},
		{"max", c.MaxWidth},
		{"collapsed", c.CollapsedWidth},
	}
	for _, w := range widths {
		if w.v < 0 {
			return fmt.Errorf("%s width %d: %w", w.name, w.v, ErrNegativeWidth)
		}
	}
	if c.MinWidth > c.MaxWidth {
		return fmt.Errorf("min %d, max %d: %w", c.MinWidth, c.MaxWidth, ErrInvalidBounds)
	}
	return nil
}

// Clamp bounds width to [lo, hi]. It does not check lo <= hi.
func Clamp(width, lo, hi int) int {
	if width < lo {
		return lo
	}
	if width > hi {
		return hi
	}
	return width
}
