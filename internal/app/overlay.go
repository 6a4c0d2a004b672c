package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCenter draws overlay centered on top of base without breaking ANSI
// sequences in the base lines.
func overlayCenter(base, overlay string, width, height int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, lipgloss.Width(line))
	}

	startRow := max((height-len(overlayLines))/2, 0)
	startCol := max((width-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}

		baseLine := baseLines[row]
		if w := lipgloss.Width(baseLine); w < startCol {
			baseLine += strings.Repeat(" ", startCol-w)
		}

		left := ansi.Cut(baseLine, 0, startCol)
		right := ansi.Cut(baseLine, startCol+overlayWidth, width)

		baseLines[row] = ansi.Truncate(left+overlayLine+right, width, "")
	}

	return strings.Join(baseLines, "\n")
}
