package components

import (
	"charm.land/lipgloss/v2"

	"github.com/olympiadforge/forge/internal/ui/theme"
)

// ContentWidth returns the inner width shared by stacked sections so their
// borders line up.
func ContentWidth(frameWidth int) int {
	// frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a double border centered in width x height.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Panel renders a titled rounded box of outer width w. A focused panel
// gets the primary border color.
func Panel(title, body string, w int, focused bool) string {
	style := theme.Card
	if focused {
		style = theme.FocusedCard
	}
	head := theme.Heading.Render(title)
	return style.Width(w).Render(head + "\n" + body)
}
