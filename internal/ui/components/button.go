package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/olympiadforge/forge/internal/ui/theme"
)

// Button is an action shown in a button row. Key is the shortcut shown
// next to the label.
type Button struct {
	Key      string
	Label    string
	Disabled bool
	// Busy replaces the label with BusyLabel while an action runs.
	Busy      bool
	BusyLabel string
}

// View renders the button.
func (b Button) View() string {
	switch {
	case b.Busy:
		label := b.BusyLabel
		if label == "" {
			label = b.Label + "…"
		}
		return theme.ButtonBusy.Render(label)
	case b.Disabled:
		return theme.ButtonInactive.Foreground(theme.TextDim).Render(b.caption())
	}
	return theme.ButtonInactive.Render(b.caption())
}

func (b Button) caption() string {
	if b.Key == "" {
		return b.Label
	}
	return "[" + b.Key + "] " + b.Label
}

// ButtonRow lays buttons out left to right, wrapping onto further rows
// when they do not fit in width.
func ButtonRow(buttons []Button, width int) string {
	var rows []string
	var row []string
	used := 0
	for _, b := range buttons {
		v := b.View()
		w := lipgloss.Width(v)
		if used > 0 && used+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, row...))
			row, used = nil, 0
		}
		row = append(row, v)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, row...))
	}
	return strings.Join(rows, "\n")
}
