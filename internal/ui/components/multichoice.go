package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/olympiadforge/forge/internal/ui/theme"
)

// Selector picks one of a fixed list of options, cycling with left/right.
type Selector struct {
	Label    string
	Options  []string
	Selected int
	focused  bool
}

// NewSelector creates a selector with the option equal to current
// selected, or the first option.
func NewSelector(label string, options []string, current string) Selector {
	s := Selector{Label: label, Options: options}
	for i, o := range options {
		if o == current {
			s.Selected = i
		}
	}
	return s
}

// Focus and Blur toggle keyboard handling.
func (s *Selector) Focus() { s.focused = true }
func (s *Selector) Blur()  { s.focused = false }

// Focused reports whether the selector has focus.
func (s Selector) Focused() bool { return s.focused }

// Value returns the selected option.
func (s Selector) Value() string {
	if len(s.Options) == 0 {
		return ""
	}
	return s.Options[s.Selected]
}

// Update cycles the selection on left/right while focused.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !s.focused || len(s.Options) == 0 {
		return s, nil
	}
	switch kmsg.String() {
	case "left", "h":
		s.Selected = (s.Selected - 1 + len(s.Options)) % len(s.Options)
	case "right", "l", "space":
		s.Selected = (s.Selected + 1) % len(s.Options)
	}
	return s, nil
}

// View renders "Label  ‹ value ›".
func (s Selector) View() string {
	label := theme.Label.Render(s.Label)
	value := lipgloss.NewStyle().Foreground(theme.Text).Render(s.Value())
	if s.focused {
		label = theme.Label.Foreground(theme.Primary).Render(s.Label)
		value = theme.Selected.Render("‹ " + s.Value() + " ›")
	}
	return label + value
}
