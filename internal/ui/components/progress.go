package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/olympiadforge/forge/internal/ui/theme"
)

// Segment is one share of a DistributionBar.
type Segment struct {
	Label string
	Count int
	Color color.Color
}

// DistributionBar renders counts as proportional colored blocks followed
// by a legend. With no counts at all it renders an empty track.
func DistributionBar(segments []Segment, width int) string {
	total := 0
	for _, s := range segments {
		total += s.Count
	}
	if width < 4 {
		width = 4
	}

	var bar strings.Builder
	if total == 0 {
		bar.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width)))
	} else {
		used := 0
		for i, s := range segments {
			n := s.Count * width / total
			if i == len(segments)-1 {
				n = width - used
			}
			used += n
			bar.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(strings.Repeat("█", n)))
		}
	}

	legend := make([]string, 0, len(segments))
	for _, s := range segments {
		legend = append(legend, lipgloss.NewStyle().Foreground(s.Color).Render(fmt.Sprintf("■ %s %d", s.Label, s.Count)))
	}
	return bar.String() + "\n" + strings.Join(legend, "  ")
}
