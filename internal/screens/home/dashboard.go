package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	lib "github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/mathtext"
	"github.com/olympiadforge/forge/internal/ui/components"
	"github.com/olympiadforge/forge/internal/ui/theme"
)

const homeTitleFull = `╔═╗╦  ╦ ╦╔╦╗╔═╗╦╔═╗╔╦╗  ╔═╗╔═╗╦═╗╔═╗╔═╗
║ ║║  ╚╦╝║║║╠═╝║╠═╣ ║║  ╠╣ ║ ║╠╦╝║ ╦║╣
╚═╝╩═╝ ╩ ╩ ╩╩  ╩╩ ╩═╩╝  ╚  ╚═╝╩╚═╚═╝╚═╝`

const homeTitleCompact = "O L Y M P I A D · F O R G E"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true)

	title := homeTitleFull
	if compact || cw < 46 {
		title = homeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderLibraryStats renders the status distribution in a double-border box.
func renderLibraryStats(counts map[lib.Status]int, cw int) string {
	segments := make([]components.Segment, 0, len(lib.Statuses))
	total := 0
	for _, st := range lib.Statuses {
		segments = append(segments, components.Segment{
			Label: string(st),
			Count: counts[st],
			Color: theme.StatusColor(string(st)),
		})
		total += counts[st]
	}

	head := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%d problem(s) in the library", total))
	bar := components.DistributionBar(segments, cw-6)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(head + "\n" + bar)
}

// renderRecent lists the most recently saved titles.
func renderRecent(problems []lib.Problem, cw int) string {
	if len(problems) == 0 {
		return ""
	}
	lines := []string{theme.Heading.Render("Recent")}
	for _, p := range problems {
		line := fmt.Sprintf("%s  %s", mathtext.Plain(p.DisplayTitle()), theme.Hint.Render(string(p.Topic)))
		lines = append(lines, truncate.StringWithTail(line, uint(max(cw, 1)), "…"))
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(lines, "\n"))
}

// renderMenu draws the menu inside a rounded box matching content width.
func renderMenu(menu components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 1).
		Render(strings.TrimRight(menu.View(), "\n"))
}

// renderProviderLine shows which model generation uses, or a warning when
// none is configured.
func renderProviderLine(model string, configured bool, cw int) string {
	style := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if !configured {
		return style.Foreground(theme.Accent).
			Render("⚠ No model provider configured; see forge --help")
	}
	return style.Foreground(theme.TextDim).Render("model: " + model)
}
