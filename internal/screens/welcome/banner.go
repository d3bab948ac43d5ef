package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/olympiadforge/forge/internal/ui/theme"
)

const bannerArt = `
 ╔═╗╦  ╦ ╦╔╦╗╔═╗╦╔═╗╔╦╗  ╔═╗╔═╗╦═╗╔═╗╔═╗
 ║ ║║  ╚╦╝║║║╠═╝║╠═╣ ║║  ╠╣ ║ ║╠╦╝║ ╦║╣
 ╚═╝╩═╝ ╩ ╩ ╩╩  ╩╩ ╩═╩╝  ╚  ╚═╝╩╚═╚═╝╚═╝`

const bannerCompact = "OLYMPIAD · FORGE"

// RenderBanner returns the banner in the highlight color, or a one-line
// version for terminals narrower than 46 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true)

	if width < 46 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
