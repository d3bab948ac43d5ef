// Package library is the workflow board: one column per status, cards
// moved between columns with the keyboard.
package library

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	lib "github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/mathtext"
	"github.com/olympiadforge/forge/internal/router"
	"github.com/olympiadforge/forge/internal/screen"
	"github.com/olympiadforge/forge/internal/screens/importer"
	"github.com/olympiadforge/forge/internal/ui/layout"
	"github.com/olympiadforge/forge/internal/ui/theme"
)

// BoardScreen displays the library as four status columns.
type BoardScreen struct {
	env     *screen.Env
	log     *zap.Logger
	columns [][]lib.Problem
	col     int
	rows    []int // selected card per column
	offsets []int // first visible card per column

	confirmDelete bool
	flash         string
	flashOK       bool
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)
var _ screen.Resumer = (*BoardScreen)(nil)

// New creates a BoardScreen over env.Library.
func New(env *screen.Env) *BoardScreen {
	b := &BoardScreen{
		env:     env,
		log:     env.Logger().Named("board"),
		rows:    make([]int, len(lib.Statuses)),
		offsets: make([]int, len(lib.Statuses)),
	}
	b.reload()
	return b
}

func (b *BoardScreen) Init() tea.Cmd { return nil }

// Resume reloads the columns after a screen on top was closed.
func (b *BoardScreen) Resume() tea.Cmd {
	b.reload()
	return nil
}

func (b *BoardScreen) Title() string {
	return fmt.Sprintf("Library · %d problems", b.env.Library.Len())
}

func (b *BoardScreen) KeyHints() []layout.KeyHint {
	if b.confirmDelete {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→↑↓", Description: "Move"},
		{Key: "<>", Description: "Change status"},
		{Key: "Enter", Description: "Open"},
		{Key: "s/S", Description: "Share card/all"},
		{Key: "e", Description: "Export"},
		{Key: "i", Description: "Import"},
		{Key: "d", Description: "Delete"},
	}
}

func (b *BoardScreen) reload() {
	b.columns = make([][]lib.Problem, len(lib.Statuses))
	for i, st := range lib.Statuses {
		b.columns[i] = b.env.Library.ByStatus(st)
	}
	for i := range b.columns {
		b.clampRow(i)
	}
}

func (b *BoardScreen) clampRow(col int) {
	n := len(b.columns[col])
	if b.rows[col] >= n {
		b.rows[col] = n - 1
	}
	if b.rows[col] < 0 {
		b.rows[col] = 0
	}
}

// Selected returns the card under the cursor.
func (b *BoardScreen) Selected() (lib.Problem, bool) {
	cards := b.columns[b.col]
	if len(cards) == 0 {
		return lib.Problem{}, false
	}
	return cards[b.rows[b.col]], true
}

func (b *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}
	key := kmsg.String()

	if b.confirmDelete {
		b.confirmDelete = false
		if key == "y" || key == "Y" {
			b.deleteSelected()
		}
		return b, nil
	}

	b.flash = ""
	switch key {
	case "left", "h":
		if b.col > 0 {
			b.col--
		}
	case "right", "l":
		if b.col < len(b.columns)-1 {
			b.col++
		}
	case "up", "k":
		if b.rows[b.col] > 0 {
			b.rows[b.col]--
		}
	case "down", "j":
		if b.rows[b.col] < len(b.columns[b.col])-1 {
			b.rows[b.col]++
		}
	case "<", "shift+left", "H":
		b.move(-1)
	case ">", "shift+right", "L":
		b.move(1)
	case "d", "delete", "x":
		if _, ok := b.Selected(); ok {
			b.confirmDelete = true
		}
	case "s":
		if p, ok := b.Selected(); ok {
			b.share(p)
		}
	case "S":
		b.share(b.env.Library.All()...)
	case "e":
		b.export()
	case "i":
		return b, func() tea.Msg { return router.PushScreenMsg{Screen: importer.New(b.env)} }
	case "enter":
		if p, ok := b.Selected(); ok {
			detail := NewDetail(b.env, p)
			return b, func() tea.Msg { return router.PushScreenMsg{Screen: detail} }
		}
	case "q":
		return b, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return b, nil
}

// move changes the selected card's status by delta columns and keeps the
// cursor on the card.
func (b *BoardScreen) move(delta int) {
	p, ok := b.Selected()
	if !ok {
		return
	}
	target := p.Status.Next()
	if delta < 0 {
		target = p.Status.Prev()
	}
	if target == p.Status.Normalized() {
		return
	}

	if err := b.env.Library.SetStatus(context.Background(), p.ID, target); err != nil {
		b.log.Warn("status change not persisted", zap.String("id", p.ID), zap.Error(err))
		b.setFlash("Moved, but the library could not be saved.", false)
	}
	b.reload()

	b.col += delta
	for i, c := range b.columns[b.col] {
		if c.ID == p.ID {
			b.rows[b.col] = i
		}
	}
}

func (b *BoardScreen) deleteSelected() {
	p, ok := b.Selected()
	if !ok {
		return
	}
	if err := b.env.Library.Delete(context.Background(), p.ID); err != nil {
		b.log.Warn("delete not persisted", zap.String("id", p.ID), zap.Error(err))
	}
	b.reload()
	b.setFlash(fmt.Sprintf("Deleted %q.", p.DisplayTitle()), true)
}

func (b *BoardScreen) share(problems ...lib.Problem) {
	if len(problems) == 0 {
		b.setFlash("The library is empty.", false)
		return
	}
	link, err := lib.ShareLink(b.env.ShareBase, problems...)
	if err != nil {
		b.setFlash("Could not build the link: "+err.Error(), false)
		return
	}
	if err := b.env.CopyText(link); err != nil {
		b.log.Warn("clipboard unavailable", zap.Error(err))
		b.setFlash("Clipboard unavailable; run `forge library share` instead.", false)
		return
	}
	b.setFlash(fmt.Sprintf("Share link for %d problem(s) copied.", len(problems)), true)
}

func (b *BoardScreen) export() {
	path, err := exportLibrary(b.env.Library, lib.ExportFileName)
	if err != nil {
		b.log.Warn("export failed", zap.Error(err))
		b.setFlash("Export failed: "+err.Error(), false)
		return
	}
	b.setFlash("Exported to "+path, true)
}

func (b *BoardScreen) setFlash(text string, ok bool) {
	b.flash, b.flashOK = text, ok
}

func (b *BoardScreen) View(width, height int) string {
	n := len(b.columns)
	colW := (width - n - 1) / n
	if colW < 16 {
		colW = 16
	}

	footer := b.renderFlash()
	bodyH := height - lipgloss.Height(footer)

	cols := make([]string, n)
	for i := range b.columns {
		cols[i] = b.renderColumn(i, colW, bodyH)
	}
	board := lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cols)...)
	return board + "\n" + footer
}

func joinWithGap(cols []string) []string {
	out := make([]string, 0, 2*len(cols))
	for i, c := range cols {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, c)
	}
	return out
}

func (b *BoardScreen) renderFlash() string {
	switch {
	case b.confirmDelete:
		p, _ := b.Selected()
		return theme.Warning.Render(fmt.Sprintf(" Delete %q? (y/n)", p.DisplayTitle()))
	case b.flash == "":
		return ""
	case b.flashOK:
		return theme.Notice.Render(" " + b.flash)
	}
	return theme.Failure.Render(" " + b.flash)
}

// cardHeight is the rendered height of one card: border (2) + two lines.
const cardHeight = 4

func (b *BoardScreen) renderColumn(i, w, h int) string {
	status := lib.Statuses[i]
	accent := theme.StatusColor(string(status))
	cards := b.columns[i]

	head := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Width(w).
		Render(fmt.Sprintf("%s (%d)", status, len(cards)))

	capacity := (h - 2) / cardHeight
	if capacity < 1 {
		capacity = 1
	}
	row := b.rows[i]
	if row < b.offsets[i] {
		b.offsets[i] = row
	}
	if row >= b.offsets[i]+capacity {
		b.offsets[i] = row - capacity + 1
	}

	var parts []string
	parts = append(parts, head)
	if len(cards) == 0 {
		parts = append(parts, theme.Hint.Width(w).Render("empty"))
	}
	for j := b.offsets[i]; j < len(cards) && j < b.offsets[i]+capacity; j++ {
		selected := i == b.col && j == row
		parts = append(parts, renderCard(cards[j], w, selected, accent))
	}
	if hidden := len(cards) - b.offsets[i] - capacity; hidden > 0 {
		parts = append(parts, theme.Hint.Render(fmt.Sprintf("  +%d more", hidden)))
	}
	return strings.Join(parts, "\n")
}

func renderCard(p lib.Problem, w int, selected bool, accent color.Color) string {
	inner := w - 4
	title := truncate.StringWithTail(mathtext.Plain(p.DisplayTitle()), uint(max(inner, 1)), "…")
	meta := truncate.StringWithTail(string(p.Topic)+" · "+string(p.Difficulty), uint(max(inner, 1)), "…")

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(w).
		Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if selected {
		style = style.BorderForeground(accent)
		titleStyle = titleStyle.Foreground(accent).Bold(true)
	}
	return style.Render(titleStyle.Render(title) + "\n" + theme.Subtitle.Render(meta))
}
