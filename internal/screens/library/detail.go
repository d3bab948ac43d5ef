package library

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/diagram"
	lib "github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/problemgen"
	"github.com/olympiadforge/forge/internal/screen"
	"github.com/olympiadforge/forge/internal/ui/components"
	"github.com/olympiadforge/forge/internal/ui/layout"
	"github.com/olympiadforge/forge/internal/ui/theme"
)

// DetailScreen shows the full solution write-up of one problem.
type DetailScreen struct {
	env      *screen.Env
	problem  lib.Problem
	body     components.MathView
	diagrams *diagram.Renderer
	scroll   int
	flash    string
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)
var _ screen.Closer = (*DetailScreen)(nil)

// NewDetail creates a DetailScreen for p.
func NewDetail(env *screen.Env, p lib.Problem) *DetailScreen {
	d := &DetailScreen{
		env:      env,
		problem:  p,
		body:     components.NewMathView(env.Typesetter),
		diagrams: diagram.NewRenderer(diagram.DefaultTimeout, env.Logger().Named("diagram")),
	}
	return d
}

func (d *DetailScreen) Init() tea.Cmd {
	var cmd tea.Cmd
	d.body, cmd = d.body.SetContent(lib.Markdown(d.problem))
	return tea.Batch(d.body.Init(), cmd, d.mountDiagram())
}

// diagramMountedMsg asks for a repaint once the diagram source has run.
type diagramMountedMsg struct{}

// mountDiagram runs the diagram source off the UI loop.
func (d *DetailScreen) mountDiagram() tea.Cmd {
	src := d.problem.JSXGraphCode
	if strings.TrimSpace(src) == "" || src == problemgen.DiagramParseError {
		return nil
	}
	renderer := d.diagrams
	return func() tea.Msg {
		renderer.Show(src)
		return diagramMountedMsg{}
	}
}

func (d *DetailScreen) Title() string {
	return d.problem.DisplayTitle()
}

// Close releases the diagram surface.
func (d *DetailScreen) Close() {
	d.diagrams.Dispose()
}

func (d *DetailScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "o", Description: "Open HTML"},
		{Key: "c", Description: "Copy TeX"},
		{Key: "s", Description: "Share"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(diagramMountedMsg); ok {
		return d, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		d.flash = ""
		switch kmsg.String() {
		case "up", "k":
			if d.scroll > 0 {
				d.scroll--
			}
		case "down", "j":
			d.scroll++
		case "pgup":
			d.scroll = max(0, d.scroll-10)
		case "pgdown":
			d.scroll += 10
		case "o":
			d.openPage()
		case "c":
			if err := d.env.CopyText(d.problem.Statement); err != nil {
				d.flash = "Clipboard unavailable."
			} else {
				d.flash = "Statement TeX copied."
			}
		case "s":
			d.share()
		}
		return d, nil
	}

	var cmd tea.Cmd
	d.body, cmd = d.body.Update(msg)
	return d, cmd
}

func (d *DetailScreen) openPage() {
	path, err := writeSolutionPage(d.problem)
	if err != nil {
		d.env.Logger().Warn("solution page export failed", zap.Error(err))
		d.flash = "Export failed: " + err.Error()
		return
	}
	if d.env.Open != nil {
		if err := d.env.Open(path); err != nil {
			d.env.Logger().Warn("open solution page", zap.String("path", path), zap.Error(err))
		}
	}
	d.flash = "Solution page written to " + path
}

func (d *DetailScreen) share() {
	link, err := lib.ShareLink(d.env.ShareBase, d.problem)
	if err == nil {
		err = d.env.CopyText(link)
	}
	if err != nil {
		d.flash = "Could not copy share link."
		return
	}
	d.flash = "Share link copied."
}

func (d *DetailScreen) View(width, height int) string {
	p := d.problem
	w := min(width-4, 100)

	var b strings.Builder
	b.WriteString(d.body.View())

	if surface := d.diagrams.Surface(); surface != nil {
		b.WriteString("\n\n" + theme.Heading.Render("Diagram") + "\n")
		b.WriteString(surface.Plot(min(w, 72), 24))
		if surface.Err != nil {
			b.WriteString("\n" + theme.Warning.Render("diagram: "+surface.Err.Error()))
		}
	}

	b.WriteString("\n\n" + theme.Subtitle.Render(fmt.Sprintf("%s · created %s · tags %s",
		p.Status, p.CreatedAt().Format("Jan 02, 2006 15:04"), strings.Join(p.Tags, ", "))))

	lines := strings.Split(b.String(), "\n")
	bodyH := height - 1
	if limit := len(lines) - bodyH; d.scroll > limit {
		d.scroll = max(0, limit)
	}
	end := min(len(lines), d.scroll+bodyH)
	content := lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(lines[d.scroll:end], "\n"))

	status := ""
	if d.flash != "" {
		status = theme.Notice.Render(" " + d.flash)
	}
	return content + "\n" + status
}
