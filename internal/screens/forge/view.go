package forge

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/olympiadforge/forge/internal/problemgen"
	"github.com/olympiadforge/forge/internal/ui/components"
	"github.com/olympiadforge/forge/internal/ui/theme"
	"github.com/olympiadforge/forge/internal/workbench"
)

const controlsWidth = 46

func (s *ForgeScreen) View(width, height int) string {
	compact := width < 100

	leftW := controlsWidth
	rightW := width - leftW - 1
	if compact {
		leftW, rightW = width, width
	}

	controls := s.renderControls(leftW)
	status := s.renderStatus(width)

	outH := height - lipgloss.Height(status)
	if compact {
		outH -= lipgloss.Height(controls)
	}
	output := s.renderOutput(rightW, outH)

	var body string
	if compact {
		body = lipgloss.JoinVertical(lipgloss.Left, controls, output)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, controls, " ", output)
	}
	return body + "\n" + status
}

func (s *ForgeScreen) renderControls(w int) string {
	inner := w - 4
	s.sketch.SetWidth(inner)
	s.refine.SetWidth(inner)

	var lines []string
	lines = append(lines, s.mode.View())
	if s.currentMode() == workbench.ModeSketch {
		lines = append(lines, "", theme.Label.Render("Sketch"), s.sketch.View())
	} else {
		lines = append(lines, s.topic.View(), s.difficulty.View(), s.focusIn.View())
	}
	lines = append(lines, "", theme.Heading.Render("Style"), s.notation.View(), s.convention.View())
	lines = append(lines, "", theme.Label.Render("Refine"), s.refine.View())
	lines = append(lines, "", components.ButtonRow(s.buttons(), inner))

	return components.Panel("Parameters", strings.Join(lines, "\n"), w, s.focused != ctlOutput)
}

func (s *ForgeScreen) buttons() []components.Button {
	hasStatement := strings.TrimSpace(s.state.Statement) != ""
	primary := workbench.ActionGenerate
	label := "Generate"
	if s.currentMode() == workbench.ModeSketch {
		primary, label = workbench.ActionSketch, "Formalize"
	}

	spin := spinnerFrames[s.spinner]
	running := s.state.Running()
	btn := func(key, label string, a workbench.Action, enabled bool) components.Button {
		return components.Button{
			Key:       key,
			Label:     label,
			Disabled:  !enabled || (s.state.Busy() && running != a),
			Busy:      running == a,
			BusyLabel: spin + " " + label,
		}
	}
	return []components.Button{
		btn("^G", label, primary, true),
		btn("^R", "Refine", workbench.ActionRefine, hasStatement),
		btn("^D", "Details", workbench.ActionDetails, hasStatement),
		btn("^T", "Verify", workbench.ActionVerify, hasStatement),
		{Key: "^S", Label: "Save", Disabled: !hasStatement},
		{Key: "^Y", Label: "Copy TeX", Disabled: !hasStatement},
	}
}

func (s *ForgeScreen) renderTabs() string {
	parts := make([]string, 0, len(workbench.Tabs))
	for _, t := range workbench.Tabs {
		name := t.String()
		switch {
		case t == s.state.Tab:
			parts = append(parts, theme.TabActive.Render(name))
		case t == workbench.TabDiagram && !s.state.HasDiagram():
			parts = append(parts, theme.TabInactive.Strikethrough(true).Render(name))
		default:
			parts = append(parts, theme.TabInactive.Render(name))
		}
	}
	return strings.Join(parts, " ")
}

func (s *ForgeScreen) renderOutput(w, h int) string {
	inner := w - 4
	if inner < 10 {
		inner = 10
	}
	tabs := s.renderTabs()
	bodyH := h - 4 - lipgloss.Height(tabs)
	if bodyH < 1 {
		bodyH = 1
	}

	content := s.tabContent(inner, bodyH)
	lines := strings.Split(content, "\n")
	if limit := len(lines) - bodyH; s.scroll > limit {
		s.scroll = max(0, limit)
	}
	end := s.scroll + bodyH
	if end > len(lines) {
		end = len(lines)
	}
	visible := strings.Join(lines[s.scroll:end], "\n")

	return components.Panel(tabs, visible, w, s.focused == ctlOutput)
}

func (s *ForgeScreen) tabContent(w, h int) string {
	st := s.state
	switch st.Tab {
	case workbench.TabPreview:
		if st.Statement == "" {
			return s.placeholder("Pick a topic and press ^G, or switch to sketch mode.", w)
		}
		return s.preview.View()

	case workbench.TabSolution:
		if st.Solution == "" {
			return s.placeholder("Press ^D to write a solution and a Lean sketch.", w)
		}
		return s.solution.View()

	case workbench.TabLean:
		if st.Lean == "" {
			return s.placeholder("No Lean sketch yet.", w)
		}
		if st.Lean == problemgen.NoLeanSentinel {
			return theme.Hint.Render(st.Lean)
		}
		return lipgloss.NewStyle().Foreground(theme.Secondary).Render(st.Lean)

	case workbench.TabVerification:
		if st.Similars == "" && st.StressTest == "" {
			return s.placeholder("Press ^T to search for similar problems and stress test the statement.", w)
		}
		return s.verification.View()

	case workbench.TabDiagram:
		return s.diagramContent(w, h)
	}
	return ""
}

func (s *ForgeScreen) diagramContent(w, h int) string {
	st := s.state
	if !st.HasDiagram() {
		if st.JSXGraph == problemgen.DiagramParseError {
			return theme.Failure.Render(st.JSXGraph)
		}
		return s.placeholder("Diagrams are drawn for geometry statements after ^D.", w)
	}

	surface := s.diagrams.Surface()
	if surface == nil || s.mounted != st.JSXGraph {
		return theme.Hint.Render("Drawing…")
	}

	var b strings.Builder
	plotH := h - 2
	if plotH > 2*w/3 {
		plotH = 2 * w / 3
	}
	b.WriteString(surface.Plot(w, plotH))
	if surface.Err != nil {
		b.WriteString("\n" + theme.Warning.Render(wordwrap.String("diagram: "+surface.Err.Error(), w)))
	}
	if st.Asymptote != "" && st.Asymptote != problemgen.DiagramParseError {
		b.WriteString("\n\n" + theme.Heading.Render("Asymptote") + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(st.Asymptote))
	}
	return b.String()
}

func (s *ForgeScreen) placeholder(text string, w int) string {
	return theme.Hint.Render(wordwrap.String(text, w))
}

func (s *ForgeScreen) renderStatus(width int) string {
	switch {
	case s.state.Busy():
		return theme.Warning.Render(" " + spinnerFrames[s.spinner] + " Working on " + string(s.state.Running()) + "…")
	case s.flash == "":
		return ""
	case s.flashOK:
		return theme.Notice.Render(" " + wordwrap.String(s.flash, width-2))
	default:
		return theme.Failure.Render(" " + wordwrap.String(s.flash, width-2))
	}
}
