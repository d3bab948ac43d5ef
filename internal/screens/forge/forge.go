// Package forge is the ideation screen: parameters on the left, generated
// material on the right.
package forge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/diagram"
	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/problemgen"
	"github.com/olympiadforge/forge/internal/router"
	"github.com/olympiadforge/forge/internal/screen"
	"github.com/olympiadforge/forge/internal/screens/notice"
	"github.com/olympiadforge/forge/internal/ui/components"
	"github.com/olympiadforge/forge/internal/ui/layout"
	"github.com/olympiadforge/forge/internal/workbench"
)

type control int

const (
	ctlMode control = iota
	ctlTopic
	ctlDifficulty
	ctlFocus
	ctlNotation
	ctlConvention
	ctlSketch
	ctlRefine
	ctlOutput
)

var (
	generateControls = []control{ctlMode, ctlTopic, ctlDifficulty, ctlFocus, ctlNotation, ctlConvention, ctlRefine, ctlOutput}
	sketchControls   = []control{ctlMode, ctlSketch, ctlNotation, ctlConvention, ctlRefine, ctlOutput}
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// ForgeScreen implements screen.Screen for an ideation session.
type ForgeScreen struct {
	env   *screen.Env
	state *workbench.State
	log   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mode       components.Selector
	topic      components.Selector
	difficulty components.Selector
	focusIn    components.Field
	notation   components.Field
	convention components.Field
	sketch     textarea.Model
	refine     textarea.Model
	focused    control

	preview      components.MathView
	solution     components.MathView
	verification components.MathView
	diagrams     *diagram.Renderer
	mounted      string

	scroll  int
	spinner int
	flash   string
	flashOK bool
}

var _ screen.Screen = (*ForgeScreen)(nil)
var _ screen.KeyHintProvider = (*ForgeScreen)(nil)
var _ screen.Closer = (*ForgeScreen)(nil)
var _ screen.InputCapturer = (*ForgeScreen)(nil)

// New creates a ForgeScreen with a fresh session.
func New(env *screen.Env) *ForgeScreen {
	ctx, cancel := context.WithCancel(context.Background())
	state := workbench.New()

	s := &ForgeScreen{
		env:    env,
		state:  state,
		log:    env.Logger().Named("forge"),
		ctx:    ctx,
		cancel: cancel,

		mode:       components.NewSelector("Mode", []string{string(workbench.ModeGenerate), string(workbench.ModeSketch)}, string(state.Mode)),
		topic:      components.NewSelector("Topic", stringsOf(library.Topics), string(state.Topic)),
		difficulty: components.NewSelector("Difficulty", stringsOf(library.Difficulties), string(state.Difficulty)),
		focusIn:    components.NewField("Focus", "e.g. functional equations", 200),
		notation:   components.NewField("Notation", "Standard IMO", 120),
		convention: components.NewField("Geometry", "Standard", 120),
		sketch:     newArea("Rough idea: objects, the claim, what should be hard…", 5),
		refine:     newArea("How should the statement change?", 3),

		preview:      components.NewMathView(env.Typesetter),
		solution:     components.NewMathView(env.Typesetter),
		verification: components.NewMathView(env.Typesetter),
		diagrams:     diagram.NewRenderer(diagram.DefaultTimeout, env.Logger().Named("diagram")),
	}
	s.mode.Focus()
	return s
}

func newArea(placeholder string, height int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(height)
	return ta
}

func stringsOf[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func (s *ForgeScreen) Init() tea.Cmd {
	return tea.Batch(s.preview.Init(), s.solution.Init(), s.verification.Init())
}

func (s *ForgeScreen) Title() string {
	return "Forge"
}

// Close cancels in-flight model calls and tears down the diagram surface.
func (s *ForgeScreen) Close() {
	s.cancel()
	s.diagrams.Dispose()
}

// CapturesInput reports whether a text control has focus.
func (s *ForgeScreen) CapturesInput() bool {
	switch s.focused {
	case ctlFocus, ctlNotation, ctlConvention, ctlSketch, ctlRefine:
		return true
	}
	return false
}

func (s *ForgeScreen) KeyHints() []layout.KeyHint {
	primary := "Generate"
	if s.state.Mode == workbench.ModeSketch {
		primary = "Formalize"
	}
	hints := []layout.KeyHint{
		{Key: "^G", Description: primary},
		{Key: "^R", Description: "Refine"},
		{Key: "^D", Description: "Details"},
		{Key: "^T", Description: "Verify"},
		{Key: "^S", Description: "Save"},
		{Key: "Tab", Description: "Next field"},
	}
	if s.CapturesInput() {
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave field"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *ForgeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case resultMsg:
		return s, s.handleResult(msg.Result)

	case diagramMountedMsg:
		s.mounted = msg.Source
		return s, nil

	case spinnerTickMsg:
		if !s.state.Busy() {
			return s, nil
		}
		s.spinner = (s.spinner + 1) % len(spinnerFrames)
		return s, spinTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.preview, cmd = s.preview.Update(msg)
	cmds = append(cmds, cmd)
	s.solution, cmd = s.solution.Update(msg)
	cmds = append(cmds, cmd)
	s.verification, cmd = s.verification.Update(msg)
	cmds = append(cmds, cmd)
	cmds = append(cmds, s.forwardToFocused(msg))
	return s, tea.Batch(cmds...)
}

func (s *ForgeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+g":
		if s.currentMode() == workbench.ModeSketch {
			return s, s.run(workbench.ActionSketch)
		}
		return s, s.run(workbench.ActionGenerate)
	case "ctrl+r":
		return s, s.run(workbench.ActionRefine)
	case "ctrl+d":
		return s, s.run(workbench.ActionDetails)
	case "ctrl+t":
		return s, s.run(workbench.ActionVerify)
	case "ctrl+s":
		s.save()
		return s, nil
	case "ctrl+y":
		s.copyStatement()
		return s, nil
	case "ctrl+n":
		s.state.Reset()
		s.refine.Reset()
		s.setFlash("Started a new session.", true)
		return s, s.refreshViews()
	case "tab":
		return s, s.moveFocus(1)
	case "shift+tab":
		return s, s.moveFocus(-1)
	case "esc":
		return s, s.setFocus(ctlOutput)
	case "pgup":
		s.scrollBy(-10)
		return s, nil
	case "pgdown":
		s.scrollBy(10)
		return s, nil
	}

	if s.focused == ctlOutput {
		s.handleOutputKey(msg.String())
		return s, nil
	}
	return s, s.forwardToFocused(msg)
}

func (s *ForgeScreen) handleOutputKey(key string) {
	switch key {
	case "left", "h":
		s.setTab(s.state.Tab - 1)
	case "right", "l":
		s.setTab(s.state.Tab + 1)
	case "1", "2", "3", "4", "5":
		s.setTab(workbench.Tab(key[0] - '1'))
	case "up", "k":
		s.scrollBy(-1)
	case "down", "j":
		s.scrollBy(1)
	case "g":
		s.scroll = 0
	}
}

func (s *ForgeScreen) setTab(t workbench.Tab) {
	if t < 0 || int(t) >= len(workbench.Tabs) {
		return
	}
	if s.state.Tab != t {
		s.state.Tab = t
		s.scroll = 0
	}
}

func (s *ForgeScreen) scrollBy(delta int) {
	s.scroll += delta
	if s.scroll < 0 {
		s.scroll = 0
	}
}

func (s *ForgeScreen) forwardToFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focused {
	case ctlMode:
		before := s.mode.Value()
		s.mode, cmd = s.mode.Update(msg)
		if s.mode.Value() != before {
			s.state.Mode = workbench.Mode(s.mode.Value())
		}
	case ctlTopic:
		s.topic, cmd = s.topic.Update(msg)
	case ctlDifficulty:
		s.difficulty, cmd = s.difficulty.Update(msg)
	case ctlFocus:
		s.focusIn, cmd = s.focusIn.Update(msg)
	case ctlNotation:
		s.notation, cmd = s.notation.Update(msg)
	case ctlConvention:
		s.convention, cmd = s.convention.Update(msg)
	case ctlSketch:
		s.sketch, cmd = s.sketch.Update(msg)
	case ctlRefine:
		s.refine, cmd = s.refine.Update(msg)
	}
	return cmd
}

func (s *ForgeScreen) currentMode() workbench.Mode {
	return workbench.Mode(s.mode.Value())
}

func (s *ForgeScreen) controls() []control {
	if s.currentMode() == workbench.ModeSketch {
		return sketchControls
	}
	return generateControls
}

func (s *ForgeScreen) moveFocus(delta int) tea.Cmd {
	list := s.controls()
	i := 0
	for j, c := range list {
		if c == s.focused {
			i = j
		}
	}
	i = (i + delta + len(list)) % len(list)
	return s.setFocus(list[i])
}

func (s *ForgeScreen) setFocus(c control) tea.Cmd {
	s.mode.Blur()
	s.topic.Blur()
	s.difficulty.Blur()
	s.focusIn.Blur()
	s.notation.Blur()
	s.convention.Blur()
	s.sketch.Blur()
	s.refine.Blur()

	s.focused = c
	switch c {
	case ctlMode:
		s.mode.Focus()
	case ctlTopic:
		s.topic.Focus()
	case ctlDifficulty:
		s.difficulty.Focus()
	case ctlFocus:
		return s.focusIn.Focus()
	case ctlNotation:
		return s.notation.Focus()
	case ctlConvention:
		return s.convention.Focus()
	case ctlSketch:
		return s.sketch.Focus()
	case ctlRefine:
		return s.refine.Focus()
	}
	return nil
}

// syncInputs copies the widget values into the session record.
func (s *ForgeScreen) syncInputs() {
	s.state.Mode = s.currentMode()
	s.state.Topic = library.Topic(s.topic.Value())
	s.state.Difficulty = library.Difficulty(s.difficulty.Value())
	s.state.Focus = s.focusIn.Value()
	s.state.Style = problemgen.Style{
		Notation:           s.notation.Value(),
		GeometryConvention: s.convention.Value(),
	}
	s.state.Sketch = s.sketch.Value()
	s.state.Refinement = s.refine.Value()
}

var emptyInput = map[workbench.Action]string{
	workbench.ActionSketch:  "Write a sketch first.",
	workbench.ActionRefine:  "Refinement needs a statement and an instruction.",
	workbench.ActionDetails: "Generate a statement first.",
	workbench.ActionVerify:  "Generate a statement first.",
}

func (s *ForgeScreen) run(a workbench.Action) tea.Cmd {
	if s.env.Generator == nil {
		return func() tea.Msg { return router.PushScreenMsg{Screen: notice.ProviderMissing()} }
	}

	s.syncInputs()
	ticket, err := s.state.Begin(a)
	switch {
	case errors.Is(err, workbench.ErrBusy):
		s.setFlash("Still working on "+string(s.state.Running())+"…", false)
		return nil
	case errors.Is(err, workbench.ErrNoInput):
		s.setFlash(emptyInput[a], false)
		return nil
	case err != nil:
		s.setFlash(err.Error(), false)
		return nil
	}

	s.flash = ""
	s.log.Debug("action started", zap.String("action", string(a)), zap.Uint64("token", ticket.Token))

	ctx, gen := s.ctx, s.env.Generator
	exec := func() tea.Msg {
		return resultMsg{Result: workbench.Execute(ctx, gen, ticket)}
	}
	return tea.Batch(exec, spinTick(), s.refreshViews())
}

func spinTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg { return spinnerTickMsg(t) })
}

func (s *ForgeScreen) handleResult(r workbench.Result) tea.Cmd {
	if !s.state.Apply(r) {
		s.log.Debug("stale result dropped", zap.String("action", string(r.Ticket.Action)))
		return nil
	}
	s.scroll = 0

	switch r.Ticket.Action {
	case workbench.ActionRefine:
		s.refine.Reset()
		s.setFlash("Statement refined.", true)
	case workbench.ActionDetails:
		s.setFlash("Solution ready.", true)
	case workbench.ActionVerify:
		s.setFlash("Verification finished.", true)
	default:
		s.setFlash("Statement ready.", true)
	}

	cmds := []tea.Cmd{s.refreshViews()}
	if s.state.HasDiagram() && s.state.JSXGraph != s.mounted {
		src, renderer := s.state.JSXGraph, s.diagrams
		cmds = append(cmds, func() tea.Msg {
			renderer.Show(src)
			return diagramMountedMsg{Source: src}
		})
	}
	return tea.Batch(cmds...)
}

func (s *ForgeScreen) refreshViews() tea.Cmd {
	var c1, c2, c3 tea.Cmd
	s.preview, c1 = s.preview.SetContent(s.state.Statement)
	s.solution, c2 = s.solution.SetContent(s.state.Solution)
	s.verification, c3 = s.verification.SetContent(verificationText(s.state))
	return tea.Batch(c1, c2, c3)
}

func verificationText(st *workbench.State) string {
	if st.Similars == "" && st.StressTest == "" {
		return ""
	}
	return "### Similar Problems\n\n" + st.Similars + "\n\n### Stress Test\n\n" + st.StressTest
}

func (s *ForgeScreen) save() {
	s.syncInputs()
	p, err := s.state.BuildProblem(time.Now())
	if err != nil {
		s.setFlash("Nothing to save yet.", false)
		return
	}
	saved, err := s.env.Library.Create(s.ctx, p)
	if err != nil {
		if errors.Is(err, library.ErrInvalidProblem) {
			s.setFlash("Cannot save: "+err.Error(), false)
			return
		}
		s.log.Warn("library write failed", zap.Error(err))
		s.setFlash(fmt.Sprintf("Saved %q, but it may not persist: %v", saved.Title, err), false)
		return
	}
	s.setFlash(fmt.Sprintf("Saved %q to Draft.", saved.Title), true)
}

func (s *ForgeScreen) copyStatement() {
	if strings.TrimSpace(s.state.Statement) == "" {
		s.setFlash("Nothing to copy yet.", false)
		return
	}
	if err := s.env.CopyText(s.state.Statement); err != nil {
		s.log.Warn("clipboard unavailable", zap.Error(err))
		s.setFlash("Clipboard unavailable.", false)
		return
	}
	s.setFlash("Statement TeX copied.", true)
}

func (s *ForgeScreen) setFlash(text string, ok bool) {
	s.flash, s.flashOK = text, ok
}
