// Package app wires the screen stack into a Bubble Tea program.
package app

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/router"
	"github.com/olympiadforge/forge/internal/screen"
	"github.com/olympiadforge/forge/internal/screens/home"
	"github.com/olympiadforge/forge/internal/screens/welcome"
	"github.com/olympiadforge/forge/internal/ui/layout"
)

// Options configures the terminal UI.
type Options struct {
	Env *screen.Env
	// SkipWelcome starts on the home screen.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel starting on the welcome screen.
func newAppModel(opts Options) AppModel {
	env := opts.Env
	toHome := func() screen.Screen { return home.New(env) }

	var first screen.Screen = welcome.New(toHome)
	if opts.SkipWelcome {
		first = toHome()
	}
	return AppModel{env: env, router: router.New(first)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturesInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) status() string {
	if m.env == nil || m.env.Library == nil {
		return ""
	}
	s := fmt.Sprintf("%d problems", m.env.Library.Len())
	if m.env.Model != "" {
		s += " · " + m.env.Model
	}
	return s + "  "
}

func (m AppModel) hints() []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = append(hints, p.KeyHints()...)
	}
	if m.router.Depth() > 1 {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	} else if len(hints) == 0 {
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "Navigate"},
			layout.KeyHint{Key: "Enter", Description: "Select"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits. Screens
// still on the stack are closed before returning.
func Run(opts Options) error {
	if opts.Env == nil || opts.Env.Library == nil {
		return errors.New("app: a library is required")
	}
	log := opts.Env.Logger()

	m := newAppModel(opts)
	defer m.router.CloseAll()

	log.Info("terminal UI started", zap.Int("problems", opts.Env.Library.Len()), zap.String("model", opts.Env.Model))
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Error("terminal UI failed", zap.Error(err))
		return fmt.Errorf("run terminal UI: %w", err)
	}
	log.Info("terminal UI stopped")
	return nil
}
