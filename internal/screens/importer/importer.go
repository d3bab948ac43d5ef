// Package importer is the screen that merges shared problems into the
// library.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/mathtext"
	"github.com/olympiadforge/forge/internal/screen"
	"github.com/olympiadforge/forge/internal/ui/components"
	"github.com/olympiadforge/forge/internal/ui/layout"
	"github.com/olympiadforge/forge/internal/ui/theme"
)

// ImportScreen accepts a share link, a JSON export or a path to one.
type ImportScreen struct {
	env     *screen.Env
	log     *zap.Logger
	area    textarea.Model
	pending []library.Problem
	flash   string
	flashOK bool
}

var _ screen.Screen = (*ImportScreen)(nil)
var _ screen.KeyHintProvider = (*ImportScreen)(nil)
var _ screen.InputCapturer = (*ImportScreen)(nil)

// New creates an ImportScreen with the input focused.
func New(env *screen.Env) *ImportScreen {
	ta := textarea.New()
	ta.Placeholder = "Paste a share link, a JSON export, or a file path"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(8)
	ta.Focus()
	return &ImportScreen{
		env:  env,
		log:  env.Logger().Named("import"),
		area: ta,
	}
}

func (s *ImportScreen) Init() tea.Cmd {
	return nil
}

func (s *ImportScreen) Title() string {
	return "Import Problems"
}

// CapturesInput reports whether Esc belongs to this screen.
func (s *ImportScreen) CapturesInput() bool {
	return s.area.Focused() || s.pending != nil
}

func (s *ImportScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.pending != nil:
		return []layout.KeyHint{
			{Key: "Y", Description: "Import"},
			{Key: "N", Description: "Cancel"},
		}
	case s.area.Focused():
		return []layout.KeyHint{
			{Key: "^S", Description: "Read"},
			{Key: "^U", Description: "Clear"},
			{Key: "Esc", Description: "Done typing"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Edit"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ImportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()

		if s.pending != nil {
			switch key {
			case "y", "Y", "enter":
				s.commit()
			case "n", "N", "esc":
				s.pending = nil
				s.setFlash("Import cancelled.", false)
			}
			return s, nil
		}

		switch key {
		case "ctrl+s":
			s.read()
			return s, nil
		case "ctrl+u":
			s.area.Reset()
			s.flash = ""
			return s, nil
		case "esc":
			s.area.Blur()
			return s, nil
		case "enter", "tab":
			if !s.area.Focused() {
				return s, s.area.Focus()
			}
		}
	}

	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	return s, cmd
}

// read parses the input and asks for confirmation.
func (s *ImportScreen) read() {
	problems, err := Parse(s.area.Value())
	if err != nil {
		s.log.Info("import input rejected", zap.Error(err))
		s.setFlash(err.Error(), false)
		return
	}
	if len(problems) == 0 {
		s.setFlash("Nothing to import.", false)
		return
	}
	s.pending = problems
	s.flash = ""
}

func (s *ImportScreen) commit() {
	problems := s.pending
	s.pending = nil

	added, err := s.env.Library.Merge(context.Background(), problems)
	if err != nil {
		s.log.Warn("import not persisted", zap.Error(err))
		s.setFlash(fmt.Sprintf("Added %d problem(s), but the library could not be saved.", added), false)
		return
	}
	s.area.Reset()
	s.setFlash(fmt.Sprintf("Added %d new problem(s); %d already present or invalid.", added, len(problems)-added), true)
}

func (s *ImportScreen) setFlash(text string, ok bool) {
	s.flash, s.flashOK = text, ok
}

// ErrEmptyInput is returned by Parse for blank input.
var ErrEmptyInput = errors.New("paste a share link or an export first")

// Parse reads a share link, a bare share payload, a JSON export or the
// path of an export file.
func Parse(input string) ([]library.Problem, error) {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return nil, ErrEmptyInput
	case strings.HasPrefix(input, "["):
		return library.ParseSnapshot([]byte(input))
	case !strings.Contains(input, "\n") && !strings.Contains(input, "?"):
		if data, err := os.ReadFile(input); err == nil {
			return library.ParseSnapshot(data)
		}
	}
	return library.ParseShareLink(input)
}

func (s *ImportScreen) View(width, height int) string {
	w := components.ContentWidth(width)
	s.area.SetWidth(w - 4)

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Problems whose id is already in the library are skipped."))
	b.WriteString("\n\n")
	b.WriteString(components.Panel("Source", s.area.View(), w, s.area.Focused()))
	b.WriteString("\n")

	if s.pending != nil {
		b.WriteString("\n" + theme.Warning.Render(fmt.Sprintf("Import %d problem(s)? (y/n)", len(s.pending))) + "\n")
		limit := max(height-18, 3)
		for i, p := range s.pending {
			if i == limit {
				b.WriteString(theme.Hint.Render(fmt.Sprintf("  +%d more", len(s.pending)-limit)) + "\n")
				break
			}
			line := fmt.Sprintf("  • %s  (%s, %s)", mathtext.Plain(p.DisplayTitle()), p.Topic, p.Status)
			b.WriteString(theme.Body.Render(truncate.StringWithTail(line, uint(max(w, 1)), "…")) + "\n")
		}
	}

	if s.flash != "" {
		style := theme.Failure
		if s.flashOK {
			style = theme.Notice
		}
		b.WriteString("\n" + style.Render(s.flash))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}
