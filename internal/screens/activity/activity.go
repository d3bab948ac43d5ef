// Package activity lists recorded model requests.
package activity

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/olympiadforge/forge/internal/llm"
	"github.com/olympiadforge/forge/internal/router"
	"github.com/olympiadforge/forge/internal/screen"
	"github.com/olympiadforge/forge/internal/store"
	"github.com/olympiadforge/forge/internal/ui/layout"
	"github.com/olympiadforge/forge/internal/ui/theme"
)

// eventLimit caps how many requests the screen loads.
const eventLimit = 200

type eventsLoadedMsg struct {
	Events []store.LLMEvent
	Err    error
}

// ActivityScreen displays recent model requests, newest first.
type ActivityScreen struct {
	repo     screen.ActivityRepo
	events   []store.LLMEvent
	purposes []string // "" means all
	filter   int
	selected int
	offset   int
	expanded map[int64]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)

// New creates a new ActivityScreen.
func New(repo screen.ActivityRepo) *ActivityScreen {
	return &ActivityScreen{
		repo:     repo,
		purposes: []string{""},
		expanded: make(map[int64]bool),
	}
}

func (s *ActivityScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{Limit: eventLimit})
		return eventsLoadedMsg{Events: events, Err: err}
	}
}

func (s *ActivityScreen) Title() string {
	return "Model Activity"
}

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "Tab", Description: "Filter purpose"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case eventsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.purposes = append([]string{""}, purposesOf(msg.Events)...)
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			s.filter = (s.filter + 1) % len(s.purposes)
			s.selected, s.offset = 0, 0
		case "shift+tab":
			s.filter = (s.filter - 1 + len(s.purposes)) % len(s.purposes)
			s.selected, s.offset = 0, 0
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.Visible())-1 {
				s.selected++
			}
		case "enter":
			if ev, ok := s.current(); ok {
				s.expanded[ev.Sequence] = !s.expanded[ev.Sequence]
			}
		}
	}
	return s, nil
}

// Visible returns the events matching the purpose filter.
func (s *ActivityScreen) Visible() []store.LLMEvent {
	purpose := s.purposes[s.filter]
	if purpose == "" {
		return s.events
	}
	var out []store.LLMEvent
	for _, ev := range s.events {
		if ev.Purpose == purpose {
			out = append(out, ev)
		}
	}
	return out
}

func (s *ActivityScreen) current() (store.LLMEvent, bool) {
	vis := s.Visible()
	if s.selected >= len(vis) {
		return store.LLMEvent{}, false
	}
	return vis[s.selected], true
}

func purposesOf(events []store.LLMEvent) []string {
	var out []string
	for _, ev := range events {
		if ev.Purpose != "" && !slices.Contains(out, ev.Purpose) {
			out = append(out, ev.Purpose)
		}
	}
	slices.Sort(out)
	return out
}

func (s *ActivityScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading requests...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No model requests recorded yet.")
	}

	w := min(width-4, 110)
	vis := s.Visible()

	var lines []string
	lines = append(lines, s.renderFilter(), s.renderTotals(vis), "")

	rowOf := 0
	for i, ev := range vis {
		if i == s.selected {
			rowOf = len(lines)
		}
		lines = append(lines, s.renderRow(ev, i == s.selected, w))
		if s.expanded[ev.Sequence] {
			lines = append(lines, renderDetail(ev, w)...)
		}
	}

	// Keep the selected row on screen.
	bodyH := max(height, 1)
	if rowOf < s.offset {
		s.offset = rowOf
	}
	if rowOf >= s.offset+bodyH {
		s.offset = rowOf - bodyH + 1
	}
	end := min(len(lines), s.offset+bodyH)
	return lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(lines[s.offset:end], "\n"))
}

func (s *ActivityScreen) renderFilter() string {
	var tabs []string
	for i, p := range s.purposes {
		label := p
		if label == "" {
			label = "all"
		}
		if i == s.filter {
			tabs = append(tabs, theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, theme.TabInactive.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (s *ActivityScreen) renderTotals(events []store.LLMEvent) string {
	var in, out, failed int
	var cost float64
	priced := true
	for _, ev := range events {
		in += ev.InputTokens
		out += ev.OutputTokens
		if !ev.Success {
			failed++
		}
		c, ok := llm.EstimateCost(ev.Model, ev.InputTokens, ev.OutputTokens)
		if !ok {
			priced = false
		}
		cost += c
	}
	costText := fmt.Sprintf("$%.4f", cost)
	if !priced {
		costText = "≥ " + costText
	}
	return theme.Subtitle.Render(fmt.Sprintf("%d requests · %d failed · %d in / %d out tokens · %s",
		len(events), failed, in, out, costText))
}

func (s *ActivityScreen) renderRow(ev store.LLMEvent, selected bool, w int) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	mark := "✓"
	if !ev.Success {
		mark = "✗"
	}
	line := fmt.Sprintf("%s%s %s  %-12s %-24s %6d/%-6d %6dms",
		prefix, mark, ev.Timestamp.Format("Jan 02 15:04:05"), ev.Purpose, ev.Model,
		ev.InputTokens, ev.OutputTokens, ev.LatencyMs)
	line = truncate.StringWithTail(line, uint(max(w, 1)), "…")

	style := lipgloss.NewStyle().Foreground(theme.Text)
	switch {
	case selected:
		style = style.Foreground(theme.Primary).Bold(true)
	case !ev.Success:
		style = style.Foreground(theme.Error)
	}
	return style.Render(line)
}

// renderDetail shows the error or the start of the response under a row.
func renderDetail(ev store.LLMEvent, w int) []string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	body := ev.ResponseBody
	if !ev.Success {
		body = ev.ErrorMessage
	}
	if r := []rune(body); len(r) > 600 {
		body = string(r[:600]) + "…"
	}
	if strings.TrimSpace(body) == "" {
		body = "(empty)"
	}
	cost := "unpriced model"
	if c, ok := llm.EstimateCost(ev.Model, ev.InputTokens, ev.OutputTokens); ok {
		cost = fmt.Sprintf("$%.4f", c)
	}

	out := []string{dim.Render(fmt.Sprintf("    %s · thinking budget %d · %s", ev.Provider, ev.ThinkingBudget, cost))}
	for _, l := range strings.Split(wordwrap.String(body, max(w-6, 10)), "\n") {
		out = append(out, dim.Render("    "+l))
	}
	return out
}
