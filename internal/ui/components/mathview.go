package components

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/olympiadforge/forge/internal/mathtext"
)

const (
	// mathPollInterval is how often a view checks whether the typesetter
	// has finished building.
	mathPollInterval = 100 * time.Millisecond
	// mathDebounce delays rendering so rapid content changes render once.
	mathDebounce = 50 * time.Millisecond
)

var mathViewIDs atomic.Int64

type mathPollMsg struct{ id int64 }

type mathDebounceMsg struct {
	id  int64
	seq int
}

type mathRenderedMsg struct {
	id  int64
	seq int
	out string
}

// MathView displays typeset text. Until the typesetter is ready it shows
// the normalized source; content changes are rendered after a short
// debounce and only the latest change is kept.
type MathView struct {
	ts       *mathtext.Typesetter
	id       int64
	source   string
	rendered string
	seq      int
	hasOut   bool
}

// NewMathView creates an empty view over ts.
func NewMathView(ts *mathtext.Typesetter) MathView {
	return MathView{ts: ts, id: mathViewIDs.Add(1)}
}

// Init starts polling for typesetter readiness.
func (m MathView) Init() tea.Cmd {
	if m.ts == nil || m.ts.Settled() {
		return nil
	}
	return m.poll()
}

func (m MathView) poll() tea.Cmd {
	id := m.id
	return tea.Tick(mathPollInterval, func(time.Time) tea.Msg { return mathPollMsg{id: id} })
}

func (m MathView) debounce() tea.Cmd {
	id, seq := m.id, m.seq
	return tea.Tick(mathDebounce, func(time.Time) tea.Msg { return mathDebounceMsg{id: id, seq: seq} })
}

// SetContent replaces the source text. Setting the current text again is
// a no-op.
func (m MathView) SetContent(text string) (MathView, tea.Cmd) {
	if text == m.source && m.seq > 0 {
		return m, nil
	}
	m.source = text
	m.seq++
	m.hasOut = false
	return m, m.debounce()
}

// Source returns the text last passed to SetContent.
func (m MathView) Source() string { return m.source }

// Update handles the view's own messages and ignores everything else.
func (m MathView) Update(msg tea.Msg) (MathView, tea.Cmd) {
	switch msg := msg.(type) {
	case mathPollMsg:
		if msg.id != m.id || m.ts == nil {
			return m, nil
		}
		if !m.ts.Settled() {
			return m, m.poll()
		}
		if m.ts.Ready() && m.source != "" {
			m.seq++
			return m, m.debounce()
		}

	case mathDebounceMsg:
		if msg.id != m.id || msg.seq != m.seq || m.ts == nil || !m.ts.Ready() {
			return m, nil
		}
		ts, src, id, seq := m.ts, m.source, m.id, m.seq
		return m, func() tea.Msg {
			return mathRenderedMsg{id: id, seq: seq, out: ts.Render(src)}
		}

	case mathRenderedMsg:
		if msg.id == m.id && msg.seq == m.seq {
			m.rendered = msg.out
			m.hasOut = true
		}
	}
	return m, nil
}

// View returns the typeset text, or the normalized source while no
// typeset output is available.
func (m MathView) View() string {
	if m.hasOut {
		return m.rendered
	}
	return mathtext.Normalize(m.source)
}
