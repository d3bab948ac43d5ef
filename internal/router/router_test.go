package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/olympiadforge/forge/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
	closed  bool
	resumed int
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }
func (s *stubScreen) Close()                                  { s.closed = true }
func (s *stubScreen) Resume() tea.Cmd {
	s.resumed++
	return nil
}

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "library"}
	r := New(s1)

	s2 := &stubScreen{title: "forge"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "forge" {
		t.Errorf("expected active 'forge', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPopClosesAndResumes(t *testing.T) {
	s1 := &stubScreen{title: "library"}
	r := New(s1)

	s2 := &stubScreen{title: "forge"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "library" {
		t.Errorf("expected active 'library', got %q", r.Active().Title())
	}
	if !s2.closed {
		t.Error("popped screen was not closed")
	}
	if s1.resumed != 1 {
		t.Errorf("uncovered screen resumed %d times, want 1", s1.resumed)
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
	if s1.closed {
		t.Error("bottom screen must not be closed")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "welcome"}
	r := New(s1)

	s2 := &stubScreen{title: "home"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Depth() != 1 || r.Active().Title() != "home" {
		t.Errorf("depth=%d active=%q", r.Depth(), r.Active().Title())
	}
	if !s2.initRan || !s1.closed {
		t.Error("expected replaced screen closed and new screen initialized")
	}
}

func TestCloseAll(t *testing.T) {
	s1 := &stubScreen{title: "home"}
	s2 := &stubScreen{title: "forge"}
	r := New(s1)
	r.Push(s2)

	r.CloseAll()
	if !s1.closed || !s2.closed {
		t.Error("expected every screen closed")
	}
}
