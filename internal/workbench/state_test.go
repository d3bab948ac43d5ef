package workbench

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/llm"
	"github.com/olympiadforge/forge/internal/problemgen"
)

func newForge(responses ...llm.MockResponse) (*problemgen.Forge, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return problemgen.New(mock, problemgen.DefaultConfig(), nil), mock
}

func TestBegin_RefusesWhileBusy(t *testing.T) {
	s := New()
	if _, err := s.Begin(ActionGenerate); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if !s.Busy() || s.Running() != ActionGenerate {
		t.Fatal("expected busy session")
	}
	if _, err := s.Begin(ActionGenerate); !errors.Is(err, ErrBusy) {
		t.Fatalf("second begin err = %v, want ErrBusy", err)
	}
}

func TestBegin_Preconditions(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*State)
		action Action
	}{
		{"empty sketch", func(s *State) { s.Sketch = "  " }, ActionSketch},
		{"refine without statement", func(s *State) { s.Refinement = "harder" }, ActionRefine},
		{"refine without instruction", func(s *State) { s.Statement = "P" }, ActionRefine},
		{"details without statement", func(*State) {}, ActionDetails},
		{"verify without statement", func(*State) {}, ActionVerify},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.setup(s)
			if _, err := s.Begin(tt.action); !errors.Is(err, ErrNoInput) {
				t.Errorf("err = %v, want ErrNoInput", err)
			}
			if s.Busy() {
				t.Error("refused action must not mark the session busy")
			}
		})
	}
}

func TestGenerateFlow(t *testing.T) {
	gen, mock := newForge(llm.MockResponse{Text: "**Title**: Odd Sums\nProve that..."})
	s := New()
	s.Topic = library.TopicGeometry
	s.Difficulty = library.DifficultyEasy
	s.Solution = "old"

	ticket, err := s.Begin(ActionGenerate)
	if err != nil {
		t.Fatal(err)
	}
	if s.Solution != "" {
		t.Error("generate should clear previous outputs immediately")
	}

	if !s.Apply(Execute(context.Background(), gen, ticket)) {
		t.Fatal("result was dropped")
	}
	if s.Busy() {
		t.Error("session still busy")
	}
	if !strings.HasPrefix(s.Statement, "**Title**: Odd Sums") {
		t.Errorf("statement = %q", s.Statement)
	}

	req, _ := mock.LastCall()
	prompt := req.Messages[0].Content
	if !strings.Contains(prompt, "Geometry") || !strings.Contains(prompt, "IMO SL C1/G1") {
		t.Errorf("prompt missing topic or difficulty: %q", prompt)
	}
	if strings.Contains(prompt, "Focus specifically on") {
		t.Error("blank focus should not produce a focus clause")
	}
}

func TestStaleResultIsDropped(t *testing.T) {
	gen, _ := newForge(llm.MockResponse{Text: "late result"})
	s := New()

	ticket, err := s.Begin(ActionGenerate)
	if err != nil {
		t.Fatal(err)
	}
	s.Reset()

	if s.Apply(Execute(context.Background(), gen, ticket)) {
		t.Fatal("stale result should be rejected")
	}
	if s.Statement != "" {
		t.Errorf("statement = %q, want empty", s.Statement)
	}
	if s.Busy() {
		t.Error("reset should clear the busy flag")
	}
}

func TestRefineResetsDerivedFieldsButKeepsVerification(t *testing.T) {
	gen, mock := newForge(llm.MockResponse{Text: "refined statement"})
	s := New()
	s.Statement = "original"
	s.Refinement = "make it harder"
	s.Solution, s.Lean = "sol", "lean"
	s.JSXGraph, s.Asymptote = "jsx", "asy"
	s.Similars, s.StressTest = "similar", "stress"
	s.Tab = TabLean

	ticket, err := s.Begin(ActionRefine)
	if err != nil {
		t.Fatal(err)
	}
	s.Apply(Execute(context.Background(), gen, ticket))

	if s.Statement != "refined statement" || s.Refinement != "" {
		t.Errorf("statement=%q refinement=%q", s.Statement, s.Refinement)
	}
	if s.Solution != "" || s.Lean != "" || s.JSXGraph != "" || s.Asymptote != "" {
		t.Error("refinement should clear solution, lean and diagrams")
	}
	if s.Similars != "similar" || s.StressTest != "stress" {
		t.Error("refinement should keep verification results")
	}
	if s.Tab != TabPreview {
		t.Errorf("tab = %v, want preview", s.Tab)
	}

	req, _ := mock.LastCall()
	if !strings.Contains(req.Messages[0].Content, "make it harder") {
		t.Error("refine prompt missing instruction")
	}
}

func TestDetails_GeometryAddsDiagrams(t *testing.T) {
	gen, mock := newForge(
		llm.MockResponse{Text: "SPLIT_MARKER_SOLUTION\nProof here\nSPLIT_MARKER_LEAN\n```lean\ntheorem t := by sorry\n```"},
		llm.MockResponse{Text: "SPLIT_MARKER_JSX\n```javascript\nboard.create('point',[0,0]);\n```\nSPLIT_MARKER_ASY\n```asy\ndraw(unitcircle);\n```"},
	)
	s := New()
	s.Topic = library.TopicNumberTheory
	s.Statement = "Let ABC be a triangle."

	ticket, err := s.Begin(ActionDetails)
	if err != nil {
		t.Fatal(err)
	}
	s.Apply(Execute(context.Background(), gen, ticket))

	if mock.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2", mock.CallCount())
	}
	if s.Solution != "Proof here" || s.Lean != "theorem t := by sorry" {
		t.Errorf("solution=%q lean=%q", s.Solution, s.Lean)
	}
	if s.JSXGraph != "board.create('point',[0,0]);" || s.Asymptote != "draw(unitcircle);" {
		t.Errorf("jsx=%q asy=%q", s.JSXGraph, s.Asymptote)
	}
	if !s.HasDiagram() || s.Tab != TabSolution {
		t.Error("expected diagram and solution tab")
	}
}

func TestDetails_NoDiagramsForNonGeometry(t *testing.T) {
	gen, mock := newForge(llm.MockResponse{Text: "just a proof"})
	s := New()
	s.Topic = library.TopicAlgebra
	s.Statement = "Prove $a^2 \\ge 0$."

	ticket, _ := s.Begin(ActionDetails)
	s.Apply(Execute(context.Background(), gen, ticket))

	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
	if s.Solution != "just a proof" || s.Lean != problemgen.NoLeanSentinel {
		t.Errorf("solution=%q lean=%q", s.Solution, s.Lean)
	}
	if s.HasDiagram() {
		t.Error("expected no diagram")
	}
}

func TestVerifyFlow(t *testing.T) {
	gen, _ := newForge(
		llm.MockResponse{Text: "ISL 2010 N1"},
		llm.MockResponse{Text: "n = 1 breaks it"},
	)
	s := New()
	s.Statement = "Find all n."

	ticket, _ := s.Begin(ActionVerify)
	s.Apply(Execute(context.Background(), gen, ticket))

	if s.Similars != "ISL 2010 N1" || s.StressTest != "n = 1 breaks it" {
		t.Errorf("similars=%q stress=%q", s.Similars, s.StressTest)
	}
	if s.Tab != TabVerification {
		t.Errorf("tab = %v", s.Tab)
	}
}

func TestGenerationFailureShowsFallback(t *testing.T) {
	gen, _ := newForge(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	s := New()

	ticket, _ := s.Begin(ActionGenerate)
	s.Apply(Execute(context.Background(), gen, ticket))

	if s.Statement != problemgen.IdeaFailed {
		t.Errorf("statement = %q, want fallback", s.Statement)
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"**Title**: Sum of Cubes\n\nProve...", "Sum of Cubes", true},
		{"intro\n**Title**:   Spaced  \nbody", "Spaced", true},
		{"**Title**:\nNext Line", "Next Line", true},
		{"No title here", "", false},
		{"**Title**:   ", "", false},
	}
	for _, tt := range tests {
		got, ok := ExtractTitle(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ExtractTitle(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNeedsDiagram(t *testing.T) {
	tests := []struct {
		topic     library.Topic
		statement string
		want      bool
	}{
		{library.TopicGeometry, "anything", true},
		{library.TopicAlgebra, "Let ABC be a TRIANGLE", true},
		{library.TopicCombinatorics, "points on a circle", true},
		{library.TopicNumberTheory, "find all primes", false},
	}
	for _, tt := range tests {
		if got := NeedsDiagram(tt.topic, tt.statement); got != tt.want {
			t.Errorf("NeedsDiagram(%s, %q) = %v, want %v", tt.topic, tt.statement, got, tt.want)
		}
	}
}

func TestBuildProblem(t *testing.T) {
	now := time.UnixMilli(1712345678901)

	t.Run("generate mode", func(t *testing.T) {
		s := New()
		s.Topic = library.TopicCombinatorics
		s.Difficulty = library.DifficultyHard
		s.Statement = "**Title**: Grid Walks\nCount the walks."
		s.Solution = "Bijection."

		p, err := s.BuildProblem(now)
		if err != nil {
			t.Fatal(err)
		}
		if p.Title != "Grid Walks" || p.Topic != library.TopicCombinatorics || p.Difficulty != library.DifficultyHard {
			t.Errorf("got %+v", p)
		}
		if p.Status != library.StatusDraft || p.Created != now.UnixMilli() || p.ID == "" {
			t.Errorf("got %+v", p)
		}
		if len(p.Tags) != 1 || p.Tags[0] != "generate" || p.Solution != "Bijection." {
			t.Errorf("got %+v", p)
		}
		if err := library.Validate(p); err != nil {
			t.Errorf("built problem is invalid: %v", err)
		}
	})

	t.Run("generate mode fallback title", func(t *testing.T) {
		s := New()
		s.Statement = "Untitled statement."
		p, _ := s.BuildProblem(now)
		if p.Title != "Number Theory Problem" {
			t.Errorf("title = %q", p.Title)
		}
	})

	t.Run("sketch mode", func(t *testing.T) {
		s := New()
		s.Mode = ModeSketch
		s.Topic = library.TopicGeometry
		s.Difficulty = library.DifficultyHard
		s.Statement = "Formalized sketch."

		p, _ := s.BuildProblem(now)
		if p.Title != "Custom Problem" || p.Topic != library.TopicAlgebra || p.Difficulty != library.DifficultyMedium {
			t.Errorf("got %+v", p)
		}
		if p.Tags[0] != "sketch" {
			t.Errorf("tags = %v", p.Tags)
		}
	})

	t.Run("empty statement", func(t *testing.T) {
		if _, err := New().BuildProblem(now); !errors.Is(err, ErrNoInput) {
			t.Errorf("err = %v, want ErrNoInput", err)
		}
	})
}
