// Package workbench holds the state of one ideation session: the inputs,
// the current statement and everything generated for it.
package workbench

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/problemgen"
)

// Mode selects how a statement is produced.
type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeSketch   Mode = "sketch"
)

// Tab is the output panel in focus.
type Tab int

const (
	TabPreview Tab = iota
	TabSolution
	TabLean
	TabVerification
	TabDiagram
)

var tabNames = [...]string{"Preview", "Solution", "Lean 4", "Verification", "Diagram"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "?"
	}
	return tabNames[t]
}

// Tabs lists the panels in display order.
var Tabs = []Tab{TabPreview, TabSolution, TabLean, TabVerification, TabDiagram}

// Action is a generation step a session can run.
type Action string

const (
	ActionGenerate Action = "generate"
	ActionSketch   Action = "sketch"
	ActionRefine   Action = "refine"
	ActionDetails  Action = "details"
	ActionVerify   Action = "verify"
)

var (
	// ErrBusy is returned while another action is in flight.
	ErrBusy = errors.New("a generation is already running")
	// ErrNoInput is returned when the action has nothing to work on.
	ErrNoInput = errors.New("nothing to work on")
)

// State is the ideation session record. Input fields are edited directly;
// generated fields change only through Begin and Apply.
type State struct {
	Mode       Mode
	Topic      library.Topic
	Difficulty library.Difficulty
	Focus      string
	Style      problemgen.Style
	Sketch     string
	Refinement string

	Statement  string
	Solution   string
	Lean       string
	Similars   string
	StressTest string
	JSXGraph   string
	Asymptote  string
	Tab        Tab

	busy  Action
	token uint64
}

// New returns a session with the default inputs.
func New() *State {
	return &State{
		Mode:       ModeGenerate,
		Topic:      library.TopicNumberTheory,
		Difficulty: library.DifficultyMedium,
		token:      1,
	}
}

// Busy reports whether an action is in flight.
func (s *State) Busy() bool { return s.busy != "" }

// Running returns the in-flight action, or "".
func (s *State) Running() Action { return s.busy }

// Token identifies the current session generation. Results carrying an
// older token are ignored.
func (s *State) Token() uint64 { return s.token }

// Ticket is a snapshot of the inputs an action runs with.
type Ticket struct {
	Action Action
	Token  uint64

	Topic       library.Topic
	Difficulty  library.Difficulty
	Focus       string
	Style       problemgen.Style
	Sketch      string
	Statement   string
	Instruction string
}

// Begin marks the session busy with a and returns the inputs to run it
// with. Generate and sketch clear previous outputs right away.
func (s *State) Begin(a Action) (Ticket, error) {
	if s.Busy() {
		return Ticket{}, ErrBusy
	}

	t := Ticket{
		Action:     a,
		Token:      s.token,
		Topic:      s.Topic,
		Difficulty: s.Difficulty,
		Focus:      s.Focus,
		Style:      s.Style,
		Sketch:     s.Sketch,
		Statement:  s.Statement,
	}

	switch a {
	case ActionGenerate:
	case ActionSketch:
		if strings.TrimSpace(s.Sketch) == "" {
			return Ticket{}, ErrNoInput
		}
	case ActionRefine:
		if s.Statement == "" || strings.TrimSpace(s.Refinement) == "" {
			return Ticket{}, ErrNoInput
		}
		t.Instruction = s.Refinement
	case ActionDetails, ActionVerify:
		if strings.TrimSpace(s.Statement) == "" {
			return Ticket{}, ErrNoInput
		}
	default:
		return Ticket{}, errors.New("unknown action " + string(a))
	}

	if a == ActionGenerate || a == ActionSketch {
		s.resetOutputs()
	}
	s.busy = a
	return t, nil
}

// Result carries what an action produced.
type Result struct {
	Ticket Ticket

	Text       string
	Solution   problemgen.SolutionResult
	Diagrams   *problemgen.DiagramResult
	Similars   string
	StressTest string
}

// Apply stores a result. It returns false, changing nothing, when the
// result belongs to an earlier session generation.
func (s *State) Apply(r Result) bool {
	if r.Ticket.Token != s.token {
		return false
	}
	s.busy = ""

	switch r.Ticket.Action {
	case ActionGenerate, ActionSketch:
		s.Statement = r.Text

	case ActionRefine:
		// Verification results are kept across refinement.
		s.Statement = r.Text
		s.Refinement = ""
		s.Solution, s.Lean = "", ""
		s.JSXGraph, s.Asymptote = "", ""
		if s.Tab == TabSolution || s.Tab == TabLean || s.Tab == TabDiagram {
			s.Tab = TabPreview
		}

	case ActionDetails:
		s.Solution = r.Solution.Solution
		s.Lean = r.Solution.Lean
		if r.Diagrams != nil {
			s.JSXGraph = r.Diagrams.JSXGraph
			s.Asymptote = r.Diagrams.Asymptote
		}
		s.Tab = TabSolution

	case ActionVerify:
		s.Similars = r.Similars
		s.StressTest = r.StressTest
		s.Tab = TabVerification
	}
	return true
}

// Reset starts a new session generation. In-flight results are dropped
// when they arrive.
func (s *State) Reset() {
	s.token++
	s.busy = ""
	s.Statement = ""
	s.Refinement = ""
	s.resetOutputs()
}

func (s *State) resetOutputs() {
	s.Solution, s.Lean = "", ""
	s.Similars, s.StressTest = "", ""
	s.JSXGraph, s.Asymptote = "", ""
	s.Tab = TabPreview
}

// HasDiagram reports whether a diagram source is available.
func (s *State) HasDiagram() bool {
	return strings.TrimSpace(s.JSXGraph) != "" && s.JSXGraph != problemgen.DiagramParseError
}

var titleLine = regexp.MustCompile(`\*\*Title\*\*:\s*(.*)`)

// ExtractTitle returns the text after the first "**Title**:" marker.
func ExtractTitle(statement string) (string, bool) {
	m := titleLine.FindStringSubmatch(statement)
	if m == nil {
		return "", false
	}
	title := strings.TrimSpace(m[1])
	return title, title != ""
}

// NeedsDiagram reports whether details generation should include diagrams.
func NeedsDiagram(topic library.Topic, statement string) bool {
	if topic == library.TopicGeometry {
		return true
	}
	lower := strings.ToLower(statement)
	return strings.Contains(lower, "triangle") || strings.Contains(lower, "circle")
}

// BuildProblem turns the session into a Draft library record.
func (s *State) BuildProblem(now time.Time) (library.Problem, error) {
	if strings.TrimSpace(s.Statement) == "" {
		return library.Problem{}, ErrNoInput
	}

	topic, difficulty := s.Topic, s.Difficulty
	fallback := string(s.Topic) + " Problem"
	if s.Mode == ModeSketch {
		topic, difficulty = library.TopicAlgebra, library.DifficultyMedium
		fallback = "Custom Problem"
	}

	title, ok := ExtractTitle(s.Statement)
	if !ok {
		title = fallback
	}

	return library.Problem{
		ID:            library.NewID(),
		Title:         title,
		Statement:     s.Statement,
		Topic:         topic,
		Difficulty:    difficulty,
		Status:        library.StatusDraft,
		Solution:      s.Solution,
		LeanCode:      s.Lean,
		JSXGraphCode:  s.JSXGraph,
		AsymptoteCode: s.Asymptote,
		Similars:      s.Similars,
		StressTest:    s.StressTest,
		Created:       now.UnixMilli(),
		Tags:          []string{string(s.Mode)},
	}, nil
}
