package problemgen

import "github.com/olympiadforge/forge/internal/decompose"

// Config controls prompt budgets and how responses are decomposed.
type Config struct {
	// MaxTokens is the output token budget for every call. It must exceed
	// the largest thinking budget for providers that count thinking tokens
	// against the output budget.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0). Zero leaves
	// the provider default in place.
	Temperature float64

	// Thinking budgets per operation. Zero sends no hint.
	IdeaBudget     int
	SketchBudget   int
	RefineBudget   int
	SolutionBudget int

	// Section layouts of the two multi-part responses.
	Solution decompose.Sections
	Diagram  decompose.Sections
}

// Marker vocabulary shared by the prompts and the decomposer.
const (
	MarkerSolution = "SPLIT_MARKER_SOLUTION"
	MarkerLean     = "SPLIT_MARKER_LEAN"
	MarkerJSX      = "SPLIT_MARKER_JSX"
	MarkerAsy      = "SPLIT_MARKER_ASY"
)

// Sentinels stored when a response lacks its separator.
const (
	NoLeanSentinel    = "-- No Lean code generated successfully."
	DiagramParseError = "// Error parsing response"
)

// DefaultConfig returns the budgets and markers the prompts are written for.
func DefaultConfig() Config {
	return Config{
		MaxTokens:      16384,
		IdeaBudget:     4096,
		SketchBudget:   4096,
		RefineBudget:   2048,
		SolutionBudget: 8192,
		Solution: decompose.Sections{
			Lead:     MarkerSolution,
			Split:    MarkerLean,
			Sentinel: NoLeanSentinel,
			Fences:   []string{"lean"},
		},
		Diagram: decompose.Sections{
			Lead:     MarkerJSX,
			Split:    MarkerAsy,
			Sentinel: DiagramParseError,
			Fences:   []string{"asy"},
		},
	}
}

// jsxFences are stripped from the diagram's first section, which the
// section layout leaves untouched.
var jsxFences = []string{"javascript", "js"}
