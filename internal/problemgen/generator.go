package problemgen

import "context"

// Generator produces problem material with a language model. Every method
// returns displayable text even when the model call fails.
type Generator interface {
	// Idea drafts a new problem for the given parameters.
	Idea(ctx context.Context, p IdeaParams) string

	// Sketch formalizes a rough idea into a problem statement.
	Sketch(ctx context.Context, sketch string, style *Style) string

	// Refine rewrites statement following instruction.
	Refine(ctx context.Context, statement, instruction string) string

	// Solution returns a proof and a Lean 4 formalization.
	Solution(ctx context.Context, statement string) SolutionResult

	// Similars lists known problems resembling statement.
	Similars(ctx context.Context, statement string) string

	// StressTest reviews statement for edge cases and ambiguity.
	StressTest(ctx context.Context, statement string) string

	// Diagrams returns JSXGraph and Asymptote sources for statement.
	Diagrams(ctx context.Context, statement string) DiagramResult
}

// SolutionResult holds the two sections of a solution response.
type SolutionResult struct {
	Solution string
	Lean     string
}

// DiagramResult holds the two sections of a diagram response.
type DiagramResult struct {
	JSXGraph  string
	Asymptote string
}
