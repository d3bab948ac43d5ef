package problemgen

import (
	"context"

	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/decompose"
	"github.com/olympiadforge/forge/internal/llm"
)

// Texts shown in place of model output when a call fails or comes back empty.
const (
	IdeaEmpty        = "Failed to generate problem."
	IdeaFailed       = "Error generating problem. Please check your API key or try again."
	SketchEmpty      = "Failed to process sketch."
	SketchFailed     = "Error processing sketch."
	RefineEmpty      = "Failed to refine problem."
	RefineFailed     = "Error refining problem."
	SimilarsEmpty    = "No similars found."
	SimilarsFailed   = "Error checking similars."
	StressTestEmpty  = "Stress test failed."
	StressTestFailed = "Error running stress test."
	SolutionFailed   = "Error generating solution."
	LeanFailed       = "-- Error"
)

// Forge implements Generator on top of a Client.
type Forge struct {
	client *Client
	config Config
}

var _ Generator = (*Forge)(nil)

// New creates a Forge backed by provider.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *Forge {
	return &Forge{client: NewClient(provider, cfg, log), config: cfg}
}

func (f *Forge) Idea(ctx context.Context, p IdeaParams) string {
	return f.client.Send(ctx, Call{
		Purpose:  PurposeIdea,
		Prompt:   IdeaPrompt(p),
		System:   SystemInstruction,
		Budget:   f.config.IdeaBudget,
		Fallback: IdeaFailed,
		Empty:    IdeaEmpty,
	})
}

func (f *Forge) Sketch(ctx context.Context, sketch string, style *Style) string {
	return f.client.Send(ctx, Call{
		Purpose:  PurposeSketch,
		Prompt:   SketchPrompt(sketch, style),
		System:   SystemInstruction,
		Budget:   f.config.SketchBudget,
		Fallback: SketchFailed,
		Empty:    SketchEmpty,
	})
}

func (f *Forge) Refine(ctx context.Context, statement, instruction string) string {
	return f.client.Send(ctx, Call{
		Purpose:  PurposeRefine,
		Prompt:   RefinePrompt(statement, instruction),
		System:   SystemInstruction,
		Budget:   f.config.RefineBudget,
		Fallback: RefineFailed,
		Empty:    RefineEmpty,
	})
}

// Solution splits the response at the Lean marker. A failed call yields
// the fixed error pair instead of a decomposition.
func (f *Forge) Solution(ctx context.Context, statement string) SolutionResult {
	raw, ok := f.client.Do(ctx, Call{
		Purpose: PurposeSolution,
		Prompt:  SolutionPrompt(statement),
		System:  SystemInstruction,
		Budget:  f.config.SolutionBudget,
	})
	if !ok {
		return SolutionResult{Solution: SolutionFailed, Lean: LeanFailed}
	}

	solution, lean, _ := f.config.Solution.Apply(raw)
	return SolutionResult{Solution: solution, Lean: lean}
}

func (f *Forge) Similars(ctx context.Context, statement string) string {
	return f.client.Send(ctx, Call{
		Purpose:  PurposeSimilars,
		Prompt:   SimilarsPrompt(statement),
		System:   SystemInstruction,
		Fallback: SimilarsFailed,
		Empty:    SimilarsEmpty,
	})
}

func (f *Forge) StressTest(ctx context.Context, statement string) string {
	return f.client.Send(ctx, Call{
		Purpose:  PurposeStressTest,
		Prompt:   StressTestPrompt(statement),
		System:   SystemInstruction,
		Fallback: StressTestFailed,
		Empty:    StressTestEmpty,
	})
}

// Diagrams splits the response at the Asymptote marker. When the marker is
// missing both sources become the parse-error sentinel; a failed call
// yields two empty sources.
func (f *Forge) Diagrams(ctx context.Context, statement string) DiagramResult {
	raw, ok := f.client.Do(ctx, Call{
		Purpose: PurposeDiagram,
		Prompt:  DiagramPrompt(statement),
		System:  SystemInstruction,
	})
	if !ok {
		return DiagramResult{}
	}

	jsx, asy, found := f.config.Diagram.Apply(raw)
	if !found {
		return DiagramResult{JSXGraph: f.config.Diagram.Sentinel, Asymptote: f.config.Diagram.Sentinel}
	}
	return DiagramResult{
		JSXGraph:  decompose.StripFences(jsx, jsxFences...),
		Asymptote: asy,
	}
}
