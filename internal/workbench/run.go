package workbench

import (
	"context"

	"github.com/olympiadforge/forge/internal/problemgen"
)

// Execute performs the model calls for t. It never fails: generation
// errors are already folded into displayable fallback text by gen.
func Execute(ctx context.Context, gen problemgen.Generator, t Ticket) Result {
	r := Result{Ticket: t}
	style := t.Style

	switch t.Action {
	case ActionGenerate:
		r.Text = gen.Idea(ctx, problemgen.IdeaParams{
			Topic:      t.Topic,
			Difficulty: t.Difficulty,
			Focus:      t.Focus,
			Style:      &style,
		})

	case ActionSketch:
		r.Text = gen.Sketch(ctx, t.Sketch, &style)

	case ActionRefine:
		r.Text = gen.Refine(ctx, t.Statement, t.Instruction)

	case ActionDetails:
		r.Solution = gen.Solution(ctx, t.Statement)
		if NeedsDiagram(t.Topic, t.Statement) {
			d := gen.Diagrams(ctx, t.Statement)
			r.Diagrams = &d
		}

	case ActionVerify:
		r.Similars = gen.Similars(ctx, t.Statement)
		r.StressTest = gen.StressTest(ctx, t.Statement)
	}
	return r
}
