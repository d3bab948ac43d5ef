package problemgen

import (
	"fmt"
	"strings"

	"github.com/olympiadforge/forge/internal/library"
)

// SystemInstruction is the fixed preamble sent with every call.
const SystemInstruction = `You are a world-class Mathematical Olympiad coach and problem setter, specializing in the IMO (International Mathematical Olympiad).
Your task is to assist in creating, refining, and verifying extremely high-level mathematics problems.

Key responsibilities:
1. **Problem Setting**: Create original, non-trivial problems in Algebra, Combinatorics, Geometry, and Number Theory.
2. **Hardness**: Ensure problems are not just computational but require deep insight, ingenuity, and creative leaps typical of IMO Q3 or Q6.
3. **Formalization**: When asked, translate rough sketches into precise problem statements.
4. **Logic & Solutions**: Provide rigorous, step-by-step proofs. Identify potential logical gaps.

**CRITICAL OUTPUT FORMAT RULES:**
- **Math Formatting**: You MUST use LaTeX for all mathematical expressions.
  - Use ` + "`$`" + ` for inline math (e.g., $f(x) = x^2$).
  - Use ` + "`$$`" + ` for display/block math (e.g., $$ \sum_{i=1}^n i = \frac{n(n+1)}{2} $$).
- **Do NOT** use Markdown code blocks (like ` + "```latex" + `) for math equations. Just write the raw LaTeX delimiters directly in the text.
- **Do NOT** use ` + "`\\(`" + ` or ` + "`\\[`" + ` delimiters; strictly use ` + "`$`" + ` and ` + "`$$`" + `.
- **Structure**: Use clear Markdown headers (e.g. ### Problem, ### Solution) for structure, but keep math in LaTeX.
- For Lean code, use ` + "```lean ... ```" + `.
- For JSXGraph code, strictly output valid JavaScript code without markdown fences if asked for raw code, or inside ` + "```javascript```" + ` if part of a larger response.
- For Asymptote code, use ` + "```asy```" + `.`

// Style carries the author's notation preferences. A nil *Style omits the
// style block entirely; empty fields fall back to the standard conventions.
type Style struct {
	Notation           string
	GeometryConvention string
}

// IdeaParams are the inputs of a fresh generation.
type IdeaParams struct {
	Topic      library.Topic
	Difficulty library.Difficulty
	Focus      string
	Style      *Style
}

func styleBlock(s *Style) string {
	if s == nil {
		return ""
	}
	notation := strings.TrimSpace(s.Notation)
	if notation == "" {
		notation = "Standard IMO"
	}
	convention := strings.TrimSpace(s.GeometryConvention)
	if convention == "" {
		convention = "Standard"
	}

	var b strings.Builder
	b.WriteString("Style Constraints:\n")
	fmt.Fprintf(&b, "- Notation Preference: %s\n", notation)
	fmt.Fprintf(&b, "- Geometry Convention: %s\n", convention)
	return b.String()
}

// IdeaPrompt asks for a new problem in the given topic and difficulty.
func IdeaPrompt(p IdeaParams) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a unique IMO-level problem in %s.\n", p.Topic)
	fmt.Fprintf(&b, "Difficulty level: %s.\n", p.Difficulty)
	if focus := strings.TrimSpace(p.Focus); focus != "" {
		fmt.Fprintf(&b, "Focus specifically on: %s.\n", focus)
	}
	if s := styleBlock(p.Style); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}

	b.WriteString("\nThe problem should be novel, or a clever disguise of a known result.\n")
	b.WriteString("Provide the problem title and the statement clearly in LaTeX.\n")
	b.WriteString("\nFormat:\n")
	b.WriteString("**Title**: [Title]\n")
	b.WriteString("**Statement**: [Problem Statement]\n")
	b.WriteString("**Concept**: [Brief explanation of the core idea]\n")

	return b.String()
}

// SketchPrompt asks the model to formalize a rough idea.
func SketchPrompt(sketch string, style *Style) string {
	var b strings.Builder

	b.WriteString("The user has provided a rough sketch, idea, or configuration for a math problem:\n")
	fmt.Fprintf(&b, "\"%s\"\n", sketch)
	if s := styleBlock(style); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}

	b.WriteString("\n1. Analyze this idea. Is it well-defined? Does it correspond to a known theorem?\n")
	b.WriteString("2. Formalize this into a rigorous IMO-style problem statement.\n")
	b.WriteString("3. If the original idea is too simple, suggest a generalization or a harder variant suitable for an Olympiad.\n")
	b.WriteString("4. Provide the result in the standard format.\n")
	b.WriteString("\nFormat:\n")
	b.WriteString("**Title**: [Proposed Title]\n")
	b.WriteString("**Statement**: [Formal Problem Statement in LaTeX]\n")
	b.WriteString("**Notes**: [Comments on how the sketch was adapted/formalized]\n")

	return b.String()
}

// RefinePrompt asks for a rewrite of statement following instruction.
func RefinePrompt(statement, instruction string) string {
	var b strings.Builder

	b.WriteString("Current Problem Statement:\n")
	b.WriteString(statement)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Request: %s\n", instruction)
	b.WriteString("\nPlease rewrite the problem statement based on the request.\n")
	b.WriteString("Then, provide a brief commentary on what changed and why it improves the problem or meets the criteria.\n")

	return b.String()
}

// SolutionPrompt asks for a proof and a Lean 4 formalization, separated by
// the solution markers.
func SolutionPrompt(statement string) string {
	var b strings.Builder

	b.WriteString("For the following problem:\n")
	b.WriteString(statement)
	b.WriteString("\n\n")
	b.WriteString("1. Provide a rigorous, step-by-step proof suitable for an official IMO solution booklet. Use $$ for display math.\n")
	b.WriteString("2. Provide the problem statement formalized in Lean 4 syntax (as a 'theorem' or 'example'). If possible, outline the proof structure in Lean comments.\n")
	b.WriteString("\nOutput format:\n")
	fmt.Fprintf(&b, "%s\n[Full Proof Here]\n%s\n[Lean 4 Code Here]\n", MarkerSolution, MarkerLean)

	return b.String()
}

// SimilarsPrompt asks for known competition problems resembling statement.
func SimilarsPrompt(statement string) string {
	var b strings.Builder

	b.WriteString("Search your internal knowledge base for Math Olympiad problems (IMO, USAMO, RMM, etc.) that are similar to this one:\n")
	b.WriteString(statement)
	b.WriteString("\n\n")
	b.WriteString("1. List any problems that share the same configuration or core idea.\n")
	b.WriteString("2. Judge if this problem is \"Too Known\" or \"Standard\".\n")
	b.WriteString("3. If it is a known theorem (e.g., Miquel Point, Simson Line), state it.\n")

	return b.String()
}

// StressTestPrompt asks for an edge-case and ambiguity review of statement.
func StressTestPrompt(statement string) string {
	var b strings.Builder

	b.WriteString("Perform a logical stress test on this problem:\n")
	b.WriteString(statement)
	b.WriteString("\n\n")
	b.WriteString("1. Edge Cases: Check n=1, n=2, degenerate triangles, zero denominators, etc.\n")
	b.WriteString("2. Sufficiency vs Necessity: Did the author confuse \"if\" with \"if and only if\"?\n")
	b.WriteString("3. Ambiguity: Are there multiple interpretations?\n")
	b.WriteString("4. Triviality: Is the answer obvious?\n")

	return b.String()
}

// DiagramPrompt asks for JSXGraph board code and Asymptote source,
// separated by the diagram markers.
func DiagramPrompt(statement string) string {
	var b strings.Builder

	b.WriteString("For the following geometry problem:\n")
	b.WriteString(statement)
	b.WriteString("\n\n")
	b.WriteString("1. Generate JSXGraph JavaScript code to render an interactive diagram.\n")
	b.WriteString("   - Assume a 'board' object is already created with id 'jxgbox'.\n")
	b.WriteString("   - Use 'board.create(...)' to add points, lines, circles.\n")
	b.WriteString("   - Try to make the construction dynamic (dependent points).\n")
	b.WriteString("   - Do not wrap in a function, just provide the lines of code to add elements to 'board'.\n")
	b.WriteString("   - Do NOT include `const board = JXG.JSXGraph.initBoard...` initialization.\n")
	b.WriteString("\n2. Generate Asymptote (asy) code for a static, high-quality printable diagram.\n")
	b.WriteString("\nOutput Format:\n")
	fmt.Fprintf(&b, "%s\n[JavaScript Code for board content only]\n%s\n[Asymptote Code]\n", MarkerJSX, MarkerAsy)

	return b.String()
}
