package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/mathtext"
	"github.com/olympiadforge/forge/internal/problemgen"
	"github.com/olympiadforge/forge/internal/workbench"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new problem",
	Example: `  forge generate --topic geometry --difficulty easy
  forge generate -t nt -d hard --focus "p-adic valuations" --details --save`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := workbench.New()
		if err := readIdeaFlags(cmd, s); err != nil {
			return err
		}
		return runSession(cmd, s, workbench.ActionGenerate, "")
	},
}

var sketchCmd = &cobra.Command{
	Use:   "sketch [idea...]",
	Short: "Formalize a rough idea into a problem statement",
	Long:  "Formalize a rough idea into a problem statement. The idea is read from the arguments, or from stdin when none are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := argsOrStdin(args)
		if err != nil {
			return err
		}
		s := workbench.New()
		s.Mode = workbench.ModeSketch
		s.Sketch = text
		readStyleFlags(cmd, s)
		return runSession(cmd, s, workbench.ActionSketch, "")
	},
}

var refineCmd = &cobra.Command{
	Use:   "refine <instruction...>",
	Short: "Rewrite a statement following an instruction",
	Example: `  forge refine --id 0192... "make the bound sharp"
  cat problem.md | forge refine "generalize to n points"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStatement(cmd, nil, func(s *workbench.State, id string) error {
			s.Refinement = strings.Join(args, " ")
			return runSession(cmd, s, workbench.ActionRefine, id)
		})
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve [statement...]",
	Short: "Write a solution and Lean 4 formalization",
	Long: `Write a solution and Lean 4 formalization. Geometry problems, and any
statement mentioning a triangle or circle, also get JSXGraph and Asymptote
diagram sources.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStatement(cmd, args, func(s *workbench.State, id string) error {
			return runSession(cmd, s, workbench.ActionDetails, id)
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [statement...]",
	Short: "Search for similar problems and stress-test a statement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStatement(cmd, args, func(s *workbench.State, id string) error {
			return runSession(cmd, s, workbench.ActionVerify, id)
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, sketchCmd, refineCmd, solveCmd, verifyCmd} {
		c.Flags().Bool("render", false, "Typeset the output for the terminal")
		c.Flags().Bool("save", false, "Save the result to the library")
	}
	for _, c := range []*cobra.Command{generateCmd, sketchCmd} {
		c.Flags().String("notation", "", "Notation preference, e.g. \"Use $\\mathbb{Z}^+$\"")
		c.Flags().String("convention", "", "Geometry convention, e.g. \"directed angles\"")
		c.Flags().Bool("details", false, "Also generate the solution and diagrams")
		c.Flags().Bool("verify", false, "Also run the similar-problem search and stress test")
	}
	generateCmd.Flags().StringP("topic", "t", string(library.TopicNumberTheory), "Topic: algebra, combinatorics, geometry or number-theory")
	generateCmd.Flags().StringP("difficulty", "d", "medium", "Difficulty: easy, medium or hard")
	generateCmd.Flags().StringP("focus", "f", "", "Optional focus, e.g. \"functional equations\"")

	for _, c := range []*cobra.Command{refineCmd, solveCmd, verifyCmd} {
		c.Flags().String("id", "", "Work on a saved problem")
		c.Flags().String("file", "", "Read the statement from a file (- for stdin)")
		c.Flags().StringP("topic", "t", "", "Topic of the statement (defaults to the saved problem's)")
	}
}

func readIdeaFlags(cmd *cobra.Command, s *workbench.State) error {
	topic, _ := cmd.Flags().GetString("topic")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	focus, _ := cmd.Flags().GetString("focus")

	var err error
	if s.Topic, err = parseTopic(topic); err != nil {
		return err
	}
	if s.Difficulty, err = parseDifficulty(difficulty); err != nil {
		return err
	}
	s.Focus = focus
	readStyleFlags(cmd, s)
	return nil
}

func readStyleFlags(cmd *cobra.Command, s *workbench.State) {
	s.Style.Notation, _ = cmd.Flags().GetString("notation")
	s.Style.GeometryConvention, _ = cmd.Flags().GetString("convention")
}

// argsOrStdin joins args, or reads stdin when there are none.
func argsOrStdin(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if !stdinIsPiped() {
		return "", errors.New("no input: pass it as arguments or pipe it on stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// withStatement loads the statement from --id, --file, args or stdin into
// a fresh session. With --id the saved problem's outputs are loaded too
// and run receives its id.
func withStatement(cmd *cobra.Command, args []string, run func(s *workbench.State, id string) error) error {
	id, _ := cmd.Flags().GetString("id")
	file, _ := cmd.Flags().GetString("file")
	topic, _ := cmd.Flags().GetString("topic")

	s := workbench.New()
	switch {
	case id != "":
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		p, ok := d.library.Get(id)
		d.Close()
		if !ok {
			return fmt.Errorf("problem %s not found", id)
		}
		loadProblem(s, p)
	case file == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		s.Statement = string(data)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		s.Statement = string(data)
	default:
		text, err := argsOrStdin(args)
		if err != nil {
			return err
		}
		s.Statement = text
	}

	if topic != "" {
		t, err := parseTopic(topic)
		if err != nil {
			return err
		}
		s.Topic = t
	}
	return run(s, id)
}

func loadProblem(s *workbench.State, p library.Problem) {
	s.Topic = p.Topic
	s.Difficulty = p.Difficulty
	s.Statement = p.Statement
	s.Solution = p.Solution
	s.Lean = p.LeanCode
	s.JSXGraph = p.JSXGraphCode
	s.Asymptote = p.AsymptoteCode
	s.Similars = p.Similars
	s.StressTest = p.StressTest
	if p.HasTag(string(workbench.ModeSketch)) {
		s.Mode = workbench.ModeSketch
	}
}

// runSession runs action, then the follow-up steps the flags ask for, and
// prints what was produced. A non-empty savedID is the library problem
// --save updates.
func runSession(cmd *cobra.Command, s *workbench.State, action workbench.Action, savedID string) error {
	ctx := cmd.Context()
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	gen, _, err := d.generator(ctx)
	if err != nil {
		return err
	}

	steps := []workbench.Action{action}
	if details, _ := cmd.Flags().GetBool("details"); details {
		steps = append(steps, workbench.ActionDetails)
	}
	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		steps = append(steps, workbench.ActionVerify)
	}

	for _, a := range steps {
		if err := step(ctx, gen, s, a); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	render, _ := cmd.Flags().GetBool("render")
	if err := printSession(ctx, out, s, steps, render); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		return saveSession(ctx, out, d.library, s, savedID)
	}
	return nil
}

func step(ctx context.Context, gen problemgen.Generator, s *workbench.State, a workbench.Action) error {
	ticket, err := s.Begin(a)
	if err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	s.Apply(workbench.Execute(ctx, gen, ticket))
	return nil
}

func printSession(ctx context.Context, w io.Writer, s *workbench.State, steps []workbench.Action, render bool) error {
	var b strings.Builder
	for _, a := range steps {
		switch a {
		case workbench.ActionGenerate, workbench.ActionSketch, workbench.ActionRefine:
			b.WriteString(s.Statement + "\n")
		case workbench.ActionDetails:
			fmt.Fprintf(&b, "\n## Solution\n\n%s\n\n## Lean 4\n\n```lean\n%s\n```\n", s.Solution, s.Lean)
			if s.JSXGraph != "" {
				fmt.Fprintf(&b, "\n## JSXGraph\n\n```javascript\n%s\n```\n", s.JSXGraph)
			}
			if s.Asymptote != "" {
				fmt.Fprintf(&b, "\n## Asymptote\n\n```asy\n%s\n```\n", s.Asymptote)
			}
		case workbench.ActionVerify:
			fmt.Fprintf(&b, "\n## Similar Problems\n\n%s\n\n## Stress Test\n\n%s\n", s.Similars, s.StressTest)
		}
	}

	text := b.String()
	if render {
		ts := mathtext.NewTypesetter(mathtext.Options{Width: settings.RenderWidth, Style: settings.RenderStyle}, nil)
		wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := ts.Wait(wctx); err == nil {
			text = ts.Render(text)
		}
	}
	_, err := io.WriteString(w, text)
	return err
}

// saveSession stores the session as a new problem, or updates the saved
// problem the session was loaded from.
func saveSession(ctx context.Context, w io.Writer, lib *library.Library, s *workbench.State, savedID string) error {
	p, err := s.BuildProblem(time.Now())
	if err != nil {
		return err
	}

	if savedID != "" {
		if err := updateProblem(ctx, lib, savedID, p); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nUpdated %s\n", savedID)
		return nil
	}

	created, err := lib.Create(ctx, p)
	if err != nil {
		return fmt.Errorf("save problem: %w", err)
	}
	fmt.Fprintf(w, "\nSaved %q as %s\n", created.Title, created.ID)
	return nil
}

// updateProblem replaces the generated fields of the saved problem id with
// those of p, keeping its id, title, status, tags, notes and creation time.
func updateProblem(ctx context.Context, lib *library.Library, id string, p library.Problem) error {
	all := lib.All()
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Statement = p.Statement
		all[i].Solution = p.Solution
		all[i].LeanCode = p.LeanCode
		all[i].JSXGraphCode = p.JSXGraphCode
		all[i].AsymptoteCode = p.AsymptoteCode
		all[i].Similars = p.Similars
		all[i].StressTest = p.StressTest
		return lib.Replace(ctx, all)
	}
	return fmt.Errorf("problem %s not found", id)
}
