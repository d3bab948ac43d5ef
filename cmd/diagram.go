package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/olympiadforge/forge/internal/diagram"
	"github.com/olympiadforge/forge/internal/problemgen"
)

var diagramCmd = &cobra.Command{
	Use:   "diagram [file]",
	Short: "Draw a JSXGraph diagram source in the terminal",
	Long: `Run a JSXGraph construction and draw it. The source comes from a saved
problem (--id), a file, or stdin. With --svg the drawing is written as SVG.`,
	Example: `  forge diagram --id 0192...
  forge diagram triangle.js --svg triangle.svg`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := diagramSource(cmd, args)
		if err != nil {
			return err
		}
		if source == problemgen.DiagramParseError {
			return errors.New("the saved diagram could not be parsed when it was generated")
		}

		surface := diagram.Run(source, diagram.DefaultTimeout)

		svgPath, _ := cmd.Flags().GetString("svg")
		if svgPath != "" {
			if err := os.WriteFile(svgPath, []byte(surface.SVG()), 0o644); err != nil {
				return fmt.Errorf("write svg: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", svgPath)
		} else {
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			fmt.Fprintln(cmd.OutOrStdout(), surface.Plot(width, height))
		}

		if surface.Err != nil {
			return fmt.Errorf("diagram: %w", surface.Err)
		}
		return nil
	},
}

func init() {
	diagramCmd.Flags().String("id", "", "Draw the diagram of a saved problem")
	diagramCmd.Flags().String("svg", "", "Write SVG to this file instead of drawing")
	diagramCmd.Flags().Int("width", 60, "Plot width in columns")
	diagramCmd.Flags().Int("height", 30, "Plot height in rows")
}

func diagramSource(cmd *cobra.Command, args []string) (string, error) {
	id, _ := cmd.Flags().GetString("id")
	switch {
	case id != "":
		d, err := openDeps(cmd)
		if err != nil {
			return "", err
		}
		defer d.Close()
		p, ok := d.library.Get(id)
		if !ok {
			return "", fmt.Errorf("problem %s not found", id)
		}
		if p.JSXGraphCode == "" {
			return "", fmt.Errorf("problem %s has no diagram", id)
		}
		return p.JSXGraphCode, nil

	case len(args) == 1 && args[0] != "-":
		data, err := os.ReadFile(args[0])
		return string(data), err

	case stdinIsPiped() || len(args) == 1:
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	return "", errors.New("no diagram source: pass --id, a file, or pipe it on stdin")
}
