package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/atotto/clipboard"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/mathtext"
	"github.com/olympiadforge/forge/internal/screens/importer"
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage saved problems",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved problems, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		problems := d.library.All()
		if raw, _ := cmd.Flags().GetString("status"); raw != "" {
			status, err := parseStatus(raw)
			if err != nil {
				return err
			}
			problems = d.library.ByStatus(status)
		}
		return listProblems(cmd.OutOrStdout(), problems)
	},
}

func listProblems(w io.Writer, problems []library.Problem) error {
	if len(problems) == 0 {
		fmt.Fprintln(w, "No problems found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSTATUS\tTOPIC\tTITLE")
	for _, p := range problems {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.CreatedAt().Local().Format("2006-01-02 15:04"),
			p.Status,
			p.Topic,
			truncate.StringWithTail(mathtext.Plain(p.DisplayTitle()), 48, "…"),
		)
	}
	return tw.Flush()
}

var libraryStatusCmd = &cobra.Command{
	Use:     "status <id> <status>",
	Short:   "Move a problem to another workflow column",
	Example: `  forge library status 0192... verified
  forge library status 0192... shortlist`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := parseStatus(args[1])
		if err != nil {
			return err
		}
		return withProblem(cmd, args[0], func(ctx context.Context, lib *library.Library, p library.Problem) error {
			if err := lib.SetStatus(ctx, p.ID, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q: %s → %s\n", p.DisplayTitle(), p.Status, status)
			return nil
		})
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProblem(cmd, args[0], func(ctx context.Context, lib *library.Library, p library.Problem) error {
			if err := lib.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q.\n", p.DisplayTitle())
			return nil
		})
	},
}

var libraryExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the library as a JSON backup",
	Long:  "Write the library as a JSON backup. The file defaults to " + library.ExportFileName + "; - writes to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		data, err := d.library.Export()
		if err != nil {
			return err
		}
		path := library.ExportFileName
		if len(args) == 1 {
			path = args[0]
		}
		if path == "-" {
			_, err := cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d problem(s) to %s\n", d.library.Len(), path)
		return nil
	},
}

var libraryImportCmd = &cobra.Command{
	Use:   "import <file|link>",
	Short: "Merge problems from a backup file or share link",
	Long: `Merge problems from a backup file, a share link, or a bare share payload.
Problems whose id is already in the library are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		problems, err := importer.Parse(args[0])
		if err != nil {
			return err
		}
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		added, err := d.library.Merge(cmd.Context(), problems)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d new problem(s); %d already present or invalid.\n", added, len(problems)-added)
		return nil
	},
}

var libraryShareCmd = &cobra.Command{
	Use:   "share [id...]",
	Short: "Print a share link for some or all problems",
	Long:  "Print a share link for the given problems, or for the whole library when no id is given. The link is also copied to the clipboard when one is available.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		problems := d.library.All()
		if len(args) > 0 {
			problems = problems[:0]
			for _, id := range args {
				p, ok := d.library.Get(id)
				if !ok {
					return fmt.Errorf("problem %s not found", id)
				}
				problems = append(problems, p)
			}
		}
		if len(problems) == 0 {
			return errors.New("the library is empty")
		}

		link, err := library.ShareLink(settings.ShareBaseURL, problems...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), link)
		if noCopy, _ := cmd.Flags().GetBool("no-copy"); !noCopy {
			if err := clipboard.WriteAll(link); err == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
			}
		}
		return nil
	},
}

var libraryOpenCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a problem's solution page in the browser",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProblem(cmd, args[0], func(_ context.Context, _ *library.Library, p library.Problem) error {
			f, err := os.CreateTemp("", "olympiad-forge-*.html")
			if err != nil {
				return err
			}
			if err := library.RenderHTML(f, p); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), f.Name())
			return openFile(f.Name())
		})
	},
}

var libraryViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a saved problem with its solution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withProblem(cmd, args[0], func(ctx context.Context, _ *library.Library, p library.Problem) error {
			text := library.Markdown(p)
			if raw, _ := cmd.Flags().GetBool("raw"); !raw {
				ts := mathtext.NewTypesetter(mathtext.Options{Width: settings.RenderWidth, Style: settings.RenderStyle}, nil)
				wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				if err := ts.Wait(wctx); err == nil {
					text = ts.Render(text)
				}
			}
			_, err := io.WriteString(cmd.OutOrStdout(), text)
			return err
		})
	},
}

func init() {
	libraryListCmd.Flags().String("status", "", "Only list problems with this status")
	libraryShareCmd.Flags().Bool("no-copy", false, "Do not copy the link to the clipboard")
	libraryViewCmd.Flags().Bool("raw", false, "Print the markdown source")

	libraryCmd.AddCommand(
		libraryListCmd,
		libraryStatusCmd,
		libraryDeleteCmd,
		libraryExportCmd,
		libraryImportCmd,
		libraryShareCmd,
		libraryOpenCmd,
		libraryViewCmd,
	)
}

// withProblem opens the library and runs fn on the problem with id.
func withProblem(cmd *cobra.Command, id string, fn func(context.Context, *library.Library, library.Problem) error) error {
	d, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	p, ok := d.library.Get(id)
	if !ok {
		return fmt.Errorf("problem %s not found", id)
	}
	return fn(cmd.Context(), d.library, p)
}
