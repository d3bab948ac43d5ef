package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/app"
	"github.com/olympiadforge/forge/internal/logging"
	"github.com/olympiadforge/forge/internal/mathtext"
	"github.com/olympiadforge/forge/internal/screen"
)

// runApp opens the store, builds dependencies, and launches the TUI.
// Logs go to a file because the terminal belongs to the UI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	log, err := logging.New(logging.Options{Level: settings.LogLevel, Format: "json", Path: settings.LogFile})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	d, err := openDepsWith(ctx, log)
	if err != nil {
		return err
	}
	defer d.Close()

	env := &screen.Env{
		Library:    d.library,
		Activity:   d.store.EventRepo(),
		Typesetter: mathtext.NewTypesetter(mathtext.Options{Width: settings.RenderWidth, Style: settings.RenderStyle}, log.Named("mathtext")),
		ShareBase:  settings.ShareBaseURL,
		Log:        log,
		Open:       openFile,
	}

	gen, model, err := d.generator(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "Generation will be unavailable; the library still works.")
		log.Warn("no generator", zap.Error(err))
	} else {
		env.Generator = gen
		env.Model = model
	}

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{Env: env, SkipWelcome: skip})
}
