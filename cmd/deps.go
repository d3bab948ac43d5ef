package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/olympiadforge/forge/internal/library"
	"github.com/olympiadforge/forge/internal/llm"
	"github.com/olympiadforge/forge/internal/logging"
	"github.com/olympiadforge/forge/internal/problemgen"
	"github.com/olympiadforge/forge/internal/store"
)

// deps are the services a command works with. Close releases them.
type deps struct {
	store   *store.Store
	library *library.Library
	log     *zap.Logger
}

// openDeps opens the store and loads the library. CLI commands log to
// stderr at warn level unless --log-level asks for more.
func openDeps(cmd *cobra.Command) (*deps, error) {
	log, err := cliLogger(cmd)
	if err != nil {
		return nil, err
	}
	return openDepsWith(cmd.Context(), log)
}

func openDepsWith(ctx context.Context, log *zap.Logger) (*deps, error) {
	st, err := store.Open(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	lib := library.Open(ctx, st.SlotRepo(), log.Named("library"))
	return &deps{store: st, library: lib, log: log}, nil
}

func (d *deps) Close() {
	if err := d.store.Close(); err != nil {
		d.log.Warn("close store", zap.Error(err))
	}
	logging.Sync(d.log)
}

// generator builds the configured provider with request logging to the
// store.
func (d *deps) generator(ctx context.Context) (problemgen.Generator, string, error) {
	provider, err := llm.NewProviderFromEnv(ctx, d.store.EventRepo(), d.log.Named("llm"))
	if err != nil {
		return nil, "", fmt.Errorf("LLM provider not configured: %w", err)
	}
	return problemgen.New(provider, problemgen.DefaultConfig(), d.log.Named("problemgen")), provider.ModelID(), nil
}

func cliLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = "warn"
	}
	return logging.New(logging.Options{Level: level, Path: "stderr"})
}

func init() {
	// xdg-open and friends write to the terminal the UI is drawing on.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// openFile shows path with the platform's default application.
func openFile(path string) error {
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// stdinIsPiped reports whether stdin is a pipe or file rather than a
// terminal.
func stdinIsPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}
