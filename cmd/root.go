package cmd

import (
	"github.com/spf13/cobra"

	"github.com/olympiadforge/forge/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Olympiad problem workbench",
	Long: `Olympiad Forge drafts and verifies olympiad problems with a language
model and keeps them on a workflow board.

Run without a subcommand to open the terminal UI.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// settings is resolved once per invocation before any command runs.
var settings config.Config

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides FORGE_DB env var)")
	pf.String("log-file", "", "Log file for the terminal UI (overrides FORGE_LOG_FILE)")
	pf.String("log-level", "", "Log level: debug, info, warn or error (overrides FORGE_LOG_LEVEL)")
	pf.String("env-file", ".env", "Load environment variables from this file if it exists")

	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(sketchCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(diagramCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads the .env file and resolves flags against the
// environment.
func loadSettings(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnv(envFile); err != nil {
		return err
	}

	db, _ := cmd.Flags().GetString("db")
	logFile, _ := cmd.Flags().GetString("log-file")
	logLevel, _ := cmd.Flags().GetString("log-level")

	cfg, err := config.Resolve(config.Overrides{DBPath: db, LogFile: logFile, LogLevel: logLevel})
	if err != nil {
		return err
	}
	settings = cfg
	return nil
}
