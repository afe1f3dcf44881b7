package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/logan676/translate/version"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "doctran",
	Short: "Checkpointed DOCX translation pipeline",
	Long: `Doctran translates paginated DOCX documents with an OpenAI-compatible
LLM endpoint, writing output incrementally so an interrupted run can
resume where it stopped.

The pipeline includes:
  - Page-break detection and page-bounded segmentation
  - Per-paragraph and per-table-cell translation with retry
  - Crash-safe checkpointing with flush-before-checkpoint ordering
  - Merging of per-segment artifacts into a single document`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.doctran/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
