package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/logan676/translate/internal/batch"
	"github.com/logan676/translate/internal/config"
	"github.com/logan676/translate/internal/pipeline"
	"github.com/logan676/translate/internal/translator"
)

var batchWorkers int

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Translate every DOCX document in a directory",
	Long: `Translate all DOCX documents found in a directory, running up to
--workers documents concurrently. Pipeline outputs (translated and
partial files) already present in the directory are skipped. A failing
document does not stop the rest of the batch.

Examples:
  doctran batch ./specs
  doctran batch ./specs --workers 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		workers := cfg.Batch.Workers
		if cmd.Flags().Changed("workers") {
			workers = batchWorkers
		}

		tr := translator.New(cfg.TranslatorClientConfig(), logger)
		runCfg := cfg.PipelineRunConfig()

		// Each document gets its own runner so per-document state (and
		// checkpoints) never crosses files.
		return batch.Run(cmd.Context(), args[0], workers, func(ctx context.Context, path string) error {
			return pipeline.New(runCfg, tr, logger).Run(ctx, path)
		}, logger)
	},
}

func init() {
	batchCmd.Flags().IntVar(
		&batchWorkers, "workers", batch.DefaultWorkers, "maximum concurrent documents",
	)

	rootCmd.AddCommand(batchCmd)
}
