package main

import (
	"github.com/spf13/cobra"

	"github.com/logan676/translate/internal/config"
	"github.com/logan676/translate/internal/pipeline"
	"github.com/logan676/translate/internal/translator"
)

var translateSegmented bool

var translateCmd = &cobra.Command{
	Use:   "translate <input.docx>",
	Short: "Translate a DOCX document",
	Long: `Translate a DOCX document paragraph by paragraph, flushing partial
output and a checkpoint as it goes. Re-running the same command after an
interruption resumes from the last checkpoint instead of starting over.

Examples:
  doctran translate report.docx               # report_translated.docx
  doctran translate report.docx --segmented   # one artifact per page segment`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		runCfg := cfg.PipelineRunConfig()
		if translateSegmented {
			runCfg.Segmented = true
		}

		tr := translator.New(cfg.TranslatorClientConfig(), logger)
		return pipeline.New(runCfg, tr, logger).Run(cmd.Context(), args[0])
	},
}

func init() {
	translateCmd.Flags().BoolVar(
		&translateSegmented, "segmented", false, "write one artifact per page segment",
	)

	rootCmd.AddCommand(translateCmd)
}
