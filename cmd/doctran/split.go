package main

import (
	"github.com/spf13/cobra"

	"github.com/logan676/translate/internal/split"
)

var (
	splitOutDir  string
	splitPages   int
	splitPerPage bool
)

var splitCmd = &cobra.Command{
	Use:   "split <input.docx>",
	Short: "Split a DOCX document along its page breaks",
	Long: `Split a DOCX document into smaller files along its page breaks,
either a fixed number of pages per file or one file per page.

Examples:
  doctran split book.docx --pages 5      # segment_001.docx, segment_002.docx, ...
  doctran split book.docx --per-page     # page-1.docx, page-2.docx, ...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := split.Split(args[0], splitOutDir, split.Options{
			PagesPerFile: splitPages,
			PerPage:      splitPerPage,
		}, newLogger())
		return err
	},
}

func init() {
	splitCmd.Flags().StringVar(&splitOutDir, "out", ".", "output directory")
	splitCmd.Flags().IntVar(&splitPages, "pages", 5, "pages per output file")
	splitCmd.Flags().BoolVar(&splitPerPage, "per-page", false, "one output file per page")

	rootCmd.AddCommand(splitCmd)
}
