package main

import (
	"github.com/spf13/cobra"

	"github.com/logan676/translate/internal/merge"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge <dir>",
	Short: "Merge translated segment artifacts into one document",
	Long: `Merge the per-segment artifacts of a segmented translation run back
into a single document, ordered by starting page number and separated
by page breaks.

Examples:
  doctran merge ./out
  doctran merge ./out --output book_translated.docx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return merge.Merge(args[0], mergeOutput, newLogger())
	},
}

func init() {
	mergeCmd.Flags().StringVarP(
		&mergeOutput, "output", "o", "merged.docx", "path of the merged document",
	)

	rootCmd.AddCommand(mergeCmd)
}
