// Package split cuts a document into smaller files along page boundaries so
// large jobs can be translated and merged in bounded pieces.
package split

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/logan676/translate/internal/docx"
)

// Options controls how the document is cut.
type Options struct {
	// PagesPerFile is the page budget per output file (default 5).
	PagesPerFile int

	// PerPage emits one file per page, named page-<n>.docx so downstream
	// translated artifacts carry a mergeable page token. Overrides
	// PagesPerFile.
	PerPage bool
}

// Split writes the input document's blocks into consecutive output files of
// at most the configured page count, preserving block order. It returns the
// created file paths in order.
func Split(inputPath, outputDir string, opts Options, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pagesPerFile := opts.PagesPerFile
	if opts.PerPage {
		pagesPerFile = 1
	}
	if pagesPerFile <= 0 {
		pagesPerFile = 5
	}

	doc, err := docx.Load(inputPath)
	if err != nil {
		return nil, fmt.Errorf("load source document: %w", err)
	}

	var (
		created   []string
		builder   = docx.NewBuilder()
		page      = 1 // current global page
		startPage = 1 // first page of the file being built
		index     = 1
	)

	save := func() error {
		if builder.Empty() {
			return nil
		}
		path := filepath.Join(outputDir, fileName(opts.PerPage, index, startPage))
		if err := builder.Save(path); err != nil {
			return fmt.Errorf("save segment %d: %w", index, err)
		}
		logger.Info("segment written", "path", path, "start_page", startPage)
		created = append(created, path)
		index++
		builder = docx.NewBuilder()
		return nil
	}

	for _, block := range doc.Blocks {
		builder.AppendParagraph(block.Style, docx.Run{Text: block.Text})
		for i := 0; i < block.PageBreaksAfter; i++ {
			builder.AppendPageBreak()
		}
		page += block.PageBreaksAfter

		if page >= startPage+pagesPerFile {
			if err := save(); err != nil {
				return created, err
			}
			startPage = page
		}
	}

	// Remaining blocks form the final file.
	if err := save(); err != nil {
		return created, err
	}

	logger.Info("split complete", "input", inputPath, "files", len(created))
	return created, nil
}

func fileName(perPage bool, index, startPage int) string {
	if perPage {
		return fmt.Sprintf("page-%d.docx", startPage)
	}
	return fmt.Sprintf("segment_%03d.docx", index)
}
