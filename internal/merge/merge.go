// Package merge reassembles per-segment translated artifacts into one
// ordered document.
package merge

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/logan676/translate/internal/docx"
)

// ErrNoArtifacts indicates the directory held nothing to merge. No partial
// output is written in that case.
var ErrNoArtifacts = errors.New("no translated artifacts found")

var pagePattern = regexp.MustCompile(`page-(\d+)_translated`)

// artifactRank extracts the leading page number from an artifact name like
// "page-36_translated_1-5_20250320_191556.docx". Names without a parsable
// token rank 0 and sort first; callers treat that as an anomaly worth a
// warning, not a crash.
func artifactRank(path string) (int, bool) {
	m := pagePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Merge concatenates all *_translated_*.docx artifacts under dir into one
// document at outputPath, ordered by the numeric page token in each name
// (numeric, not lexicographic: page-2 sorts before page-10). A page break
// separates consecutive artifacts; none trails the last.
func Merge(dir, outputPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	pattern := filepath.Join(dir, "*_translated_*.docx")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoArtifacts, dir)
	}

	ranks := make(map[string]int, len(files))
	for _, f := range files {
		rank, ok := artifactRank(f)
		if !ok {
			logger.Warn("artifact name has no page token, sorting first", "file", f)
		}
		ranks[f] = rank
	}
	sort.SliceStable(files, func(i, j int) bool {
		return ranks[files[i]] < ranks[files[j]]
	})

	builder := docx.NewBuilder()
	for i, file := range files {
		logger.Info("merging artifact", "file", file, "page", ranks[file])
		doc, err := docx.Load(file)
		if err != nil {
			return fmt.Errorf("load artifact %s: %w", file, err)
		}
		appendDocument(builder, doc)
		if i < len(files)-1 {
			builder.AppendPageBreak()
		}
	}

	if err := builder.Save(outputPath); err != nil {
		return fmt.Errorf("save merged document: %w", err)
	}
	logger.Info("merged document saved", "output", outputPath, "artifacts", len(files))
	return nil
}

// appendDocument relays an artifact's blocks into the builder, preserving
// block order and page-break markers.
func appendDocument(b *docx.Builder, doc *docx.Document) {
	for _, block := range doc.Blocks {
		// Break-only paragraphs carry no text; re-emitting them as empty
		// paragraphs would double the vertical space.
		if strings.TrimSpace(block.Text) != "" || block.PageBreaksAfter == 0 {
			b.AppendParagraph(block.Style, docx.Run{Text: block.Text})
		}
		for i := 0; i < block.PageBreaksAfter; i++ {
			b.AppendPageBreak()
		}
	}
}
