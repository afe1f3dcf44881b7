package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/logan676/translate/internal/docx"
)

const artifactTimestampFormat = "20060102_150405"

// SegmentArtifactName builds the per-segment artifact file name. The
// "page-<start>_translated" token is the contract the merger parses to
// restore page order, so it leads the rest of the name.
func SegmentArtifactName(inputPath string, startPage, endPage int, now time.Time) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(inputPath, ext)
	return fmt.Sprintf("%s_page-%d_translated_%d-%d_%s%s",
		base, startPage, startPage, endPage, now.Format(artifactTimestampFormat), ext)
}

// runSegmented translates the document segment by segment, line by line,
// saving each segment as its own artifact. There is no checkpoint in this
// mode: a segment artifact on disk is itself the durable record, and a rerun
// only costs the segments not yet saved.
func (r *Runner) runSegmented(ctx context.Context, inputPath string) error {
	r.setState(StateLoading)
	doc, err := docx.Load(inputPath)
	if err != nil {
		r.setState(StateInterrupted)
		return fmt.Errorf("load source document: %w", err)
	}
	r.setState(StateCheckpointResolved)

	paged := AssignPages(doc.Paragraphs())
	segments := GroupSegments(paged, r.cfg.PagesPerSegment)
	r.logger.Info("document segmented",
		"input", inputPath,
		"pages", doc.PageCount(),
		"pages_per_segment", r.cfg.PagesPerSegment,
		"segments", len(segments),
	)

	r.setState(StateParagraphProcessing)
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			r.setState(StateInterrupted)
			return err
		}
		if err := r.processSegment(ctx, seg, inputPath); err != nil {
			r.setState(StateInterrupted)
			return err
		}
	}

	r.setState(StateDone)
	return nil
}

// processSegment translates one segment's paragraphs line by line and writes
// original/translation paragraph pairs into the segment artifact.
func (r *Runner) processSegment(ctx context.Context, seg Segment, inputPath string) error {
	r.logger.Info("processing segment",
		"segment", seg.Index,
		"pages", fmt.Sprintf("%d-%d", seg.StartPage, seg.EndPage),
		"paragraphs", len(seg.Blocks),
	)

	builder := docx.NewBuilder()
	for i, pb := range seg.Blocks {
		text := strings.TrimSpace(pb.Block.Text)
		if text == "" {
			continue
		}

		lines := strings.Split(text, "\n")
		for lineIdx, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			label := fmt.Sprintf("paragraph %d/%d, page %d, line %d/%d",
				i+1, len(seg.Blocks), pb.Page, lineIdx+1, len(lines))
			translated := r.tr.Translate(ctx, line, label)
			if err := ctx.Err(); err != nil {
				// The segment artifact is only written whole; a unit in
				// flight at cancellation is dropped with it.
				return err
			}

			builder.AppendParagraph(pb.Block.Style, docx.Run{Text: line})
			builder.AppendParagraph("", docx.Run{Text: translated, Translated: true})
		}
	}

	path := SegmentArtifactName(inputPath, seg.StartPage, seg.EndPage, time.Now())
	if err := builder.Save(path); err != nil {
		return fmt.Errorf("save segment %d: %w", seg.Index, err)
	}
	r.logger.Info("segment saved", "segment", seg.Index, "path", path)
	return nil
}
