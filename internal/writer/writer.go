// Package writer appends translated blocks to a working output document and
// couples durable flushes with checkpoint updates.
package writer

import (
	"fmt"
	"log/slog"

	"github.com/logan676/translate/internal/checkpoint"
	"github.com/logan676/translate/internal/docx"
)

// Writer is an append-only writer over a working output document.
//
// Flush-then-checkpoint ordering is the one invariant this package owns: a
// checkpoint may only describe work whose output is already durable, so
// FlushCheckpoint never writes the checkpoint before the flush succeeds.
type Writer struct {
	builder     *docx.Builder
	store       *checkpoint.Store
	workingPath string
	lastFlush   string
	logger      *slog.Logger
}

// Open creates a writer over the working document at workingPath. With resume
// set, content the file holds from a prior interrupted run is carried over
// untouched; the writer never re-derives already-flushed output. Without it
// the writer starts empty, since prior output may only be trusted when a
// checkpoint vouches for it.
func Open(workingPath string, resume bool, store *checkpoint.Store, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	builder := docx.NewBuilder()
	if resume {
		var err error
		builder, err = docx.OpenBuilder(workingPath)
		if err != nil {
			return nil, fmt.Errorf("open working document: %w", err)
		}
	}
	return &Writer{
		builder:     builder,
		store:       store,
		workingPath: workingPath,
		logger:      logger,
	}, nil
}

// AppendBlock appends one output block holding the source text and its
// translation. The returned flag reports a heading-like source style so the
// caller can decide to insert a page break.
func (w *Writer) AppendBlock(block docx.Block, translated string) (heading bool) {
	w.builder.AppendBlock(block, translated)
	return block.HeadingLike()
}

// InsertPageBreak appends a page-break marker as its own structural element.
func (w *Writer) InsertPageBreak() {
	w.builder.AppendPageBreak()
}

// Flush durably persists the entire working document to path, overwriting
// prior content. Idempotent.
func (w *Writer) Flush(path string) error {
	if err := w.builder.Save(path); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	w.lastFlush = path
	return nil
}

// FlushCheckpoint flushes the working document, then persists the
// checkpoint, in that order. If the flush fails the checkpoint is left
// untouched, so it never claims work that is not durable.
func (w *Writer) FlushCheckpoint(cp checkpoint.Checkpoint) error {
	if err := w.Flush(w.workingPath); err != nil {
		return err
	}
	if err := w.store.Save(cp); err != nil {
		return fmt.Errorf("checkpoint after flush: %w", err)
	}
	w.logger.Debug("progress persisted",
		"path", w.workingPath,
		"paragraphs", cp.Paragraphs,
		"tables", cp.Tables,
	)
	return nil
}

// WorkingPath returns the working document location.
func (w *Writer) WorkingPath() string {
	return w.workingPath
}

// LastFlushPath returns the destination of the most recent durable flush,
// empty if nothing has been flushed this run.
func (w *Writer) LastFlushPath() string {
	return w.lastFlush
}
