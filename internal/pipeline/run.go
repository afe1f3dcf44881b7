// Package pipeline drives the segmentation / checkpointed-translation /
// reassembly flow for one document: paginate, segment, translate per unit,
// persist incrementally, and write the final artifact.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/logan676/translate/internal/checkpoint"
	"github.com/logan676/translate/internal/docx"
	"github.com/logan676/translate/internal/translator"
	"github.com/logan676/translate/internal/writer"
)

// Pipeline defaults. Intervals count processed source units.
const (
	DefaultPagesPerSegment    = 5
	DefaultSaveInterval       = 5
	DefaultPageBreakInterval  = 3
	DefaultTableBreakInterval = 2
)

// Config holds the pipeline tuning knobs.
type Config struct {
	PagesPerSegment    int
	SaveInterval       int  // flush+checkpoint every N processed units
	PageBreakInterval  int  // page break every N paragraphs
	TableBreakInterval int  // page break every N table cells
	Segmented          bool // per-segment artifacts instead of one document
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		PagesPerSegment:    DefaultPagesPerSegment,
		SaveInterval:       DefaultSaveInterval,
		PageBreakInterval:  DefaultPageBreakInterval,
		TableBreakInterval: DefaultTableBreakInterval,
	}
}

func (c Config) withDefaults() Config {
	if c.PagesPerSegment <= 0 {
		c.PagesPerSegment = DefaultPagesPerSegment
	}
	if c.SaveInterval <= 0 {
		c.SaveInterval = DefaultSaveInterval
	}
	if c.PageBreakInterval <= 0 {
		c.PageBreakInterval = DefaultPageBreakInterval
	}
	if c.TableBreakInterval <= 0 {
		c.TableBreakInterval = DefaultTableBreakInterval
	}
	return c
}

// Runner executes the pipeline for one document. Stages within a run are
// sequential; the working document and checkpoint are single-writer
// resources. Runners for different documents are independent and may run
// concurrently.
type Runner struct {
	cfg    Config
	tr     translator.Translator
	logger *slog.Logger
	state  State
}

// New creates a Runner.
func New(cfg Config, tr translator.Translator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg.withDefaults(),
		tr:     tr,
		logger: logger,
		state:  StateIdle,
	}
}

// Run translates the document at inputPath. In the default mode output goes
// to <base>_translated.docx with crash-safe incremental persistence; in
// segmented mode each page segment becomes its own artifact.
func (r *Runner) Run(ctx context.Context, inputPath string) error {
	if r.cfg.Segmented {
		return r.runSegmented(ctx, inputPath)
	}
	return r.runIncremental(ctx, inputPath)
}

func (r *Runner) runIncremental(ctx context.Context, inputPath string) error {
	r.setState(StateLoading)
	doc, err := docx.Load(inputPath)
	if err != nil {
		r.setState(StateInterrupted)
		return fmt.Errorf("load source document: %w", err)
	}

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	finalPath := base + "_translated.docx"
	workingPath := base + "_translated.partial.docx"
	store := checkpoint.NewStore(base + ".progress.json")

	progress, resumed, err := store.Load()
	if err != nil {
		r.setState(StateInterrupted)
		return err
	}
	r.setState(StateCheckpointResolved)
	if resumed {
		r.logger.Info("resuming from checkpoint",
			"checkpoint", store.Path(),
			"paragraphs_done", progress.Paragraphs,
			"tables_done", progress.Tables,
		)
	}

	// Prior working output is trusted only when a checkpoint vouches for
	// it; otherwise a stale partial from an earlier run must not leak in.
	w, err := writer.Open(workingPath, resumed, store, r.logger)
	if err != nil {
		r.setState(StateInterrupted)
		return err
	}

	// Persisted is the last durably checkpointed progress; in-memory
	// progress may run ahead of it between flush intervals.
	persisted := progress

	r.setState(StateTableProcessing)
	cells := doc.TableCells()
	for _, cell := range cells {
		if err := ctx.Err(); err != nil {
			return r.interrupt(w, persisted, store, err)
		}
		if cell.Index <= progress.Tables {
			continue
		}

		label := fmt.Sprintf("table cell %d/%d", cell.Index, len(cells))
		translated := r.tr.Translate(ctx, cell.Text, label)
		if err := ctx.Err(); err != nil {
			// A unit in flight at cancellation is lost, never recorded;
			// resume re-sends it.
			return r.interrupt(w, persisted, store, err)
		}
		if translator.IsSentinel(translated) {
			r.logger.Warn("unit failed translation", "unit", label, "result", translated)
		}

		w.AppendBlock(cell, translated)
		if cell.Index%r.cfg.TableBreakInterval == 0 {
			w.InsertPageBreak()
		}

		progress.Tables = cell.Index
		if cell.Index%r.cfg.SaveInterval == 0 {
			if err := w.FlushCheckpoint(progress); err != nil {
				return r.interrupt(w, persisted, store, err)
			}
			persisted = progress
		}
	}

	r.setState(StateParagraphProcessing)
	paged := AssignPages(doc.Paragraphs())
	for _, pb := range paged {
		if err := ctx.Err(); err != nil {
			return r.interrupt(w, persisted, store, err)
		}
		para := pb.Block
		if para.Index <= progress.Paragraphs {
			continue
		}

		label := fmt.Sprintf("paragraph %d/%d, page %d", para.Index, len(paged), pb.Page)
		translated := r.tr.Translate(ctx, para.Text, label)
		if err := ctx.Err(); err != nil {
			return r.interrupt(w, persisted, store, err)
		}
		if translator.IsSentinel(translated) {
			r.logger.Warn("unit failed translation", "unit", label, "result", translated)
		}

		heading := w.AppendBlock(para, translated)
		if para.Index%r.cfg.PageBreakInterval == 0 || heading {
			w.InsertPageBreak()
		}

		progress.Paragraphs = para.Index
		if para.Index%r.cfg.SaveInterval == 0 {
			if err := w.FlushCheckpoint(progress); err != nil {
				return r.interrupt(w, persisted, store, err)
			}
			persisted = progress
		}
	}

	r.setState(StateFinalSave)
	if err := w.Flush(finalPath); err != nil {
		return r.interrupt(w, persisted, store, err)
	}
	// The final artifact is durable; only now may the checkpoint retire,
	// and the working partial with it.
	if err := store.Clear(); err != nil {
		return r.interrupt(w, persisted, store, err)
	}
	if err := os.Remove(workingPath); err != nil && !os.IsNotExist(err) {
		r.logger.Warn("could not remove working document", "path", workingPath, "error", err)
	}

	r.setState(StateDone)
	r.logger.Info("translation complete",
		"input", inputPath,
		"output", finalPath,
		"paragraphs", progress.Paragraphs,
		"tables", progress.Tables,
	)
	return nil
}

// interrupt reports the last durable progress and keeps the checkpoint so a
// subsequent run can resume.
func (r *Runner) interrupt(w *writer.Writer, persisted checkpoint.Checkpoint, store *checkpoint.Store, cause error) error {
	r.setState(StateInterrupted)
	r.logger.Error("run interrupted; checkpoint retained for resume",
		"error", cause,
		"checkpoint", store.Path(),
		"paragraphs_done", persisted.Paragraphs,
		"tables_done", persisted.Tables,
		"last_flush", w.LastFlushPath(),
	)
	return cause
}
