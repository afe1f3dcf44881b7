// Package batch fans translation out over multiple input files with a
// bounded worker pool. Documents are independent: each has its own working
// document and checkpoint, so workers never share a writer.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// DefaultWorkers bounds concurrent document runs. Each run makes its own
// translation calls, so this is effectively the API concurrency cap.
const DefaultWorkers = 30

// TranslateFunc runs the full pipeline for one input document.
type TranslateFunc func(ctx context.Context, path string) error

// Run translates every .docx file in dir, at most workers at a time.
// Files whose names mark them as pipeline outputs are skipped. Per-file
// failures are logged and counted but do not stop the batch.
func Run(ctx context.Context, dir string, workers int, translate TranslateFunc, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	all, err := filepath.Glob(filepath.Join(dir, "*.docx"))
	if err != nil {
		return fmt.Errorf("glob %s: %w", dir, err)
	}
	var files []string
	for _, f := range all {
		if isPipelineOutput(f) {
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		return fmt.Errorf("no input documents found in %s", dir)
	}
	if workers > len(files) {
		workers = len(files)
	}

	logger.Info("batch started", "dir", dir, "documents", len(files), "workers", workers)

	jobs := make(chan string)
	var wg sync.WaitGroup
	var failed atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					return
				}
				logger.Info("processing document", "path", path)
				if err := translate(ctx, path); err != nil {
					failed.Add(1)
					logger.Error("document failed", "path", path, "error", err)
					continue
				}
				logger.Info("document done", "path", path)
			}
		}()
	}

feed:
	for _, f := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d documents failed", n, len(files))
	}
	logger.Info("batch complete", "documents", len(files))
	return nil
}

// isPipelineOutput reports whether a file was produced by this tool rather
// than being a source document.
func isPipelineOutput(path string) bool {
	name := filepath.Base(path)
	return strings.Contains(name, "_translated") || strings.Contains(name, ".partial.")
}
