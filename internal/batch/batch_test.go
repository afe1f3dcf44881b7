package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunProcessesAllInputs(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.docx"))
	touch(t, filepath.Join(dir, "b.docx"))
	touch(t, filepath.Join(dir, "c.docx"))
	// Pipeline outputs must not be re-translated.
	touch(t, filepath.Join(dir, "a_translated.docx"))
	touch(t, filepath.Join(dir, "a_translated.partial.docx"))

	var mu sync.Mutex
	var seen []string
	err := Run(context.Background(), dir, 2, func(_ context.Context, path string) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, filepath.Base(path))
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(seen) != 3 {
		t.Fatalf("expected 3 documents, got %v", seen)
	}
	for _, name := range seen {
		if strings.Contains(name, "_translated") {
			t.Errorf("pipeline output was submitted: %s", name)
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		touch(t, filepath.Join(dir, n+".docx"))
	}

	const workers = 2
	var inFlight, peak atomic.Int64
	gate := make(chan struct{})
	var once sync.Once

	err := Run(context.Background(), dir, workers, func(_ context.Context, _ string) error {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		once.Do(func() { close(gate) })
		<-gate
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if p := peak.Load(); p > workers {
		t.Errorf("concurrency exceeded bound: peak %d > %d", p, workers)
	}
}

func TestRunReportsFailuresWithoutStopping(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "good.docx"))
	touch(t, filepath.Join(dir, "bad.docx"))

	var processed atomic.Int64
	err := Run(context.Background(), dir, 1, func(_ context.Context, path string) error {
		processed.Add(1)
		if strings.Contains(path, "bad") {
			return errors.New("boom")
		}
		return nil
	}, nil)

	if err == nil {
		t.Fatal("expected aggregate failure error")
	}
	if processed.Load() != 2 {
		t.Errorf("batch stopped early: processed %d", processed.Load())
	}
}

func TestRunEmptyDirectory(t *testing.T) {
	if err := Run(context.Background(), t.TempDir(), 4, nil, nil); err == nil {
		t.Fatal("expected error for empty directory")
	}
}
