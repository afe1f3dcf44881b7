package writer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/logan676/translate/internal/checkpoint"
	"github.com/logan676/translate/internal/docx"
)

func newTestWriter(t *testing.T) (*Writer, *checkpoint.Store, string) {
	t.Helper()
	dir := t.TempDir()
	working := filepath.Join(dir, "out.partial.docx")
	store := checkpoint.NewStore(filepath.Join(dir, "progress.json"))
	w, err := Open(working, false, store, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return w, store, working
}

func TestAppendBlockReportsHeading(t *testing.T) {
	w, _, _ := newTestWriter(t)

	if w.AppendBlock(docx.Block{Text: "body", Style: "Normal"}, "translated") {
		t.Error("Normal style reported as heading")
	}
	if !w.AppendBlock(docx.Block{Text: "title", Style: "Heading2"}, "translated") {
		t.Error("Heading2 style not reported as heading")
	}
}

func TestFlushCheckpointOrdering(t *testing.T) {
	w, store, working := newTestWriter(t)

	w.AppendBlock(docx.Block{Text: "one"}, "eins")
	if err := w.FlushCheckpoint(checkpoint.Checkpoint{Paragraphs: 1}); err != nil {
		t.Fatalf("flush+checkpoint: %v", err)
	}

	if _, err := os.Stat(working); err != nil {
		t.Fatalf("working document not flushed: %v", err)
	}
	cp, found, err := store.Load()
	if err != nil || !found {
		t.Fatalf("checkpoint missing: found=%v err=%v", found, err)
	}
	if cp.Paragraphs != 1 {
		t.Errorf("unexpected checkpoint: %+v", cp)
	}
	if w.LastFlushPath() != working {
		t.Errorf("unexpected last flush path: %q", w.LastFlushPath())
	}
}

func TestFlushFailureLeavesCheckpointUntouched(t *testing.T) {
	dir := t.TempDir()
	// Working path inside a file (not a directory) makes the flush fail.
	blocked := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := checkpoint.NewStore(filepath.Join(dir, "progress.json"))
	w, err := Open(filepath.Join(blocked, "out.docx"), false, store, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	w.AppendBlock(docx.Block{Text: "one"}, "eins")
	if err := w.FlushCheckpoint(checkpoint.Checkpoint{Paragraphs: 1}); err == nil {
		t.Fatal("expected flush failure")
	}

	if _, found, err := store.Load(); err != nil || found {
		t.Errorf("checkpoint written despite failed flush: found=%v err=%v", found, err)
	}
}

func TestOpenCarriesOverPriorOutput(t *testing.T) {
	w, _, working := newTestWriter(t)

	w.AppendBlock(docx.Block{Text: "first"}, "1st")
	if err := w.Flush(working); err != nil {
		t.Fatalf("flush: %v", err)
	}

	resumed, err := Open(working, true, checkpoint.NewStore(working+".progress"), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	resumed.AppendBlock(docx.Block{Text: "second"}, "2nd")
	resumed.InsertPageBreak()
	if err := resumed.Flush(working); err != nil {
		t.Fatalf("flush resumed: %v", err)
	}

	doc, err := docx.Load(working)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks after resume, got %d", len(doc.Blocks))
	}
	if doc.Blocks[0].Text != "first1st" {
		t.Errorf("prior output missing: %+v", doc.Blocks[0])
	}
	if doc.Blocks[2].PageBreaksAfter != 1 {
		t.Errorf("page break missing: %+v", doc.Blocks[2])
	}
}

func TestOpenWithoutResumeIgnoresStalePartial(t *testing.T) {
	w, _, working := newTestWriter(t)

	w.AppendBlock(docx.Block{Text: "stale"}, "old")
	if err := w.Flush(working); err != nil {
		t.Fatalf("flush: %v", err)
	}

	fresh, err := Open(working, false, checkpoint.NewStore(working+".progress"), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	fresh.AppendBlock(docx.Block{Text: "new"}, "neu")
	if err := fresh.Flush(working); err != nil {
		t.Fatalf("flush fresh: %v", err)
	}

	doc, err := docx.Load(working)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Text != "newneu" {
		t.Fatalf("stale content leaked into fresh writer: %+v", doc.Blocks)
	}
}
