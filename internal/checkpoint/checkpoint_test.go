package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreMissingFileStartsFresh(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "progress.json"))

	cp, found, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Error("expected found=false for missing file")
	}
	if cp.Paragraphs != 0 || cp.Tables != 0 {
		t.Errorf("expected zero checkpoint, got %+v", cp)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "progress.json"))

	want := Checkpoint{Paragraphs: 10, Tables: 3}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, found, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "progress.json"))

	if err := store.Save(Checkpoint{Paragraphs: 5}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(Checkpoint{Paragraphs: 10, Tables: 2}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, _, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Paragraphs != 10 || got.Tables != 2 {
		t.Errorf("unexpected checkpoint: %+v", got)
	}
}

func TestStoreCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := NewStore(path).Load(); err == nil {
		t.Fatal("expected error for corrupt checkpoint")
	}
}

func TestStoreClear(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "progress.json"))

	if err := store.Clear(); err != nil {
		t.Fatalf("clear absent: %v", err)
	}

	if err := store.Save(Checkpoint{Paragraphs: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	_, found, err := store.Load()
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if found {
		t.Error("checkpoint still present after clear")
	}
}

func TestStoreJSONSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	// Progress files written by earlier versions of this tool use these keys.
	if err := os.WriteFile(path, []byte(`{"paragraph": 42, "table": 7}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cp, found, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found || cp.Paragraphs != 42 || cp.Tables != 7 {
		t.Errorf("unexpected checkpoint: %+v found=%v", cp, found)
	}
}
