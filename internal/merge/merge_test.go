package merge

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logan676/translate/internal/docx"
)

func writeArtifact(t *testing.T, path, text string) {
	t.Helper()
	b := docx.NewBuilder()
	b.AppendParagraph("", docx.Run{Text: text})
	if err := b.Save(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

func loadTexts(t *testing.T, path string) (texts []string, breaks int) {
	t.Helper()
	doc, err := docx.Load(path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	for _, b := range doc.Blocks {
		if s := strings.TrimSpace(b.Text); s != "" {
			texts = append(texts, s)
		}
		breaks += b.PageBreaksAfter
	}
	return texts, breaks
}

func TestMergeNumericOrdering(t *testing.T) {
	dir := t.TempDir()
	// Deliberately created in a scrambled order; lexicographic sorting
	// would yield page-1, page-10, page-2.
	writeArtifact(t, filepath.Join(dir, "page-2_translated_6-10_20250320_191556.docx"), "second")
	writeArtifact(t, filepath.Join(dir, "page-10_translated_46-50_20250320_191556.docx"), "third")
	writeArtifact(t, filepath.Join(dir, "page-1_translated_1-5_20250320_191556.docx"), "first")

	out := filepath.Join(dir, "merged.docx")
	if err := Merge(dir, out, nil); err != nil {
		t.Fatalf("merge: %v", err)
	}

	texts, breaks := loadTexts(t, out)
	want := []string{"first", "second", "third"}
	if len(texts) != len(want) {
		t.Fatalf("expected %d blocks, got %v", len(want), texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, texts[i], want[i])
		}
	}
	// A break between each pair of artifacts, none after the last.
	if breaks != 2 {
		t.Errorf("expected 2 page breaks, got %d", breaks)
	}
}

func TestMergeUnparsableNameSortsFirst(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, filepath.Join(dir, "page-3_translated_x.docx"), "ranked")
	writeArtifact(t, filepath.Join(dir, "odd_translated_name.docx"), "unranked")

	out := filepath.Join(dir, "merged.docx")
	if err := Merge(dir, out, nil); err != nil {
		t.Fatalf("merge: %v", err)
	}

	texts, _ := loadTexts(t, out)
	if len(texts) != 2 || texts[0] != "unranked" || texts[1] != "ranked" {
		t.Errorf("unexpected order: %v", texts)
	}
}

func TestMergeNoArtifacts(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "merged.docx")

	err := Merge(dir, out, nil)
	if !errors.Is(err, ErrNoArtifacts) {
		t.Fatalf("expected ErrNoArtifacts, got %v", err)
	}

	// Fails fast: no partial merge is written.
	if _, loadErr := docx.Load(out); loadErr == nil {
		t.Error("partial merge written despite error")
	}
}

func TestArtifactRank(t *testing.T) {
	cases := []struct {
		name string
		rank int
		ok   bool
	}{
		{"page-36_translated_1-5_20250320_191556.docx", 36, true},
		{"page-2_translated_x.docx", 2, true},
		{"doc_translated_1-5_20250320.docx", 0, false},
	}
	for _, tc := range cases {
		rank, ok := artifactRank(tc.name)
		if rank != tc.rank || ok != tc.ok {
			t.Errorf("%s: got (%d, %v), want (%d, %v)", tc.name, rank, ok, tc.rank, tc.ok)
		}
	}
}
