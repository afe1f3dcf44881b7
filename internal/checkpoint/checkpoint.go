// Package checkpoint persists translation progress so an interrupted run can
// resume without redoing completed work.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Checkpoint records how many units of each kind have been fully processed
// and durably flushed. Counts are monotonically non-decreasing across a run
// and across resumed runs.
type Checkpoint struct {
	Paragraphs int `json:"paragraph"`
	Tables     int `json:"table"`
}

// Store reads and writes a checkpoint file.
//
// A checkpoint must only be written after the output it describes has been
// flushed; the store itself has no opinion on ordering, callers enforce the
// flush-then-checkpoint discipline.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the checkpoint file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the checkpoint. A missing file means "start fresh" and returns
// a zero checkpoint with found=false. A present but unreadable file is an
// error: silently starting over would redo (and re-bill) completed work.
func (s *Store) Load() (cp Checkpoint, found bool, err error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Checkpoint{}, false, nil
	}
	if err != nil {
		return Checkpoint{}, false, fmt.Errorf("read checkpoint %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint %s: %w", s.path, err)
	}
	return cp, true, nil
}

// Save durably writes the checkpoint via temp file and rename, so a crash
// mid-write leaves the previous checkpoint intact.
func (s *Store) Save(cp Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint file. Clearing an absent checkpoint is not
// an error. Callers retire the checkpoint only after the final artifact has
// been durably written.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove checkpoint %s: %w", s.path, err)
	}
	return nil
}
