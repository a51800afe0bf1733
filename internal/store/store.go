// Package store implements whole-file JSON persistence: one file per
// entity kind, each holding an ordered JSON array of records that is
// rewritten wholesale on every mutation.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Record is any persisted record carrying an integer id.
type Record interface {
	RecordID() int64
}

// Store reads and writes JSON collections under a single data directory.
// The mutex serializes individual Load/Save calls within one process; the
// read-modify-write cycle of a repository operation is not guarded, so two
// concurrent writers to the same kind can still lose an update (last save
// wins). Writers in separate processes race the same way.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(kind string) string {
	return filepath.Join(s.dir, kind+".json")
}

// Load decodes the collection for kind into out, which must be a pointer
// to a slice. A missing or undecodable file yields an empty collection.
func (s *Store) Load(kind string, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", kind, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		// A truncated or hand-edited file is treated as empty rather
		// than failing every subsequent request.
		return nil
	}
	return nil
}

// Save overwrites the entire collection for kind. There is no atomic
// rename: a crash mid-write may leave a truncated file.
func (s *Store) Save(kind string, records any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := os.WriteFile(s.path(kind), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	return nil
}

// NextID returns the next available id for the collection: 1 when empty,
// max(existing ids)+1 otherwise. Deleted ids leave gaps.
func NextID[T Record](records []T) int64 {
	var max int64
	for _, r := range records {
		if id := r.RecordID(); id > max {
			max = id
		}
	}
	return max + 1
}
