// Package docstore owns the persisted application document.
//
// The whole document lives in memory behind a single mutex; callers read it
// through View and mutate it through Update. Every successful Update writes
// the full document back to disk, pretty-printed, via a temp-file-then-rename
// so a crash mid-write can never leave a half-written file behind.
//
//	store, _ := docstore.Open("database.json")
//	store.Update(func(doc *models.Document) error {
//	    doc.NextOrderID++
//	    return nil
//	})
//
// An unreadable or corrupt file falls back to a fresh empty document rather
// than refusing to start. That trades durability for availability, so the
// fallback is logged loudly.
package docstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/powerpointbreak/storebot/app/models"
	"github.com/powerpointbreak/storebot/pkg/logger"
)

// Store is the single synchronized access point to the document.
type Store struct {
	mu   sync.Mutex
	path string
	doc  *models.Document
}

// Open loads the document at path, or starts fresh if the file is missing or
// unparseable.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.doc = models.NewDocument()
	case err != nil:
		logger.Warn("docstore: unreadable document, starting fresh", "path", path, "error", err)
		s.doc = models.NewDocument()
	default:
		doc := models.NewDocument()
		if err := json.Unmarshal(raw, doc); err != nil {
			logger.Warn("docstore: corrupt document, starting fresh", "path", path, "error", err)
			doc = models.NewDocument()
		}
		s.doc = doc
	}

	s.doc.Normalize()
	return s, nil
}

// View runs fn with read access to the document. fn must not retain the
// pointer or mutate anything.
func (s *Store) View(fn func(doc *models.Document)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc)
}

// Update runs fn with exclusive access and persists the document if fn
// returns nil. An error from fn aborts the write and is returned unchanged,
// leaving the in-memory document as fn left it — mutators must not partially
// modify state before failing.
func (s *Store) Update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.doc); err != nil {
		return err
	}
	return s.persist()
}

// Snapshot returns the current document serialized exactly as it is on disk.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return marshal(s.doc)
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

func (s *Store) persist() error {
	raw, err := marshal(s.doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("docstore: temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("docstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("docstore: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("docstore: rename: %w", err)
	}
	return nil
}

func marshal(doc *models.Document) ([]byte, error) {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal: %w", err)
	}
	return raw, nil
}
