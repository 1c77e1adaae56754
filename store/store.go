// Package store provides the document store: one snapshot of flat record
// collections persisted as a single JSON document.
//
// The snapshot has no record-level isolation, so every mutation goes through
// Update, which serializes writers behind one mutex and always re-reads the
// authoritative snapshot before applying a change. Interleaved writers can
// therefore never lose each other's updates to unrelated collections.
package store

import (
	"fmt"
	"sync"

	"github.com/socialshowcase/backend/config"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store/jsonfile"
	"github.com/socialshowcase/backend/store/memory"
)

const (
	ModeJSONFile = "jsonfile"
	ModeMemory   = "memory"
)

// Adapter loads and saves the full snapshot. Load must return a snapshot
// the caller owns exclusively; Save must persist it atomically.
type Adapter interface {
	Load() (*model.Snapshot, error)
	Save(*model.Snapshot) error
}

// Open returns a Store for the configured mode.
func Open(cfg config.StoreConfig) (*Store, error) {
	switch cfg.Mode {
	case ModeJSONFile:
		return New(jsonfile.New(cfg.Path)), nil
	case ModeMemory:
		return New(memory.New()), nil
	default:
		return nil, fmt.Errorf("store: unknown mode %q", cfg.Mode)
	}
}

// Store wraps an Adapter with single-writer semantics.
type Store struct {
	mu      sync.Mutex
	adapter Adapter
}

// New creates a Store over the given adapter.
func New(a Adapter) *Store {
	return &Store{adapter: a}
}

// Init loads the snapshot, materializes any missing collections and writes
// it back. Idempotent; run once at process start.
func (s *Store) Init() error {
	return s.Update(func(*model.Snapshot) error { return nil })
}

// View runs fn with a fresh snapshot. fn must not retain references past
// the call and must not mutate; mutations made here are never persisted.
func (s *Store) View(fn func(*model.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.adapter.Load()
	if err != nil {
		return err
	}
	snap.EnsureCollections()
	return fn(snap)
}

// Update re-reads the snapshot, applies fn and persists the result. If fn
// returns an error nothing is written.
func (s *Store) Update(fn func(*model.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.adapter.Load()
	if err != nil {
		return err
	}
	snap.EnsureCollections()
	if err := fn(snap); err != nil {
		return err
	}
	return s.adapter.Save(snap)
}
