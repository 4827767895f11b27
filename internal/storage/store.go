// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/itinera-labs/itinera-tui/internal/model"
	"github.com/itinera-labs/itinera-tui/internal/util"
)

// =============================================================================
// STATE DOCUMENT
// =============================================================================

// State is the persisted form of the session registry: every session plus
// the active-session pointer, serialized as one document.
type State struct {
	Sessions []*model.Session `json:"sessions"`
	Active   string           `json:"active,omitempty"`
}

// Store is the persistence port the registry writes through. Implementations
// must make Save all-or-nothing; partial state must never be observable.
type Store interface {
	// Load reads the persisted state. Returns ErrStateNotFound when nothing
	// has been saved yet.
	Load() (*State, error)

	// Save replaces the persisted state.
	Save(*State) error
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore persists the state document as JSON at a fixed path.
type FileStore struct {
	Path string
}

// NewFileStore creates a store at the default location
// (~/.itinera/sessions.json).
func NewFileStore() (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return &FileStore{Path: filepath.Join(home, ".itinera", "sessions.json")}, nil
}

// NewFileStoreAt creates a store at a custom path.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads and parses the state file.
func (s *FileStore) Load() (*State, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return &state, nil
}

// Save serializes and atomically writes the state file.
func (s *FileStore) Save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := util.AtomicWriteFile(s.Path, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemStore is an in-memory Store for tests and ephemeral runs.
type MemStore struct {
	state *State
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the last saved state.
func (s *MemStore) Load() (*State, error) {
	if s.state == nil {
		return nil, ErrStateNotFound
	}
	// Round-trip through JSON so callers cannot alias the stored sessions,
	// matching the isolation the file store provides.
	data, err := json.Marshal(s.state)
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save replaces the stored state.
func (s *MemStore) Save(state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	var copied State
	if err := json.Unmarshal(data, &copied); err != nil {
		return err
	}
	s.state = &copied
	return nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrStateNotFound is returned when no state has been persisted yet.
// Use errors.Is(err, ErrStateNotFound) to check for this error.
var ErrStateNotFound = &StoreError{Message: "session state not found"}

// StoreError represents a persistence-related error.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
