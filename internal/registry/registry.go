// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package registry owns the set of chat sessions and the active-session
// pointer.
//
// The registry is the only component that mutates sessions. Every mutating
// operation persists the full state through the injected storage port, so
// a crash never loses more than the in-flight mutation. Invariant: once at
// least one session exists, exactly one of them is active; an empty
// registry bootstraps a fresh session before any interaction proceeds.
package registry

import (
	"errors"
	"log"
	"sync"

	"github.com/itinera-labs/itinera-tui/internal/model"
	"github.com/itinera-labs/itinera-tui/internal/storage"
)

// Registry tracks all sessions, their order, and which one is active.
// Methods are safe for concurrent use; the TUI and the plain CLI paths
// share one instance.
type Registry struct {
	mu sync.Mutex

	store    storage.Store
	userID   string
	sessions []*model.Session
	active   string
}

// New creates a registry backed by the given store. Previously persisted
// state is loaded; a missing or unreadable payload silently starts empty.
// An empty registry immediately bootstraps its first session.
func New(store storage.Store, userID string) *Registry {
	if userID == "" {
		userID = model.DefaultUserID
	}
	r := &Registry{
		store:  store,
		userID: userID,
	}

	state, err := store.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrStateNotFound) {
			log.Printf("session state unreadable, starting empty: %v", err)
		}
		state = &storage.State{}
	}
	r.sessions = state.Sessions
	if r.sessions == nil {
		r.sessions = make([]*model.Session, 0)
	}
	r.active = state.Active

	// Repair a dangling active pointer from an older payload.
	if r.active != "" && r.find(r.active) == nil {
		r.active = ""
	}
	if r.active == "" && len(r.sessions) > 0 {
		r.active = r.sessions[len(r.sessions)-1].ID
	}
	if len(r.sessions) == 0 {
		r.createLocked()
	}
	return r
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Create adds a fresh session, makes it active, and returns a snapshot.
func (r *Registry) Create() *model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.createLocked()
	return s.Clone()
}

func (r *Registry) createLocked() *model.Session {
	s := model.NewSession(r.userID)
	r.sessions = append(r.sessions, s)
	r.active = s.ID
	r.persistLocked()
	return s
}

// Delete removes a session. Deleting an id that does not exist is a no-op.
// When the active session is removed, another remaining session becomes
// active, or the pointer clears if none remain.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, s := range r.sessions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	r.sessions = append(r.sessions[:idx], r.sessions[idx+1:]...)

	if r.active == id {
		if len(r.sessions) > 0 {
			r.active = r.sessions[len(r.sessions)-1].ID
		} else {
			r.active = ""
		}
	}
	r.persistLocked()
}

// Rename replaces a session's display name. Empty names are allowed;
// unknown ids are a no-op.
func (r *Registry) Rename(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.find(id)
	if s == nil {
		return
	}
	s.Rename(name)
	r.persistLocked()
}

// AppendMessage appends a message to a session. The session's first
// message derives its display name. Unknown ids are a no-op.
func (r *Registry) AppendMessage(id string, msg model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.find(id)
	if s == nil {
		return
	}
	s.Append(msg)
	r.persistLocked()
}

// SetActive moves the active pointer. The caller is responsible for
// passing a known id.
func (r *Registry) SetActive(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = id
	r.persistLocked()
}

// AdoptRemoteID records the backend's identifier for a session when it
// differs from what the client sent.
func (r *Registry) AdoptRemoteID(id, remoteID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.find(id)
	if s == nil || s.RemoteID == remoteID {
		return
	}
	s.RemoteID = remoteID
	r.persistLocked()
}

// =============================================================================
// READS
// =============================================================================

// ActiveID returns the active session id, or "" when the registry is empty.
func (r *Registry) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Active returns a snapshot of the active session, or nil when none exists.
func (r *Registry) Active() *model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(r.active)
	if s == nil {
		return nil
	}
	return s.Clone()
}

// Get returns a snapshot of the session with the given id.
func (r *Registry) Get(id string) (*model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.find(id)
	if s == nil {
		return nil, false
	}
	return s.Clone(), true
}

// Sessions returns snapshots of all sessions in creation order.
func (r *Registry) Sessions() []*model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Session, len(r.sessions))
	for i, s := range r.sessions {
		out[i] = s.Clone()
	}
	return out
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// =============================================================================
// INTERNAL
// =============================================================================

func (r *Registry) find(id string) *model.Session {
	if id == "" {
		return nil
	}
	for _, s := range r.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// persistLocked writes the full state through the store. Persistence
// failures are logged, never surfaced: the in-memory registry stays
// authoritative for the rest of the run.
func (r *Registry) persistLocked() {
	state := &storage.State{
		Sessions: r.sessions,
		Active:   r.active,
	}
	if err := r.store.Save(state); err != nil {
		log.Printf("persist session state: %v", err)
	}
}
