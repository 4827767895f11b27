// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/itinera-labs/itinera-tui/internal/util"
)

// DefaultSessionName is the placeholder name for a session before its
// first user message arrives.
const DefaultSessionName = "New Trip"

// DefaultUserID is the operator id used when none is configured.
const DefaultUserID = "default_user"

// titleMaxRunes is the auto-derived session name limit: a first message
// longer than this becomes its first 47 runes plus "...".
const titleMaxRunes = 50

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one conversation thread with the itinerary agent.
type Session struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`

	// Messages render top to bottom in insertion order.
	Messages []Message `json:"messages"`

	// RemoteID is the session identifier the backend knows this thread by.
	// Empty until the backend's first response; adopted from the echoed
	// session_id when it differs from what was sent.
	RemoteID string `json:"remote_id,omitempty"`
}

// NewSession creates an empty session owned by the given user.
func NewSession(userID string) *Session {
	if userID == "" {
		userID = DefaultUserID
	}
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		Name:         DefaultSessionName,
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		Messages:     make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message and bumps LastActivity. The first message ever
// appended derives the session name from its content.
func (s *Session) Append(msg Message) {
	first := len(s.Messages) == 0
	s.Messages = append(s.Messages, msg)
	s.LastActivity = time.Now()
	if first {
		s.Name = DeriveName(msg.Content)
	}
}

// LastMessage returns the most recent message, or a zero Message and false
// when the session is empty.
func (s *Session) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty reports whether the session has no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// Rename replaces the display name and bumps LastActivity. Empty names
// are allowed.
func (s *Session) Rename(name string) {
	s.Name = name
	s.LastActivity = time.Now()
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := *s
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	return &clone
}

// DeriveName turns a first user message into a session name: one line,
// NFC-normalized, at most 50 runes with "..." when truncated.
func DeriveName(content string) string {
	flat := util.FlattenOneLine(content)
	if flat == "" {
		return DefaultSessionName
	}
	return util.TruncateRunes(flat, titleMaxRunes)
}
