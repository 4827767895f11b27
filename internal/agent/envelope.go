// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"encoding/json"
	"strings"
)

// NoResponsePlaceholder is shown when a successful turn carries no
// extractable text.
const NoResponsePlaceholder = "(no response text)"

// ProcessRequest is the body of a POST /process call.
type ProcessRequest struct {
	UserRequest string `json:"user_request"`
	UserID      string `json:"user_id,omitempty"`
	// SessionID is omitted for a session with no prior turns; the backend
	// then allocates its own session state and echoes the id back.
	SessionID string `json:"session_id,omitempty"`
}

// ProcessResponse is the body of a successful /process reply.
type ProcessResponse struct {
	Status    string `json:"status,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	// Response is kept raw because its nesting depth varies; see Text.
	Response     json.RawMessage `json:"response,omitempty"`
	AgentsUsed   []string        `json:"agents_used,omitempty"`
	ResponseText string          `json:"response_text,omitempty"`
}

// respEnvelope mirrors the variably nested wrapper around the display
// text: response.response_text or response.response.response_text.
type respEnvelope struct {
	ResponseText string        `json:"response_text"`
	Response     *respEnvelope `json:"response"`
}

// Text extracts the display text from the reply, tolerating every
// envelope shape the backend has produced: the deepest nesting wins
// (response.response.response_text over response.response_text), with a
// top-level response_text as a last resort. Returns "" when nothing is
// found; callers substitute NoResponsePlaceholder.
func (r *ProcessResponse) Text() string {
	if len(r.Response) > 0 {
		var env respEnvelope
		if err := json.Unmarshal(r.Response, &env); err == nil {
			if t := extractText(&env); t != "" {
				return t
			}
		}
	}
	return strings.TrimSpace(r.ResponseText)
}

func extractText(env *respEnvelope) string {
	if env == nil {
		return ""
	}
	if env.Response != nil {
		if t := strings.TrimSpace(env.Response.ResponseText); t != "" {
			return t
		}
	}
	return strings.TrimSpace(env.ResponseText)
}
