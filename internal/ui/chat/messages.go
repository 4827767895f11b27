// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the chat view:
// send lifecycle, export results, and transient notices.
package chat

import "time"

// =============================================================================
// SEND LIFECYCLE MESSAGES
// =============================================================================

// sendCompleteMsg delivers the outcome of a backend request. Generation
// identifies which send produced it; the update loop discards messages
// whose generation is no longer current.
type sendCompleteMsg struct {
	Generation uint64
	SessionID  string // Local session the send belonged to
	RemoteID   string // Backend session id from the response, if any
	Text       string // Extracted response text
	Err        error
	Elapsed    time.Duration
}

// =============================================================================
// EXPORT MESSAGES
// =============================================================================

// exportCompleteMsg delivers the outcome of a trip export.
type exportCompleteMsg struct {
	SessionID string
	Path      string
	Err       error
}

// =============================================================================
// HEALTH
// =============================================================================

// healthMsg reports the startup backend liveness probe.
type healthMsg struct {
	Err error
}

// =============================================================================
// NOTICES
// =============================================================================

// clearNoticeMsg removes a transient status notice after its timeout.
type clearNoticeMsg struct {
	ID int // Matches noticeSeq so a newer notice is not cleared early
}
