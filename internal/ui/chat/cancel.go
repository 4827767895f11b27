// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// =============================================================================
// SEND TRACKING
// =============================================================================

// sendTracker enforces the single-outstanding-request rule. Each send is
// stamped with a monotonically increasing generation; starting a new send
// cancels the previous request's context and advances the generation, so
// completions from superseded sends can be recognized and discarded even
// if their HTTP call already returned.
//
// Must be held as a pointer in the Model: Bubble Tea copies models on
// every Update, and the mutex must not be copied.
type sendTracker struct {
	mu         sync.Mutex
	generation uint64
	cancelFunc context.CancelFunc
}

func newSendTracker() *sendTracker {
	return &sendTracker{}
}

// begin cancels any in-flight send, advances the generation, stores the
// new cancel function, and returns the new generation.
func (st *sendTracker) begin(cancel context.CancelFunc) uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cancelFunc != nil {
		st.cancelFunc()
	}
	st.generation++
	st.cancelFunc = cancel
	return st.generation
}

// abort cancels the in-flight send, if any, and advances the generation
// so its completion is treated as stale.
func (st *sendTracker) abort() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cancelFunc != nil {
		st.cancelFunc()
		st.cancelFunc = nil
	}
	st.generation++
}

// finish releases the cancel function if gen is still current. Returns
// true when gen is the live generation; stale completions return false.
func (st *sendTracker) finish(gen uint64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if gen != st.generation {
		return false
	}
	if st.cancelFunc != nil {
		st.cancelFunc()
		st.cancelFunc = nil
	}
	return true
}

// current returns the live generation.
func (st *sendTracker) current() uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.generation
}
