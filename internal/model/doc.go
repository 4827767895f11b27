// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// A Session is one persisted conversation thread with the itinerary agent:
// a display name, the operator's user id, and an ordered message history.
// Messages are either user turns or assistant responses; assistant entries
// that report a failure carry the ErrorPrefix in their content rather than
// a separate flag, so the transcript itself records what happened.
//
// All mutation of sessions goes through the registry package; model types
// carry no locking of their own.
package model
