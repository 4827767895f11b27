// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent is the HTTP client for the itinerary agent backend.
//
// One turn is one POST to {base}/process carrying the free-text request,
// the user id, and the session id (omitted for a brand-new session so the
// backend can allocate its own). The backend wraps the display text in a
// response envelope whose nesting depth has varied between one and two
// levels of "response"; Text tolerates every observed shape.
//
// Failures never escape this package as panics or raw transport errors:
// callers receive either a parsed response or an error suitable for
// rendering as an "Error: " transcript entry.
package agent
