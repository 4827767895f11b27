// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists session state for the itinera client.
//
// The whole registry is serialized as one JSON document (session list plus
// active-session pointer) and written atomically to a single file under
// ~/.itinera/. There is exactly one writer, the UI event loop, so no
// cross-process locking is attempted; a torn write surfaces as a parse
// failure on the next load and the caller falls back to an empty registry.
package storage
