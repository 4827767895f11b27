// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view: the conversation
// transcript, the session list pane, the input area, and the export
// and rename flows.
package chat
