// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the itinera command line: argument parsing and
// the non-TUI commands (ask, chat, sessions, doctor).
package cli
