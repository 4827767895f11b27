// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the itinera client.
//
// String helpers are rune- and width-aware so that session titles and
// list entries never split multi-byte UTF-8 sequences. AtomicWriteFile
// is the single write path for persisted state.
package util
