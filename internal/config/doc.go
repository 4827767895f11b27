// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the itinera client.
//
// Configuration comes from ~/.itinera/config.toml with environment
// variable overrides applied on top. The API base URL is resolved once at
// startup from an ordered list of named sources (environment variables,
// config file, built-in default) and injected into the components that
// need it; no component re-reads the environment after startup.
package config
