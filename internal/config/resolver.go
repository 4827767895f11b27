// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"strings"
)

// DefaultAPIBase is the fallback backend endpoint for local development.
const DefaultAPIBase = "http://localhost:8000"

// apiBaseEnvVars are the conventional environment variable names accepted
// for the backend endpoint, in precedence order.
var apiBaseEnvVars = []string{
	"ITINERA_API_BASE",
	"API_BASE_URL",
	"BACKEND_URL",
}

// Source is a named provider of a candidate API base URL. Sources are
// consulted in order; the first non-empty value wins.
type Source struct {
	Name  string
	Value func() string
}

// DefaultSources returns the resolution order for the API base:
// environment variables, then the config-file override, then the built-in
// local default. The default source never returns empty, so resolution
// always terminates.
func DefaultSources(cfg *Config) []Source {
	sources := make([]Source, 0, len(apiBaseEnvVars)+2)
	for _, name := range apiBaseEnvVars {
		name := name
		sources = append(sources, Source{
			Name:  "env:" + name,
			Value: func() string { return os.Getenv(name) },
		})
	}
	sources = append(sources, Source{
		Name: "config:api.base_url",
		Value: func() string {
			if cfg == nil {
				return ""
			}
			return cfg.API.BaseURL
		},
	})
	sources = append(sources, Source{
		Name:  "default",
		Value: func() string { return DefaultAPIBase },
	})
	return sources
}

// ResolveAPIBase picks the first non-empty source value and normalizes it
// by stripping a single trailing slash. It is called once at startup; the
// result is injected into every component that talks to the backend.
func ResolveAPIBase(sources []Source) string {
	for _, src := range sources {
		v := strings.TrimSpace(src.Value())
		if v != "" {
			return normalizeBase(v)
		}
	}
	return DefaultAPIBase
}

// APIBase resolves the backend endpoint using the default sources.
func APIBase(cfg *Config) string {
	return ResolveAPIBase(DefaultSources(cfg))
}

func normalizeBase(base string) string {
	return strings.TrimSuffix(base, "/")
}
