// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import "testing"

func clearAPIBaseEnv(t *testing.T) {
	t.Helper()
	for _, name := range apiBaseEnvVars {
		t.Setenv(name, "")
	}
}

func TestResolveAPIBase_NoSourcesSet(t *testing.T) {
	clearAPIBaseEnv(t)

	got := APIBase(Default())
	if got != "http://localhost:8000" {
		t.Errorf("APIBase = %q, want http://localhost:8000", got)
	}
}

func TestResolveAPIBase_EnvBeatsConfig(t *testing.T) {
	clearAPIBaseEnv(t)
	t.Setenv("ITINERA_API_BASE", "http://a/")

	cfg := Default()
	cfg.API.BaseURL = "http://b/"

	if got := APIBase(cfg); got != "http://a" {
		t.Errorf("APIBase = %q, want http://a", got)
	}
}

func TestResolveAPIBase_EnvNamePrecedence(t *testing.T) {
	clearAPIBaseEnv(t)
	t.Setenv("BACKEND_URL", "http://low")
	t.Setenv("API_BASE_URL", "http://mid")
	t.Setenv("ITINERA_API_BASE", "http://high")

	if got := APIBase(nil); got != "http://high" {
		t.Errorf("APIBase = %q, want http://high", got)
	}
}

func TestResolveAPIBase_ConfigFallback(t *testing.T) {
	clearAPIBaseEnv(t)

	cfg := Default()
	cfg.API.BaseURL = "http://from-config/"

	if got := APIBase(cfg); got != "http://from-config" {
		t.Errorf("APIBase = %q, want http://from-config", got)
	}
}

func TestNormalizeBase_SingleTrailingSlash(t *testing.T) {
	if got := normalizeBase("http://x//"); got != "http://x/" {
		t.Errorf("normalizeBase strips exactly one slash, got %q", got)
	}
	if got := normalizeBase("http://x"); got != "http://x" {
		t.Errorf("normalizeBase should not change %q, got %q", "http://x", got)
	}
}

func TestResolveAPIBase_WhitespaceIgnored(t *testing.T) {
	clearAPIBaseEnv(t)
	t.Setenv("ITINERA_API_BASE", "   ")

	if got := APIBase(nil); got != "http://localhost:8000" {
		t.Errorf("whitespace-only env should fall through, got %q", got)
	}
}
