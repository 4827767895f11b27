// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.User.ID != "default_user" {
		t.Errorf("User.ID = %q, want default_user", cfg.User.ID)
	}
	if cfg.Export.OutputDir != "./exports" {
		t.Errorf("Export.OutputDir = %q", cfg.Export.OutputDir)
	}
	if cfg.API.TimeoutSecs != 120 {
		t.Errorf("API.TimeoutSecs = %d, want 120", cfg.API.TimeoutSecs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
base_url = "http://example.com:9000/"
timeout_secs = 30

[user]
id = "alice"

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := LoadFrom(cfg, path); err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.API.BaseURL != "http://example.com:9000/" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
	if cfg.User.ID != "alice" {
		t.Errorf("User.ID = %q", cfg.User.ID)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown theme")
	}

	cfg = Default()
	cfg.API.TimeoutSecs = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative timeout")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ITINERA_USER_ID", "bob")
	t.Setenv("ITINERA_EXPORT_DIR", "/tmp/out")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.User.ID != "bob" {
		t.Errorf("User.ID = %q, want bob", cfg.User.ID)
	}
	if cfg.Export.OutputDir != "/tmp/out" {
		t.Errorf("Export.OutputDir = %q", cfg.Export.OutputDir)
	}
}
