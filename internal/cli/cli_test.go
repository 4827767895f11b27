// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestArgParserFlags(t *testing.T) {
	p := NewArgParser([]string{"export", "abc123", "--format", "md", "--all", "--limit=5"})

	if p.Subcommand() != "export" {
		t.Errorf("Subcommand = %q", p.Subcommand())
	}
	if p.Positional(1) != "abc123" {
		t.Errorf("Positional(1) = %q", p.Positional(1))
	}
	if p.Flag("format") != "md" {
		t.Errorf("Flag(format) = %q", p.Flag("format"))
	}
	if !p.BoolFlag("all") {
		t.Error("BoolFlag(all) = false")
	}
	if p.FlagIntOrDefault("limit", 20) != 5 {
		t.Errorf("FlagIntOrDefault(limit) = %d", p.FlagIntOrDefault("limit", 20))
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--all=false", "--json=true"})
	if p.BoolFlag("all") {
		t.Error("all=false parsed as true")
	}
	if !p.BoolFlag("json") {
		t.Error("json=true parsed as false")
	}
}

func TestArgParserDefaults(t *testing.T) {
	p := NewArgParser(nil)
	if p.Subcommand() != "" {
		t.Errorf("Subcommand = %q, want empty", p.Subcommand())
	}
	if p.Flag("missing") != "" {
		t.Error("missing flag should be empty")
	}
	if p.FlagIntOrDefault("missing", 7) != 7 {
		t.Error("missing int flag should use default")
	}
	if p.Positional(3) != "" {
		t.Error("out-of-range positional should be empty")
	}
}

func TestArgParserPositionalRest(t *testing.T) {
	p := NewArgParser([]string{"search", "beach", "towns", "--limit", "5"})
	if got := p.PositionalRest(1); got != "beach towns" {
		t.Errorf("PositionalRest(1) = %q", got)
	}
}
