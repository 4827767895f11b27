// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/itinera-labs/itinera-tui/internal/config"
	"github.com/itinera-labs/itinera-tui/internal/export"
	"github.com/itinera-labs/itinera-tui/internal/index"
	"github.com/itinera-labs/itinera-tui/internal/util"
)

// =============================================================================
// SESSIONS COMMAND
// =============================================================================

// HandleSessionsCommand dispatches `itinera sessions <subcommand>`.
func HandleSessionsCommand(args Args) error {
	p := args.Parser

	switch p.Subcommand() {
	case "", "list":
		return sessionsList(args)
	case "search":
		return sessionsSearch(args)
	case "delete":
		return sessionsDelete(args)
	case "export":
		return sessionsExport(args)
	default:
		return fmt.Errorf("unknown sessions subcommand %q (list, search, delete, export)", p.Subcommand())
	}
}

func sessionsList(args Args) error {
	env, err := NewEnv()
	if err != nil {
		return err
	}

	sessions := env.Registry.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No saved trips.")
		return nil
	}

	activeID := env.Registry.ActiveID()
	fmt.Printf("%-10s %-42s %-9s %s\n", "ID", "NAME", "MESSAGES", "LAST ACTIVITY")
	for _, s := range sessions {
		marker := " "
		if s.ID == activeID {
			marker = "*"
		}
		fmt.Printf("%s%-9s %-42s %-9d %s\n",
			marker, s.ID[:8],
			util.TruncateWidth(s.Name, 40),
			len(s.Messages),
			s.LastActivity.Format("2006-01-02 15:04"))
	}
	return nil
}

func sessionsSearch(args Args) error {
	query := args.Parser.PositionalRest(1)
	if query == "" {
		return fmt.Errorf("usage: itinera sessions search <query>")
	}

	env, err := NewEnv()
	if err != nil {
		return err
	}

	dbPath, err := config.IndexPath()
	if err != nil {
		return err
	}
	ix, err := index.Open(dbPath)
	if err != nil {
		return err
	}
	defer ix.Close()

	ctx := context.Background()
	if err := ix.Rebuild(ctx, env.Registry.Sessions()); err != nil {
		return err
	}

	limit := args.Parser.FlagIntOrDefault("limit", 20)
	results, err := ix.Search(ctx, query, limit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	for _, r := range results {
		snippet := util.TruncateWidth(strings.ReplaceAll(r.Content, "\n", " "), 60)
		fmt.Printf("%-8s %-24s [%s] %s\n",
			r.SessionID[:8],
			util.TruncateWidth(r.SessionName, 22),
			r.Role, snippet)
	}
	return nil
}

func sessionsDelete(args Args) error {
	id := args.Parser.Positional(1)
	if id == "" {
		return fmt.Errorf("usage: itinera sessions delete <id> --confirm")
	}
	if !args.Parser.BoolFlag("confirm") {
		return fmt.Errorf("deletion is permanent; re-run with --confirm")
	}

	env, err := NewEnv()
	if err != nil {
		return err
	}

	for _, s := range env.Registry.Sessions() {
		if strings.HasPrefix(s.ID, id) {
			env.Registry.Delete(s.ID)
			fmt.Printf("Deleted %q\n", s.Name)
			return nil
		}
	}
	return fmt.Errorf("no trip matches %q", id)
}

func sessionsExport(args Args) error {
	id := args.Parser.Positional(1)
	if id == "" {
		return fmt.Errorf("usage: itinera sessions export <id> [--format json|md|html|pdf] [--all]")
	}

	env, err := NewEnv()
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(args.Parser.FlagOrDefault("format", "json"))
	if err != nil {
		return err
	}

	for _, s := range env.Registry.Sessions() {
		if strings.HasPrefix(s.ID, id) {
			if s.RemoteID == "" {
				return fmt.Errorf("trip %q has no backend session to export", s.Name)
			}
			path, err := env.Exporter.Export(context.Background(), s.RemoteID, format, args.Parser.BoolFlag("all"))
			if err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", path)
			return nil
		}
	}
	return fmt.Errorf("no trip matches %q", id)
}
