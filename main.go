// itinera TUI - A terminal chat client for the itinera trip-planning
// backend.
//
// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itinera-labs/itinera-tui/internal/cli"
	"github.com/itinera-labs/itinera-tui/internal/config"
	"github.com/itinera-labs/itinera-tui/internal/index"
	"github.com/itinera-labs/itinera-tui/internal/ui/chat"
	"github.com/itinera-labs/itinera-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		exitOnError(cli.HandleAskCommand(args))
	case cli.CmdChat:
		exitOnError(cli.HandleChatCommand(args))
	case cli.CmdSessions:
		exitOnError(cli.HandleSessionsCommand(args))
	case cli.CmdExport:
		exitOnError(cli.HandleExportCommand(args))
	case cli.CmdDoctor:
		exitOnError(cli.HandleDoctorCommand(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.Usage()
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(args cli.Args) {
	// The TUI owns the terminal; diagnostics go to a log file.
	closeLog := setupLogFile()
	defer closeLog()

	env, err := cli.NewEnv()
	if err != nil {
		exitOnError(err)
	}

	// Keep the search index current while the TUI runs. Failures here
	// degrade search, not chat.
	stopIndex := startIndexMaintenance(env)
	defer stopIndex()

	m := chat.New(chat.Options{
		Theme:             styles.NewTheme(),
		Registry:          env.Registry,
		Client:            env.Client,
		Exporter:          env.Exporter,
		ShowSamplePrompts: env.Cfg.UI.ShowSamplePrompts,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogFile redirects the standard logger to ~/.itinera/itinera.log.
func setupLogFile() func() {
	if err := config.EnsureConfigDir(); err != nil {
		return func() {}
	}
	path, err := config.LogPath()
	if err != nil {
		return func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return func() {}
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return func() { f.Close() }
}

// startIndexMaintenance rebuilds the message search index and watches
// the sessions file so external writes are picked up.
func startIndexMaintenance(env *cli.Env) func() {
	dbPath, err := config.IndexPath()
	if err != nil {
		return func() {}
	}
	ix, err := index.Open(dbPath)
	if err != nil {
		log.Printf("index: open failed: %v", err)
		return func() {}
	}

	rebuild := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ix.Rebuild(ctx, env.Registry.Sessions()); err != nil {
			log.Printf("index: rebuild failed: %v", err)
		}
	}
	go rebuild()

	sessionsPath, err := config.SessionsPath()
	if err != nil {
		return func() { ix.Close() }
	}
	w, err := index.NewWatcher(sessionsPath, index.DefaultDebounce, rebuild)
	if err != nil {
		log.Printf("index: watcher failed: %v", err)
		return func() { ix.Close() }
	}
	if err := w.Watch(); err != nil {
		log.Printf("index: watch failed: %v", err)
		w.Close()
		return func() { ix.Close() }
	}

	return func() {
		w.Close()
		ix.Close()
	}
}
