// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/itinera-labs/itinera-tui/internal/agent"
	"github.com/itinera-labs/itinera-tui/internal/config"
	"github.com/itinera-labs/itinera-tui/internal/export"
	"github.com/itinera-labs/itinera-tui/internal/model"
	"github.com/itinera-labs/itinera-tui/internal/ui/components"
)

// =============================================================================
// LINE EDITOR
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with persistent input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile, err := config.HistoryPath()
	if err != nil {
		historyFile = ""
	}

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *ChatCLI) saveHistory() {
	if c.historyFile == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChatCommand runs the plain-terminal chat REPL. Unlike the TUI
// it is strictly sequential: one request at a time, Ctrl+C aborts the
// current prompt.
func HandleChatCommand(args Args) error {
	env, err := NewEnv()
	if err != nil {
		return err
	}

	cli := NewChatCLI()
	defer cli.Close()

	active := env.Registry.Active()
	if active == nil {
		active = env.Registry.Create()
	}

	fmt.Printf("itinera chat — %s\n", env.APIBase)
	fmt.Printf("Trip: %s (%d messages). Type /help for commands.\n\n",
		active.Name, len(active.Messages))

	for {
		input, err := cli.ReadInput("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println("(interrupted)")
				continue
			}
			// EOF: exit cleanly.
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			done, err := handleSlashCommand(env, input)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			if done {
				return nil
			}
			continue
		}

		if err := sendAndPrint(env, input); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func sendAndPrint(env *Env, input string) error {
	active := env.Registry.Active()
	if active == nil {
		active = env.Registry.Create()
	}
	env.Registry.AppendMessage(active.ID, model.NewMessage(model.RoleUser, input))

	resp, err := env.Client.Process(context.Background(), agent.ProcessRequest{
		UserRequest: input,
		UserID:      active.UserID,
		SessionID:   active.RemoteID,
	})
	if err != nil {
		env.Registry.AppendMessage(active.ID, model.NewErrorMessage(err.Error()))
		return err
	}

	if resp.SessionID != "" {
		env.Registry.AdoptRemoteID(active.ID, resp.SessionID)
	}

	text := resp.Text()
	if text == "" {
		text = agent.NoResponsePlaceholder
	}
	env.Registry.AppendMessage(active.ID, model.NewMessage(model.RoleAssistant, text))

	if ColorsEnabled() {
		fmt.Print(components.RenderMarkdown(text, TerminalWidth()))
	} else {
		fmt.Println(text)
	}
	return nil
}

// handleSlashCommand executes a /command. Returns true when the REPL
// should exit.
func handleSlashCommand(env *Env, input string) (bool, error) {
	fields := strings.Fields(input)
	cmd := fields[0]
	rest := fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return true, nil

	case "/help":
		printChatHelp()
		return false, nil

	case "/sessions", "/trips":
		printSessionList(env)
		return false, nil

	case "/new":
		s := env.Registry.Create()
		fmt.Printf("Started %q\n", s.Name)
		return false, nil

	case "/switch":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: /switch <id-prefix>")
		}
		return false, switchSession(env, rest[0])

	case "/export":
		format := export.FormatJSON
		if len(rest) > 0 {
			f, err := export.ParseFormat(rest[0])
			if err != nil {
				return false, err
			}
			format = f
		}
		return false, exportActive(env, format, false)

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

func printChatHelp() {
	fmt.Print(`Commands:
  /sessions           List saved trips
  /new                Start a new trip
  /switch <id>        Switch to another trip by id prefix
  /export [format]    Export the current trip (json, md, html, pdf)
  /quit               Exit
`)
}

func printSessionList(env *Env) {
	activeID := env.Registry.ActiveID()
	for _, s := range env.Registry.Sessions() {
		marker := " "
		if s.ID == activeID {
			marker = "*"
		}
		fmt.Printf("%s %-8s  %-40s  %d messages\n",
			marker, s.ID[:8], s.Name, len(s.Messages))
	}
}

func switchSession(env *Env, prefix string) error {
	for _, s := range env.Registry.Sessions() {
		if strings.HasPrefix(s.ID, prefix) {
			env.Registry.SetActive(s.ID)
			fmt.Printf("Switched to %q\n", s.Name)
			return nil
		}
	}
	return fmt.Errorf("no trip matches %q", prefix)
}

func exportActive(env *Env, format export.Format, all bool) error {
	active := env.Registry.Active()
	if active == nil || active.RemoteID == "" {
		return fmt.Errorf("nothing to export yet: send a message first")
	}
	path, err := env.Exporter.Export(context.Background(), active.RemoteID, format, all)
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}
