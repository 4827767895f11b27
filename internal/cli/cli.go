// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdExport
	CmdDoctor
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Command-specific
	Query  string
	Parser *ArgParser
}

const usageText = `itinera - travel planning from your terminal

Itinera is a chat client for the itinera trip-planning backend.

Usage:
  itinera                    Start the TUI (default)
  itinera ask "question"     Ask a single question and exit
  itinera chat               Interactive chat in the terminal
  itinera sessions <cmd>     Manage saved trips
  itinera export <id>        Export a trip artifact
  itinera doctor             Check backend connectivity
  itinera version            Show version
  itinera help               Show this help

Session Commands:
  itinera sessions list             List all saved trips
  itinera sessions search <query>   Search messages across trips
  itinera sessions delete <id>      Delete a trip
    --confirm                       Required confirmation flag
  itinera sessions export <id>      Export a trip artifact
    --format json|md|html|pdf       Artifact format (default: json)
    --all                           Include every agent response

Export Flags:
  --format json|md|html|pdf   Artifact format (default: json)
  --all                       Include every agent response
  --output DIR                Output directory (default from config)

Environment:
  ITINERA_API_BASE            Backend base URL (highest precedence)
  API_BASE_URL, BACKEND_URL   Fallback base URL variables
  ITINERA_USER_ID             User id sent with requests

Configuration is read from ~/.itinera/config.toml.
`

// Usage prints the top-level usage text.
func Usage() {
	fmt.Print(usageText)
}

// PrintVersion prints build information.
func PrintVersion() {
	fmt.Printf("itinera %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// Parse reads os.Args and returns the command to run with its
// arguments.
func Parse() (Command, Args) {
	raw := os.Args[1:]

	var args Args
	var rest []string
	for _, a := range raw {
		switch a {
		case "--quiet", "-q":
			args.Quiet = true
		case "--verbose", "-v":
			args.Verbose = true
		case "--json":
			args.JSON = true
		default:
			rest = append(rest, a)
		}
	}

	if len(rest) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(rest[0])
	rest = rest[1:]
	args.Parser = NewArgParser(rest)

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = args.Parser.PositionalRest(0)
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "session", "sessions":
		return CmdSessions, args

	case "export":
		return CmdExport, args

	case "doctor":
		return CmdDoctor, args

	case "version", "--version":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		// Bare text is treated as a question: `itinera "plan a trip"`.
		args.Parser = NewArgParser(append([]string{cmd}, rest...))
		args.Query = args.Parser.PositionalRest(0)
		return CmdAsk, args
	}
}
