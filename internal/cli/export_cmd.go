// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
)

// HandleExportCommand handles `itinera export <id>`, an alias for
// `itinera sessions export`.
func HandleExportCommand(args Args) error {
	if args.Parser.Positional(0) == "" {
		return fmt.Errorf("usage: itinera export <id> [--format json|md|html|pdf] [--all]")
	}
	// Re-shape into the sessions-export argument layout.
	shifted := *args.Parser
	shifted.positional = append([]string{"export"}, args.Parser.positional...)
	shifted.subcommand = "export"
	args.Parser = &shifted
	return sessionsExport(args)
}
