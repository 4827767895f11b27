// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/itinera-labs/itinera-tui/internal/agent"
	"github.com/itinera-labs/itinera-tui/internal/ui/components"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAskCommand sends a single question to the backend, prints the
// answer, and exits. The exchange is not saved to the session store.
func HandleAskCommand(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("usage: itinera ask \"your question\"")
	}

	env, err := NewEnv()
	if err != nil {
		return err
	}

	resp, err := env.Client.Process(context.Background(), agent.ProcessRequest{
		UserRequest: query,
		UserID:      env.Cfg.User.ID,
	})
	if err != nil {
		return err
	}

	text := resp.Text()
	if text == "" {
		text = agent.NoResponsePlaceholder
	}

	if args.JSON {
		out := map[string]any{
			"response":    text,
			"session_id":  resp.SessionID,
			"agents_used": resp.AgentsUsed,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if ColorsEnabled() {
		fmt.Print(components.RenderMarkdown(text, TerminalWidth()))
	} else {
		fmt.Println(text)
	}

	if args.Verbose && len(resp.AgentsUsed) > 0 {
		fmt.Fprintf(os.Stderr, "\nagents: %s\n", strings.Join(resp.AgentsUsed, ", "))
	}
	return nil
}
