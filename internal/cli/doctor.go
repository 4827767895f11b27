// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// doctor.go - Doctor command implementation for itinera.
//
// Command: doctor
// Short:   Check backend connectivity and local state
//
// Health Checks Performed:
//   1. Config Valid     - Configuration file parses and validates
//   2. API Base         - Which source the backend URL came from
//   3. Backend Health   - GET /health responds
//   4. Sessions File    - Session store loads cleanly
//   5. Export Dir       - Export output directory is writable
//
// Exit Codes:
//   0   All checks passed
//   1   One or more checks failed
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/itinera-labs/itinera-tui/internal/agent"
	"github.com/itinera-labs/itinera-tui/internal/config"
	"github.com/itinera-labs/itinera-tui/internal/storage"
)

// =============================================================================
// DOCTOR COMMAND
// =============================================================================

type checkResult struct {
	Name   string `json:"name"`
	Status string `json:"status"` // pass, warn, fail
	Detail string `json:"detail"`
}

// HandleDoctorCommand runs all health checks and reports results.
func HandleDoctorCommand(args Args) error {
	var results []checkResult

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		results = append(results, checkResult{"config", "fail", err.Error()})
		cfg = config.Default()
	} else {
		path, _ := config.ConfigPath()
		results = append(results, checkResult{"config", "pass", path})
	}

	// 2. API base resolution
	name, base := resolveAPIBaseSource(cfg)
	results = append(results, checkResult{"api base", "pass", fmt.Sprintf("%s (%s)", base, name)})

	// 3. Backend health
	results = append(results, checkBackend(base))

	// 4. Sessions file
	results = append(results, checkSessions())

	// 5. Export directory
	results = append(results, checkExportDir(cfg.Export.OutputDir))

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			fmt.Printf("%s %-12s %s\n", statusSymbol(r.Status), r.Name, r.Detail)
		}
	}

	for _, r := range results {
		if r.Status == "fail" {
			os.Exit(1)
		}
	}
	return nil
}

func statusSymbol(status string) string {
	switch status {
	case "pass":
		return "[OK]"
	case "warn":
		return "[! ]"
	default:
		return "[X ]"
	}
}

func resolveAPIBaseSource(cfg *config.Config) (string, string) {
	for _, src := range config.DefaultSources(cfg) {
		if v := src.Value(); v != "" {
			return src.Name, config.ResolveAPIBase([]config.Source{src})
		}
	}
	return "default", config.DefaultAPIBase
}

func checkBackend(base string) checkResult {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := agent.NewClient(base).Health(ctx)
	if err != nil {
		return checkResult{"backend", "fail", err.Error()}
	}
	if !status.OK {
		return checkResult{"backend", "warn", "health endpoint reports not ok"}
	}
	return checkResult{"backend", "pass", "healthy at " + base}
}

func checkSessions() checkResult {
	store, err := storage.NewFileStore()
	if err != nil {
		return checkResult{"sessions", "fail", err.Error()}
	}
	state, err := store.Load()
	switch {
	case errors.Is(err, storage.ErrStateNotFound):
		return checkResult{"sessions", "pass", "no saved trips yet"}
	case err != nil:
		return checkResult{"sessions", "fail", err.Error()}
	default:
		return checkResult{"sessions", "pass", fmt.Sprintf("%d trips", len(state.Sessions))}
	}
}

func checkExportDir(dir string) checkResult {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return checkResult{"export dir", "fail", err.Error()}
	}
	probe := filepath.Join(dir, ".itinera-probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		return checkResult{"export dir", "fail", err.Error()}
	}
	os.Remove(probe)
	return checkResult{"export dir", "pass", dir}
}
