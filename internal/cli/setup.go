// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/itinera-labs/itinera-tui/internal/agent"
	"github.com/itinera-labs/itinera-tui/internal/config"
	"github.com/itinera-labs/itinera-tui/internal/export"
	"github.com/itinera-labs/itinera-tui/internal/registry"
	"github.com/itinera-labs/itinera-tui/internal/storage"
)

// Env bundles the wiring shared by all commands: resolved config, the
// session registry, and the backend clients.
type Env struct {
	Cfg      *config.Config
	APIBase  string
	Registry *registry.Registry
	Client   *agent.Client
	Exporter *export.Client
}

// NewEnv loads configuration, resolves the API base, and constructs the
// shared clients.
func NewEnv() (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	apiBase := config.APIBase(cfg)

	store, err := storage.NewFileStore()
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	return &Env{
		Cfg:      cfg,
		APIBase:  apiBase,
		Registry: registry.New(store, cfg.User.ID),
		Client:   agent.NewClient(apiBase).WithTimeout(cfg.Timeout()),
		Exporter: export.NewClient(apiBase, cfg.Export.OutputDir),
	}, nil
}
