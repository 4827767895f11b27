// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export downloads rendered trip artifacts from the backend.
//
// The backend renders the artifact (json, markdown, html or pdf) for a
// session's latest successful run, or a bundle of every response in the
// session; this package fetches the bytes and saves them under the
// configured output directory with the deterministic name
// trip_{sessionID}_{scope}.{ext}. A failed export surfaces a single error
// string and touches no session state.
package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/itinera-labs/itinera-tui/internal/util"
)

// =============================================================================
// FORMATS
// =============================================================================

// Format is a supported artifact format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// ParseFormat maps user input to a Format, accepting common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json, md, html or pdf)", s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// scope labels used in export filenames; these match what the backend
// itself uses when it names a download.
const (
	scopeLast = "last"
	scopeAll  = "all_responses"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client fetches export artifacts from the backend.
type Client struct {
	baseURL    string
	outputDir  string
	httpClient *http.Client
}

// NewClient creates an export client. Artifacts are saved under outputDir,
// created on first use.
func NewClient(baseURL, outputDir string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		outputDir: outputDir,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Export downloads one artifact for the session and saves it locally,
// returning the saved path. With all set, the backend bundles every
// response in the session instead of only the latest.
func (c *Client) Export(ctx context.Context, sessionID string, format Format, all bool) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("export: session id is required")
	}

	q := url.Values{}
	q.Set("session_id", sessionID)
	q.Set("fmt", string(format))
	if all {
		q.Set("all_responses", "true")
	}
	endpoint := c.baseURL + "/trip/export?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("export request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024*1024))
	if err != nil {
		return "", fmt.Errorf("read export payload: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Non-2xx export replies carry an optional plain-text or JSON
		// detail body worth showing to the user.
		msg := fmt.Sprintf("export failed (HTTP %d)", resp.StatusCode)
		if body := strings.TrimSpace(string(data)); body != "" {
			msg += ": " + body
		}
		return "", fmt.Errorf("%s", msg)
	}

	path := filepath.Join(c.outputDir, Filename(sessionID, format, all))
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save export: %w", err)
	}
	return path, nil
}

// Filename returns the deterministic artifact filename for a session,
// format and scope.
func Filename(sessionID string, format Format, all bool) string {
	scope := scopeLast
	if all {
		scope = scopeAll
	}
	return fmt.Sprintf("trip_%s_%s.%s", sessionID, scope, format.Ext())
}
