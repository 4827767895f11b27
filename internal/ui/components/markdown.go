// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

var (
	mdOnce     sync.Once
	mdRenderer *glamour.TermRenderer
)

// RenderMarkdown renders markdown content for terminal display at the
// given wrap width. Returns the original content if rendering fails.
func RenderMarkdown(content string, width int) string {
	if width <= 0 {
		width = 80
	}
	mdOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			mdRenderer = r
		}
	})
	if mdRenderer == nil {
		return content
	}
	out, err := mdRenderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
