// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/itinera-labs/itinera-tui/internal/agent"
	"github.com/itinera-labs/itinera-tui/internal/export"
	"github.com/itinera-labs/itinera-tui/internal/registry"
	"github.com/itinera-labs/itinera-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateIdle    State = iota // Ready for input
	StateSending              // A request is in flight
)

// samplePrompts seed an empty conversation so the first screen is not
// blank.
var samplePrompts = []string{
	"Plan a 5-day food-focused trip to Osaka in November",
	"Find me a quiet beach destination within 4 hours of Lisbon",
	"Build a family itinerary for a week in Costa Rica",
	"What should I pack for Patagonia in March?",
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State

	theme  *styles.Theme
	keyMap KeyMap

	width  int
	height int

	// Domain wiring
	sessions *registry.Registry
	client   *agent.Client
	exporter *export.Client

	// Send tracking. Pointer to avoid copying the mutex when Bubble Tea
	// copies the model.
	tracker   *sendTracker
	sendStart time.Time

	// UI components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	// Inline rename
	renaming     bool
	renameInput  textinput.Model
	renameTarget string

	// Export
	exportFormat export.Format
	exportAll    bool

	// Transient status line
	notice    string
	noticeErr bool
	noticeSeq int

	showSamplePrompts bool
	showHelp          bool
}

// Options configures the chat view.
type Options struct {
	Theme             *styles.Theme
	Registry          *registry.Registry
	Client            *agent.Client
	Exporter          *export.Client
	ShowSamplePrompts bool
}

// New creates a new chat model.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Where do you want to go?"
	ta.Prompt = "> "
	ta.CharLimit = 8192
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	ri := textinput.New()
	ri.Prompt = "Rename: "
	ri.CharLimit = 120

	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	m := Model{
		state:             StateIdle,
		theme:             theme,
		keyMap:            DefaultKeyMap(),
		sessions:          opts.Registry,
		client:            opts.Client,
		exporter:          opts.Exporter,
		tracker:           newSendTracker(),
		viewport:          vp,
		input:             ta,
		spinner:           sp,
		renameInput:       ri,
		exportFormat:      export.FormatMarkdown,
		showSamplePrompts: opts.ShowSamplePrompts,
	}
	m.refreshTranscript(true)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.checkHealth)
}

// checkHealth probes the backend once at startup so an unreachable
// server is visible before the first send.
func (m Model) checkHealth() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := m.client.Health(ctx)
	return healthMsg{Err: err}
}

// State returns the current view state.
func (m Model) State() State {
	return m.state
}

// notify sets a transient status line and schedules its removal.
func (m *Model) notify(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	id := m.noticeSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{ID: id}
	})
}
