// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/itinera-labs/itinera-tui/internal/agent"
	"github.com/itinera-labs/itinera-tui/internal/model"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sendCompleteMsg:
		return m.handleSendComplete(msg)

	case exportCompleteMsg:
		return m.handleExportComplete(msg)

	case healthMsg:
		if msg.Err != nil {
			return m, m.notify("Backend unreachable at "+m.client.BaseURL(), true)
		}
		return m, nil

	case clearNoticeMsg:
		if msg.ID == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateSending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateComponents(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Rename mode captures everything except commit/cancel.
	if m.renaming {
		return m.handleRenameKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.tracker.abort()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Cancel):
		if m.state == StateSending {
			m.tracker.abort()
			m.state = StateIdle
			return m, m.notify("Request cancelled", false)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Newline):
		m.input.InsertString("\n")
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.NewSession):
		m.sessions.Create()
		m.refreshTranscript(true)
		return m, nil

	case key.Matches(msg, m.keyMap.NextSess):
		m.cycleSession(1)
		return m, nil

	case key.Matches(msg, m.keyMap.PrevSess):
		m.cycleSession(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.Rename):
		return m.startRename()

	case key.Matches(msg, m.keyMap.Delete):
		return m.deleteActive()

	case key.Matches(msg, m.keyMap.Export):
		return m.startExport()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := strings.TrimSpace(m.renameInput.Value())
		m.sessions.Rename(m.renameTarget, name)
		m.renaming = false
		m.renameTarget = ""
		m.input.Focus()
		m.refreshTranscript(false)
		return m, nil
	case "esc":
		m.renaming = false
		m.renameTarget = ""
		m.input.Focus()
		return m, nil
	}
	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

// =============================================================================
// SENDING
// =============================================================================

// submit posts the composed message to the backend. Starting a new send
// supersedes any in-flight one.
func (m Model) submit() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	active := m.sessions.Active()
	if active == nil {
		active = m.sessions.Create()
	}

	m.sessions.AppendMessage(active.ID, model.NewMessage(model.RoleUser, content))
	m.input.Reset()
	m.state = StateSending
	m.sendStart = time.Now()
	m.refreshTranscript(true)

	ctx, cancel := context.WithCancel(context.Background())
	gen := m.tracker.begin(cancel)

	req := agent.ProcessRequest{
		UserRequest: content,
		UserID:      active.UserID,
		SessionID:   active.RemoteID,
	}
	sessionID := active.ID
	client := m.client

	send := func() tea.Msg {
		start := time.Now()
		resp, err := client.Process(ctx, req)
		out := sendCompleteMsg{
			Generation: gen,
			SessionID:  sessionID,
			Elapsed:    time.Since(start),
		}
		if err != nil {
			out.Err = err
			return out
		}
		out.RemoteID = resp.SessionID
		out.Text = resp.Text()
		if out.Text == "" {
			out.Text = agent.NoResponsePlaceholder
		}
		return out
	}

	return m, tea.Batch(m.spinner.Tick, send)
}

func (m Model) handleSendComplete(msg sendCompleteMsg) (tea.Model, tea.Cmd) {
	// A completion from a superseded send: drop it entirely. Its
	// transcript entry would interleave with the newer exchange.
	if !m.tracker.finish(msg.Generation) {
		return m, nil
	}

	m.state = StateIdle

	switch {
	case msg.Err != nil && errors.Is(msg.Err, context.Canceled):
		// Cancelled by the user; nothing to record.
		return m, nil

	case msg.Err != nil:
		m.sessions.AppendMessage(msg.SessionID, model.NewErrorMessage(msg.Err.Error()))

	default:
		if msg.RemoteID != "" {
			m.sessions.AdoptRemoteID(msg.SessionID, msg.RemoteID)
		}
		m.sessions.AppendMessage(msg.SessionID, model.NewMessage(model.RoleAssistant, msg.Text))
	}

	// Only re-render when the completed session is still on screen.
	if msg.SessionID == m.sessions.ActiveID() {
		m.refreshTranscript(true)
	}
	return m, nil
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

func (m *Model) cycleSession(delta int) {
	list := m.sessions.Sessions()
	if len(list) < 2 {
		return
	}
	active := m.sessions.ActiveID()
	idx := 0
	for i, s := range list {
		if s.ID == active {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(list)) % len(list)
	m.sessions.SetActive(list[idx].ID)
	m.refreshTranscript(true)
}

func (m Model) startRename() (tea.Model, tea.Cmd) {
	active := m.sessions.Active()
	if active == nil {
		return m, nil
	}
	m.renaming = true
	m.renameTarget = active.ID
	m.renameInput.SetValue(active.Name)
	m.renameInput.CursorEnd()
	m.renameInput.Focus()
	m.input.Blur()
	return m, nil
}

func (m Model) deleteActive() (tea.Model, tea.Cmd) {
	active := m.sessions.Active()
	if active == nil {
		return m, nil
	}
	name := active.Name
	m.sessions.Delete(active.ID)
	if m.sessions.Len() == 0 {
		m.sessions.Create()
	}
	m.refreshTranscript(true)
	return m, m.notify(fmt.Sprintf("Deleted %q", name), false)
}

// =============================================================================
// EXPORT
// =============================================================================

func (m Model) startExport() (tea.Model, tea.Cmd) {
	active := m.sessions.Active()
	if active == nil {
		return m, nil
	}
	if active.RemoteID == "" {
		return m, m.notify("Nothing to export yet: send a message first", true)
	}

	exporter := m.exporter
	remoteID := active.RemoteID
	sessionID := active.ID
	format := m.exportFormat
	all := m.exportAll

	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		path, err := exporter.Export(ctx, remoteID, format, all)
		return exportCompleteMsg{SessionID: sessionID, Path: path, Err: err}
	}
	return m, tea.Batch(m.notify("Exporting trip...", false), run)
}

func (m Model) handleExportComplete(msg exportCompleteMsg) (tea.Model, tea.Cmd) {
	// Export failures stay in the status line; they never enter the
	// transcript.
	if msg.Err != nil {
		return m, m.notify("Export failed: "+msg.Err.Error(), true)
	}
	return m, m.notify("Exported to "+msg.Path, false)
}

// =============================================================================
// COMPONENT PLUMBING
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.layout()
	m.refreshTranscript(false)
	return m
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.renaming {
		m.renameInput, cmd = m.renameInput.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
