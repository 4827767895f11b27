// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itinera-labs/itinera-tui/internal/agent"
	"github.com/itinera-labs/itinera-tui/internal/export"
	"github.com/itinera-labs/itinera-tui/internal/model"
	"github.com/itinera-labs/itinera-tui/internal/registry"
	"github.com/itinera-labs/itinera-tui/internal/storage"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	reg := registry.New(storage.NewMemStore(), "tester")
	return New(Options{
		Registry: reg,
		Client:   agent.NewClient("http://localhost:1"),
		Exporter: export.NewClient("http://localhost:1", t.TempDir()),
	})
}

func submitText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.input.SetValue(text)
	next, _ := m.submit()
	return next.(Model)
}

func TestSubmitEmptyInputIgnored(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   \n  ")
	next, cmd := m.submit()
	m = next.(Model)
	assert.Equal(t, StateIdle, m.State())
	assert.Nil(t, cmd)
	assert.Empty(t, m.sessions.Active().Messages)
}

func TestSubmitEntersSendingAndAppendsUserMessage(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "Plan a trip to Kyoto")

	assert.Equal(t, StateSending, m.State())
	active := m.sessions.Active()
	require.Len(t, active.Messages, 1)
	assert.Equal(t, model.RoleUser, active.Messages[0].Role)
	// First message names the session.
	assert.Equal(t, "Plan a trip to Kyoto", active.Name)
	assert.Empty(t, m.input.Value())
}

func TestSendCompleteAppendsAssistantMessage(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "hello")

	next, _ := m.Update(sendCompleteMsg{
		Generation: m.tracker.current(),
		SessionID:  m.sessions.ActiveID(),
		RemoteID:   "remote-1",
		Text:       "Here is your itinerary",
	})
	m = next.(Model)

	assert.Equal(t, StateIdle, m.State())
	active := m.sessions.Active()
	require.Len(t, active.Messages, 2)
	assert.Equal(t, model.RoleAssistant, active.Messages[1].Role)
	assert.Equal(t, "Here is your itinerary", active.Messages[1].Content)
	assert.Equal(t, "remote-1", active.RemoteID)
}

func TestStaleCompletionDiscarded(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "first")
	staleGen := m.tracker.current()

	// A second send supersedes the first.
	m = submitText(t, m, "second")

	next, _ := m.Update(sendCompleteMsg{
		Generation: staleGen,
		SessionID:  m.sessions.ActiveID(),
		Text:       "late answer to first",
	})
	m = next.(Model)

	// Still waiting on the second send; nothing appended.
	assert.Equal(t, StateSending, m.State())
	active := m.sessions.Active()
	require.Len(t, active.Messages, 2)
	for _, msg := range active.Messages {
		assert.Equal(t, model.RoleUser, msg.Role)
	}
}

func TestSendErrorRecordedInTranscript(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "hello")

	next, _ := m.Update(sendCompleteMsg{
		Generation: m.tracker.current(),
		SessionID:  m.sessions.ActiveID(),
		Err:        errors.New("connection refused"),
	})
	m = next.(Model)

	assert.Equal(t, StateIdle, m.State())
	active := m.sessions.Active()
	require.Len(t, active.Messages, 2)
	last := active.Messages[1]
	assert.True(t, last.IsError())
	assert.True(t, strings.HasPrefix(last.Content, model.ErrorPrefix))
	assert.Contains(t, last.Content, "connection refused")
}

func TestCancelledSendLeavesNoTrace(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "hello")
	gen := m.tracker.current()

	// Esc aborts and advances the generation.
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Equal(t, StateIdle, m.State())

	next, _ = m.Update(sendCompleteMsg{
		Generation: gen,
		SessionID:  m.sessions.ActiveID(),
		Err:        context.Canceled,
	})
	m = next.(Model)

	require.Len(t, m.sessions.Active().Messages, 1)
}

func TestExportErrorStaysOutOfTranscript(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "hello")

	next, _ := m.Update(exportCompleteMsg{
		SessionID: m.sessions.ActiveID(),
		Err:       errors.New("export failed (HTTP 404): Session not found"),
	})
	m = next.(Model)

	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, "Session not found")
	require.Len(t, m.sessions.Active().Messages, 1)
}

func TestExportRequiresRemoteSession(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.startExport()
	m = next.(Model)
	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, "send a message first")
}

func TestRenameFlow(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "original title")

	next, _ := m.startRename()
	m = next.(Model)
	assert.True(t, m.renaming)
	assert.Equal(t, "original title", m.renameInput.Value())

	m.renameInput.SetValue("Kyoto in spring")
	next, _ = m.handleRenameKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.False(t, m.renaming)
	assert.Equal(t, "Kyoto in spring", m.sessions.Active().Name)
}

func TestRenameEscapeKeepsName(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "original title")

	next, _ := m.startRename()
	m = next.(Model)
	m.renameInput.SetValue("discarded")
	next, _ = m.handleRenameKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	assert.False(t, m.renaming)
	assert.Equal(t, "original title", m.sessions.Active().Name)
}

func TestDeleteActiveBootstrapsReplacement(t *testing.T) {
	m := newTestModel(t)
	m = submitText(t, m, "only session")

	next, _ := m.deleteActive()
	m = next.(Model)

	require.NotNil(t, m.sessions.Active())
	assert.Empty(t, m.sessions.Active().Messages)
	assert.Equal(t, 1, m.sessions.Len())
}

func TestSendTrackerGenerations(t *testing.T) {
	st := newSendTracker()
	g1 := st.begin(func() {})
	g2 := st.begin(func() {})
	assert.Greater(t, g2, g1)
	assert.False(t, st.finish(g1), "superseded generation must be stale")
	assert.True(t, st.finish(g2))

	g3 := st.begin(func() {})
	st.abort()
	assert.False(t, st.finish(g3), "aborted generation must be stale")
}
