// Copyright (c) 2025 Itinera Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itinera-labs/itinera-tui/internal/model"
	"github.com/itinera-labs/itinera-tui/internal/ui/components"
	"github.com/itinera-labs/itinera-tui/internal/ui/styles"
	"github.com/itinera-labs/itinera-tui/internal/util"
)

const (
	sessionPaneWidth = 26
	inputHeight      = 3
)

// layout recomputes component dimensions after a resize.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	transcriptWidth := m.width
	if m.paneVisible() {
		transcriptWidth -= sessionPaneWidth + 1
	}

	// Header, input area with border, status bar.
	transcriptHeight := m.height - 1 - (inputHeight + 1) - 1
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	m.viewport.Width = transcriptWidth
	m.viewport.Height = transcriptHeight
	m.input.SetWidth(m.width - 4)
	m.renameInput.Width = m.width - 12
}

func (m Model) paneVisible() bool {
	return m.theme.GetLayoutMode() != styles.LayoutNarrow
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript re-renders the active session into the viewport.
// New content pins the view to the bottom; resizes keep the position.
func (m *Model) refreshTranscript(gotoBottom bool) {
	active := m.sessions.Active()
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	if active == nil || len(active.Messages) == 0 {
		b.WriteString(m.renderEmptyState())
	} else {
		for i, msg := range active.Messages {
			if i > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(m.renderMessage(msg, width))
		}
	}

	m.viewport.SetContent(b.String())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderEmptyState() string {
	var b strings.Builder
	b.WriteString(m.theme.MessageMeta.Render("Start planning a trip."))
	if m.showSamplePrompts {
		b.WriteString("\n\n")
		b.WriteString(m.theme.MessageMeta.Render("Try one of these:"))
		for _, p := range samplePrompts {
			b.WriteString("\n")
			b.WriteString(m.theme.SamplePrompt.Render(p))
		}
	}
	return b.String()
}

func (m Model) renderMessage(msg model.Message, width int) string {
	meta := m.theme.MessageMeta.Render(msg.Timestamp.Format("15:04"))

	var label string
	var bubble lipgloss.Style
	switch {
	case msg.IsError():
		label = "Itinera"
		bubble = m.theme.ErrorBubble
	case msg.Role == model.RoleUser:
		label = "You"
		bubble = m.theme.UserBubble
	default:
		label = "Itinera"
		bubble = m.theme.AssistantBubble
	}

	content := msg.Content
	if msg.Role == model.RoleAssistant && !msg.IsError() {
		content = components.ParseCodeBlocks(content, width-4)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.HeaderTitle.Render(label), " ", meta)
	body := bubble.MaxWidth(width).Render(content)
	return header + "\n" + body
}

// =============================================================================
// SESSION PANE
// =============================================================================

func (m Model) renderSessionPane(height int) string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Trips"))
	b.WriteString("\n")

	active := m.sessions.ActiveID()
	for _, s := range m.sessions.Sessions() {
		name := util.TruncateWidth(s.Name, sessionPaneWidth-4)
		line := "  " + name
		switch {
		case m.renaming && s.ID == m.renameTarget:
			line = m.theme.SessionRenaming.Render("* " + name)
		case s.ID == active:
			line = m.theme.SessionActive.Render("* " + name)
		default:
			line = m.theme.SessionItem.Render(line)
		}
		b.WriteString("\n")
		b.WriteString(line)
	}

	return m.theme.SessionPane.
		Width(sessionPaneWidth).
		Height(height).
		Render(b.String())
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.theme.Header.Width(m.width).Render("Itinera — travel planning")

	transcript := m.viewport.View()
	main := transcript
	if m.paneVisible() {
		main = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderSessionPane(m.viewport.Height), " ", transcript)
	}

	var input string
	if m.renaming {
		input = m.theme.InputContainer.Width(m.width).Render(m.renameInput.View())
	} else {
		input = m.theme.InputContainer.Width(m.width).Render(m.input.View())
	}

	status := m.renderStatusBar()

	sections := []string{header, main, input, status}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.state == StateSending:
		left = m.theme.Spinner.Render(m.spinner.View()) + " " +
			m.theme.ThinkingText.Render("Planning...")
	case m.notice != "" && m.noticeErr:
		left = m.theme.NoticeError.Render(m.notice)
	case m.notice != "":
		left = m.theme.Notice.Render(m.notice)
	default:
		left = m.theme.ShortcutKey.Render("Enter") + m.theme.ShortcutDesc.Render(" send  ") +
			m.theme.ShortcutKey.Render("S-Enter") + m.theme.ShortcutDesc.Render(" newline  ") +
			m.theme.ShortcutKey.Render("C-h") + m.theme.ShortcutDesc.Render(" help")
	}
	return m.theme.StatusBar.Width(m.width).Render(left)
}

func (m Model) renderHelp() string {
	rows := []struct{ key, desc string }{
		{"Enter", "send message"},
		{"Shift+Enter", "insert newline"},
		{"Esc", "cancel in-flight request"},
		{"Ctrl+N", "new trip"},
		{"Ctrl+Up/Down", "switch session"},
		{"Ctrl+R", "rename session"},
		{"Ctrl+X", "delete session"},
		{"Ctrl+E", "export trip"},
		{"PgUp/PgDn", "scroll transcript"},
		{"Ctrl+C", "quit"},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s  %s\n",
			m.theme.ShortcutKey.Render(util.PadRight(r.key, 14)),
			m.theme.ShortcutDesc.Render(r.desc)))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.TrimRight(b.String(), "\n"))
}
