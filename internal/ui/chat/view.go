// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion/internal/model"
	"github.com/jeranaias/companion/internal/util"
)

const (
	// sidePanelMinWidth is the terminal width from which the panel sits
	// beside the transcript instead of under it.
	sidePanelMinWidth = 100
	stackedPanelLines = 8
)

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	body := m.viewport.View()
	if m.panel != nil {
		p := m.renderPanel()
		if m.width >= sidePanelMinWidth {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, p)
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, body, p)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderSuggestions(),
		body,
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// layout sizes the viewport for the current window and panel, then
// re-renders the transcript.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	reserved := lipgloss.Height(m.renderHeader()) +
		lipgloss.Height(m.renderSuggestions()) +
		lipgloss.Height(m.renderInput()) +
		lipgloss.Height(m.renderStatusBar())

	vpWidth := m.width
	vpHeight := m.height - reserved
	if m.panel != nil {
		if m.width >= sidePanelMinWidth {
			vpWidth = m.width * 2 / 3
		} else {
			vpHeight -= stackedPanelLines + 2
		}
	}
	m.viewport.Width = max(vpWidth, 1)
	m.viewport.Height = max(vpHeight, 1)
	m.input.Width = max(m.width-8, 10)

	m.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// =============================================================================
// COMPONENTS
// =============================================================================

func (m Model) renderHeader() string {
	return m.theme.Header.Width(m.width).Render(m.title)
}

func (m Model) renderSuggestions() string {
	label := m.theme.SuggestionLabel.Render("💡 Quick Suggestions:")

	var (
		rows []string
		row  []string
		used int
	)
	for i, s := range m.suggestions {
		style := m.theme.Suggestion
		if i == m.selected {
			style = m.theme.SuggestionSelected
		}
		btn := style.Render(fmt.Sprintf("%d %s", i+1, s))
		w := lipgloss.Width(btn)
		if used > 0 && used+w > m.width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, used = nil, 0
		}
		row = append(row, btn)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{label}, rows...)...)
}

func (m Model) renderTranscript() string {
	width := max(m.viewport.Width-3, 10)

	if len(m.transcript) == 0 && m.pending == "" {
		return m.theme.Empty.Render("Ask me anything, or pick a suggestion.")
	}

	var b strings.Builder
	for _, msg := range m.transcript {
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n")
	}
	if m.pending != "" {
		b.WriteString(m.renderMessage(model.NewUserMessage(m.pending), width))
		b.WriteString("\n")
	}
	if m.busy && m.busyFor == "reply" {
		b.WriteString(m.spinner.View() + " " + m.theme.ThinkingText.Render("🤖 Thinking..."))
	}
	return b.String()
}

func (m Model) renderMessage(msg model.Message, width int) string {
	switch {
	case msg.Role == model.RoleUser:
		return m.theme.UserMessage.Width(width).Render(msg.Role.Icon() + " " + msg.Content)
	case msg.IsError():
		return m.theme.ErrorMessage.Width(width).Render(msg.Role.Icon() + " " + msg.Content)
	default:
		return m.theme.AssistantMessage.Render(msg.Role.Icon() + " " + m.markdown.Render(msg.Content, width-3))
	}
}

func (m Model) renderPanel() string {
	title := m.theme.SummaryTitle.Render("📚 Chat Summary")
	if m.panel.kind == panelFact {
		title = m.theme.FactTitle.Render("🎉 Fun Fact")
	}

	var (
		width  int
		height int
	)
	if m.width >= sidePanelMinWidth {
		width = m.width - m.viewport.Width - 2
		height = m.viewport.Height - 2
	} else {
		width = m.width - 2
		height = stackedPanelLines
	}
	width = max(width, 10)
	height = max(height, 1)

	text := m.markdown.Render(m.panel.text, width-4)
	content := lipgloss.JoinVertical(lipgloss.Left, title, text)
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return m.theme.Panel.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderInput() string {
	if m.busy {
		what := m.theme.ThinkingText.Render(fmt.Sprintf("Waiting for %s...", m.busyFor))
		return m.theme.Input.Width(max(m.width-2, 10)).Render(m.spinner.View() + " " + what)
	}
	return m.theme.Input.Width(max(m.width-2, 10)).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	info := fmt.Sprintf("%d messages", len(m.transcript))
	if m.lastTook > 0 {
		info += " | last " + util.FormatDuration(m.lastTook)
	}
	status := m.theme.StatusBar.Render(info)

	// Drop shortcuts from the end until the line fits.
	bindings := m.keys.ShortHelp()
	for n := len(bindings); n >= 0; n-- {
		parts := make([]string, 0, n+1)
		for _, b := range bindings[:n] {
			h := b.Help()
			parts = append(parts, m.theme.Shortcut(h.Key, h.Desc))
		}
		parts = append(parts, status)
		line := strings.Join(parts, "  ")
		if lipgloss.Width(line) <= m.width || n == 0 {
			return line
		}
	}
	return status
}
