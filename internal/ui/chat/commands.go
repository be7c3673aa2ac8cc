// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// The commands below are the only code that touches the session. The model
// starts at most one at a time (see Model.busy).

func (m Model) submitCmd(text string) tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		start := time.Now()
		sess.Submit(ctx, text)
		return submitDoneMsg{transcript: sess.Transcript(), elapsed: time.Since(start)}
	}
}

func (m Model) summaryCmd() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		start := time.Now()
		text := sess.Summarize(ctx)
		return panelDoneMsg{kind: panelSummary, text: text, elapsed: time.Since(start)}
	}
}

func (m Model) factCmd() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		start := time.Now()
		text := sess.RandomFact(ctx)
		return panelDoneMsg{kind: panelFact, text: text, elapsed: time.Since(start)}
	}
}
