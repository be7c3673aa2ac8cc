// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/companion/internal/model"
	"github.com/jeranaias/companion/internal/orchestrator"
	"github.com/jeranaias/companion/internal/ui/render"
	"github.com/jeranaias/companion/internal/ui/styles"
)

// Options configures the chat UI.
type Options struct {
	Title       string
	Suggestions []string
	// Theme is "dark", "light" or "auto".
	Theme string
}

// panel is the side panel content.
type panel struct {
	kind panelKind
	text string
}

// Model is the Bubble Tea model of the chat UI.
type Model struct {
	ctx  context.Context
	sess *orchestrator.Session

	title       string
	suggestions []string
	theme       *styles.Theme
	markdown    *render.Markdown
	keys        KeyMap

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	// transcript is the last snapshot returned by a command.
	transcript []model.Message
	// pending is the user text of the Submit in flight.
	pending string
	busy    bool
	busyFor string

	selected int // highlighted suggestion, -1 for none
	panel    *panel
	lastTook time.Duration

	width  int
	height int
}

// New creates the chat model for sess. ctx bounds every model request.
func New(ctx context.Context, sess *orchestrator.Session, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "💬 "
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 4096
	ti.Focus()

	theme := styles.NewTheme(opts.Theme)

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.Spinner),
	)

	return Model{
		ctx:         ctx,
		sess:        sess,
		title:       opts.Title,
		suggestions: opts.Suggestions,
		theme:       theme,
		markdown:    render.NewMarkdown(opts.Theme),
		keys:        DefaultKeyMap(),
		input:       ti,
		viewport:    viewport.New(80, 20),
		spinner:     sp,
		transcript:  sess.Transcript(),
		selected:    -1,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitDoneMsg:
		m.busy, m.busyFor, m.pending = false, "", ""
		m.transcript = msg.transcript
		m.lastTook = msg.elapsed
		m.refresh()
		return m, nil

	case panelDoneMsg:
		m.busy, m.busyFor = false, ""
		m.panel = &panel{kind: msg.kind, text: msg.text}
		m.lastTook = msg.elapsed
		m.layout()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	// Everything else starts or edits a request; ignore it while one runs.
	if m.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		if strings.TrimSpace(text) == "" && m.selected >= 0 {
			text = m.suggestions[m.selected]
		}
		return m.submit(text)

	case key.Matches(msg, m.keys.Suggest) && m.input.Value() == "":
		idx := int(msg.Runes[0] - '1')
		if idx >= len(m.suggestions) {
			return m, nil
		}
		m.selected = idx
		return m.submit(m.suggestions[idx])

	case key.Matches(msg, m.keys.NextSuggest):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevSuggest):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Summary):
		return m.startPanel("summary", m.summaryCmd())

	case key.Matches(msg, m.keys.Fact):
		return m.startPanel("fun fact", m.factCmd())

	case key.Matches(msg, m.keys.Clear):
		m.sess.Reset()
		m.transcript = nil
		m.panel = nil
		m.selected = -1
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.ClosePanel):
		m.panel = nil
		m.layout()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != "" {
		m.selected = -1
	}
	return m, cmd
}

// submit starts a Submit for text. Blank text does nothing.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.busy, m.busyFor, m.pending = true, "reply", text
	m.input.Reset()
	m.selected = -1
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.submitCmd(text))
}

func (m Model) startPanel(what string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy, m.busyFor = true, what
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, cmd)
}

func (m *Model) moveSelection(delta int) {
	n := len(m.suggestions)
	if n == 0 {
		return
	}
	if m.selected < 0 {
		if delta > 0 {
			m.selected = 0
		} else {
			m.selected = n - 1
		}
		return
	}
	m.selected = (m.selected + delta + n) % n
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Busy reports whether a request is in flight.
func (m Model) Busy() bool { return m.busy }

// Transcript returns the transcript as last seen by the UI.
func (m Model) Transcript() []model.Message { return m.transcript }

// Selected returns the highlighted suggestion index, or -1.
func (m Model) Selected() int { return m.selected }
