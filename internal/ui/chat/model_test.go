// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/companion/internal/gemini"
	"github.com/jeranaias/companion/internal/model"
	"github.com/jeranaias/companion/internal/orchestrator"
)

var testSuggestions = []string{
	"What is AI?",
	"Tell me a fun fact!",
	"How can I improve my coding skills?",
	"Explain the concept of cloud computing.",
	"Give me a motivational quote!",
}

type fakeGenerator struct {
	prompts []string
	err     error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (*gemini.Reply, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return &gemini.Reply{Text: "reply to " + prompt}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func newTestModel(t *testing.T, gen *fakeGenerator) (Model, *orchestrator.Session) {
	t.Helper()
	sess := orchestrator.New(gen, orchestrator.Options{})
	m := New(context.Background(), sess, Options{Title: "Companion", Suggestions: testSuggestions, Theme: "dark"})
	return update(m, tea.WindowSizeMsg{Width: 120, Height: 40}), sess
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and expands batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// finish runs cmd and feeds the completion messages back into m.
func finish(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case submitDoneMsg, panelDoneMsg:
			m = update(m, msg)
		}
	}
	return m
}

func typeText(m Model, s string) Model {
	m, _ = press(m, runes(s))
	return m
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_TypedMessage(t *testing.T) {
	gen := &fakeGenerator{}
	m, sess := newTestModel(t, gen)

	m = typeText(m, "Hello")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.Busy() {
		t.Fatal("model should be busy after enter")
	}
	if !strings.Contains(m.View(), "Hello") {
		t.Error("pending message should be visible while waiting")
	}

	m = finish(m, cmd)

	if m.Busy() {
		t.Error("model should be idle after the reply")
	}
	want := []model.Message{
		model.NewUserMessage("Hello"),
		model.NewAssistantMessage("reply to Hello"),
	}
	got := m.Transcript()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Transcript() = %+v, want %+v", got, want)
	}
	if sess.Len() != 2 {
		t.Errorf("session Len() = %d, want 2", sess.Len())
	}
}

func TestSubmit_BlankIgnored(t *testing.T) {
	gen := &fakeGenerator{}
	m, _ := newTestModel(t, gen)

	m = typeText(m, "   ")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil || m.Busy() {
		t.Error("blank input should not start a request")
	}
	if len(gen.prompts) != 0 {
		t.Errorf("prompts = %v, want none", gen.prompts)
	}
}

func TestSuggestion_DigitKey(t *testing.T) {
	gen := &fakeGenerator{}
	m, _ := newTestModel(t, gen)

	m, cmd := press(m, runes("2"))
	finish(m, cmd)

	if len(gen.prompts) != 1 || gen.prompts[0] != testSuggestions[1] {
		t.Errorf("prompts = %v, want [%q]", gen.prompts, testSuggestions[1])
	}
}

func TestSuggestion_DigitTypesWhenInputNotEmpty(t *testing.T) {
	gen := &fakeGenerator{}
	m, _ := newTestModel(t, gen)

	m = typeText(m, "a")
	m, _ = press(m, runes("1"))

	if m.Busy() {
		t.Error("digit should be typed, not submitted")
	}
	if m.input.Value() != "a1" {
		t.Errorf("input = %q, want %q", m.input.Value(), "a1")
	}
}

func TestSuggestion_TabSelection(t *testing.T) {
	gen := &fakeGenerator{}
	m, _ := newTestModel(t, gen)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Selected() != len(testSuggestions)-1 {
		t.Errorf("shift+tab from none selected %d", m.Selected())
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Selected() != 1 {
		t.Errorf("Selected() = %d, want 1", m.Selected())
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(m, cmd)

	if len(gen.prompts) != 1 || gen.prompts[0] != testSuggestions[1] {
		t.Errorf("prompts = %v", gen.prompts)
	}
	if m.Selected() != -1 {
		t.Error("selection should reset after sending")
	}
}

func TestBusy_IgnoresInput(t *testing.T) {
	gen := &fakeGenerator{}
	m, _ := newTestModel(t, gen)

	m = typeText(m, "first")
	m, pending := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	m = typeText(m, "x")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("summary should be ignored while busy")
	}
	if m.input.Value() != "" {
		t.Errorf("typing while busy changed input to %q", m.input.Value())
	}

	m = finish(m, pending)
	if len(m.Transcript()) != 2 {
		t.Errorf("Transcript() has %d messages, want 2", len(m.Transcript()))
	}
}

func TestSubmit_ErrorReplyShown(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	m, _ := newTestModel(t, gen)

	m = typeText(m, "hi")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(m, cmd)

	if !strings.Contains(m.View(), "❌ Error: boom") {
		t.Error("error reply should be rendered")
	}
}

// =============================================================================
// PANEL TESTS
// =============================================================================

func TestSummary_ShowsPanel(t *testing.T) {
	gen := &fakeGenerator{}
	m, sess := newTestModel(t, gen)

	m = typeText(m, "Hello")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(m, cmd)

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = finish(m, cmd)

	if m.panel == nil || m.panel.kind != panelSummary {
		t.Fatalf("panel = %+v, want summary", m.panel)
	}
	wantPrompt := "Summarize this conversation briefly:\nHello\nreply to Hello"
	if gen.prompts[len(gen.prompts)-1] != wantPrompt {
		t.Errorf("summary prompt = %q", gen.prompts[len(gen.prompts)-1])
	}
	if sess.Len() != 2 || len(m.Transcript()) != 2 {
		t.Error("summary must not change the transcript")
	}
	if !strings.Contains(m.View(), "Chat Summary") {
		t.Error("summary panel title missing")
	}
}

func TestFact_ShowsPanel(t *testing.T) {
	gen := &fakeGenerator{}
	m, _ := newTestModel(t, gen)

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlF})
	m = finish(m, cmd)

	if m.panel == nil || m.panel.kind != panelFact {
		t.Fatalf("panel = %+v, want fact", m.panel)
	}
	if gen.prompts[0] != orchestrator.FactPrompt {
		t.Errorf("prompt = %q", gen.prompts[0])
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if m.panel != nil {
		t.Error("ctrl+x should close the panel")
	}
}

func TestClear(t *testing.T) {
	gen := &fakeGenerator{}
	m, sess := newTestModel(t, gen)

	m = typeText(m, "Hello")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = finish(m, cmd)
	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlF})
	m = finish(m, cmd)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})

	if len(m.Transcript()) != 0 || sess.Len() != 0 {
		t.Error("clear should empty the transcript")
	}
	if m.panel != nil {
		t.Error("clear should close the panel")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, &fakeGenerator{})

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestView_NarrowTerminal(t *testing.T) {
	m, _ := newTestModel(t, &fakeGenerator{})
	m = update(m, tea.WindowSizeMsg{Width: 40, Height: 20})

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlF})
	m = finish(m, cmd)

	if !strings.Contains(m.View(), "Fun Fact") {
		t.Error("stacked panel should render in narrow terminals")
	}
}
