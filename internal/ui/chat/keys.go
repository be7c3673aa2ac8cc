// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit      key.Binding
	Suggest     key.Binding
	NextSuggest key.Binding
	PrevSuggest key.Binding
	Summary     key.Binding
	Fact        key.Binding
	Clear       key.Binding
	ClosePanel  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "suggestion"),
		),
		NextSuggest: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next suggestion"),
		),
		PrevSuggest: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev suggestion"),
		),
		Summary: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "summary"),
		),
		Fact: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "fun fact"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear"),
		),
		ClosePanel: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "close panel"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the help line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Suggest, k.Summary, k.Fact, k.Clear, k.Quit}
}
