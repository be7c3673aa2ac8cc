// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components of the terminal UI.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	Header lipgloss.Style

	// Suggestion bar
	SuggestionLabel    lipgloss.Style
	Suggestion         lipgloss.Style
	SuggestionSelected lipgloss.Style

	// Transcript
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	ErrorMessage     lipgloss.Style
	Empty            lipgloss.Style

	// Side panel for summaries and facts
	Panel        lipgloss.Style
	SummaryTitle lipgloss.Style
	FactTitle    lipgloss.Style

	Input        lipgloss.Style
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme creates a theme. name is "dark", "light" or "auto"; "auto" asks
// the terminal for its background color.
func NewTheme(name string) *Theme {
	profile := termenv.ColorProfile()

	var isDark bool
	switch strings.ToLower(name) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)
	lipgloss.SetColorProfile(profile)

	t := &Theme{IsDark: isDark, ColorProfile: profile}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		Background(Blush).
		Padding(0, 2)

	t.SuggestionLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextMuted)

	t.Suggestion = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Azure).
		Padding(0, 1).
		MarginRight(1)

	t.SuggestionSelected = t.Suggestion.
		Bold(true).
		Background(AzureDeep).
		Underline(true)

	t.UserMessage = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Pink).
		PaddingLeft(1).
		MarginBottom(1)

	t.AssistantMessage = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(Azure).
		PaddingLeft(1).
		MarginBottom(1)

	t.ErrorMessage = t.AssistantMessage.
		Foreground(Rose).
		BorderForeground(Rose)

	t.Empty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.SummaryTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.FactTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Azure).
		Padding(0, 1)

	t.Spinner = lipgloss.NewStyle().Foreground(Pink)
	t.ThinkingText = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted)
	t.ShortcutKey = lipgloss.NewStyle().Bold(true).Foreground(Azure)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
}

// Shortcut renders a "key desc" pair for the help line.
func (t *Theme) Shortcut(key, desc string) string {
	return t.ShortcutKey.Render(key) + " " + t.ShortcutDesc.Render(desc)
}
