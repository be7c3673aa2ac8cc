// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/companion/internal/ui/styles"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.AzureDeep)

	// SectionStyle is used for section headers within commands
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.TextPrimary)

	// DimStyle is used for hints and secondary text
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// promptStyle is the chat input prompt
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Pink).
			Bold(true)

	// userStyle prefixes echoed user input
	userStyle = lipgloss.NewStyle().
			Foreground(styles.Pink)

	// assistantStyle prefixes replies
	assistantStyle = lipgloss.NewStyle().
			Foreground(styles.Azure)

	// errorStyle is used for failed replies
	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// summaryStyle heads a chat summary
	summaryStyle = lipgloss.NewStyle().
			Foreground(styles.Amber).
			Bold(true)

	// factStyle heads a fun fact
	factStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// commandStyle highlights slash commands in help text
	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)
)
