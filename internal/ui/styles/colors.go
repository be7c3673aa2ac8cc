// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND COLORS
// =============================================================================

// Blush - User message background and header gradient start
var Blush = lipgloss.AdaptiveColor{Light: "#FFDEE9", Dark: "#5A2A3A"}

// Mint - Header gradient end
var Mint = lipgloss.AdaptiveColor{Light: "#B5FFFC", Dark: "#1F4F4D"}

// Sky - Assistant message background
var Sky = lipgloss.AdaptiveColor{Light: "#E1F5FE", Dark: "#15384A"}

// Pink - User message accent border
var Pink = lipgloss.AdaptiveColor{Light: "#FF80AB", Dark: "#FF80AB"}

// Azure - Assistant accent border, suggestion buttons
var Azure = lipgloss.AdaptiveColor{Light: "#4FC3F7", Dark: "#4FC3F7"}

// AzureDeep - Selected suggestion
var AzureDeep = lipgloss.AdaptiveColor{Light: "#039BE5", Dark: "#039BE5"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Error replies
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Emerald - Fun fact panel
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - Summary panel
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// TEXT AND SURFACE COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextMuted - Hints and help text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#11111B"}

// Overlay - Borders and separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}
