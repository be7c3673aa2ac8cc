// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling for the terminal UI.
//
// Colors are lipgloss AdaptiveColors built on the web page's palette (blush
// for the user, sky blue for the assistant). NewTheme pins light or dark mode
// and the termenv color profile before the styles are built.
package styles
