// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns assistant replies into terminal output (glamour) and
// HTML fragments (chroma) for the two front-ends.
package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// Markdown renders markdown for terminal display. Renderers are cached per
// width. It is safe for concurrent use.
type Markdown struct {
	theme string

	mu    sync.Mutex
	width int
	r     *glamour.TermRenderer
}

// NewMarkdown creates a renderer for theme ("dark", "light" or "auto").
func NewMarkdown(theme string) *Markdown {
	return &Markdown{theme: strings.ToLower(theme)}
}

// Render renders content wrapped at width columns. It returns content
// unchanged when rendering fails.
func (m *Markdown) Render(content string, width int) string {
	if width < 20 {
		width = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.r == nil || m.width != width {
		r, err := glamour.NewTermRenderer(m.styleOption(), glamour.WithWordWrap(width))
		if err != nil {
			return content
		}
		m.r, m.width = r, width
	}

	rendered, err := m.r.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

func (m *Markdown) styleOption() glamour.TermRendererOption {
	switch m.theme {
	case "dark", "light":
		return glamour.WithStandardStyle(m.theme)
	default:
		return glamour.WithAutoStyle()
	}
}
