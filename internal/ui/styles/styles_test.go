// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_ExplicitMode(t *testing.T) {
	if th := NewTheme("dark"); !th.IsDark {
		t.Error("dark theme should report IsDark")
	}
	if th := NewTheme("LIGHT"); th.IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestTheme_RendersContent(t *testing.T) {
	th := NewTheme("dark")

	cases := map[string]string{
		"header":     th.Header.Render("Companion"),
		"suggestion": th.SuggestionSelected.Render("What is AI?"),
		"user":       th.UserMessage.Render("hello"),
		"error":      th.ErrorMessage.Render("❌ Error: boom"),
	}
	for name, out := range cases {
		if out == "" {
			t.Errorf("%s rendered empty", name)
		}
	}
	if !strings.Contains(cases["suggestion"], "What is AI?") {
		t.Errorf("suggestion lost its text: %q", cases["suggestion"])
	}
}

func TestShortcut(t *testing.T) {
	th := NewTheme("light")
	out := th.Shortcut("ctrl+s", "summary")
	if !strings.Contains(out, "ctrl+s") || !strings.Contains(out, "summary") {
		t.Errorf("Shortcut() = %q", out)
	}
}
