// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the terminal chat UI.

The chat package implements the page of the web front-end as a Bubble Tea
program: a header, the five suggested prompts, the transcript, a text input
and a help line.

# Key Components

## Model (model.go)

The Model holds the UI state and a snapshot of the transcript. The
conversation itself lives in an orchestrator.Session; the model only touches
it from the commands in commands.go, and only one command runs at a time.

## Keys (keys.go)

  - enter: send the typed message, or the highlighted suggestion
  - 1-5: send a suggestion directly (when the input is empty)
  - tab / shift+tab: move the suggestion highlight
  - ctrl+s / ctrl+f: summary / fun fact, shown in the side panel
  - ctrl+l: clear the conversation
  - pgup / pgdown: scroll
  - esc / ctrl+c: quit

## Usage

	err := chat.Run(ctx, sess, chat.Options{
	    Title:       cfg.UI.Title,
	    Suggestions: cfg.UI.Suggestions,
	    Theme:       cfg.UI.Theme,
	})
*/
package chat
