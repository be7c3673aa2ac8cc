// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/companion/internal/model"
)

// submitDoneMsg carries the transcript after a Submit finished.
type submitDoneMsg struct {
	transcript []model.Message
	elapsed    time.Duration
}

// panelKind identifies what the side panel shows.
type panelKind int

const (
	panelSummary panelKind = iota + 1
	panelFact
)

// panelDoneMsg carries a summary or fun fact.
type panelDoneMsg struct {
	kind    panelKind
	text    string
	elapsed time.Duration
}
