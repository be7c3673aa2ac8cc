// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/companion/internal/orchestrator"
)

// Run starts the terminal UI for sess and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, sess *orchestrator.Session, opts Options) error {
	p := tea.NewProgram(
		New(ctx, sess, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
