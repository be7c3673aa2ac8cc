// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the web front-end for the chat companion.
//
// Each browser gets its own conversation, keyed by a cookie. Summaries and fun
// facts are shown once above the transcript and never become part of it.
//
// # Endpoints
//
//   - GET    /                - Chat page
//   - POST   /submit          - Send the "message" form field
//   - POST   /suggest         - Send suggestion number "index" (0-based)
//   - POST   /clear           - Clear the conversation
//   - POST   /summary         - Summarize the conversation
//   - POST   /fact            - Ask for a fun fact
//   - GET    /api/transcript  - Conversation as JSON
//   - DELETE /api/transcript  - Clear the conversation
//   - POST   /api/messages    - Send {"content": "..."}
//   - POST   /api/summary     - Summarize the conversation
//   - POST   /api/fact        - Ask for a fun fact
//   - GET    /health          - Health check
//
// Form posts answer 303 See Other back to the page.
//
// # Middleware
//
// Recovery, security headers, request logging, per-client rate limiting and a
// request body limit, in that order.
//
// # Usage
//
//	srv := server.New(server.Options{
//		Config:     cfg,
//		ConfigPath: path,
//		NewSession: newSession,
//		Logger:     log,
//	})
//	if err := srv.Start(ctx); err != nil {
//		return err
//	}
package server
