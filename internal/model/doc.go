// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for a chat transcript.
//
// # Key Types
//
//   - Role: message sender (user or assistant)
//   - Message: a single immutable exchange entry
//   - Transcript: the ordered, append-only list of messages for one session
//
// # Usage
//
//	t := model.NewTranscript()
//	t.Append(model.NewUserMessage("What is AI?"))
//	t.Append(model.NewAssistantMessage("AI is ..."))
//	for _, msg := range t.Messages() {
//	    fmt.Println(msg.Role.Icon(), msg.Content)
//	}
package model
