// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session maps browser session ids to conversation sessions.
//
// # Key Types
//
//   - Registry: creates, looks up and expires entries
//   - Entry: one conversation plus the lock that serializes work on it
//
// # Usage
//
//	reg := session.NewRegistry(newConversation, 30*time.Minute)
//	go reg.Run(ctx, time.Minute)
//
//	entry, _ := reg.GetOrCreate(cookieValue)
//	entry.Do(func(s *orchestrator.Session) {
//	    s.Submit(ctx, text)
//	})
//
// Ids are random UUIDs; a client presenting an unknown or malformed id gets a
// fresh entry with a new id.
package session
