// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator turns user input into model requests and keeps the
// conversation transcript.
//
// A Session owns one transcript. Submit appends the user's message and the
// model's reply; Summarize and RandomFact ask the model for a one-off answer
// without touching the transcript; Reset clears it.
//
// Model faults never surface as Go errors from a Session. They come back as
// text beginning with model.ErrorPrefix and, for Submit, are appended to the
// transcript as the assistant's reply.
//
// A Session is not safe for concurrent use. Callers sharing one between
// goroutines must serialize access themselves.
package orchestrator
