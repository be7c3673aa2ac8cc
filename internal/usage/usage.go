// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package usage

import (
	"context"
	"time"
)

// Op names the operation that issued a model request.
type Op string

const (
	OpChat    Op = "chat"
	OpSummary Op = "summary"
	OpFact    Op = "fact"
	OpAsk     Op = "ask"
)

// Entry is one model request.
type Entry struct {
	At             time.Time
	Op             Op
	Model          string
	Duration       time.Duration
	OK             bool
	PromptTokens   int
	ResponseTokens int
}

// Total aggregates the entries of one operation.
type Total struct {
	Op             Op
	Requests       int
	Failures       int
	PromptTokens   int64
	ResponseTokens int64
	AvgDuration    time.Duration
}

// Recorder accepts ledger entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop is a Recorder that drops every entry.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error { return nil }
