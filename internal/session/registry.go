// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/companion/internal/orchestrator"
)

// =============================================================================
// ENTRY
// =============================================================================

// Notice is a one-off result shown once and then discarded (a summary or a
// fun fact).
type Notice struct {
	Kind string
	Text string
}

// Entry is one registered conversation.
type Entry struct {
	ID      string
	Created time.Time

	mu   sync.Mutex
	sess *orchestrator.Session

	lastActivity atomic.Int64 // unix nanos

	noticeMu sync.Mutex
	notice   *Notice
}

// Do runs fn with exclusive access to the conversation.
func (e *Entry) Do(fn func(s *orchestrator.Session)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touch()
	fn(e.sess)
	e.touch()
}

// SetNotice replaces the pending notice.
func (e *Entry) SetNotice(kind, text string) {
	e.noticeMu.Lock()
	defer e.noticeMu.Unlock()
	e.notice = &Notice{Kind: kind, Text: text}
}

// TakeNotice returns and clears the pending notice.
func (e *Entry) TakeNotice() (Notice, bool) {
	e.noticeMu.Lock()
	defer e.noticeMu.Unlock()
	if e.notice == nil {
		return Notice{}, false
	}
	n := *e.notice
	e.notice = nil
	return n, true
}

// IdleTime returns how long since the entry was last used.
func (e *Entry) IdleTime() time.Duration {
	return time.Since(time.Unix(0, e.lastActivity.Load()))
}

func (e *Entry) touch() {
	e.lastActivity.Store(time.Now().UnixNano())
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry holds the live entries. It is safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*Entry
	factory func() *orchestrator.Session
	idle    time.Duration
}

// NewRegistry creates a registry. factory builds the conversation for each new
// entry; entries unused for longer than idle are removed by Sweep.
func NewRegistry(factory func() *orchestrator.Session, idle time.Duration) *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		factory: factory,
		idle:    idle,
	}
}

// GetOrCreate returns the entry for id, creating a new one (with a new id)
// when id is empty, malformed or unknown.
func (r *Registry) GetOrCreate(id string) (*Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.touch()
		return e, false
	}

	e := &Entry{
		ID:      uuid.NewString(),
		Created: time.Now(),
		sess:    r.factory(),
	}
	e.touch()
	r.entries[e.ID] = e
	return e, true
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (*Entry, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return e, ok
}

// Drop removes the entry for id.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep removes entries idle for longer than the idle timeout and returns how
// many were removed. Entries with an operation in flight are kept.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.IdleTime() <= r.idle {
			continue
		}
		if !e.mu.TryLock() {
			continue
		}
		delete(r.entries, id)
		e.mu.Unlock()
		removed++
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
