// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/companion/internal/gemini"
	"github.com/jeranaias/companion/internal/orchestrator"
)

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, prompt string) (*gemini.Reply, error) {
	return &gemini.Reply{Text: "echo: " + prompt}, nil
}

func newTestRegistry(idle time.Duration) *Registry {
	return NewRegistry(func() *orchestrator.Session {
		return orchestrator.New(echoGenerator{}, orchestrator.Options{})
	}, idle)
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestGetOrCreate_NewID(t *testing.T) {
	r := newTestRegistry(time.Minute)

	for _, id := range []string{"", "not-a-uuid", uuid.NewString()} {
		e, created := r.GetOrCreate(id)
		if !created {
			t.Errorf("GetOrCreate(%q) should create", id)
		}
		if e.ID == id {
			t.Errorf("GetOrCreate(%q) reused the client id", id)
		}
		if _, err := uuid.Parse(e.ID); err != nil {
			t.Errorf("entry id %q is not a uuid: %v", e.ID, err)
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
}

func TestGetOrCreate_Existing(t *testing.T) {
	r := newTestRegistry(time.Minute)
	first, _ := r.GetOrCreate("")

	second, created := r.GetOrCreate(first.ID)
	if created {
		t.Error("existing id should not create")
	}
	if second != first {
		t.Error("expected the same entry")
	}
}

func TestEntries_AreIsolated(t *testing.T) {
	r := newTestRegistry(time.Minute)
	a, _ := r.GetOrCreate("")
	b, _ := r.GetOrCreate("")
	ctx := context.Background()

	a.Do(func(s *orchestrator.Session) { s.Submit(ctx, "hello") })

	a.Do(func(s *orchestrator.Session) {
		if s.Len() != 2 {
			t.Errorf("a.Len() = %d, want 2", s.Len())
		}
	})
	b.Do(func(s *orchestrator.Session) {
		if s.Len() != 0 {
			t.Errorf("b.Len() = %d, want 0", s.Len())
		}
	})
}

func TestGetAndDrop(t *testing.T) {
	r := newTestRegistry(time.Minute)
	e, _ := r.GetOrCreate("")

	if got, ok := r.Get(e.ID); !ok || got != e {
		t.Fatal("Get should find the entry")
	}
	if _, ok := r.Get("garbage"); ok {
		t.Error("Get should reject malformed ids")
	}

	r.Drop(e.ID)
	if _, ok := r.Get(e.ID); ok {
		t.Error("entry should be gone after Drop")
	}
}

func TestEntry_DoSerializes(t *testing.T) {
	r := newTestRegistry(time.Minute)
	e, _ := r.GetOrCreate("")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Do(func(s *orchestrator.Session) { s.Submit(ctx, "hi") })
		}()
	}
	wg.Wait()

	e.Do(func(s *orchestrator.Session) {
		if s.Len() != 40 {
			t.Errorf("Len() = %d, want 40", s.Len())
		}
		msgs := s.Transcript()
		for i := 0; i < len(msgs); i += 2 {
			if msgs[i].Content != "hi" || msgs[i+1].Content != "echo: hi" {
				t.Fatalf("exchange %d interleaved: %+v %+v", i/2, msgs[i], msgs[i+1])
			}
		}
	})
}

func TestNotice_OneShot(t *testing.T) {
	r := newTestRegistry(time.Minute)
	e, _ := r.GetOrCreate("")

	if _, ok := e.TakeNotice(); ok {
		t.Fatal("no notice expected")
	}

	e.SetNotice("summary", "first")
	e.SetNotice("fact", "second")

	n, ok := e.TakeNotice()
	if !ok || n.Kind != "fact" || n.Text != "second" {
		t.Errorf("TakeNotice() = %+v, %v", n, ok)
	}
	if _, ok := e.TakeNotice(); ok {
		t.Error("notice should be consumed")
	}
}

// =============================================================================
// SWEEP TESTS
// =============================================================================

func TestSweep_RemovesIdle(t *testing.T) {
	r := newTestRegistry(10 * time.Millisecond)
	old, _ := r.GetOrCreate("")

	time.Sleep(30 * time.Millisecond)
	fresh, _ := r.GetOrCreate("")

	if n := r.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if _, ok := r.Get(old.ID); ok {
		t.Error("idle entry should be swept")
	}
	if _, ok := r.Get(fresh.ID); !ok {
		t.Error("fresh entry should survive")
	}
}

func TestSweep_KeepsBusy(t *testing.T) {
	r := newTestRegistry(10 * time.Millisecond)
	e, _ := r.GetOrCreate("")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		e.Do(func(*orchestrator.Session) {
			close(started)
			<-release
		})
		close(done)
	}()
	<-started
	time.Sleep(30 * time.Millisecond)

	if n := r.Sweep(); n != 0 {
		t.Errorf("Sweep() = %d, want 0 while busy", n)
	}
	close(release)
	<-done
}

func TestRun_StopsOnCancel(t *testing.T) {
	r := newTestRegistry(time.Millisecond)
	r.GetOrCreate("")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for r.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("Run did not sweep")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
