package ssa

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeNotifier struct {
	id string

	mu       sync.Mutex
	events   []FiringEvent
	closed   bool
	failN    int // number of initial calls to fail before succeeding
	attempts int
}

func (f *fakeNotifier) ID() string   { return f.id }
func (f *fakeNotifier) Type() string { return "fake" }

func (f *fakeNotifier) Notify(ctx context.Context, ev FiringEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failN {
		return errNotifyTemporary
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeNotifier) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

var errNotifyTemporary = &InternalError{Msg: "temporary notify failure"}

func TestNotificationManagerDeliversToRegisteredNotifier(t *testing.T) {
	nm := NewNotificationManager(2)
	defer nm.Close()

	fn := &fakeNotifier{id: "n1"}
	if err := nm.RegisterNotifier(fn); err != nil {
		t.Fatalf("RegisterNotifier failed: %v", err)
	}

	nm.Enqueue(FiringEvent{RunID: "run-1", Kind: "reac", Extent: 1}, []string{"n1"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		fn.mu.Lock()
		n := len(fn.events)
		fn.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	fn.mu.Lock()
	defer fn.mu.Unlock()
	if len(fn.events) != 1 {
		t.Fatalf("expected 1 delivered event, got %d", len(fn.events))
	}
	if fn.events[0].RunID != "run-1" {
		t.Errorf("expected run_id 'run-1', got %q", fn.events[0].RunID)
	}
}

func TestNotificationManagerRejectsDuplicateAndEmptyID(t *testing.T) {
	nm := NewNotificationManager(1)
	defer nm.Close()

	fn := &fakeNotifier{id: "dup"}
	if err := nm.RegisterNotifier(fn); err != nil {
		t.Fatalf("RegisterNotifier failed: %v", err)
	}
	if err := nm.RegisterNotifier(fn); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := nm.RegisterNotifier(&fakeNotifier{id: ""}); err == nil {
		t.Fatal("expected empty-id registration to fail")
	}
}

func TestNotificationManagerUnregisterClosesNotifier(t *testing.T) {
	nm := NewNotificationManager(1)
	defer nm.Close()

	fn := &fakeNotifier{id: "n2"}
	if err := nm.RegisterNotifier(fn); err != nil {
		t.Fatalf("RegisterNotifier failed: %v", err)
	}
	if err := nm.UnregisterNotifier("n2"); err != nil {
		t.Fatalf("UnregisterNotifier failed: %v", err)
	}
	fn.mu.Lock()
	closed := fn.closed
	fn.mu.Unlock()
	if !closed {
		t.Error("expected notifier to be closed after UnregisterNotifier")
	}
	if err := nm.UnregisterNotifier("n2"); err == nil {
		t.Fatal("expected unregistering an unknown id to fail")
	}
}

func TestFiringEventJSON(t *testing.T) {
	ev := FiringEvent{RunID: "r1", Kind: "diff", Extent: 3, SimTime: 1.5}
	data, err := ev.JSON()
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty JSON output")
	}
}
