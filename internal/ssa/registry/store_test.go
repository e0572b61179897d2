package registry

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertGetList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	run := Run{
		ID:             "run-1",
		ModelName:      "decay",
		CheckpointPath: "/tmp/run-1.ckpt",
		NSteps:         10,
		SimTime:        1.5,
		CreatedAt:      now,
		LastUpdatedAt:  now,
	}
	if err := s.Insert(ctx, run); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ModelName != "decay" || got.NSteps != 10 || got.SimTime != 1.5 {
		t.Errorf("unexpected run fields: %+v", got)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected CreatedAt %v, got %v", now, got.CreatedAt)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 run, got %d", len(list))
	}
}

func TestUpdateProgressAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	run := Run{ID: "run-2", ModelName: "diffusion", CreatedAt: now, LastUpdatedAt: now}
	if err := s.Insert(ctx, run); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	later := now.Add(time.Minute)
	if err := s.UpdateProgress(ctx, "run-2", "/tmp/run-2.ckpt", 42, 3.14, later); err != nil {
		t.Fatalf("UpdateProgress failed: %v", err)
	}

	got, err := s.Get(ctx, "run-2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.NSteps != 42 || got.CheckpointPath != "/tmp/run-2.ckpt" {
		t.Errorf("expected updated progress, got %+v", got)
	}

	if err := s.UpdateProgress(ctx, "no-such-run", "", 0, 0, now); err == nil {
		t.Fatal("expected UpdateProgress on an unknown run to fail")
	}

	if err := s.Delete(ctx, "run-2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "run-2"); err == nil {
		t.Fatal("expected Get to fail after Delete")
	}
}
