package ssa

import (
	"testing"
	"time"
)

func TestEngineManagerCreateGetDelete(t *testing.T) {
	em := NewEngineManager()
	id, e, err := em.Create(singleTetConfig(), NewRNG(1, 1), NewNoOpLogger())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty RunID")
	}

	got, ok := em.Get(id)
	if !ok || got != e {
		t.Fatal("expected Get to return the same Engine created above")
	}

	ids := em.List()
	if len(ids) != 1 || ids[0] != id {
		t.Fatalf("expected List to report exactly [%s], got %v", id, ids)
	}

	if err := em.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := em.Get(id); ok {
		t.Fatal("expected Get to fail after Delete")
	}
	if err := em.Delete(id); err == nil {
		t.Fatal("expected Delete on an unknown id to fail")
	}
}

func TestEngineManagerRunStop(t *testing.T) {
	em := NewEngineManager()
	id, e, err := em.Create(singleTetConfig(), NewRNG(2, 2), NewNoOpLogger())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	gidxA, _ := e.sd.SpecByName("A")
	if err := e.SetCompCount("cyt", gidxA, 5); err != nil {
		t.Fatalf("SetCompCount failed: %v", err)
	}

	if err := em.Run(id, time.Millisecond); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	// Starting a second Run on the same id is a no-op, not an error.
	if err := em.Run(id, time.Millisecond); err != nil {
		t.Fatalf("second Run call failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if err := em.Stop(id); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if e.NSteps() == 0 {
		t.Error("expected the background run to have fired at least one event")
	}
}

func TestEngineManagerRunUnknownID(t *testing.T) {
	em := NewEngineManager()
	if err := em.Run(RunID("does-not-exist"), time.Millisecond); err == nil {
		t.Fatal("expected Run on an unknown id to fail")
	}
	if err := em.Stop(RunID("does-not-exist")); err == nil {
		t.Fatal("expected Stop on an unknown id to fail")
	}
}
