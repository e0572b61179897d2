package ssa

import (
	"bytes"
	"testing"
)

func TestCheckpointRestoreRoundTrip(t *testing.T) {
	cfg := singleTetConfig()
	rng := NewRNG(11, 22)
	e, err := Build(cfg, rng, NewNoOpLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	gidxA, _ := e.sd.SpecByName("A")
	if err := e.SetCompCount("cyt", gidxA, 77); err != nil {
		t.Fatalf("SetCompCount failed: %v", err)
	}
	if err := e.AdvanceSteps(10); err != nil {
		t.Fatalf("AdvanceSteps failed: %v", err)
	}

	var buf bytes.Buffer
	if err := e.Checkpoint(&buf); err != nil {
		t.Fatalf("Checkpoint failed: %v", err)
	}

	restored, err := Build(cfg, NewRNG(99, 99), NewNoOpLogger())
	if err != nil {
		t.Fatalf("Build (restore target) failed: %v", err)
	}
	if err := restored.Restore(&buf); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.Time() != e.Time() {
		t.Errorf("expected restored time %g, got %g", e.Time(), restored.Time())
	}
	if restored.NSteps() != e.NSteps() {
		t.Errorf("expected restored nsteps %d, got %d", e.NSteps(), restored.NSteps())
	}
	if restored.A0() != e.A0() {
		t.Errorf("expected restored A0 %g, got %g", e.A0(), restored.A0())
	}

	gidxB, _ := e.sd.SpecByName("B")
	origA, _ := e.CompCount("cyt", gidxA)
	origB, _ := e.CompCount("cyt", gidxB)
	restA, _ := restored.CompCount("cyt", gidxA)
	restB, _ := restored.CompCount("cyt", gidxB)
	if origA != restA || origB != restB {
		t.Errorf("expected restored pools A=%d B=%d, got A=%d B=%d", origA, origB, restA, restB)
	}
}

func TestRestoreSurfacesTruncatedStreamError(t *testing.T) {
	cfg := singleTetConfig()
	e, err := Build(cfg, NewRNG(1, 1), NewNoOpLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var buf bytes.Buffer
	if err := e.Checkpoint(&buf); err != nil {
		t.Fatalf("Checkpoint failed: %v", err)
	}
	truncated := bytes.NewReader(buf.Bytes()[:2])

	other, err := Build(cfg, NewRNG(1, 1), NewNoOpLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := other.Restore(truncated); err == nil {
		t.Fatal("expected Restore to surface an error on a truncated stream")
	}
}
