package ssa

import "testing"
import "errors"

func TestErrorTaxonomyIsMatching(t *testing.T) {
	ia := newInvalidArgument("tet", "index %d out of range", 5)
	if !errors.Is(ia, ErrInvalidArgument) {
		t.Error("expected InvalidArgumentError to match ErrInvalidArgument")
	}
	if errors.Is(ia, ErrInternal) {
		t.Error("expected InvalidArgumentError not to match ErrInternal")
	}

	ni := newNotImplemented("mutating mesh geometry at runtime")
	if !errors.Is(ni, ErrNotImplemented) {
		t.Error("expected NotImplementedError to match ErrNotImplemented")
	}

	ie := newInternal("CR group sum went negative")
	if !errors.Is(ie, ErrInternal) {
		t.Error("expected InternalError to match ErrInternal")
	}
}

func TestOutOfRangeAccessorsReturnInvalidArgument(t *testing.T) {
	cfg := singleTetConfig()
	e, err := Build(cfg, NewRNG(1, 1), NewNoOpLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	_, err = e.TetCount(int32(len(e.tets)), 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected out-of-range TetCount to return InvalidArgumentError, got %v", err)
	}

	_, err = e.TriCount(-1, 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected negative TriCount index to return InvalidArgumentError, got %v", err)
	}

	_, err = e.CompCount("no-such-compartment", 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected unknown compartment name to return InvalidArgumentError, got %v", err)
	}
}
