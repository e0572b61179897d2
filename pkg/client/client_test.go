package client

import (
	"testing"

	"github.com/tetexact/ssacore/internal/ssa"
)

func TestReactionBuilder(t *testing.T) {
	rb := NewReaction("decay").Lhs("A", 1).Rhs("B", 1).Rate(2.5)
	cfg := rb.Build()

	if cfg.ID != "decay" {
		t.Errorf("expected ID 'decay', got %q", cfg.ID)
	}
	if cfg.Lhs["A"] != 1 {
		t.Errorf("expected lhs A=1, got %d", cfg.Lhs["A"])
	}
	if cfg.Rhs["B"] != 1 {
		t.Errorf("expected rhs B=1, got %d", cfg.Rhs["B"])
	}
	if cfg.K != 2.5 {
		t.Errorf("expected k=2.5, got %g", cfg.K)
	}
}

func TestSurfaceReactionBuilder(t *testing.T) {
	sb := NewSurfaceReaction("bind").
		LhsS("R", 1).
		LhsInner("L", 1).
		RhsS("RL", 1).
		Rate(1.0)
	cfg := sb.Build()

	if !cfg.Inside {
		t.Error("expected Inside to be true after LhsInner")
	}
	if cfg.Outside {
		t.Error("expected Outside to remain false")
	}
	if cfg.LhsI["L"] != 1 {
		t.Errorf("expected lhs_i L=1, got %d", cfg.LhsI["L"])
	}
	if cfg.LhsS["R"] != 1 {
		t.Errorf("expected lhs_s R=1, got %d", cfg.LhsS["R"])
	}
}

func TestDiffusionBuilder(t *testing.T) {
	db := NewDiffusion("diffA", "A").Dcst(1e-9)
	cfg := db.Build()

	if cfg.Ligand != "A" {
		t.Errorf("expected ligand A, got %q", cfg.Ligand)
	}
	if cfg.Dcst != 1e-9 {
		t.Errorf("expected dcst 1e-9, got %g", cfg.Dcst)
	}
}

func TestMeshBuilder(t *testing.T) {
	mesh := NewMesh()
	i0 := mesh.AddTet(1.0, [4]float64{1, 1, 1, 1}, [4]float64{1, 1, 1, 1}, [4]int{-1, -1, -1, -1}, [4]int{-1, -1, -1, -1})
	i1 := mesh.AddTet(1.0, [4]float64{1, 1, 1, 1}, [4]float64{1, 1, 1, 1}, [4]int{-1, -1, -1, -1}, [4]int{-1, -1, -1, -1})
	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected tet indices 0,1, got %d,%d", i0, i1)
	}

	cfg := mesh.Build()
	if len(cfg.Tets) != 2 {
		t.Fatalf("expected 2 tets, got %d", len(cfg.Tets))
	}
}

func TestModelBuilderSingleTetDecay(t *testing.T) {
	mesh := NewMesh()
	tet := mesh.AddTet(1e-18, [4]float64{}, [4]float64{}, [4]int{-1, -1, -1, -1}, [4]int{-1, -1, -1, -1})

	model := NewModel("decay-test").
		Species("A", "B").
		Reaction(NewReaction("decay").Lhs("A", 1).Rhs("B", 1).Rate(1.0)).
		Mesh(mesh).
		Compartment(NewCompartment("cyt").Tets(tet).Reaction("decay"))

	cfg := model.Build()

	if cfg.Name != "decay-test" {
		t.Errorf("expected name 'decay-test', got %q", cfg.Name)
	}
	if len(cfg.Reactions) != 1 {
		t.Fatalf("expected 1 reaction, got %d", len(cfg.Reactions))
	}
	if len(cfg.Compartments) != 1 || len(cfg.Compartments[0].TetIndices) != 1 {
		t.Fatalf("expected 1 compartment with 1 tet, got %+v", cfg.Compartments)
	}

	if err := ssa.ValidateModelConfig(cfg); err != nil {
		t.Fatalf("expected built config to validate, got %v", err)
	}
}

func TestPatchAndDiffBoundaryBuilders(t *testing.T) {
	patch := NewPatch("membrane").Tris(0, 1).Inner("cyt").Outer("ext").SurfaceReaction("bind")
	cfg := patch.Build()
	if cfg.InnerComp != "cyt" || cfg.OuterComp != "ext" {
		t.Errorf("expected inner/outer cyt/ext, got %q/%q", cfg.InnerComp, cfg.OuterComp)
	}
	if len(cfg.TriIndices) != 2 {
		t.Errorf("expected 2 tri indices, got %d", len(cfg.TriIndices))
	}

	boundary := NewDiffBoundary("boundaryAB", "compA", "compB").Tris(2, 3)
	bcfg := boundary.Build()
	if bcfg.CompA != "compA" || bcfg.CompB != "compB" {
		t.Errorf("expected compA/compB, got %q/%q", bcfg.CompA, bcfg.CompB)
	}
}
