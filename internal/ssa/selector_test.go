package ssa

import "testing"

func TestGroupPowerBuckets(t *testing.T) {
	cases := []struct {
		rate         float64
		wantUnrec    bool
		wantPositive bool
	}{
		{rate: 0, wantUnrec: true},
		{rate: 1e-21, wantUnrec: true},
		{rate: 0.5, wantPositive: true},
		{rate: 1.0, wantPositive: true},
		{rate: 0.25, wantPositive: false},
		{rate: 100.0, wantPositive: true},
	}
	for _, c := range cases {
		_, positive, unrec := groupPower(c.rate)
		if unrec != c.wantUnrec {
			t.Errorf("groupPower(%g): unrecorded = %v, want %v", c.rate, unrec, c.wantUnrec)
		}
		if !unrec && positive != c.wantPositive {
			t.Errorf("groupPower(%g): positive = %v, want %v", c.rate, positive, c.wantPositive)
		}
	}
}

func TestGroupPowerRoundTripsIntoCorrectBucket(t *testing.T) {
	rate := 3.0
	pow, positive, unrec := groupPower(rate)
	if unrec || !positive {
		t.Fatalf("expected rate %g to land in a positive recorded bucket", rate)
	}
	max := newCRGroup(pow).max
	if rate > max || rate <= max/2 {
		t.Errorf("rate %g not within bucket (%g, %g] for power %d", rate, max/2, max, pow)
	}
}

// twoReactionConfig builds a single Tet with two independent decay
// reactions at very different rates, landing their propensities in
// different CR groups once populated.
func twoReactionConfig() ModelConfig {
	return ModelConfig{
		Name:    "two-reac",
		Species: []string{"A", "B", "X", "Y"},
		Reactions: []ReacConfig{
			{ID: "slow", Lhs: map[string]int{"A": 1}, Rhs: map[string]int{"B": 1}, K: 0.001},
			{ID: "fast", Lhs: map[string]int{"X": 1}, Rhs: map[string]int{"Y": 1}, K: 1000.0},
		},
		Mesh: MeshConfig{
			Tets: []TetConfig{
				{Vol: 1e-18, NeighbTet: [4]int{-1, -1, -1, -1}, NeighbTri: [4]int{-1, -1, -1, -1}},
			},
		},
		Compartments: []CompartmentConfig{
			{ID: "cyt", TetIndices: []int{0}, Reactions: []string{"slow", "fast"}},
		},
	}
}

func TestUpdateElementMovesAcrossGroupsAndKeepsA0Consistent(t *testing.T) {
	cfg := twoReactionConfig()
	e, err := Build(cfg, NewRNG(1, 1), NewNoOpLogger())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	gidxA, _ := e.sd.SpecByName("A")
	gidxX, _ := e.sd.SpecByName("X")
	if err := e.SetCompCount("cyt", gidxA, 10); err != nil {
		t.Fatalf("SetCompCount(A) failed: %v", err)
	}
	if err := e.SetCompCount("cyt", gidxX, 10); err != nil {
		t.Fatalf("SetCompCount(X) failed: %v", err)
	}

	var sumGroups float64
	for _, g := range e.nGroups {
		sumGroups += g.sum
	}
	for _, g := range e.pGroups {
		sumGroups += g.sum
	}
	if sumGroups != e.a0 {
		t.Errorf("expected sum of group sums %g to equal a0 %g", sumGroups, e.a0)
	}

	wantA0 := 0.001*10 + 1000.0*10
	if e.a0 != wantA0 {
		t.Errorf("expected a0 == %g, got %g", wantA0, e.a0)
	}
}
