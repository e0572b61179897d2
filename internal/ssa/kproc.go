package ssa

// kProcKind is the closed set of kinetic process variants. Go has no
// native closed enum with per-variant dispatch; a small tagged interface
// with exactly these three implementations is the idiomatic stand-in
// (spec.md §9, "Polymorphism of KProc").
type kProcKind uint8

const (
	kindReac kProcKind = iota
	kindSReac
	kindDiff
)

// crRecord is a KProc's bookkeeping for the composition-rejection
// selector, grounded on cpp/tetexact/crstruct.hpp's CRKProcData.
type crRecord struct {
	recorded bool
	pow      int
	positive bool
	pos      int
	rate     float64
}

// kProc is the contract every variant (Reac, SReac, Diff) implements.
// Methods take the owning Engine explicitly rather than a back-pointer,
// so KProc values stay plain data outside of an Engine's arenas.
type kProc interface {
	kind() kProcKind

	// rate returns the current propensity: non-negative, never NaN, zero
	// if inactive or combinatorially impossible.
	rate(e *Engine) float64

	// apply executes exactly one firing, mutating counts, and returns the
	// indices (into Engine.kprocs) whose propensities must be refreshed.
	// It fails with an InternalError if a mutated count would go negative.
	apply(e *Engine, rng RNG) ([]int32, error)

	// reset clears extent, restores default constants, marks active, and
	// clears the CR record.
	reset(e *Engine)

	// setupDeps computes this KProc's update list. selfIdx is this
	// KProc's own index in Engine.kprocs.
	setupDeps(e *Engine, selfIdx int32)

	depSpecTet(e *Engine, gidx int32, tetIdx int32) bool
	depSpecTri(e *Engine, gidx int32, triIdx int32) bool

	active() bool
	setActive(bool)

	cr() *crRecord
	extent() uint64
}

// kprocsOfTetAndNeighbTris collects the KProc indices owned by a Tet and its four
// neighboring Tris, the neighborhood every setupDeps scan starts from.
func kprocsOfTetAndNeighbTris(e *Engine, tetIdx int32) []int32 {
	return kprocsOfTetAndNeighbTrisExcept(e, tetIdx, -1)
}

// kprocsOfTetAndNeighbTrisExcept is kprocsOfTetAndNeighbTris with one
// neighboring Tri's KProcs left out, used by Diff.setupDeps to implement
// spec.md §4.2.3's destination-side union, which excludes the Tri shared
// with the source Tet (that Tri's KProcs are already reachable from the
// source Tet's own neighborhood).
func kprocsOfTetAndNeighbTrisExcept(e *Engine, tetIdx int32, exceptTri int32) []int32 {
	t := &e.tets[tetIdx]
	out := append([]int32(nil), t.kprocs...)
	for i := 0; i < 4; i++ {
		if triIdx := t.neighbTri[i]; triIdx >= 0 && triIdx != exceptTri {
			out = append(out, e.tris[triIdx].kprocs...)
		}
	}
	return out
}

// dedupAppendDeps scans candidate KProc indices and appends those for
// which match(idx) is true, skipping duplicates already in out.
func dedupAppendDeps(out []int32, candidates []int32, match func(idx int32) bool) []int32 {
	for _, c := range candidates {
		if !match(c) {
			continue
		}
		dup := false
		for _, o := range out {
			if o == c {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}
