package ssa

// Reac is a volume reaction instantiated in exactly one Tet. It holds the
// location, the local reaction index into that Tet's Compdef, and its own
// macroscopic and mesoscopic constants, the latter computed from this
// Tet's volume.
type Reac struct {
	tetIdx int32
	lridx  int32

	kcst float64
	ccst float64

	crData  crRecord
	active_ bool
	rExt    uint64

	updVec []int32 // KProc indices to refresh after firing, set by setupDeps
}

// newReac constructs a Reac in the given Tet, capturing the compartment's
// current default kcst for this reaction and computing this instance's
// ccst from its own Tet's volume (spec.md §4.2.1 — the constant is
// per-Tet, since Tets in one Compartment need not share a volume).
func newReac(e *Engine, tetIdx, lridx int32) *Reac {
	comp := e.tets[tetIdx].comp
	kcst := comp.ReacKcst(lridx)
	r := &Reac{tetIdx: tetIdx, lridx: lridx, kcst: kcst, active_: true}
	r.recomputeCcst(e)
	return r
}

func (r *Reac) Kcst() float64 { return r.kcst }
func (r *Reac) Ccst() float64 { return r.ccst }

// SetKcst updates this Reac's macroscopic constant and recomputes ccst.
// The caller (Engine) is responsible for refreshing the CR selector entry
// afterwards.
func (r *Reac) SetKcst(e *Engine, kcst float64) {
	r.kcst = kcst
	r.recomputeCcst(e)
}

func (r *Reac) recomputeCcst(e *Engine) {
	comp := e.tets[r.tetIdx].comp
	order := comp.ReacOrder(r.lridx)
	r.ccst = compCcstVol(r.kcst, e.tets[r.tetIdx].vol, order)
}

func (r *Reac) kind() kProcKind { return kindReac }
func (r *Reac) cr() *crRecord   { return &r.crData }
func (r *Reac) active() bool    { return r.active_ }
func (r *Reac) setActive(v bool) { r.active_ = v }
func (r *Reac) extent() uint64  { return r.rExt }

// rate computes h_mu * ccst, per spec.md §4.2.1: the falling-factorial
// combinatorial product over reactant species, zero if any lhs[s] > cnt[s].
func (r *Reac) rate(e *Engine) float64 {
	if !r.active_ {
		return 0
	}
	tet := &e.tets[r.tetIdx]
	comp := tet.comp
	h := 1.0
	n := int32(comp.NumSpecs())
	for s := int32(0); s < n; s++ {
		lhs := comp.ReacLhs(r.lridx, s)
		if lhs == 0 {
			continue
		}
		cnt := tet.Pool(s)
		f := fallingFactorial(cnt, lhs)
		if f == 0 {
			return 0
		}
		h *= f
	}
	return h * r.ccst
}

// apply mutates pools[s] += upd[s] for every species this reaction
// changes, unless clamped; it is an InternalError if that would make a
// count negative.
func (r *Reac) apply(e *Engine, rng RNG) ([]int32, error) {
	tet := &e.tets[r.tetIdx]
	comp := tet.comp
	for _, s := range comp.ReacUpdCollection(r.lridx) {
		if tet.Clamped(s) {
			continue
		}
		upd := comp.ReacUpd(r.lridx, s)
		if upd == 0 {
			continue
		}
		nc := int64(tet.Pool(s)) + int64(upd)
		if nc < 0 {
			return nil, newInternal("reac %d in tet %d: species %d count would go negative", r.lridx, r.tetIdx, s)
		}
		tet.SetCount(s, uint32(nc))
	}
	r.rExt++
	return r.updVec, nil
}

func (r *Reac) reset(e *Engine) {
	r.crData = crRecord{}
	r.rExt = 0
	r.active_ = true
	comp := e.tets[r.tetIdx].comp
	r.kcst = comp.ReacKcst(r.lridx)
	r.recomputeCcst(e)
}

// setupDeps scans this Reac's Tet and its four neighboring Tris for
// KProcs whose propensity depends on any species this reaction changes.
func (r *Reac) setupDeps(e *Engine, selfIdx int32) {
	candidates := kprocsOfTetAndNeighbTris(e, r.tetIdx)
	comp := e.tets[r.tetIdx].comp
	upd := comp.ReacUpdCollection(r.lridx)
	var out []int32
	for _, s := range upd {
		gidx := comp.SpecL2G(s)
		out = dedupAppendDeps(out, candidates, func(idx int32) bool {
			return e.kprocs[idx].depSpecTet(e, gidx, r.tetIdx)
		})
	}
	r.updVec = out
}

func (r *Reac) depSpecTet(e *Engine, gidx int32, tetIdx int32) bool {
	if tetIdx != r.tetIdx {
		return false
	}
	comp := e.tets[r.tetIdx].comp
	lidx := comp.SpecG2L(gidx)
	if lidx == specUndefined {
		return false
	}
	return comp.ReacDep(r.lridx, lidx)
}

func (r *Reac) depSpecTri(e *Engine, gidx int32, triIdx int32) bool { return false }
