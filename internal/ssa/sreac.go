package ssa

// SReac is a surface reaction instantiated on exactly one Tri. It may
// additionally depend on, and mutate, the inner or outer Tet's volume
// species (never both — spec.md §4.2.2).
type SReac struct {
	triIdx int32
	lsridx int32

	kcst float64
	ccst float64

	crData  crRecord
	active_ bool
	rExt    uint64

	updVec []int32
}

// newSReac constructs an SReac on the given Tri, computing its mesoscopic
// constant from the Tri's own area (surf-surf) or the relevant side's
// Tet volume (spec.md §4.2.2).
func newSReac(e *Engine, triIdx, lsridx int32) *SReac {
	patch := e.tris[triIdx].patch
	kcst := patch.SReacKcst(lsridx)
	r := &SReac{triIdx: triIdx, lsridx: lsridx, kcst: kcst, active_: true}
	r.recomputeCcst(e)
	return r
}

func (r *SReac) kind() kProcKind  { return kindSReac }
func (r *SReac) cr() *crRecord    { return &r.crData }
func (r *SReac) active() bool     { return r.active_ }
func (r *SReac) setActive(v bool) { r.active_ = v }
func (r *SReac) extent() uint64   { return r.rExt }
func (r *SReac) Kcst() float64    { return r.kcst }
func (r *SReac) Ccst() float64    { return r.ccst }

func (r *SReac) SetKcst(e *Engine, kcst float64) {
	r.kcst = kcst
	r.recomputeCcst(e)
}

func (r *SReac) recomputeCcst(e *Engine) {
	tri := &e.tris[r.triIdx]
	patch := tri.patch
	order := patch.SReacOrder(r.lsridx)
	if patch.SReacSurfSurf(r.lsridx) {
		r.ccst = compCcstArea(r.kcst, tri.area, order)
		return
	}
	var vol float64
	if patch.SReacInside(r.lsridx) {
		vol = e.tets[tri.innerTet].vol
	} else {
		vol = e.tets[tri.outerTet].vol
	}
	r.ccst = compCcstVol(r.kcst, vol, order)
}

// rate multiplies the falling-factorial combinatorial product over the
// surface lhs vector by the same product over whichever volume side (if
// any) this reaction depends on, per spec.md §4.2.2.
func (r *SReac) rate(e *Engine) float64 {
	if !r.active_ {
		return 0
	}
	tri := &e.tris[r.triIdx]
	patch := tri.patch
	h := 1.0
	ns := int32(patch.NumSpecs())
	for s := int32(0); s < ns; s++ {
		lhs := patch.SReacLhsS(r.lsridx, s)
		if lhs == 0 {
			continue
		}
		f := fallingFactorial(tri.Pool(s), lhs)
		if f == 0 {
			return 0
		}
		h *= f
	}
	switch {
	case patch.SReacInside(r.lsridx):
		comp := patch.InnerComp()
		tet := &e.tets[tri.innerTet]
		ns := int32(comp.NumSpecs())
		for s := int32(0); s < ns; s++ {
			lhs := patch.SReacLhsI(r.lsridx, s)
			if lhs == 0 {
				continue
			}
			f := fallingFactorial(tet.Pool(s), lhs)
			if f == 0 {
				return 0
			}
			h *= f
		}
	case patch.SReacOutside(r.lsridx):
		comp := patch.OuterComp()
		tet := &e.tets[tri.outerTet]
		ns := int32(comp.NumSpecs())
		for s := int32(0); s < ns; s++ {
			lhs := patch.SReacLhsO(r.lsridx, s)
			if lhs == 0 {
				continue
			}
			f := fallingFactorial(tet.Pool(s), lhs)
			if f == 0 {
				return 0
			}
			h *= f
		}
	}
	return h * r.ccst
}

func (r *SReac) apply(e *Engine, rng RNG) ([]int32, error) {
	tri := &e.tris[r.triIdx]
	patch := tri.patch
	for _, s := range patch.SReacUpdCollectionS(r.lsridx) {
		if tri.Clamped(s) {
			continue
		}
		upd := patch.SReacUpdS(r.lsridx, s)
		if upd == 0 {
			continue
		}
		nc := int64(tri.Pool(s)) + int64(upd)
		if nc < 0 {
			return nil, newInternal("sreac %d on tri %d: surface species %d count would go negative", r.lsridx, r.triIdx, s)
		}
		tri.SetCount(s, uint32(nc))
	}
	if patch.SReacInside(r.lsridx) {
		tet := &e.tets[tri.innerTet]
		for _, s := range patch.SReacUpdCollectionI(r.lsridx) {
			if tet.Clamped(s) {
				continue
			}
			upd := patch.SReacUpdI(r.lsridx, s)
			if upd == 0 {
				continue
			}
			nc := int64(tet.Pool(s)) + int64(upd)
			if nc < 0 {
				return nil, newInternal("sreac %d on tri %d: inner species %d count would go negative", r.lsridx, r.triIdx, s)
			}
			tet.SetCount(s, uint32(nc))
		}
	}
	if patch.SReacOutside(r.lsridx) {
		tet := &e.tets[tri.outerTet]
		for _, s := range patch.SReacUpdCollectionO(r.lsridx) {
			if tet.Clamped(s) {
				continue
			}
			upd := patch.SReacUpdO(r.lsridx, s)
			if upd == 0 {
				continue
			}
			nc := int64(tet.Pool(s)) + int64(upd)
			if nc < 0 {
				return nil, newInternal("sreac %d on tri %d: outer species %d count would go negative", r.lsridx, r.triIdx, s)
			}
			tet.SetCount(s, uint32(nc))
		}
	}
	r.rExt++
	return r.updVec, nil
}

func (r *SReac) reset(e *Engine) {
	r.crData = crRecord{}
	r.rExt = 0
	r.active_ = true
	patch := e.tris[r.triIdx].patch
	r.kcst = patch.SReacKcst(r.lsridx)
	r.recomputeCcst(e)
}

// setupDeps covers: this Tri's own KProcs (for surface perturbations),
// the inner Tet's KProcs and its four neighboring Tris' KProcs (for
// lhs_I), and symmetrically the outer side.
func (r *SReac) setupDeps(e *Engine, selfIdx int32) {
	tri := &e.tris[r.triIdx]
	patch := tri.patch
	var out []int32

	for _, s := range patch.SReacUpdCollectionS(r.lsridx) {
		gidx := patch.SpecL2G(s)
		out = dedupAppendDeps(out, tri.kprocs, func(idx int32) bool {
			return e.kprocs[idx].depSpecTri(e, gidx, r.triIdx)
		})
	}
	if patch.SReacInside(r.lsridx) {
		comp := patch.InnerComp()
		candidates := kprocsOfTetAndNeighbTris(e, tri.innerTet)
		for _, s := range patch.SReacUpdCollectionI(r.lsridx) {
			gidx := comp.SpecL2G(s)
			out = dedupAppendDeps(out, candidates, func(idx int32) bool {
				return e.kprocs[idx].depSpecTet(e, gidx, tri.innerTet)
			})
		}
	}
	if patch.SReacOutside(r.lsridx) {
		comp := patch.OuterComp()
		candidates := kprocsOfTetAndNeighbTris(e, tri.outerTet)
		for _, s := range patch.SReacUpdCollectionO(r.lsridx) {
			gidx := comp.SpecL2G(s)
			out = dedupAppendDeps(out, candidates, func(idx int32) bool {
				return e.kprocs[idx].depSpecTet(e, gidx, tri.outerTet)
			})
		}
	}
	r.updVec = out
}

func (r *SReac) depSpecTet(e *Engine, gidx int32, tetIdx int32) bool {
	tri := &e.tris[r.triIdx]
	patch := tri.patch
	switch tetIdx {
	case tri.innerTet:
		if !patch.SReacInside(r.lsridx) {
			return false
		}
		lidx := patch.InnerComp().SpecG2L(gidx)
		if lidx == specUndefined {
			return false
		}
		return patch.SReacDepI(r.lsridx, lidx)
	case tri.outerTet:
		if !patch.SReacOutside(r.lsridx) {
			return false
		}
		lidx := patch.OuterComp().SpecG2L(gidx)
		if lidx == specUndefined {
			return false
		}
		return patch.SReacDepO(r.lsridx, lidx)
	default:
		return false
	}
}

func (r *SReac) depSpecTri(e *Engine, gidx int32, triIdx int32) bool {
	if triIdx != r.triIdx {
		return false
	}
	patch := e.tris[r.triIdx].patch
	lidx := patch.SpecG2L(gidx)
	if lidx == specUndefined {
		return false
	}
	return patch.SReacDepS(r.lsridx, lidx)
}
