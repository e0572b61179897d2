package ssa

// Engine is the Tetexact-equivalent driver: the arena-allocated mesh
// topology, the compiled StateDef, the KProc graph, and the CR selector,
// advanced one event at a time.
type Engine struct {
	sd *StateDef

	tets   []Tet
	tris   []Tri
	kprocs []kProc

	comps   []*Compartment
	patches []*Patch
	diffBnd []*DiffBoundary

	rng RNG
	log Logger

	time   float64
	nsteps uint64

	pGroups []*crGroup
	nGroups []*crGroup
	a0      float64
}

// Time returns the current simulation time.
func (e *Engine) Time() float64 { return e.time }

// NSteps returns the number of events fired since construction or reset.
func (e *Engine) NSteps() uint64 { return e.nsteps }

// A0 returns the current total propensity.
func (e *Engine) A0() float64 { return e.a0 }

// Step fires at most one event: if A0 == 0 it is a no-op; otherwise it
// draws an exponential waiting time from the pre-event A0, samples and
// applies the next event, refreshes the affected propensities and A0,
// then advances time — in that order, per spec.md §5's ordering
// guarantee.
func (e *Engine) Step() error {
	if e.a0 == 0 {
		return nil
	}
	dt := e.rng.Exp(e.a0)
	kpIdx, err := e.getNext()
	if err != nil {
		return err
	}
	if kpIdx < 0 {
		return nil
	}
	upd, err := e.kprocs[kpIdx].apply(e, e.rng)
	if err != nil {
		return err
	}
	e.update(upd)
	e.time += dt
	e.nsteps++
	return nil
}

// Run advances the simulation by repeated Step calls, stopping as soon as
// the drawn event time would exceed endTime, then clamps time to endTime
// exactly (spec.md §4.5 — no event fires past endTime).
func (e *Engine) Run(endTime float64) error {
	for {
		if e.a0 == 0 {
			break
		}
		dt := e.rng.Exp(e.a0)
		if e.time+dt > endTime {
			break
		}
		kpIdx, err := e.getNext()
		if err != nil {
			return err
		}
		if kpIdx < 0 {
			break
		}
		upd, err := e.kprocs[kpIdx].apply(e, e.rng)
		if err != nil {
			return err
		}
		e.update(upd)
		e.time += dt
		e.nsteps++
	}
	e.time = endTime
	return nil
}

// Advance runs until now+delta. delta must be non-negative.
func (e *Engine) Advance(delta float64) error {
	if delta < 0 {
		return newInvalidArgument("delta", "must be non-negative, got %g", delta)
	}
	return e.Run(e.time + delta)
}

// AdvanceSteps fires up to n events with no terminal time clamp, stopping
// early if A0 reaches 0.
func (e *Engine) AdvanceSteps(n uint64) error {
	for i := uint64(0); i < n; i++ {
		if e.a0 == 0 {
			break
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Reset invokes every KProc's reset in arena order, clears the CR groups,
// zeroes time/nsteps/A0, and rebuilds propensities from scratch via a
// full update pass.
func (e *Engine) Reset() {
	for i := range e.kprocs {
		e.kprocs[i].reset(e)
	}
	e.time = 0
	e.nsteps = 0
	e.updateAll()
}

// --- observables -----------------------------------------------------

// CompCount returns the total count of global species gidx across every
// Tet in compartment name.
func (e *Engine) CompCount(compName string, gidx int32) (uint64, error) {
	c, err := e.compByName(compName)
	if err != nil {
		return 0, err
	}
	lidx := c.def.SpecG2L(gidx)
	if lidx == specUndefined {
		return 0, newInvalidArgument(compName, "species %d not defined in this compartment", gidx)
	}
	var total uint64
	for _, t := range c.tetIdxs {
		total += uint64(e.tets[t].Pool(lidx))
	}
	return total, nil
}

// PatchCount returns the total count of global species gidx across every
// Tri in patch name.
func (e *Engine) PatchCount(patchName string, gidx int32) (uint64, error) {
	p, err := e.patchByName(patchName)
	if err != nil {
		return 0, err
	}
	lidx := p.def.SpecG2L(gidx)
	if lidx == specUndefined {
		return 0, newInvalidArgument(patchName, "species %d not defined in this patch", gidx)
	}
	var total uint64
	for _, tr := range p.triIdxs {
		total += uint64(e.tris[tr].Pool(lidx))
	}
	return total, nil
}

// TetCount returns the local count of global species gidx in Tet tetIdx.
func (e *Engine) TetCount(tetIdx int32, gidx int32) (uint32, error) {
	if tetIdx < 0 || int(tetIdx) >= len(e.tets) {
		return 0, newInvalidArgument("tet", "index %d out of range", tetIdx)
	}
	t := &e.tets[tetIdx]
	lidx := t.comp.SpecG2L(gidx)
	if lidx == specUndefined {
		return 0, newInvalidArgument("tet", "species %d not defined in this tet's compartment", gidx)
	}
	return t.Pool(lidx), nil
}

// TriCount returns the local count of global species gidx in Tri triIdx.
func (e *Engine) TriCount(triIdx int32, gidx int32) (uint32, error) {
	if triIdx < 0 || int(triIdx) >= len(e.tris) {
		return 0, newInvalidArgument("tri", "index %d out of range", triIdx)
	}
	tr := &e.tris[triIdx]
	lidx := tr.patch.SpecG2L(gidx)
	if lidx == specUndefined {
		return 0, newInvalidArgument("tri", "species %d not defined in this tri's patch", gidx)
	}
	return tr.Pool(lidx), nil
}

// Concentration converts a Tet's local species count to molar
// concentration: n / (V_litres * N_A).
func (e *Engine) Concentration(tetIdx int32, gidx int32) (float64, error) {
	n, err := e.TetCount(tetIdx, gidx)
	if err != nil {
		return 0, err
	}
	vol := e.tets[tetIdx].vol * 1000
	return float64(n) / (vol * avogadro), nil
}

func (e *Engine) compByName(name string) (*Compartment, error) {
	for _, c := range e.comps {
		if c.def.Name() == name {
			return c, nil
		}
	}
	return nil, newInvalidArgument(name, "no such compartment")
}

func (e *Engine) patchByName(name string) (*Patch, error) {
	for _, p := range e.patches {
		if p.def.Name() == name {
			return p, nil
		}
	}
	return nil, newInvalidArgument(name, "no such patch")
}

func (e *Engine) diffBoundaryByName(name string) (*DiffBoundary, error) {
	for _, b := range e.diffBnd {
		if b.def.Name() == name {
			return b, nil
		}
	}
	return nil, newInvalidArgument(name, "no such diffusion boundary")
}

// --- population mutators ---------------------------------------------

// SetCompCount distributes n molecules of global species gidx across
// every Tet in compartment compName proportional to Tet volume, using
// probabilistic rounding per voxel and a weighted random fill for the
// remainder, per spec.md §4.5 and the Design Notes' "Uniform-by-measure
// picking" strategy (grounded on tetexact.cpp's _setCompCount).
func (e *Engine) SetCompCount(compName string, gidx int32, n float64) error {
	if n < 0 {
		return newInvalidArgument(compName, "count must be non-negative, got %g", n)
	}
	c, err := e.compByName(compName)
	if err != nil {
		return err
	}
	lidx := c.def.SpecG2L(gidx)
	if lidx == specUndefined {
		return newInvalidArgument(compName, "species %d not defined in this compartment", gidx)
	}

	nInt := float64(int64(n))
	nFrac := n - nInt
	total := nInt
	if nFrac > 0 && e.rng.UnfIE() < nFrac {
		total++
	}

	removed := 0.0
	totalVol := c.totalVol
	for _, tIdx := range c.tetIdxs {
		tet := &e.tets[tIdx]
		if removed >= total {
			tet.SetCount(lidx, 0)
			continue
		}
		fract := total * (tet.vol / totalVol)
		n3 := float64(int64(fract))
		frac3 := fract - n3
		if frac3 > 0 && e.rng.UnfIE() < frac3 {
			n3++
		}
		removed += n3
		if removed >= total {
			n3 -= removed - total
			removed = total
		}
		tet.SetCount(lidx, uint32(n3))
	}
	remaining := total - removed
	for remaining > 0 {
		pick := c.pickTetByVol(e.rng.UnfIE())
		if pick < 0 {
			break
		}
		tet := &e.tets[pick]
		tet.IncCount(lidx, 1)
		remaining--
	}

	for _, tIdx := range c.tetIdxs {
		e.updateSpecTet(tIdx, lidx)
	}
	e.updateSum()
	return nil
}

// SetPatchCount is the Tri/area analogue of SetCompCount.
func (e *Engine) SetPatchCount(patchName string, gidx int32, n float64) error {
	if n < 0 {
		return newInvalidArgument(patchName, "count must be non-negative, got %g", n)
	}
	p, err := e.patchByName(patchName)
	if err != nil {
		return err
	}
	lidx := p.def.SpecG2L(gidx)
	if lidx == specUndefined {
		return newInvalidArgument(patchName, "species %d not defined in this patch", gidx)
	}

	nInt := float64(int64(n))
	nFrac := n - nInt
	total := nInt
	if nFrac > 0 && e.rng.UnfIE() < nFrac {
		total++
	}

	removed := 0.0
	totalArea := p.totalArea
	for _, trIdx := range p.triIdxs {
		tri := &e.tris[trIdx]
		if removed >= total {
			tri.SetCount(lidx, 0)
			continue
		}
		fract := total * (tri.area / totalArea)
		n3 := float64(int64(fract))
		frac3 := fract - n3
		if frac3 > 0 && e.rng.UnfIE() < frac3 {
			n3++
		}
		removed += n3
		if removed >= total {
			n3 -= removed - total
			removed = total
		}
		tri.SetCount(lidx, uint32(n3))
	}
	remaining := total - removed
	for remaining > 0 {
		pick := p.pickTriByArea(e.rng.UnfIE())
		if pick < 0 {
			break
		}
		tri := &e.tris[pick]
		tri.IncCount(lidx, 1)
		remaining--
	}

	for _, trIdx := range p.triIdxs {
		e.updateSpecTri(trIdx, lidx)
	}
	e.updateSum()
	return nil
}

// SetTetCount directly sets a single Tet's local species count and
// refreshes the dependent propensities.
func (e *Engine) SetTetCount(tetIdx int32, gidx int32, n uint32) error {
	if tetIdx < 0 || int(tetIdx) >= len(e.tets) {
		return newInvalidArgument("tet", "index %d out of range", tetIdx)
	}
	t := &e.tets[tetIdx]
	lidx := t.comp.SpecG2L(gidx)
	if lidx == specUndefined {
		return newInvalidArgument("tet", "species %d not defined in this tet's compartment", gidx)
	}
	t.SetCount(lidx, n)
	e.updateSpecTet(tetIdx, lidx)
	e.updateSum()
	return nil
}

// SetTriCount directly sets a single Tri's local species count and
// refreshes the dependent propensities.
func (e *Engine) SetTriCount(triIdx int32, gidx int32, n uint32) error {
	if triIdx < 0 || int(triIdx) >= len(e.tris) {
		return newInvalidArgument("tri", "index %d out of range", triIdx)
	}
	tr := &e.tris[triIdx]
	lidx := tr.patch.SpecG2L(gidx)
	if lidx == specUndefined {
		return newInvalidArgument("tri", "species %d not defined in this tri's patch", gidx)
	}
	tr.SetCount(lidx, n)
	e.updateSpecTri(triIdx, lidx)
	e.updateSum()
	return nil
}

// updateSpecTet refreshes the propensities of every KProc owned by Tet
// tetIdx and its four neighboring Tris, grounded on tetexact.cpp's
// _updateSpec(Tet*, spec_lidx).
func (e *Engine) updateSpecTet(tetIdx int32, _ int32) {
	indices := kprocsOfTetAndNeighbTris(e, tetIdx)
	for _, idx := range indices {
		e.updateElement(idx)
	}
}

// updateSpecTri refreshes the propensities of every KProc owned by Tri
// triIdx, grounded on tetexact.cpp's _updateSpec(Tri*, spec_lidx).
func (e *Engine) updateSpecTri(triIdx int32, _ int32) {
	for _, idx := range e.tris[triIdx].kprocs {
		e.updateElement(idx)
	}
}

// --- rate-constant setters ---------------------------------------------

// SetTetReacK updates a single Reac's macroscopic constant in place.
func (e *Engine) SetTetReacK(tetIdx int32, gidxReac int32, kcst float64) error {
	t := &e.tets[tetIdx]
	lridx := t.comp.ReacG2L(gidxReac)
	if lridx == specUndefined {
		return newInvalidArgument("reac", "reaction %d not defined in this tet's compartment", gidxReac)
	}
	for _, kpIdx := range t.kprocs {
		r, ok := e.kprocs[kpIdx].(*Reac)
		if ok && r.tetIdx == tetIdx && r.lridx == lridx {
			r.SetKcst(e, kcst)
			e.updateElement(kpIdx)
			e.updateSum()
			return nil
		}
	}
	return newInternal("reaction %d not found among tet %d's owned KProcs", gidxReac, tetIdx)
}

// SetCompReacK updates every Tet's Reac for the given reaction across an
// entire compartment, and updates the compartment-wide default so future
// Reset calls pick it up too.
func (e *Engine) SetCompReacK(compName string, gidxReac int32, kcst float64) error {
	c, err := e.compByName(compName)
	if err != nil {
		return err
	}
	lridx := c.def.ReacG2L(gidxReac)
	if lridx == specUndefined {
		return newInvalidArgument(compName, "reaction %d not defined in this compartment", gidxReac)
	}
	c.def.setDefaultReacKcst(lridx, kcst)
	for _, tIdx := range c.tetIdxs {
		if err := e.SetTetReacK(tIdx, gidxReac, kcst); err != nil {
			return err
		}
	}
	return nil
}

// SetTetDiffD updates a single Diff's diffusion constant in place.
func (e *Engine) SetTetDiffD(tetIdx int32, gidxDiff int32, dcst float64) error {
	t := &e.tets[tetIdx]
	lridx := t.comp.DiffG2L(gidxDiff)
	if lridx == specUndefined {
		return newInvalidArgument("diff", "diffusion %d not defined in this tet's compartment", gidxDiff)
	}
	for _, kpIdx := range t.kprocs {
		d, ok := e.kprocs[kpIdx].(*Diff)
		if ok && d.tetIdx == tetIdx && d.lridx == lridx {
			d.SetDcst(e, dcst)
			e.updateElement(kpIdx)
			e.updateSum()
			return nil
		}
	}
	return newInternal("diffusion %d not found among tet %d's owned KProcs", gidxDiff, tetIdx)
}

// SetTriSReacK updates a single SReac's macroscopic constant in place.
func (e *Engine) SetTriSReacK(triIdx int32, gidxSReac int32, kcst float64) error {
	tr := &e.tris[triIdx]
	lsridx := tr.patch.SReacG2L(gidxSReac)
	if lsridx == specUndefined {
		return newInvalidArgument("sreac", "surface reaction %d not defined in this tri's patch", gidxSReac)
	}
	for _, kpIdx := range tr.kprocs {
		r, ok := e.kprocs[kpIdx].(*SReac)
		if ok && r.triIdx == triIdx && r.lsridx == lsridx {
			r.SetKcst(e, kcst)
			e.updateElement(kpIdx)
			e.updateSum()
			return nil
		}
	}
	return newInternal("surface reaction %d not found among tri %d's owned KProcs", gidxSReac, triIdx)
}

// SetDiffBoundaryDiffusionActive toggles a whole diffusion boundary's
// gating for one ligand species across every adjacent Tet's Diff,
// grounded on tetexact.cpp's _setDiffBoundaryDiffusionActive (a
// supplemented feature, see SPEC_FULL.md).
func (e *Engine) SetDiffBoundaryDiffusionActive(boundaryName string, ligandGidx int32, active bool) error {
	b, err := e.diffBoundaryByName(boundaryName)
	if err != nil {
		return err
	}
	for tetIdx, dir := range b.tetDirs {
		t := &e.tets[tetIdx]
		for _, kpIdx := range t.kprocs {
			d, ok := e.kprocs[kpIdx].(*Diff)
			if ok && d.tetIdx == tetIdx && d.ligG == ligandGidx {
				if err := d.SetDiffBndActive(e, dir, active); err != nil {
					return err
				}
				e.updateElement(kpIdx)
			}
		}
	}
	e.updateSum()
	return nil
}

// ReacExtent, ReacPropensity, ReacC, ReacK expose a single Tet-local
// Reac's observability surface (spec.md §6, Observables).
func (e *Engine) reacAt(tetIdx, gidxReac int32) (*Reac, error) {
	if tetIdx < 0 || int(tetIdx) >= len(e.tets) {
		return nil, newInvalidArgument("tet", "index %d out of range", tetIdx)
	}
	t := &e.tets[tetIdx]
	lridx := t.comp.ReacG2L(gidxReac)
	if lridx == specUndefined {
		return nil, newInvalidArgument("reac", "reaction %d not defined in this tet's compartment", gidxReac)
	}
	for _, kpIdx := range t.kprocs {
		if r, ok := e.kprocs[kpIdx].(*Reac); ok && r.tetIdx == tetIdx && r.lridx == lridx {
			return r, nil
		}
	}
	return nil, newInternal("reaction %d not found among tet %d's owned KProcs", gidxReac, tetIdx)
}

func (e *Engine) ReacExtent(tetIdx, gidxReac int32) (uint64, error) {
	r, err := e.reacAt(tetIdx, gidxReac)
	if err != nil {
		return 0, err
	}
	return r.extent(), nil
}

func (e *Engine) ReacPropensity(tetIdx, gidxReac int32) (float64, error) {
	r, err := e.reacAt(tetIdx, gidxReac)
	if err != nil {
		return 0, err
	}
	return r.rate(e), nil
}

func (e *Engine) ReacC(tetIdx, gidxReac int32) (float64, error) {
	r, err := e.reacAt(tetIdx, gidxReac)
	if err != nil {
		return 0, err
	}
	return r.Ccst(), nil
}

func (e *Engine) ReacK(tetIdx, gidxReac int32) (float64, error) {
	r, err := e.reacAt(tetIdx, gidxReac)
	if err != nil {
		return 0, err
	}
	return r.Kcst(), nil
}
