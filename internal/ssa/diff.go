package ssa

// Diff is a diffusion KProc: the diffusing ligand's four-face transfer
// coefficients and CDF selector, instantiated in exactly one Tet.
type Diff struct {
	tetIdx int32
	lridx  int32 // local diffusion index in this Tet's Compdef
	ligG   int32 // global ligand species index
	ligL   int32 // local ligand species index in this Tet's Compdef

	dcst float64 // default/compartment diffusion constant

	d          [4]float64
	scaledDcst float64
	cdf        [3]float64

	// neighbCompLidx[i] is the ligand's local species index in neighbor
	// i's compartment, or specUndefined if the neighbor does not define
	// the ligand (only reachable when d[i] == 0, since an undefined
	// species cannot have a finite transfer coefficient).
	neighbCompLidx [4]int32

	diffBndDirection [4]bool // face i is a diffusion-boundary face
	diffBndActive    [4]bool // boundary crossing is enabled for this ligand

	crData  crRecord
	active_ bool
	rExt    uint64

	updVec [4][]int32
}

// newDiff constructs a Diff in the given Tet for local diffusion index
// lridx, computing its initial transfer coefficients. Diffusion-boundary
// faces start inactive, per spec.md §4.2.4.
func newDiff(e *Engine, tetIdx, lridx int32) *Diff {
	comp := e.tets[tetIdx].comp
	ligG := comp.DiffL2G(lridx)
	ligL := comp.SpecG2L(ligG)
	d := &Diff{
		tetIdx: tetIdx,
		lridx:  lridx,
		ligG:   ligG,
		ligL:   ligL,
		dcst:   comp.DiffDcst(lridx),
		active_: true,
	}
	tet := &e.tets[tetIdx]
	for i := 0; i < 4; i++ {
		d.diffBndDirection[i] = tet.diffBndDirection[i]
		d.neighbCompLidx[i] = specUndefined
	}
	d.recompute(e)
	return d
}

func (d *Diff) kind() kProcKind  { return kindDiff }
func (d *Diff) cr() *crRecord    { return &d.crData }
func (d *Diff) active() bool     { return d.active_ }
func (d *Diff) setActive(v bool) { d.active_ = v }
func (d *Diff) extent() uint64   { return d.rExt }
func (d *Diff) Dcst() float64    { return d.dcst }

func (d *Diff) GetDiffBndActive(i int) bool { return d.diffBndActive[i] }

// SetDiffBndActive toggles whether this Diff's ligand may cross face i's
// diffusion boundary, triggering a full recompute of d[]/scaledDcst/CDF
// when the flag actually changes (spec.md §4.2.4).
func (d *Diff) SetDiffBndActive(e *Engine, i int, active bool) error {
	if !d.diffBndDirection[i] {
		return newInvalidArgument("", "face %d of tet %d is not a diffusion-boundary face", i, d.tetIdx)
	}
	if d.diffBndActive[i] == active {
		return nil
	}
	d.diffBndActive[i] = active
	d.recompute(e)
	return nil
}

// SetDcst updates the default diffusion constant and recomputes d[],
// scaledDcst, and the CDF selector.
func (d *Diff) SetDcst(e *Engine, dcst float64) {
	d.dcst = dcst
	d.recompute(e)
}

// recompute rebuilds d[0..3], scaledDcst, and the three-entry CDF, gated
// by neighbor existence, positive barycenter distance, and (for
// diffusion-boundary faces) whether the boundary is active for this
// ligand, per spec.md §4.2.3-4.2.4.
func (d *Diff) recompute(e *Engine) {
	tet := &e.tets[d.tetIdx]
	var sum float64
	for i := 0; i < 4; i++ {
		next := tet.neighbTet[i]
		ok := next >= 0 && tet.dist[i] > 0
		if ok && d.diffBndDirection[i] && !d.diffBndActive[i] {
			ok = false
		}
		if !ok {
			d.d[i] = 0
			d.neighbCompLidx[i] = specUndefined
			continue
		}
		d.d[i] = tet.area[i] * d.dcst / (tet.vol * tet.dist[i])
		neighbComp := e.tets[next].comp
		d.neighbCompLidx[i] = neighbComp.SpecG2L(d.ligG)
		if d.neighbCompLidx[i] == specUndefined {
			// Species not defined on the other side: this face must
			// never be selectable. Force its coefficient to zero so the
			// CDF construction below makes it unreachable.
			d.d[i] = 0
		}
		sum += d.d[i]
	}
	d.scaledDcst = sum
	if sum == 0 {
		d.cdf = [3]float64{0, 0, 0}
		return
	}
	// Monotone non-decreasing CDF: an absent/zero-coefficient direction
	// gets the same boundary as the previous entry, making it
	// unreachable under the strict "<" comparison in apply (spec.md §9,
	// first flagged ambiguity).
	acc := 0.0
	for i := 0; i < 3; i++ {
		acc += d.d[i]
		d.cdf[i] = acc / sum
	}
}

// rate is scaledDcst * cnt[ligand], zero if inactive.
func (d *Diff) rate(e *Engine) float64 {
	if !d.active_ {
		return 0
	}
	tet := &e.tets[d.tetIdx]
	return d.scaledDcst * float64(tet.Pool(d.ligL))
}

// apply draws an open-open uniform and walks the CDF to pick a face;
// falls back to the smallest i with d[i] > 0 if the open-open draw lands
// at or past CDF[2] and direction 3 itself carries no mass (second half
// of the first flagged ambiguity's resolution).
func (d *Diff) apply(e *Engine, rng RNG) ([]int32, error) {
	u := rng.UnfEE()
	k := 3
	switch {
	case u < d.cdf[0]:
		k = 0
	case u < d.cdf[1]:
		k = 1
	case u < d.cdf[2]:
		k = 2
	default:
		k = 3
	}
	if d.d[k] == 0 {
		for i := 0; i < 4; i++ {
			if d.d[i] > 0 {
				k = i
				break
			}
		}
	}
	tet := &e.tets[d.tetIdx]
	next := tet.neighbTet[k]
	if next < 0 || d.neighbCompLidx[k] == specUndefined {
		return nil, newInternal("diff %d in tet %d: selected direction %d has no valid neighbor", d.lridx, d.tetIdx, k)
	}
	if !tet.Clamped(d.ligL) {
		if tet.Pool(d.ligL) == 0 {
			return nil, newInternal("diff %d in tet %d: source count would go negative", d.lridx, d.tetIdx)
		}
		tet.IncCount(d.ligL, -1)
	}
	neighbTet := &e.tets[next]
	nl := d.neighbCompLidx[k]
	if !neighbTet.Clamped(nl) {
		neighbTet.IncCount(nl, 1)
	}
	d.rExt++
	return d.updVec[k], nil
}

func (d *Diff) reset(e *Engine) {
	d.crData = crRecord{}
	d.rExt = 0
	d.active_ = true
	for i := 0; i < 4; i++ {
		d.diffBndActive[i] = false
	}
	comp := e.tets[d.tetIdx].comp
	d.dcst = comp.DiffDcst(d.lridx)
	d.recompute(e)
}

// setupDeps builds, for each direction, the union of dependents in the
// source Tet's neighborhood and (when that direction has a live
// neighbor) the destination Tet's neighborhood, per spec.md §4.2.3.
func (d *Diff) setupDeps(e *Engine, selfIdx int32) {
	tet := &e.tets[d.tetIdx]
	localCandidates := kprocsOfTetAndNeighbTris(e, d.tetIdx)
	var local []int32
	local = dedupAppendDeps(local, localCandidates, func(idx int32) bool {
		return e.kprocs[idx].depSpecTet(e, d.ligG, d.tetIdx)
	})

	for i := 0; i < 4; i++ {
		out := append([]int32(nil), local...)
		next := tet.neighbTet[i]
		if next < 0 {
			d.updVec[i] = out
			continue
		}
		// Destination-side union per spec.md §4.2.3: the destination Tet
		// and its neighboring Tris, excluding the Tri shared with the
		// source Tet (face i itself, whether or not it carries a Tri —
		// a diffusion-boundary face always does, and diffusion still
		// crosses it once the boundary is active). The shared Tri's own
		// KProcs are already covered by the source-side scan above.
		destCandidates := kprocsOfTetAndNeighbTrisExcept(e, next, tet.neighbTri[i])
		out = dedupAppendDeps(out, destCandidates, func(idx int32) bool {
			return e.kprocs[idx].depSpecTet(e, d.ligG, next)
		})
		d.updVec[i] = out
	}
}

func (d *Diff) depSpecTet(e *Engine, gidx int32, tetIdx int32) bool {
	return tetIdx == d.tetIdx && gidx == d.ligG
}

func (d *Diff) depSpecTri(e *Engine, gidx int32, triIdx int32) bool { return false }
