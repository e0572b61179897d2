package ssa

// Build compiles a validated ModelConfig into a ready-to-run Engine,
// following the StateDef construction order mandated by spec.md §4.3:
// defs, then setup(), then setup_references() (patches may add species
// to their adjacent compartments), then setup_indices(), then
// DiffBoundarydef setup(). Finally the mesh topology (Tet/Tri arena),
// the KProc graph, and the CR selector are built and primed.
//
// Grounded on daniacca-achemdb's BuildSchemaFromConfig (validate, then
// construct), generalized to the spec's richer per-compartment model.
func Build(cfg ModelConfig, rng RNG, log Logger) (*Engine, error) {
	if err := ValidateModelConfig(cfg); err != nil {
		return nil, err
	}
	if log == nil {
		log = NewNoOpLogger()
	}

	sd := newStateDef()
	buildSpecdefs(sd, cfg)
	buildReacdefs(sd, cfg)
	buildSReacdefs(sd, cfg)
	buildDiffdefs(sd, cfg)

	if err := buildCompdefs(sd, cfg); err != nil {
		return nil, err
	}
	if err := buildPatchdefs(sd, cfg); err != nil {
		return nil, err
	}
	// setup_references(): patches may reference species in their
	// adjacent compartments that were not otherwise assigned there.
	setupPatchReferences(sd, cfg)
	// setup_indices(): freeze local index maps, now that every species
	// a compartment/patch must know about has been collected.
	setupCompIndices(sd, cfg)
	setupPatchIndices(sd, cfg)
	buildDiffBoundarydefs(sd, cfg)

	e := &Engine{sd: sd, rng: rng, log: log}
	if err := buildMesh(e, cfg); err != nil {
		return nil, err
	}
	buildCompartments(e, cfg)
	buildPatches(e, cfg)
	if err := buildDiffBoundaries(e, cfg); err != nil {
		return nil, err
	}
	buildKProcs(e, cfg)

	for i := range e.kprocs {
		e.kprocs[i].setupDeps(e, int32(i))
	}
	e.updateAll()

	log.Infof("engine %q built: %d tets, %d tris, %d kprocs", cfg.Name, len(e.tets), len(e.tris), len(e.kprocs))
	return e, nil
}

func buildSpecdefs(sd *StateDef, cfg ModelConfig) {
	for i, name := range cfg.Species {
		sd.specs = append(sd.specs, &Specdef{name: name, gidx: int32(i)})
		sd.specByName[name] = int32(i)
	}
}

func stoichVec(n int, stoich map[string]int, specByName map[string]int32, upd bool, sign int) ([]uint8, []int8) {
	lhs := make([]uint8, n)
	updv := make([]int8, n)
	for name, mult := range stoich {
		gidx := specByName[name]
		lhs[gidx] = uint8(mult)
		if upd {
			updv[gidx] += int8(sign * mult)
		}
	}
	return lhs, updv
}

func buildReacdefs(sd *StateDef, cfg ModelConfig) {
	n := len(sd.specs)
	for i, rc := range cfg.Reactions {
		lhs, updLhs := stoichVec(n, rc.Lhs, sd.specByName, true, -1)
		_, updRhs := stoichVec(n, rc.Rhs, sd.specByName, true, 1)
		upd := make([]int8, n)
		for s := 0; s < n; s++ {
			upd[s] = updLhs[s] + updRhs[s]
		}
		order := 0
		for _, m := range rc.Lhs {
			order += m
		}
		sd.reacs = append(sd.reacs, &Reacdef{name: rc.ID, gidx: int32(i), lhs: lhs, upd: upd, kcst: rc.K, order: order})
		sd.reacByName[rc.ID] = int32(i)
	}
}

func buildSReacdefs(sd *StateDef, cfg ModelConfig) {
	n := len(sd.specs)
	for i, rc := range cfg.SurfaceReactions {
		lhsS, updLhsS := stoichVec(n, rc.LhsS, sd.specByName, true, -1)
		_, updRhsS := stoichVec(n, rc.RhsS, sd.specByName, true, 1)
		updS := addInt8(updLhsS, updRhsS)

		lhsI, updLhsI := stoichVec(n, rc.LhsI, sd.specByName, true, -1)
		_, updRhsI := stoichVec(n, rc.RhsI, sd.specByName, true, 1)
		updI := addInt8(updLhsI, updRhsI)

		lhsO, updLhsO := stoichVec(n, rc.LhsO, sd.specByName, true, -1)
		_, updRhsO := stoichVec(n, rc.RhsO, sd.specByName, true, 1)
		updO := addInt8(updLhsO, updRhsO)

		order := 0
		for _, m := range rc.LhsS {
			order += m
		}
		for _, m := range rc.LhsI {
			order += m
		}
		for _, m := range rc.LhsO {
			order += m
		}

		sd.sreacs = append(sd.sreacs, &SReacdef{
			name: rc.ID, gidx: int32(i),
			lhsS: lhsS, updS: updS,
			lhsI: lhsI, updI: updI,
			lhsO: lhsO, updO: updO,
			inside: rc.Inside, outside: rc.Outside,
			kcst: rc.K, order: order,
		})
		sd.sreacByName[rc.ID] = int32(i)
	}
}

func addInt8(a, b []int8) []int8 {
	out := make([]int8, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

func buildDiffdefs(sd *StateDef, cfg ModelConfig) {
	for i, dc := range cfg.Diffusions {
		lig := sd.specByName[dc.Ligand]
		sd.diffs = append(sd.diffs, &Diffdef{name: dc.ID, gidx: int32(i), lig: lig, dcst: dc.Dcst})
		sd.diffByName[dc.ID] = int32(i)
	}
}

// buildCompdefs constructs one Compdef per CompartmentConfig, seeding
// its local species set from every reaction/diffusion it instantiates
// (a compartment implicitly knows about every species its own reactions
// and diffusions touch).
func buildCompdefs(sd *StateDef, cfg ModelConfig) error {
	for i, cc := range cfg.Compartments {
		c := &Compdef{sd: sd, name: cc.ID, gidx: int32(i)}
		c.vol = compartmentVolume(cfg, cc)

		specSet := map[int32]bool{}
		var reacIDs, diffIDs []int32
		for _, rid := range cc.Reactions {
			gidx, ok := sd.reacByName[rid]
			if !ok {
				return newInvalidArgument(cc.ID, "unknown reaction %s", rid)
			}
			reacIDs = append(reacIDs, gidx)
			rd := sd.reacs[gidx]
			for s, l := range rd.lhs {
				if l > 0 {
					specSet[int32(s)] = true
				}
			}
			for s, u := range rd.upd {
				if u != 0 {
					specSet[int32(s)] = true
				}
			}
		}
		for _, did := range cc.Diffusions {
			gidx, ok := sd.diffByName[did]
			if !ok {
				return newInvalidArgument(cc.ID, "unknown diffusion %s", did)
			}
			diffIDs = append(diffIDs, gidx)
			specSet[sd.diffs[gidx].lig] = true
		}

		c.specG2L = fillUndefined(len(sd.specs))
		for gidx := range specSet {
			c.specG2L[gidx] = 0 // placeholder, assigned in setupCompIndices
		}
		c.reacG2L = fillUndefined(len(sd.reacs))
		for _, gidx := range reacIDs {
			c.reacG2L[gidx] = 0
		}
		c.diffG2L = fillUndefined(len(sd.diffs))
		for _, gidx := range diffIDs {
			c.diffG2L[gidx] = 0
		}

		sd.comps = append(sd.comps, c)
		sd.compByName[cc.ID] = int32(i)
	}
	return nil
}

func compartmentVolume(cfg ModelConfig, cc CompartmentConfig) float64 {
	var total float64
	for _, ti := range cc.TetIndices {
		total += cfg.Mesh.Tets[ti].Vol
	}
	return total
}

func fillUndefined(n int) []int32 {
	v := make([]int32, n)
	for i := range v {
		v[i] = specUndefined
	}
	return v
}

// buildPatchdefs constructs one Patchdef per PatchConfig, analogous to
// buildCompdefs.
func buildPatchdefs(sd *StateDef, cfg ModelConfig) error {
	for i, pc := range cfg.Patches {
		p := &Patchdef{sd: sd, name: pc.ID, gidx: int32(i)}
		p.area = patchArea(cfg, pc)

		innerIdx, ok := sd.compByName[pc.InnerComp]
		if !ok {
			return newInvalidArgument(pc.ID, "unknown inner compartment %s", pc.InnerComp)
		}
		p.innerC = sd.comps[innerIdx]
		if pc.OuterComp != "" {
			outerIdx, ok := sd.compByName[pc.OuterComp]
			if !ok {
				return newInvalidArgument(pc.ID, "unknown outer compartment %s", pc.OuterComp)
			}
			p.outerC = sd.comps[outerIdx]
		}

		specSet := map[int32]bool{}
		var sreacIDs []int32
		for _, sid := range pc.SurfaceReactions {
			gidx, ok := sd.sreacByName[sid]
			if !ok {
				return newInvalidArgument(pc.ID, "unknown surface reaction %s", sid)
			}
			sreacIDs = append(sreacIDs, gidx)
			srd := sd.sreacs[gidx]
			for s, l := range srd.lhsS {
				if l > 0 {
					specSet[int32(s)] = true
				}
			}
			for s, u := range srd.updS {
				if u != 0 {
					specSet[int32(s)] = true
				}
			}
		}

		p.specG2L = fillUndefined(len(sd.specs))
		for gidx := range specSet {
			p.specG2L[gidx] = 0
		}
		p.sreacG2L = fillUndefined(len(sd.sreacs))
		for _, gidx := range sreacIDs {
			p.sreacG2L[gidx] = 0
		}

		sd.patches = append(sd.patches, p)
		sd.patchByName[pc.ID] = int32(i)
	}
	return nil
}

func patchArea(cfg ModelConfig, pc PatchConfig) float64 {
	var total float64
	for _, ti := range pc.TriIndices {
		total += cfg.Mesh.Tris[ti].Area
	}
	return total
}

// setupPatchReferences implements spec.md §4.3 step 3: a surface
// reaction's inner/outer lhs vectors may reference species the adjacent
// Compdef did not otherwise know about; add them now, before local
// indices are frozen.
func setupPatchReferences(sd *StateDef, cfg ModelConfig) {
	for pi, pc := range cfg.Patches {
		p := sd.patches[pi]
		for _, sid := range pc.SurfaceReactions {
			gidx := sd.sreacByName[sid]
			srd := sd.sreacs[gidx]
			if srd.inside && p.innerC != nil {
				addSpeciesRefs(p.innerC, srd.lhsI, srd.updI)
			}
			if srd.outside && p.outerC != nil {
				addSpeciesRefs(p.outerC, srd.lhsO, srd.updO)
			}
		}
	}
}

func addSpeciesRefs(c *Compdef, lhs []uint8, upd []int8) {
	for s, l := range lhs {
		if l > 0 {
			c.specG2L[s] = 0
		}
	}
	for s, u := range upd {
		if u != 0 {
			c.specG2L[s] = 0
		}
	}
}

// setupCompIndices implements spec.md §4.3 step 4 for compartments:
// assign dense local indices to every species/reaction/diffusion flagged
// as present, and materialize each local reaction's/diffusion's
// per-local-species stoichiometry rows.
func setupCompIndices(sd *StateDef, cfg ModelConfig) {
	for ci, cc := range cfg.Compartments {
		c := sd.comps[ci]
		assignLocalIndices(c.specG2L, &c.specL2G)

		for gidx, l := range c.reacG2L {
			if l != specUndefined {
				c.reacL2G = append(c.reacL2G, int32(gidx))
			}
		}
		for lidx, gidx := range c.reacL2G {
			c.reacG2L[gidx] = int32(lidx)
		}
		for gidx, l := range c.diffG2L {
			if l != specUndefined {
				c.diffL2G = append(c.diffL2G, int32(gidx))
			}
		}
		for lidx, gidx := range c.diffL2G {
			c.diffG2L[gidx] = int32(lidx)
		}

		numLocalSpecs := len(c.specL2G)
		c.reacLhs = make([]localStoich, len(c.reacL2G))
		c.reacUpd = make([]localStoich, len(c.reacL2G))
		c.reacKcst = make([]float64, len(c.reacL2G))
		c.reacOrder = make([]int, len(c.reacL2G))
		for lridx, gidx := range c.reacL2G {
			rd := sd.reacs[gidx]
			row := localStoich{lhs: make([]uint8, numLocalSpecs), upd: make([]int8, numLocalSpecs)}
			for gs, l := range rd.lhs {
				if l > 0 {
					row.lhs[c.specG2L[gs]] = l
				}
			}
			for gs, u := range rd.upd {
				if u != 0 {
					row.upd[c.specG2L[gs]] = u
				}
			}
			c.reacLhs[lridx] = row
			c.reacUpd[lridx] = row
			c.reacKcst[lridx] = rd.kcst
			c.reacOrder[lridx] = rd.order
		}

		c.diffDcst = make([]float64, len(c.diffL2G))
		for lidx, gidx := range c.diffL2G {
			c.diffDcst[lidx] = sd.diffs[gidx].dcst
		}
		_ = cc
	}
}

// assignLocalIndices compacts a G2L sentinel slice (0 meaning "present,
// unassigned" after the marking pass) into dense local indices, filling
// in the corresponding L2G slice.
func assignLocalIndices(g2l []int32, l2g *[]int32) {
	next := int32(0)
	for gidx, v := range g2l {
		if v != specUndefined {
			g2l[gidx] = next
			*l2g = append(*l2g, int32(gidx))
			next++
		}
	}
}

func setupPatchIndices(sd *StateDef, cfg ModelConfig) {
	for pi := range cfg.Patches {
		p := sd.patches[pi]
		assignLocalIndices(p.specG2L, &p.specL2G)

		for gidx, l := range p.sreacG2L {
			if l != specUndefined {
				p.sreacL2G = append(p.sreacL2G, int32(gidx))
			}
		}
		for lidx, gidx := range p.sreacL2G {
			p.sreacG2L[gidx] = int32(lidx)
		}

		numLocalSpecs := len(p.specL2G)
		p.sreacLhsS = make([]localStoich, len(p.sreacL2G))
		p.sreacUpdS = make([]localStoich, len(p.sreacL2G))
		p.sreacKcst = make([]float64, len(p.sreacL2G))
		p.sreacOrder = make([]int, len(p.sreacL2G))
		p.sreacInside = make([]bool, len(p.sreacL2G))
		p.sreacOutside = make([]bool, len(p.sreacL2G))

		var numInnerSpecs, numOuterSpecs int
		if p.innerC != nil {
			numInnerSpecs = len(p.innerC.specL2G)
		}
		if p.outerC != nil {
			numOuterSpecs = len(p.outerC.specL2G)
		}
		p.sreacLhsI = make([]localStoich, len(p.sreacL2G))
		p.sreacUpdI = make([]localStoich, len(p.sreacL2G))
		p.sreacLhsO = make([]localStoich, len(p.sreacL2G))
		p.sreacUpdO = make([]localStoich, len(p.sreacL2G))

		for lsridx, gidx := range p.sreacL2G {
			srd := sd.sreacs[gidx]
			rowS := localStoich{lhs: make([]uint8, numLocalSpecs), upd: make([]int8, numLocalSpecs)}
			for gs, l := range srd.lhsS {
				if l > 0 {
					rowS.lhs[p.specG2L[gs]] = l
				}
			}
			for gs, u := range srd.updS {
				if u != 0 {
					rowS.upd[p.specG2L[gs]] = u
				}
			}
			p.sreacLhsS[lsridx] = rowS
			p.sreacUpdS[lsridx] = rowS
			p.sreacKcst[lsridx] = srd.kcst
			p.sreacOrder[lsridx] = srd.order
			p.sreacInside[lsridx] = srd.inside
			p.sreacOutside[lsridx] = srd.outside

			if srd.inside && p.innerC != nil {
				rowI := localStoich{lhs: make([]uint8, numInnerSpecs), upd: make([]int8, numInnerSpecs)}
				for gs, l := range srd.lhsI {
					if l > 0 {
						rowI.lhs[p.innerC.specG2L[gs]] = l
					}
				}
				for gs, u := range srd.updI {
					if u != 0 {
						rowI.upd[p.innerC.specG2L[gs]] = u
					}
				}
				p.sreacLhsI[lsridx] = rowI
				p.sreacUpdI[lsridx] = rowI
			}
			if srd.outside && p.outerC != nil {
				rowO := localStoich{lhs: make([]uint8, numOuterSpecs), upd: make([]int8, numOuterSpecs)}
				for gs, l := range srd.lhsO {
					if l > 0 {
						rowO.lhs[p.outerC.specG2L[gs]] = l
					}
				}
				for gs, u := range srd.updO {
					if u != 0 {
						rowO.upd[p.outerC.specG2L[gs]] = u
					}
				}
				p.sreacLhsO[lsridx] = rowO
				p.sreacUpdO[lsridx] = rowO
			}
		}
	}
}

func buildDiffBoundarydefs(sd *StateDef, cfg ModelConfig) {
	for i, bc := range cfg.DiffBoundaries {
		compA := sd.comps[sd.compByName[bc.CompA]]
		compB := sd.comps[sd.compByName[bc.CompB]]
		tris := make([]int32, len(bc.TriIndices))
		for j, ti := range bc.TriIndices {
			tris[j] = int32(ti)
		}
		sd.diffBnd = append(sd.diffBnd, &DiffBoundarydef{
			name: bc.ID, gidx: int32(i), tris: tris, compA: compA, compB: compB,
		})
	}
}

// buildMesh allocates the Tet/Tri arenas from MeshConfig, wiring
// neighbor links and marking diffusion-boundary faces.
func buildMesh(e *Engine, cfg ModelConfig) error {
	e.tets = make([]Tet, len(cfg.Mesh.Tets))
	e.tris = make([]Tri, len(cfg.Mesh.Tris))

	tetComp := make([]int32, len(cfg.Mesh.Tets))
	for i := range tetComp {
		tetComp[i] = specUndefined
	}
	for ci, cc := range cfg.Compartments {
		for _, ti := range cc.TetIndices {
			tetComp[ti] = int32(ci)
		}
	}

	for i, tc := range cfg.Mesh.Tets {
		ci := tetComp[i]
		if ci == specUndefined {
			return newInvalidArgument("tet", "tet %d is not assigned to any compartment", i)
		}
		comp := e.sd.comps[ci]
		t := &e.tets[i]
		t.idx = int32(i)
		t.comp = comp
		t.compIdx = ci
		t.vol = tc.Vol
		t.area = tc.Area
		t.dist = tc.Dist
		for k := 0; k < 4; k++ {
			if tc.NeighbTet[k] >= 0 {
				t.neighbTet[k] = int32(tc.NeighbTet[k])
			} else {
				t.neighbTet[k] = -1
			}
			if tc.NeighbTri[k] >= 0 {
				t.neighbTri[k] = int32(tc.NeighbTri[k])
			} else {
				t.neighbTri[k] = -1
			}
		}
		t.pools = make([]uint32, comp.NumSpecs())
		t.clamped = make([]bool, comp.NumSpecs())
	}

	triPatch := make([]int32, len(cfg.Mesh.Tris))
	for i := range triPatch {
		triPatch[i] = specUndefined
	}
	for pi, pc := range cfg.Patches {
		for _, ti := range pc.TriIndices {
			triPatch[ti] = int32(pi)
		}
	}

	for i, trc := range cfg.Mesh.Tris {
		pi := triPatch[i]
		tr := &e.tris[i]
		tr.idx = int32(i)
		tr.area = trc.Area
		if trc.InnerTet >= 0 {
			tr.innerTet = int32(trc.InnerTet)
		} else {
			tr.innerTet = -1
		}
		if trc.OuterTet >= 0 {
			tr.outerTet = int32(trc.OuterTet)
		} else {
			tr.outerTet = -1
		}
		if pi != specUndefined {
			tr.patch = e.sd.patches[pi]
			tr.patchIdx = pi
			tr.pools = make([]uint32, tr.patch.NumSpecs())
			tr.clamped = make([]bool, tr.patch.NumSpecs())
		}
	}

	for i, bc := range cfg.DiffBoundaries {
		for _, ti := range bc.TriIndices {
			tr := &e.tris[ti]
			if tr.innerTet >= 0 {
				markBoundaryFace(e, tr.innerTet, ti)
			}
			if tr.outerTet >= 0 {
				markBoundaryFace(e, tr.outerTet, ti)
			}
		}
		_ = i
	}
	return nil
}

func markBoundaryFace(e *Engine, tetIdx int32, triIdx int) {
	t := &e.tets[tetIdx]
	for k := 0; k < 4; k++ {
		if int(t.neighbTri[k]) == triIdx {
			t.diffBndDirection[k] = true
		}
	}
}

func buildCompartments(e *Engine, cfg ModelConfig) {
	for ci, cc := range cfg.Compartments {
		tetIdxs := make([]int32, len(cc.TetIndices))
		for j, ti := range cc.TetIndices {
			tetIdxs[j] = int32(ti)
		}
		e.comps = append(e.comps, newCompartment(e, e.sd.comps[ci], tetIdxs))
	}
}

func buildPatches(e *Engine, cfg ModelConfig) {
	for pi, pc := range cfg.Patches {
		triIdxs := make([]int32, len(pc.TriIndices))
		for j, ti := range pc.TriIndices {
			triIdxs[j] = int32(ti)
		}
		e.patches = append(e.patches, newPatch(e, e.sd.patches[pi], triIdxs))
	}
}

func buildDiffBoundaries(e *Engine, cfg ModelConfig) error {
	for bi, bc := range cfg.DiffBoundaries {
		tetDirs := map[int32]int{}
		for _, ti := range bc.TriIndices {
			tr := &e.tris[ti]
			if tr.innerTet >= 0 {
				dir, ok := faceDirection(e, tr.innerTet, int32(ti))
				if !ok {
					return newInternal("diffusion boundary %s: tri %d not found among inner tet %d's faces", bc.ID, ti, tr.innerTet)
				}
				tetDirs[tr.innerTet] = dir
			}
			if tr.outerTet >= 0 {
				dir, ok := faceDirection(e, tr.outerTet, int32(ti))
				if !ok {
					return newInternal("diffusion boundary %s: tri %d not found among outer tet %d's faces", bc.ID, ti, tr.outerTet)
				}
				tetDirs[tr.outerTet] = dir
			}
		}
		e.diffBnd = append(e.diffBnd, &DiffBoundary{def: e.sd.diffBnd[bi], tetDirs: tetDirs})
	}
	return nil
}

func faceDirection(e *Engine, tetIdx int32, triIdx int32) (int, bool) {
	t := &e.tets[tetIdx]
	for k := 0; k < 4; k++ {
		if t.neighbTri[k] == triIdx {
			return k, true
		}
	}
	return 0, false
}

// buildKProcs allocates one Reac/Diff per (Tet, local reaction/diffusion)
// pair and one SReac per (Tri, local surface reaction) pair, per the
// invariant in spec.md §3: "every Tet assigned to a Compartment carries
// exactly one [KProc] per [definition] in that Compartment".
func buildKProcs(e *Engine, cfg ModelConfig) {
	for ti := range e.tets {
		comp := e.tets[ti].comp
		for lridx := int32(0); lridx < int32(comp.NumReacs()); lridx++ {
			kp := newReac(e, int32(ti), lridx)
			idx := int32(len(e.kprocs))
			e.kprocs = append(e.kprocs, kp)
			e.tets[ti].kprocs = append(e.tets[ti].kprocs, idx)
		}
		for lridx := int32(0); lridx < int32(comp.NumDiffs()); lridx++ {
			kp := newDiff(e, int32(ti), lridx)
			idx := int32(len(e.kprocs))
			e.kprocs = append(e.kprocs, kp)
			e.tets[ti].kprocs = append(e.tets[ti].kprocs, idx)
		}
	}
	for tri := range e.tris {
		if e.tris[tri].patch == nil {
			continue
		}
		patch := e.tris[tri].patch
		for lsridx := int32(0); lsridx < int32(patch.NumSReacs()); lsridx++ {
			kp := newSReac(e, int32(tri), lsridx)
			idx := int32(len(e.kprocs))
			e.kprocs = append(e.kprocs, kp)
			e.tris[tri].kprocs = append(e.tris[tri].kprocs, idx)
		}
	}
}
