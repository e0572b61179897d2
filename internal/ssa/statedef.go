package ssa

// StateDef is the compiled, indexed model: every species/reaction/
// surface-reaction/diffusion definition, plus per-compartment and
// per-patch local index maps and stoichiometry. It is built once, in the
// order mandated by spec.md §4.3, and is read-only for the lifetime of
// the Engine.
type StateDef struct {
	specs   []*Specdef
	reacs   []*Reacdef
	sreacs  []*SReacdef
	diffs   []*Diffdef
	comps   []*Compdef
	patches []*Patchdef
	diffBnd []*DiffBoundarydef

	specByName   map[string]int32
	reacByName   map[string]int32
	sreacByName  map[string]int32
	diffByName   map[string]int32
	compByName   map[string]int32
	patchByName  map[string]int32
}

func newStateDef() *StateDef {
	return &StateDef{
		specByName:  map[string]int32{},
		reacByName:  map[string]int32{},
		sreacByName: map[string]int32{},
		diffByName:  map[string]int32{},
		compByName:  map[string]int32{},
		patchByName: map[string]int32{},
	}
}

func (sd *StateDef) NumSpecs() int { return len(sd.specs) }

func (sd *StateDef) SpecByName(name string) (int32, bool) {
	i, ok := sd.specByName[name]
	return i, ok
}

// Compdef is the compiled definition of one Compartment: its volume, the
// species/reactions/diffusions defined in it (with local index maps), and
// per-species/reaction/diffusion local stoichiometry and dep information.
type Compdef struct {
	sd   *StateDef
	name string
	gidx int32
	vol  float64

	specG2L []int32 // len(sd.specs), local index or specUndefined
	specL2G []int32

	reacG2L []int32
	reacL2G []int32

	diffG2L []int32
	diffL2G []int32

	// per-local-reaction, sized to len(specL2G)
	reacLhs []localStoich
	reacUpd []localStoich
	reacKcst []float64 // default macroscopic constant, one per local reaction;
	                   // each Reac KProc caches its own (possibly per-tet
	                   // overridden) kcst/ccst, since ccst also depends on
	                   // that Reac's own Tet's volume (spec.md §4.2.1).
	reacOrder []int

	// per-local-diffusion
	diffDcst []float64 // override of Diffdef.dcst
}

// localStoich is a per-local-species stoichiometry row for one
// reaction/diffusion, indexed by local species index.
type localStoich struct {
	lhs []uint8
	upd []int8
}

func (c *Compdef) Name() string   { return c.name }
func (c *Compdef) Vol() float64   { return c.vol }
func (c *Compdef) NumSpecs() int  { return len(c.specL2G) }
func (c *Compdef) NumReacs() int  { return len(c.reacL2G) }
func (c *Compdef) NumDiffs() int  { return len(c.diffL2G) }

func (c *Compdef) SpecG2L(gidx int32) int32 { return c.specG2L[gidx] }
func (c *Compdef) SpecL2G(lidx int32) int32 { return c.specL2G[lidx] }
func (c *Compdef) ReacG2L(gidx int32) int32 { return c.reacG2L[gidx] }
func (c *Compdef) ReacL2G(lidx int32) int32 { return c.reacL2G[lidx] }
func (c *Compdef) DiffG2L(gidx int32) int32 { return c.diffG2L[gidx] }
func (c *Compdef) DiffL2G(lidx int32) int32 { return c.diffL2G[lidx] }

func (c *Compdef) ReacKcst(lridx int32) float64 { return c.reacKcst[lridx] }
func (c *Compdef) ReacOrder(lridx int32) int    { return c.reacOrder[lridx] }
func (c *Compdef) DiffDcst(lridx int32) float64 { return c.diffDcst[lridx] }

func (c *Compdef) ReacLhs(lridx, lsidx int32) int { return int(c.reacLhs[lridx].lhs[lsidx]) }
func (c *Compdef) ReacUpd(lridx, lsidx int32) int { return int(c.reacUpd[lridx].upd[lsidx]) }

// ReacDep reports whether reaction lridx's propensity depends on local
// species lsidx's count.
func (c *Compdef) ReacDep(lridx, lsidx int32) bool {
	return c.reacLhs[lridx].lhs[lsidx] > 0
}

// ReacUpdCollection returns local species indices reaction lridx changes.
func (c *Compdef) ReacUpdCollection(lridx int32) []int32 {
	return nonzeroLocal(c.reacUpd[lridx].upd)
}

func nonzeroLocal(v []int8) []int32 {
	var out []int32
	for i, x := range v {
		if x != 0 {
			out = append(out, int32(i))
		}
	}
	return out
}

// setDefaultReacKcst updates the compartment-wide default macroscopic
// constant for reaction lridx. It does not retroactively touch any
// already-constructed Reac; Engine.SetCompReacK loops every Tet's Reac to
// apply the new value, per spec.md §4.5's rate-constant setters.
func (c *Compdef) setDefaultReacKcst(lridx int32, kcst float64) {
	c.reacKcst[lridx] = kcst
}

// Patchdef is the compiled definition of one Patch: its area, the surface
// reactions defined on it (with local index maps into the inner and
// outer Compdef's species spaces), and its inner/outer compartments.
type Patchdef struct {
	sd      *StateDef
	name    string
	gidx    int32
	area    float64
	innerC  *Compdef
	outerC  *Compdef

	specG2L []int32
	specL2G []int32

	sreacG2L []int32
	sreacL2G []int32

	sreacLhsS []localStoich
	sreacUpdS []localStoich
	sreacLhsI []localStoich // indexed against innerC's local species space
	sreacUpdI []localStoich
	sreacLhsO []localStoich // indexed against outerC's local species space
	sreacUpdO []localStoich
	sreacKcst  []float64 // default macroscopic constant per local sreac
	sreacOrder []int
	sreacInside  []bool
	sreacOutside []bool
}

func (p *Patchdef) Name() string  { return p.name }
func (p *Patchdef) Area() float64 { return p.area }
func (p *Patchdef) InnerComp() *Compdef { return p.innerC }
func (p *Patchdef) OuterComp() *Compdef { return p.outerC }
func (p *Patchdef) NumSpecs() int { return len(p.specL2G) }
func (p *Patchdef) NumSReacs() int { return len(p.sreacL2G) }

func (p *Patchdef) SpecG2L(gidx int32) int32   { return p.specG2L[gidx] }
func (p *Patchdef) SpecL2G(lidx int32) int32   { return p.specL2G[lidx] }
func (p *Patchdef) SReacG2L(gidx int32) int32  { return p.sreacG2L[gidx] }
func (p *Patchdef) SReacL2G(lidx int32) int32  { return p.sreacL2G[lidx] }
func (p *Patchdef) SReacKcst(lsridx int32) float64 { return p.sreacKcst[lsridx] }
func (p *Patchdef) SReacOrder(lsridx int32) int    { return p.sreacOrder[lsridx] }

func (p *Patchdef) SReacLhsS(lsridx, lsidx int32) int { return int(p.sreacLhsS[lsridx].lhs[lsidx]) }
func (p *Patchdef) SReacUpdS(lsridx, lsidx int32) int { return int(p.sreacUpdS[lsridx].upd[lsidx]) }

func (p *Patchdef) SReacDepS(lsridx, lsidx int32) bool {
	return p.sreacLhsS[lsridx].lhs[lsidx] > 0
}

func (p *Patchdef) SReacUpdCollectionS(lsridx int32) []int32 {
	return nonzeroLocal(p.sreacUpdS[lsridx].upd)
}

func (p *Patchdef) SReacInside(lsridx int32) bool  { return p.sreacInside[lsridx] }
func (p *Patchdef) SReacOutside(lsridx int32) bool { return p.sreacOutside[lsridx] }
func (p *Patchdef) SReacSurfSurf(lsridx int32) bool {
	return !p.sreacInside[lsridx] && !p.sreacOutside[lsridx]
}

func (p *Patchdef) SReacLhsI(lsridx, lsidx int32) int { return int(p.sreacLhsI[lsridx].lhs[lsidx]) }
func (p *Patchdef) SReacUpdI(lsridx, lsidx int32) int { return int(p.sreacUpdI[lsridx].upd[lsidx]) }
func (p *Patchdef) SReacDepI(lsridx, lsidx int32) bool {
	return p.sreacInside[lsridx] && p.sreacLhsI[lsridx].lhs[lsidx] > 0
}
func (p *Patchdef) SReacUpdCollectionI(lsridx int32) []int32 {
	return nonzeroLocal(p.sreacUpdI[lsridx].upd)
}

func (p *Patchdef) SReacLhsO(lsridx, lsidx int32) int { return int(p.sreacLhsO[lsridx].lhs[lsidx]) }
func (p *Patchdef) SReacUpdO(lsridx, lsidx int32) int { return int(p.sreacUpdO[lsridx].upd[lsidx]) }
func (p *Patchdef) SReacDepO(lsridx, lsidx int32) bool {
	return p.sreacOutside[lsridx] && p.sreacLhsO[lsridx].lhs[lsidx] > 0
}
func (p *Patchdef) SReacUpdCollectionO(lsridx int32) []int32 {
	return nonzeroLocal(p.sreacUpdO[lsridx].upd)
}

// DiffBoundarydef links two compartments across a set of shared
// triangles. The per-Tet crossing direction (0-3) is held by the runtime
// DiffBoundary, not here.
type DiffBoundarydef struct {
	name  string
	gidx  int32
	tris  []int32
	compA *Compdef
	compB *Compdef
}

func (d *DiffBoundarydef) Name() string    { return d.name }
func (d *DiffBoundarydef) Tris() []int32   { return d.tris }
func (d *DiffBoundarydef) CompA() *Compdef { return d.compA }
func (d *DiffBoundarydef) CompB() *Compdef { return d.compB }
