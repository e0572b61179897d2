package ssa

// specUndefined is the sentinel returned by global<->local index lookups
// when a species, reaction, surface reaction or diffusion is not defined
// in the compartment/patch being queried.
const specUndefined int32 = -1

// Specdef is the immutable, globally-indexed definition of a chemical
// species. It carries no per-compartment state; local indices live on
// Compdef/Patchdef.
type Specdef struct {
	name string
	gidx int32
}

func (s *Specdef) Name() string { return s.name }
func (s *Specdef) Gidx() int32  { return s.gidx }

// Reacdef is the immutable, globally-indexed definition of a volume
// reaction: its stoichiometry (lhs reactant multiplicities, signed
// update vector) and macroscopic rate constant.
type Reacdef struct {
	name  string
	gidx  int32
	lhs   []uint8 // indexed by global species index
	upd   []int8  // indexed by global species index, signed net change
	kcst  float64
	order int
}

func (r *Reacdef) Name() string    { return r.name }
func (r *Reacdef) Gidx() int32     { return r.gidx }
func (r *Reacdef) Kcst() float64   { return r.kcst }
func (r *Reacdef) Order() int      { return r.order }
func (r *Reacdef) Lhs(s int32) int { return int(r.lhs[s]) }
func (r *Reacdef) Upd(s int32) int { return int(r.upd[s]) }

// dep reports whether this reaction's rate depends on the count of
// global species gidx (lhs[gidx] > 0).
func (r *Reacdef) dep(gidx int32) bool { return r.lhs[gidx] > 0 }

// updCollection returns the global species indices this reaction changes.
func (r *Reacdef) updCollection() []int32 {
	var out []int32
	for i, u := range r.upd {
		if u != 0 {
			out = append(out, int32(i))
		}
	}
	return out
}

// SReacdef is the immutable, globally-indexed definition of a surface
// reaction. It carries independent lhs/upd vectors for the surface, the
// inner-volume side, and the outer-volume side; exactly one of
// Inside/Outside/SurfSurf describes how the volume side (if any) is used.
type SReacdef struct {
	name   string
	gidx   int32
	lhsS   []uint8
	updS   []int8
	lhsI   []uint8
	updI   []int8
	lhsO   []uint8
	updO   []int8
	inside bool
	outside bool
	kcst   float64
	order  int
}

func (r *SReacdef) Name() string  { return r.name }
func (r *SReacdef) Gidx() int32   { return r.gidx }
func (r *SReacdef) Kcst() float64 { return r.kcst }
func (r *SReacdef) Order() int    { return r.order }
func (r *SReacdef) SurfSurf() bool { return !r.inside && !r.outside }
func (r *SReacdef) Inside() bool  { return r.inside }
func (r *SReacdef) Outside() bool { return r.outside }

func (r *SReacdef) depS(gidx int32) bool { return r.lhsS[gidx] > 0 }
func (r *SReacdef) depI(gidx int32) bool { return r.inside && r.lhsI[gidx] > 0 }
func (r *SReacdef) depO(gidx int32) bool { return r.outside && r.lhsO[gidx] > 0 }

func (r *SReacdef) updCollectionS() []int32 { return nonzeroIdx(r.updS) }
func (r *SReacdef) updCollectionI() []int32 { return nonzeroIdx(r.updI) }
func (r *SReacdef) updCollectionO() []int32 { return nonzeroIdx(r.updO) }

func nonzeroIdx(v []int8) []int32 {
	var out []int32
	for i, x := range v {
		if x != 0 {
			out = append(out, int32(i))
		}
	}
	return out
}

// Diffdef is the immutable, globally-indexed definition of a diffusive
// species and its default diffusion constant.
type Diffdef struct {
	name string
	gidx int32
	lig  int32 // global species index of the diffusing ligand
	dcst float64
}

func (d *Diffdef) Name() string   { return d.name }
func (d *Diffdef) Gidx() int32    { return d.gidx }
func (d *Diffdef) Lig() int32     { return d.lig }
func (d *Diffdef) Dcst() float64  { return d.dcst }
