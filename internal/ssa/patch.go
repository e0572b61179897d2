package ssa

// Patch aggregates the Tris belonging to one Patchdef and provides the
// uniform-by-area picker used for population injection.
type Patch struct {
	def       *Patchdef
	triIdxs   []int32
	picker    *cumPicker
	totalArea float64
}

func newPatch(e *Engine, def *Patchdef, triIdxs []int32) *Patch {
	p := &Patch{def: def, triIdxs: triIdxs}
	p.picker = newCumPicker(triIdxs, func(idx int32) float64 { return e.tris[idx].area })
	p.totalArea = p.picker.total
	return p
}

func (p *Patch) Def() *Patchdef  { return p.def }
func (p *Patch) Tris() []int32   { return p.triIdxs }
func (p *Patch) Area() float64   { return p.totalArea }

// pickTriByArea picks a Tri index with probability proportional to its
// area, per spec.md §9's uniform-by-measure picking design note.
func (p *Patch) pickTriByArea(u float64) int32 { return p.picker.pick(u) }
