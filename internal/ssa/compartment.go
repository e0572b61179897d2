package ssa

// Compartment aggregates the Tets belonging to one Compdef and provides
// the uniform-by-volume picker used for population injection.
type Compartment struct {
	def      *Compdef
	tetIdxs  []int32
	picker   *cumPicker
	totalVol float64
}

func newCompartment(e *Engine, def *Compdef, tetIdxs []int32) *Compartment {
	c := &Compartment{def: def, tetIdxs: tetIdxs}
	c.picker = newCumPicker(tetIdxs, func(idx int32) float64 { return e.tets[idx].vol })
	c.totalVol = c.picker.total
	return c
}

func (c *Compartment) Def() *Compdef   { return c.def }
func (c *Compartment) Tets() []int32   { return c.tetIdxs }
func (c *Compartment) Vol() float64    { return c.totalVol }

// pickTetByVol picks a Tet index with probability proportional to its
// volume, per spec.md §9's uniform-by-measure picking design note.
func (c *Compartment) pickTetByVol(u float64) int32 { return c.picker.pick(u) }
