package ssa

// Tet is one tetrahedral volume voxel. Its geometry is immutable after
// construction; pools, clamp flags and the owned KProc list are mutated
// only from inside KProc.apply and the Engine's public mutators.
type Tet struct {
	idx     int32
	comp    *Compdef
	compIdx int32 // index into Engine.comps

	vol  float64
	area [4]float64
	dist [4]float64

	neighbTet [4]int32 // -1 if absent
	neighbTri [4]int32 // -1 if absent

	diffBndDirection [4]bool

	pools   []uint32
	clamped []bool

	kprocs []int32 // indices into Engine.kprocs: this Tet's Reacs and Diffs
}

func (t *Tet) Vol() float64            { return t.vol }
func (t *Tet) Area(i int) float64      { return t.area[i] }
func (t *Tet) Dist(i int) float64      { return t.dist[i] }
func (t *Tet) NextTet(i int) int32     { return t.neighbTet[i] }
func (t *Tet) NextTri(i int) int32     { return t.neighbTri[i] }
func (t *Tet) Compdef() *Compdef       { return t.comp }
func (t *Tet) Clamped(s int32) bool    { return t.clamped[s] }
func (t *Tet) Pool(s int32) uint32     { return t.pools[s] }
func (t *Tet) KProcBegin() []int32     { return t.kprocs }

func (t *Tet) GetDiffBndDirection(i int) bool { return t.diffBndDirection[i] }
func (t *Tet) SetDiffBndDirection(i int, v bool) { t.diffBndDirection[i] = v }

// SetCount sets the local species count directly, without touching any
// propensity; the caller (Engine) is responsible for refreshing the
// selector afterwards.
func (t *Tet) SetCount(s int32, n uint32) {
	t.pools[s] = n
}

// IncCount adds delta (which may be negative) to the local species
// count. It never produces a negative count: going negative is an
// invariant violation caught by the caller before this is invoked.
func (t *Tet) IncCount(s int32, delta int64) {
	t.pools[s] = uint32(int64(t.pools[s]) + delta)
}

func (t *Tet) setClamped(s int32, v bool) { t.clamped[s] = v }
