package ssa

// Tri is one triangular surface facet. Like Tet, its geometry is
// immutable after construction.
type Tri struct {
	idx      int32
	patch    *Patchdef
	patchIdx int32

	area float64

	innerTet int32 // -1 if absent
	outerTet int32 // -1 if absent

	pools   []uint32
	clamped []bool

	kprocs []int32 // indices into Engine.kprocs: this Tri's SReacs
}

func (tr *Tri) Area() float64      { return tr.area }
func (tr *Tri) ITet() int32        { return tr.innerTet }
func (tr *Tri) OTet() int32        { return tr.outerTet }
func (tr *Tri) Patchdef() *Patchdef { return tr.patch }
func (tr *Tri) Clamped(s int32) bool { return tr.clamped[s] }
func (tr *Tri) Pool(s int32) uint32  { return tr.pools[s] }
func (tr *Tri) KProcBegin() []int32  { return tr.kprocs }

func (tr *Tri) SetCount(s int32, n uint32) {
	tr.pools[s] = n
}

func (tr *Tri) IncCount(s int32, delta int64) {
	tr.pools[s] = uint32(int64(tr.pools[s]) + delta)
}

func (tr *Tri) setClamped(s int32, v bool) { tr.clamped[s] = v }
