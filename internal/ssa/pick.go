package ssa

import "sort"

// cumPicker is a precomputed cumulative-sum array over a fixed set of
// weights (Tet volumes or Tri areas), used to pick an element
// proportional to its weight via binary search. Rebuilding is unnecessary
// because Tet/Tri geometry is immutable (spec.md §9).
type cumPicker struct {
	items []int32   // the Tet or Tri indices, in the order accumulated
	cum   []float64 // cum[i] = sum of weights of items[0..i]
	total float64
}

func newCumPicker(items []int32, weight func(int32) float64) *cumPicker {
	p := &cumPicker{items: append([]int32(nil), items...)}
	p.cum = make([]float64, len(items))
	acc := 0.0
	for i, it := range items {
		acc += weight(it)
		p.cum[i] = acc
	}
	p.total = acc
	return p
}

// pick returns the item whose cumulative-weight slot contains u*total,
// u in [0,1). With total == 0 (degenerate empty set) it returns -1.
func (p *cumPicker) pick(u float64) int32 {
	if p.total <= 0 || len(p.items) == 0 {
		return -1
	}
	target := u * p.total
	i := sort.Search(len(p.cum), func(i int) bool { return p.cum[i] >= target })
	if i >= len(p.items) {
		i = len(p.items) - 1
	}
	return p.items[i]
}
