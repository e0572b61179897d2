package ssa

// DiffBoundary is the runtime counterpart of DiffBoundarydef: the set of
// Tets adjacent to the boundary and, for each, the local neighbor
// direction (0-3) through which the boundary face is crossed.
type DiffBoundary struct {
	def     *DiffBoundarydef
	tetDirs map[int32]int // tet index -> direction 0..3
}

func (b *DiffBoundary) Def() *DiffBoundarydef { return b.def }

// Tets returns the Tet indices adjacent to this boundary.
func (b *DiffBoundary) Tets() []int32 {
	out := make([]int32, 0, len(b.tetDirs))
	for t := range b.tetDirs {
		out = append(out, t)
	}
	return out
}

// Direction returns the neighbor-face index (0-3) through which tetIdx
// touches this boundary, or (-1, false) if tetIdx is not adjacent.
func (b *DiffBoundary) Direction(tetIdx int32) (int, bool) {
	d, ok := b.tetDirs[tetIdx]
	if !ok {
		return -1, false
	}
	return d, true
}
