package ssa

import "math"

// crGroup is a power-of-two bucket of KProc indices, grounded directly on
// cpp/tetexact/crstruct.hpp's CRGroup. A rate with frexp exponent p lies
// in [2^(p-1), 2^p) and goes to pGroups[p] when it is >= 0.5 (p >= 0),
// otherwise to nGroups[-p]. max = 2^p is the group's rejection-sampling
// upper bound.
type crGroup struct {
	max     float64
	sum     float64
	indices []int32 // KProc indices into Engine.kprocs
}

const crGroupInitCapacity = 1024

func newCRGroup(pow int) *crGroup {
	return &crGroup{
		max:     math.Ldexp(1, pow),
		indices: make([]int32, 0, crGroupInitCapacity),
	}
}

// groupPower returns the frexp-derived bucket power for a rate, and
// whether the rate belongs to a positive (>= 0.5) or negative bucket.
// Rates at or below 1e-20 are unrecorded and have no group.
func groupPower(rate float64) (pow int, positive bool, unrecorded bool) {
	if rate <= 1e-20 {
		return 0, false, true
	}
	_, p := math.Frexp(rate)
	if rate >= 0.5 {
		return p, true, false
	}
	return -p, false, false
}

// extendPGroups grows e.pGroups so index pow exists.
func (e *Engine) extendPGroups(pow int) {
	for len(e.pGroups) <= pow {
		e.pGroups = append(e.pGroups, newCRGroup(len(e.pGroups)))
	}
}

// extendNGroups grows e.nGroups so index pow exists.
func (e *Engine) extendNGroups(pow int) {
	for len(e.nGroups) <= pow {
		e.nGroups = append(e.nGroups, newCRGroup(-len(e.nGroups)))
	}
}

func (e *Engine) group(pow int, positive bool) *crGroup {
	if positive {
		e.extendPGroups(pow)
		return e.pGroups[pow]
	}
	e.extendNGroups(pow)
	return e.nGroups[pow]
}

// remove performs the O(1) swap-remove: the last element takes the
// removed element's slot. The displaced element's recorded position is
// updated by the caller, removeFromCurrentGroup.
func (g *crGroup) remove(pos int) {
	last := len(g.indices) - 1
	g.indices[pos] = g.indices[last]
	g.indices = g.indices[:last]
}

// updateElement recomputes one KProc's rate, moves it between CR groups
// if its bucket changed, and keeps the owning group's sum current. This
// is the Go counterpart of tetexact.cpp's _updateElement.
func (e *Engine) updateElement(idx int32) {
	kp := e.kprocs[idx]
	rec := kp.cr()
	oldRate := rec.rate
	newRate := kp.rate(e)
	if oldRate == newRate {
		return
	}

	newPow, newPositive, newUnrecorded := groupPower(newRate)

	if newUnrecorded {
		if rec.recorded {
			e.removeFromCurrentGroup(idx, rec)
			rec.recorded = false
		}
		rec.rate = newRate
		return
	}

	if rec.recorded && rec.pow == newPow && samePolarity(rec, newPositive) {
		g := e.group(newPow, newPositive)
		g.sum += newRate - oldRate
		rec.rate = newRate
		return
	}

	if rec.recorded {
		e.removeFromCurrentGroup(idx, rec)
	}
	g := e.group(newPow, newPositive)
	rec.pos = len(g.indices)
	g.indices = append(g.indices, idx)
	g.sum += newRate
	rec.pow = newPow
	rec.recorded = true
	rec.positive = newPositive
	rec.rate = newRate
}

// samePolarity reports whether rec's previously recorded group had the
// same sign-bucket (positive/negative) as the one being checked against.
func samePolarity(rec *crRecord, positive bool) bool { return rec.positive == positive }

func (e *Engine) removeFromCurrentGroup(idx int32, rec *crRecord) {
	g := e.group(rec.pow, rec.positive)
	g.sum -= rec.rate
	if g.sum < 0 {
		g.sum = 0
	}
	displacedPos := rec.pos
	lastIdx := g.indices[len(g.indices)-1]
	g.remove(displacedPos)
	if lastIdx != idx && displacedPos < len(g.indices) {
		e.kprocs[lastIdx].cr().pos = displacedPos
	}
}

// updateAll recomputes every KProc's rate and rebuilds the CR groups and
// A0 from scratch. Used by Reset and Restore.
func (e *Engine) updateAll() {
	e.pGroups = nil
	e.nGroups = nil
	for i := range e.kprocs {
		*e.kprocs[i].cr() = crRecord{}
	}
	for i := range e.kprocs {
		e.updateElement(int32(i))
	}
	e.updateSum()
}

// update refreshes exactly the given KProc indices, then recomputes A0.
// This is the hot path called after every apply().
func (e *Engine) update(indices []int32) {
	for _, idx := range indices {
		e.updateElement(idx)
	}
	e.updateSum()
}

func (e *Engine) updateSum() {
	a0 := 0.0
	for _, g := range e.nGroups {
		a0 += g.sum
	}
	for _, g := range e.pGroups {
		a0 += g.sum
	}
	e.a0 = a0
}

// getNext implements composition-rejection next-event sampling, per
// spec.md §4.4 and tetexact.cpp's _getNext.
func (e *Engine) getNext() (int32, error) {
	if e.a0 <= 0 {
		return -1, nil
	}
	selector := e.a0 * e.rng.UnfII()
	partial := 0.0

	for _, g := range e.nGroups {
		if len(g.indices) == 0 {
			continue
		}
		if selector > partial+g.sum {
			partial += g.sum
			continue
		}
		return e.rejectionSample(g)
	}
	for _, g := range e.pGroups {
		if len(g.indices) == 0 {
			continue
		}
		if selector > partial+g.sum {
			partial += g.sum
			continue
		}
		return e.rejectionSample(g)
	}
	return -1, newInternal("CR selector could not locate an event: a0=%g selector=%g partial=%g", e.a0, selector, partial)
}

func (e *Engine) rejectionSample(g *crGroup) (int32, error) {
	for attempts := 0; attempts < 1_000_000; attempts++ {
		r := g.max * e.rng.UnfII()
		j := e.rng.Uint32() % uint32(len(g.indices))
		cand := g.indices[j]
		if e.kprocs[cand].cr().rate > r {
			return cand, nil
		}
	}
	return -1, newInternal("CR rejection sampling did not converge within a group of size %d", len(g.indices))
}
