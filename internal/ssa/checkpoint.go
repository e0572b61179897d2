package ssa

import (
	"bufio"
	"encoding/binary"
	"io"
)

// Checkpoint serializes the Engine's complete mutable state to w in a
// strictly sequential binary stream, grounded on cpp/tetexact/tetexact.cpp's
// checkpoint/restore pair: per-Tet and per-Tri pools and clamp flags, then
// per-KProc constants/extent/active flags, then engine time and step count.
// Comp/Patch counts are not written separately since they are always
// recomputed as a sum over their owned Tets/Tris (see CompCount/PatchCount
// in engine.go); writing them would be redundant state, not a second
// independent source of truth. No versioned schema or self-describing
// framing is used; this is an implementation-internal format between
// Engine instances built from the same ModelConfig, so no third-party
// serialization library applies (see DESIGN.md).
func (e *Engine) Checkpoint(w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := &checkpointEncoder{w: bw}

	for ti := range e.tets {
		t := &e.tets[ti]
		for s := range t.pools {
			enc.putU32(t.pools[s])
			enc.putBool(t.clamped[s])
		}
	}
	for tri := range e.tris {
		tr := &e.tris[tri]
		for s := range tr.pools {
			enc.putU32(tr.pools[s])
			enc.putBool(tr.clamped[s])
		}
	}

	for _, kp := range e.kprocs {
		switch v := kp.(type) {
		case *Reac:
			enc.putF64(v.ccst)
			enc.putF64(v.kcst)
			enc.putU64(v.rExt)
			enc.putBool(v.active_)
		case *SReac:
			enc.putF64(v.ccst)
			enc.putF64(v.kcst)
			enc.putU64(v.rExt)
			enc.putBool(v.active_)
		case *Diff:
			enc.putF64(v.scaledDcst)
			enc.putF64(v.dcst)
			for i := 0; i < 3; i++ {
				enc.putF64(v.cdf[i])
			}
			for i := 0; i < 4; i++ {
				enc.putBool(v.diffBndActive[i])
			}
			enc.putU64(v.rExt)
			enc.putBool(v.active_)
		}
	}

	enc.putF64(e.time)
	enc.putU64(e.nsteps)

	if enc.err != nil {
		return enc.err
	}
	return bw.Flush()
}

// Restore replaces the Engine's mutable state (pools, clamp flags, KProc
// constants/extents, time, step count) by reading a stream previously
// produced by Checkpoint against an Engine built from the same ModelConfig.
// It ends with a full propensity rebuild, since apply()'s incremental
// update lists are not part of the checkpoint format.
func (e *Engine) Restore(r io.Reader) error {
	dec := &checkpointDecoder{r: bufio.NewReader(r)}

	for ti := range e.tets {
		t := &e.tets[ti]
		for s := range t.pools {
			t.pools[s] = dec.getU32()
			t.clamped[s] = dec.getBool()
		}
	}
	for tri := range e.tris {
		tr := &e.tris[tri]
		for s := range tr.pools {
			tr.pools[s] = dec.getU32()
			tr.clamped[s] = dec.getBool()
		}
	}

	for _, kp := range e.kprocs {
		switch v := kp.(type) {
		case *Reac:
			v.ccst = dec.getF64()
			v.kcst = dec.getF64()
			v.rExt = dec.getU64()
			v.active_ = dec.getBool()
		case *SReac:
			v.ccst = dec.getF64()
			v.kcst = dec.getF64()
			v.rExt = dec.getU64()
			v.active_ = dec.getBool()
		case *Diff:
			v.scaledDcst = dec.getF64()
			v.dcst = dec.getF64()
			for i := 0; i < 3; i++ {
				v.cdf[i] = dec.getF64()
			}
			for i := 0; i < 4; i++ {
				v.diffBndActive[i] = dec.getBool()
			}
			v.rExt = dec.getU64()
			v.active_ = dec.getBool()
		}
	}

	e.time = dec.getF64()
	e.nsteps = dec.getU64()

	if dec.err != nil {
		return newInternal("checkpoint restore: %v", dec.err)
	}
	e.updateAll()
	return nil
}

// checkpointEncoder/checkpointDecoder latch the first error encountered and
// skip subsequent writes/reads, so call sites never need per-field error
// checks.
type checkpointEncoder struct {
	w   io.Writer
	err error
}

func (e *checkpointEncoder) putU32(v uint32) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.LittleEndian, v)
}

func (e *checkpointEncoder) putU64(v uint64) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.LittleEndian, v)
}

func (e *checkpointEncoder) putF64(v float64) {
	if e.err != nil {
		return
	}
	e.err = binary.Write(e.w, binary.LittleEndian, v)
}

func (e *checkpointEncoder) putBool(v bool) {
	if e.err != nil {
		return
	}
	var b uint8
	if v {
		b = 1
	}
	e.err = binary.Write(e.w, binary.LittleEndian, b)
}

type checkpointDecoder struct {
	r   io.Reader
	err error
}

func (d *checkpointDecoder) getU32() uint32 {
	var v uint32
	if d.err != nil {
		return 0
	}
	d.err = binary.Read(d.r, binary.LittleEndian, &v)
	return v
}

func (d *checkpointDecoder) getU64() uint64 {
	var v uint64
	if d.err != nil {
		return 0
	}
	d.err = binary.Read(d.r, binary.LittleEndian, &v)
	return v
}

func (d *checkpointDecoder) getF64() float64 {
	var v float64
	if d.err != nil {
		return 0
	}
	d.err = binary.Read(d.r, binary.LittleEndian, &v)
	return v
}

func (d *checkpointDecoder) getBool() bool {
	var b uint8
	if d.err != nil {
		return false
	}
	d.err = binary.Read(d.r, binary.LittleEndian, &b)
	return b == 1
}
