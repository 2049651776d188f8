package column

import (
	"math"

	"github.com/coldframe/coldframe/internal/errors"
)

// RIKind identifies the canonical RowIndex representation.
type RIKind uint8

const (
	// RIIdentity maps row i to i.
	RIIdentity RIKind = iota
	// RISlice maps row i to start + i*step.
	RISlice
	// RIArray maps rows through an explicit index list (32- or 64-bit,
	// depending on the magnitude of the indices).
	RIArray
)

// RowIndex maps frame-relative row positions to physical storage rows.
// A RowIndex is immutable once constructed; composition always collapses to
// one of the three canonical forms, never nesting indirection.
type RowIndex struct {
	kind  RIKind
	n     int
	start int
	step  int
	arr32 []int32
	arr64 []int64
}

// Identity returns the identity mapping over n rows.
func Identity(n int) *RowIndex {
	return &RowIndex{kind: RIIdentity, n: n, step: 1}
}

// SliceRI returns the mapping i -> start + i*step over count rows.
// step may be zero (broadcast) or negative (reversal).
func SliceRI(start, count, step int) (*RowIndex, error) {
	if start < 0 || count < 0 {
		return nil, errors.NewValueError("RowIndex", "",
			"invalid slice: start=%d count=%d step=%d", start, count, step)
	}
	if count > 0 && start+(count-1)*step < 0 {
		return nil, errors.NewValueError("RowIndex", "",
			"invalid slice: start=%d count=%d step=%d reaches a negative row", start, count, step)
	}
	return &RowIndex{kind: RISlice, n: count, start: start, step: step}, nil
}

// ArrayRI returns the mapping i -> idx[i]. Indices are validated once here,
// not re-checked per element in hot paths. A 32-bit representation is chosen
// when every index fits.
func ArrayRI(idx []int64, maxRow int) (*RowIndex, error) {
	fits32 := true
	for _, v := range idx {
		if v < 0 || v >= int64(maxRow) {
			return nil, errors.NewValueError("RowIndex", "",
				"row index %d out of bounds for %d rows", v, maxRow)
		}
		if v > math.MaxInt32 {
			fits32 = false
		}
	}
	ri := &RowIndex{kind: RIArray, n: len(idx)}
	if fits32 {
		ri.arr32 = make([]int32, len(idx))
		for i, v := range idx {
			ri.arr32[i] = int32(v)
		}
	} else {
		ri.arr64 = append([]int64(nil), idx...)
	}
	return ri, nil
}

// Kind returns the canonical representation kind.
func (ri *RowIndex) Kind() RIKind { return ri.kind }

// Len returns the number of mapped rows.
func (ri *RowIndex) Len() int { return ri.n }

// At returns the physical row for frame-relative row i.
func (ri *RowIndex) At(i int) int {
	switch ri.kind {
	case RIIdentity:
		return i
	case RISlice:
		return ri.start + i*ri.step
	default:
		if ri.arr32 != nil {
			return int(ri.arr32[i])
		}
		return int(ri.arr64[i])
	}
}

// Indices materializes the full mapping as a 64-bit index list.
func (ri *RowIndex) Indices() []int64 {
	out := make([]int64, ri.n)
	for i := range out {
		out[i] = int64(ri.At(i))
	}
	return out
}

// Compose collapses a view-of-a-view into a single canonical RowIndex:
// the result maps i through outer first, then inner.
//
//	IDENTITY∘X = X, X∘IDENTITY = X
//	SLICE∘SLICE = SLICE (affine maps compose)
//	anything involving ARRAY resolves to ARRAY
func Compose(outer, inner *RowIndex) *RowIndex {
	if inner.kind == RIIdentity {
		return outer
	}
	if outer.kind == RIIdentity {
		if outer.n == inner.n {
			return inner
		}
		// Identity narrower than inner: keep inner's mapping over outer.n rows.
		trimmed := *inner
		trimmed.n = outer.n
		if inner.kind == RIArray {
			if inner.arr32 != nil {
				trimmed.arr32 = inner.arr32[:outer.n]
			} else {
				trimmed.arr64 = inner.arr64[:outer.n]
			}
		}
		return &trimmed
	}
	if outer.kind == RISlice && inner.kind == RISlice {
		return &RowIndex{
			kind:  RISlice,
			n:     outer.n,
			start: inner.start + outer.start*inner.step,
			step:  outer.step * inner.step,
		}
	}
	// At least one side is an ARRAY: resolve eagerly.
	resolved := &RowIndex{kind: RIArray, n: outer.n}
	fits32 := true
	tmp := make([]int64, outer.n)
	for i := 0; i < outer.n; i++ {
		v := int64(inner.At(outer.At(i)))
		tmp[i] = v
		if v > math.MaxInt32 {
			fits32 = false
		}
	}
	if fits32 {
		resolved.arr32 = make([]int32, outer.n)
		for i, v := range tmp {
			resolved.arr32[i] = int32(v)
		}
	} else {
		resolved.arr64 = tmp
	}
	return resolved
}
