package column

import (
	"sync/atomic"

	"github.com/coldframe/coldframe/internal/types"
)

// buffer is the owned storage behind a materialized column. Buffers are
// shared by every column holding a view into them and released when the last
// holder drops; any in-place mutation must go through a copy-on-write check.
//
// Exactly one slot is populated, chosen by the column's stype. Strings are
// stored as raw bytes plus end-offsets: offs[i] = end+1 for a valid element,
// -(end+1) for NA (the +1 bias keeps the sign meaningful at offset zero).
type buffer struct {
	refs atomic.Int64

	i8  []int8
	i16 []int16
	i32 []int32
	i64 []int64
	f32 []float32
	f64 []float64

	offs []int64
	raw  []byte

	obj []any
}

func newBuffer() *buffer {
	b := &buffer{}
	b.refs.Store(1)
	return b
}

func (b *buffer) retain() { b.refs.Add(1) }

func (b *buffer) release() { b.refs.Add(-1) }

// shared reports whether more than one column holds this buffer, in which
// case mutation requires a copy first.
func (b *buffer) shared() bool { return b.refs.Load() > 1 }

// strRange returns the [start, end) byte range of string element i.
func (b *buffer) strRange(i int) (int, int) {
	end := b.offs[i]
	if end < 0 {
		end = -end
	}
	end--
	start := int64(0)
	if i > 0 {
		start = b.offs[i-1]
		if start < 0 {
			start = -start
		}
		start--
	}
	return int(start), int(end)
}

// strNA reports whether string element i is NA.
func (b *buffer) strNA(i int) bool { return b.offs[i] < 0 }

// clone deep-copies the populated slot for copy-on-write.
func (b *buffer) clone(st types.SType) *buffer {
	nb := newBuffer()
	switch {
	case b.i8 != nil:
		nb.i8 = append([]int8(nil), b.i8...)
	case b.i16 != nil:
		nb.i16 = append([]int16(nil), b.i16...)
	case b.i32 != nil:
		nb.i32 = append([]int32(nil), b.i32...)
	case b.i64 != nil:
		nb.i64 = append([]int64(nil), b.i64...)
	case b.f32 != nil:
		nb.f32 = append([]float32(nil), b.f32...)
	case b.f64 != nil:
		nb.f64 = append([]float64(nil), b.f64...)
	case b.obj != nil:
		nb.obj = append([]any(nil), b.obj...)
	}
	if st.IsString() {
		nb.offs = append([]int64(nil), b.offs...)
		nb.raw = append([]byte(nil), b.raw...)
	}
	return nb
}
