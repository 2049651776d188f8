package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/parallel"
	"github.com/coldframe/coldframe/internal/types"
)

func TestFromInt32sSentinelIsNA(t *testing.T) {
	c := FromInt32s([]int32{1, types.NAInt32, 3})
	assert.Equal(t, types.Int32, c.SType())
	assert.Equal(t, 3, c.NRows())
	assert.False(t, c.IsNA(0))
	assert.True(t, c.IsNA(1))
	assert.Equal(t, int64(1), c.Get(0))
	assert.Nil(t, c.Get(1))
	assert.Equal(t, int64(3), c.Get(2))
}

func TestFromFloat64sNaNIsNA(t *testing.T) {
	c := FromAnys(types.Float64, []any{1.5, nil, -2.0})
	assert.True(t, c.IsNA(1))
	v, ok := c.Float64At(0)
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)
	_, ok = c.Float64At(1)
	assert.False(t, ok)
}

func TestStringColumnWithNA(t *testing.T) {
	c := FromAnys(types.Str32, []any{"alpha", nil, "", "beta"})
	assert.Equal(t, "alpha", c.Get(0))
	assert.True(t, c.IsNA(1))
	assert.Equal(t, "", c.Get(2))
	assert.False(t, c.IsNA(2)) // empty string is a value, not NA
	assert.Equal(t, "beta", c.Get(3))
}

func TestVoidColumnAllNA(t *testing.T) {
	c := NewVoid(4)
	assert.Equal(t, types.Void, c.SType())
	for i := 0; i < 4; i++ {
		assert.True(t, c.IsNA(i))
	}
	assert.Equal(t, 4, c.CountNA())
}

func TestBool8Column(t *testing.T) {
	c := FromBools([]bool{true, false})
	assert.Equal(t, types.Bool8, c.SType())
	assert.Equal(t, true, c.Get(0))
	assert.Equal(t, false, c.Get(1))
	v, ok := c.Int64At(0)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestSliceIsZeroCopyView(t *testing.T) {
	c := FromInt64s([]int64{10, 20, 30, 40, 50})
	ri, err := SliceRI(1, 3, 1)
	require.NoError(t, err)
	v := c.Slice(ri)
	assert.True(t, v.Virtual())
	assert.Equal(t, 3, v.NRows())
	assert.Equal(t, int64(20), v.Get(0))
	assert.Equal(t, int64(40), v.Get(2))
}

func TestSliceOfSliceCollapses(t *testing.T) {
	c := FromInt64s([]int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	outer, _ := SliceRI(2, 6, 1) // rows 2..7
	inner, _ := SliceRI(1, 3, 2) // of those: 3, 5, 7
	v := c.Slice(outer).Slice(inner)
	// The view of a view holds a single composed RowIndex over the base.
	assert.Equal(t, RISlice, v.ri.Kind())
	assert.Equal(t, int64(3), v.Get(0))
	assert.Equal(t, int64(5), v.Get(1))
	assert.Equal(t, int64(7), v.Get(2))
}

func TestArrayRowIndexView(t *testing.T) {
	c := FromStrings([]string{"a", "b", "c", "d"})
	ri, err := ArrayRI([]int64{3, 0, 3}, 4)
	require.NoError(t, err)
	v := c.Slice(ri)
	assert.Equal(t, "d", v.Get(0))
	assert.Equal(t, "a", v.Get(1))
	assert.Equal(t, "d", v.Get(2))
}

func TestArrayRIBoundsValidatedOnce(t *testing.T) {
	_, err := ArrayRI([]int64{0, 5}, 4)
	assert.Error(t, err)
	_, err = ArrayRI([]int64{-1}, 4)
	assert.Error(t, err)
}

func TestComposeIdentity(t *testing.T) {
	id := Identity(5)
	sl, _ := SliceRI(1, 3, 1)
	assert.Same(t, sl, Compose(Identity(3), sl))
	assert.Same(t, sl, Compose(sl, id))
}

func TestComposeSliceSlice(t *testing.T) {
	inner, _ := SliceRI(10, 20, 2) // i -> 10+2i
	outer, _ := SliceRI(3, 5, 1)   // j -> 3+j
	got := Compose(outer, inner)   // j -> 10+2(3+j) = 16+2j
	assert.Equal(t, RISlice, got.Kind())
	assert.Equal(t, 5, got.Len())
	assert.Equal(t, 16, got.At(0))
	assert.Equal(t, 24, got.At(4))
}

func TestComposeWithArrayResolves(t *testing.T) {
	inner, err := ArrayRI([]int64{5, 3, 1}, 6)
	require.NoError(t, err)
	outer, _ := SliceRI(0, 2, 2) // takes positions 0 and 2
	got := Compose(outer, inner)
	assert.Equal(t, RIArray, got.Kind())
	assert.Equal(t, 5, got.At(0))
	assert.Equal(t, 1, got.At(1))
}

func TestMaterializeIdempotent(t *testing.T) {
	c := FromInt64s([]int64{1, 2, 3})
	m, err := c.Materialize()
	require.NoError(t, err)
	assert.Same(t, c, m)
}

func TestMaterializeViewPreservesValues(t *testing.T) {
	c := FromAnys(types.Int32, []any{1, nil, 3, 4})
	ri, _ := SliceRI(3, 4, -1) // reversed
	v := c.Slice(ri)
	m, err := v.Materialize()
	require.NoError(t, err)
	assert.False(t, m.Virtual())
	assert.Equal(t, types.Int32, m.SType())
	assert.Equal(t, int64(4), m.Get(0))
	assert.Equal(t, int64(3), m.Get(1))
	assert.Nil(t, m.Get(2))
	assert.Equal(t, int64(1), m.Get(3))
	assert.True(t, v.Equal(m))
}

func TestMaterializeStringView(t *testing.T) {
	c := FromAnys(types.Str32, []any{"x", nil, "zz"})
	ri, err := ArrayRI([]int64{2, 1, 0, 2}, 3)
	require.NoError(t, err)
	m, err := c.Slice(ri).Materialize()
	require.NoError(t, err)
	assert.Equal(t, "zz", m.Get(0))
	assert.Nil(t, m.Get(1))
	assert.Equal(t, "x", m.Get(2))
	assert.Equal(t, "zz", m.Get(3))
}

func TestConstColumn(t *testing.T) {
	c := NewConst(types.Int64, int64(7), 3)
	assert.Equal(t, int64(7), c.Get(0))
	assert.Equal(t, int64(7), c.Get(2))

	na := NewConst(types.Float64, nil, 2)
	assert.True(t, na.IsNA(0))
	assert.True(t, na.IsNA(1))
}

func TestCopyOnWriteProtectsSiblings(t *testing.T) {
	base := FromInt64s([]int64{1, 2, 3, 4})
	ri, _ := SliceRI(0, 4, 1)
	view := base.Slice(ri)

	w, err := base.MaterializeForWrite()
	require.NoError(t, err)
	// The buffer was shared with the view, so the writable column got a copy.
	w.buf.i64[0] = 99
	assert.Equal(t, int64(1), view.Get(0))
	assert.Equal(t, int64(99), w.Get(0))
}

func TestMaterializeObservesInterrupt(t *testing.T) {
	defer parallel.ResetInterrupt()

	c := FromInt64s([]int64{1, 2, 3})
	ri, _ := SliceRI(2, 3, -1)
	parallel.Interrupt()

	_, err := c.Slice(ri).Materialize()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindCancelled))

	// The string path cancels too.
	s := FromStrings([]string{"a", "b", "c"})
	_, err = s.Slice(ri).Materialize()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindCancelled))

	parallel.ResetInterrupt()
	m, err := c.Slice(ri).Materialize()
	require.NoError(t, err)
	assert.Equal(t, int64(3), m.Get(0))
}

func TestCompareNAFirst(t *testing.T) {
	c := FromAnys(types.Int32, []any{5, nil, 2})
	assert.Equal(t, 1, c.Compare(0, 1))  // value > NA
	assert.Equal(t, -1, c.Compare(1, 2)) // NA < value
	assert.Equal(t, 0, c.Compare(1, 1))  // NA == NA for ordering
	assert.Equal(t, 1, c.Compare(0, 2))
}

func TestEqual(t *testing.T) {
	a := FromAnys(types.Int32, []any{1, nil, 3})
	b := FromAnys(types.Int32, []any{1, nil, 3})
	c := FromAnys(types.Int32, []any{1, 2, 3})
	d := FromAnys(types.Int64, []any{1, nil, 3})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d)) // stype differs
}
