package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/types"
)

func TestOrderAscending(t *testing.T) {
	c := column.FromInt64s([]int64{3, 1, 2})
	perm, err := Order([]Key{{Col: c}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 0}, perm)
}

func TestOrderDescending(t *testing.T) {
	c := column.FromInt64s([]int64{3, 1, 2})
	perm, err := Order([]Key{{Col: c, Descending: true}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 1}, perm)
}

func TestNAFirstAscendingLastDescending(t *testing.T) {
	c := column.FromAnys(types.Int32, []any{2, nil, 1})

	perm, err := Order([]Key{{Col: c}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 0}, perm)

	perm, err = Order([]Key{{Col: c, Descending: true}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 1}, perm)
}

func TestNAPositionOverride(t *testing.T) {
	c := column.FromAnys(types.Int32, []any{2, nil, 1})

	perm, err := Order([]Key{{Col: c, Descending: true}}, NAFirst)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0, 2}, perm)

	perm, err = Order([]Key{{Col: c}}, NALast)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0, 1}, perm)
}

func TestStability(t *testing.T) {
	// Equal keys keep their relative input order, ascending and descending.
	c := column.FromInt64s([]int64{1, 2, 1, 2, 1})
	perm, err := Order([]Key{{Col: c}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 4, 1, 3}, perm)

	perm, err = Order([]Key{{Col: c, Descending: true}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 0, 2, 4}, perm)
}

func TestMultiKeyLexicographic(t *testing.T) {
	a := column.FromStrings([]string{"b", "a", "b", "a"})
	b := column.FromInt64s([]int64{1, 2, 0, 1})
	perm, err := Order([]Key{{Col: a}, {Col: b}}, NADefault)
	require.NoError(t, err)
	// a asc, ties broken by b asc: (a,1)@3 (a,2)@1 (b,0)@2 (b,1)@0
	assert.Equal(t, []int64{3, 1, 2, 0}, perm)
}

func TestSecondaryKeyDescending(t *testing.T) {
	a := column.FromInt64s([]int64{1, 1, 2})
	b := column.FromInt64s([]int64{5, 9, 1})
	perm, err := Order([]Key{{Col: a}, {Col: b, Descending: true}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0, 2}, perm)
}

func TestCountingSortPathInt8(t *testing.T) {
	c := column.FromInt8s([]int8{5, -3, types.NAInt8, 0, 5, -3})
	perm, err := Order([]Key{{Col: c}}, NADefault)
	require.NoError(t, err)
	// NA first, then -3 (rows 1,5 stable), 0, then 5 (rows 0,4 stable).
	assert.Equal(t, []int64{2, 1, 5, 3, 0, 4}, perm)

	perm, err = Order([]Key{{Col: c, Descending: true}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 4, 3, 1, 5, 2}, perm)
}

func TestCountingSortMatchesComparisonSort(t *testing.T) {
	vals := []int8{7, -2, 7, types.NAInt8, 0, -2, 100, -100}
	small := column.FromInt8s(vals)
	wide, err := small.CastTo(types.Int64)
	require.NoError(t, err)

	fast, err := Order([]Key{{Col: small}}, NADefault)
	require.NoError(t, err)
	slow, err := Order([]Key{{Col: wide}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, slow, fast)
}

func TestOrderGroups(t *testing.T) {
	c := column.FromStrings([]string{"y", "x", "y", "x", "z"})
	perm, offsets, err := OrderGroups([]Key{{Col: c}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 0, 2, 4}, perm)
	assert.Equal(t, []int64{0, 2, 4, 5}, offsets)
}

func TestGroupsTreatNAAsOneGroup(t *testing.T) {
	c := column.FromAnys(types.Int32, []any{nil, 1, nil, 1})
	perm, offsets, err := OrderGroups([]Key{{Col: c}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 1, 3}, perm)
	assert.Equal(t, []int64{0, 2, 4}, offsets)
}

func TestSortObjColumnIsTypeError(t *testing.T) {
	c := column.FromObjects([]any{struct{}{}, struct{}{}})
	_, err := Order([]Key{{Col: c}}, NADefault)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "obj64")
}

func TestSortViewColumn(t *testing.T) {
	base := column.FromInt64s([]int64{9, 3, 7, 1})
	ri, err := column.ArrayRI([]int64{3, 2, 1, 0}, 4)
	require.NoError(t, err)
	v := base.Slice(ri) // 1, 7, 3, 9
	perm, err := Order([]Key{{Col: v}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 1, 3}, perm)
}

func TestFloatSortWithNA(t *testing.T) {
	c := column.FromAnys(types.Float64, []any{2.5, nil, -1.0, 0.0})
	perm, err := Order([]Key{{Col: c}}, NADefault)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 0}, perm)
}
