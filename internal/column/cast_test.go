package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldframe/coldframe/internal/types"
)

func castTo(t *testing.T, c *Column, target types.SType) *Column {
	t.Helper()
	out, err := c.CastTo(target)
	require.NoError(t, err)
	return out
}

func TestCastIntToFloat(t *testing.T) {
	c := FromAnys(types.Int32, []any{1, nil, -3})
	f := castTo(t, c, types.Float64)
	assert.Equal(t, types.Float64, f.SType())
	assert.Equal(t, 1.0, f.Get(0))
	assert.Nil(t, f.Get(1))
	assert.Equal(t, -3.0, f.Get(2))
	// The source column is untouched.
	assert.Equal(t, types.Int32, c.SType())
}

func TestCastFloatToIntTruncatesTowardZero(t *testing.T) {
	c := FromFloat64s([]float64{1.9, -1.9, 0.5})
	i := castTo(t, c, types.Int64)
	assert.Equal(t, int64(1), i.Get(0))
	assert.Equal(t, int64(-1), i.Get(1))
	assert.Equal(t, int64(0), i.Get(2))
}

func TestCastToStrCanonicalText(t *testing.T) {
	c := FromAnys(types.Int64, []any{42, nil})
	s := castTo(t, c, types.Str32)
	assert.Equal(t, "42", s.Get(0))
	assert.Nil(t, s.Get(1))

	f := castTo(t, FromFloat64s([]float64{2.5}), types.Str32)
	assert.Equal(t, "2.5", f.Get(0))

	b := castTo(t, FromBools([]bool{true, false}), types.Str32)
	assert.Equal(t, "true", b.Get(0))
	assert.Equal(t, "false", b.Get(1))
}

func TestCastStrToNumericBestEffort(t *testing.T) {
	c := FromStrings([]string{"12", "3.5", "oops", ""})
	i := castTo(t, c, types.Int64)
	assert.Equal(t, int64(12), i.Get(0))
	assert.Equal(t, int64(3), i.Get(1)) // parsed as float, truncated
	assert.Nil(t, i.Get(2))             // malformed -> NA, not an error
	assert.Nil(t, i.Get(3))

	f := castTo(t, c, types.Float64)
	assert.Equal(t, 12.0, f.Get(0))
	assert.Equal(t, 3.5, f.Get(1))
	assert.Nil(t, f.Get(2))
}

func TestCastNAAlwaysMapsToNA(t *testing.T) {
	c := FromAnys(types.Int32, []any{nil, 1})
	for _, target := range []types.SType{types.Bool8, types.Int8, types.Int64, types.Float32, types.Float64, types.Str32, types.Obj64} {
		v := castTo(t, c, target)
		assert.True(t, v.IsNA(0), "cast to %s", target)
		assert.False(t, v.IsNA(1), "cast to %s", target)
	}
}

func TestCastToObjAlwaysPermitted(t *testing.T) {
	c := FromStrings([]string{"x"})
	o := castTo(t, c, types.Obj64)
	assert.Equal(t, types.Obj64, o.SType())
	assert.Equal(t, "x", o.Get(0))
}

func TestCastSameTypeIsNoop(t *testing.T) {
	c := FromInt64s([]int64{1})
	assert.Same(t, c, castTo(t, c, types.Int64))
}

func TestCastOfViewMaterializesFirst(t *testing.T) {
	c := FromInt64s([]int64{10, 20, 30})
	ri, _ := SliceRI(2, 3, -1)
	v := castTo(t, c.Slice(ri), types.Float64)
	assert.Equal(t, 30.0, v.Get(0))
	assert.Equal(t, 10.0, v.Get(2))
	m, err := v.Materialize()
	require.NoError(t, err)
	assert.True(t, v.Equal(m))
}

func TestCastDateToTimestampConvertsUnits(t *testing.T) {
	d := FromAnys(types.Date32, []any{1, -1, nil})
	ts := castTo(t, d, types.Time64)
	assert.Equal(t, types.Time64, ts.SType())
	assert.Equal(t, int64(86_400_000_000), ts.Get(0))
	assert.Equal(t, int64(-86_400_000_000), ts.Get(1))
	assert.Nil(t, ts.Get(2))

	back := castTo(t, ts, types.Date32)
	assert.Equal(t, int64(1), back.Get(0))
	assert.Equal(t, int64(-1), back.Get(1))
}

func TestCastTimestampToDateFloorsPartialDays(t *testing.T) {
	ts := FromAnys(types.Time64, []any{int64(90_000_000_000), int64(-1), int64(0)})
	days := castTo(t, ts, types.Date32)
	assert.Equal(t, int64(1), days.Get(0))
	assert.Equal(t, int64(-1), days.Get(1)) // just before the epoch is the prior day
	assert.Equal(t, int64(0), days.Get(2))
}

func TestCastBoolRoundTrip(t *testing.T) {
	c := FromAnys(types.Bool8, []any{true, false, nil})
	i := castTo(t, c, types.Int8)
	assert.Equal(t, int64(1), i.Get(0))
	assert.Equal(t, int64(0), i.Get(1))
	assert.Nil(t, i.Get(2))

	back, err := castTo(t, i, types.Bool8).Materialize()
	require.NoError(t, err)
	assert.True(t, c.Equal(back))
}
