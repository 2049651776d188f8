package groupby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/types"
)

func TestFillNAForwardAndReverse(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "x", Col: column.FromAnys(types.Int32, []any{nil, 3, nil, 4})},
	)
	g, err := By(f)
	require.NoError(t, err)

	out, err := g.Cumulate(FillNA("x", FillNAOptions{}))
	require.NoError(t, err)
	assert.Equal(t, []any{nil, int64(3), int64(3), int64(4)}, colValues(t, out, "x"))

	out, err = g.Cumulate(FillNA("x", FillNAOptions{Reverse: true}))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(3), int64(3), int64(4), int64(4)}, colValues(t, out, "x"))
}

func TestFillNAWithValue(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "x", Col: column.FromAnys(types.Int32, []any{nil, 3, nil})},
	)
	g, err := By(f)
	require.NoError(t, err)
	out, err := g.Cumulate(FillNA("x", FillNAOptions{Value: int64(-1)}))
	require.NoError(t, err)
	assert.Equal(t, []any{int64(-1), int64(3), int64(-1)}, colValues(t, out, "x"))
}

func TestFillNAValueAndReverseExclusive(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "x", Col: column.FromAnys(types.Int32, []any{nil})},
	)
	g, err := By(f)
	require.NoError(t, err)
	_, err = g.Cumulate(FillNA("x", FillNAOptions{Value: int64(0), Reverse: true}))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValue))
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestFillNAKeepsSourceSType(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "s", Col: column.FromAnys(types.Str32, []any{nil, "b", nil})},
	)
	g, err := By(f)
	require.NoError(t, err)
	out, err := g.Cumulate(FillNA("s", FillNAOptions{}))
	require.NoError(t, err)
	c, _ := out.Col("s")
	assert.Equal(t, types.Str32, c.SType())
	assert.Equal(t, []any{nil, "b", "b"}, colValues(t, out, "s"))
}

func TestCumulativeOpsWithinGroups(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "g", Col: column.FromStrings([]string{"b", "a", "b", "a"})},
		frame.NamedColumn{Name: "v", Col: column.FromAnys(types.Int64, []any{1, 10, nil, 20})},
	)
	g, err := By(f, "g")
	require.NoError(t, err)
	out, err := g.Cumulate(CumSum("v").As("cs"), CumMax("v").As("cm"))
	require.NoError(t, err)

	// Rows come out in grouped order: group "a" rows first, then "b".
	assert.Equal(t, []any{"a", "a", "b", "b"}, colValues(t, out, "g"))
	assert.Equal(t, []any{int64(10), int64(30), int64(1), nil}, colValues(t, out, "cs"))
	assert.Equal(t, []any{int64(10), int64(20), int64(1), nil}, colValues(t, out, "cm"))
}

func TestCumProdFloat(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "v", Col: column.FromFloat64s([]float64{2, 3, 4})},
	)
	g, err := By(f)
	require.NoError(t, err)
	out, err := g.Cumulate(CumProd("v"))
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 6.0, 24.0}, colValues(t, out, "v"))
}

func TestQCutIdentityOnUniqueRanks(t *testing.T) {
	vals := make([]int64, 10)
	for i := range vals {
		vals[i] = int64(i)
	}
	f := mustFrame(t,
		frame.NamedColumn{Name: "x", Col: column.FromInt64s(vals)},
	)
	out, err := QCut(f, nil, nil)
	require.NoError(t, err)
	c, _ := out.Col("x")
	assert.Equal(t, types.Int32, c.SType())
	for i := 0; i < 10; i++ {
		assert.Equal(t, int64(i), c.Get(i))
	}
}

func TestQCutKeepsNAAndBinsEqually(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "x", Col: column.FromAnys(types.Float64, []any{4.0, nil, 1.0, 3.0, 2.0})},
	)
	out, err := QCut(f, []string{"x"}, []int{2})
	require.NoError(t, err)
	c, _ := out.Col("x")
	assert.Equal(t, int64(1), c.Get(0)) // 4.0 is in the upper half
	assert.Nil(t, c.Get(1))
	assert.Equal(t, int64(0), c.Get(2))
	assert.Equal(t, int64(1), c.Get(3))
	assert.Equal(t, int64(0), c.Get(4))
}

func TestQCutQuantileSpecArity(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "a", Col: column.FromInt64s([]int64{1})},
		frame.NamedColumn{Name: "b", Col: column.FromInt64s([]int64{1})},
	)
	_, err := QCut(f, []string{"a", "b"}, []int{2, 3, 4})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindShape))
}

func TestQCutInsideGroupbyUnsupported(t *testing.T) {
	f := mustFrame(t,
		frame.NamedColumn{Name: "g", Col: column.FromInt64s([]int64{1, 2})},
	)
	g, err := By(f, "g")
	require.NoError(t, err)
	_, err = g.QCut([]string{"g"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindNotImplemented))
}
