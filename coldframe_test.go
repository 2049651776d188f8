package coldframe_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldframe/coldframe"
)

func sample(t *testing.T) *coldframe.Frame {
	t.Helper()
	f, err := coldframe.NewFrame(
		coldframe.Strings("city", "oslo", "bergen", "oslo", "tromso"),
		coldframe.Ints("pop", 700, 280, 710, 75),
		coldframe.Floats("temp", 5.5, 7.5, 6.0, -1.0),
	)
	require.NoError(t, err)
	return f
}

func TestFrameBasics(t *testing.T) {
	f := sample(t)
	assert.Equal(t, 4, f.NRows())
	assert.Equal(t, 3, f.NCols())
	assert.Equal(t, []string{"city", "pop", "temp"}, f.Names())
	assert.Equal(t,
		[]coldframe.SType{coldframe.Str32, coldframe.Int64, coldframe.Float64},
		f.STypes())

	v, err := f.Get(1, "city")
	require.NoError(t, err)
	assert.Equal(t, "bergen", v)
}

func TestSelectAndSlice(t *testing.T) {
	f := sample(t)
	sel, err := f.Select("pop")
	require.NoError(t, err)
	assert.Equal(t, []string{"pop"}, sel.Names())

	sl, err := f.Slice(1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, sl.NRows())
	v, err := sl.Get(0, "city")
	require.NoError(t, err)
	assert.Equal(t, "bergen", v)
}

func TestFilterByMask(t *testing.T) {
	f, err := coldframe.NewFrame(
		coldframe.Ints("x", 1, 2, 3),
		coldframe.Bools("big", false, true, true),
	)
	require.NoError(t, err)
	got, err := f.Filter("big")
	require.NoError(t, err)
	assert.Equal(t, 2, got.NRows())
	v, _ := got.Get(0, "x")
	assert.Equal(t, int64(2), v)
}

func TestSortByDescending(t *testing.T) {
	f := sample(t)
	got, err := f.SortBy([]string{"pop"}, []bool{true}, coldframe.NADefault)
	require.NoError(t, err)
	v, _ := got.Get(0, "city")
	assert.Equal(t, "oslo", v)
	v, _ = got.Get(3, "city")
	assert.Equal(t, "tromso", v)
}

func TestGroupbySelectKeyDuplicatesName(t *testing.T) {
	f, err := coldframe.NewFrame(coldframe.Ints("A", 1, 2, 1))
	require.NoError(t, err)
	g, err := f.GroupBy("A")
	require.NoError(t, err)
	out, err := g.Agg(coldframe.First("A"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "A.0"}, out.Names())
	assert.Equal(t, [][]any{{int64(1), int64(2)}, {int64(1), int64(2)}}, out.ToLists())
}

func TestGroupbyAggregation(t *testing.T) {
	f := sample(t)
	g, err := f.GroupBy("city")
	require.NoError(t, err)
	out, err := g.Agg(coldframe.Count(), coldframe.Sum("pop").As("total"))
	require.NoError(t, err)

	assert.Equal(t, 3, out.NRows())
	assert.Equal(t, []string{"city", "count", "total"}, out.Names())
}

func TestCastColumn(t *testing.T) {
	f := sample(t)
	got, err := f.Cast("pop", coldframe.Float64)
	require.NoError(t, err)
	st, err := got.ColSType("pop")
	require.NoError(t, err)
	assert.Equal(t, coldframe.Float64, st)
	v, _ := got.Get(0, "pop")
	assert.Equal(t, 700.0, v)
}

func TestKeyLifecycle(t *testing.T) {
	f := sample(t)
	err := f.SetKey("city")
	require.Error(t, err) // "oslo" appears twice
	assert.True(t, coldframe.IsValueError(err))

	require.NoError(t, f.SetKey("pop"))
	assert.Equal(t, []string{"pop"}, f.Key())
	assert.Equal(t, []string{"pop", "city", "temp"}, f.Names())
}

func TestRbindAndCbind(t *testing.T) {
	a, err := coldframe.NewFrame(coldframe.Ints("x", 1))
	require.NoError(t, err)
	b, err := coldframe.NewFrame(coldframe.Floats("x", 2.5))
	require.NoError(t, err)
	rb, err := a.Rbind(b)
	require.NoError(t, err)
	assert.Equal(t, 2, rb.NRows())
	st, _ := rb.ColSType("x")
	assert.Equal(t, coldframe.Float64, st)

	c, err := coldframe.NewFrame(coldframe.Strings("y", "k"))
	require.NoError(t, err)
	cb, err := a.Cbind(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, cb.Names())
}

func TestSetOpsFacade(t *testing.T) {
	a, err := coldframe.NewFrame(coldframe.Ints("x", 1, 2, 2))
	require.NoError(t, err)
	b, err := coldframe.NewFrame(coldframe.Ints("x", 2, 3))
	require.NoError(t, err)

	u, err := coldframe.Union(a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, u.NRows())

	i, err := coldframe.Intersect(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, i.NRows())

	d, err := coldframe.SetDiff(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, d.NRows())

	s, err := coldframe.SymDiff(a, a)
	require.NoError(t, err)
	assert.Equal(t, 0, s.NRows())
}

func TestSnapshotFacadeRoundTrip(t *testing.T) {
	f := sample(t)
	require.NoError(t, f.SetKey("pop"))

	var buf bytes.Buffer
	require.NoError(t, f.Save(&buf))
	back, err := coldframe.Open(&buf)
	require.NoError(t, err)
	assert.True(t, f.Equal(back))
	assert.Equal(t, []string{"pop"}, back.Key())
}

func TestQCutFacade(t *testing.T) {
	f, err := coldframe.NewFrame(coldframe.Ints("x", 9, 3, 7, 1))
	require.NoError(t, err)
	out, err := f.QCut([]string{"x"}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1), int64(0), int64(1), int64(0)}}, out.ToLists())
}

func TestQCutInGroupbyNotImplemented(t *testing.T) {
	f, err := coldframe.NewFrame(coldframe.Ints("x", 1, 2))
	require.NoError(t, err)
	g, err := f.GroupBy("x")
	require.NoError(t, err)
	_, err = g.QCut(nil, nil)
	require.Error(t, err)
	assert.True(t, coldframe.IsNotImplemented(err))
}

func TestReduceGlobal(t *testing.T) {
	f, err := coldframe.NewFrame(coldframe.Ints("x", 1, 2, 3, 4))
	require.NoError(t, err)
	out, err := f.Reduce(coldframe.Mean("x"), coldframe.Median("x").As("med"))
	require.NoError(t, err)
	v, _ := out.Get(0, "x")
	assert.Equal(t, 2.5, v)
	v, _ = out.Get(0, "med")
	assert.Equal(t, 2.5, v)
}

func TestCancelStopsEngineWork(t *testing.T) {
	defer coldframe.ResetCancel()

	f := sample(t)
	g, err := f.GroupBy("city")
	require.NoError(t, err)

	coldframe.Cancel()
	_, err = g.Agg(coldframe.Count())
	require.Error(t, err)
	assert.True(t, coldframe.IsCancelled(err))

	coldframe.ResetCancel()
	out, err := g.Agg(coldframe.Count())
	require.NoError(t, err)
	assert.Equal(t, 3, out.NRows())
}

func TestErrorPredicates(t *testing.T) {
	f, err := coldframe.NewFrame(coldframe.Strings("s", "a"))
	require.NoError(t, err)
	_, err = f.Reduce(coldframe.Sum("s"))
	require.Error(t, err)
	assert.True(t, coldframe.IsTypeError(err))
	assert.False(t, coldframe.IsValueError(err))
}
