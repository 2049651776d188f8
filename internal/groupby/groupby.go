// Package groupby partitions a frame's rows by one or more key columns and
// evaluates reducers per group, or globally when no keys are given. Group
// boundaries come from the sorting package; evaluation runs one group per
// work item on the worker pool, with results written by group index so the
// output is deterministic for any thread count.
package groupby

import (
	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/parallel"
	"github.com/coldframe/coldframe/internal/sorting"
	"github.com/coldframe/coldframe/internal/types"
)

// GroupBy holds the grouping of one frame: the sort permutation and the
// group cut points (offsets has len ngroups+1). It is valid only as long as
// the source frame is unchanged.
type GroupBy struct {
	f       *frame.Frame
	keys    []string
	perm    []int64
	offsets []int64
}

// By groups the frame by the named key columns. With no keys the whole frame
// forms a single group and reducers evaluate globally.
func By(f *frame.Frame, keys ...string) (*GroupBy, error) {
	g := &GroupBy{f: f, keys: append([]string(nil), keys...)}
	if len(keys) == 0 {
		n := f.NRows()
		g.perm = make([]int64, n)
		for i := range g.perm {
			g.perm[i] = int64(i)
		}
		g.offsets = []int64{0, int64(n)}
		return g, nil
	}
	sortKeys := make([]sorting.Key, len(keys))
	for i, name := range keys {
		c, err := f.Col(name)
		if err != nil {
			return nil, err
		}
		sortKeys[i] = sorting.Key{Col: c}
	}
	perm, offsets, err := sorting.OrderGroups(sortKeys, sorting.NADefault)
	if err != nil {
		return nil, err
	}
	g.perm, g.offsets = perm, offsets
	return g, nil
}

// NGroups returns the number of groups.
func (g *GroupBy) NGroups() int { return len(g.offsets) - 1 }

// groupRows returns the permuted row positions of group i.
func (g *GroupBy) groupRows(i int) []int64 {
	return g.perm[g.offsets[i]:g.offsets[i+1]]
}

// Agg evaluates the reducers and returns one row per group: key columns
// first, then one column per reducer. Colliding output names are
// auto-suffixed as in frame construction. The result is keyed by the
// grouping columns, whose tuples are unique per group by construction.
func (g *GroupBy) Agg(aggs ...Reducer) (*frame.Frame, error) {
	var pairs []frame.NamedColumn
	var firsts []int64
	if len(g.keys) > 0 {
		firsts = make([]int64, g.NGroups())
		for i := range firsts {
			firsts[i] = g.perm[g.offsets[i]]
		}
	}
	for _, name := range g.keys {
		src, err := g.f.Col(name)
		if err != nil {
			return nil, err
		}
		ri, err := column.ArrayRI(firsts, g.f.NRows())
		if err != nil {
			return nil, err
		}
		keyCol, err := src.Slice(ri).Materialize()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, frame.NamedColumn{Name: name, Col: keyCol})
	}

	pool := parallel.Shared()
	for _, agg := range aggs {
		col, err := g.evalReducer(pool, agg)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, frame.NamedColumn{Name: agg.outName(), Col: col})
	}

	out, err := frame.New(pairs...)
	if err != nil {
		return nil, err
	}
	if len(g.keys) > 0 {
		// The key tuples are unique per group, so this cannot fail.
		if err := out.SetKey(g.keys...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// evalReducer computes one output value per group, in group index order.
func (g *GroupBy) evalReducer(pool *parallel.Pool, agg Reducer) (*column.Column, error) {
	fn, outST, err := agg.bind(g.f)
	if err != nil {
		return nil, err
	}
	groups := make([][]int64, g.NGroups())
	for i := range groups {
		groups[i] = g.groupRows(i)
	}
	vals, err := parallel.ProcessIndexed(pool, groups, func(_ int, rows []int64) any {
		return fn(rows)
	})
	if err != nil {
		return nil, err
	}
	return column.FromAnys(outST, vals), nil
}

// Reduce evaluates reducers over the whole frame as a single group,
// returning a 1-row frame.
func Reduce(f *frame.Frame, aggs ...Reducer) (*frame.Frame, error) {
	g, err := By(f)
	if err != nil {
		return nil, err
	}
	return g.Agg(aggs...)
}

// requireNumeric rejects non-numeric columns for arithmetic reducers, naming
// the reducer and the offending column type.
func requireNumeric(f *frame.Frame, op, name string) (*column.Column, error) {
	c, err := f.Col(name)
	if err != nil {
		return nil, err
	}
	if !c.SType().IsNumeric() {
		return nil, errors.NewTypeError(op, name,
			"reducer %s requires a numeric column, got %s", op, c.SType())
	}
	return c, nil
}

// meanSType follows the source float width; everything else widens to
// float64.
func meanSType(st types.SType) types.SType {
	if st == types.Float32 {
		return types.Float32
	}
	return types.Float64
}
