package groupby

import (
	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/parallel"
	"github.com/coldframe/coldframe/internal/sorting"
	"github.com/coldframe/coldframe/internal/types"
)

// Window describes a row-wise operation evaluated within each group,
// producing one output value per input row with row order preserved.
type Window struct {
	op      string
	col     string
	value   any
	reverse bool
	name    string
}

// CumSum is the running sum; NA inputs stay NA and leave the total alone.
func CumSum(col string) Window { return Window{op: "cumsum", col: col} }

// CumProd is the running product; NA inputs stay NA and leave it alone.
func CumProd(col string) Window { return Window{op: "cumprod", col: col} }

// CumMin is the running minimum.
func CumMin(col string) Window { return Window{op: "cummin", col: col} }

// CumMax is the running maximum.
func CumMax(col string) Window { return Window{op: "cummax", col: col} }

// FillNAOptions selects the fill strategy. Value and Reverse are mutually
// exclusive.
type FillNAOptions struct {
	// Value replaces every NA with a constant.
	Value any
	// Reverse fills from the next non-NA value instead of the previous one.
	Reverse bool
}

// FillNA replaces NA values within each group. The default fills forward
// from the previous non-NA value.
func FillNA(col string, opts FillNAOptions) Window {
	return Window{op: "fillna", col: col, value: opts.Value, reverse: opts.Reverse}
}

// As overrides the output column name.
func (w Window) As(name string) Window {
	w.name = name
	return w
}

func (w Window) outName() string {
	if w.name != "" {
		return w.name
	}
	return w.col
}

// windowFn fills out[i] for each position i of the group's rows.
type windowFn func(rows []int64, out []any)

func (w Window) bind(f *frame.Frame) (windowFn, types.SType, error) {
	if w.op == "fillna" {
		if w.value != nil && w.reverse {
			return nil, 0, errors.NewValueError("fillna", w.col,
				"value and reverse fills are mutually exclusive")
		}
		c, err := f.Col(w.col)
		if err != nil {
			return nil, 0, err
		}
		return func(rows []int64, out []any) {
			if w.value != nil {
				for i, row := range rows {
					if v := c.Get(int(row)); v != nil {
						out[i] = v
					} else {
						out[i] = w.value
					}
				}
				return
			}
			if w.reverse {
				var carry any
				for i := len(rows) - 1; i >= 0; i-- {
					if v := c.Get(int(rows[i])); v != nil {
						carry = v
					}
					out[i] = carry
				}
				return
			}
			var carry any
			for i, row := range rows {
				if v := c.Get(int(row)); v != nil {
					carry = v
				}
				out[i] = carry
			}
		}, c.SType(), nil
	}

	c, err := requireNumeric(f, w.op, w.col)
	if err != nil {
		return nil, 0, err
	}
	isFloat := c.SType().IsFloat()

	switch w.op {
	case "cumsum", "cumprod":
		identity := int64(0)
		fidentity := 0.0
		if w.op == "cumprod" {
			identity, fidentity = 1, 1.0
		}
		mul := w.op == "cumprod"
		if isFloat {
			return func(rows []int64, out []any) {
				acc := fidentity
				for i, row := range rows {
					v, ok := c.Float64At(int(row))
					if !ok {
						out[i] = nil
						continue
					}
					if mul {
						acc *= v
					} else {
						acc += v
					}
					out[i] = acc
				}
			}, types.Float64, nil
		}
		return func(rows []int64, out []any) {
			acc := identity
			for i, row := range rows {
				v, ok := c.Int64At(int(row))
				if !ok {
					out[i] = nil
					continue
				}
				if mul {
					acc *= v
				} else {
					acc += v
				}
				out[i] = acc
			}
		}, types.Int64, nil

	case "cummin", "cummax":
		wantMax := w.op == "cummax"
		return func(rows []int64, out []any) {
			bestRow := int64(-1)
			var bestV float64
			for i, row := range rows {
				v, ok := c.Float64At(int(row))
				if !ok {
					out[i] = nil
					continue
				}
				if bestRow < 0 || (wantMax && v > bestV) || (!wantMax && v < bestV) {
					bestRow, bestV = row, v
				}
				out[i] = c.Get(int(bestRow))
			}
		}, c.SType(), nil

	default:
		return nil, 0, errors.NewNotImplementedError("groupby",
			"unknown window operation %q", w.op)
	}
}

// Cumulate evaluates the window operations and returns a frame in grouped
// row order: key columns first, then one column per operation, one output
// row per input row.
func (g *GroupBy) Cumulate(ops ...Window) (*frame.Frame, error) {
	permRI, err := column.ArrayRI(g.perm, g.f.NRows())
	if err != nil {
		return nil, err
	}
	var pairs []frame.NamedColumn
	for _, name := range g.keys {
		src, err := g.f.Col(name)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, frame.NamedColumn{Name: name, Col: src.Slice(permRI)})
	}

	pool := parallel.Shared()
	ngroups := g.NGroups()
	for _, w := range ops {
		fn, outST, err := w.bind(g.f)
		if err != nil {
			return nil, err
		}
		vals := make([]any, len(g.perm))
		err = pool.Range(w.op, ngroups, 1, func(start, end int) {
			for gi := start; gi < end; gi++ {
				fn(g.groupRows(gi), vals[g.offsets[gi]:g.offsets[gi+1]])
			}
		})
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, frame.NamedColumn{Name: w.outName(), Col: column.FromAnys(outST, vals)})
	}
	return frame.New(pairs...)
}

// QCut on a grouped frame is not a supported combination.
func (g *GroupBy) QCut(cols []string, nquantiles []int) (*frame.Frame, error) {
	return nil, errors.NewNotImplementedError("qcut",
		"qcut inside a groupby is not supported")
}

// DefaultQuantiles is the bin count qcut uses when none is given.
const DefaultQuantiles = 10

// QCut bins each column's non-NA values into equal-population quantile bins
// labeled 0..nquantiles-1 (int32), NA staying NA. Ties on a bin boundary
// resolve by stable rank: equal values fall into bins in row order.
// nquantiles is either empty (default for every column), a single count
// applied to all, or one count per column.
func QCut(f *frame.Frame, cols []string, nquantiles []int) (*frame.Frame, error) {
	if len(cols) == 0 {
		cols = f.Names()
	}
	nq := make([]int, len(cols))
	switch len(nquantiles) {
	case 0:
		for i := range nq {
			nq[i] = DefaultQuantiles
		}
	case 1:
		for i := range nq {
			nq[i] = nquantiles[0]
		}
	case len(cols):
		copy(nq, nquantiles)
	default:
		return nil, errors.NewShapeError("qcut",
			"%d quantile specs for %d columns", len(nquantiles), len(cols))
	}

	var pairs []frame.NamedColumn
	for i, name := range cols {
		if nq[i] < 1 {
			return nil, errors.NewValueError("qcut", name,
				"nquantiles must be positive, got %d", nq[i])
		}
		c, err := f.Col(name)
		if err != nil {
			return nil, err
		}
		binned, err := qcutColumn(c, nq[i])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, frame.NamedColumn{Name: name, Col: binned})
	}
	return frame.New(pairs...)
}

func qcutColumn(c *column.Column, nq int) (*column.Column, error) {
	perm, err := sorting.Order([]sorting.Key{{Col: c}}, sorting.NAFirst)
	if err != nil {
		return nil, err
	}
	nNonNA := c.NRows() - c.CountNA()
	vals := make([]any, c.NRows())
	rank := 0
	for _, row := range perm {
		if c.IsNA(int(row)) {
			continue
		}
		vals[int(row)] = int64(rank * nq / nNonNA)
		rank++
	}
	return column.FromAnys(types.Int32, vals), nil
}
