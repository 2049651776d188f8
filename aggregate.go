package coldframe

import (
	"github.com/coldframe/coldframe/internal/groupby"
)

// Reducer describes one aggregate evaluated per group. Rename its output
// column with As.
type Reducer = groupby.Reducer

// Window describes a row-wise operation evaluated within each group.
type Window = groupby.Window

// FillNAOptions selects the fillna strategy; Value and Reverse are mutually
// exclusive.
type FillNAOptions = groupby.FillNAOptions

// Reducer constructors.

// Count counts all rows in the group, NAs included.
func Count() Reducer { return groupby.Count() }

// CountOf counts the non-NA values of the column.
func CountOf(col string) Reducer { return groupby.CountOf(col) }

// Sum adds the non-NA values; an empty or all-NA group yields 0.
func Sum(col string) Reducer { return groupby.Sum(col) }

// Mean averages the non-NA values; an empty or all-NA group yields NA.
func Mean(col string) Reducer { return groupby.Mean(col) }

// Min returns the smallest non-NA value, NA when there is none.
func Min(col string) Reducer { return groupby.Min(col) }

// Max returns the largest non-NA value, NA when there is none.
func Max(col string) Reducer { return groupby.Max(col) }

// Median returns the middle order statistic, averaging the two middle
// values for even counts without narrow-integer overflow.
func Median(col string) Reducer { return groupby.Median(col) }

// SD returns the sample standard deviation, NA below 2 non-NA values.
func SD(col string) Reducer { return groupby.SD(col) }

// Prod multiplies the non-NA values; an empty or all-NA group yields 1.
func Prod(col string) Reducer { return groupby.Prod(col) }

// Cov returns the sample covariance of two columns.
func Cov(a, b string) Reducer { return groupby.Cov(a, b) }

// Corr returns the Pearson correlation of two columns; zero variance on
// either side yields NA.
func Corr(a, b string) Reducer { return groupby.Corr(a, b) }

// First returns the group's first value in row order.
func First(col string) Reducer { return groupby.First(col) }

// Last returns the group's last value in row order.
func Last(col string) Reducer { return groupby.Last(col) }

// Nth returns the value at position n within the group; negative n counts
// from the end, out-of-range n yields NA.
func Nth(col string, n int) Reducer { return groupby.Nth(col, n) }

// NthSkipNA is Nth counting only non-NA values toward the position.
func NthSkipNA(col string, n int) Reducer { return groupby.NthSkipNA(col, n) }

// Window constructors.

// CumSum is the per-group running sum.
func CumSum(col string) Window { return groupby.CumSum(col) }

// CumProd is the per-group running product.
func CumProd(col string) Window { return groupby.CumProd(col) }

// CumMin is the per-group running minimum.
func CumMin(col string) Window { return groupby.CumMin(col) }

// CumMax is the per-group running maximum.
func CumMax(col string) Window { return groupby.CumMax(col) }

// FillNA replaces NA values within each group; the default fills forward.
func FillNA(col string, opts FillNAOptions) Window { return groupby.FillNA(col, opts) }

// GroupBy is the public type for grouped evaluation.
type GroupBy struct {
	gb *groupby.GroupBy
}

// GroupBy partitions the frame's rows by the named key columns. With no
// keys the whole frame forms a single group.
func (d *Frame) GroupBy(keys ...string) (*GroupBy, error) {
	gb, err := groupby.By(d.f, keys...)
	if err != nil {
		return nil, err
	}
	return &GroupBy{gb: gb}, nil
}

// NGroups returns the number of groups.
func (g *GroupBy) NGroups() int { return g.gb.NGroups() }

// Agg evaluates the reducers, one output row per group: key columns first,
// then one column per reducer. The result is keyed by the grouping columns.
func (g *GroupBy) Agg(aggs ...Reducer) (*Frame, error) {
	out, err := g.gb.Agg(aggs...)
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// Cumulate evaluates the window operations, one output row per input row in
// grouped order.
func (g *GroupBy) Cumulate(ops ...Window) (*Frame, error) {
	out, err := g.gb.Cumulate(ops...)
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// QCut inside a groupby is not a supported combination and always returns a
// not-implemented error.
func (g *GroupBy) QCut(cols []string, nquantiles []int) (*Frame, error) {
	_, err := g.gb.QCut(cols, nquantiles)
	return nil, err
}

// Reduce evaluates reducers over the whole frame as a single group,
// returning a 1-row frame.
func (d *Frame) Reduce(aggs ...Reducer) (*Frame, error) {
	out, err := groupby.Reduce(d.f, aggs...)
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// QCut bins each named column's non-NA values into equal-population
// quantile bins labeled 0..n-1 (int32), NA staying NA. nquantiles is empty
// for the default, one count for all columns, or one count per column.
// QCut is not supported inside a groupby.
func (d *Frame) QCut(cols []string, nquantiles []int) (*Frame, error) {
	out, err := groupby.QCut(d.f, cols, nquantiles)
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}
