package groupby

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/types"
)

// Reducer describes one aggregate to evaluate per group. Build one with the
// constructor for the operation and optionally rename its output with As.
type Reducer struct {
	op     string
	col    string
	col2   string
	n      int
	skipNA bool
	name   string
}

// Count counts all rows in the group, NAs included.
func Count() Reducer { return Reducer{op: "count"} }

// CountOf counts the non-NA values of the column.
func CountOf(col string) Reducer { return Reducer{op: "countof", col: col} }

// Sum adds the non-NA values; an empty or all-NA group yields 0.
func Sum(col string) Reducer { return Reducer{op: "sum", col: col} }

// Mean averages the non-NA values; an empty or all-NA group yields NA.
func Mean(col string) Reducer { return Reducer{op: "mean", col: col} }

// Min returns the smallest non-NA value, NA when there is none.
func Min(col string) Reducer { return Reducer{op: "min", col: col} }

// Max returns the largest non-NA value, NA when there is none.
func Max(col string) Reducer { return Reducer{op: "max", col: col} }

// Median returns the middle order statistic; for an even non-NA count, the
// mean of the two middle values. Integer inputs are widened before the
// averaging step.
func Median(col string) Reducer { return Reducer{op: "median", col: col} }

// SD returns the sample standard deviation, NA below 2 non-NA values.
func SD(col string) Reducer { return Reducer{op: "sd", col: col} }

// Prod multiplies the non-NA values; an empty or all-NA group yields 1.
func Prod(col string) Reducer { return Reducer{op: "prod", col: col} }

// Cov returns the sample covariance of the paired non-NA values of two
// columns, NA below 2 pairs.
func Cov(a, b string) Reducer { return Reducer{op: "cov", col: a, col2: b} }

// Corr returns the Pearson correlation of two columns, NA below 2 paired
// non-NA values or when either column has zero variance.
func Corr(a, b string) Reducer { return Reducer{op: "corr", col: a, col2: b} }

// First returns the group's first value in row order.
func First(col string) Reducer { return Reducer{op: "first", col: col} }

// Last returns the group's last value in row order.
func Last(col string) Reducer { return Reducer{op: "last", col: col} }

// Nth returns the value at position n within the group; negative n counts
// from the end. Out-of-range n yields NA.
func Nth(col string, n int) Reducer { return Reducer{op: "nth", col: col, n: n} }

// NthSkipNA is Nth counting only non-NA values toward the position.
func NthSkipNA(col string, n int) Reducer {
	return Reducer{op: "nth", col: col, n: n, skipNA: true}
}

// As overrides the output column name.
func (r Reducer) As(name string) Reducer {
	r.name = name
	return r
}

func (r Reducer) outName() string {
	if r.name != "" {
		return r.name
	}
	if r.op == "count" {
		return "count"
	}
	return r.col
}

// groupFn computes one boxed output value for a group's permuted rows.
type groupFn func(rows []int64) any

// bind resolves the reducer against the frame, returning the per-group
// evaluation function and the output stype. Type mismatches surface here,
// once, before any group is touched.
func (r Reducer) bind(f *frame.Frame) (groupFn, types.SType, error) {
	switch r.op {
	case "count":
		return func(rows []int64) any { return int64(len(rows)) }, types.Int64, nil

	case "countof":
		c, err := f.Col(r.col)
		if err != nil {
			return nil, 0, err
		}
		return func(rows []int64) any {
			var n int64
			for _, row := range rows {
				if !c.IsNA(int(row)) {
					n++
				}
			}
			return n
		}, types.Int64, nil

	case "sum":
		c, err := requireNumeric(f, "sum", r.col)
		if err != nil {
			return nil, 0, err
		}
		if c.SType().IsFloat() {
			return func(rows []int64) any {
				total := 0.0
				for _, row := range rows {
					if v, ok := c.Float64At(int(row)); ok {
						total += v
					}
				}
				return total
			}, types.Float64, nil
		}
		return func(rows []int64) any {
			var total int64
			for _, row := range rows {
				if v, ok := c.Int64At(int(row)); ok {
					total += v
				}
			}
			return total
		}, types.Int64, nil

	case "prod":
		c, err := requireNumeric(f, "prod", r.col)
		if err != nil {
			return nil, 0, err
		}
		if c.SType().IsFloat() {
			return func(rows []int64) any {
				total := 1.0
				for _, row := range rows {
					if v, ok := c.Float64At(int(row)); ok {
						total *= v
					}
				}
				return total
			}, types.Float64, nil
		}
		return func(rows []int64) any {
			total := int64(1)
			for _, row := range rows {
				if v, ok := c.Int64At(int(row)); ok {
					total *= v
				}
			}
			return total
		}, types.Int64, nil

	case "mean":
		c, err := requireNumeric(f, "mean", r.col)
		if err != nil {
			return nil, 0, err
		}
		return func(rows []int64) any {
			total, n := 0.0, 0
			for _, row := range rows {
				if v, ok := c.Float64At(int(row)); ok {
					total += v
					n++
				}
			}
			if n == 0 {
				return nil
			}
			return total / float64(n)
		}, meanSType(c.SType()), nil

	case "min", "max":
		c, err := requireNumeric(f, r.op, r.col)
		if err != nil {
			return nil, 0, err
		}
		wantMax := r.op == "max"
		return func(rows []int64) any {
			best := int64(-1)
			var bestV float64
			for _, row := range rows {
				v, ok := c.Float64At(int(row))
				if !ok {
					continue
				}
				if best < 0 || (wantMax && v > bestV) || (!wantMax && v < bestV) {
					best, bestV = row, v
				}
			}
			if best < 0 {
				return nil
			}
			return c.Get(int(best))
		}, c.SType(), nil

	case "median":
		c, err := requireNumeric(f, "median", r.col)
		if err != nil {
			return nil, 0, err
		}
		return func(rows []int64) any {
			vals := collectFloats(c, rows)
			if len(vals) == 0 {
				return nil
			}
			slices.Sort(vals)
			mid := len(vals) / 2
			if len(vals)%2 == 1 {
				return vals[mid]
			}
			return (vals[mid-1] + vals[mid]) / 2
		}, types.Float64, nil

	case "sd":
		c, err := requireNumeric(f, "sd", r.col)
		if err != nil {
			return nil, 0, err
		}
		return func(rows []int64) any {
			v := sampleVariance(collectFloats(c, rows))
			if math.IsNaN(v) {
				return nil
			}
			return math.Sqrt(v)
		}, types.Float64, nil

	case "cov", "corr":
		a, err := requireNumeric(f, r.op, r.col)
		if err != nil {
			return nil, 0, err
		}
		b, err := requireNumeric(f, r.op, r.col2)
		if err != nil {
			return nil, 0, err
		}
		wantCorr := r.op == "corr"
		return func(rows []int64) any {
			xs, ys := collectPairs(a, b, rows)
			cov := sampleCovariance(xs, ys)
			if math.IsNaN(cov) {
				return nil
			}
			if !wantCorr {
				return cov
			}
			sx, sy := math.Sqrt(sampleVariance(xs)), math.Sqrt(sampleVariance(ys))
			if sx == 0 || sy == 0 {
				return nil
			}
			return cov / (sx * sy)
		}, types.Float64, nil

	case "first", "last", "nth":
		c, err := f.Col(r.col)
		if err != nil {
			return nil, 0, err
		}
		n, fromEnd := r.n, false
		switch r.op {
		case "first":
			n = 0
		case "last":
			n, fromEnd = 0, true
		default:
			if n < 0 {
				n, fromEnd = -n-1, true
			}
		}
		skipNA := r.skipNA
		return func(rows []int64) any {
			if fromEnd {
				rows = reversed(rows)
			}
			seen := 0
			for _, row := range rows {
				if skipNA && c.IsNA(int(row)) {
					continue
				}
				if seen == n {
					return c.Get(int(row))
				}
				seen++
			}
			return nil
		}, c.SType(), nil

	default:
		return nil, 0, errors.NewNotImplementedError("groupby",
			"unknown reducer %q", r.op)
	}
}

func collectFloats(c *column.Column, rows []int64) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := c.Float64At(int(row)); ok {
			out = append(out, v)
		}
	}
	return out
}

// collectPairs keeps only rows where both columns are non-NA.
func collectPairs(a, b *column.Column, rows []int64) ([]float64, []float64) {
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, row := range rows {
		x, okx := a.Float64At(int(row))
		y, oky := b.Float64At(int(row))
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// sampleVariance returns NaN below 2 observations.
func sampleVariance(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(vals)-1)
}

// sampleCovariance returns NaN below 2 paired observations.
func sampleCovariance(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	mx, my := 0.0, 0.0
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(len(xs))
	my /= float64(len(ys))
	ss := 0.0
	for i := range xs {
		ss += (xs[i] - mx) * (ys[i] - my)
	}
	return ss / float64(len(xs)-1)
}

func reversed(rows []int64) []int64 {
	out := make([]int64, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out
}
