// Package setops implements union, intersect, setdiff and symdiff over the
// first column of the input frames. Each input is collapsed to its distinct
// values through the sorting engine, then a single sorted merge over the
// combined distinct values decides membership per operation.
package setops

import (
	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/sorting"
	"github.com/coldframe/coldframe/internal/types"
)

// Union returns the sorted distinct values present in any input.
func Union(frames ...*frame.Frame) (*frame.Frame, error) {
	return evaluate(frames, func(size, fromFirst int, _ int) bool { return true })
}

// Intersect returns the sorted distinct values present in every input.
func Intersect(frames ...*frame.Frame) (*frame.Frame, error) {
	return evaluate(frames, func(size, fromFirst, ninputs int) bool {
		return size == ninputs
	})
}

// SetDiff returns the sorted distinct values of the first input that appear
// in no subsequent input.
func SetDiff(frames ...*frame.Frame) (*frame.Frame, error) {
	return evaluate(frames, func(size, fromFirst, _ int) bool {
		return size == 1 && fromFirst == 1
	})
}

// SymDiff returns the sorted distinct values whose membership count across
// all inputs is odd.
func SymDiff(frames ...*frame.Frame) (*frame.Frame, error) {
	return evaluate(frames, func(size, fromFirst, _ int) bool {
		return size%2 == 1
	})
}

// evaluate runs the shared pipeline: dedup each input's first column, pool
// the distinct values with their source input recorded, sort the pool, and
// keep one representative per group the predicate accepts.
func evaluate(frames []*frame.Frame, keep func(size, fromFirst, ninputs int) bool) (*frame.Frame, error) {
	if len(frames) == 0 {
		return frame.New()
	}

	// Empty inputs are skipped; they contribute no values and no say in the
	// promoted type. The original position is kept so setdiff can tell the
	// first input apart even when earlier inputs were skipped.
	var live []*frame.Frame
	var orig []int
	for i, f := range frames {
		if f.NRows() > 0 && f.NCols() > 0 {
			live = append(live, f)
			orig = append(orig, i)
		}
	}
	if len(live) == 0 {
		first := frames[0]
		if first.NCols() == 0 {
			return frame.New()
		}
		return frame.New(frame.NamedColumn{
			Name: first.NameAt(0),
			Col:  column.FromAnys(first.ColAt(0).SType(), nil),
		})
	}

	name := live[0].NameAt(0)
	sts := make([]types.SType, len(live))
	for i, f := range live {
		sts[i] = f.ColAt(0).SType()
	}
	st := types.PromoteAll(sts)

	// Pool of per-input distinct values, with the source input of each.
	var pool []any
	var source []int
	for i, f := range live {
		casted, err := f.ColAt(0).CastTo(st)
		if err != nil {
			return nil, err
		}
		distinct, err := dedupValues(casted)
		if err != nil {
			return nil, err
		}
		pool = append(pool, distinct...)
		for range distinct {
			source = append(source, orig[i])
		}
	}

	merged := column.FromAnys(st, pool)
	perm, offsets, err := sorting.OrderGroups([]sorting.Key{{Col: merged}}, sorting.NADefault)
	if err != nil {
		return nil, err
	}

	var out []any
	for g := 0; g+1 < len(offsets); g++ {
		size := int(offsets[g+1] - offsets[g])
		fromFirst := 0
		for _, row := range perm[offsets[g]:offsets[g+1]] {
			if source[row] == 0 {
				fromFirst++
			}
		}
		if keep(size, fromFirst, len(live)) {
			out = append(out, merged.Get(int(perm[offsets[g]])))
		}
	}
	return frame.New(frame.NamedColumn{Name: name, Col: column.FromAnys(st, out)})
}

// dedupValues returns the column's distinct values in sorted order, NA
// included as a value.
func dedupValues(c *column.Column) ([]any, error) {
	perm, offsets, err := sorting.OrderGroups([]sorting.Key{{Col: c}}, sorting.NADefault)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(offsets)-1)
	for g := 0; g+1 < len(offsets); g++ {
		out = append(out, c.Get(int(perm[offsets[g]])))
	}
	return out, nil
}
