// Package sorting produces ordering permutations, and optionally group
// boundaries, for one or more key columns.
//
// The sort is stable: rows with equal keys keep their relative input order.
// Multiple keys apply left to right as a lexicographic comparator. NA
// conceptually sits below the minimum value, so it sorts first ascending and
// last descending; NAPosition lets callers override placement independently.
//
// Low-cardinality fixed-width primary keys (bool8, int8) take a stable
// counting-sort path; everything else goes through comparison sorting.
package sorting

import (
	"golang.org/x/exp/slices"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/types"
)

// NAPosition controls where missing values land in the output order.
type NAPosition uint8

const (
	// NADefault places NA below every value: first ascending, last descending.
	NADefault NAPosition = iota
	// NAFirst forces NA rows to the front regardless of direction.
	NAFirst
	// NALast forces NA rows to the back regardless of direction.
	NALast
)

// Key is one sort key: a column and its direction.
type Key struct {
	Col        *column.Column
	Descending bool
}

// Order returns the stable ordering permutation for the given keys.
// All key columns must share one row count; obj64 keys have no total order
// and raise a type error.
func Order(keys []Key, napos NAPosition) ([]int64, error) {
	perm, _, err := order(keys, napos, false)
	return perm, err
}

// OrderGroups returns the ordering permutation together with group
// boundaries: offsets[k]..offsets[k+1] delimits the k-th run of rows whose
// key tuples are identical. len(offsets) is ngroups+1.
func OrderGroups(keys []Key, napos NAPosition) ([]int64, []int64, error) {
	return order(keys, napos, true)
}

func order(keys []Key, napos NAPosition, wantGroups bool) ([]int64, []int64, error) {
	if len(keys) == 0 {
		return nil, nil, errors.NewValueError("sort", "", "at least one sort key required")
	}
	n := keys[0].Col.NRows()
	mat := make([]Key, len(keys))
	for i, k := range keys {
		if k.Col.SType() == types.Obj64 {
			return nil, nil, errors.NewTypeError("sort", "",
				"column of type obj64 has no defined ordering")
		}
		if k.Col.NRows() != n {
			return nil, nil, errors.NewShapeError("sort",
				"key columns disagree on row count: %d vs %d", n, k.Col.NRows())
		}
		m, err := k.Col.Materialize()
		if err != nil {
			return nil, nil, err
		}
		mat[i] = Key{Col: m, Descending: k.Descending}
	}

	perm := make([]int64, n)
	for i := range perm {
		perm[i] = int64(i)
	}

	if len(mat) == 1 && napos == NADefault && countingSortable(mat[0].Col.SType()) {
		countingSort(perm, mat[0])
	} else {
		slices.SortStableFunc(perm, makeComparator(mat, napos))
	}

	if !wantGroups {
		return perm, nil, nil
	}
	return perm, groupOffsets(perm, mat), nil
}

// makeComparator builds the lexicographic multi-key comparator.
func makeComparator(keys []Key, napos NAPosition) func(a, b int64) int {
	return func(a, b int64) int {
		for _, k := range keys {
			ai, bi := int(a), int(b)
			ana, bna := k.Col.IsNA(ai), k.Col.IsNA(bi)
			if ana || bna {
				if ana && bna {
					continue
				}
				switch napos {
				case NAFirst:
					if ana {
						return -1
					}
					return 1
				case NALast:
					if ana {
						return 1
					}
					return -1
				default:
					// NA below the minimum value; direction flips it.
					c := -1
					if !ana {
						c = 1
					}
					if k.Descending {
						c = -c
					}
					return c
				}
			}
			c := k.Col.Compare(ai, bi)
			if c == 0 {
				continue
			}
			if k.Descending {
				c = -c
			}
			return c
		}
		return 0
	}
}

// groupOffsets scans the permutation for runs of identical key tuples.
func groupOffsets(perm []int64, keys []Key) []int64 {
	offsets := []int64{0}
	if len(perm) == 0 {
		return offsets
	}
	for i := 1; i < len(perm); i++ {
		for _, k := range keys {
			if keyCompare(k.Col, int(perm[i-1]), int(perm[i])) != 0 {
				offsets = append(offsets, int64(i))
				break
			}
		}
	}
	offsets = append(offsets, int64(len(perm)))
	return offsets
}

// keyCompare treats two NAs as equal (they group together).
func keyCompare(c *column.Column, i, j int) int {
	ina, jna := c.IsNA(i), c.IsNA(j)
	if ina || jna {
		if ina && jna {
			return 0
		}
		if ina {
			return -1
		}
		return 1
	}
	return c.Compare(i, j)
}

func countingSortable(st types.SType) bool {
	return st == types.Bool8 || st == types.Int8
}

// countingSort is the stable radix-bucket path for one-byte keys. Bucket 0
// collects NA, buckets 1..256 the value range; descending reverses value
// buckets but keeps NA below the minimum (so NA lands last).
func countingSort(perm []int64, key Key) {
	const nbuckets = 257
	counts := make([]int, nbuckets)
	bucketOf := func(row int64) int {
		v, ok := key.Col.Int64At(int(row))
		if !ok {
			if key.Descending {
				return nbuckets - 1
			}
			return 0
		}
		b := int(v) + 129 // int8 range -128..127 -> 1..256
		if key.Descending {
			b = nbuckets - 1 - b
		}
		return b
	}
	for _, row := range perm {
		counts[bucketOf(row)]++
	}
	starts := make([]int, nbuckets)
	sum := 0
	for b := 0; b < nbuckets; b++ {
		starts[b] = sum
		sum += counts[b]
	}
	out := make([]int64, len(perm))
	for _, row := range perm {
		b := bucketOf(row)
		out[starts[b]] = row
		starts[b]++
	}
	copy(perm, out)
}
