package frame

import (
	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/sorting"
)

// SetKey declares the named columns as the frame's key: their combined value
// tuples must be unique per row. The key columns move to the leading
// positions and the frame is physically sorted by them (stable). The change
// is all-or-nothing: any failure leaves the frame untouched.
func (f *Frame) SetKey(names ...string) error {
	if len(names) == 0 {
		f.key = nil
		return nil
	}
	seen := make(map[string]bool, len(names))
	keys := make([]sorting.Key, len(names))
	for i, name := range names {
		idx, ok := f.colIdx[name]
		if !ok {
			return errors.NewValueError("SetKey", name, "column does not exist")
		}
		if seen[name] {
			return errors.NewValueError("SetKey", name, "column listed twice in key")
		}
		seen[name] = true
		keys[i] = sorting.Key{Col: f.cols[idx]}
	}

	perm, offsets, err := sorting.OrderGroups(keys, sorting.NADefault)
	if err != nil {
		return err
	}
	ngroups := len(offsets) - 1
	if ngroups < f.nrows {
		// Name a duplicated tuple's position for diagnosis.
		for g := 0; g < ngroups; g++ {
			if offsets[g+1]-offsets[g] > 1 {
				return errors.NewValueError("SetKey", names[0],
					"key values are not unique: rows %d and %d share one key tuple",
					perm[offsets[g]], perm[offsets[g]+1])
			}
		}
	}

	ri, err := column.ArrayRI(perm, f.nrows)
	if err != nil {
		return err
	}

	// Stage the new layout, swap in only on success: key columns first, the
	// rest in their existing order, all physically sorted.
	staged := &Frame{colIdx: make(map[string]int), nrows: f.nrows}
	for _, name := range names {
		idx := f.colIdx[name]
		m, err := f.cols[idx].Slice(ri).Materialize()
		if err != nil {
			return err
		}
		staged.appendCol(name, m)
	}
	for i, name := range f.names {
		if seen[name] {
			continue
		}
		m, err := f.cols[i].Slice(ri).Materialize()
		if err != nil {
			return err
		}
		staged.appendCol(name, m)
	}
	f.names, f.cols, f.colIdx = staged.names, staged.cols, staged.colIdx
	f.key = append([]string(nil), names...)
	return nil
}

// SortBy returns a new frame ordered by the given columns. The sort is
// stable; NA placement follows the sorting package's rules.
func (f *Frame) SortBy(names []string, descending []bool, napos sorting.NAPosition) (*Frame, error) {
	if len(descending) != 0 && len(descending) != len(names) {
		return nil, errors.NewShapeError("SortBy",
			"%d sort columns but %d direction flags", len(names), len(descending))
	}
	keys := make([]sorting.Key, len(names))
	for i, name := range names {
		c, err := f.Col(name)
		if err != nil {
			return nil, err
		}
		keys[i] = sorting.Key{Col: c}
		if len(descending) > 0 {
			keys[i].Descending = descending[i]
		}
	}
	perm, err := sorting.Order(keys, napos)
	if err != nil {
		return nil, err
	}
	ri, err := column.ArrayRI(perm, f.nrows)
	if err != nil {
		return nil, err
	}
	return f.View(ri), nil
}
