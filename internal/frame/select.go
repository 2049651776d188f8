package frame

import (
	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/types"
)

// RowSelector picks a subset of rows, expressed as a RowIndex so selection
// composes with existing views without copying.
type RowSelector interface {
	rowIndex(f *Frame) (*column.RowIndex, error)
}

// AllRows selects every row.
type AllRows struct{}

func (AllRows) rowIndex(f *Frame) (*column.RowIndex, error) {
	return column.Identity(f.nrows), nil
}

// SliceRows selects Count rows starting at Start with the given Step.
type SliceRows struct {
	Start, Count, Step int
}

func (s SliceRows) rowIndex(f *Frame) (*column.RowIndex, error) {
	ri, err := column.SliceRI(s.Start, s.Count, s.Step)
	if err != nil {
		return nil, err
	}
	if s.Count > 0 {
		last := s.Start + (s.Count-1)*s.Step
		if s.Start >= f.nrows || last >= f.nrows {
			return nil, errors.NewValueError("select", "",
				"slice [%d:%d:%d] out of bounds for %d rows", s.Start, s.Count, s.Step, f.nrows)
		}
	}
	return ri, nil
}

// ListRows selects explicit row positions, in order, repeats allowed.
type ListRows struct {
	Indices []int64
}

func (l ListRows) rowIndex(f *Frame) (*column.RowIndex, error) {
	return column.ArrayRI(l.Indices, f.nrows)
}

// MaskRows selects rows where the named bool8 column is true; NA counts as
// false.
type MaskRows struct {
	Column string
}

func (m MaskRows) rowIndex(f *Frame) (*column.RowIndex, error) {
	c, err := f.Col(m.Column)
	if err != nil {
		return nil, err
	}
	if c.LType() != types.LBool {
		return nil, errors.NewTypeError("select", m.Column,
			"filter predicate must be a bool8 column, got %s", c.SType())
	}
	var idx []int64
	for i := 0; i < c.NRows(); i++ {
		if v, ok := c.Int64At(i); ok && v != 0 {
			idx = append(idx, int64(i))
		}
	}
	return column.ArrayRI(idx, f.nrows)
}

// ColSelector picks a subset of columns by position.
type ColSelector interface {
	colIndices(f *Frame) ([]int, error)
}

// AllCols selects every column.
type AllCols struct{}

func (AllCols) colIndices(f *Frame) ([]int, error) {
	out := make([]int, len(f.cols))
	for i := range out {
		out[i] = i
	}
	return out, nil
}

// ByNames selects columns by name, in the given order.
type ByNames struct {
	Names []string
}

func (b ByNames) colIndices(f *Frame) ([]int, error) {
	out := make([]int, len(b.Names))
	for i, name := range b.Names {
		idx, ok := f.colIdx[name]
		if !ok {
			return nil, errors.NewValueError("select", name, "column does not exist")
		}
		out[i] = idx
	}
	return out, nil
}

// ByIndices selects columns by position.
type ByIndices struct {
	Indices []int
}

func (b ByIndices) colIndices(f *Frame) ([]int, error) {
	for _, i := range b.Indices {
		if i < 0 || i >= len(f.cols) {
			return nil, errors.NewValueError("select", "",
				"column index %d out of bounds for %d columns", i, len(f.cols))
		}
	}
	return append([]int(nil), b.Indices...), nil
}

// ColMask selects columns where the mask is true; its length must match the
// column count.
type ColMask struct {
	Mask []bool
}

func (b ColMask) colIndices(f *Frame) ([]int, error) {
	if len(b.Mask) != len(f.cols) {
		return nil, errors.NewShapeError("select",
			"column mask has %d entries for %d columns", len(b.Mask), len(f.cols))
	}
	var out []int
	for i, keep := range b.Mask {
		if keep {
			out = append(out, i)
		}
	}
	return out, nil
}

// Select returns a new frame with the chosen rows and columns. Storage is
// shared with the receiver through RowIndex composition; nothing is copied.
func (f *Frame) Select(rows RowSelector, cols ColSelector) (*Frame, error) {
	ri, err := rows.rowIndex(f)
	if err != nil {
		return nil, err
	}
	colIdx, err := cols.colIndices(f)
	if err != nil {
		return nil, err
	}
	out := &Frame{colIdx: make(map[string]int), nrows: ri.Len()}
	identity := ri.Kind() == column.RIIdentity
	for _, ci := range colIdx {
		c := f.cols[ci]
		if !identity {
			c = c.Slice(ri)
		}
		out.appendCol(f.names[ci], c)
	}
	if identity {
		out.key = f.keyIfLeading(colIdx)
	}
	return out, nil
}

// keyIfLeading keeps the key only when the selected columns start with the
// key columns in order, so the key invariants still hold.
func (f *Frame) keyIfLeading(colIdx []int) []string {
	if len(f.key) == 0 || len(colIdx) < len(f.key) {
		return nil
	}
	for i, name := range f.key {
		if f.names[colIdx[i]] != name {
			return nil
		}
	}
	return append([]string(nil), f.key...)
}

// DeleteCols removes columns in place. Removing part of a multi-column key
// is rejected; removing the sole key column clears the key. The operation is
// all-or-nothing: on error the frame is unchanged.
func (f *Frame) DeleteCols(names ...string) error {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := f.colIdx[name]; !ok {
			return errors.NewValueError("delete", name, "column does not exist")
		}
		drop[name] = true
	}
	keyDropped := 0
	for _, k := range f.key {
		if drop[k] {
			keyDropped++
		}
	}
	if keyDropped > 0 && len(f.key) > 1 {
		return errors.NewValueError("delete", f.key[0],
			"cannot delete columns that are part of a %d-column key", len(f.key))
	}

	names2 := f.names[:0:0]
	cols2 := f.cols[:0:0]
	idx2 := make(map[string]int)
	for i, name := range f.names {
		if drop[name] {
			continue
		}
		idx2[name] = len(names2)
		names2 = append(names2, name)
		cols2 = append(cols2, f.cols[i])
	}
	f.names, f.cols, f.colIdx = names2, cols2, idx2
	if keyDropped > 0 {
		f.key = nil
	}
	return nil
}

// DeleteRows removes the selected rows in place by re-viewing every column
// through the complement RowIndex. Key uniqueness is preserved by
// construction, so deleting rows from a keyed frame is permitted.
func (f *Frame) DeleteRows(rows RowSelector) error {
	ri, err := rows.rowIndex(f)
	if err != nil {
		return err
	}
	dropped := make([]bool, f.nrows)
	for i := 0; i < ri.Len(); i++ {
		dropped[ri.At(i)] = true
	}
	kept := make([]int64, 0, f.nrows)
	for i, d := range dropped {
		if !d {
			kept = append(kept, int64(i))
		}
	}
	keepRI, err := column.ArrayRI(kept, f.nrows)
	if err != nil {
		return err
	}
	for i, c := range f.cols {
		f.cols[i] = c.Slice(keepRI)
	}
	f.nrows = len(kept)
	return nil
}
