// Package frame implements the named-column container: an ordered mapping
// from unique column names to columns sharing one row count, with the key
// (uniqueness constraint) and the RowIndex-based view mechanism.
package frame

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/config"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/types"
)

// Frame is an ordered collection of named columns sharing one row count.
type Frame struct {
	names  []string
	cols   []*column.Column
	colIdx map[string]int
	key    []string
	nrows  int
}

// NamedColumn pairs a column with its name for construction.
type NamedColumn struct {
	Name string
	Col  *column.Column
}

// New builds a frame from named columns. All columns must agree on row
// count; colliding names are auto-suffixed (".0", ".1", ...) with a
// non-fatal warning through the configured logger.
func New(pairs ...NamedColumn) (*Frame, error) {
	f := &Frame{colIdx: make(map[string]int)}
	for i, p := range pairs {
		if p.Col == nil {
			return nil, errors.NewValueError("Frame", p.Name, "nil column")
		}
		if i == 0 {
			f.nrows = p.Col.NRows()
		} else if p.Col.NRows() != f.nrows {
			return nil, errors.NewShapeError("Frame",
				"column '%s' has %d rows, expected %d", p.Name, p.Col.NRows(), f.nrows)
		}
	}
	for _, p := range pairs {
		f.appendCol(p.Name, p.Col)
	}
	return f, nil
}

// appendCol adds a column, deduplicating its name if needed.
func (f *Frame) appendCol(name string, col *column.Column) {
	if _, taken := f.colIdx[name]; taken {
		base := name
		for suffix := 0; ; suffix++ {
			candidate := fmt.Sprintf("%s.%d", base, suffix)
			if _, clash := f.colIdx[candidate]; !clash {
				config.Logger().Warn("duplicate column name auto-resolved",
					zap.String("name", base), zap.String("renamed", candidate))
				name = candidate
				break
			}
		}
	}
	f.colIdx[name] = len(f.names)
	f.names = append(f.names, name)
	f.cols = append(f.cols, col)
}

// Names returns the ordered column names.
func (f *Frame) Names() []string { return append([]string(nil), f.names...) }

// NCols returns the number of columns.
func (f *Frame) NCols() int { return len(f.cols) }

// NRows returns the logical row count.
func (f *Frame) NRows() int { return f.nrows }

// Key returns the key column names, empty when no key is set.
func (f *Frame) Key() []string { return append([]string(nil), f.key...) }

// STypes returns the per-column storage types in order.
func (f *Frame) STypes() []types.SType {
	out := make([]types.SType, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.SType()
	}
	return out
}

// HasCol reports whether a column with the given name exists.
func (f *Frame) HasCol(name string) bool {
	_, ok := f.colIdx[name]
	return ok
}

// Col returns the column with the given name.
func (f *Frame) Col(name string) (*column.Column, error) {
	i, ok := f.colIdx[name]
	if !ok {
		return nil, errors.NewValueError("Frame", name, "column does not exist")
	}
	return f.cols[i], nil
}

// ColAt returns the column at position i.
func (f *Frame) ColAt(i int) *column.Column { return f.cols[i] }

// NameAt returns the name of the column at position i.
func (f *Frame) NameAt(i int) string { return f.names[i] }

// View returns a new frame whose columns are zero-copy views through ri.
// The key is dropped: a view's physical order no longer matches it.
func (f *Frame) View(ri *column.RowIndex) *Frame {
	out := &Frame{colIdx: make(map[string]int), nrows: ri.Len()}
	for i, c := range f.cols {
		out.appendCol(f.names[i], c.Slice(ri))
	}
	return out
}

// Materialize forces every column into owned storage.
func (f *Frame) Materialize() (*Frame, error) {
	out := &Frame{colIdx: make(map[string]int), nrows: f.nrows, key: f.Key()}
	for i, c := range f.cols {
		m, err := c.Materialize()
		if err != nil {
			return nil, err
		}
		out.appendCol(f.names[i], m)
	}
	return out, nil
}

// Equal reports whether two frames match in shape, names, stypes, values,
// NA positions and key.
func (f *Frame) Equal(other *Frame) bool {
	if other == nil || f.nrows != other.nrows || len(f.cols) != len(other.cols) {
		return false
	}
	if len(f.key) != len(other.key) {
		return false
	}
	for i, k := range f.key {
		if other.key[i] != k {
			return false
		}
	}
	for i := range f.cols {
		if f.names[i] != other.names[i] || !f.cols[i].Equal(other.cols[i]) {
			return false
		}
	}
	return true
}

// ToDict materializes the frame as a name -> boxed-values mapping, with nil
// marking NA.
func (f *Frame) ToDict() map[string][]any {
	out := make(map[string][]any, len(f.cols))
	for i, c := range f.cols {
		vals := make([]any, f.nrows)
		for r := 0; r < f.nrows; r++ {
			vals[r] = c.Get(r)
		}
		out[f.names[i]] = vals
	}
	return out
}

// ToLists materializes the frame column-major as boxed values.
func (f *Frame) ToLists() [][]any {
	out := make([][]any, len(f.cols))
	for i, c := range f.cols {
		vals := make([]any, f.nrows)
		for r := 0; r < f.nrows; r++ {
			vals[r] = c.Get(r)
		}
		out[i] = vals
	}
	return out
}

// ToRows materializes the frame row-major as boxed values.
func (f *Frame) ToRows() [][]any {
	out := make([][]any, f.nrows)
	for r := 0; r < f.nrows; r++ {
		row := make([]any, len(f.cols))
		for i, c := range f.cols {
			row[i] = c.Get(r)
		}
		out[r] = row
	}
	return out
}

// String renders a short preview of the frame.
func (f *Frame) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Frame[%d x %d]", f.nrows, len(f.cols))
	if len(f.key) > 0 {
		fmt.Fprintf(&sb, " key=%v", f.key)
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Join(f.names, "\t"))
	sb.WriteByte('\n')
	const previewRows = 10
	limit := f.nrows
	if limit > previewRows {
		limit = previewRows
	}
	for r := 0; r < limit; r++ {
		cells := make([]string, len(f.cols))
		for i, c := range f.cols {
			if c.IsNA(r) {
				cells[i] = "NA"
			} else {
				cells[i] = c.Format(r)
			}
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}
	if f.nrows > limit {
		fmt.Fprintf(&sb, "... %d more rows\n", f.nrows-limit)
	}
	return sb.String()
}

// clone copies the frame's bookkeeping, sharing column views.
func (f *Frame) clone() *Frame {
	out := &Frame{
		names:  append([]string(nil), f.names...),
		cols:   append([]*column.Column(nil), f.cols...),
		colIdx: make(map[string]int, len(f.colIdx)),
		key:    append([]string(nil), f.key...),
		nrows:  f.nrows,
	}
	for name, i := range f.colIdx {
		out.colIdx[name] = i
	}
	return out
}
