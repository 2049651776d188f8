// Package coldframe provides an in-memory, column-oriented data-frame
// engine: typed columns with NA support, zero-copy views, stable multi-key
// sorting, grouped aggregation, set operations and binary snapshots.
// This package is the sole public API for the library.
package coldframe

import (
	"go.uber.org/zap"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/config"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/parallel"
	"github.com/coldframe/coldframe/internal/setops"
	"github.com/coldframe/coldframe/internal/sorting"
	"github.com/coldframe/coldframe/internal/types"
)

// SType is the concrete physical storage type of a column.
type SType = types.SType

// Storage types.
const (
	Void    = types.Void
	Bool8   = types.Bool8
	Int8    = types.Int8
	Int16   = types.Int16
	Int32   = types.Int32
	Int64   = types.Int64
	Float32 = types.Float32
	Float64 = types.Float64
	Str32   = types.Str32
	Str64   = types.Str64
	Obj64   = types.Obj64
	Date32  = types.Date32
	Time64  = types.Time64
)

// Promote returns the smallest stype able to represent both inputs.
func Promote(a, b SType) SType { return types.Promote(a, b) }

// NAPosition controls where NA values sort.
type NAPosition = sorting.NAPosition

const (
	// NADefault places NA below every value: first ascending, last descending.
	NADefault = sorting.NADefault
	// NAFirst forces NA to the front regardless of direction.
	NAFirst = sorting.NAFirst
	// NALast forces NA to the back regardless of direction.
	NALast = sorting.NALast
)

// Frame is the public data-frame type. It wraps the internal frame to hide
// implementation details.
type Frame struct {
	f *frame.Frame
}

// Col pairs a column with its name for frame construction.
type Col struct {
	Name string
	col  *column.Column
}

// Ints builds an int64 column.
func Ints(name string, values ...int64) Col {
	return Col{Name: name, col: column.FromInt64s(values)}
}

// Floats builds a float64 column. NaN reads as NA.
func Floats(name string, values ...float64) Col {
	return Col{Name: name, col: column.FromFloat64s(values)}
}

// Strings builds a str32 column.
func Strings(name string, values ...string) Col {
	return Col{Name: name, col: column.FromStrings(values)}
}

// Bools builds a bool8 column.
func Bools(name string, values ...bool) Col {
	return Col{Name: name, col: column.FromBools(values)}
}

// Values builds a column of the given stype from boxed values, nil marking
// NA. Integers box as int64, floats as float64, bool8 as bool.
func Values(name string, st SType, values []any) Col {
	return Col{Name: name, col: column.FromAnys(st, values)}
}

// NewFrame builds a frame from named columns. All columns must share one row
// count; colliding names are auto-suffixed with a warning.
func NewFrame(cols ...Col) (*Frame, error) {
	pairs := make([]frame.NamedColumn, len(cols))
	for i, c := range cols {
		pairs[i] = frame.NamedColumn{Name: c.Name, Col: c.col}
	}
	f, err := frame.New(pairs...)
	if err != nil {
		return nil, err
	}
	return &Frame{f: f}, nil
}

// Names returns the ordered column names.
func (d *Frame) Names() []string { return d.f.Names() }

// NRows returns the logical row count.
func (d *Frame) NRows() int { return d.f.NRows() }

// NCols returns the number of columns.
func (d *Frame) NCols() int { return d.f.NCols() }

// STypes returns the per-column storage types in order.
func (d *Frame) STypes() []SType { return d.f.STypes() }

// Key returns the key column names, empty when no key is set.
func (d *Frame) Key() []string { return d.f.Key() }

// String renders a short preview of the frame.
func (d *Frame) String() string { return d.f.String() }

// Get returns the boxed value at (row, column name), nil for NA.
func (d *Frame) Get(row int, name string) (any, error) {
	c, err := d.f.Col(name)
	if err != nil {
		return nil, err
	}
	return c.Get(row), nil
}

// ColSType returns the storage type of the named column.
func (d *Frame) ColSType(name string) (SType, error) {
	c, err := d.f.Col(name)
	if err != nil {
		return 0, err
	}
	return c.SType(), nil
}

// Select returns a new frame with the named columns, sharing storage.
func (d *Frame) Select(names ...string) (*Frame, error) {
	out, err := d.f.Select(frame.AllRows{}, frame.ByNames{Names: names})
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// Slice returns a zero-copy view of count rows starting at start with the
// given step.
func (d *Frame) Slice(start, count, step int) (*Frame, error) {
	out, err := d.f.Select(frame.SliceRows{Start: start, Count: count, Step: step}, frame.AllCols{})
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// Rows returns a view of the given row positions, in order, repeats allowed.
func (d *Frame) Rows(indices ...int64) (*Frame, error) {
	out, err := d.f.Select(frame.ListRows{Indices: indices}, frame.AllCols{})
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// Filter returns the rows where the named bool8 column is true; NA counts
// as false.
func (d *Frame) Filter(mask string) (*Frame, error) {
	out, err := d.f.Select(frame.MaskRows{Column: mask}, frame.AllCols{})
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// Head returns the first n rows.
func (d *Frame) Head(n int) (*Frame, error) {
	if n > d.f.NRows() {
		n = d.f.NRows()
	}
	return d.Slice(0, n, 1)
}

// Cast returns a new frame with the named column converted to the target
// stype; the remaining columns are shared.
func (d *Frame) Cast(name string, st SType) (*Frame, error) {
	c, err := d.f.Col(name)
	if err != nil {
		return nil, err
	}
	casted, err := c.CastTo(st)
	if err != nil {
		return nil, err
	}
	pairs := make([]frame.NamedColumn, d.f.NCols())
	for i := 0; i < d.f.NCols(); i++ {
		pairs[i] = frame.NamedColumn{Name: d.f.NameAt(i), Col: d.f.ColAt(i)}
		if d.f.NameAt(i) == name {
			pairs[i].Col = casted
		}
	}
	nf, err := frame.New(pairs...)
	if err != nil {
		return nil, err
	}
	return &Frame{f: nf}, nil
}

// SetKey declares the named columns as the frame's key: unique per-row
// value tuples, key columns first, frame physically sorted by them. On
// error the frame is unchanged.
func (d *Frame) SetKey(names ...string) error { return d.f.SetKey(names...) }

// SortBy returns a new frame ordered by the named columns. The sort is
// stable; descending may be nil (all ascending) or one flag per column.
func (d *Frame) SortBy(names []string, descending []bool, napos NAPosition) (*Frame, error) {
	out, err := d.f.SortBy(names, descending, napos)
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// DeleteCols removes columns in place. Removing part of a multi-column key
// is rejected; removing the sole key column clears the key.
func (d *Frame) DeleteCols(names ...string) error { return d.f.DeleteCols(names...) }

// DeleteRows removes the given row positions in place.
func (d *Frame) DeleteRows(indices ...int64) error {
	return d.f.DeleteRows(frame.ListRows{Indices: indices})
}

// Rbind appends the other frames' rows, matching columns by name and
// promoting stypes to the common type.
func (d *Frame) Rbind(others ...*Frame) (*Frame, error) {
	return d.rbind(frame.RbindOptions{}, others)
}

// RbindForce is Rbind tolerating differing column sets, null-filling the
// missing pieces.
func (d *Frame) RbindForce(others ...*Frame) (*Frame, error) {
	return d.rbind(frame.RbindOptions{Force: true}, others)
}

func (d *Frame) rbind(opts frame.RbindOptions, others []*Frame) (*Frame, error) {
	inner := make([]*frame.Frame, len(others))
	for i, o := range others {
		inner[i] = o.f
	}
	out, err := d.f.Rbind(opts, inner...)
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// Cbind appends the other frames' columns. Row counts must match; a 1-row
// frame broadcasts.
func (d *Frame) Cbind(others ...*Frame) (*Frame, error) {
	inner := make([]*frame.Frame, len(others))
	for i, o := range others {
		inner[i] = o.f
	}
	out, err := d.f.Cbind(inner...)
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// Materialize forces every column into owned storage.
func (d *Frame) Materialize() (*Frame, error) {
	out, err := d.f.Materialize()
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// Equal reports whether two frames match in shape, names, stypes, values,
// NA positions and key.
func (d *Frame) Equal(other *Frame) bool {
	if other == nil {
		return false
	}
	return d.f.Equal(other.f)
}

// ToDict materializes the frame as a name -> boxed-values mapping, nil
// marking NA.
func (d *Frame) ToDict() map[string][]any { return d.f.ToDict() }

// ToLists materializes the frame column-major as boxed values.
func (d *Frame) ToLists() [][]any { return d.f.ToLists() }

// ToRows materializes the frame row-major as boxed values.
func (d *Frame) ToRows() [][]any { return d.f.ToRows() }

// Set operations. Each works on the first column of its inputs, collapsing
// every input to its distinct values.

// Union returns the sorted distinct values present in any input.
func Union(frames ...*Frame) (*Frame, error) { return setOp(setops.Union, frames) }

// Intersect returns the sorted distinct values present in every input.
func Intersect(frames ...*Frame) (*Frame, error) { return setOp(setops.Intersect, frames) }

// SetDiff returns the first input's distinct values absent from the rest.
func SetDiff(frames ...*Frame) (*Frame, error) { return setOp(setops.SetDiff, frames) }

// SymDiff returns the distinct values with odd membership count.
func SymDiff(frames ...*Frame) (*Frame, error) { return setOp(setops.SymDiff, frames) }

func setOp(op func(...*frame.Frame) (*frame.Frame, error), frames []*Frame) (*Frame, error) {
	inner := make([]*frame.Frame, len(frames))
	for i, f := range frames {
		inner[i] = f.f
	}
	out, err := op(inner...)
	if err != nil {
		return nil, err
	}
	return &Frame{f: out}, nil
}

// SetNThreads sets the worker-pool size used by parallel loops; 0 restores
// the hardware default.
func SetNThreads(n int) {
	cfg := config.Get()
	cfg.NThreads = n
	config.Set(cfg)
}

// SetLogger installs the logger used for non-fatal warnings such as
// duplicate-name auto-resolution.
func SetLogger(logger *zap.Logger) { config.SetLogger(logger) }

// Cancel requests cooperative cancellation of in-flight engine work. Running
// computations stop at the next chunk boundary and return an error satisfying
// IsCancelled, with partial results discarded. The request stays in effect,
// failing new operations fast, until ResetCancel.
func Cancel() { parallel.Interrupt() }

// ResetCancel clears a previous Cancel so operations can run again.
func ResetCancel() { parallel.ResetInterrupt() }

// Error-kind predicates for the library's error taxonomy.

// IsTypeError reports an incompatible operation for a column's type.
func IsTypeError(err error) bool { return errors.IsKind(err, errors.KindType) }

// IsValueError reports malformed parameters.
func IsValueError(err error) bool { return errors.IsKind(err, errors.KindValue) }

// IsShapeError reports a row- or column-count mismatch.
func IsShapeError(err error) bool { return errors.IsKind(err, errors.KindShape) }

// IsNotImplemented reports an explicitly unsupported combination.
func IsNotImplemented(err error) bool { return errors.IsKind(err, errors.KindNotImplemented) }

// IsCancelled reports a user-triggered interrupt of a parallel computation.
func IsCancelled(err error) bool { return errors.IsKind(err, errors.KindCancelled) }

// IsIOError reports a serialization or parsing failure.
func IsIOError(err error) bool { return errors.IsKind(err, errors.KindIO) }
