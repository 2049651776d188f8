// Package column implements the typed column model: owned refcounted buffers,
// zero-copy virtual views (slices, lazy casts, constants) and the RowIndex
// machinery that keeps view composition flat.
//
// NA is representable in every stype: the minimum integer for fixed-width
// integers (and bool8), NaN for floats, a negative end-offset for strings and
// nil for objects. Void columns are all-NA by definition.
package column

import (
	"math"
	"strconv"

	"github.com/coldframe/coldframe/internal/config"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/parallel"
	"github.com/coldframe/coldframe/internal/types"
)

type kind uint8

const (
	owned kind = iota
	sliced
	casted
	constant
)

// Column is one typed sequence of values, each a concrete value or NA.
// A column is either materialized (backed by an owned buffer) or virtual:
// a RowIndex view of a parent, a pending cast, or a repeated constant.
// Resolving a virtual column never changes its declared stype or values.
type Column struct {
	st types.SType
	n  int
	k  kind

	buf    *buffer   // owned
	parent *Column   // sliced, casted
	ri     *RowIndex // sliced
	cval   any       // constant; nil means an all-NA constant
}

// SType returns the storage type.
func (c *Column) SType() types.SType { return c.st }

// LType returns the logical type.
func (c *Column) LType() types.LType { return c.st.LType() }

// NRows returns the number of logical values.
func (c *Column) NRows() int { return c.n }

// Virtual reports whether the column is a computed view rather than owned
// storage.
func (c *Column) Virtual() bool { return c.k != owned }

// NewVoid returns an all-NA column of stype void.
func NewVoid(n int) *Column {
	return &Column{st: types.Void, n: n, k: owned, buf: newBuffer()}
}

// NewConst returns a virtual column repeating one value. A nil value yields
// an all-NA constant of the given stype.
func NewConst(st types.SType, value any, n int) *Column {
	return &Column{st: st, n: n, k: constant, cval: value}
}

// FromBools builds an owned bool8 column; bools carry no NA.
func FromBools(values []bool) *Column {
	b := newBuffer()
	b.i8 = make([]int8, len(values))
	for i, v := range values {
		if v {
			b.i8[i] = 1
		}
	}
	return &Column{st: types.Bool8, n: len(values), k: owned, buf: b}
}

// FromInt8s builds an owned int8 column; the sentinel value marks NA.
func FromInt8s(values []int8) *Column {
	b := newBuffer()
	b.i8 = append([]int8(nil), values...)
	return &Column{st: types.Int8, n: len(values), k: owned, buf: b}
}

// FromInt16s builds an owned int16 column; the sentinel value marks NA.
func FromInt16s(values []int16) *Column {
	b := newBuffer()
	b.i16 = append([]int16(nil), values...)
	return &Column{st: types.Int16, n: len(values), k: owned, buf: b}
}

// FromInt32s builds an owned int32 column; the sentinel value marks NA.
func FromInt32s(values []int32) *Column {
	b := newBuffer()
	b.i32 = append([]int32(nil), values...)
	return &Column{st: types.Int32, n: len(values), k: owned, buf: b}
}

// FromInt64s builds an owned int64 column; the sentinel value marks NA.
func FromInt64s(values []int64) *Column {
	b := newBuffer()
	b.i64 = append([]int64(nil), values...)
	return &Column{st: types.Int64, n: len(values), k: owned, buf: b}
}

// FromFloat32s builds an owned float32 column; NaN marks NA.
func FromFloat32s(values []float32) *Column {
	b := newBuffer()
	b.f32 = append([]float32(nil), values...)
	return &Column{st: types.Float32, n: len(values), k: owned, buf: b}
}

// FromFloat64s builds an owned float64 column; NaN marks NA.
func FromFloat64s(values []float64) *Column {
	b := newBuffer()
	b.f64 = append([]float64(nil), values...)
	return &Column{st: types.Float64, n: len(values), k: owned, buf: b}
}

// FromStrings builds an owned str32 column with no NAs.
func FromStrings(values []string) *Column {
	b := newBuffer()
	b.offs = make([]int64, len(values))
	for i, v := range values {
		b.raw = append(b.raw, v...)
		b.offs[i] = int64(len(b.raw)) + 1
	}
	return &Column{st: types.Str32, n: len(values), k: owned, buf: b}
}

// FromObjects builds an owned obj64 column; nil marks NA.
func FromObjects(values []any) *Column {
	b := newBuffer()
	b.obj = append([]any(nil), values...)
	return &Column{st: types.Obj64, n: len(values), k: owned, buf: b}
}

// FromAnys builds an owned column of the given stype from boxed values;
// nil marks NA. Numeric inputs accept any Go integer or float width.
func FromAnys(st types.SType, values []any) *Column {
	n := len(values)
	b := newBuffer()
	c := &Column{st: st, n: n, k: owned, buf: b}
	switch st.LType() {
	case types.LVoid:
		c.st = types.Void
	case types.LBool:
		b.i8 = make([]int8, n)
		for i, v := range values {
			if v == nil {
				b.i8[i] = types.NAInt8
			} else if v.(bool) {
				b.i8[i] = 1
			}
		}
	case types.LInt, types.LTime:
		setInt := func(i int, v int64) {
			switch st {
			case types.Int8:
				b.i8[i] = int8(v)
			case types.Int16:
				b.i16[i] = int16(v)
			case types.Int32, types.Date32:
				b.i32[i] = int32(v)
			default:
				b.i64[i] = v
			}
		}
		switch st {
		case types.Int8:
			b.i8 = make([]int8, n)
		case types.Int16:
			b.i16 = make([]int16, n)
		case types.Int32, types.Date32:
			b.i32 = make([]int32, n)
		default:
			b.i64 = make([]int64, n)
		}
		for i, v := range values {
			if v == nil {
				setInt(i, int64(types.NAInt64))
				switch st {
				case types.Int8:
					b.i8[i] = types.NAInt8
				case types.Int16:
					b.i16[i] = types.NAInt16
				case types.Int32, types.Date32:
					b.i32[i] = types.NAInt32
				}
				continue
			}
			setInt(i, asInt64(v))
		}
	case types.LReal:
		if st == types.Float32 {
			b.f32 = make([]float32, n)
			for i, v := range values {
				if v == nil {
					b.f32[i] = float32(math.NaN())
				} else {
					b.f32[i] = float32(asFloat64(v))
				}
			}
		} else {
			b.f64 = make([]float64, n)
			for i, v := range values {
				if v == nil {
					b.f64[i] = math.NaN()
				} else {
					b.f64[i] = asFloat64(v)
				}
			}
		}
	case types.LStr:
		b.offs = make([]int64, n)
		for i, v := range values {
			if v == nil {
				b.offs[i] = -(int64(len(b.raw)) + 1)
				continue
			}
			b.raw = append(b.raw, v.(string)...)
			b.offs[i] = int64(len(b.raw)) + 1
		}
	default:
		b.obj = append([]any(nil), values...)
	}
	return c
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	case float32:
		return int64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		panic("column: not an integer value")
	}
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		panic("column: not a numeric value")
	}
}

// IsNA reports whether the value at row i is missing.
func (c *Column) IsNA(i int) bool {
	switch c.k {
	case sliced:
		return c.parent.IsNA(c.ri.At(i))
	case constant:
		return c.cval == nil
	case casted:
		_, ok := c.valueAt(i)
		return !ok
	}
	switch c.st {
	case types.Void:
		return true
	case types.Bool8, types.Int8:
		return c.buf.i8[i] == types.NAInt8
	case types.Int16:
		return c.buf.i16[i] == types.NAInt16
	case types.Int32, types.Date32:
		return c.buf.i32[i] == types.NAInt32
	case types.Int64, types.Time64:
		return c.buf.i64[i] == types.NAInt64
	case types.Float32:
		f := c.buf.f32[i]
		return f != f
	case types.Float64:
		f := c.buf.f64[i]
		return f != f
	case types.Str32, types.Str64:
		return c.buf.strNA(i)
	default:
		return c.buf.obj[i] == nil
	}
}

// Int64At returns the value at row i widened to int64. ok is false for NA.
// Valid for bool, integer and time ltypes.
func (c *Column) Int64At(i int) (int64, bool) {
	v, ok := c.valueAt(i)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case int64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

// Float64At returns the value at row i widened to float64. ok is false for NA.
// Valid for bool, integer and float ltypes.
func (c *Column) Float64At(i int) (float64, bool) {
	v, ok := c.valueAt(i)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// StrAt returns the string value at row i. ok is false for NA.
func (c *Column) StrAt(i int) (string, bool) {
	v, ok := c.valueAt(i)
	if !ok {
		return "", false
	}
	s, isStr := v.(string)
	return s, isStr
}

// Get returns the boxed value at row i, or nil for NA. Integers box as int64,
// floats as float64, bool8 as bool, strings as string.
func (c *Column) Get(i int) any {
	v, ok := c.valueAt(i)
	if !ok {
		return nil
	}
	return v
}

// valueAt resolves row i through any view indirection and returns the boxed
// value. The boxed representation is the same one Get documents.
func (c *Column) valueAt(i int) (any, bool) {
	switch c.k {
	case sliced:
		return c.parent.valueAt(c.ri.At(i))
	case constant:
		if c.cval == nil {
			return nil, false
		}
		return normalizeBoxed(c.cval), true
	case casted:
		return castValue(c.parent, i, c.st)
	}
	switch c.st {
	case types.Void:
		return nil, false
	case types.Bool8:
		v := c.buf.i8[i]
		if v == types.NAInt8 {
			return nil, false
		}
		return v != 0, true
	case types.Int8:
		v := c.buf.i8[i]
		if v == types.NAInt8 {
			return nil, false
		}
		return int64(v), true
	case types.Int16:
		v := c.buf.i16[i]
		if v == types.NAInt16 {
			return nil, false
		}
		return int64(v), true
	case types.Int32, types.Date32:
		v := c.buf.i32[i]
		if v == types.NAInt32 {
			return nil, false
		}
		return int64(v), true
	case types.Int64, types.Time64:
		v := c.buf.i64[i]
		if v == types.NAInt64 {
			return nil, false
		}
		return v, true
	case types.Float32:
		v := c.buf.f32[i]
		if v != v {
			return nil, false
		}
		return float64(v), true
	case types.Float64:
		v := c.buf.f64[i]
		if v != v {
			return nil, false
		}
		return v, true
	case types.Str32, types.Str64:
		if c.buf.strNA(i) {
			return nil, false
		}
		start, end := c.buf.strRange(i)
		return string(c.buf.raw[start:end]), true
	default:
		v := c.buf.obj[i]
		if v == nil {
			return nil, false
		}
		return v, true
	}
}

func normalizeBoxed(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// Slice returns a zero-copy view of the column through ri. Slicing a view
// composes the row indices so indirection never nests.
func (c *Column) Slice(ri *RowIndex) *Column {
	if c.k == sliced {
		return &Column{st: c.st, n: ri.Len(), k: sliced, parent: c.parent, ri: Compose(ri, c.ri)}
	}
	if c.k == owned {
		c.buf.retain()
	}
	return &Column{st: c.st, n: ri.Len(), k: sliced, parent: c, ri: ri}
}

// Head returns the first n rows as a zero-copy view.
func (c *Column) Head(n int) *Column {
	if n > c.n {
		n = c.n
	}
	ri, _ := SliceRI(0, n, 1)
	return c.Slice(ri)
}

// Materialize forces the column into owned, contiguous storage. It is
// idempotent on already-owned columns. Large fixed-width columns are filled
// by the shared worker pool in parallel, each output slot written exactly
// once; an interrupt surfaces as a Cancelled error with the partial result
// discarded.
func (c *Column) Materialize() (*Column, error) {
	if c.k == owned {
		return c, nil
	}
	pool := parallel.Shared()
	n := c.n
	if c.st.IsString() || c.st == types.Obj64 {
		// Variable-width storage appends sequentially.
		if pool.Cancelled() {
			return nil, errors.NewCancelledError("materialize")
		}
		vals := make([]any, n)
		for i := 0; i < n; i++ {
			if v, ok := c.valueAt(i); ok {
				vals[i] = v
			}
		}
		return FromAnys(c.st, vals), nil
	}
	out := FromAnys(c.st, make([]any, n)) // all-NA skeleton of the right shape
	fill := func(start, end int) {
		for i := start; i < end; i++ {
			v, ok := c.valueAt(i)
			if !ok {
				continue
			}
			out.setRaw(i, v)
		}
	}
	if err := pool.Range("materialize", n, config.Get().ParallelThreshold, fill); err != nil {
		return nil, err
	}
	return out, nil
}

// setRaw writes a resolved boxed value into owned fixed-width storage.
func (c *Column) setRaw(i int, v any) {
	switch c.st {
	case types.Bool8:
		if v.(bool) {
			c.buf.i8[i] = 1
		} else {
			c.buf.i8[i] = 0
		}
	case types.Int8:
		c.buf.i8[i] = int8(v.(int64))
	case types.Int16:
		c.buf.i16[i] = int16(v.(int64))
	case types.Int32, types.Date32:
		c.buf.i32[i] = int32(v.(int64))
	case types.Int64, types.Time64:
		c.buf.i64[i] = v.(int64)
	case types.Float32:
		c.buf.f32[i] = float32(v.(float64))
	case types.Float64:
		c.buf.f64[i] = v.(float64)
	}
}

// MaterializeForWrite returns an owned column safe to mutate in place:
// a virtual column is materialized, and a shared buffer is copied first
// (copy-on-write), so no sibling view observes the mutation.
func (c *Column) MaterializeForWrite() (*Column, error) {
	m, err := c.Materialize()
	if err != nil {
		return nil, err
	}
	if m == c && m.buf.shared() {
		nb := m.buf.clone(m.st)
		m.buf.release()
		return &Column{st: m.st, n: m.n, k: owned, buf: nb}, nil
	}
	return m, nil
}

// Equal reports whether two columns have the same stype and the same logical
// value sequence, NA positions included.
func (c *Column) Equal(other *Column) bool {
	if c.st != other.st || c.n != other.n {
		return false
	}
	for i := 0; i < c.n; i++ {
		av, aok := c.valueAt(i)
		bv, bok := other.valueAt(i)
		if aok != bok {
			return false
		}
		if aok && av != bv {
			return false
		}
	}
	return true
}

// Compare orders rows i and j of the column: NA sorts below every value.
// Rows of obj64 columns have no defined order.
func (c *Column) Compare(i, j int) int {
	return CompareAcross(c, i, c, j)
}

// CompareAcross orders row i of column a against row j of column b. Both
// columns must share the same ltype (callers cast to a common stype first).
// NA compares below every concrete value; NaN never occurs (floats store it
// as NA).
func CompareAcross(a *Column, i int, b *Column, j int) int {
	av, aok := a.valueAt(i)
	bv, bok := b.valueAt(j)
	if !aok || !bok {
		if aok == bok {
			return 0
		}
		if !aok {
			return -1
		}
		return 1
	}
	switch x := av.(type) {
	case bool:
		y := bv.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	case int64:
		if y, isInt := bv.(int64); isInt {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
		return compareFloat(float64(x), bv.(float64))
	case float64:
		if y, isInt := bv.(int64); isInt {
			return compareFloat(x, float64(y))
		}
		return compareFloat(x, bv.(float64))
	case string:
		y := bv.(string)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	default:
		return 0
	}
}

func compareFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// CountNA returns the number of missing values.
func (c *Column) CountNA() int {
	na := 0
	for i := 0; i < c.n; i++ {
		if c.IsNA(i) {
			na++
		}
	}
	return na
}

// ParseNumeric is the permissive str->numeric parse used by casts: malformed
// values yield NA rather than an error.
func ParseNumeric(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
