package column

import (
	"encoding/binary"
	"math"

	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/types"
)

// EncodeBinary flattens the column into its snapshot wire form: one
// little-endian fixed-width blob, plus a raw string-bytes blob for string
// types (the first blob then holds the biased end-offsets). Virtual columns
// are materialized first. Object columns hold opaque references and cannot
// be serialized.
func (c *Column) EncodeBinary() (data, strdata []byte, err error) {
	if c.st == types.Obj64 {
		return nil, nil, errors.NewTypeError("save", "",
			"obj64 columns cannot be serialized")
	}
	m, err := c.Materialize()
	if err != nil {
		return nil, nil, err
	}
	b := m.buf
	switch m.st {
	case types.Void:
		return nil, nil, nil
	case types.Bool8, types.Int8:
		data = make([]byte, m.n)
		for i, v := range b.i8 {
			data[i] = byte(v)
		}
	case types.Int16:
		data = make([]byte, 2*m.n)
		for i, v := range b.i16 {
			binary.LittleEndian.PutUint16(data[2*i:], uint16(v))
		}
	case types.Int32, types.Date32:
		data = make([]byte, 4*m.n)
		for i, v := range b.i32 {
			binary.LittleEndian.PutUint32(data[4*i:], uint32(v))
		}
	case types.Int64, types.Time64:
		data = make([]byte, 8*m.n)
		for i, v := range b.i64 {
			binary.LittleEndian.PutUint64(data[8*i:], uint64(v))
		}
	case types.Float32:
		data = make([]byte, 4*m.n)
		for i, v := range b.f32 {
			binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(v))
		}
	case types.Float64:
		data = make([]byte, 8*m.n)
		for i, v := range b.f64 {
			binary.LittleEndian.PutUint64(data[8*i:], math.Float64bits(v))
		}
	case types.Str32, types.Str64:
		data = make([]byte, 8*m.n)
		for i, v := range b.offs {
			binary.LittleEndian.PutUint64(data[8*i:], uint64(v))
		}
		strdata = append([]byte(nil), b.raw...)
	}
	return data, strdata, nil
}

// DecodeBinary rebuilds an owned column of n rows from its snapshot wire
// form. The blobs must have been produced by EncodeBinary for the same
// stype and row count.
func DecodeBinary(st types.SType, n int, data, strdata []byte) (*Column, error) {
	if st == types.Obj64 {
		return nil, errors.NewTypeError("open", "",
			"obj64 columns cannot be deserialized")
	}
	if want := expectedBlobSize(st, n); want >= 0 && len(data) != want {
		return nil, errors.NewIOError("open",
			"blob for %s column holds %d bytes, expected %d", st, len(data), want)
	}
	if st == types.Void {
		return NewVoid(n), nil
	}
	b := newBuffer()
	c := &Column{st: st, n: n, k: owned, buf: b}
	switch st {
	case types.Bool8, types.Int8:
		b.i8 = make([]int8, n)
		for i := range b.i8 {
			b.i8[i] = int8(data[i])
		}
	case types.Int16:
		b.i16 = make([]int16, n)
		for i := range b.i16 {
			b.i16[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
		}
	case types.Int32, types.Date32:
		b.i32 = make([]int32, n)
		for i := range b.i32 {
			b.i32[i] = int32(binary.LittleEndian.Uint32(data[4*i:]))
		}
	case types.Int64, types.Time64:
		b.i64 = make([]int64, n)
		for i := range b.i64 {
			b.i64[i] = int64(binary.LittleEndian.Uint64(data[8*i:]))
		}
	case types.Float32:
		b.f32 = make([]float32, n)
		for i := range b.f32 {
			b.f32[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		}
	case types.Float64:
		b.f64 = make([]float64, n)
		for i := range b.f64 {
			b.f64[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
		}
	case types.Str32, types.Str64:
		b.offs = make([]int64, n)
		for i := range b.offs {
			b.offs[i] = int64(binary.LittleEndian.Uint64(data[8*i:]))
		}
		b.raw = append([]byte(nil), strdata...)
	}
	return c, nil
}

// expectedBlobSize returns -1 when the size is not fixed by n alone.
func expectedBlobSize(st types.SType, n int) int {
	switch st {
	case types.Void:
		return 0
	case types.Str32, types.Str64:
		return 8 * n
	default:
		if sz := st.ElemSize(); sz > 0 {
			return sz * n
		}
		return -1
	}
}
