package io

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/coldframe/coldframe/internal/column"
	"github.com/coldframe/coldframe/internal/errors"
	"github.com/coldframe/coldframe/internal/frame"
	"github.com/coldframe/coldframe/internal/types"
)

// arrowType maps an stype to its Arrow equivalent. Void travels as a
// fully-null int8 column; obj64 has no wire representation.
func arrowType(st types.SType) (arrow.DataType, error) {
	switch st {
	case types.Void, types.Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case types.Bool8:
		return arrow.FixedWidthTypes.Boolean, nil
	case types.Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case types.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case types.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case types.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case types.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case types.Str32, types.Str64:
		return arrow.BinaryTypes.String, nil
	case types.Date32:
		return arrow.FixedWidthTypes.Date32, nil
	case types.Time64:
		return arrow.FixedWidthTypes.Time64us, nil
	default:
		return nil, errors.NewTypeError("arrow", "",
			"%s columns have no Arrow representation", st)
	}
}

// ToRecord converts the frame to an Arrow record batch. The caller releases
// the record.
func ToRecord(f *frame.Frame, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	fields := make([]arrow.Field, f.NCols())
	for i := 0; i < f.NCols(); i++ {
		dt, err := arrowType(f.ColAt(i).SType())
		if err != nil {
			return nil, errors.NewTypeError("arrow", f.NameAt(i),
				"%s column has no Arrow representation", f.ColAt(i).SType())
		}
		fields[i] = arrow.Field{Name: f.NameAt(i), Type: dt, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for ci := 0; ci < f.NCols(); ci++ {
		c := f.ColAt(ci)
		if err := appendColumn(builder.Field(ci), c); err != nil {
			return nil, err
		}
	}
	return builder.NewRecord(), nil
}

// appendColumn feeds one column's values into an Arrow builder, NA as null.
func appendColumn(b array.Builder, c *column.Column) error {
	for i := 0; i < c.NRows(); i++ {
		if c.IsNA(i) {
			b.AppendNull()
			continue
		}
		switch bt := b.(type) {
		case *array.BooleanBuilder:
			v, _ := c.Int64At(i)
			bt.Append(v != 0)
		case *array.Int8Builder:
			v, _ := c.Int64At(i)
			bt.Append(int8(v))
		case *array.Int16Builder:
			v, _ := c.Int64At(i)
			bt.Append(int16(v))
		case *array.Int32Builder:
			v, _ := c.Int64At(i)
			bt.Append(int32(v))
		case *array.Int64Builder:
			v, _ := c.Int64At(i)
			bt.Append(v)
		case *array.Float32Builder:
			v, _ := c.Float64At(i)
			bt.Append(float32(v))
		case *array.Float64Builder:
			v, _ := c.Float64At(i)
			bt.Append(v)
		case *array.StringBuilder:
			v, _ := c.StrAt(i)
			bt.Append(v)
		case *array.Date32Builder:
			v, _ := c.Int64At(i)
			bt.Append(arrow.Date32(v))
		case *array.Time64Builder:
			v, _ := c.Int64At(i)
			bt.Append(arrow.Time64(v))
		default:
			return errors.NewTypeError("arrow", "",
				"unsupported Arrow builder %T", b)
		}
	}
	return nil
}

// fromEmptyType builds a 0-row column matching an Arrow type.
func fromEmptyType(dt arrow.DataType) (*column.Column, error) {
	var st types.SType
	switch dt.ID() {
	case arrow.BOOL:
		st = types.Bool8
	case arrow.INT8:
		st = types.Int8
	case arrow.INT16:
		st = types.Int16
	case arrow.INT32:
		st = types.Int32
	case arrow.INT64:
		st = types.Int64
	case arrow.FLOAT32:
		st = types.Float32
	case arrow.FLOAT64:
		st = types.Float64
	case arrow.STRING:
		st = types.Str32
	case arrow.DATE32:
		st = types.Date32
	case arrow.TIME64:
		st = types.Time64
	default:
		return nil, errors.NewTypeError("arrow", "", "unsupported Arrow type %s", dt)
	}
	return column.FromAnys(st, nil), nil
}

// FromRecord converts an Arrow record batch into a frame, nulls becoming NA.
func FromRecord(rec arrow.Record) (*frame.Frame, error) {
	schema := rec.Schema()
	pairs := make([]frame.NamedColumn, rec.NumCols())
	for ci := 0; ci < int(rec.NumCols()); ci++ {
		col, err := fromArray(rec.Column(ci))
		if err != nil {
			return nil, errors.NewTypeError("arrow", schema.Field(ci).Name,
				"unsupported Arrow type %s", schema.Field(ci).Type)
		}
		pairs[ci] = frame.NamedColumn{Name: schema.Field(ci).Name, Col: col}
	}
	return frame.New(pairs...)
}

// fromArray converts one Arrow array into an owned column.
func fromArray(arr arrow.Array) (*column.Column, error) {
	n := arr.Len()
	vals := make([]any, n)
	var st types.SType
	switch a := arr.(type) {
	case *array.Boolean:
		st = types.Bool8
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = a.Value(i)
			}
		}
	case *array.Int8:
		st = types.Int8
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = int64(a.Value(i))
			}
		}
	case *array.Int16:
		st = types.Int16
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = int64(a.Value(i))
			}
		}
	case *array.Int32:
		st = types.Int32
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = int64(a.Value(i))
			}
		}
	case *array.Int64:
		st = types.Int64
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = a.Value(i)
			}
		}
	case *array.Float32:
		st = types.Float32
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = float64(a.Value(i))
			}
		}
	case *array.Float64:
		st = types.Float64
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = a.Value(i)
			}
		}
	case *array.String:
		st = types.Str32
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = a.Value(i)
			}
		}
	case *array.Date32:
		st = types.Date32
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = int64(a.Value(i))
			}
		}
	case *array.Time64:
		st = types.Time64
		for i := 0; i < n; i++ {
			if a.IsValid(i) {
				vals[i] = int64(a.Value(i))
			}
		}
	default:
		return nil, errors.NewTypeError("arrow", "", "unsupported array %T", arr)
	}
	return column.FromAnys(st, vals), nil
}
