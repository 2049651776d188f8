// Package types defines the storage-type (SType) and logical-type (LType)
// lattice shared by every column operation: element sizes, NA sentinels and
// the promotion rules used when columns of different types are combined.
package types

import (
	"fmt"
	"math"
)

// SType is the concrete physical storage type of a column.
type SType uint8

const (
	Void SType = iota
	Bool8
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	Str32
	Str64
	Obj64
	Date32
	Time64

	numSTypes
)

// LType is the coarse logical grouping used for semantic dispatch,
// independent of physical width.
type LType uint8

const (
	LVoid LType = iota
	LBool
	LInt
	LReal
	LTime
	LStr
	LObj
)

// NA sentinels for the fixed-width storage types. Floating point columns use
// NaN; strings mark NA with a negative end-offset; obj64 uses nil.
const (
	NAInt8  int8  = math.MinInt8
	NAInt16 int16 = math.MinInt16
	NAInt32 int32 = math.MinInt32
	NAInt64 int64 = math.MinInt64
)

var stypeNames = [numSTypes]string{
	Void:    "void",
	Bool8:   "bool8",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Float32: "float32",
	Float64: "float64",
	Str32:   "str32",
	Str64:   "str64",
	Obj64:   "obj64",
	Date32:  "date32",
	Time64:  "time64",
}

// String returns the canonical lowercase name of the stype.
func (s SType) String() string {
	if s < numSTypes {
		return stypeNames[s]
	}
	return fmt.Sprintf("stype(%d)", uint8(s))
}

// LType returns the logical type the stype belongs to. Every stype maps to
// exactly one ltype.
func (s SType) LType() LType {
	switch s {
	case Void:
		return LVoid
	case Bool8:
		return LBool
	case Int8, Int16, Int32, Int64:
		return LInt
	case Float32, Float64:
		return LReal
	case Date32, Time64:
		return LTime
	case Str32, Str64:
		return LStr
	default:
		return LObj
	}
}

// String returns the name of the ltype.
func (l LType) String() string {
	switch l {
	case LVoid:
		return "void"
	case LBool:
		return "bool"
	case LInt:
		return "int"
	case LReal:
		return "real"
	case LTime:
		return "time"
	case LStr:
		return "str"
	default:
		return "obj"
	}
}

// ElemSize returns the fixed element size in bytes, or -1 for types that are
// offset-indexed or opaque (strings, objects) and 0 for void.
func (s SType) ElemSize() int {
	switch s {
	case Void:
		return 0
	case Bool8, Int8:
		return 1
	case Int16:
		return 2
	case Int32, Float32, Date32:
		return 4
	case Int64, Float64, Time64:
		return 8
	default:
		return -1
	}
}

// IsNumeric reports whether arithmetic reducers apply to the stype.
// Void counts as numeric: an all-NA column participates in every reducer.
func (s SType) IsNumeric() bool {
	switch s.LType() {
	case LVoid, LBool, LInt, LReal:
		return true
	default:
		return false
	}
}

// IsString reports whether the stype stores variable-length text.
func (s SType) IsString() bool { return s.LType() == LStr }

// IsInteger reports whether the stype is a fixed-width integer.
func (s SType) IsInteger() bool { return s.LType() == LInt }

// IsFloat reports whether the stype is a floating point type.
func (s SType) IsFloat() bool { return s.LType() == LReal }

// promotion rank implements the total order
// void < bool < int8 < int16 < int32 < int64 < float32 < float64 < str < obj.
// Time types slot between the reals and strings; mixing them with numerics
// goes to str per the "cast upward, never lose silently" rule.
func (s SType) rank() int {
	switch s {
	case Void:
		return 0
	case Bool8:
		return 1
	case Int8:
		return 2
	case Int16:
		return 3
	case Int32:
		return 4
	case Int64:
		return 5
	case Float32:
		return 6
	case Float64:
		return 7
	case Date32:
		return 8
	case Time64:
		return 9
	case Str32:
		return 10
	case Str64:
		return 11
	default:
		return 12
	}
}

// Promote returns the smallest stype capable of representing values of both
// inputs without loss. It is a pure function and never fails.
func Promote(a, b SType) SType {
	if a == b {
		return a
	}
	lo, hi := a, b
	if lo.rank() > hi.rank() {
		lo, hi = hi, lo
	}
	// Void promotes to anything; an all-NA column takes the other side's type.
	if lo == Void {
		return hi
	}
	// Same-ltype pairs promote by width.
	if lo.LType() == hi.LType() {
		return hi
	}
	switch {
	case hi == Obj64:
		return Obj64
	case hi.IsString():
		// Anything mixed with a string renders as text.
		return hi
	case hi.LType() == LTime:
		// Time mixed with numerics has no exact common domain; render as text.
		return Str32
	case hi.IsFloat():
		// int64 does not fit float32 exactly; bump to float64.
		if lo == Int64 && hi == Float32 {
			return Float64
		}
		return hi
	default:
		// bool < int: the wider integer wins.
		return hi
	}
}

// PromoteAll folds Promote over a list of stypes. An empty list yields Void.
func PromoteAll(sts []SType) SType {
	out := Void
	for _, st := range sts {
		out = Promote(out, st)
	}
	return out
}
