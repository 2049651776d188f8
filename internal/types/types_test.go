package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSTypeLType(t *testing.T) {
	tests := []struct {
		st SType
		lt LType
	}{
		{Void, LVoid},
		{Bool8, LBool},
		{Int8, LInt},
		{Int16, LInt},
		{Int32, LInt},
		{Int64, LInt},
		{Float32, LReal},
		{Float64, LReal},
		{Str32, LStr},
		{Str64, LStr},
		{Obj64, LObj},
		{Date32, LTime},
		{Time64, LTime},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.lt, tt.st.LType(), "stype %s", tt.st)
	}
}

func TestElemSize(t *testing.T) {
	assert.Equal(t, 0, Void.ElemSize())
	assert.Equal(t, 1, Bool8.ElemSize())
	assert.Equal(t, 1, Int8.ElemSize())
	assert.Equal(t, 2, Int16.ElemSize())
	assert.Equal(t, 4, Int32.ElemSize())
	assert.Equal(t, 8, Int64.ElemSize())
	assert.Equal(t, 4, Float32.ElemSize())
	assert.Equal(t, 8, Float64.ElemSize())
	assert.Equal(t, -1, Str32.ElemSize())
	assert.Equal(t, -1, Obj64.ElemSize())
}

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b, want SType
	}{
		{Void, Int32, Int32},
		{Void, Void, Void},
		{Bool8, Int8, Int8},
		{Int8, Int64, Int64},
		{Int8, Float64, Float64},
		{Int32, Float32, Float32},
		{Int64, Float32, Float64},
		{Int64, Float64, Float64},
		{Float32, Float64, Float64},
		{Int64, Str32, Str32},
		{Float64, Str64, Str64},
		{Str32, Str64, Str64},
		{Str32, Obj64, Obj64},
		{Bool8, Bool8, Bool8},
		{Date32, Time64, Time64},
		{Date32, Int32, Str32},
		{Time64, Str64, Str64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Promote(tt.a, tt.b), "promote(%s, %s)", tt.a, tt.b)
		assert.Equal(t, tt.want, Promote(tt.b, tt.a), "promote(%s, %s)", tt.b, tt.a)
	}
}

func TestPromoteAll(t *testing.T) {
	assert.Equal(t, Void, PromoteAll(nil))
	assert.Equal(t, Float64, PromoteAll([]SType{Int8, Bool8, Float64}))
	assert.Equal(t, Str32, PromoteAll([]SType{Int8, Str32}))
}

func TestPromoteIsMonotone(t *testing.T) {
	// The promoted type is always >= each input in the total order.
	all := []SType{Void, Bool8, Int8, Int16, Int32, Int64, Float32, Float64, Str32, Str64, Obj64}
	for _, a := range all {
		for _, b := range all {
			p := Promote(a, b)
			assert.GreaterOrEqual(t, p.rank(), a.rank())
			assert.GreaterOrEqual(t, p.rank(), b.rank())
		}
	}
}
