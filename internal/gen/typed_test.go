package gen

import (
	"testing"

	"github.com/peirick/cito/internal/ast"
)

func TestTypeCodeRanges(t *testing.T) {
	cases := []struct {
		lo, hi int64
		want   TypeId
	}{
		{0, 1, UInt8},
		{0, 255, UInt8},
		{0, 256, UInt16},
		{0, 65535, UInt16},
		{0, 65536, UInt32},
		{0, 0xffffffff, UInt32},
		{0, 0x100000000, Int64},
		{-1, 1, Int8},
		{-128, 127, Int8},
		{-129, 0, Int16},
		{-1, 200, Int16},
		{-1, 0x7fffffff, Int32},
		{-1, 0x80000000, Int64},
	}
	for _, c := range cases {
		got := TypeCode(&ast.RangeType{Lo: c.lo, Hi: c.hi}, false)
		if got != c.want {
			t.Errorf("TypeCode([%d..%d]) = %d, want %d", c.lo, c.hi, got, c.want)
		}
	}
}

func TestTypeCodePromote(t *testing.T) {
	if got := TypeCode(&ast.RangeType{Lo: 0, Hi: 10}, true); got != Int32 {
		t.Errorf("promote [0..10] = %d, want Int32", got)
	}
	if got := TypeCode(&ast.NumericType{Kind: ast.NumU8}, true); got != Int32 {
		t.Errorf("promote u8 = %d, want Int32", got)
	}
	if got := TypeCode(&ast.NumericType{Kind: ast.NumU32}, true); got != UInt32 {
		t.Errorf("promote u32 = %d, want UInt32", got)
	}
	if got := TypeCode(&ast.NumericType{Kind: ast.NumI64}, true); got != Int64 {
		t.Errorf("promote i64 = %d, want Int64", got)
	}
}

func TestArrayElementId(t *testing.T) {
	if got := ArrayElementId(&ast.NumericType{Kind: ast.NumI64}); got != Double {
		t.Errorf("i64 element = %d, want Double fallback", got)
	}
	if got := ArrayElementId(&ast.NumericType{Kind: ast.NumU8}); got != UInt8 {
		t.Errorf("u8 element = %d, want UInt8", got)
	}
	if got := ArrayElementId(&ast.RangeType{Lo: 0, Hi: 4000}); got != UInt16 {
		t.Errorf("[0..4000] element = %d, want UInt16", got)
	}
}

func TestIsUnsigned32(t *testing.T) {
	if !IsUnsigned32(&ast.NumericType{Kind: ast.NumU32}) {
		t.Error("u32 must be unsigned 32")
	}
	if !IsUnsigned32(&ast.RangeType{Lo: 0, Hi: 0xffffffff}) {
		t.Error("[0..2^32-1] must be unsigned 32")
	}
	if IsUnsigned32(&ast.NumericType{Kind: ast.NumU16}) {
		t.Error("u16 promotes to Int32, not unsigned 32")
	}
	if IsUnsigned32(&ast.StringType{}) {
		t.Error("string is not unsigned 32")
	}
}
