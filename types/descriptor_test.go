package types

import "testing"

func TestDescriptorArity(t *testing.T) {
	tests := []struct {
		desc Descriptor
		want int
	}{
		{DescVoid, 0},
		{DescInt, 1},
		{DescBoolean, 1},
		{DescLong, 2},
		{DescDouble, 2},
		{Descriptor("Ljava/lang/String;"), 1},
	}
	for _, tt := range tests {
		if got := tt.desc.Arity(); got != tt.want {
			t.Errorf("%s.Arity() = %d, want %d", tt.desc, got, tt.want)
		}
	}
}

func TestDescriptorIsTwoSlot(t *testing.T) {
	for _, d := range []Descriptor{DescLong, DescDouble} {
		if !d.IsTwoSlot() {
			t.Errorf("%s.IsTwoSlot() = false, want true", d)
		}
	}
	for _, d := range []Descriptor{DescInt, DescVoid, DescFloat, Descriptor("Ljava/lang/Object;")} {
		if d.IsTwoSlot() {
			t.Errorf("%s.IsTwoSlot() = true, want false", d)
		}
	}
}

func TestDescriptorClassName(t *testing.T) {
	if got := Descriptor("Ljava/lang/String;").ClassName(); got != "java/lang/String" {
		t.Errorf("ClassName() = %q, want %q", got, "java/lang/String")
	}
	if got := DescInt.ClassName(); got != "" {
		t.Errorf("ClassName() on a primitive = %q, want \"\"", got)
	}
}

func TestDescriptorIsPrimitiveAndReference(t *testing.T) {
	if !DescInt.IsPrimitive() || DescInt.IsReference() {
		t.Errorf("DescInt should be primitive, not reference")
	}
	ref := Descriptor("Ljava/lang/Object;")
	if ref.IsPrimitive() || !ref.IsReference() {
		t.Errorf("Ljava/lang/Object; should be reference, not primitive")
	}
	arr := Descriptor("[I")
	if !arr.IsReference() {
		t.Errorf("array descriptor [I should report IsReference() true")
	}
}

func TestDescriptorCheckIntBounds(t *testing.T) {
	tests := []struct {
		desc Descriptor
		v    int32
		ok   bool
	}{
		{DescBoolean, 0, true},
		{DescBoolean, 1, true},
		{DescBoolean, 2, false},
		{DescByte, 127, true},
		{DescByte, 128, false},
		{DescByte, -128, true},
		{DescByte, -129, false},
		{DescShort, 32767, true},
		{DescShort, 32768, false},
		{DescChar, 65535, true},
		{DescChar, -1, false},
		{DescInt, 2147483647, true},
		{DescLong, 999999, true}, // not narrowed; always true
	}
	for _, tt := range tests {
		if got := tt.desc.CheckIntBounds(tt.v); got != tt.ok {
			t.Errorf("%s.CheckIntBounds(%d) = %v, want %v", tt.desc, tt.v, got, tt.ok)
		}
	}
}
