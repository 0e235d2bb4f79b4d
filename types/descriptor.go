package types

import "strings"

// Descriptor is a JVM field/return-type descriptor: "V", "I", "J", "D",
// "F", "Z", "B", "C", "S", an array "[...", or a reference "Lclass/Name;".
type Descriptor string

const (
	DescVoid    Descriptor = "V"
	DescInt     Descriptor = "I"
	DescLong    Descriptor = "J"
	DescFloat   Descriptor = "F"
	DescDouble  Descriptor = "D"
	DescBoolean Descriptor = "Z"
	DescByte    Descriptor = "B"
	DescChar    Descriptor = "C"
	DescShort   Descriptor = "S"
)

// Arity is the number of operand-stack/local slots a value of this
// descriptor occupies: 0 for void, 2 for long/double, 1 otherwise
// (spec.md §4.6, §8 invariant on nested-invocation return arity).
func (d Descriptor) Arity() int {
	switch d {
	case DescVoid:
		return 0
	case DescLong, DescDouble:
		return 2
	default:
		return 1
	}
}

// IsTwoSlot reports whether this descriptor's return value arrives as the
// two-argument (rv1, rv2) form (spec.md §4.1 "Resume").
func (d Descriptor) IsTwoSlot() bool {
	return d == DescLong || d == DescDouble
}

// IsPrimitive reports whether this descriptor names a JVM primitive type
// (as opposed to a reference or array type).
func (d Descriptor) IsPrimitive() bool {
	switch d {
	case DescVoid, DescInt, DescLong, DescFloat, DescDouble, DescBoolean, DescByte, DescChar, DescShort:
		return true
	default:
		return false
	}
}

// IsReference reports whether this descriptor names a class or array type.
func (d Descriptor) IsReference() bool {
	s := string(d)
	return strings.HasPrefix(s, "L") || strings.HasPrefix(s, "[")
}

// ClassName extracts "java/lang/String" from "Ljava/lang/String;". Returns
// "" for non-reference descriptors.
func (d Descriptor) ClassName() string {
	s := string(d)
	if !strings.HasPrefix(s, "L") || !strings.HasSuffix(s, ";") {
		return ""
	}
	return s[1 : len(s)-1]
}

// CheckIntBounds reports whether v is a legal int32 carrier value for a
// sub-int primitive descriptor (Z, B, S, C, I). Non-narrowing descriptors
// (long/float/double/void/reference) always report true — they are
// validated by other means in the return-value sanity check.
func (d Descriptor) CheckIntBounds(v int32) bool {
	min, max, ok := primitiveBounds(d)
	if !ok {
		return true
	}
	return int64(v) >= min && int64(v) <= max
}

// primitiveBounds gives the [min, max] a primitive descriptor's int32
// carrier may legally hold, per JVM width rules. Long/float/double are not
// bounds-checked here — only the sub-int width types need narrowing.
func primitiveBounds(d Descriptor) (min, max int64, ok bool) {
	switch d {
	case DescBoolean:
		return 0, 1, true
	case DescByte:
		return -128, 127, true
	case DescShort:
		return -32768, 32767, true
	case DescChar:
		return 0, 65535, true
	case DescInt:
		return -2147483648, 2147483647, true
	default:
		return 0, 0, false
	}
}
