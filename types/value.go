package types

import "fmt"

// Kind is the JVM value kind a Value carries on an operand stack or in a
// locals slot.
type Kind int

const (
	KindInt Kind = iota
	KindLong
	KindFloat
	KindDouble
	KindBoolean
	KindReference
	KindReturnAddress
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindReference:
		return "reference"
	case KindReturnAddress:
		return "returnAddress"
	default:
		return "unknown"
	}
}

// Value is one JVM-level value: a locals slot entry, an operand stack
// entry, an argument, or a return value. Two-slot values (long, double)
// are represented by a single Value carrying Kind() == KindLong/KindDouble;
// the frame/thread layer is responsible for the JVM's two-slot bookkeeping
// at the call boundary (spec.md §4.1, §4.6), not Value itself.
type Value interface {
	Kind() Kind
	String() string
}

// IntValue is a 32-bit JVM int (also used for byte/short/char/boolean on
// the operand stack, per JVM convention).
type IntValue struct {
	Val int32
}

func NewInt(v int32) IntValue     { return IntValue{Val: v} }
func (i IntValue) Kind() Kind     { return KindInt }
func (i IntValue) String() string { return fmt.Sprintf("%d", i.Val) }

// LongValue is a 64-bit JVM long.
type LongValue struct {
	Val int64
}

func NewLong(v int64) LongValue    { return LongValue{Val: v} }
func (l LongValue) Kind() Kind     { return KindLong }
func (l LongValue) String() string { return fmt.Sprintf("%d", l.Val) }

// FloatValue is a 32-bit JVM float.
type FloatValue struct {
	Val float32
}

func NewFloat(v float32) FloatValue { return FloatValue{Val: v} }
func (f FloatValue) Kind() Kind     { return KindFloat }
func (f FloatValue) String() string { return fmt.Sprintf("%g", f.Val) }

// DoubleValue is a 64-bit JVM double.
type DoubleValue struct {
	Val float64
}

func NewDouble(v float64) DoubleValue { return DoubleValue{Val: v} }
func (d DoubleValue) Kind() Kind      { return KindDouble }
func (d DoubleValue) String() string  { return fmt.Sprintf("%g", d.Val) }

// BoolValue is a JVM boolean, stored as an int on the real operand stack
// but kept distinct here so NativeFrame.Run can adapt a native's boolean
// return to the int 1/0 form; the return-value sanity check accepts only
// that int form for a Z descriptor.
type BoolValue struct {
	Val bool
}

func NewBool(v bool) BoolValue { return BoolValue{Val: v} }
func (b BoolValue) Kind() Kind { return KindBoolean }
func (b BoolValue) String() string {
	if b.Val {
		return "true"
	}
	return "false"
}

// Ref is a heap object reference. ClassName is the runtime class of the
// referenced object ("" for the null reference); the sanity check casts
// against it via Class.IsCastable rather than inspecting the heap,
// since heap layout is out of this core's scope.
type Ref struct {
	ClassName string
	Handle    any // opaque heap handle; nil means the null reference
}

func NewRef(className string, handle any) Ref { return Ref{ClassName: className, Handle: handle} }
func Null() Ref                               { return Ref{} }
func (r Ref) IsNull() bool                    { return r.Handle == nil }
func (r Ref) Kind() Kind                      { return KindReference }
func (r Ref) String() string {
	if r.IsNull() {
		return "null"
	}
	return fmt.Sprintf("ref<%s>", r.ClassName)
}
