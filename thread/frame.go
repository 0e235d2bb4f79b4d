package thread

import "loom/types"

// FrameType tags which of the three StackFrame variants a Frame is.
// Thread uses it to recognize internal frames (no return-value sanity
// check, popped before an exception walk); the dispatch loop itself calls
// Frame.Run through the interface.
type FrameType int

const (
	FrameBytecode FrameType = iota
	FrameNative
	FrameInternal
)

func (ft FrameType) String() string {
	switch ft {
	case FrameBytecode:
		return "bytecode"
	case FrameNative:
		return "native"
	case FrameInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Frame is one activation record on a Thread's call stack.
type Frame interface {
	Run(t *Thread)
	ScheduleResume(t *Thread, rv1, rv2 types.Value)
	ScheduleException(t *Thread, e types.Value) bool
	Type() FrameType
	GetStackTraceFrame() *types.StackTraceEntry
}

// BytecodeFrame drives the interpreter dispatch loop for one method
// activation.
type BytecodeFrame struct {
	Method       Method
	PC           uint32
	Locals       []types.Value
	OperandStack []types.Value

	returnToThreadLoop bool
	lockedMethodLock   bool
}

// NewBytecodeFrame builds a frame with a locals array sized to the
// method's max_locals, with args occupying the leading slots.
func NewBytecodeFrame(method Method, args []types.Value) *BytecodeFrame {
	locals := make([]types.Value, method.MaxLocals())
	copy(locals, args)
	return &BytecodeFrame{
		Method:       method,
		Locals:       locals,
		OperandStack: make([]types.Value, 0, 8),
	}
}

func (f *BytecodeFrame) Type() FrameType { return FrameBytecode }

// Yield tells Run to stop dispatching after the current opcode returns.
// Every opcode that hands control back to the thread loop — invoke,
// return, athrow, monitor acquire/wait, anything that calls a Thread
// method capable of changing status — must call this first, since
// opcode implementations typically live outside this package and have
// no other way to clear the dispatch loop's condition.
func (f *BytecodeFrame) Yield() { f.returnToThreadLoop = true }

// Run executes opcodes until one of them requests a return to the thread
// loop (method invoke, monitor block, async wait, return, throw).
func (f *BytecodeFrame) Run(t *Thread) {
	if f.Method.IsSynchronized() && !f.lockedMethodLock {
		monitor := f.Method.MethodLock(t, f)
		acquired := monitor.Enter(t, func() {
			f.lockedMethodLock = true
			t.SetStatus(types.Runnable, nil)
		})
		if !acquired {
			// Enter already transitioned the thread to BLOCKED; this
			// activation does not advance until onAcquired fires.
			return
		}
		f.lockedMethodLock = true
	}

	f.returnToThreadLoop = false
	for !f.returnToThreadLoop {
		code := f.Method.Code()
		op := code[f.PC]
		op.Execute(t, f)
	}
}

// ScheduleResume advances past the invoking instruction and pushes the
// nested call's return value(s) onto the operand stack. Two-slot returns
// (long, double) arrive as (rv1, nil).
func (f *BytecodeFrame) ScheduleResume(t *Thread, rv1, rv2 types.Value) {
	code := f.Method.Code()
	code[f.PC].IncPC(f)
	if rv1 != nil {
		f.OperandStack = append(f.OperandStack, rv1)
	}
	if rv2 != nil {
		f.OperandStack = append(f.OperandStack, rv2)
	}
}

// ScheduleException walks this frame's exception table looking for a
// handler whose range covers the current pc, in declaration order. An
// unresolved catch_type suspends the thread for asynchronous resolution
// of every remaining unresolved handler in range, then re-throws on
// completion.
func (f *BytecodeFrame) ScheduleException(t *Thread, e types.Value) bool {
	handlers := f.Method.ExceptionHandlers()
	loader := f.Method.Class().Loader()

	var excClass Class
	if ref, ok := e.(types.Ref); ok && !ref.IsNull() {
		excClass = loader.GetResolvedClass(ref.ClassName)
		if excClass == nil {
			excClass = t.bootstrapLoader.GetResolvedClass(ref.ClassName)
		}
	}

	for i := 0; i < len(handlers); i++ {
		h := handlers[i]
		if f.PC < h.StartPC || f.PC >= h.EndPC {
			continue
		}
		if h.CatchType == AnyCatchType {
			f.selectHandler(h, e)
			return true
		}
		catchClass := loader.GetResolvedClass(h.CatchType)
		if catchClass != nil {
			if excClass != nil && excClass.IsCastable(catchClass) {
				f.selectHandler(h, e)
				return true
			}
			continue
		}

		// h's catch_type is unresolved: collect it plus every remaining
		// in-range, unresolved catch_type and resolve them all together.
		names := []string{h.CatchType}
		for j := i + 1; j < len(handlers); j++ {
			rem := handlers[j]
			if f.PC < rem.StartPC || f.PC >= rem.EndPC {
				continue
			}
			if rem.CatchType == AnyCatchType {
				continue
			}
			if loader.GetResolvedClass(rem.CatchType) == nil {
				names = append(names, rem.CatchType)
			}
		}
		t.SetStatus(types.AsyncWaiting, nil)
		loader.ResolveClasses(t, names, func() {
			t.ThrowException(e)
		})
		return true
	}

	if f.Method.IsSynchronized() && f.lockedMethodLock {
		f.Method.MethodLock(t, f).Exit(t)
		f.lockedMethodLock = false
	}
	return false
}

func (f *BytecodeFrame) selectHandler(h ExceptionHandler, e types.Value) {
	f.OperandStack = f.OperandStack[:0]
	f.OperandStack = append(f.OperandStack, e)
	f.PC = h.HandlerPC
}

func (f *BytecodeFrame) GetStackTraceFrame() *types.StackTraceEntry {
	stack := make([]types.Value, len(f.OperandStack))
	copy(stack, f.OperandStack)
	locals := make([]types.Value, len(f.Locals))
	copy(locals, f.Locals)
	return &types.StackTraceEntry{
		MethodName:     f.Method.FullSignature(),
		PC:             f.PC,
		StackSnapshot:  stack,
		LocalsSnapshot: locals,
	}
}

// NativeFrame runs a native function exactly once per activation.
type NativeFrame struct {
	Method Method
	Args   []types.Value

	ran bool
}

func NewNativeFrame(method Method, args []types.Value) *NativeFrame {
	return &NativeFrame{Method: method, Args: args}
}

func (f *NativeFrame) Type() FrameType { return FrameNative }

func (f *NativeFrame) Run(t *Thread) {
	if f.ran {
		t.fatal("native frame run more than once", nil)
		return
	}
	f.ran = true

	args := f.Method.ConvertArgs(t, f.Args)
	fn := f.Method.NativeFunction()
	rv := fn(t, args)

	// A native that threw, made a nested call, or async-waited has
	// already moved the thread on; only step off synchronously if this
	// frame is still the one running.
	if t.GetStatus() != types.Running && t.GetStatus() != types.Runnable {
		return
	}
	if t.topFrame() != Frame(f) {
		return
	}

	switch f.Method.ReturnType() {
	case types.DescVoid:
		t.AsyncReturn(nil, nil)
	case types.DescLong, types.DescDouble:
		t.AsyncReturn(rv, nil)
	case types.DescBoolean:
		if bv, ok := rv.(types.BoolValue); ok {
			if bv.Val {
				t.AsyncReturn(types.NewInt(1), nil)
			} else {
				t.AsyncReturn(types.NewInt(0), nil)
			}
			return
		}
		t.AsyncReturn(rv, nil)
	default:
		t.AsyncReturn(rv, nil)
	}
}

// ScheduleResume is a no-op: a native frame left on top after a nested
// call steps itself off via AsyncReturn, not via being resumed.
func (f *NativeFrame) ScheduleResume(t *Thread, rv1, rv2 types.Value) {}

// ScheduleException always declines: native frames never catch
// bytecode-level exceptions.
func (f *NativeFrame) ScheduleException(t *Thread, e types.Value) bool { return false }

func (f *NativeFrame) GetStackTraceFrame() *types.StackTraceEntry {
	return &types.StackTraceEntry{MethodName: f.Method.FullSignature()}
}

// InternalFrame is a continuation boundary letting host code call a JVM
// method and be notified on completion.
type InternalFrame struct {
	callback func(errVal, rv types.Value)

	isException bool
	value       types.Value
}

func NewInternalFrame(cb func(errVal, rv types.Value)) *InternalFrame {
	return &InternalFrame{callback: cb}
}

func (f *InternalFrame) Type() FrameType { return FrameInternal }

func (f *InternalFrame) Run(t *Thread) {
	t.popFrame()
	t.SetStatus(types.AsyncWaiting, nil)
	if f.isException {
		f.callback(f.value, nil)
	} else {
		f.callback(nil, f.value)
	}
}

func (f *InternalFrame) ScheduleResume(t *Thread, rv1, rv2 types.Value) {
	f.isException = false
	f.value = rv1
}

func (f *InternalFrame) ScheduleException(t *Thread, e types.Value) bool {
	f.isException = true
	f.value = e
	return true
}

// GetStackTraceFrame returns nil — internal frames are not
// language-visible.
func (f *InternalFrame) GetStackTraceFrame() *types.StackTraceEntry { return nil }
