package thread

import (
	"sync"
	"sync/atomic"

	"loom/trace"
	"loom/types"
)

var nextThreadID int64

// Thread owns a call stack and drives it through a status state machine.
// Everything mutated from more than one goroutine boundary — status,
// stack, interrupted, monitor — sits behind mu and is reached only
// through the locked accessors below, the same GetX/SetX discipline the
// teacher applies to task.Task.
type Thread struct {
	id              types.ThreadID
	pool            PoolNotifier
	bootstrapLoader ClassLoader

	mu          sync.RWMutex
	status      types.Status
	stack       []Frame
	interrupted bool
	monitor     Monitor
}

// New creates a thread in status NEW. Pool implementations mint IDs via
// New and immediately register the result, mirroring the teacher's
// atomic.AddInt64-based task ID counter.
func New(pool PoolNotifier, bootstrapLoader ClassLoader) *Thread {
	return &Thread{
		id:              types.ThreadID(atomic.AddInt64(&nextThreadID, 1)),
		pool:            pool,
		bootstrapLoader: bootstrapLoader,
		status:          types.New,
	}
}

func (t *Thread) ID() types.ThreadID { return t.id }

// GetStatus returns the current status (thread-safe).
func (t *Thread) GetStatus() types.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// IsInterrupted reports the interrupt flag.
func (t *Thread) IsInterrupted() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.interrupted
}

// SetInterrupted sets the interrupt flag. Checked only by explicit
// host/native code (monitor wait, sleep, park) — there is no automatic
// preemption.
func (t *Thread) SetInterrupted(b bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interrupted = b
}

// GetMonitorBlock returns the monitor this thread is currently blocked,
// waiting, or timed-waiting on, or nil.
func (t *Thread) GetMonitorBlock() Monitor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.monitor
}

// GetStackTrace captures an independent snapshot of every frame's
// contribution to the current stack, bottom to top.
func (t *Thread) GetStackTrace() []types.StackTraceEntry {
	t.mu.RLock()
	frames := make([]Frame, len(t.stack))
	copy(frames, t.stack)
	t.mu.RUnlock()

	entries := make([]types.StackTraceEntry, 0, len(frames))
	for _, f := range frames {
		if e := f.GetStackTraceFrame(); e != nil {
			entries = append(entries, *e)
		}
	}
	return entries
}

// CurrentMethod returns the method of the topmost bytecode or native
// frame, or nil if the stack is empty or topped by an internal frame.
func (t *Thread) CurrentMethod() Method {
	switch f := t.topFrame().(type) {
	case *BytecodeFrame:
		return f.Method
	case *NativeFrame:
		return f.Method
	default:
		return nil
	}
}

func (t *Thread) pushFrame(f Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stack = append(t.stack, f)
}

func (t *Thread) popFrame() Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.stack) == 0 {
		return nil
	}
	f := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return f
}

func (t *Thread) topFrame() Frame {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.stack) == 0 {
		return nil
	}
	return t.stack[len(t.stack)-1]
}

func (t *Thread) stackLen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.stack)
}

// legalTransition reports whether the direct from->to edge is permitted
// by the state machine in spec §4.4. Same-state, the RUNNING->RUNNABLE
// collapse, and the TERMINATED resurrection path are handled by the
// caller before this table is consulted.
func legalTransition(from, to types.Status) bool {
	switch from {
	case types.New:
		return to == types.Runnable || to == types.AsyncWaiting
	case types.Running:
		switch to {
		case types.Runnable, types.Terminated, types.Blocked, types.Waiting,
			types.TimedWaiting, types.AsyncWaiting, types.Parked:
			return true
		}
	case types.Runnable:
		switch to {
		case types.AsyncWaiting, types.Runnable, types.Running:
			return true
		}
	case types.AsyncWaiting:
		return to == types.Runnable || to == types.Terminated
	case types.Waiting:
		return to == types.UninterruptablyBlocked || to == types.Runnable
	case types.TimedWaiting:
		return to == types.UninterruptablyBlocked || to == types.Runnable
	case types.Blocked:
		return to == types.Runnable
	case types.Parked:
		return to == types.Runnable
	case types.UninterruptablyBlocked:
		return to == types.Runnable
	case types.Terminated:
		return to == types.New
	}
	return false
}

// SetStatus drives the thread's state machine. Illegal transitions are a
// host-side bug and panic via FatalError (spec §7); every legal
// transition's post-transition side effect (spec §4.4) runs after the
// field mutation is committed and the lock released, so a side effect
// that re-enters SetStatus (directly or via Thread.run) never deadlocks
// and never recurses through a held lock.
func (t *Thread) SetStatus(target types.Status, monitor Monitor) {
	t.mu.Lock()
	current := t.status

	if current == target {
		t.mu.Unlock()
		return
	}
	if current == types.Running && target == types.Runnable {
		// "ignored, stays RUNNING" — no side effect, no notification.
		t.mu.Unlock()
		return
	}

	if current == types.Terminated && (target == types.Runnable || target == types.AsyncWaiting) {
		// Resurrection: TERMINATED -> NEW -> target, as two explicit
		// steps rather than recursing through setStatus (spec §9).
		t.commitLocked(types.New, nil)
		current = types.New
	}

	if !legalTransition(current, target) {
		t.mu.Unlock()
		t.fatal("illegal thread status transition", loggableTransition(current, target))
		return
	}

	if target.RequiresMonitor() && monitor == nil {
		t.mu.Unlock()
		t.fatal("transition requires a non-nil monitor", loggableTransition(current, target))
		return
	}

	effect := t.commitLocked(target, monitor)
	t.mu.Unlock()
	effect()
}

// commitLocked mutates status/monitor and records which post-transition
// side effect applies, but does not run it — callers run the returned
// effect after releasing mu. Must be called with mu held.
func (t *Thread) commitLocked(target types.Status, monitor Monitor) func() {
	from := t.status
	if target.RequiresMonitor() {
		t.monitor = monitor
	} else {
		t.monitor = nil
	}
	t.status = target
	trace.StatusTransition(int64(t.id), from.String(), target.String())

	switch {
	case target == types.Runnable:
		return func() { t.pool.ThreadRunnable(t) }
	case target == types.Running:
		return t.run
	case target == types.Terminated:
		return func() { t.pool.ThreadTerminated(t) }
	case target.IsSuspended():
		return func() { t.pool.ThreadSuspended(t) }
	default:
		return func() {}
	}
}

func loggableTransition(from, to types.Status) map[string]interface{} {
	return map[string]interface{}{"from": from.String(), "to": to.String()}
}

// run is the interpreter dispatch loop, invoked as the RUNNING
// post-transition side effect. It must never be called directly by
// anything but commitLocked's effect — entering RUNNING is only legal
// from a prior non-RUNNING state, which this call graph guarantees.
func (t *Thread) run() {
	for t.GetStatus() == types.Running {
		f := t.topFrame()
		if f == nil {
			break
		}
		f.Run(t)
	}
	if t.stackLen() == 0 {
		t.SetStatus(types.Terminated, nil)
	}
}

// RunMethod pushes a new activation (plus, if cb is non-nil, an internal
// continuation frame ahead of it) and transitions the thread to
// RUNNABLE. Requires status ∈ {NEW, RUNNING, RUNNABLE, ASYNC_WAITING,
// TERMINATED}.
func (t *Thread) RunMethod(method Method, args []types.Value, cb func(errVal, rv types.Value)) {
	switch t.GetStatus() {
	case types.New, types.Running, types.Runnable, types.AsyncWaiting, types.Terminated:
	default:
		t.fatal("runMethod called in illegal status", nil)
		return
	}

	if cb != nil {
		t.pushFrame(NewInternalFrame(cb))
	}
	if method.IsNative() {
		t.pushFrame(NewNativeFrame(method, args))
	} else {
		t.pushFrame(NewBytecodeFrame(method, args))
	}
	t.SetStatus(types.Runnable, nil)
}

// AsyncReturn is called by a native method (or the interpreter on a
// final return opcode) with the value(s) to hand to the caller. Requires
// status ∈ {RUNNING, RUNNABLE, ASYNC_WAITING}.
func (t *Thread) AsyncReturn(rv1, rv2 types.Value) {
	switch t.GetStatus() {
	case types.Running, types.Runnable, types.AsyncWaiting:
	default:
		t.fatal("asyncReturn called in illegal status", nil)
		return
	}

	popped := t.popFrame()
	if popped == nil {
		t.fatal("asyncReturn called with an empty stack", nil)
		return
	}
	if popped.Type() != FrameInternal {
		t.checkReturnSanity(popped, rv1, rv2)
	}
	if next := t.topFrame(); next != nil {
		next.ScheduleResume(t, rv1, rv2)
	}
	t.SetStatus(types.Runnable, nil)
}

// ThrowException unwinds the stack looking for a frame willing to handle
// e, invoking the uncaught-exception dispatch if none does. Requires
// status ∈ {RUNNING, RUNNABLE, ASYNC_WAITING} and a non-empty stack.
func (t *Thread) ThrowException(e types.Value) {
	switch t.GetStatus() {
	case types.Running, types.Runnable, types.AsyncWaiting:
	default:
		t.fatal("throwException called in illegal status", nil)
		return
	}
	if t.stackLen() == 0 {
		t.fatal("throwException called with an empty stack", nil)
		return
	}

	if top := t.topFrame(); top != nil && top.Type() == FrameInternal {
		// Internal frames never handle their own throw.
		t.popFrame()
	}

	// Transition before walking: a handler's async class resolution may
	// itself need to move the thread to ASYNC_WAITING.
	t.SetStatus(types.Runnable, nil)

	for {
		top := t.topFrame()
		if top == nil {
			t.HandleUncaughtException(e)
			return
		}
		if top.ScheduleException(t, e) {
			return
		}
		t.popFrame()
	}
}

// ThrowNewException constructs className(msg) and throws it, resolving
// and initializing the class first if necessary.
func (t *Thread) ThrowNewException(className, msg string) {
	cls := t.bootstrapLoader.GetInitializedClass(className)
	if cls == nil {
		t.SetStatus(types.AsyncWaiting, nil)
		t.bootstrapLoader.InitializeClass(t, className, func() {
			t.ThrowNewException(className, msg)
		}, true)
		return
	}

	ctor := cls.MethodLookup(t, "<init>(Ljava/lang/String;)V")
	if ctor == nil {
		t.fatal("exception class has no string constructor", loggableTransition(t.GetStatus(), t.GetStatus()))
		return
	}

	instance := cls.NewInstance()
	t.RunMethod(ctor, []types.Value{instance, types.NewRef("java/lang/String", msg)}, func(errVal, rv types.Value) {
		if errVal != nil {
			t.ThrowException(errVal)
			return
		}
		t.ThrowException(instance)
	})
}

// HandleUncaughtException invokes java.lang.Thread.dispatchUncaughtException
// on this thread with the escaped exception.
func (t *Thread) HandleUncaughtException(e types.Value) {
	cls := t.bootstrapLoader.GetInitializedClass("java/lang/Thread")
	if cls == nil {
		t.fatal("java.lang.Thread not initialized", nil)
		return
	}
	method := cls.MethodLookup(t, "dispatchUncaughtException(Ljava/lang/Throwable;)V")
	if method == nil {
		t.fatal("java.lang.Thread.dispatchUncaughtException not found", nil)
		return
	}
	self := types.NewRef("java/lang/Thread", t)
	t.RunMethod(method, []types.Value{self, e}, nil)
}

// checkReturnSanity validates a non-internal frame's return value(s)
// against its method's declared return descriptor (spec §4.6). Failures
// are host-side bugs, not JVM exceptions, and abort execution loudly.
func (t *Thread) checkReturnSanity(frame Frame, rv1, rv2 types.Value) {
	var method Method
	switch f := frame.(type) {
	case *BytecodeFrame:
		method = f.Method
	case *NativeFrame:
		method = f.Method
	default:
		return
	}
	desc := method.ReturnType()

	switch {
	case desc == types.DescVoid:
		if rv1 != nil {
			t.fatal("void method returned a value", nil)
		}
	case desc.IsTwoSlot():
		if rv2 != nil {
			t.fatal("two-slot return arrived with a non-nil rv2", nil)
		}
		switch rv1.(type) {
		case types.LongValue:
			if desc != types.DescLong {
				t.fatal("long value returned for non-long descriptor", nil)
			}
		case types.DoubleValue:
			if desc != types.DescDouble {
				t.fatal("double value returned for non-double descriptor", nil)
			}
		default:
			t.fatal("two-slot descriptor returned a non-two-slot value", nil)
		}
	case desc.IsPrimitive():
		iv, ok := rv1.(types.IntValue)
		if !ok {
			if desc == types.DescFloat {
				if _, ok := rv1.(types.FloatValue); !ok {
					t.fatal("float descriptor returned a non-float value", nil)
				}
				return
			}
			t.fatal("primitive descriptor returned a non-int-carrier value", nil)
			return
		}
		if !desc.CheckIntBounds(iv.Val) {
			t.fatal("return value out of bounds for descriptor", nil)
		}
	case desc.IsReference():
		ref, ok := rv1.(types.Ref)
		if !ok {
			t.fatal("reference descriptor returned a non-reference value", nil)
			return
		}
		if ref.IsNull() {
			return
		}
		declClass := t.resolveClassForSanity(method, desc.ClassName())
		actualClass := t.resolveClassForSanity(method, ref.ClassName)
		if declClass == nil || actualClass == nil || !actualClass.IsCastable(declClass) {
			t.fatal("return value not castable to declared return type", nil)
		}
	}
}

func (t *Thread) resolveClassForSanity(method Method, name string) Class {
	if method != nil {
		if loader := method.Class().Loader(); loader != nil {
			if c := loader.GetResolvedClass(name); c != nil {
				return c
			}
		}
	}
	return t.bootstrapLoader.GetResolvedClass(name)
}
