package scenario

import (
	"fmt"

	"loom/pool"
	"loom/thread"
	"loom/types"
)

// Result is the observable post-state a scenario's expect block checks
// against.
type Result struct {
	Status             types.Status
	PoolEmpty          bool
	EmptyCallbackFired bool
	PC                 uint32
	OperandStackSize   int
	MonitorEntered     bool
	MonitorExited      bool
	NativeDispatched   bool
}

// Run dispatches a loaded Scenario to its kind-specific builder and
// executes it against the real thread/pool packages.
func Run(sc Scenario) (Result, error) {
	switch sc.Kind {
	case "synchronized_uncontested":
		return runSynchronizedUncontested(sc)
	case "exception_caught_resolved":
		return runExceptionCaughtResolved(sc)
	case "exception_unresolved_async":
		return runExceptionUnresolvedAsync(sc)
	case "uncaught_exception":
		return runUncaughtException(sc)
	case "park_unpark_prior_unpark":
		return runParkUnparkPriorUnpark(sc)
	case "resurrection":
		return runResurrection(sc)
	default:
		return Result{}, fmt.Errorf("unknown scenario kind %q", sc.Kind)
	}
}

// noopPool satisfies thread.PoolNotifier for scenarios that exercise
// Thread directly (ThrowException's synchronous unwind), where no real
// scheduling decision is needed.
type noopPool struct{}

func (noopPool) ThreadRunnable(t *thread.Thread)   {}
func (noopPool) ThreadSuspended(t *thread.Thread)  {}
func (noopPool) ThreadTerminated(t *thread.Thread) {}

func topTrace(th *thread.Thread) (pc uint32, stackSize int) {
	tr := th.GetStackTrace()
	if len(tr) == 0 {
		return 0, 0
	}
	top := tr[len(tr)-1]
	return top.PC, len(top.StackSnapshot)
}

// runSynchronizedUncontested is spec.md §8 scenario 1: a synchronized
// bytecode method runs to completion on an uncontested monitor.
func runSynchronizedUncontested(sc Scenario) (Result, error) {
	emptyFired := false
	p := pool.New(pool.DefaultConfig(), newFakeLoader(), func() { emptyFired = true })
	th := p.NewThread()

	monitor := &fakeMonitor{}
	method := &fakeMethod{
		synchronized: true,
		lock:         monitor,
		returnType:   types.DescVoid,
		signature:    "run()V",
		code:         []thread.Opcode{opReturn(nil)},
	}

	th.RunMethod(method, nil, nil)
	p.Tick() // promotes and runs the thread to completion
	p.Tick() // drains the follow-up schedule request, fires the empty callback

	return Result{
		Status:             th.GetStatus(),
		PoolEmpty:          len(p.GetThreads()) == 0,
		EmptyCallbackFired: emptyFired,
		MonitorEntered:     monitor.entered,
		MonitorExited:      monitor.exited,
	}, nil
}

// runExceptionCaughtResolved is scenario 2: the thrown class and the
// handler's catch_type are both already resolved at throw time.
func runExceptionCaughtResolved(sc Scenario) (Result, error) {
	excName := sc.Params["thrown_class"]
	catchName := sc.Params["catch_type"]
	handlerPC := uint32(7)

	excClass := &fakeClass{name: excName, castableTo: map[string]bool{catchName: true}}
	catchClass := &fakeClass{name: catchName}
	loader := newFakeLoader()
	loader.resolved[excName] = excClass
	loader.resolved[catchName] = catchClass

	th := thread.New(noopPool{}, loader)
	method := &fakeMethod{
		returnType: types.DescVoid,
		signature:  "run()V",
		handlers: []thread.ExceptionHandler{
			{StartPC: 0, EndPC: 10, HandlerPC: handlerPC, CatchType: catchName},
		},
	}
	method.class = &fakeClass{name: "Thrower", loader: loader}
	th.RunMethod(method, nil, nil)

	th.ThrowException(types.NewRef(excName, &struct{}{}))

	pc, stackSize := topTrace(th)
	return Result{Status: th.GetStatus(), PC: pc, OperandStackSize: stackSize}, nil
}

// runExceptionUnresolvedAsync is scenario 3: the handler's catch_type
// starts unresolved, forcing an ASYNC_WAITING suspension before the
// handler can be matched and the throw retried.
func runExceptionUnresolvedAsync(sc Scenario) (Result, error) {
	excName := sc.Params["thrown_class"]
	catchName := sc.Params["catch_type"]
	handlerPC := uint32(7)

	excClass := &fakeClass{name: excName, castableTo: map[string]bool{catchName: true}}
	loader := newFakeLoader()
	loader.resolved[excName] = excClass
	loader.defer_ = true

	th := thread.New(noopPool{}, loader)
	method := &fakeMethod{
		returnType: types.DescVoid,
		signature:  "run()V",
		handlers: []thread.ExceptionHandler{
			{StartPC: 0, EndPC: 10, HandlerPC: handlerPC, CatchType: catchName},
		},
	}
	method.class = &fakeClass{name: "Thrower", loader: loader}
	th.RunMethod(method, nil, nil)

	exc := types.NewRef(excName, &struct{}{})
	th.ThrowException(exc)
	// th is now ASYNC_WAITING; the scenario's expect block only looks at
	// the state after resolution completes, so drive that here.

	catchClass := &fakeClass{name: catchName}
	loader.resolved[catchName] = catchClass
	loader.runPending()

	pc, stackSize := topTrace(th)
	return Result{Status: th.GetStatus(), PC: pc, OperandStackSize: stackSize}, nil
}

// runUncaughtException is scenario 4: nothing on the stack handles the
// exception, so Thread.dispatchUncaughtException runs and the thread
// terminates afterward.
func runUncaughtException(sc Scenario) (Result, error) {
	var dispatched bool
	dispatchMethod := &fakeMethod{
		native:     true,
		returnType: types.DescVoid,
		signature:  "dispatchUncaughtException(Ljava/lang/Throwable;)V",
		nativeFn: func(t *thread.Thread, args []types.Value) types.Value {
			dispatched = true
			return nil
		},
	}
	threadClass := &fakeClass{name: "java/lang/Thread", lookup: dispatchMethod}
	loader := newFakeLoader()
	loader.resolved["java/lang/Thread"] = threadClass

	p := pool.New(pool.DefaultConfig(), loader, nil)
	th := p.NewThread()

	method := &fakeMethod{returnType: types.DescVoid, signature: "run()V"}
	method.class = &fakeClass{name: "Runner", loader: loader}
	method.code = []thread.Opcode{opThrow(types.NewRef(sc.Params["thrown_class"], &struct{}{}))}

	th.RunMethod(method, nil, nil)
	p.Tick()
	p.Tick() // drains any follow-up schedule request

	return Result{
		Status:           th.GetStatus(),
		NativeDispatched: dispatched,
		PoolEmpty:        len(p.GetThreads()) == 0,
	}, nil
}

// runParkUnparkPriorUnpark is scenario 5: an unpark that precedes its
// matching park pre-satisfies it, leaving the thread RUNNABLE.
func runParkUnparkPriorUnpark(sc Scenario) (Result, error) {
	p := pool.New(pool.DefaultConfig(), newFakeLoader(), nil)
	th := thread.New(p, newFakeLoader())

	p.Unpark(th)
	p.Park(th)

	return Result{Status: th.GetStatus()}, nil
}

// runResurrection is scenario 6: a terminated thread's setStatus(RUNNABLE)
// silently traverses TERMINATED -> NEW -> RUNNABLE and re-admits to the
// pool.
func runResurrection(sc Scenario) (Result, error) {
	p := pool.New(pool.DefaultConfig(), newFakeLoader(), nil)
	th := p.NewThread()

	method := &fakeMethod{returnType: types.DescVoid, signature: "run()V", code: []thread.Opcode{opReturn(nil)}}
	th.RunMethod(method, nil, nil)
	p.Tick()
	p.Tick()

	p.ResurrectThread(th)
	method2 := &fakeMethod{returnType: types.DescVoid, signature: "run()V", code: []thread.Opcode{opReturn(nil)}}
	th.RunMethod(method2, nil, nil) // triggers the resurrection path inside SetStatus
	p.Tick()
	p.Tick()

	return Result{Status: th.GetStatus(), PoolEmpty: len(p.GetThreads()) == 0}, nil
}
