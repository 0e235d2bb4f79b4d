package thread

import "loom/types"

// fakeOpcode is a minimal Opcode used to drive BytecodeFrame.Run in
// tests without a real bytecode interpreter: each instance is a closure
// over the behavior it should have at its slot in Code().
type fakeOpcode struct {
	name string
	exec func(t *Thread, f *BytecodeFrame)
	inc  func(f *BytecodeFrame)
}

func (o *fakeOpcode) Execute(t *Thread, f *BytecodeFrame) { o.exec(t, f) }
func (o *fakeOpcode) IncPC(f *BytecodeFrame) {
	if o.inc != nil {
		o.inc(f)
		return
	}
	f.PC++
}
func (o *fakeOpcode) Name() string { return o.name }

// opReturn ends the current frame's run loop and asks the thread to pop
// it via AsyncReturn, carrying rv.
func opReturn(rv types.Value) *fakeOpcode {
	return &fakeOpcode{name: "return", exec: func(t *Thread, f *BytecodeFrame) {
		f.Yield()
		t.AsyncReturn(rv, nil)
	}}
}

// opYield calls Yield without any other side effect — used to model an
// opcode that blocks/throws/async-waits and has already transitioned
// the thread's status itself.
func opYield() *fakeOpcode {
	return &fakeOpcode{name: "yield", exec: func(t *Thread, f *BytecodeFrame) {
		f.Yield()
	}}
}

type fakeMethod struct {
	native       bool
	abstract     bool
	synchronized bool
	maxLocals    int
	code         []Opcode
	handlers     []ExceptionHandler
	lock         Monitor
	nativeFn     NativeFunction
	returnType   types.Descriptor
	signature    string
	class        Class
}

func (m *fakeMethod) IsNative() bool                                          { return m.native }
func (m *fakeMethod) IsAbstract() bool                                        { return m.abstract }
func (m *fakeMethod) IsSynchronized() bool                                    { return m.synchronized }
func (m *fakeMethod) MaxLocals() int                                          { return m.maxLocals }
func (m *fakeMethod) Code() []Opcode                                          { return m.code }
func (m *fakeMethod) ExceptionHandlers() []ExceptionHandler                   { return m.handlers }
func (m *fakeMethod) MethodLock(t *Thread, f Frame) Monitor                   { return m.lock }
func (m *fakeMethod) NativeFunction() NativeFunction                          { return m.nativeFn }
func (m *fakeMethod) ConvertArgs(t *Thread, args []types.Value) []types.Value { return args }
func (m *fakeMethod) ReturnType() types.Descriptor                            { return m.returnType }
func (m *fakeMethod) FullSignature() string                                   { return m.signature }
func (m *fakeMethod) Class() Class                                            { return m.class }

type fakeClass struct {
	name       string
	loader     ClassLoader
	castableTo map[string]bool
	lookup     Method
}

func (c *fakeClass) Loader() ClassLoader { return c.loader }
func (c *fakeClass) GetType() string     { return c.name }
func (c *fakeClass) IsCastable(other Class) bool {
	if other == nil {
		return false
	}
	oc, ok := other.(*fakeClass)
	if !ok {
		return false
	}
	if oc.name == c.name {
		return true
	}
	return c.castableTo[oc.name]
}
func (c *fakeClass) MethodLookup(t *Thread, signature string) Method { return c.lookup }
func (c *fakeClass) NewInstance() types.Value                        { return types.NewRef(c.name, &struct{}{}) }

// fakeLoader resolves classes from a static registry and resolves
// async requests immediately (synchronously, from the caller's
// goroutine) unless told to defer.
type fakeLoader struct {
	resolved map[string]Class
	defer_   bool
	pending  []func()
}

func (l *fakeLoader) GetResolvedClass(name string) Class    { return l.resolved[name] }
func (l *fakeLoader) GetInitializedClass(name string) Class { return l.resolved[name] }
func (l *fakeLoader) ResolveClasses(t *Thread, names []string, cb func()) {
	if l.defer_ {
		l.pending = append(l.pending, cb)
		return
	}
	cb()
}
func (l *fakeLoader) InitializeClass(t *Thread, name string, cb func(), bootstrap bool) {
	if l.defer_ {
		l.pending = append(l.pending, cb)
		return
	}
	cb()
}
func (l *fakeLoader) runPending() {
	pending := l.pending
	l.pending = nil
	for _, cb := range pending {
		cb()
	}
}

type fakeMonitor struct {
	blocks     bool
	entered    bool
	exited     bool
	onAcquired func()
}

func (m *fakeMonitor) Enter(t *Thread, onAcquired func()) bool {
	if m.blocks {
		m.onAcquired = onAcquired
		t.SetStatus(types.Blocked, m)
		return false
	}
	m.entered = true
	return true
}
func (m *fakeMonitor) Exit(t *Thread)                { m.exited = true }
func (m *fakeMonitor) IsWaiting(t *Thread) bool      { return false }
func (m *fakeMonitor) IsTimedWaiting(t *Thread) bool { return false }
func (m *fakeMonitor) IsBlocked(t *Thread) bool      { return m.blocks }

type fakePool struct {
	runnable   []types.ThreadID
	suspended  []types.ThreadID
	terminated []types.ThreadID
}

func (p *fakePool) ThreadRunnable(t *Thread)   { p.runnable = append(p.runnable, t.ID()) }
func (p *fakePool) ThreadSuspended(t *Thread)  { p.suspended = append(p.suspended, t.ID()) }
func (p *fakePool) ThreadTerminated(t *Thread) { p.terminated = append(p.terminated, t.ID()) }
