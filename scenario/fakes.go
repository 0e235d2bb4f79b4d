package scenario

import (
	"loom/thread"
	"loom/types"
)

// fakeOpcode is a minimal thread.Opcode built from a closure, the same
// shape the thread package's own test fakes use — scenario keeps its own
// copy since it is a separate package and thread's fakes are test-only.
type fakeOpcode struct {
	exec func(t *thread.Thread, f *thread.BytecodeFrame)
	inc  func(f *thread.BytecodeFrame)
}

func (o *fakeOpcode) Execute(t *thread.Thread, f *thread.BytecodeFrame) { o.exec(t, f) }
func (o *fakeOpcode) IncPC(f *thread.BytecodeFrame) {
	if o.inc != nil {
		o.inc(f)
		return
	}
	f.PC++
}
func (o *fakeOpcode) Name() string { return "fake" }

func opReturn(rv types.Value) *fakeOpcode {
	return &fakeOpcode{exec: func(t *thread.Thread, f *thread.BytecodeFrame) {
		f.Yield()
		t.AsyncReturn(rv, nil)
	}}
}

func opThrow(exc types.Value) *fakeOpcode {
	return &fakeOpcode{exec: func(t *thread.Thread, f *thread.BytecodeFrame) {
		f.Yield()
		t.ThrowException(exc)
	}}
}

type fakeMethod struct {
	native       bool
	synchronized bool
	code         []thread.Opcode
	handlers     []thread.ExceptionHandler
	lock         thread.Monitor
	nativeFn     thread.NativeFunction
	returnType   types.Descriptor
	signature    string
	class        thread.Class
}

func (m *fakeMethod) IsNative() bool                               { return m.native }
func (m *fakeMethod) IsAbstract() bool                             { return false }
func (m *fakeMethod) IsSynchronized() bool                         { return m.synchronized }
func (m *fakeMethod) MaxLocals() int                               { return 0 }
func (m *fakeMethod) Code() []thread.Opcode                        { return m.code }
func (m *fakeMethod) ExceptionHandlers() []thread.ExceptionHandler { return m.handlers }
func (m *fakeMethod) MethodLock(t *thread.Thread, f thread.Frame) thread.Monitor {
	return m.lock
}
func (m *fakeMethod) NativeFunction() thread.NativeFunction { return m.nativeFn }
func (m *fakeMethod) ConvertArgs(t *thread.Thread, args []types.Value) []types.Value {
	return args
}
func (m *fakeMethod) ReturnType() types.Descriptor { return m.returnType }
func (m *fakeMethod) FullSignature() string        { return m.signature }
func (m *fakeMethod) Class() thread.Class          { return m.class }

type fakeClass struct {
	name       string
	loader     thread.ClassLoader
	castableTo map[string]bool
	lookup     thread.Method
}

func (c *fakeClass) Loader() thread.ClassLoader { return c.loader }
func (c *fakeClass) GetType() string            { return c.name }
func (c *fakeClass) IsCastable(other thread.Class) bool {
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
func (c *fakeClass) MethodLookup(t *thread.Thread, signature string) thread.Method { return c.lookup }
func (c *fakeClass) NewInstance() types.Value                                      { return types.NewRef(c.name, &struct{}{}) }

// fakeLoader resolves classes from a static registry, resolving async
// requests synchronously unless told to defer them for later draining.
type fakeLoader struct {
	resolved map[string]thread.Class
	defer_   bool
	pending  []func()
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{resolved: map[string]thread.Class{}}
}

func (l *fakeLoader) GetResolvedClass(name string) thread.Class    { return l.resolved[name] }
func (l *fakeLoader) GetInitializedClass(name string) thread.Class { return l.resolved[name] }
func (l *fakeLoader) ResolveClasses(t *thread.Thread, names []string, cb func()) {
	if l.defer_ {
		l.pending = append(l.pending, cb)
		return
	}
	cb()
}
func (l *fakeLoader) InitializeClass(t *thread.Thread, name string, cb func(), bootstrap bool) {
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

func (m *fakeMonitor) Enter(t *thread.Thread, onAcquired func()) bool {
	if m.blocks {
		m.onAcquired = onAcquired
		t.SetStatus(types.Blocked, m)
		return false
	}
	m.entered = true
	return true
}
func (m *fakeMonitor) Exit(t *thread.Thread)                { m.exited = true }
func (m *fakeMonitor) IsWaiting(t *thread.Thread) bool      { return false }
func (m *fakeMonitor) IsTimedWaiting(t *thread.Thread) bool { return false }
func (m *fakeMonitor) IsBlocked(t *thread.Thread) bool      { return m.blocks }
