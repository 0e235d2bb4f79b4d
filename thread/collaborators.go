// Package thread implements the JVM per-thread state machine and the
// stack-frame execution model that runs on top of it. Frame variants and
// their external collaborator interfaces live in this same package,
// because Opcode.Execute(thread, frame) ties their shapes to the concrete
// Thread/Frame types — the same reason the teacher keeps OpCode,
// StackFrame and VM together in one package rather than splitting them
// across package boundaries that would need to import each other.
package thread

import "loom/types"

// AnyCatchType is the exception-table sentinel for a finally handler: it
// matches any thrown value regardless of class.
const AnyCatchType = "<any>"

// Method is the native-method/bytecode-method collaborator the core
// consumes but does not implement.
type Method interface {
	IsNative() bool
	IsAbstract() bool
	IsSynchronized() bool
	MaxLocals() int
	Code() []Opcode
	ExceptionHandlers() []ExceptionHandler
	MethodLock(t *Thread, f Frame) Monitor
	NativeFunction() NativeFunction
	ConvertArgs(t *Thread, args []types.Value) []types.Value
	ReturnType() types.Descriptor
	FullSignature() string
	Class() Class
}

// NativeFunction is a registered native implementation. A native that
// needs to throw calls Thread.ThrowException/ThrowNewException itself
// rather than returning an error — the core only adapts and forwards
// whatever value comes back, guarded by whether the thread is still
// running this same frame when the call returns (spec "§4.2").
type NativeFunction func(t *Thread, args []types.Value) types.Value

// Class is the resolved-class collaborator.
type Class interface {
	Loader() ClassLoader
	GetType() string
	IsCastable(other Class) bool
	MethodLookup(t *Thread, signature string) Method
	// NewInstance allocates a fresh, field-zeroed instance of this class.
	// Not named in the distilled collaborator set, but required by
	// ThrowNewException's "construct an instance" step — see DESIGN.md.
	NewInstance() types.Value
}

// ClassLoader resolves and initializes classes, synchronously when
// already known and asynchronously (via callback) otherwise.
type ClassLoader interface {
	GetResolvedClass(name string) Class
	GetInitializedClass(name string) Class
	ResolveClasses(t *Thread, names []string, cb func())
	InitializeClass(t *Thread, name string, cb func(), bootstrap bool)
}

// Opcode is one bytecode instruction's semantics.
type Opcode interface {
	Execute(t *Thread, f *BytecodeFrame)
	IncPC(f *BytecodeFrame)
	Name() string
}

// Monitor is a JVM lock owned by a reference object.
type Monitor interface {
	Enter(t *Thread, onAcquired func()) bool
	Exit(t *Thread)
	IsWaiting(t *Thread) bool
	IsTimedWaiting(t *Thread) bool
	IsBlocked(t *Thread) bool
}

// ExceptionHandler is one entry of a method's exception table.
type ExceptionHandler struct {
	StartPC   uint32
	EndPC     uint32
	HandlerPC uint32
	CatchType string // class name, or AnyCatchType for a finally handler
}

// PoolNotifier is the narrow back-reference a Thread holds to its owning
// pool, grounded on the teacher's ForkCreator pattern: a small interface
// defined next to the type that needs it (Thread), implemented by the
// concrete owner (pool.Pool), so this package never imports pool and no
// import cycle forms.
type PoolNotifier interface {
	ThreadRunnable(t *Thread)
	ThreadSuspended(t *Thread)
	ThreadTerminated(t *Thread)
}
