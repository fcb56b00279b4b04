package memory

import (
	"io"
	"os"

	"github.com/npillmayer/schuko/tracing"
)

// Memory is the memory manager of a single run of a Core program. It owns the global
// store, the call stack, the function table and the count of reachable heap objects.
//
// Memory is not safe for concurrent use; the interpreter calls it synchronously, one
// statement at a time. Different Memory values are completely independent.
type Memory struct {
	globals   *Scope
	calls     *CallStack
	functions *FunctionTable
	reachable int
	diag      io.Writer
}

// Option configures a Memory.
type Option func(*Memory)

// WithDiagnostics sets the writer for gc:<N> lines. Default is os.Stdout.
func WithDiagnostics(w io.Writer) Option {
	return func(m *Memory) {
		if w == nil {
			w = io.Discard
		}
		m.diag = w
	}
}

// New creates a memory manager. Clients have to call InitializeGlobal before
// declaring variables.
func New(opts ...Option) *Memory {
	m := &Memory{diag: os.Stdout}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// --- Program-level lifecycle -----------------------------------------------

// InitializeGlobal establishes an empty global store and function table and
// resets the count of reachable objects. Declarations issued before
// InitializeLocal go to the global store.
func (m *Memory) InitializeGlobal() {
	m.globals = NewScope("globals")
	m.functions = NewFunctionTable()
	m.calls = nil
	m.reachable = 0
	tracer().Debugf("global memory initialized")
}

// TeardownGlobal releases every object still held by a global slot and drops the
// global store and the function table.
func (m *Memory) TeardownGlobal() {
	if m.globals != nil {
		m.releaseAll(m.globals)
	}
	m.globals = nil
	m.functions = nil
	m.calls = nil
	tracer().Debugf("global memory torn down")
}

// InitializeLocal creates the call stack with the frame of the top-level program,
// holding a single scope.
func (m *Memory) InitializeLocal() {
	m.calls = new(CallStack)
	m.calls.Push(NewFrame("main"))
}

// Functions returns the function table.
func (m *Memory) Functions() *FunctionTable {
	if m.functions == nil {
		m.functions = NewFunctionTable()
	}
	return m.functions
}

// Depth returns the number of frames on the call stack.
func (m *Memory) Depth() int {
	if m.calls == nil {
		return 0
	}
	return m.calls.Depth()
}

func (m *Memory) activeFrame() *Frame {
	if m.calls == nil {
		return nil
	}
	return m.calls.Current()
}

// --- Scopes ----------------------------------------------------------------

// EnterScope pushes a new, empty scope onto the active frame.
func (m *Memory) EnterScope() error {
	fr := m.activeFrame()
	if fr == nil {
		return newError(NoActiveFrame)
	}
	sc := fr.PushScope()
	tracer().P("scope", sc.Name).Debugf("entering scope")
	return nil
}

// ExitScope pops the innermost scope of the active frame and releases every heap
// object handle its slots held.
func (m *Memory) ExitScope() error {
	fr := m.activeFrame()
	if fr == nil {
		return newError(NoActiveFrame)
	}
	sc := fr.PopScope()
	if sc == nil {
		return newError(NoActiveScope, fr.Name)
	}
	tracer().P("scope", sc.Name).Debugf("exiting scope")
	m.releaseAll(sc)
	return nil
}

// --- Declarations and resolution -------------------------------------------

// DeclareInteger creates an integer variable with value 0.
func (m *Memory) DeclareInteger(nm string) error {
	return m.declare(nm, IntegerKind)
}

// DeclareObject creates an object variable not referring to any object yet.
func (m *Memory) DeclareObject(nm string) error {
	return m.declare(nm, ObjectKind)
}

// declare puts a new slot into the innermost scope of the active frame, or into
// the global store if there is no frame yet. A slot of the same name in the same
// scope is replaced.
func (m *Memory) declare(nm string, k Kind) error {
	var sc *Scope
	if fr := m.activeFrame(); fr != nil {
		if sc = fr.Current(); sc == nil {
			return newError(NoActiveScope, nm)
		}
	} else {
		if m.globals == nil {
			m.globals = NewScope("globals")
		}
		sc = m.globals
	}
	slot, old := sc.define(nm, k)
	if old != nil {
		tracer().Debugf("%v replaces %v in %v", slot, old, sc)
	}
	return nil
}

// Resolve finds the slot for a variable. It searches the scopes of the active frame
// from innermost to outermost, then the global store. Frames of callers are never
// searched.
func (m *Memory) Resolve(nm string) (*Slot, error) {
	if fr := m.activeFrame(); fr != nil {
		if slot := fr.Lookup(nm); slot != nil {
			return slot, nil
		}
	}
	if m.globals != nil {
		if slot := m.globals.Lookup(nm); slot != nil {
			return slot, nil
		}
	}
	return nil, newError(UnresolvedIdentifier, nm)
}

// OwnerCount returns the owner count of the object variable nm refers to, or 0 for
// integer variables and unpopulated object variables.
func (m *Memory) OwnerCount(nm string) (int, error) {
	slot, err := m.Resolve(nm)
	if err != nil {
		return 0, err
	}
	if !slot.holds() {
		return 0, nil
	}
	return slot.obj.owners, nil
}

// --- Load and store --------------------------------------------------------

// Load returns the value of an integer variable, or the default-key field of the
// object an object variable refers to.
func (m *Memory) Load(nm string) (int64, error) {
	slot, err := m.Resolve(nm)
	if err != nil {
		return 0, err
	}
	if slot.kind == IntegerKind {
		return slot.value, nil
	}
	if slot.obj == nil {
		return 0, newError(NullObjectAccess, nm)
	}
	return slot.obj.Get(slot.obj.defaultKey), nil
}

// LoadField returns the field at key of the object variable nm refers to.
// Absent fields read as 0.
func (m *Memory) LoadField(nm, key string) (int64, error) {
	slot, err := m.Resolve(nm)
	if err != nil {
		return 0, err
	}
	if !slot.holds() {
		return 0, newError(NullObjectAccess, nm)
	}
	return slot.obj.Get(key), nil
}

// Store sets the value of an integer variable, or the default-key field of the
// object an object variable refers to.
func (m *Memory) Store(nm string, value int64) error {
	slot, err := m.Resolve(nm)
	if err != nil {
		return err
	}
	if slot.kind == IntegerKind {
		slot.value = value
		return nil
	}
	if slot.obj == nil {
		return newError(NullObjectStore, nm)
	}
	slot.obj.Put(slot.obj.defaultKey, value)
	return nil
}

// StoreField overwrites or inserts the field at key of the object variable nm
// refers to.
func (m *Memory) StoreField(nm, key string, value int64) error {
	slot, err := m.Resolve(nm)
	if err != nil {
		return err
	}
	if !slot.holds() {
		return newError(NullObjectStore, nm)
	}
	slot.obj.Put(key, value)
	return nil
}

// --- Allocation and aliasing -----------------------------------------------

// Allocate creates a new heap object with a single field key=value, key being its
// default key, and makes object variable nm refer to it. The object nm referred to
// before loses an owner.
func (m *Memory) Allocate(nm, key string, value int64) error {
	slot, err := m.Resolve(nm)
	if err != nil {
		return err
	}
	if slot.kind != ObjectKind {
		return newError(InvalidAllocate, nm)
	}
	m.release(slot.obj)
	obj := newHeapObject(key, value)
	slot.obj = obj
	m.acquire(obj)
	tracer().Debugf("allocated %v for %s", obj, nm)
	return nil
}

// Alias makes object variable lhs refer to the same heap object as object variable
// rhs. If rhs is unpopulated, lhs will be unpopulated afterwards.
func (m *Memory) Alias(lhs, rhs string) error {
	l, err := m.Resolve(lhs)
	if err != nil {
		return err
	}
	r, err := m.Resolve(rhs)
	if err != nil {
		return err
	}
	if l.kind != ObjectKind || r.kind != ObjectKind {
		return newError(InvalidAlias, lhs, rhs)
	}
	m.release(l.obj)
	l.obj = r.obj
	m.acquire(l.obj)
	return nil
}

// --- Debugging -------------------------------------------------------------

// Scopes returns the scopes visible for resolution, in resolution order: the scopes
// of the active frame, innermost first, then the global store.
func (m *Memory) Scopes() []*Scope {
	var scopes []*Scope
	if fr := m.activeFrame(); fr != nil {
		for _, sc := range fr.scopes.Values() {
			scopes = append(scopes, sc.(*Scope))
		}
	}
	if m.globals != nil {
		scopes = append(scopes, m.globals)
	}
	return scopes
}

// Dump traces the slots of the active frame and of the global store.
func (m *Memory) Dump(level tracing.TraceLevel) {
	dump := tracer().Infof
	if level == tracing.LevelDebug {
		dump = tracer().Debugf
	}
	if fr := m.activeFrame(); fr != nil {
		if fr.IsRoot() {
			dump("%v, top-level program", fr)
		} else {
			dump("%v called from %v, %d frames down to %v", fr, fr.Parent, m.calls.Depth(), m.calls.Root())
		}
	}
	for _, sc := range m.Scopes() {
		dumpScope(sc, dump)
	}
	dump("reachable objects: %d", m.reachable)
}

func dumpScope(sc *Scope, dump func(string, ...interface{})) {
	dump("  %v", sc)
	for _, nm := range sc.Names() {
		dump("    %v", sc.Lookup(nm))
	}
}
