package memory

import (
	"fmt"
	"sort"
)

// Body is the executable body of a function. It is provided by the statement
// executor of the interpreter and runs against the frame of its activation.
type Body interface {
	Execute(*Memory) error
}

// BodyFunc is an adapter to use an ordinary function as a Body.
type BodyFunc func(*Memory) error

// Execute calls f(m).
func (f BodyFunc) Execute(m *Memory) error {
	return f(m)
}

// Function is a named function with ordered formal parameters.
type Function struct {
	Name   string
	Params []string
	Body   Body
}

func (f *Function) String() string {
	return fmt.Sprintf("<func %s%v>", f.Name, f.Params)
}

// FunctionTable maps function names to functions.
type FunctionTable struct {
	table map[string]*Function
}

// NewFunctionTable creates an empty function table.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{table: make(map[string]*Function)}
}

// Define enters a function into the table. Overwrites an existing function with
// this name, if any, and returns it (or nil).
func (ft *FunctionTable) Define(f *Function) *Function {
	old := ft.table[f.Name]
	ft.table[f.Name] = f
	return old
}

// Lookup finds a function by name. Returns the function or nil.
func (ft *FunctionTable) Lookup(nm string) *Function {
	return ft.table[nm]
}

// Names returns the names of all functions, sorted.
func (ft *FunctionTable) Names() []string {
	names := make([]string, 0, len(ft.table))
	for nm := range ft.table {
		names = append(names, nm)
	}
	sort.Strings(names)
	return names
}

// Define enters a function into the function table of m.
func (m *Memory) Define(nm string, params []string, body Body) {
	f := &Function{Name: nm, Params: params, Body: body}
	if old := m.Functions().Define(f); old != nil {
		tracer().Infof("function %s redefined", nm)
	}
}

// --- Calls -----------------------------------------------------------------

// CallAndExecute invokes function nm with actual arguments args, which are names of
// variables visible in the calling frame.
//
// Integer arguments are passed by value. Object arguments are passed by reference:
// the formal parameter shares the caller's heap object and holds an ownership of its
// own for the duration of the call.
//
// After the body executed successfully, the frame is returned from. If the body
// fails, the error is returned and the call stack is left as is.
func (m *Memory) CallAndExecute(nm string, args []string) error {
	f := m.Functions().Lookup(nm)
	if f == nil {
		return newError(UndefinedFunction, nm)
	}
	if len(args) != len(f.Params) {
		return newError(ArgumentMismatch, nm)
	}
	if m.activeFrame() == nil {
		return newError(NoActiveFrame, nm)
	}
	actuals := make([]*Slot, len(args))
	for i, arg := range args {
		slot, err := m.Resolve(arg) // in the caller's frame
		if err != nil {
			return err
		}
		actuals[i] = slot
	}
	fr := NewFrame(nm)
	sc := fr.Current()
	for i, actual := range actuals {
		formal, old := sc.define(f.Params[i], actual.kind)
		if old != nil && old.holds() { // duplicate formal parameter name
			m.release(old.obj)
		}
		if actual.kind == ObjectKind {
			formal.obj = actual.obj
			m.acquire(formal.obj)
		} else {
			formal.value = actual.value
		}
	}
	m.calls.Push(fr)
	if f.Body != nil {
		if err := f.Body.Execute(m); err != nil {
			return err
		}
	}
	return m.ReturnFromFrame()
}

// ReturnFromFrame pops the active frame and releases the handles held by all of its
// scopes, including scopes left open by the function body.
func (m *Memory) ReturnFromFrame() error {
	if m.activeFrame() == nil {
		return newError(NoActiveFrame)
	}
	fr := m.calls.Pop()
	for sc := fr.PopScope(); sc != nil; sc = fr.PopScope() {
		m.releaseAll(sc)
	}
	return nil
}
