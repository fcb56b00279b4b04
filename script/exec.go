package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/corerun/memory"
)

// Node is an item of a parsed script.
type Node interface {
	exec(*Interpreter) error
	String() string
}

// Errors of the script executor. They are fatal, just as memory errors.
var (
	ErrNotInBody    = errors.New("statement outside of program body")
	ErrFuncInBody   = errors.New("function definition inside program body")
	ErrNestedBegin  = errors.New("begin inside program body")
	ErrEndNotInBody = errors.New("end outside of program body")
)

// Interpreter executes script nodes against a memory manager.
type Interpreter struct {
	mem *memory.Memory
	out io.Writer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer for print statements and gc diagnostics. Default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(intp *Interpreter) {
		intp.out = w
	}
}

// NewInterpreter creates an interpreter with a fresh, globally initialized memory.
func NewInterpreter(opts ...Option) *Interpreter {
	intp := &Interpreter{out: os.Stdout}
	for _, opt := range opts {
		opt(intp)
	}
	intp.mem = memory.New(memory.WithDiagnostics(intp.out))
	intp.mem.InitializeGlobal()
	return intp
}

// Memory returns the interpreter's memory manager.
func (intp *Interpreter) Memory() *memory.Memory {
	return intp.mem
}

// InBody is a predicate: has 'begin' been executed, but not 'end'?
func (intp *Interpreter) InBody() bool {
	return intp.mem.Depth() > 0
}

// Exec executes nodes in order. It stops at the first error, which is fatal for
// the program run.
func (intp *Interpreter) Exec(nodes []Node) error {
	for _, n := range nodes {
		tracer().Debugf("exec %v", n)
		if err := n.exec(intp); err != nil {
			return err
		}
	}
	return nil
}

// Reset tears down global memory and starts over with an empty one.
func (intp *Interpreter) Reset() {
	intp.mem.TeardownGlobal()
	intp.mem.InitializeGlobal()
}

// Run parses and executes a complete script, bracketed by global initialization
// and teardown. A script without 'end' is finished as if 'end' was its last line.
func Run(input string, out io.Writer) error {
	nodes, err := Parse(input)
	if err != nil {
		return err
	}
	intp := NewInterpreter(WithOutput(out))
	if err = intp.Exec(nodes); err != nil {
		return err
	}
	for intp.InBody() {
		if err = intp.mem.ReturnFromFrame(); err != nil {
			return err
		}
	}
	intp.mem.TeardownGlobal()
	return nil
}

// --- Nodes -----------------------------------------------------------------

type beginNode struct{}

func (beginNode) exec(intp *Interpreter) error {
	if intp.InBody() {
		return ErrNestedBegin
	}
	intp.mem.InitializeLocal()
	return nil
}

func (beginNode) String() string { return "begin" }

type endNode struct{}

func (endNode) exec(intp *Interpreter) error {
	if intp.mem.Depth() != 1 {
		return ErrEndNotInBody
	}
	return intp.mem.ReturnFromFrame()
}

func (endNode) String() string { return "end" }

type declNode struct {
	object bool
	names  []string
}

func (d *declNode) exec(intp *Interpreter) error {
	for _, nm := range d.names {
		var err error
		if d.object {
			err = intp.mem.DeclareObject(nm)
		} else {
			err = intp.mem.DeclareInteger(nm)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *declNode) String() string {
	if d.object {
		return "obj " + strings.Join(d.names, ", ")
	}
	return "int " + strings.Join(d.names, ", ")
}

type funcNode struct {
	name   string
	params []string
	body   *blockNode
}

func (f *funcNode) exec(intp *Interpreter) error {
	if intp.InBody() {
		return ErrFuncInBody
	}
	// the body runs in the function's initial scope, not in a nested one
	body := memory.BodyFunc(func(*memory.Memory) error {
		return intp.Exec(f.body.stmts)
	})
	intp.mem.Define(f.name, f.params, body)
	return nil
}

func (f *funcNode) String() string {
	return fmt.Sprintf("func %s(%s) %v", f.name, strings.Join(f.params, ", "), f.body)
}

type blockNode struct {
	stmts []Node
}

func (b *blockNode) exec(intp *Interpreter) error {
	if !intp.InBody() {
		return ErrNotInBody
	}
	if err := intp.mem.EnterScope(); err != nil {
		return err
	}
	if err := intp.Exec(b.stmts); err != nil {
		return err
	}
	return intp.mem.ExitScope()
}

func (b *blockNode) String() string {
	return fmt.Sprintf("{ %d stmts }", len(b.stmts))
}

type callNode struct {
	name string
	args []string
}

func (c *callNode) exec(intp *Interpreter) error {
	if !intp.InBody() {
		return ErrNotInBody
	}
	return intp.mem.CallAndExecute(c.name, c.args)
}

func (c *callNode) String() string {
	return fmt.Sprintf("call %s(%s)", c.name, strings.Join(c.args, ", "))
}

// operand is a literal or a variable access, optionally qualified by a key.
type operand struct {
	literal bool
	value   int64
	name    string
	key     string
}

func (op operand) eval(mem *memory.Memory) (int64, error) {
	if op.literal {
		return op.value, nil
	}
	if op.key != "" {
		return mem.LoadField(op.name, op.key)
	}
	return mem.Load(op.name)
}

func (op operand) String() string {
	if op.literal {
		return fmt.Sprintf("%d", op.value)
	}
	if op.key != "" {
		return op.name + "." + op.key
	}
	return op.name
}

type printNode struct {
	value operand
}

func (pr *printNode) exec(intp *Interpreter) error {
	if !intp.InBody() {
		return ErrNotInBody
	}
	v, err := pr.value.eval(intp.mem)
	if err != nil {
		return err
	}
	fmt.Fprintf(intp.out, "%d\n", v)
	return nil
}

func (pr *printNode) String() string {
	return "print " + pr.value.String()
}

type storeNode struct {
	name  string
	key   string
	value operand
}

func (st *storeNode) exec(intp *Interpreter) error {
	if !intp.InBody() {
		return ErrNotInBody
	}
	v, err := st.value.eval(intp.mem)
	if err != nil {
		return err
	}
	if st.key != "" {
		return intp.mem.StoreField(st.name, st.key, v)
	}
	return intp.mem.Store(st.name, v)
}

func (st *storeNode) String() string {
	if st.key != "" {
		return fmt.Sprintf("%s.%s = %v", st.name, st.key, st.value)
	}
	return fmt.Sprintf("%s = %v", st.name, st.value)
}

type allocNode struct {
	name  string
	key   string
	value operand
}

func (a *allocNode) exec(intp *Interpreter) error {
	if !intp.InBody() {
		return ErrNotInBody
	}
	v, err := a.value.eval(intp.mem)
	if err != nil {
		return err
	}
	return intp.mem.Allocate(a.name, a.key, v)
}

func (a *allocNode) String() string {
	return fmt.Sprintf("%s = new(%s, %v)", a.name, a.key, a.value)
}

type aliasNode struct {
	lhs, rhs string
}

func (al *aliasNode) exec(intp *Interpreter) error {
	if !intp.InBody() {
		return ErrNotInBody
	}
	return intp.mem.Alias(al.lhs, al.rhs)
}

func (al *aliasNode) String() string {
	return al.lhs + " : " + al.rhs
}
