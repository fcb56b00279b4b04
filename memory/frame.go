package memory

import (
	"fmt"

	"github.com/emirpasic/gods/stacks/arraystack"
)

// This module implements a stack of call frames.
// Every function activation, including the top-level program, gets a frame of
// its own, holding a stack of lexical scopes.

// Frame is the memory of one function activation: a stack of scopes, innermost
// scope on top.
type Frame struct {
	Name   string
	Parent *Frame // calling frame; never searched during resolution
	scopes *arraystack.Stack
}

// NewFrame creates a new frame with a single, empty scope.
func NewFrame(nm string) *Frame {
	fr := &Frame{
		Name:   nm,
		scopes: arraystack.New(),
	}
	fr.PushScope()
	return fr
}

func (fr *Frame) String() string {
	return fmt.Sprintf("<frame %s [%d scopes]>", fr.Name, fr.scopes.Size())
}

// IsRoot is a predicate: Is this the frame of the top-level program?
func (fr *Frame) IsRoot() bool {
	return fr.Parent == nil
}

// PushScope pushes a new, empty scope onto the frame.
func (fr *Frame) PushScope() *Scope {
	sc := NewScope(fmt.Sprintf("%s/%d", fr.Name, fr.scopes.Size()))
	fr.scopes.Push(sc)
	return sc
}

// PopScope pops the innermost scope. Returns nil if the frame has no scopes left.
func (fr *Frame) PopScope() *Scope {
	sc, ok := fr.scopes.Pop()
	if !ok {
		return nil
	}
	return sc.(*Scope)
}

// Current gets the innermost scope of the frame, or nil.
func (fr *Frame) Current() *Scope {
	sc, ok := fr.scopes.Peek()
	if !ok {
		return nil
	}
	return sc.(*Scope)
}

// Depth returns the number of scopes on the frame.
func (fr *Frame) Depth() int {
	return fr.scopes.Size()
}

// Lookup searches the scopes of the frame from innermost to outermost.
// Returns the slot or nil. Does not modify the scope stack.
func (fr *Frame) Lookup(nm string) *Slot {
	it := fr.scopes.Iterator() // LIFO order
	for it.Next() {
		if slot := it.Value().(*Scope).Lookup(nm); slot != nil {
			return slot
		}
	}
	return nil
}

// ---------------------------------------------------------------------------

// CallStack is a stack of call frames.
type CallStack struct {
	frameBase *Frame
	frameTOS  *Frame
	depth     int
}

// Current gets the active frame (TOS), or nil if the stack is empty.
func (cs *CallStack) Current() *Frame {
	return cs.frameTOS
}

// Root gets the bottommost frame, i.e. the frame of the top-level program.
func (cs *CallStack) Root() *Frame {
	return cs.frameBase
}

// Depth returns the number of frames on the stack.
func (cs *CallStack) Depth() int {
	return cs.depth
}

// Push pushes fr as the new TOS, having the recent TOS as its parent.
func (cs *CallStack) Push(fr *Frame) *Frame {
	fr.Parent = cs.frameTOS
	if cs.frameTOS == nil {
		cs.frameBase = fr
	}
	cs.frameTOS = fr
	cs.depth++
	tracer().P("frame", fr.Name).Debugf("pushing new call frame")
	return fr
}

// Pop pops the top-most frame. Returns the popped frame, or nil if the stack is empty.
func (cs *CallStack) Pop() *Frame {
	if cs.frameTOS == nil {
		return nil
	}
	fr := cs.frameTOS
	tracer().Debugf("popping call frame [%s]", fr.Name)
	cs.frameTOS = fr.Parent
	if cs.frameTOS == nil {
		cs.frameBase = nil
	}
	cs.depth--
	return fr
}
