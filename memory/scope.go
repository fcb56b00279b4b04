package memory

import (
	"fmt"
	"sort"
)

// Storage for variables. Slots are stored into scopes, scopes are stacked within
// frames and frames are stacked on a call stack.
//

// --- Slots -----------------------------------------------------------------

// Kind is the kind of a variable slot. A slot keeps its kind for its entire
// lifetime; only the payload changes.
type Kind int8

// Kinds of variables in Core.
const (
	IntegerKind Kind = iota
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case IntegerKind:
		return "integer"
	case ObjectKind:
		return "object"
	}
	return fmt.Sprintf("kind(%d)", int8(k))
}

// Slot is a typed storage cell for a variable. Integer slots hold a value, object
// slots hold a (possibly nil) handle to a heap object.
//
// An object slot shares ownership of its heap object with every other slot holding
// the same handle.
type Slot struct {
	name  string
	kind  Kind
	value int64
	obj   *HeapObject
}

func newSlot(nm string, k Kind) *Slot {
	return &Slot{name: nm, kind: k}
}

// Name gets the slot's variable name.
func (s *Slot) Name() string {
	return s.name
}

// Kind gets the slot's kind.
func (s *Slot) Kind() Kind {
	return s.kind
}

// Object returns the heap object an object slot refers to, or nil.
func (s *Slot) Object() *HeapObject {
	return s.obj
}

// holds is a predicate: is this an object slot with a non-nil handle?
func (s *Slot) holds() bool {
	return s.kind == ObjectKind && s.obj != nil
}

// String is a debug Stringer for slots.
func (s *Slot) String() string {
	if s.kind == IntegerKind {
		return fmt.Sprintf("<int %s=%d>", s.name, s.value)
	}
	if s.obj == nil {
		return fmt.Sprintf("<obj %s=null>", s.name)
	}
	return fmt.Sprintf("<obj %s=%v>", s.name, s.obj)
}

// === Scopes ================================================================

// Scope is a set of variable slots introduced within one lexical block.
// The global store is a scope, too.
type Scope struct {
	Name  string
	slots map[string]*Slot
}

// NewScope creates an empty scope.
func NewScope(nm string) *Scope {
	return &Scope{
		Name:  nm,
		slots: make(map[string]*Slot),
	}
}

// Prettyfied Stringer.
func (sc *Scope) String() string {
	return fmt.Sprintf("<scope %s>", sc.Name)
}

// define creates a new slot in the scope. Overwrites an existing slot with this
// name, if any. Returns the new slot and the previously stored slot (or nil).
func (sc *Scope) define(nm string, k Kind) (*Slot, *Slot) {
	slot := newSlot(nm, k)
	old := sc.slots[nm]
	sc.slots[nm] = slot
	return slot, old
}

// Lookup checks for a slot in the scope. Returns the slot or nil.
func (sc *Scope) Lookup(nm string) *Slot {
	return sc.slots[nm]
}

// Size counts the slots in a scope.
func (sc *Scope) Size() int {
	return len(sc.slots)
}

// Names returns the names of the slots in the scope, sorted.
func (sc *Scope) Names() []string {
	names := make([]string, 0, len(sc.slots))
	for nm := range sc.slots {
		names = append(names, nm)
	}
	sort.Strings(names)
	return names
}

// Each iterates over each slot in the scope, executing a mapper function.
// Iteration order is unspecified.
func (sc *Scope) Each(mapper func(string, *Slot)) {
	for k, v := range sc.slots {
		mapper(k, v)
	}
}

// releaseAll gives up every heap object handle held by slots of sc.
func (m *Memory) releaseAll(sc *Scope) {
	sc.Each(func(_ string, slot *Slot) {
		if slot.holds() {
			m.release(slot.obj)
		}
	})
}
